package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Luis-AP/gespro/core/project"
	"github.com/Luis-AP/gespro/core/user"
)

type projectApi struct {
	svc project.ServiceInterface
}

func registerProjectAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc project.ServiceInterface) {
	api := projectApi{svc: svc}

	pg := g.Group("/projects", jwt)

	pg.GET("", api.query)
	pg.POST("", api.create, roleMiddleware(user.RoleStudent))

	student := roleMiddleware(user.RoleStudent)
	pg.PATCH("/:id", api.update, student)
	pg.DELETE("/:id", api.destroy, student)
	pg.POST("/:id/members", api.addMember, student)
	pg.DELETE("/:id/members/:studentID", api.removeMember, student)

	pg.PATCH("/:id/grade", api.grade, roleMiddleware(user.RoleProfessor))
}

// Handlers

func (api *projectApi) create(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var data project.NewProject
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewProject")
	}

	prj, err := api.svc.Create(ctx.Request().Context(), data, claims.StudentID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, prj)
}

// query lists projects scoped to the caller: students see projects they are
// a member of, professors see projects under their activities.
func (api *projectApi) query(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var filter project.Filter
	switch claims.Role {
	case user.RoleStudent:
		filter.StudentID = claims.StudentID
	case user.RoleProfessor:
		filter.ProfessorID = claims.ProfessorID
	default:
		return errHttpForbidden
	}
	if filter.ActivityID, err = queryIntParam(ctx, "activity_id"); err != nil {
		return err
	}

	details, err := api.svc.Query(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying projects")
	}
	if details == nil {
		details = []project.Detail{}
	}
	return ctx.JSON(http.StatusOK, details)
}

func (api *projectApi) update(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	id, err := pathIntParam(ctx, "id")
	if err != nil {
		return err
	}

	var data project.UpdateProject
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateProject")
	}

	prj, err := api.svc.Update(ctx.Request().Context(), data, id, claims.StudentID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, prj)
}

func (api *projectApi) destroy(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	id, err := pathIntParam(ctx, "id")
	if err != nil {
		return err
	}

	if err := api.svc.Delete(ctx.Request().Context(), id, claims.StudentID); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *projectApi) addMember(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	id, err := pathIntParam(ctx, "id")
	if err != nil {
		return err
	}

	var data AddMemberRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to AddMemberRequest")
	}

	member, err := api.svc.AddMember(ctx.Request().Context(), id, data.StudentID, claims.StudentID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, member)
}

func (api *projectApi) removeMember(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	id, err := pathIntParam(ctx, "id")
	if err != nil {
		return err
	}
	studentID, err := pathIntParam(ctx, "studentID")
	if err != nil {
		return err
	}

	if err := api.svc.RemoveMember(ctx.Request().Context(), id, studentID, claims.StudentID); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *projectApi) grade(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	id, err := pathIntParam(ctx, "id")
	if err != nil {
		return err
	}

	var data GradeRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to GradeRequest")
	}

	prj, err := api.svc.Grade(ctx.Request().Context(), id, claims.ProfessorID, data.Grade)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, prj)
}

type (
	AddMemberRequest struct {
		StudentID int `json:"student_id"`
	}

	GradeRequest struct {
		Grade string `json:"grade"`
	}
)
