package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Luis-AP/gespro/core/activity"
	"github.com/Luis-AP/gespro/core/project"
	"github.com/Luis-AP/gespro/core/user"
)

type activityApi struct {
	svc    activity.ServiceInterface
	prjSvc project.ServiceInterface
}

func registerActivityAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc activity.ServiceInterface, prjSvc project.ServiceInterface) {
	api := activityApi{svc: svc, prjSvc: prjSvc}

	ag := g.Group("/activities", jwt)

	ag.GET("", api.query)
	ag.GET("/:id", api.retrieve)
	ag.POST("", api.create, roleMiddleware(user.RoleProfessor))

	// detail endpoints restricted to the owning professor
	dg := ag.Group("/:id", roleMiddleware(user.RoleProfessor))
	dg.PATCH("", api.update)
	dg.DELETE("", api.destroy)
	dg.GET("/grades", api.grades)
}

// Handlers

func (api *activityApi) create(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var data activity.NewActivity
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewActivity")
	}

	act, err := api.svc.Create(ctx.Request().Context(), data, claims.ProfessorID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, act)
}

// query lists all activities; professors only see their own unless they
// filter explicitly.
func (api *activityApi) query(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	professorID, err := queryIntParam(ctx, "professor_id")
	if err != nil {
		return err
	}
	if professorID == 0 && claims.Role == user.RoleProfessor {
		professorID = claims.ProfessorID
	}

	activities, err := api.svc.Query(ctx.Request().Context(), professorID)
	if err != nil {
		return err
	}
	if activities == nil {
		activities = []activity.Activity{}
	}
	return ctx.JSON(http.StatusOK, activities)
}

func (api *activityApi) retrieve(ctx echo.Context) error {
	id, err := pathIntParam(ctx, "id")
	if err != nil {
		return err
	}

	act, err := api.svc.Get(ctx.Request().Context(), id, 0)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, act)
}

func (api *activityApi) update(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	id, err := pathIntParam(ctx, "id")
	if err != nil {
		return err
	}

	var data activity.UpdateActivity
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateActivity")
	}

	act, err := api.svc.Update(ctx.Request().Context(), data, id, claims.ProfessorID)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, act)
}

func (api *activityApi) destroy(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	id, err := pathIntParam(ctx, "id")
	if err != nil {
		return err
	}

	if err := api.svc.Delete(ctx.Request().Context(), id, claims.ProfessorID); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *activityApi) grades(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	id, err := pathIntParam(ctx, "id")
	if err != nil {
		return err
	}

	projects, err := api.prjSvc.Grades(ctx.Request().Context(), id, claims.ProfessorID)
	if err != nil {
		return err
	}
	if projects == nil {
		projects = []project.Project{}
	}
	return ctx.JSON(http.StatusOK, projects)
}

func pathIntParam(ctx echo.Context, name string) (int, error) {
	val, err := strconv.Atoi(ctx.Param(name))
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusNotFound, "not found")
	}
	return val, nil
}

func queryIntParam(ctx echo.Context, name string) (int, error) {
	raw := ctx.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return val, nil
}
