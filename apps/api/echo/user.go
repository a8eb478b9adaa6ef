package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/Luis-AP/gespro/core"
	"github.com/Luis-AP/gespro/core/user"
)

type userApi struct {
	svc user.ServiceInterface
}

func registerAuthAPI(g *echo.Group, svc user.ServiceInterface) {
	api := userApi{svc: svc}

	ag := g.Group("/auth")

	// un-authed endpoints
	// TODO: rate limit `/login`
	ag.POST("/register", api.register)
	ag.POST("/login", api.login)
}

func registerUserAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc user.ServiceInterface) {
	api := userApi{svc: svc}

	g.GET("/students", api.queryStudents, jwt)
	g.GET("/professors", api.queryProfessors, jwt)
}

// Handlers

func (api *userApi) register(ctx echo.Context) error {
	var data user.NewStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudent")
	}
	if err := data.Validate(ctx.Request().Context(), api.svc); err != nil {
		return err
	}

	usr, err := api.svc.RegisterStudent(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "registering student")
	}

	return ctx.JSON(http.StatusCreated, usr)
}

func (api *userApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	claims, err := authenticate(ctx.Request().Context(), data.Email, data.Password, api.svc)
	if err != nil {
		return errors.Wrap(err, "authenticating")
	}
	token, err := GenerateToken(claims)
	if err != nil {
		return errors.Wrap(err, "generating token")
	}

	return ctx.JSON(http.StatusOK, LoginResponse{Token: token, Role: claims.Role})
}

func (api *userApi) queryStudents(ctx echo.Context) error {
	students, err := api.svc.QueryStudents(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	if students == nil {
		students = []user.User{}
	}
	return ctx.JSON(http.StatusOK, students)
}

func (api *userApi) queryProfessors(ctx echo.Context) error {
	professors, err := api.svc.QueryProfessors(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying professors")
	}
	if professors == nil {
		professors = []user.User{}
	}
	return ctx.JSON(http.StatusOK, professors)
}

type (
	LoginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	LoginResponse struct {
		Token string `json:"token"`
		Role  string `json:"role"`
	}
)

func (lr *LoginRequest) Validate() error {
	lr.Email = core.CleanString(lr.Email, true /* lower */)
	return core.Validate.Struct(lr)
}
