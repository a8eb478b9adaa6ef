package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/Luis-AP/gespro/core"
	"github.com/Luis-AP/gespro/core/activity"
	"github.com/Luis-AP/gespro/core/project"
	"github.com/Luis-AP/gespro/core/user"
)

type (
	Options struct {
		Address        string
		DisableReqLogs bool

		Conf   *core.Config
		Logger core.Logger

		UserSvc     user.ServiceInterface
		ActivitySvc activity.ServiceInterface
		ProjectSvc  project.ServiceInterface
	}

	Server interface {
		http.Handler
		Start()
		Shutdown(context.Context) error
		Close() error
		Errors() <-chan error
		ShutdownSignal() <-chan os.Signal
	}

	server struct {
		opts   *Options
		app    *echo.Echo
		errCh  chan error
		shutCh chan os.Signal
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options) Server {
	s := &server{
		opts:   opts,
		app:    echo.New(),
		errCh:  make(chan error, 1),
		shutCh: make(chan os.Signal, 1),
	}
	signal.Notify(s.shutCh, os.Interrupt, syscall.SIGTERM)
	s.setup()
	return s
}

func (s *server) setup() {
	conf := s.opts.Conf

	appJWTConfig.SigningKey = []byte(conf.SecretKey)
	jwtIssuer = conf.AppName
	jwtExpirationDelta = conf.Server.JWTExpirationDelta

	s.app.Pre(middleware.RemoveTrailingSlash())
	s.app.Use(middleware.CORS())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Logger, s.signalShutdown)
	s.app.Debug = conf.Debug

	s.app.GET("/", home)

	api := s.app.Group("/api")
	jwt := middleware.JWTWithConfig(appJWTConfig)

	registerAuthAPI(api, s.opts.UserSvc)
	registerUserAPI(api, jwt, s.opts.UserSvc)
	registerActivityAPI(api, jwt, s.opts.ActivitySvc, s.opts.ProjectSvc)
	registerProjectAPI(api, jwt, s.opts.ProjectSvc)
}

func (s *server) Start() {
	if err := s.app.Start(s.opts.Address); err != nil {
		s.errCh <- err
	}
}

func (s *server) Shutdown(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) Close() error {
	return s.app.Close()
}

func (s *server) Errors() <-chan error {
	return s.errCh
}

func (s *server) ShutdownSignal() <-chan os.Signal {
	return s.shutCh
}

// signalShutdown sends a SIGTERM down the shutdown channel when an
// unrecoverable error is caught.
func (s *server) signalShutdown() {
	s.shutCh <- syscall.SIGTERM
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to Gespro API!")
}
