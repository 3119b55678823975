package echoapi

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/vikasdeshmukh63/school-application-dashboard/core"
	"github.com/vikasdeshmukh63/school-application-dashboard/core/school"
)

type (
	Options struct {
		Address        string
		DisableReqLogs bool

		SchoolSvc *school.Service
		Auth      core.AccountAuthenticator // nil when a hosted provider runs sessions
		Logger    core.Logger
	}

	Server interface {
		http.Handler
		Start()
		Stop(context.Context) error

		// Shutdown is signalled when a request hit an unrecoverable error
		// and the process should drain and exit.
		Shutdown() <-chan struct{}
	}

	server struct {
		opts     *Options
		app      *echo.Echo
		shutdown chan struct{}
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options) Server {
	s := &server{
		opts:     opts,
		app:      echo.New(),
		shutdown: make(chan struct{}, 1),
	}
	s.setup()
	return s
}

func (s *server) Shutdown() <-chan struct{} { return s.shutdown }

func (s *server) signalShutdown() {
	select {
	case s.shutdown <- struct{}{}:
	default:
	}
}

func (s *server) setup() {
	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(core.Conf.Debug || core.Conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Logger, s.signalShutdown)
	s.app.Debug = core.Conf.Debug && !core.Conf.TestMode
	s.app.HideBanner = true

	s.app.GET("/", home)

	v1 := s.app.Group("/v1")
	jwt := middleware.JWTWithConfig(appJWTConfig)

	registerAuthAPI(v1, jwt, s.opts.Auth)
	registerTeacherAPI(v1, jwt, s.opts.SchoolSvc, s.opts.Logger)
	registerStudentAPI(v1, jwt, s.opts.SchoolSvc, s.opts.Logger)
	registerParentAPI(v1, jwt, s.opts.SchoolSvc, s.opts.Logger)
	registerSubjectAPI(v1, jwt, s.opts.SchoolSvc, s.opts.Logger)
	registerClassAPI(v1, jwt, s.opts.SchoolSvc, s.opts.Logger)
	registerLessonAPI(v1, jwt, s.opts.SchoolSvc, s.opts.Logger)
	registerExamAPI(v1, jwt, s.opts.SchoolSvc, s.opts.Logger)
	registerAssignmentAPI(v1, jwt, s.opts.SchoolSvc, s.opts.Logger)
	registerResultAPI(v1, jwt, s.opts.SchoolSvc, s.opts.Logger)
	registerAttendanceAPI(v1, jwt, s.opts.SchoolSvc, s.opts.Logger)
	registerEventAPI(v1, jwt, s.opts.SchoolSvc, s.opts.Logger)
	registerAnnouncementAPI(v1, jwt, s.opts.SchoolSvc, s.opts.Logger)
}

func (s *server) Start() {
	s.app.Logger.Fatal(s.app.Start(s.opts.Address))
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to "+core.Conf.AppName+" API!")
}
