package httpapp

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	appmw "agri_trade/internal/middleware"
	httprouters "agri_trade/internal/transport/http"
	"agri_trade/internal/transport/http/dto/response"

	"github.com/arl/statsviz"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"
)

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

type Options struct {
	Host           string
	Port           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	AllowOrigins   []string
	SessionSecret  string
	CookieName     string
	MaxUploadSize  string
	LoginRateLimit float64
	// UploadsDir раздаётся как /uploads, если задан (локальный backend)
	UploadsDir string
}

type Server struct {
	m        *http.ServeMux
	log      *slog.Logger
	e        *echo.Echo
	routers  *httprouters.Routers
	verifier appmw.SessionVerifier
	opts     Options
}

func New(log *slog.Logger, opts Options, routers *httprouters.Routers, verifier appmw.SessionVerifier) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Server.ReadTimeout = opts.ReadTimeout
	e.Server.WriteTimeout = opts.WriteTimeout

	validate := validator.New()
	e.Validator = &CustomValidator{validator: validate}

	e.Use(session.Middleware(sessions.NewCookieStore([]byte(opts.SessionSecret))))

	if len(opts.AllowOrigins) > 0 {
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins:     opts.AllowOrigins,
			AllowMethods:     []string{echo.GET, echo.POST, echo.PATCH, echo.DELETE},
			AllowCredentials: true,
		}))
	} else {
		e.Use(middleware.CORS())
	}
	e.Use(middleware.Recover())
	e.Use(appmw.PrometheusMetrics)

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:      true,
		LogMethod:   true,
		LogStatus:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.Info("request",
				slog.String("method", v.Method),
				slog.String("URI", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("remote ip", v.RemoteIP),
			)

			return nil
		},
	}))

	mux := http.NewServeMux()
	err := statsviz.Register(mux)
	if err != nil {
		log.Info("Statsviz start with error", slog.Any("error:", err.Error()))
	}

	return &Server{
		m:        mux,
		log:      log,
		e:        e,
		routers:  routers,
		verifier: verifier,
		opts:     opts,
	}
}

// Handler нужен тестам, чтобы гонять запросы без сокета
func (s *Server) Handler() http.Handler {
	return s.e
}

func (s *Server) MustRun() {
	const op = "http.Server.MustRun"

	s.log.Info(op, slog.String("Start", "server"), slog.String("port", s.opts.Port))

	if err := s.Start(); err != nil {
		panic(err)
	}
}

func (s *Server) Start() error {
	const op = "http.Server.Start"

	if err := s.e.Start(fmt.Sprintf("%s:%s", s.opts.Host, s.opts.Port)); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("%s server stopped: %w", op, err)
	}

	return nil
}

func (s *Server) Stop() error {
	const op = "http.Server.Stop"

	optCtx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	s.log.Info("stopping", slog.String("op", op))

	if err := s.e.Shutdown(optCtx); err != nil {
		return fmt.Errorf("%s could not shutdown server gracefuly: %w", op, err)
	}

	return nil
}

func (s *Server) loginLimiter() echo.MiddlewareFunc {
	limit := s.opts.LoginRateLimit
	if limit <= 0 {
		limit = 1
	}

	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(limit),
			Burst:     5,
			ExpiresIn: 3 * time.Minute,
		}),
		DenyHandler: func(c echo.Context, _ string, _ error) error {
			return c.JSON(http.StatusTooManyRequests, response.ErrorResponse{Status: "error", Error: "Too many requests"})
		},
	})
}

func (s *Server) BuildRouters() {
	guard := appmw.RequireSession(s.verifier, s.opts.CookieName)

	uploadLimit := middleware.BodyLimit(s.opts.MaxUploadSize)
	if s.opts.MaxUploadSize == "" {
		uploadLimit = middleware.BodyLimit("50M")
	}

	debug := s.e.Group("/debug")
	{
		debug.GET("/statsviz/", echo.WrapHandler(s.m))
		debug.GET("/statsviz/*", echo.WrapHandler(s.m))
	}

	swagger := s.e.Group("/swag")
	{
		swagger.GET("/swagger/*", echoSwagger.WrapHandler)
	}

	s.e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	if s.opts.UploadsDir != "" {
		s.e.Static("/uploads", s.opts.UploadsDir)
	}

	api := s.e.Group("/api")
	{
		api.GET("/health", s.routers.Health)
		api.GET("/assets/resolve", s.routers.ResolveAsset)

		galleryGroup := api.Group("/gallery")
		{
			galleryGroup.GET("", s.routers.ListGalleries)
			galleryGroup.GET("/local", s.routers.ListLocalGalleries)
			galleryGroup.POST("", s.routers.CreateGallery, guard, uploadLimit)
			galleryGroup.PATCH("", s.routers.UpdateGallery, guard, uploadLimit)
			galleryGroup.DELETE("", s.routers.DeleteGallery, guard)
		}

		authGroup := api.Group("/auth")
		{
			authGroup.POST("/login", s.routers.Login, s.loginLimiter())
			authGroup.POST("/logout", s.routers.Logout, guard)
			authGroup.GET("/session", s.routers.CurrentSession, guard)
		}

		accountGroup := api.Group("/account", guard)
		{
			accountGroup.GET("", s.routers.ListAccounts)
			accountGroup.POST("", s.routers.CreateAccount)
			accountGroup.PATCH("", s.routers.UpdateAccount)
			accountGroup.DELETE("", s.routers.DeleteAccount)
		}

		settingsGroup := api.Group("/settings")
		{
			settingsGroup.GET("", s.routers.GetSettings)
			settingsGroup.POST("", s.routers.UpdateSettings, guard)
		}
	}
}
