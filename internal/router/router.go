package router

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	"referrals/internal/auth"
	"referrals/internal/config"
	apperrors "referrals/internal/errors"
	"referrals/internal/handler"
)

// bodyOverhead is allowed on top of the resume limit for the other form fields.
const bodyOverhead = 1 << 20

// Register wires middleware and routes.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	log *zap.Logger,
	gate *auth.Gate,
	authHandler *handler.AuthHandler,
	candidateHandler *handler.CandidateHandler,
) {
	e.Validator = NewValidator()
	e.HTTPErrorHandler = ErrorHandler(log)

	e.Use(middleware.RequestID())
	e.Use(requestLogger(log))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowCredentials: true,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{
			echo.HeaderOrigin,
			echo.HeaderContentType,
			echo.HeaderAccept,
			echo.HeaderAuthorization,
		},
	}))
	e.Use(middleware.BodyLimit(fmt.Sprintf("%dK", (cfg.MaxResumeBytes+bodyOverhead)/1024+1)))

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.GET("/", handler.Hello)
	api.POST("/auth/signup", authHandler.Signup)
	api.POST("/auth/login", authHandler.Login)

	// Secured routes (require a bearer token)
	secured := api.Group("", gate.Middleware())

	secured.GET("/auth/me", authHandler.Me)

	secured.POST("/candidates", candidateHandler.Create)
	secured.GET("/candidates", candidateHandler.List)
	secured.GET("/candidates/stats", candidateHandler.Stats)
	secured.PUT("/candidates/:id/status", candidateHandler.UpdateStatus)
	secured.DELETE("/candidates/:id", candidateHandler.Delete)
}

func requestLogger(log *zap.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		HandleError:  true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			log.Info("request",
				zap.String("id", v.RequestID),
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("remote_ip", v.RemoteIP),
			)
			return nil
		},
	})
}

// ErrorHandler renders every error as a {"detail": "..."} body and logs
// server-side failures with their underlying cause.
func ErrorHandler(log *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var he *echo.HTTPError
		if !errors.As(err, &he) {
			he = apperrors.ToEcho(err)
		}

		body := apperrors.ErrorResponse{Detail: http.StatusText(he.Code)}
		switch msg := he.Message.(type) {
		case apperrors.ErrorResponse:
			body = msg
		case string:
			body.Detail = msg
		}

		if he.Code >= http.StatusInternalServerError {
			cause := err
			if he.Internal != nil {
				cause = he.Internal
			}
			log.Error("request failed",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Path()),
				zap.Int("status", he.Code),
				zap.Error(cause),
			)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(he.Code)
		} else {
			err = c.JSON(he.Code, body)
		}
		if err != nil {
			log.Warn("write error response", zap.Error(err))
		}
	}
}
