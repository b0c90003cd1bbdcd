package router

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	"trivedia/internal/auth"
	apperrors "trivedia/internal/errors"
	"trivedia/internal/handler"
	"trivedia/internal/model"
	"trivedia/internal/validation"
)

const bodyLimit = "2M"

// Deps is everything the HTTP surface is built from.
type Deps struct {
	Logger        *zap.Logger
	Authenticator auth.Authenticator
	// Health reports whether the backing stores answer. Optional.
	Health func(ctx context.Context) error

	Auth     *handler.AuthHandler
	Users    *handler.UserHandler
	Projects *handler.ProjectHandler
	Pricing  *handler.PricingHandler
	Contacts *handler.ContactHandler
}

// New builds an echo instance with middleware and routes registered.
func New(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	Register(e, d)
	return e
}

// Register wires routes and middleware.
func Register(e *echo.Echo, d Deps) {
	e.HTTPErrorHandler = ErrorHandler(d.Logger)
	e.Validator = validation.New()

	e.Use(middleware.RequestID())
	e.Use(requestLogger(d.Logger))
	e.Use(middleware.Recover())
	e.Use(middleware.Secure())
	e.Use(middleware.CORS())
	e.Use(middleware.BodyLimit(bodyLimit))

	e.GET("/healthz", func(c echo.Context) error {
		if d.Health != nil {
			if err := d.Health(c.Request().Context()); err != nil {
				d.Logger.Warn("health check failed", zap.Error(err))
				return c.JSON(http.StatusServiceUnavailable, handler.Response{Success: false, Message: "unavailable"})
			}
		}
		return c.JSON(http.StatusOK, handler.Response{Success: true, Message: "ok"})
	})
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	authed := auth.Middleware(d.Authenticator)
	adminOnly := auth.RequireRole(model.RoleAdmin)
	staff := auth.RequireRole(model.RoleAdmin, model.RoleEditor)

	api := e.Group("/api")

	// Auth
	api.POST("/auth/register", d.Auth.Register)
	api.POST("/auth/login", d.Auth.Login)
	api.POST("/auth/refresh", d.Auth.Refresh)
	api.POST("/auth/logout", d.Auth.Logout, authed)
	api.GET("/auth/me", d.Auth.Me, authed)
	api.PUT("/auth/profile", d.Auth.UpdateProfile, authed)
	api.PUT("/auth/password", d.Auth.ChangePassword, authed)

	// Admin
	admin := api.Group("/admin", authed, adminOnly)
	admin.GET("/users", d.Users.ListUsers)
	admin.GET("/users/:id", d.Users.GetUser)
	admin.POST("/users", d.Users.CreateUser)
	admin.PUT("/users/:id", d.Users.UpdateUser)
	admin.DELETE("/users/:id", d.Users.DeleteUser)
	admin.GET("/stats", d.Users.Stats)

	// Portfolio
	api.GET("/portfolio", d.Projects.ListPublished)
	api.GET("/portfolio/featured", d.Projects.Featured)
	api.GET("/portfolio/:id", d.Projects.GetPublished)
	api.GET("/portfolio/admin", d.Projects.ListAll, authed, staff)
	api.GET("/portfolio/admin/stats", d.Projects.Stats, authed, staff)
	api.GET("/portfolio/admin/:id", d.Projects.Get, authed, staff)
	api.POST("/portfolio", d.Projects.Create, authed, staff)
	api.PUT("/portfolio/:id", d.Projects.Update, authed, staff)
	api.DELETE("/portfolio/:id", d.Projects.Delete, authed, adminOnly)

	// Pricing
	api.GET("/pricing", d.Pricing.ListPublic)
	api.GET("/pricing/admin", d.Pricing.ListAll, authed, adminOnly)
	api.POST("/pricing", d.Pricing.Create, authed, adminOnly)
	api.PUT("/pricing/:id", d.Pricing.Update, authed, adminOnly)
	api.DELETE("/pricing/:id", d.Pricing.Delete, authed, adminOnly)

	// Contact
	api.POST("/contact", d.Contacts.Submit)
	api.GET("/contact", d.Contacts.List, authed, adminOnly)
	api.GET("/contact/stats", d.Contacts.Stats, authed, adminOnly)
	api.GET("/contact/:id", d.Contacts.Get, authed, adminOnly)
	api.PUT("/contact/:id", d.Contacts.Update, authed, adminOnly)
	api.DELETE("/contact/:id", d.Contacts.Delete, authed, adminOnly)
}

// ErrorHandler renders every error as the standard envelope. Server errors
// are logged with the request id and replaced by a generic message.
func ErrorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var httpErr *apperrors.HTTPError
		var he *echo.HTTPError
		if errors.As(err, &he) && he.Code < http.StatusInternalServerError {
			msg := http.StatusText(he.Code)
			if m, ok := he.Message.(string); ok {
				msg = m
			}
			httpErr = apperrors.NewHTTPError(he.Code, msg, "")
		} else {
			httpErr = apperrors.MapErrorToHTTP(err)
		}

		if httpErr.StatusCode >= http.StatusInternalServerError {
			logger.Error("request failed",
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
				zap.String("method", c.Request().Method),
				zap.String("path", c.Path()),
				zap.Error(err),
			)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(httpErr.StatusCode)
		} else {
			err = c.JSON(httpErr.StatusCode, httpErr.ToErrorResponse())
		}
		if err != nil {
			logger.Warn("write error response", zap.Error(err))
		}
	}
}

func requestLogger(logger *zap.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("request_id", v.RequestID),
				zap.String("remote_ip", v.RemoteIP),
			}
			if v.Status >= http.StatusInternalServerError {
				logger.Error("request", fields...)
				return nil
			}
			logger.Info("request", fields...)
			return nil
		},
	})
}
