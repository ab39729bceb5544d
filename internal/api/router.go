package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/huddleapp/community-api/docs"
	"github.com/huddleapp/community-api/internal/api/handler"
	"github.com/huddleapp/community-api/internal/api/middleware"
	"github.com/huddleapp/community-api/internal/core/domain"
	"github.com/huddleapp/community-api/internal/core/ports"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, authService ports.AuthService, tokens ports.TokenService, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("community"))

	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(authService)
	sessionHandler := handler.NewSessionHandler(tokens)
	authMiddleware := middleware.Auth(tokens)

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.GET("/auth/verify-email/:verifyToken", authHandler.VerifyEmail)
	e.POST("/auth/resend-verification", authHandler.ResendVerification)
	e.POST("/auth/forgot-password", authHandler.ForgotPassword)
	e.POST("/auth/reset-password/:resetToken", authHandler.ResetPassword)
	e.POST("/auth/passwordless-login", authHandler.PasswordlessLogin)
	e.POST("/auth/login-with-token/:loginToken", authHandler.LoginWithToken)
	e.POST("/auth/logout", authHandler.Logout)

	e.GET("/auth/me", authHandler.Me, authMiddleware)
	e.POST("/auth/sessions/:userId/revoke", sessionHandler.Revoke, authMiddleware, middleware.RBAC(domain.RoleAdmin))

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Operational endpoints ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
