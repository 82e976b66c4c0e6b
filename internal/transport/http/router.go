package httptransport

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	sloggin "github.com/samber/slog-gin"
	"github.com/travelapp/travel-auth/internal/transport/http/handler"
	"github.com/travelapp/travel-auth/internal/transport/http/middleware"
)

func NewRouter(logger *slog.Logger, authHandler *handler.AuthHandler, jwtKey []byte, issuer, audience string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Security())
	r.Use(sloggin.New(logger))
	r.Use(middleware.Metrics())

	auth := r.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.GET("/confirm-email", authHandler.ConfirmEmail)
	auth.POST("/resend-confirmation", authHandler.ResendConfirmation)
	auth.GET("/me", middleware.Auth(jwtKey, issuer, audience), authHandler.Me)

	return r
}
