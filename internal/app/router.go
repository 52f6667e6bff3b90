package app

import (
	"github.com/gin-gonic/gin"

	"github.com/kaiqkt/auth-registry-api/internal/handler"
	"github.com/kaiqkt/auth-registry-api/internal/middleware"
	"github.com/kaiqkt/auth-registry-api/internal/service"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Auth          *handler.AuthHandler
	User          *handler.UserHandler
	Address       *handler.AddressHandler
	Session       *handler.SessionHandler
	PasswordReset *handler.PasswordResetHandler
	Metrics       *handler.MetricsHandler
	Tokens        *service.TokenService
}

// SetupRouter mounts the HTTP surface. Refresh is deliberately outside the
// JWT guard because it accepts expired access tokens.
func SetupRouter(r *gin.Engine, prefix string, h *Handlers) {
	api := r.Group(prefix)

	api.GET("/health", h.Metrics.Health)
	api.GET("/metrics", h.Metrics.Prometheus)

	api.POST("/user", h.User.Register)

	auth := api.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.Refresh)
	}

	password := api.Group("/password")
	{
		password.POST("/email", h.PasswordReset.SendCode)
		password.GET("/:code", h.PasswordReset.ValidateCode)
		password.POST("", h.PasswordReset.Redefine)
	}

	guard := middleware.JWT(h.Tokens)

	authProtected := api.Group("/auth")
	authProtected.Use(guard)
	{
		authProtected.DELETE("/logout", h.Auth.Logout)
		authProtected.DELETE("/logout/all", h.Auth.LogoutAll)
		authProtected.DELETE("/logout/:sessionId", h.Auth.LogoutSession)
	}

	user := api.Group("/user")
	user.Use(guard)
	{
		user.GET("", h.User.Me)
		user.GET("/:userId", h.User.FindByID)
		user.PUT("/email", h.User.UpdateEmail)
		user.PUT("/password", h.User.UpdatePassword)

		user.POST("/address", h.Address.CreateOrUpdate)
		user.GET("/address", h.Address.FindAll)
		user.GET("/address/:addressId", h.Address.Find)
		user.DELETE("/address/:addressId", h.Address.Delete)
	}

	session := api.Group("/session")
	session.Use(guard)
	{
		session.GET("", h.Session.FindAll)
		session.GET("/current", h.Session.Current)
	}
}
