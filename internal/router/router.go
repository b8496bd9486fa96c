// Package router wires handlers and middleware onto the Echo instance.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/studyhard/account-service/internal/config"
	"github.com/studyhard/account-service/internal/handler"
	"github.com/studyhard/account-service/internal/middleware"
	"github.com/studyhard/account-service/internal/utils"
)

// Register mounts every route.  The credential endpoints sit behind the
// Redis token bucket; everything under an authenticated group runs the
// JWT middleware, and the admin group additionally runs the role gate.
func Register(e *echo.Echo, cfg config.Config, tokens *utils.Tokens,
	a *handler.AuthHandler, u *handler.UserHandler,
	rlCfg config.RateLimitConfig, rdb *redis.Client) {

	e.GET("/healthz", handler.Health)

	limited := middleware.NewTokenBucket(rlCfg, rdb)
	api := e.Group("/api/v1")

	// Anonymous credential operations.
	authGroup := api.Group("/auth")
	authGroup.POST("/login", a.Login, limited)
	authGroup.POST("/logout", a.Logout)
	authGroup.POST("/forgotPassword", a.ForgotPassword, limited)
	authGroup.POST("/resetPassword/:token", a.ResetPassword, limited)

	user := api.Group("/user")
	user.POST("/signup", a.Signup, limited)

	// Self-service endpoints require a valid access token.
	me := user.Group("", middleware.JWTAuth(tokens))
	me.GET("/current", u.Me)
	me.PATCH("/updateUser", u.UpdateMe)
	me.PATCH("/changePassword", u.ChangePassword)
	me.PATCH("/deactivate", u.Deactivate)

	// Admin-only user administration.
	admin := api.Group("/users", middleware.JWTAuth(tokens), middleware.RequireAdmin(cfg.AdminRole))
	admin.GET("", u.ListUsers)
	admin.GET("/:id", u.GetUserByID)
	admin.PATCH("/:id", u.UpdateUserByAdmin)
}
