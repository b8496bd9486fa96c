package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireAdmin gates a route group to the configured admin role.  An
// empty role name is a deployment mistake that would otherwise make the
// gate silently permissive, so it refuses to construct at all.  It
// assumes JWTAuth ran earlier and stored the role in the context.
func RequireAdmin(adminRole string) echo.MiddlewareFunc {
	if adminRole == "" {
		panic("middleware: admin role is not configured")
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get(CtxRole).(string)
			if !ok || role != adminRole {
				return c.JSON(http.StatusForbidden, echo.Map{
					"message": "This route is restricted to admins only!",
				})
			}
			return next(c)
		}
	}
}
