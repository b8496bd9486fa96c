package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/studyhard/account-service/internal/utils"
)

// Context keys populated by JWTAuth for downstream handlers.
const (
	CtxUserID = "user_id"
	CtxRole   = "role"
)

// JWTAuth validates a Bearer access token and injects the subject and
// role claims into the request context.  An expired token gets its own
// message so clients know to log in again; every other failure mode gets
// the same generic response.
func JWTAuth(tokens *utils.Tokens) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"message": "You are not logged in! Please log in to get access.",
				})
			}
			raw := strings.TrimPrefix(header, "Bearer ")

			claims, err := tokens.Verify(raw, utils.KindAccess)
			if err != nil {
				if errors.Is(err, utils.ErrTokenExpired) {
					return c.JSON(http.StatusUnauthorized, echo.Map{
						"message": "Your token has expired! Please log in again.",
					})
				}
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"message": "Invalid token. Please log in again!",
				})
			}

			c.Set(CtxUserID, claims.UserID)
			c.Set(CtxRole, claims.Role)
			return next(c)
		}
	}
}
