package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/studyhard/account-service/internal/auth"
	"github.com/studyhard/account-service/internal/config"
	"github.com/studyhard/account-service/internal/utils"
)

// refreshCookie is the only transport for refresh tokens; they never
// appear in a JSON body next to the access token.
const refreshCookie = "refreshToken"

const dbTimeout = 5 * time.Second

// AuthHandler bundles dependencies for the credential endpoints.
type AuthHandler struct {
	Cfg config.Config
	Svc *auth.Service
}

func NewAuthHandler(cfg config.Config, svc *auth.Service) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Svc: svc}
}

// ----- DTOs -----

type signupReq struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type forgotReq struct {
	Email string `json:"email"`
}
type resetReq struct {
	Password string `json:"password"`
}

// Signup creates a new account.  The password never echoes back.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	user, err := h.Svc.Signup(ctx, req.FullName, req.Email, req.Phone, req.Password)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"message": "User created successfully",
		"user":    user,
	})
}

// Login verifies credentials, sets the refresh-token cookie and returns
// the access token plus the public user projection.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	sess, err := h.Svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		return serviceError(c, err)
	}

	c.SetCookie(&http.Cookie{
		Name:     refreshCookie,
		Value:    sess.RefreshToken,
		Path:     "/",
		Expires:  sess.RefreshExpires,
		MaxAge:   int(time.Until(sess.RefreshExpires) / time.Second),
		HttpOnly: true,
		Secure:   h.Cfg.Env == "prod",
		SameSite: http.SameSiteStrictMode,
	})
	return c.JSON(http.StatusOK, echo.Map{
		"accessToken": sess.AccessToken,
		"user":        sess.User,
	})
}

// Logout clears the session named by the refresh-token cookie.  The
// cookie is expired even when it matched nothing; logout is idempotent.
func (h *AuthHandler) Logout(c echo.Context) error {
	cookie, err := c.Cookie(refreshCookie)

	expireRefreshCookie(c, h.Cfg.Env == "prod")
	if err != nil || cookie.Value == "" {
		return c.NoContent(http.StatusNoContent)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Svc.Logout(ctx, cookie.Value); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Logged out successfully"})
}

// ForgotPassword opens a reset window and mails the link.  The response
// is the same whether or not the email is registered.
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req forgotReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Svc.ForgotPassword(ctx, req.Email); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "If that email is registered, a reset link has been sent.",
	})
}

// ResetPassword consumes the reset token from the URL path.
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	token := c.Param("token")
	var req resetReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Svc.ResetPassword(ctx, token, req.Password); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Password reset successfully"})
}

func expireRefreshCookie(c echo.Context, secure bool) {
	c.SetCookie(&http.Cookie{
		Name:     refreshCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// serviceError maps the auth error taxonomy onto HTTP responses.  Store
// and unexpected failures come back as generic messages; internals never
// leak to the caller.
func serviceError(c echo.Context, err error) error {
	var verr *auth.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false,
			"message": "Validation failed",
			"errors":  verr.Fields,
		})
	case errors.Is(err, auth.ErrEmailExists):
		return c.JSON(http.StatusConflict, echo.Map{"success": false, "message": "Email already exists"})
	case errors.Is(err, auth.ErrPhoneExists):
		return c.JSON(http.StatusConflict, echo.Map{"success": false, "message": "Phone already exists"})
	case errors.Is(err, auth.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "Invalid email or password"})
	case errors.Is(err, auth.ErrAccountDeactivated):
		return c.JSON(http.StatusForbidden, echo.Map{"success": false, "message": "Account is blocked."})
	case errors.Is(err, utils.ErrTokenExpired):
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "Token has expired."})
	case errors.Is(err, utils.ErrTokenInvalid):
		return c.JSON(http.StatusUnauthorized, echo.Map{"success": false, "message": "Token is invalid."})
	case errors.Is(err, auth.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"success": false, "message": "Operation not allowed"})
	case errors.Is(err, auth.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"success": false, "message": "User not found"})
	case errors.Is(err, auth.ErrUnavailable):
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"success": false, "message": "Service temporarily unavailable"})
	default:
		c.Logger().Errorf("internal error: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false, "message": "Internal server error"})
	}
}
