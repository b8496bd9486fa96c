package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/studyhard/account-service/internal/auth"
	"github.com/studyhard/account-service/internal/middleware"
)

// UserHandler serves the authenticated profile endpoints and the admin
// user-administration endpoints.
type UserHandler struct {
	Svc *auth.Service
}

func NewUserHandler(svc *auth.Service) *UserHandler { return &UserHandler{Svc: svc} }

type updateMeReq struct {
	FullName *string `json:"fullName"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	Password *string `json:"password"`
	Role     *string `json:"role"`
}

type changePasswordReq struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type adminUpdateReq struct {
	FullName *string `json:"fullName"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	Role     *string `json:"role"`
	IsActive *bool   `json:"isActive"`
}

// Me returns the caller's own projection.
func (h *UserHandler) Me(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	user, err := h.Svc.CurrentUser(ctx, callerID(c))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateMe applies a partial self-update.  Password and role changes are
// rejected here; they have their own endpoints and rules.
func (h *UserHandler) UpdateMe(c echo.Context) error {
	var req updateMeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid body"})
	}
	if req.Password != nil || req.Role != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"success": false,
			"message": "Not allowed to update password or role",
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Svc.UpdateProfile(ctx, callerID(c), req.FullName, req.Email, req.Phone); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "User updated successfully"})
}

// ChangePassword verifies the current password before accepting the new
// one.
func (h *UserHandler) ChangePassword(c echo.Context) error {
	var req changePasswordReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Svc.ChangePassword(ctx, callerID(c), req.CurrentPassword, req.NewPassword); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Password changed successfully"})
}

// Deactivate is self-service: the account is marked inactive, its
// session cleared, and the refresh cookie expired.
func (h *UserHandler) Deactivate(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	if err := h.Svc.Deactivate(ctx, callerID(c)); err != nil {
		return serviceError(c, err)
	}
	expireRefreshCookie(c, c.Scheme() == "https")
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Account deactivated successfully"})
}

// ----- admin -----

// ListUsers returns every account in the admin projection.
func (h *UserHandler) ListUsers(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	users, err := h.Svc.ListUsers(ctx)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "users": users})
}

// GetUserByID returns one account in the admin projection.
func (h *UserHandler) GetUserByID(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid user id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	user, err := h.Svc.GetUser(ctx, id)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "user": user})
}

// UpdateUserByAdmin applies an admin partial update; promoting an account
// to the admin role is refused by the service.
func (h *UserHandler) UpdateUserByAdmin(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid user id"})
	}
	var req adminUpdateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"success": false, "message": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	ch := auth.ProfileChanges{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
		Role:     req.Role,
		IsActive: req.IsActive,
	}
	if err := h.Svc.UpdateUserByAdmin(ctx, id, ch); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "User updated successfully"})
}

// callerID reads the authenticated user id stored by the JWT middleware.
func callerID(c echo.Context) uint64 {
	id, _ := c.Get(middleware.CtxUserID).(uint64)
	return id
}
