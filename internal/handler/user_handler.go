package handler

import (
	"github.com/labstack/echo/v4"

	"trivedia/internal/auth"
	apperrors "trivedia/internal/errors"
	"trivedia/internal/service"
)

// UserHandler serves the admin user management endpoints.
type UserHandler struct {
	svc   service.UserService
	stats service.StatsService
}

// NewUserHandler creates a handler layer.
func NewUserHandler(svc service.UserService, stats service.StatsService) *UserHandler {
	return &UserHandler{svc: svc, stats: stats}
}

// ListUsers godoc
// @Summary List users
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size, at most 100" default(10) maximum(100)
// @Param search query string false "Matches username, email, first or last name"
// @Param role query string false "admin, editor or viewer"
// @Param isActive query bool false "Active flag"
// @Success 200 {object} Response
// @Failure 401 {object} apperrors.ErrorResponse
// @Failure 403 {object} apperrors.ErrorResponse
// @Router /admin/users [get]
func (h *UserHandler) ListUsers(c echo.Context) error {
	var q service.UserQuery
	if err := bindQuery(c, &q); err != nil {
		return err
	}
	res, err := h.svc.List(c.Request().Context(), q)
	if err != nil {
		return err
	}
	return ok(c, echo.Map{"users": res.Items, "pagination": res.Pagination})
}

// GetUser godoc
// @Summary Get user by id
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} Response{data=map[string]model.PublicUser}
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /admin/users/{id} [get]
func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := pathID(c, apperrors.ErrUserNotFound)
	if err != nil {
		return err
	}
	user, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return ok(c, echo.Map{"user": user})
}

// CreateUser godoc
// @Summary Create user
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param user body service.CreateUserInput true "User payload"
// @Success 201 {object} Response{data=map[string]model.PublicUser}
// @Failure 400 {object} apperrors.ErrorResponse
// @Router /admin/users [post]
func (h *UserHandler) CreateUser(c echo.Context) error {
	var in service.CreateUserInput
	if err := bindBody(c, &in); err != nil {
		return err
	}
	user, err := h.svc.Create(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return created(c, "User created successfully", echo.Map{"user": user})
}

// UpdateUser godoc
// @Summary Update user
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param user body service.UpdateUserInput true "Fields to change"
// @Success 200 {object} Response{data=map[string]model.PublicUser}
// @Failure 400 {object} apperrors.ErrorResponse
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /admin/users/{id} [put]
func (h *UserHandler) UpdateUser(c echo.Context) error {
	id, err := pathID(c, apperrors.ErrUserNotFound)
	if err != nil {
		return err
	}
	var in service.UpdateUserInput
	if err := bindBody(c, &in); err != nil {
		return err
	}
	user, err := h.svc.Update(c.Request().Context(), id, in)
	if err != nil {
		return err
	}
	return okWithMessage(c, "User updated successfully", echo.Map{"user": user})
}

// DeleteUser godoc
// @Summary Delete user
// @Description An admin cannot delete their own account.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} Response
// @Failure 400 {object} apperrors.ErrorResponse
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /admin/users/{id} [delete]
func (h *UserHandler) DeleteUser(c echo.Context) error {
	id, err := pathID(c, apperrors.ErrUserNotFound)
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Request().Context(), auth.CurrentUser(c).ID, id); err != nil {
		return err
	}
	return message(c, "User deleted successfully")
}

// Stats godoc
// @Summary User dashboard counters
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=service.UserStats}
// @Router /admin/stats [get]
func (h *UserHandler) Stats(c echo.Context) error {
	st, err := h.stats.Users(c.Request().Context())
	if err != nil {
		return err
	}
	return ok(c, st)
}
