package handler

import (
	"github.com/labstack/echo/v4"

	"trivedia/internal/auth"
	apperrors "trivedia/internal/errors"
	"trivedia/internal/service"
)

// ProjectHandler serves the portfolio.
type ProjectHandler struct {
	svc   service.ProjectService
	stats service.StatsService
}

// NewProjectHandler creates a new project handler.
func NewProjectHandler(svc service.ProjectService, stats service.StatsService) *ProjectHandler {
	return &ProjectHandler{svc: svc, stats: stats}
}

func (h *ProjectHandler) list(c echo.Context, published bool) error {
	var q service.ProjectQuery
	if err := bindQuery(c, &q); err != nil {
		return err
	}
	var (
		res service.ListResult[service.ProjectView]
		err error
	)
	if published {
		res, err = h.svc.ListPublished(c.Request().Context(), q)
	} else {
		res, err = h.svc.ListAll(c.Request().Context(), q)
	}
	if err != nil {
		return err
	}
	return ok(c, echo.Map{"projects": res.Items, "pagination": res.Pagination})
}

// ListPublished godoc
// @Summary List published projects
// @Tags portfolio
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size, at most 100" default(10) maximum(100)
// @Param search query string false "Matches title or description"
// @Param category query string false "Project category"
// @Param featured query bool false "Featured flag"
// @Success 200 {object} Response
// @Router /portfolio [get]
func (h *ProjectHandler) ListPublished(c echo.Context) error {
	return h.list(c, true)
}

// ListAll godoc
// @Summary List projects in any status
// @Tags portfolio
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size, at most 100" default(10) maximum(100)
// @Param search query string false "Matches title or description"
// @Param status query string false "draft, published or archived"
// @Param category query string false "Project category"
// @Param featured query bool false "Featured flag"
// @Success 200 {object} Response
// @Failure 403 {object} apperrors.ErrorResponse
// @Router /portfolio/admin [get]
func (h *ProjectHandler) ListAll(c echo.Context) error {
	return h.list(c, false)
}

// Featured godoc
// @Summary Featured published projects
// @Tags portfolio
// @Produce json
// @Success 200 {object} Response
// @Router /portfolio/featured [get]
func (h *ProjectHandler) Featured(c echo.Context) error {
	projects, err := h.svc.Featured(c.Request().Context())
	if err != nil {
		return err
	}
	return ok(c, echo.Map{"projects": projects})
}

// GetPublished godoc
// @Summary Get a published project
// @Tags portfolio
// @Produce json
// @Param id path string true "Project ID"
// @Success 200 {object} Response{data=map[string]service.ProjectView}
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /portfolio/{id} [get]
func (h *ProjectHandler) GetPublished(c echo.Context) error {
	id, err := pathID(c, apperrors.ErrProjectNotFound)
	if err != nil {
		return err
	}
	p, err := h.svc.GetPublished(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return ok(c, echo.Map{"project": p})
}

// Get godoc
// @Summary Get a project in any status
// @Tags portfolio
// @Produce json
// @Security BearerAuth
// @Param id path string true "Project ID"
// @Success 200 {object} Response{data=map[string]service.ProjectView}
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /portfolio/admin/{id} [get]
func (h *ProjectHandler) Get(c echo.Context) error {
	id, err := pathID(c, apperrors.ErrProjectNotFound)
	if err != nil {
		return err
	}
	p, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return ok(c, echo.Map{"project": p})
}

// Create godoc
// @Summary Create a project
// @Tags portfolio
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param project body service.ProjectInput true "Project payload"
// @Success 201 {object} Response{data=map[string]service.ProjectView}
// @Failure 400 {object} apperrors.ErrorResponse
// @Router /portfolio [post]
func (h *ProjectHandler) Create(c echo.Context) error {
	var in service.ProjectInput
	if err := bindBody(c, &in); err != nil {
		return err
	}
	p, err := h.svc.Create(c.Request().Context(), auth.CurrentUser(c).ID, in)
	if err != nil {
		return err
	}
	return created(c, "Project created successfully", echo.Map{"project": p})
}

// Update godoc
// @Summary Update a project
// @Description Only the fields present in the body change.
// @Tags portfolio
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Project ID"
// @Param project body service.ProjectUpdateInput true "Fields to change"
// @Success 200 {object} Response{data=map[string]service.ProjectView}
// @Failure 400 {object} apperrors.ErrorResponse
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /portfolio/{id} [put]
func (h *ProjectHandler) Update(c echo.Context) error {
	id, err := pathID(c, apperrors.ErrProjectNotFound)
	if err != nil {
		return err
	}
	var in service.ProjectUpdateInput
	if err := bindBody(c, &in); err != nil {
		return err
	}
	p, err := h.svc.Update(c.Request().Context(), auth.CurrentUser(c).ID, id, in)
	if err != nil {
		return err
	}
	return okWithMessage(c, "Project updated successfully", echo.Map{"project": p})
}

// Delete godoc
// @Summary Delete a project
// @Tags portfolio
// @Produce json
// @Security BearerAuth
// @Param id path string true "Project ID"
// @Success 200 {object} Response
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /portfolio/{id} [delete]
func (h *ProjectHandler) Delete(c echo.Context) error {
	id, err := pathID(c, apperrors.ErrProjectNotFound)
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return message(c, "Project deleted successfully")
}

// Stats godoc
// @Summary Portfolio counters
// @Tags portfolio
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=service.ProjectStats}
// @Router /portfolio/admin/stats [get]
func (h *ProjectHandler) Stats(c echo.Context) error {
	st, err := h.stats.Projects(c.Request().Context())
	if err != nil {
		return err
	}
	return ok(c, st)
}
