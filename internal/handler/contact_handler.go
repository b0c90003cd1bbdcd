package handler

import (
	"github.com/labstack/echo/v4"

	apperrors "trivedia/internal/errors"
	"trivedia/internal/service"
)

// ContactHandler serves the contact form and the inquiry inbox.
type ContactHandler struct {
	svc   service.ContactService
	stats service.StatsService
}

// NewContactHandler creates a new contact handler.
func NewContactHandler(svc service.ContactService, stats service.StatsService) *ContactHandler {
	return &ContactHandler{svc: svc, stats: stats}
}

// Submit godoc
// @Summary Submit the contact form
// @Description Email failures are reported in emailStatus and never fail the request.
// @Tags contact
// @Accept json
// @Produce json
// @Param contact body service.ContactInput true "Inquiry"
// @Success 201 {object} Response{data=service.SubmitResult}
// @Failure 400 {object} apperrors.ErrorResponse
// @Router /contact [post]
func (h *ContactHandler) Submit(c echo.Context) error {
	var in service.ContactInput
	if err := bindBody(c, &in); err != nil {
		return err
	}
	res, err := h.svc.Submit(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return created(c, "Thank you for your message. We will get back to you soon.", res)
}

// List godoc
// @Summary List inquiries, newest first
// @Tags contact
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size, at most 100" default(10) maximum(100)
// @Param search query string false "Matches name, email or company"
// @Param status query string false "Workflow status"
// @Param priority query string false "Priority"
// @Success 200 {object} Response
// @Router /contact [get]
func (h *ContactHandler) List(c echo.Context) error {
	var q service.ContactQuery
	if err := bindQuery(c, &q); err != nil {
		return err
	}
	res, err := h.svc.List(c.Request().Context(), q)
	if err != nil {
		return err
	}
	return ok(c, echo.Map{"contacts": res.Items, "pagination": res.Pagination})
}

// Get godoc
// @Summary Get an inquiry
// @Tags contact
// @Produce json
// @Security BearerAuth
// @Param id path string true "Contact ID"
// @Success 200 {object} Response{data=map[string]model.Contact}
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /contact/{id} [get]
func (h *ContactHandler) Get(c echo.Context) error {
	id, err := pathID(c, apperrors.ErrContactNotFound)
	if err != nil {
		return err
	}
	contact, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return ok(c, echo.Map{"contact": contact})
}

// Update godoc
// @Summary Change the status or priority of an inquiry
// @Tags contact
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Contact ID"
// @Param contact body service.ContactUpdateInput true "Status and/or priority"
// @Success 200 {object} Response{data=map[string]model.Contact}
// @Failure 400 {object} apperrors.ErrorResponse
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /contact/{id} [put]
func (h *ContactHandler) Update(c echo.Context) error {
	id, err := pathID(c, apperrors.ErrContactNotFound)
	if err != nil {
		return err
	}
	var in service.ContactUpdateInput
	if err := bindBody(c, &in); err != nil {
		return err
	}
	contact, err := h.svc.Update(c.Request().Context(), id, in)
	if err != nil {
		return err
	}
	return okWithMessage(c, "Contact updated successfully", echo.Map{"contact": contact})
}

// Delete godoc
// @Summary Delete an inquiry
// @Tags contact
// @Produce json
// @Security BearerAuth
// @Param id path string true "Contact ID"
// @Success 200 {object} Response
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /contact/{id} [delete]
func (h *ContactHandler) Delete(c echo.Context) error {
	id, err := pathID(c, apperrors.ErrContactNotFound)
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return message(c, "Contact deleted successfully")
}

// Stats godoc
// @Summary Inquiry counters
// @Tags contact
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response{data=service.ContactStats}
// @Router /contact/stats [get]
func (h *ContactHandler) Stats(c echo.Context) error {
	st, err := h.stats.Contacts(c.Request().Context())
	if err != nil {
		return err
	}
	return ok(c, st)
}
