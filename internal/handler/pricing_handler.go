package handler

import (
	"github.com/labstack/echo/v4"

	apperrors "trivedia/internal/errors"
	"trivedia/internal/service"
)

// PricingHandler serves pricing plans.
type PricingHandler struct {
	svc service.PricingService
}

// NewPricingHandler creates a new pricing handler.
func NewPricingHandler(svc service.PricingService) *PricingHandler {
	return &PricingHandler{svc: svc}
}

// ListPublic godoc
// @Summary Active pricing plans in display order
// @Tags pricing
// @Produce json
// @Success 200 {object} Response
// @Router /pricing [get]
func (h *PricingHandler) ListPublic(c echo.Context) error {
	plans, err := h.svc.ListPublic(c.Request().Context())
	if err != nil {
		return err
	}
	return ok(c, echo.Map{"plans": plans})
}

// ListAll godoc
// @Summary All pricing plans
// @Tags pricing
// @Produce json
// @Security BearerAuth
// @Param isActive query bool false "Active flag"
// @Success 200 {object} Response
// @Router /pricing/admin [get]
func (h *PricingHandler) ListAll(c echo.Context) error {
	var q service.PricingQuery
	if err := bindQuery(c, &q); err != nil {
		return err
	}
	plans, err := h.svc.ListAll(c.Request().Context(), q)
	if err != nil {
		return err
	}
	return ok(c, echo.Map{"plans": plans})
}

// Create godoc
// @Summary Create a pricing plan
// @Tags pricing
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param plan body service.PricingPlanInput true "Plan payload"
// @Success 201 {object} Response{data=map[string]model.PricingPlan}
// @Failure 400 {object} apperrors.ErrorResponse
// @Router /pricing [post]
func (h *PricingHandler) Create(c echo.Context) error {
	var in service.PricingPlanInput
	if err := bindBody(c, &in); err != nil {
		return err
	}
	plan, err := h.svc.Create(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return created(c, "Pricing plan created successfully", echo.Map{"plan": plan})
}

// Update godoc
// @Summary Update a pricing plan
// @Tags pricing
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Plan ID"
// @Param plan body service.PricingPlanUpdateInput true "Fields to change"
// @Success 200 {object} Response{data=map[string]model.PricingPlan}
// @Failure 400 {object} apperrors.ErrorResponse
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /pricing/{id} [put]
func (h *PricingHandler) Update(c echo.Context) error {
	id, err := pathID(c, apperrors.ErrPlanNotFound)
	if err != nil {
		return err
	}
	var in service.PricingPlanUpdateInput
	if err := bindBody(c, &in); err != nil {
		return err
	}
	plan, err := h.svc.Update(c.Request().Context(), id, in)
	if err != nil {
		return err
	}
	return okWithMessage(c, "Pricing plan updated successfully", echo.Map{"plan": plan})
}

// Delete godoc
// @Summary Delete a pricing plan
// @Tags pricing
// @Produce json
// @Security BearerAuth
// @Param id path string true "Plan ID"
// @Success 200 {object} Response
// @Failure 404 {object} apperrors.ErrorResponse
// @Router /pricing/{id} [delete]
func (h *PricingHandler) Delete(c echo.Context) error {
	id, err := pathID(c, apperrors.ErrPlanNotFound)
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return message(c, "Pricing plan deleted successfully")
}
