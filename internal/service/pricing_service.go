package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"trivedia/internal/cache"
	apperrors "trivedia/internal/errors"
	"trivedia/internal/model"
	"trivedia/internal/repository"
	"trivedia/internal/validation"
)

const (
	pricingCacheTTL = 10 * time.Minute
	defaultCurrency = "INR"
)

// PricingQuery is the raw filter set of the admin plan listing.
type PricingQuery struct {
	IsActive string `query:"isActive"`
}

// PricingPlanInput creates a plan. IsActive defaults to true.
type PricingPlanInput struct {
	Name        string          `json:"name" validate:"required,max=100"`
	Description string          `json:"description" validate:"max=500"`
	Price       decimal.Decimal `json:"price" validate:"gte=0"`
	Currency    string          `json:"currency" validate:"omitempty,len=3,alpha"`
	Period      string          `json:"period" validate:"max=30"`
	Features    []string        `json:"features" validate:"omitempty,dive,max=200"`
	Popular     bool            `json:"popular"`
	Order       int             `json:"order"`
	IsActive    *bool           `json:"isActive"`
}

// PricingPlanUpdateInput is a partial plan update.
type PricingPlanUpdateInput struct {
	Name        *string          `json:"name" validate:"omitnil,min=1,max=100"`
	Description *string          `json:"description" validate:"omitnil,max=500"`
	Price       *decimal.Decimal `json:"price" validate:"omitnil,gte=0"`
	Currency    *string          `json:"currency" validate:"omitnil,len=3,alpha"`
	Period      *string          `json:"period" validate:"omitnil,max=30"`
	Features    []string         `json:"features" validate:"omitempty,dive,max=200"`
	Popular     *bool            `json:"popular"`
	Order       *int             `json:"order"`
	IsActive    *bool            `json:"isActive"`
}

// PricingService manages pricing plans.
type PricingService interface {
	ListPublic(ctx context.Context) ([]model.PricingPlan, error)
	ListAll(ctx context.Context, q PricingQuery) ([]model.PricingPlan, error)
	Get(ctx context.Context, id uuid.UUID) (*model.PricingPlan, error)
	Create(ctx context.Context, in PricingPlanInput) (*model.PricingPlan, error)
	Update(ctx context.Context, id uuid.UUID, in PricingPlanUpdateInput) (*model.PricingPlan, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteAll(ctx context.Context) (int64, error)
}

type pricingService struct {
	repo     repository.PricingRepository
	cache    *cache.Client
	validate *validation.Validator
}

// NewPricingService builds a PricingService.
func NewPricingService(repo repository.PricingRepository, cache *cache.Client, validate *validation.Validator) PricingService {
	return &pricingService{repo: repo, cache: cache, validate: validate}
}

// ListPublic returns the active plans in display order, cache first.
func (s *pricingService) ListPublic(ctx context.Context) ([]model.PricingPlan, error) {
	var cached []model.PricingPlan
	if s.cache.GetJSON(ctx, cache.KeyPublicPricing, &cached) {
		return cached, nil
	}

	active := true
	plans, err := s.repo.List(ctx, repository.PricingFilter{IsActive: &active})
	if err != nil {
		return nil, storeErr("list plans", err, nil)
	}
	_ = s.cache.SetJSON(ctx, cache.KeyPublicPricing, plans, pricingCacheTTL)
	return plans, nil
}

func (s *pricingService) ListAll(ctx context.Context, q PricingQuery) ([]model.PricingPlan, error) {
	plans, err := s.repo.List(ctx, repository.PricingFilter{IsActive: parseBool(q.IsActive)})
	if err != nil {
		return nil, storeErr("list plans", err, nil)
	}
	return plans, nil
}

func (s *pricingService) Get(ctx context.Context, id uuid.UUID) (*model.PricingPlan, error) {
	plan, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr("find plan", err, apperrors.ErrPlanNotFound)
	}
	return plan, nil
}

func (s *pricingService) Create(ctx context.Context, in PricingPlanInput) (*model.PricingPlan, error) {
	trim(&in.Name)
	trim(&in.Description)
	trim(&in.Period)
	in.Currency = strings.ToUpper(strings.TrimSpace(in.Currency))
	in.Features = trimAll(in.Features)
	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}

	plan := &model.PricingPlan{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Currency:    in.Currency,
		Period:      in.Period,
		Features:    in.Features,
		Popular:     in.Popular,
		Order:       in.Order,
		IsActive:    boolValue(in.IsActive, true),
	}
	if plan.Currency == "" {
		plan.Currency = defaultCurrency
	}

	if err := s.repo.Create(ctx, plan); err != nil {
		return nil, storeErr("create plan", err, nil)
	}
	s.invalidate(ctx)
	return plan, nil
}

func (s *pricingService) Update(ctx context.Context, id uuid.UUID, in PricingPlanUpdateInput) (*model.PricingPlan, error) {
	trimPtr(in.Name)
	trimPtr(in.Description)
	trimPtr(in.Period)
	if in.Currency != nil {
		c := strings.ToUpper(strings.TrimSpace(*in.Currency))
		in.Currency = &c
	}
	in.Features = trimAll(in.Features)
	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}

	plan, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr("find plan", err, apperrors.ErrPlanNotFound)
	}
	if in.Name != nil {
		plan.Name = *in.Name
	}
	if in.Description != nil {
		plan.Description = *in.Description
	}
	if in.Price != nil {
		plan.Price = *in.Price
	}
	if in.Currency != nil {
		plan.Currency = *in.Currency
	}
	if in.Period != nil {
		plan.Period = *in.Period
	}
	if in.Features != nil {
		plan.Features = in.Features
	}
	if in.Popular != nil {
		plan.Popular = *in.Popular
	}
	if in.Order != nil {
		plan.Order = *in.Order
	}
	if in.IsActive != nil {
		plan.IsActive = *in.IsActive
	}

	if err := s.repo.Update(ctx, plan); err != nil {
		return nil, storeErr("update plan", err, apperrors.ErrPlanNotFound)
	}
	s.invalidate(ctx)
	return plan, nil
}

func (s *pricingService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return storeErr("find plan", err, apperrors.ErrPlanNotFound)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return storeErr("delete plan", err, apperrors.ErrPlanNotFound)
	}
	s.invalidate(ctx)
	return nil
}

// DeleteAll drops every plan. It backs the clear-pricing admin command.
func (s *pricingService) DeleteAll(ctx context.Context) (int64, error) {
	n, err := s.repo.DeleteAll(ctx)
	if err != nil {
		return 0, storeErr("delete plans", err, nil)
	}
	s.invalidate(ctx)
	return n, nil
}

func (s *pricingService) invalidate(ctx context.Context) {
	_ = s.cache.Delete(ctx, cache.KeyPublicPricing)
}
