package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"trivedia/internal/model"
)

// PricingFilter narrows a plan listing. The plan table is small, so listings
// are never paginated.
type PricingFilter struct {
	IsActive *bool
}

func (f PricingFilter) scopes() []scope {
	if f.IsActive == nil {
		return nil
	}
	return []scope{equals("is_active", *f.IsActive)}
}

// PricingRepository defines pricing plan persistence operations.
type PricingRepository interface {
	Create(ctx context.Context, plan *model.PricingPlan) error
	Update(ctx context.Context, plan *model.PricingPlan) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteAll(ctx context.Context) (int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.PricingPlan, error)
	List(ctx context.Context, filter PricingFilter) ([]model.PricingPlan, error)
	Count(ctx context.Context, filter PricingFilter) (int64, error)
}

type pricingRepository struct {
	db *gorm.DB
}

func NewPricingRepository(db *gorm.DB) PricingRepository {
	return &pricingRepository{db: db}
}

func (r *pricingRepository) Create(ctx context.Context, plan *model.PricingPlan) error {
	return r.db.WithContext(ctx).Create(plan).Error
}

func (r *pricingRepository) Update(ctx context.Context, plan *model.PricingPlan) error {
	return r.db.WithContext(ctx).Save(plan).Error
}

func (r *pricingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.PricingPlan{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteAll drops every plan and returns how many were removed.
func (r *pricingRepository) DeleteAll(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&model.PricingPlan{})
	return res.RowsAffected, res.Error
}

func (r *pricingRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.PricingPlan, error) {
	var plan model.PricingPlan
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&plan).Error; err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *pricingRepository) List(ctx context.Context, filter PricingFilter) ([]model.PricingPlan, error) {
	plans, _, err := listAndCount[model.PricingPlan](ctx, r.db, filter.scopes(), []string{orderDisplay, orderNewestFirst}, Page{})
	return plans, err
}

func (r *pricingRepository) Count(ctx context.Context, filter PricingFilter) (int64, error) {
	return count[model.PricingPlan](ctx, r.db, filter.scopes())
}
