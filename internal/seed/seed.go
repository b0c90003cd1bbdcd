// Package seed bootstraps a fresh database with an admin account and the
// default pricing plans.
package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	apperrors "trivedia/internal/errors"
	"trivedia/internal/model"
	"trivedia/internal/repository"
	"trivedia/internal/service"
)

// DefaultPlans are installed when the plan collection is empty.
var DefaultPlans = []service.PricingPlanInput{
	{
		Name:        "Starter",
		Description: "Perfect for small businesses and personal websites",
		Price:       decimal.NewFromInt(25000),
		Period:      "one-time",
		Features:    []string{"5-8 pages", "Responsive design", "Contact form", "Basic SEO", "3 months support", "Free domain setup"},
		Order:       1,
	},
	{
		Name:        "Business",
		Description: "Ideal for growing businesses with advanced features",
		Price:       decimal.NewFromInt(55000),
		Period:      "one-time",
		Features:    []string{"10-15 pages", "Advanced animations", "CMS integration", "E-commerce ready", "6 months support", "Performance optimization", "Analytics setup"},
		Popular:     true,
		Order:       2,
	},
	{
		Name:        "Enterprise",
		Description: "Custom solutions for large organizations",
		Price:       decimal.NewFromInt(125000),
		Period:      "one-time",
		Features:    []string{"Unlimited pages", "Custom features", "API integrations", "Advanced security", "12 months support", "Priority support", "Custom training"},
		Order:       3,
	},
}

// Result reports what a seed run changed.
type Result struct {
	AdminCreated bool
	PlansCreated int
}

// Seeder installs the bootstrap data. Running it twice is harmless.
type Seeder struct {
	users   service.UserService
	pricing service.PricingService
	plans   repository.PricingRepository
	logger  *zap.Logger
}

// New creates a Seeder.
func New(users service.UserService, pricing service.PricingService, plans repository.PricingRepository, logger *zap.Logger) *Seeder {
	return &Seeder{users: users, pricing: pricing, plans: plans, logger: logger}
}

// Run creates the admin account unless adminEmail is already registered, and
// the default plans unless any plan exists.
func (s *Seeder) Run(ctx context.Context, adminEmail, adminPassword string) (Result, error) {
	var res Result

	created, err := s.ensureAdmin(ctx, adminEmail, adminPassword)
	if err != nil {
		return res, err
	}
	res.AdminCreated = created

	n, err := s.plans.Count(ctx, repository.PricingFilter{})
	if err != nil {
		return res, fmt.Errorf("count plans: %w", err)
	}
	if n > 0 {
		s.logger.Info("pricing plans present, skipping defaults", zap.Int64("count", n))
		return res, nil
	}
	for _, in := range DefaultPlans {
		if _, err := s.pricing.Create(ctx, in); err != nil {
			return res, fmt.Errorf("create plan %q: %w", in.Name, err)
		}
		res.PlansCreated++
	}
	s.logger.Info("default pricing plans created", zap.Int("count", res.PlansCreated))
	return res, nil
}

func (s *Seeder) ensureAdmin(ctx context.Context, email, password string) (bool, error) {
	if email == "" || password == "" {
		return false, errors.New("ADMIN_EMAIL and ADMIN_PASSWORD must be set")
	}

	_, err := s.users.Create(ctx, service.CreateUserInput{
		Username:  "admin",
		Email:     email,
		Password:  password,
		FirstName: "Admin",
		LastName:  "User",
		Role:      model.RoleAdmin,
	})
	switch {
	case err == nil:
		s.logger.Info("admin account created", zap.String("email", email))
		return true, nil
	case errors.Is(err, apperrors.ErrEmailTaken):
		s.logger.Info("admin account exists", zap.String("email", email))
		return false, nil
	default:
		return false, fmt.Errorf("create admin: %w", err)
	}
}
