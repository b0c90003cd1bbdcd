package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"trivedia/internal/model"
)

// UserFilter holds the optional predicates of a user listing.
// Zero-valued fields are left out of the query entirely.
type UserFilter struct {
	Search         string
	Role           model.Role
	IsActive       *bool
	CreatedSince   *time.Time
	LastLoginSince *time.Time
}

func (f UserFilter) scopes() []scope {
	var s []scope
	if f.Search != "" {
		s = append(s, search(f.Search, "first_name", "last_name", "email", "username"))
	}
	if f.Role != "" {
		s = append(s, equals("role", f.Role))
	}
	if f.IsActive != nil {
		s = append(s, equals("is_active", *f.IsActive))
	}
	if f.CreatedSince != nil {
		since := *f.CreatedSince
		s = append(s, func(db *gorm.DB) *gorm.DB { return db.Where("created_at >= ?", since) })
	}
	if f.LastLoginSince != nil {
		since := *f.LastLoginSince
		s = append(s, func(db *gorm.DB) *gorm.DB { return db.Where("last_login >= ?", since) })
	}
	return s
}

// UserRepository defines user persistence operations.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	EmailExists(ctx context.Context, email string, excludeID uuid.UUID) (bool, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	List(ctx context.Context, filter UserFilter, page Page) ([]model.User, int64, error)
	Count(ctx context.Context, filter UserFilter) (int64, error)
	TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
	UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository builds a GORM-backed repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// Update writes the profile and access columns. Password and last login
// have their own writers and are never touched here.
func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Model(user).
		Select("email", "first_name", "last_name", "role", "is_active", "updated_at").
		Updates(user).Error
}

func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.User{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// EmailExists reports whether another user owns email. Pass uuid.Nil to
// check against every user.
func (r *userRepository) EmailExists(ctx context.Context, email string, excludeID uuid.UUID) (bool, error) {
	q := r.db.WithContext(ctx).Model(&model.User{}).Where("email = ?", email)
	if excludeID != uuid.Nil {
		q = q.Where("id <> ?", excludeID)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *userRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.User{}).Where("username = ?", username).Count(&n).Error
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *userRepository) List(ctx context.Context, filter UserFilter, page Page) ([]model.User, int64, error) {
	return listAndCount[model.User](ctx, r.db, filter.scopes(), []string{orderNewestFirst}, page)
}

func (r *userRepository) Count(ctx context.Context, filter UserFilter) (int64, error) {
	return count[model.User](ctx, r.db, filter.scopes())
}

func (r *userRepository) TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		UpdateColumn("last_login", at).Error
}

func (r *userRepository) UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error {
	res := r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ?", id).
		Update("password", hash)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
