package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"trivedia/internal/model"
)

// ContactFilter holds the optional predicates of an inquiry listing.
type ContactFilter struct {
	Search       string
	Status       model.ContactStatus
	Priority     model.ContactPriority
	CreatedSince *time.Time
}

func (f ContactFilter) scopes() []scope {
	var s []scope
	if f.Search != "" {
		s = append(s, search(f.Search, "name", "email", "company"))
	}
	if f.Status != "" {
		s = append(s, equals("status", f.Status))
	}
	if f.Priority != "" {
		s = append(s, equals("priority", f.Priority))
	}
	if f.CreatedSince != nil {
		since := *f.CreatedSince
		s = append(s, func(db *gorm.DB) *gorm.DB { return db.Where("created_at >= ?", since) })
	}
	return s
}

// ContactRepository defines inquiry persistence operations.
type ContactRepository interface {
	Create(ctx context.Context, contact *model.Contact) error
	Update(ctx context.Context, contact *model.Contact) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Contact, error)
	List(ctx context.Context, filter ContactFilter, page Page) ([]model.Contact, int64, error)
	Count(ctx context.Context, filter ContactFilter) (int64, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
	CountByPriority(ctx context.Context) (map[string]int64, error)
	MarkEmailSent(ctx context.Context, id uuid.UUID, toUser, toAdmin bool) error
}

type contactRepository struct {
	db *gorm.DB
}

func NewContactRepository(db *gorm.DB) ContactRepository {
	return &contactRepository{db: db}
}

func (r *contactRepository) Create(ctx context.Context, contact *model.Contact) error {
	return r.db.WithContext(ctx).Create(contact).Error
}

// Update writes the triage columns only; the delivery flags belong to
// MarkEmailSent.
func (r *contactRepository) Update(ctx context.Context, contact *model.Contact) error {
	return r.db.WithContext(ctx).Model(contact).
		Select("status", "priority", "updated_at").
		Updates(contact).Error
}

func (r *contactRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Contact{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *contactRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Contact, error) {
	var contact model.Contact
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&contact).Error; err != nil {
		return nil, err
	}
	return &contact, nil
}

func (r *contactRepository) List(ctx context.Context, filter ContactFilter, page Page) ([]model.Contact, int64, error) {
	return listAndCount[model.Contact](ctx, r.db, filter.scopes(), []string{orderNewestFirst}, page)
}

func (r *contactRepository) Count(ctx context.Context, filter ContactFilter) (int64, error) {
	return count[model.Contact](ctx, r.db, filter.scopes())
}

func (r *contactRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	return countGrouped[model.Contact](ctx, r.db, "status")
}

func (r *contactRepository) CountByPriority(ctx context.Context) (map[string]int64, error) {
	return countGrouped[model.Contact](ctx, r.db, "priority")
}

// MarkEmailSent raises the delivery flags that are true. A flag is never
// cleared once set.
func (r *contactRepository) MarkEmailSent(ctx context.Context, id uuid.UUID, toUser, toAdmin bool) error {
	updates := map[string]interface{}{}
	if toUser {
		updates["email_sent_to_user"] = true
	}
	if toAdmin {
		updates["email_sent_to_admin"] = true
	}
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&model.Contact{}).Where("id = ?", id).Updates(updates).Error
}
