package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"trivedia/internal/model"
)

// ProjectFilter holds the optional predicates of a portfolio listing.
type ProjectFilter struct {
	Search   string
	Status   model.ProjectStatus
	Category model.ProjectCategory
	Featured *bool
}

func (f ProjectFilter) scopes() []scope {
	var s []scope
	if f.Search != "" {
		s = append(s, search(f.Search, "title", "description"))
	}
	if f.Status != "" {
		s = append(s, equals("status", f.Status))
	}
	if f.Category != "" {
		s = append(s, equals("category", f.Category))
	}
	if f.Featured != nil {
		s = append(s, equals("featured", *f.Featured))
	}
	return s
}

// ProjectRepository defines portfolio persistence operations.
type ProjectRepository interface {
	Create(ctx context.Context, project *model.Project) error
	Update(ctx context.Context, project *model.Project) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Project, error)
	List(ctx context.Context, filter ProjectFilter, page Page) ([]model.Project, int64, error)
	Count(ctx context.Context, filter ProjectFilter) (int64, error)
	CountByCategory(ctx context.Context) (map[string]int64, error)
}

type projectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{db: db}
}

func (r *projectRepository) Create(ctx context.Context, project *model.Project) error {
	return r.db.WithContext(ctx).Create(project).Error
}

// Update writes every column of project, including zero values.
func (r *projectRepository) Update(ctx context.Context, project *model.Project) error {
	return r.db.WithContext(ctx).Save(project).Error
}

func (r *projectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Project{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *projectRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Project, error) {
	var project model.Project
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *projectRepository) List(ctx context.Context, filter ProjectFilter, page Page) ([]model.Project, int64, error) {
	return listAndCount[model.Project](ctx, r.db, filter.scopes(), []string{orderDisplay, orderNewestFirst}, page)
}

func (r *projectRepository) Count(ctx context.Context, filter ProjectFilter) (int64, error) {
	return count[model.Project](ctx, r.db, filter.scopes())
}

func (r *projectRepository) CountByCategory(ctx context.Context) (map[string]int64, error) {
	return countGrouped[model.Project](ctx, r.db, "category")
}
