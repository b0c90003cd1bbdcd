package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"trivedia/internal/cache"
	apperrors "trivedia/internal/errors"
	"trivedia/internal/model"
	"trivedia/internal/repository"
	"trivedia/internal/validation"
)

const featuredCacheTTL = 10 * time.Minute

// ProjectQuery is the raw filter set of a portfolio listing.
type ProjectQuery struct {
	PageQuery
	Search   string `query:"search"`
	Status   string `query:"status"`
	Category string `query:"category"`
	Featured string `query:"featured"`
}

func (q ProjectQuery) filter() repository.ProjectFilter {
	return repository.ProjectFilter{
		Search:   q.Search,
		Status:   model.ProjectStatus(q.Status),
		Category: model.ProjectCategory(q.Category),
		Featured: parseBool(q.Featured),
	}
}

// ProjectView is a project with its image paths resolved to absolute URLs.
type ProjectView struct {
	model.Project
	FullImageURL  string   `json:"fullImageUrl"`
	FullImageURLs []string `json:"fullImageUrls"`
}

// ProjectInput creates a project.
type ProjectInput struct {
	Title        string                `json:"title" validate:"required,max=100"`
	Subtitle     string                `json:"subtitle" validate:"max=200"`
	Description  string                `json:"description" validate:"required,max=1000"`
	Category     model.ProjectCategory `json:"category" validate:"omitempty,enum"`
	Client       string                `json:"client" validate:"required,max=100"`
	Image        string                `json:"image" validate:"required,max=500"`
	Images       []string              `json:"images" validate:"omitempty,dive,max=500"`
	Tags         []string              `json:"tags" validate:"omitempty,dive,max=50"`
	Results      []string              `json:"results" validate:"omitempty,dive,max=200"`
	Link         string                `json:"link" validate:"omitempty,max=500,link"`
	ExternalLink string                `json:"externalLink" validate:"omitempty,max=500,httpurl"`
	Featured     bool                  `json:"featured"`
	Status       model.ProjectStatus   `json:"status" validate:"omitempty,enum"`
	Order        int                   `json:"order"`
	Technologies []string              `json:"technologies" validate:"omitempty,dive,max=50"`
	Duration     string                `json:"duration" validate:"max=50"`
	TeamSize     *int                  `json:"teamSize" validate:"omitnil,min=1"`
	Budget       string                `json:"budget" validate:"max=50"`
	Challenges   []string              `json:"challenges" validate:"omitempty,dive,max=500"`
	Solutions    []string              `json:"solutions" validate:"omitempty,dive,max=500"`
	Metrics      map[string]string     `json:"metrics" validate:"omitempty,dive,keys,max=50,endkeys,max=200"`
	Testimonials []model.Testimonial   `json:"testimonials" validate:"omitempty,dive"`
}

func (in *ProjectInput) normalize() {
	for _, s := range []*string{&in.Title, &in.Subtitle, &in.Description, &in.Client, &in.Image, &in.Link, &in.ExternalLink, &in.Duration, &in.Budget} {
		trim(s)
	}
	in.Images = trimAll(in.Images)
	in.Tags = trimAll(in.Tags)
	in.Results = trimAll(in.Results)
	in.Technologies = trimAll(in.Technologies)
	in.Challenges = trimAll(in.Challenges)
	in.Solutions = trimAll(in.Solutions)
}

// ProjectUpdateInput is a partial project update. Nil pointers and nil
// slices leave the stored value unchanged; an empty slice clears it.
type ProjectUpdateInput struct {
	Title        *string                `json:"title" validate:"omitnil,min=1,max=100"`
	Subtitle     *string                `json:"subtitle" validate:"omitnil,max=200"`
	Description  *string                `json:"description" validate:"omitnil,min=1,max=1000"`
	Category     *model.ProjectCategory `json:"category" validate:"omitnil,enum"`
	Client       *string                `json:"client" validate:"omitnil,min=1,max=100"`
	Image        *string                `json:"image" validate:"omitnil,min=1,max=500"`
	Images       []string               `json:"images" validate:"omitempty,dive,max=500"`
	Tags         []string               `json:"tags" validate:"omitempty,dive,max=50"`
	Results      []string               `json:"results" validate:"omitempty,dive,max=200"`
	Link         *string                `json:"link" validate:"omitempty,max=500,link"`
	ExternalLink *string                `json:"externalLink" validate:"omitempty,max=500,httpurl"`
	Featured     *bool                  `json:"featured"`
	Status       *model.ProjectStatus   `json:"status" validate:"omitnil,enum"`
	Order        *int                   `json:"order"`
	Technologies []string               `json:"technologies" validate:"omitempty,dive,max=50"`
	Duration     *string                `json:"duration" validate:"omitnil,max=50"`
	TeamSize     *int                   `json:"teamSize" validate:"omitnil,min=1"`
	Budget       *string                `json:"budget" validate:"omitnil,max=50"`
	Challenges   []string               `json:"challenges" validate:"omitempty,dive,max=500"`
	Solutions    []string               `json:"solutions" validate:"omitempty,dive,max=500"`
	Metrics      map[string]string      `json:"metrics" validate:"omitempty,dive,keys,max=50,endkeys,max=200"`
	Testimonials []model.Testimonial    `json:"testimonials" validate:"omitempty,dive"`
}

func (in *ProjectUpdateInput) normalize() {
	for _, s := range []*string{in.Title, in.Subtitle, in.Description, in.Client, in.Image, in.Link, in.ExternalLink, in.Duration, in.Budget} {
		trimPtr(s)
	}
	in.Images = trimAll(in.Images)
	in.Tags = trimAll(in.Tags)
	in.Results = trimAll(in.Results)
	in.Technologies = trimAll(in.Technologies)
	in.Challenges = trimAll(in.Challenges)
	in.Solutions = trimAll(in.Solutions)
}

// ProjectService manages the portfolio.
type ProjectService interface {
	ListPublished(ctx context.Context, q ProjectQuery) (ListResult[ProjectView], error)
	ListAll(ctx context.Context, q ProjectQuery) (ListResult[ProjectView], error)
	Featured(ctx context.Context) ([]ProjectView, error)
	GetPublished(ctx context.Context, id uuid.UUID) (*ProjectView, error)
	Get(ctx context.Context, id uuid.UUID) (*ProjectView, error)
	Create(ctx context.Context, actorID uuid.UUID, in ProjectInput) (*ProjectView, error)
	Update(ctx context.Context, actorID, id uuid.UUID, in ProjectUpdateInput) (*ProjectView, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type projectService struct {
	repo     repository.ProjectRepository
	cache    *cache.Client
	validate *validation.Validator
	baseURL  string
}

// NewProjectService builds a ProjectService. baseURL resolves relative
// image paths in responses.
func NewProjectService(repo repository.ProjectRepository, cache *cache.Client, validate *validation.Validator, baseURL string) ProjectService {
	return &projectService{repo: repo, cache: cache, validate: validate, baseURL: baseURL}
}

func (s *projectService) view(p *model.Project) ProjectView {
	return ProjectView{
		Project:       *p,
		FullImageURL:  p.FullImageURL(s.baseURL),
		FullImageURLs: p.FullImageURLs(s.baseURL),
	}
}

func (s *projectService) views(projects []model.Project) []ProjectView {
	out := make([]ProjectView, 0, len(projects))
	for i := range projects {
		out = append(out, s.view(&projects[i]))
	}
	return out
}

// ListPublished lists the public portfolio. Any status in q is ignored.
func (s *projectService) ListPublished(ctx context.Context, q ProjectQuery) (ListResult[ProjectView], error) {
	f := q.filter()
	f.Status = model.ProjectPublished
	return s.list(ctx, f, q.page())
}

// ListAll lists every project, drafts and archived included.
func (s *projectService) ListAll(ctx context.Context, q ProjectQuery) (ListResult[ProjectView], error) {
	return s.list(ctx, q.filter(), q.page())
}

func (s *projectService) list(ctx context.Context, f repository.ProjectFilter, page repository.Page) (ListResult[ProjectView], error) {
	projects, total, err := s.repo.List(ctx, f, page)
	if err != nil {
		return ListResult[ProjectView]{}, storeErr("list projects", err, nil)
	}
	return newListResult(s.views(projects), total, page), nil
}

// Featured returns every published featured project, served from cache
// when possible.
func (s *projectService) Featured(ctx context.Context) ([]ProjectView, error) {
	var cached []ProjectView
	if s.cache.GetJSON(ctx, cache.KeyFeaturedPortfolio, &cached) {
		return cached, nil
	}

	featured := true
	projects, _, err := s.repo.List(ctx, repository.ProjectFilter{
		Status:   model.ProjectPublished,
		Featured: &featured,
	}, repository.Page{})
	if err != nil {
		return nil, storeErr("list featured projects", err, nil)
	}

	out := s.views(projects)
	_ = s.cache.SetJSON(ctx, cache.KeyFeaturedPortfolio, out, featuredCacheTTL)
	return out, nil
}

// GetPublished returns a project only if it is published; drafts read as
// not found.
func (s *projectService) GetPublished(ctx context.Context, id uuid.UUID) (*ProjectView, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr("find project", err, apperrors.ErrProjectNotFound)
	}
	if p.Status != model.ProjectPublished {
		return nil, apperrors.ErrProjectNotFound
	}
	v := s.view(p)
	return &v, nil
}

func (s *projectService) Get(ctx context.Context, id uuid.UUID) (*ProjectView, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr("find project", err, apperrors.ErrProjectNotFound)
	}
	v := s.view(p)
	return &v, nil
}

func (s *projectService) Create(ctx context.Context, actorID uuid.UUID, in ProjectInput) (*ProjectView, error) {
	in.normalize()
	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}

	p := &model.Project{
		Title:        in.Title,
		Subtitle:     in.Subtitle,
		Description:  in.Description,
		Category:     in.Category,
		Client:       in.Client,
		Image:        in.Image,
		Images:       in.Images,
		Tags:         in.Tags,
		Results:      in.Results,
		Link:         in.Link,
		ExternalLink: in.ExternalLink,
		Featured:     in.Featured,
		Status:       in.Status,
		Order:        in.Order,
		Technologies: in.Technologies,
		Duration:     in.Duration,
		TeamSize:     in.TeamSize,
		Budget:       in.Budget,
		Challenges:   in.Challenges,
		Solutions:    in.Solutions,
		Metrics:      metricsMap(in.Metrics),
		Testimonials: in.Testimonials,
		CreatedBy:    actorID,
	}
	if p.Category == "" {
		p.Category = model.CategoryWebDevelopment
	}
	if p.Status == "" {
		p.Status = model.ProjectDraft
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, storeErr("create project", err, nil)
	}
	s.invalidate(ctx)
	v := s.view(p)
	return &v, nil
}

// Update merges the provided fields into the stored project and records
// actorID as its last editor.
func (s *projectService) Update(ctx context.Context, actorID, id uuid.UUID, in ProjectUpdateInput) (*ProjectView, error) {
	in.normalize()
	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}

	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr("find project", err, apperrors.ErrProjectNotFound)
	}
	applyProjectUpdate(p, in)
	p.UpdatedBy = &actorID

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, storeErr("update project", err, apperrors.ErrProjectNotFound)
	}
	s.invalidate(ctx)
	v := s.view(p)
	return &v, nil
}

func applyProjectUpdate(p *model.Project, in ProjectUpdateInput) {
	setString := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	setSlice := func(dst *datatypes.JSONSlice[string], src []string) {
		if src != nil {
			*dst = src
		}
	}

	setString(&p.Title, in.Title)
	setString(&p.Subtitle, in.Subtitle)
	setString(&p.Description, in.Description)
	setString(&p.Client, in.Client)
	setString(&p.Image, in.Image)
	setString(&p.Link, in.Link)
	setString(&p.ExternalLink, in.ExternalLink)
	setString(&p.Duration, in.Duration)
	setString(&p.Budget, in.Budget)

	setSlice(&p.Images, in.Images)
	setSlice(&p.Tags, in.Tags)
	setSlice(&p.Results, in.Results)
	setSlice(&p.Technologies, in.Technologies)
	setSlice(&p.Challenges, in.Challenges)
	setSlice(&p.Solutions, in.Solutions)

	if in.Category != nil {
		p.Category = *in.Category
	}
	if in.Status != nil {
		p.Status = *in.Status
	}
	if in.Featured != nil {
		p.Featured = *in.Featured
	}
	if in.Order != nil {
		p.Order = *in.Order
	}
	if in.TeamSize != nil {
		size := *in.TeamSize
		p.TeamSize = &size
	}
	if in.Metrics != nil {
		p.Metrics = metricsMap(in.Metrics)
	}
	if in.Testimonials != nil {
		p.Testimonials = in.Testimonials
	}
}

func metricsMap(m map[string]string) datatypes.JSONMap {
	if m == nil {
		return nil
	}
	out := make(datatypes.JSONMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s *projectService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return storeErr("find project", err, apperrors.ErrProjectNotFound)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return storeErr("delete project", err, apperrors.ErrProjectNotFound)
	}
	s.invalidate(ctx)
	return nil
}

func (s *projectService) invalidate(ctx context.Context) {
	_ = s.cache.Delete(ctx, cache.KeyFeaturedPortfolio)
}
