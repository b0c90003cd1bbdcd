package service

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"trivedia/internal/model"
	"trivedia/internal/repository"
)

const (
	recentUserWindow  = 7 * 24 * time.Hour
	recentLoginWindow = 24 * time.Hour
)

// UserStats are the admin dashboard counters.
type UserStats struct {
	TotalUsers   int64 `json:"totalUsers"`
	ActiveUsers  int64 `json:"activeUsers"`
	AdminUsers   int64 `json:"adminUsers"`
	EditorUsers  int64 `json:"editorUsers"`
	ViewerUsers  int64 `json:"viewerUsers"`
	RecentUsers  int64 `json:"recentUsers"`
	RecentLogins int64 `json:"recentLogins"`
}

// ProjectStats summarise the portfolio.
type ProjectStats struct {
	Total      int64            `json:"total"`
	Published  int64            `json:"published"`
	Draft      int64            `json:"draft"`
	Archived   int64            `json:"archived"`
	Featured   int64            `json:"featured"`
	ByCategory map[string]int64 `json:"byCategory"`
}

// ContactStats summarise the inquiry inbox.
type ContactStats struct {
	Total      int64            `json:"total"`
	Today      int64            `json:"today"`
	ByStatus   map[string]int64 `json:"byStatus"`
	ByPriority map[string]int64 `json:"byPriority"`
}

// StatsService computes dashboard aggregates. Nothing is cached: every call
// recomputes from source counts, issuing the counts concurrently.
type StatsService interface {
	Users(ctx context.Context) (*UserStats, error)
	Projects(ctx context.Context) (*ProjectStats, error)
	Contacts(ctx context.Context) (*ContactStats, error)
}

type statsService struct {
	users    repository.UserRepository
	projects repository.ProjectRepository
	contacts repository.ContactRepository
	now      func() time.Time
}

// NewStatsService builds a StatsService over the three repositories.
func NewStatsService(users repository.UserRepository, projects repository.ProjectRepository, contacts repository.ContactRepository) StatsService {
	return &statsService{
		users:    users,
		projects: projects,
		contacts: contacts,
		now:      time.Now,
	}
}

func (s *statsService) Users(ctx context.Context) (*UserStats, error) {
	now := s.now()
	active := true
	createdSince := now.Add(-recentUserWindow)
	loginSince := now.Add(-recentLoginWindow)

	var st UserStats
	g, gctx := errgroup.WithContext(ctx)
	countInto := func(dst *int64, f repository.UserFilter) {
		g.Go(func() error {
			n, err := s.users.Count(gctx, f)
			*dst = n
			return err
		})
	}
	countInto(&st.TotalUsers, repository.UserFilter{})
	countInto(&st.ActiveUsers, repository.UserFilter{IsActive: &active})
	countInto(&st.AdminUsers, repository.UserFilter{Role: model.RoleAdmin})
	countInto(&st.EditorUsers, repository.UserFilter{Role: model.RoleEditor})
	countInto(&st.ViewerUsers, repository.UserFilter{Role: model.RoleViewer})
	countInto(&st.RecentUsers, repository.UserFilter{CreatedSince: &createdSince})
	countInto(&st.RecentLogins, repository.UserFilter{LastLoginSince: &loginSince})

	if err := g.Wait(); err != nil {
		return nil, storeErr("user stats", err, nil)
	}
	return &st, nil
}

func (s *statsService) Projects(ctx context.Context) (*ProjectStats, error) {
	featured := true

	var st ProjectStats
	g, gctx := errgroup.WithContext(ctx)
	countInto := func(dst *int64, f repository.ProjectFilter) {
		g.Go(func() error {
			n, err := s.projects.Count(gctx, f)
			*dst = n
			return err
		})
	}
	countInto(&st.Total, repository.ProjectFilter{})
	countInto(&st.Published, repository.ProjectFilter{Status: model.ProjectPublished})
	countInto(&st.Draft, repository.ProjectFilter{Status: model.ProjectDraft})
	countInto(&st.Archived, repository.ProjectFilter{Status: model.ProjectArchived})
	countInto(&st.Featured, repository.ProjectFilter{Featured: &featured})
	g.Go(func() error {
		m, err := s.projects.CountByCategory(gctx)
		st.ByCategory = m
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, storeErr("project stats", err, nil)
	}
	return &st, nil
}

func (s *statsService) Contacts(ctx context.Context) (*ContactStats, error) {
	now := s.now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var st ContactStats
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.contacts.Count(gctx, repository.ContactFilter{})
		st.Total = n
		return err
	})
	g.Go(func() error {
		n, err := s.contacts.Count(gctx, repository.ContactFilter{CreatedSince: &midnight})
		st.Today = n
		return err
	})
	g.Go(func() error {
		m, err := s.contacts.CountByStatus(gctx)
		st.ByStatus = m
		return err
	})
	g.Go(func() error {
		m, err := s.contacts.CountByPriority(gctx)
		st.ByPriority = m
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, storeErr("contact stats", err, nil)
	}
	return &st, nil
}
