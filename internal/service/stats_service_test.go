package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "trivedia/internal/errors"
	"trivedia/internal/model"
	"trivedia/internal/repository"
)

func TestStatsService_Users(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	weekAgo := now.Add(-7 * 24 * time.Hour)
	dayAgo := now.Add(-24 * time.Hour)
	active := true

	users := new(MockUserRepository)
	users.On("Count", mock.Anything, repository.UserFilter{}).Return(int64(12), nil)
	users.On("Count", mock.Anything, repository.UserFilter{IsActive: &active}).Return(int64(10), nil)
	users.On("Count", mock.Anything, repository.UserFilter{Role: model.RoleAdmin}).Return(int64(2), nil)
	users.On("Count", mock.Anything, repository.UserFilter{Role: model.RoleEditor}).Return(int64(3), nil)
	users.On("Count", mock.Anything, repository.UserFilter{Role: model.RoleViewer}).Return(int64(7), nil)
	users.On("Count", mock.Anything, repository.UserFilter{CreatedSince: &weekAgo}).Return(int64(4), nil)
	users.On("Count", mock.Anything, repository.UserFilter{LastLoginSince: &dayAgo}).Return(int64(1), nil)

	svc := NewStatsService(users, nil, nil).(*statsService)
	svc.now = func() time.Time { return now }

	st, err := svc.Users(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &UserStats{
		TotalUsers:   12,
		ActiveUsers:  10,
		AdminUsers:   2,
		EditorUsers:  3,
		ViewerUsers:  7,
		RecentUsers:  4,
		RecentLogins: 1,
	}, st)
	users.AssertExpectations(t)
}

func TestStatsService_UsersFailure(t *testing.T) {
	users := new(MockUserRepository)
	users.On("Count", mock.Anything, mock.Anything).Return(int64(0), errors.New("db gone"))

	svc := NewStatsService(users, nil, nil)
	_, err := svc.Users(context.Background())
	assert.Equal(t, apperrors.KindInternal, apperrors.KindOf(err))
}

func TestStatsService_Projects(t *testing.T) {
	featured := true
	projects := new(MockProjectRepository)
	projects.On("Count", mock.Anything, repository.ProjectFilter{}).Return(int64(9), nil)
	projects.On("Count", mock.Anything, repository.ProjectFilter{Status: model.ProjectPublished}).Return(int64(5), nil)
	projects.On("Count", mock.Anything, repository.ProjectFilter{Status: model.ProjectDraft}).Return(int64(3), nil)
	projects.On("Count", mock.Anything, repository.ProjectFilter{Status: model.ProjectArchived}).Return(int64(1), nil)
	projects.On("Count", mock.Anything, repository.ProjectFilter{Featured: &featured}).Return(int64(2), nil)
	projects.On("CountByCategory", mock.Anything).Return(map[string]int64{"Games": 4, "Web Design": 5}, nil)

	st, err := NewStatsService(nil, projects, nil).Projects(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &ProjectStats{
		Total:      9,
		Published:  5,
		Draft:      3,
		Archived:   1,
		Featured:   2,
		ByCategory: map[string]int64{"Games": 4, "Web Design": 5},
	}, st)
}

func TestStatsService_Contacts(t *testing.T) {
	loc := time.FixedZone("IST", 5*60*60+30*60)
	now := time.Date(2024, 6, 15, 9, 30, 0, 0, loc)
	midnight := time.Date(2024, 6, 15, 0, 0, 0, 0, loc)

	contacts := new(MockContactRepository)
	contacts.On("Count", mock.Anything, repository.ContactFilter{}).Return(int64(20), nil)
	contacts.On("Count", mock.Anything, repository.ContactFilter{CreatedSince: &midnight}).Return(int64(2), nil)
	contacts.On("CountByStatus", mock.Anything).Return(map[string]int64{"new": 5, "archived": 15}, nil)
	contacts.On("CountByPriority", mock.Anything).Return(map[string]int64{"medium": 20}, nil)

	svc := NewStatsService(nil, nil, contacts).(*statsService)
	svc.now = func() time.Time { return now }

	st, err := svc.Contacts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(20), st.Total)
	assert.Equal(t, int64(2), st.Today)
	assert.Equal(t, int64(5), st.ByStatus["new"])
	assert.Equal(t, int64(20), st.ByPriority["medium"])
}
