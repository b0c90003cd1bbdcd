package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"trivedia/internal/auth"
	"trivedia/internal/cache"
	"trivedia/internal/db/dbtest"
	apperrors "trivedia/internal/errors"
	"trivedia/internal/handler"
	"trivedia/internal/mailer"
	"trivedia/internal/model"
	"trivedia/internal/repository"
	"trivedia/internal/service"
	"trivedia/internal/validation"
)

const testPassword = "secret1"

type envelope struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
	Data    json.RawMessage        `json:"data"`
	Errors  []apperrors.FieldError `json:"errors"`
}

type testApp struct {
	e        *echo.Echo
	users    repository.UserRepository
	projects repository.ProjectRepository
	userSvc  service.UserService
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	gormDB := dbtest.New(t)
	mr := miniredis.RunT(t)
	cacheClient := cache.Wrap(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = cacheClient.Close() })

	v := validation.New()
	logger := zap.NewNop()

	userRepo := repository.NewUserRepository(gormDB)
	projectRepo := repository.NewProjectRepository(gormDB)
	pricingRepo := repository.NewPricingRepository(gormDB)
	contactRepo := repository.NewContactRepository(gormDB)

	authSvc := service.NewAuthService(userRepo, auth.NewJWTService("router-test-secret"), auth.NewTokenStore(cacheClient), v)
	userSvc := service.NewUserService(userRepo, v)
	stats := service.NewStatsService(userRepo, projectRepo, contactRepo)

	e := New(Deps{
		Logger:        logger,
		Authenticator: authSvc,
		Health:        cacheClient.Ping,
		Auth:          handler.NewAuthHandler(authSvc),
		Users:         handler.NewUserHandler(userSvc, stats),
		Projects:      handler.NewProjectHandler(service.NewProjectService(projectRepo, cacheClient, v, "http://localhost:5000"), stats),
		Pricing:       handler.NewPricingHandler(service.NewPricingService(pricingRepo, cacheClient, v)),
		Contacts:      handler.NewContactHandler(service.NewContactService(contactRepo, mailer.NewLogDispatcher(logger), v, logger, "hello@trivedia.com"), stats),
	})

	return &testApp{e: e, users: userRepo, projects: projectRepo, userSvc: userSvc}
}

func (a *testApp) do(t *testing.T, method, path, token string, body interface{}) (int, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec.Code, env
}

// seedUser creates an account and logs it in, returning its id and token.
func (a *testApp) seedUser(t *testing.T, username string, role model.Role) (string, string) {
	t.Helper()

	u, err := a.userSvc.Create(context.Background(), service.CreateUserInput{
		Username:  username,
		Email:     username + "@trivedia.test",
		Password:  testPassword,
		FirstName: "Test",
		LastName:  "User",
		Role:      role,
	})
	require.NoError(t, err)

	code, env := a.do(t, http.MethodPost, "/api/auth/login", "", echo.Map{
		"email":    u.Email,
		"password": testPassword,
	})
	require.Equal(t, http.StatusOK, code, env.Message)

	var pair service.TokenPair
	require.NoError(t, json.Unmarshal(env.Data, &pair))
	require.NotEmpty(t, pair.Token)
	return u.ID.String(), pair.Token
}

func decode(t *testing.T, raw json.RawMessage) map[string]json.RawMessage {
	t.Helper()
	var m map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &m))
	return m
}

func TestRoleGating(t *testing.T) {
	app := newTestApp(t)
	_, viewer := app.seedUser(t, "viewer01", model.RoleViewer)
	_, editor := app.seedUser(t, "editor01", model.RoleEditor)

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		want   int
	}{
		{"no token on admin list", http.MethodGet, "/api/admin/users", "", http.StatusUnauthorized},
		{"no token on admin stats", http.MethodGet, "/api/admin/stats", "", http.StatusUnauthorized},
		{"garbage token", http.MethodGet, "/api/admin/users", "not-a-jwt", http.StatusUnauthorized},
		{"viewer on admin list", http.MethodGet, "/api/admin/users", viewer, http.StatusForbidden},
		{"viewer on contact inbox", http.MethodGet, "/api/contact", viewer, http.StatusForbidden},
		{"viewer on portfolio admin", http.MethodGet, "/api/portfolio/admin", viewer, http.StatusForbidden},
		{"editor on portfolio admin", http.MethodGet, "/api/portfolio/admin", editor, http.StatusOK},
		{"editor on pricing admin", http.MethodGet, "/api/pricing/admin", editor, http.StatusForbidden},
		{"viewer on own profile", http.MethodGet, "/api/auth/me", viewer, http.StatusOK},
		{"public portfolio", http.MethodGet, "/api/portfolio", "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, env := app.do(t, tt.method, tt.path, tt.token, nil)
			assert.Equal(t, tt.want, code)
			assert.Equal(t, code < 400, env.Success)
		})
	}

	t.Run("messages", func(t *testing.T) {
		_, env := app.do(t, http.MethodGet, "/api/admin/users", "", nil)
		assert.Equal(t, "Not authorized, no token", env.Message)
		_, env = app.do(t, http.MethodGet, "/api/admin/users", viewer, nil)
		assert.Equal(t, "Not authorized to access this route", env.Message)
	})
}

func TestAdminUserScenarios(t *testing.T) {
	app := newTestApp(t)
	adminID, admin := app.seedUser(t, "admin01", model.RoleAdmin)
	app.seedUser(t, "admin02", model.RoleAdmin)
	app.seedUser(t, "admin03", model.RoleAdmin)
	app.seedUser(t, "viewer01", model.RoleViewer)

	alice := echo.Map{
		"username":  "alice01",
		"email":     "alice@x.com",
		"password":  "secret1",
		"firstName": "Alice",
		"lastName":  "Lee",
		"role":      "editor",
	}

	t.Run("create returns the public projection", func(t *testing.T) {
		code, env := app.do(t, http.MethodPost, "/api/admin/users", admin, alice)
		require.Equal(t, http.StatusCreated, code, env.Message)

		user := decode(t, decode(t, env.Data)["user"])
		assert.NotContains(t, user, "password")
		assert.JSONEq(t, `"editor"`, string(user["role"]))
	})

	t.Run("duplicate email is rejected", func(t *testing.T) {
		before, err := app.users.Count(context.Background(), repository.UserFilter{})
		require.NoError(t, err)

		dup := echo.Map{}
		for k, v := range alice {
			dup[k] = v
		}
		dup["username"] = "alice02"
		code, env := app.do(t, http.MethodPost, "/api/admin/users", admin, dup)
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, "Email already registered", env.Message)

		after, err := app.users.Count(context.Background(), repository.UserFilter{})
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})

	t.Run("validation lists every field", func(t *testing.T) {
		code, env := app.do(t, http.MethodPost, "/api/admin/users", admin, echo.Map{"username": "a!", "email": "nope"})
		assert.Equal(t, http.StatusBadRequest, code)
		assert.GreaterOrEqual(t, len(env.Errors), 4)
	})

	t.Run("list filtered by role", func(t *testing.T) {
		code, env := app.do(t, http.MethodGet, "/api/admin/users?role=admin&page=1&limit=10", admin, nil)
		require.Equal(t, http.StatusOK, code)

		var data struct {
			Users      []model.PublicUser `json:"users"`
			Pagination service.Pagination `json:"pagination"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &data))
		assert.Equal(t, int64(3), data.Pagination.Total)
		assert.Equal(t, int64(1), data.Pagination.Pages)
		require.Len(t, data.Users, 3)
		for _, u := range data.Users {
			assert.Equal(t, model.RoleAdmin, u.Role)
		}
	})

	t.Run("oversized limit is capped", func(t *testing.T) {
		code, env := app.do(t, http.MethodGet, "/api/admin/users?limit=500", admin, nil)
		require.Equal(t, http.StatusOK, code)

		var data struct {
			Pagination service.Pagination `json:"pagination"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &data))
		assert.Equal(t, service.MaxPageLimit, data.Pagination.Limit)
		assert.Equal(t, int64(1), data.Pagination.Pages)
	})

	t.Run("admin cannot delete own account", func(t *testing.T) {
		code, env := app.do(t, http.MethodDelete, "/api/admin/users/"+adminID, admin, nil)
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, "Cannot delete your own account", env.Message)

		code, _ = app.do(t, http.MethodGet, "/api/admin/users/"+adminID, admin, nil)
		assert.Equal(t, http.StatusOK, code)
	})

	t.Run("malformed and absent ids look the same", func(t *testing.T) {
		code1, env1 := app.do(t, http.MethodGet, "/api/admin/users/not-a-uuid", admin, nil)
		code2, env2 := app.do(t, http.MethodGet, "/api/admin/users/7d7d3b9e-0000-4000-8000-000000000000", admin, nil)
		assert.Equal(t, http.StatusNotFound, code1)
		assert.Equal(t, code1, code2)
		assert.Equal(t, env1.Message, env2.Message)
	})

	t.Run("stats", func(t *testing.T) {
		code, env := app.do(t, http.MethodGet, "/api/admin/stats", admin, nil)
		require.Equal(t, http.StatusOK, code)

		var flat map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(env.Data, &flat))
		assert.Contains(t, flat, "totalUsers")
		assert.NotContains(t, flat, "stats")

		var st service.UserStats
		require.NoError(t, json.Unmarshal(env.Data, &st))
		assert.Equal(t, int64(5), st.TotalUsers)
		assert.Equal(t, int64(3), st.AdminUsers)
		assert.Equal(t, int64(4), st.RecentLogins)
	})
}

func TestProjectStatusOnlyUpdate(t *testing.T) {
	app := newTestApp(t)
	_, editor := app.seedUser(t, "editor01", model.RoleEditor)

	code, env := app.do(t, http.MethodPost, "/api/portfolio", editor, echo.Map{
		"title":        "Acme Storefront",
		"description":  "Headless commerce rebuild",
		"client":       "Acme",
		"image":        "/uploads/acme.png",
		"tags":         []string{"ecommerce", "go"},
		"metrics":      map[string]string{"conversion": "+40%"},
		"testimonials": []echo.Map{{"quote": "Superb", "author": "Jane"}},
	})
	require.Equal(t, http.StatusCreated, code, env.Message)
	var created struct {
		Project service.ProjectView `json:"project"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	path := "/api/portfolio/admin/" + created.Project.ID.String()

	// drafts are hidden from the public endpoint
	code, _ = app.do(t, http.MethodGet, "/api/portfolio/"+created.Project.ID.String(), "", nil)
	assert.Equal(t, http.StatusNotFound, code)

	_, env = app.do(t, http.MethodGet, path, editor, nil)
	before := decode(t, decode(t, env.Data)["project"])

	code, env = app.do(t, http.MethodPut, "/api/portfolio/"+created.Project.ID.String(), editor, echo.Map{"status": "published"})
	require.Equal(t, http.StatusOK, code, env.Message)

	_, env = app.do(t, http.MethodGet, path, editor, nil)
	after := decode(t, decode(t, env.Data)["project"])

	assert.JSONEq(t, `"published"`, string(after["status"]))
	for _, k := range []string{"status", "updatedAt", "updatedBy"} {
		delete(before, k)
		delete(after, k)
	}
	assert.Equal(t, before, after)

	code, _ = app.do(t, http.MethodGet, "/api/portfolio/"+created.Project.ID.String(), "", nil)
	assert.Equal(t, http.StatusOK, code)

	code, _ = app.do(t, http.MethodDelete, "/api/portfolio/"+created.Project.ID.String(), editor, nil)
	assert.Equal(t, http.StatusForbidden, code)
}

func TestContactFlow(t *testing.T) {
	app := newTestApp(t)
	_, admin := app.seedUser(t, "admin01", model.RoleAdmin)

	code, env := app.do(t, http.MethodPost, "/api/contact", "", echo.Map{
		"name":    "Ann Smith",
		"email":   "ann@acme.io",
		"message": "We would like a new marketing site.",
	})
	require.Equal(t, http.StatusCreated, code, env.Message)

	var res service.SubmitResult
	require.NoError(t, json.Unmarshal(env.Data, &res))
	assert.Equal(t, service.EmailStatus{UserEmailSent: true, AdminEmailSent: true}, res.EmailStatus)
	id := res.Contact.ID.String()

	code, env = app.do(t, http.MethodPut, "/api/contact/"+id, admin, echo.Map{"priority": "urgent"})
	require.Equal(t, http.StatusOK, code, env.Message)

	var updated struct {
		Contact model.Contact `json:"contact"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.Equal(t, model.PriorityUrgent, updated.Contact.Priority)
	assert.Equal(t, model.ContactNew, updated.Contact.Status)
	assert.True(t, updated.Contact.EmailSentToUser)

	code, env = app.do(t, http.MethodGet, "/api/contact/stats", admin, nil)
	require.Equal(t, http.StatusOK, code)
	var st service.ContactStats
	require.NoError(t, json.Unmarshal(env.Data, &st))
	assert.Equal(t, int64(1), st.Total)
	assert.Equal(t, int64(1), st.ByPriority["urgent"])
}

func TestPricingCacheInvalidation(t *testing.T) {
	app := newTestApp(t)
	_, admin := app.seedUser(t, "admin01", model.RoleAdmin)

	code, env := app.do(t, http.MethodGet, "/api/pricing", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"plans":[]}`, string(env.Data))

	code, env = app.do(t, http.MethodPost, "/api/pricing", admin, echo.Map{"name": "Starter", "price": "999", "features": []string{"5 pages"}})
	require.Equal(t, http.StatusCreated, code, env.Message)

	_, env = app.do(t, http.MethodGet, "/api/pricing", "", nil)
	var data struct {
		Plans []model.PricingPlan `json:"plans"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Len(t, data.Plans, 1)
	assert.Equal(t, "INR", data.Plans[0].Currency)
}

func TestLogoutRevokesToken(t *testing.T) {
	app := newTestApp(t)
	_, token := app.seedUser(t, "viewer01", model.RoleViewer)

	code, _ := app.do(t, http.MethodPost, "/api/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, code)

	code, env := app.do(t, http.MethodGet, "/api/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Not authorized, token failed", env.Message)
}

func TestHealthAndUnknownRoutes(t *testing.T) {
	app := newTestApp(t)

	code, env := app.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, env.Success)

	code, env = app.do(t, http.MethodGet, "/api/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.False(t, env.Success)
}
