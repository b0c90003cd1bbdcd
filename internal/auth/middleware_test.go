package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "trivedia/internal/errors"
	"trivedia/internal/model"
)

type fakeAuthenticator map[string]*model.User

func (f fakeAuthenticator) Authenticate(_ context.Context, token string) (*model.User, *Claims, error) {
	u, ok := f[token]
	if !ok {
		return nil, nil, apperrors.ErrInvalidToken
	}
	if !u.IsActive {
		return nil, nil, apperrors.ErrAccountInactive
	}
	return u, &Claims{UserID: u.ID, Role: u.Role}, nil
}

func TestMiddleware(t *testing.T) {
	editor := &model.User{ID: uuid.New(), Role: model.RoleEditor, IsActive: true}
	retired := &model.User{ID: uuid.New(), Role: model.RoleAdmin}
	authn := fakeAuthenticator{"editor-token": editor, "retired-token": retired}

	tests := []struct {
		name   string
		header string
		roles  []model.Role
		want   error
	}{
		{name: "no header", want: apperrors.ErrNoToken},
		{name: "wrong scheme", header: "Basic abc", want: apperrors.ErrNoToken},
		{name: "unknown token", header: "Bearer nope", want: apperrors.ErrInvalidToken},
		{name: "deactivated account", header: "Bearer retired-token", want: apperrors.ErrAccountInactive},
		{name: "role not allowed", header: "Bearer editor-token", roles: []model.Role{model.RoleAdmin}, want: apperrors.ErrInsufficientRole},
		{name: "role allowed", header: "Bearer editor-token", roles: []model.Role{model.RoleAdmin, model.RoleEditor}},
		{name: "any authenticated user", header: "Bearer editor-token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tt.header)
			}
			c := e.NewContext(req, httptest.NewRecorder())

			var seen *model.User
			h := func(c echo.Context) error {
				seen = CurrentUser(c)
				return c.NoContent(http.StatusNoContent)
			}
			if tt.roles != nil {
				h = RequireRole(tt.roles...)(h)
			}
			err := Middleware(authn)(h)(c)

			if tt.want != nil {
				assert.ErrorIs(t, err, tt.want)
				assert.Nil(t, seen)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, editor, seen)
			require.NotNil(t, CurrentClaims(c))
			assert.Equal(t, editor.ID, CurrentClaims(c).UserID)
		})
	}
}

func TestRequireRole_WithoutAuthentication(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	err := RequireRole(model.RoleAdmin)(func(c echo.Context) error { return nil })(c)
	assert.ErrorIs(t, err, apperrors.ErrNoToken)
}
