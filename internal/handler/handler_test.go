package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "trivedia/internal/errors"
	"trivedia/internal/model"
	"trivedia/internal/service"
)

// MockContactService is a mock implementation of ContactService.
type MockContactService struct {
	mock.Mock
}

func (m *MockContactService) Submit(ctx context.Context, in service.ContactInput) (*service.SubmitResult, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SubmitResult), args.Error(1)
}

func (m *MockContactService) List(ctx context.Context, q service.ContactQuery) (service.ListResult[model.Contact], error) {
	args := m.Called(ctx, q)
	return args.Get(0).(service.ListResult[model.Contact]), args.Error(1)
}

func (m *MockContactService) Get(ctx context.Context, id uuid.UUID) (*model.Contact, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Contact), args.Error(1)
}

func (m *MockContactService) Update(ctx context.Context, id uuid.UUID, in service.ContactUpdateInput) (*model.Contact, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Contact), args.Error(1)
}

func (m *MockContactService) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func newContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestPathID(t *testing.T) {
	c, _ := newContext(http.MethodGet, "/", "")
	c.SetParamNames("id")
	c.SetParamValues("42")

	_, err := pathID(c, apperrors.ErrContactNotFound)
	assert.ErrorIs(t, err, apperrors.ErrContactNotFound)

	id := uuid.New()
	c.SetParamValues(id.String())
	got, err := pathID(c, apperrors.ErrContactNotFound)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestBindBody_Malformed(t *testing.T) {
	c, _ := newContext(http.MethodPost, "/", `{"name":`)
	var in service.ContactInput
	err := bindBody(c, &in)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}

func TestContactHandler_List(t *testing.T) {
	svc := new(MockContactService)
	h := NewContactHandler(svc, nil)

	c, rec := newContext(http.MethodGet, "/api/contact?status=new&page=2&limit=5&search=acme", "")
	want := service.ContactQuery{PageQuery: service.PageQuery{Page: "2", Limit: "5"}, Search: "acme", Status: "new"}
	svc.On("List", mock.Anything, want).Return(service.ListResult[model.Contact]{
		Items:      []model.Contact{{Name: "Ann"}},
		Pagination: service.Pagination{Page: 2, Limit: 5, Total: 6, Pages: 2},
	}, nil)

	require.NoError(t, h.List(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success bool `json:"success"`
		Data    struct {
			Contacts   []model.Contact    `json:"contacts"`
			Pagination service.Pagination `json:"pagination"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Len(t, body.Data.Contacts, 1)
	assert.Equal(t, int64(2), body.Data.Pagination.Pages)
	svc.AssertExpectations(t)
}

func TestContactHandler_Submit(t *testing.T) {
	svc := new(MockContactService)
	h := NewContactHandler(svc, nil)

	c, rec := newContext(http.MethodPost, "/api/contact", `{"name":"Ann","email":"ann@acme.io","message":"Hello there, team!"}`)
	svc.On("Submit", mock.Anything, mock.MatchedBy(func(in service.ContactInput) bool {
		return in.Name == "Ann" && in.Email == "ann@acme.io"
	})).Return(&service.SubmitResult{
		Contact:     &model.Contact{Name: "Ann"},
		EmailStatus: service.EmailStatus{UserEmailSent: true},
	}, nil)

	require.NoError(t, h.Submit(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"userEmailSent":true`)
	assert.Contains(t, rec.Body.String(), `"adminEmailSent":false`)
}

func TestContactHandler_ErrorsPassThrough(t *testing.T) {
	svc := new(MockContactService)
	h := NewContactHandler(svc, nil)
	id := uuid.New()
	svc.On("Delete", mock.Anything, id).Return(apperrors.ErrContactNotFound)

	c, _ := newContext(http.MethodDelete, "/", "")
	c.SetParamNames("id")
	c.SetParamValues(id.String())
	assert.ErrorIs(t, h.Delete(c), apperrors.ErrContactNotFound)
}
