package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	apperrors "trivedia/internal/errors"
	"trivedia/internal/mailer"
	"trivedia/internal/model"
	"trivedia/internal/repository"
	"trivedia/internal/validation"
)

const notifyAddr = "hello@trivedia.com"

func validContact() ContactInput {
	return ContactInput{
		Name:    "Ann Smith",
		Email:   "Ann@Acme.io",
		Company: "Acme",
		Message: "We would like a new marketing site.",
	}
}

func TestContactService_Submit(t *testing.T) {
	tests := []struct {
		name       string
		userErr    error
		adminErr   error
		wantUser   bool
		wantAdmin  bool
		expectMark bool
	}{
		{name: "both emails sent", wantUser: true, wantAdmin: true, expectMark: true},
		{name: "admin email fails", adminErr: errors.New("smtp down"), wantUser: true, expectMark: true},
		{name: "both fail", userErr: errors.New("bounce"), adminErr: errors.New("smtp down")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			repo := new(MockContactRepository)
			disp := new(MockDispatcher)

			repo.On("Create", ctx, mock.MatchedBy(func(c *model.Contact) bool {
				return c.Status == model.ContactNew && c.Priority == model.PriorityMedium && c.Email == "ann@acme.io"
			})).Run(func(args mock.Arguments) {
				args.Get(1).(*model.Contact).ID = uuid.New()
			}).Return(nil)
			disp.On("Send", ctx, mock.MatchedBy(func(m mailer.Message) bool {
				return m.Template == mailer.TemplateContactConfirmation && m.To == "ann@acme.io"
			})).Return(tt.userErr)
			disp.On("Send", ctx, mock.MatchedBy(func(m mailer.Message) bool {
				return m.Template == mailer.TemplateContactAdminNotification && m.To == notifyAddr
			})).Return(tt.adminErr)
			if tt.expectMark {
				repo.On("MarkEmailSent", ctx, mock.Anything, tt.wantUser, tt.wantAdmin).Return(nil)
			}

			svc := NewContactService(repo, disp, validation.New(), zap.NewNop(), notifyAddr)
			res, err := svc.Submit(ctx, validContact())
			require.NoError(t, err)

			assert.Equal(t, EmailStatus{UserEmailSent: tt.wantUser, AdminEmailSent: tt.wantAdmin}, res.EmailStatus)
			assert.Equal(t, tt.wantUser, res.Contact.EmailSentToUser)
			assert.Equal(t, tt.wantAdmin, res.Contact.EmailSentToAdmin)
			if !tt.expectMark {
				repo.AssertNotCalled(t, "MarkEmailSent", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
			}
			repo.AssertExpectations(t)
			disp.AssertExpectations(t)
		})
	}
}

func TestContactService_SubmitValidation(t *testing.T) {
	repo := new(MockContactRepository)
	svc := NewContactService(repo, new(MockDispatcher), validation.New(), zap.NewNop(), notifyAddr)

	in := validContact()
	in.Message = "too short"
	in.Email = "not-an-email"
	_, err := svc.Submit(context.Background(), in)

	var ae *apperrors.Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, apperrors.KindValidation, ae.Kind)
	assert.Len(t, ae.Fields, 2)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestContactService_StatusAndPriorityAreIndependent(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()
	stored := &model.Contact{ID: id, Name: "Ann", Status: model.ContactContacted, Priority: model.PriorityLow}

	repo := new(MockContactRepository)
	repo.On("FindByID", ctx, id).Return(stored, nil)
	repo.On("Update", ctx, stored).Return(nil)
	svc := NewContactService(repo, new(MockDispatcher), validation.New(), zap.NewNop(), notifyAddr)

	urgent := model.PriorityUrgent
	c, err := svc.Update(ctx, id, ContactUpdateInput{Priority: &urgent})
	require.NoError(t, err)
	assert.Equal(t, model.PriorityUrgent, c.Priority)
	assert.Equal(t, model.ContactContacted, c.Status)

	archived := model.ContactArchived
	c, err = svc.Update(ctx, id, ContactUpdateInput{Status: &archived})
	require.NoError(t, err)
	assert.Equal(t, model.ContactArchived, c.Status)
	assert.Equal(t, model.PriorityUrgent, c.Priority)

	bogus := model.ContactStatus("closed")
	_, err = svc.Update(ctx, id, ContactUpdateInput{Status: &bogus})
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}

func TestContactService_ListAndLookup(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	repo := new(MockContactRepository)
	repo.On("List", ctx, repository.ContactFilter{Search: "acme", Status: model.ContactNew}, repository.Page{Number: 2, Limit: 5}).
		Return([]model.Contact{{ID: id}}, int64(6), nil)
	repo.On("FindByID", ctx, id).Return(nil, gorm.ErrRecordNotFound)
	svc := NewContactService(repo, new(MockDispatcher), validation.New(), zap.NewNop(), notifyAddr)

	res, err := svc.List(ctx, ContactQuery{PageQuery: PageQuery{Page: "2", Limit: "5"}, Search: "acme", Status: "new"})
	require.NoError(t, err)
	assert.Equal(t, Pagination{Page: 2, Limit: 5, Total: 6, Pages: 2}, res.Pagination)

	_, err = svc.Get(ctx, id)
	assert.ErrorIs(t, err, apperrors.ErrContactNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, id), apperrors.ErrContactNotFound)
}
