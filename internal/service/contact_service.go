package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	apperrors "trivedia/internal/errors"
	"trivedia/internal/mailer"
	"trivedia/internal/model"
	"trivedia/internal/repository"
	"trivedia/internal/validation"
)

// ContactQuery is the raw filter set of an inquiry listing.
type ContactQuery struct {
	PageQuery
	Search   string `query:"search"`
	Status   string `query:"status"`
	Priority string `query:"priority"`
}

func (q ContactQuery) filter() repository.ContactFilter {
	return repository.ContactFilter{
		Search:   q.Search,
		Status:   model.ContactStatus(q.Status),
		Priority: model.ContactPriority(q.Priority),
	}
}

// ContactInput is a public contact form submission.
type ContactInput struct {
	Name        string `json:"name" validate:"required,max=100"`
	Email       string `json:"email" validate:"required,email,max=255"`
	Company     string `json:"company" validate:"max=100"`
	Phone       string `json:"phone" validate:"max=30"`
	ProjectType string `json:"projectType" validate:"max=100"`
	Budget      string `json:"budget" validate:"max=100"`
	Timeline    string `json:"timeline" validate:"max=100"`
	Message     string `json:"message" validate:"required,min=10,max=2000"`
}

func (in *ContactInput) normalize() {
	for _, s := range []*string{&in.Name, &in.Company, &in.Phone, &in.ProjectType, &in.Budget, &in.Timeline, &in.Message} {
		trim(s)
	}
	in.Email = normalizeEmail(in.Email)
}

// ContactUpdateInput triages an inquiry. Status and priority are
// independent; a nil field is left unchanged.
type ContactUpdateInput struct {
	Status   *model.ContactStatus   `json:"status" validate:"omitnil,enum"`
	Priority *model.ContactPriority `json:"priority" validate:"omitnil,enum"`
}

// EmailStatus reports which notification emails went out.
type EmailStatus struct {
	UserEmailSent  bool `json:"userEmailSent"`
	AdminEmailSent bool `json:"adminEmailSent"`
}

// SubmitResult is the outcome of a contact form submission.
type SubmitResult struct {
	Contact     *model.Contact `json:"contact"`
	EmailStatus EmailStatus    `json:"emailStatus"`
}

// ContactService handles inbound leads.
type ContactService interface {
	Submit(ctx context.Context, in ContactInput) (*SubmitResult, error)
	List(ctx context.Context, q ContactQuery) (ListResult[model.Contact], error)
	Get(ctx context.Context, id uuid.UUID) (*model.Contact, error)
	Update(ctx context.Context, id uuid.UUID, in ContactUpdateInput) (*model.Contact, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type contactService struct {
	repo        repository.ContactRepository
	dispatcher  mailer.Dispatcher
	validate    *validation.Validator
	logger      *zap.Logger
	notifyEmail string
}

// NewContactService builds a ContactService. notifyEmail receives a copy of
// every submission.
func NewContactService(repo repository.ContactRepository, dispatcher mailer.Dispatcher, validate *validation.Validator, logger *zap.Logger, notifyEmail string) ContactService {
	return &contactService{
		repo:        repo,
		dispatcher:  dispatcher,
		validate:    validate,
		logger:      logger,
		notifyEmail: notifyEmail,
	}
}

// Submit stores the inquiry, then sends the confirmation and the admin
// notification concurrently. A failed email never fails the submission.
func (s *contactService) Submit(ctx context.Context, in ContactInput) (*SubmitResult, error) {
	in.normalize()
	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}

	contact := &model.Contact{
		Name:        in.Name,
		Email:       in.Email,
		Company:     in.Company,
		Phone:       in.Phone,
		ProjectType: in.ProjectType,
		Budget:      in.Budget,
		Timeline:    in.Timeline,
		Message:     in.Message,
		Status:      model.ContactNew,
		Priority:    model.PriorityMedium,
	}
	if err := s.repo.Create(ctx, contact); err != nil {
		return nil, storeErr("create contact", err, nil)
	}

	status := s.notify(ctx, contact)
	if status.UserEmailSent || status.AdminEmailSent {
		if err := s.repo.MarkEmailSent(ctx, contact.ID, status.UserEmailSent, status.AdminEmailSent); err != nil {
			s.logger.Warn("record email delivery", zap.String("contact_id", contact.ID.String()), zap.Error(err))
		} else {
			contact.EmailSentToUser = status.UserEmailSent
			contact.EmailSentToAdmin = status.AdminEmailSent
		}
	}
	return &SubmitResult{Contact: contact, EmailStatus: status}, nil
}

func (s *contactService) notify(ctx context.Context, c *model.Contact) EmailStatus {
	data := map[string]interface{}{
		"name":        c.Name,
		"email":       c.Email,
		"company":     c.Company,
		"phone":       c.Phone,
		"projectType": c.ProjectType,
		"budget":      c.Budget,
		"timeline":    c.Timeline,
		"message":     c.Message,
	}

	var status EmailStatus
	var g errgroup.Group
	g.Go(func() error {
		status.UserEmailSent = s.send(ctx, c.ID, mailer.Message{
			Template: mailer.TemplateContactConfirmation,
			To:       c.Email,
			Data:     data,
		})
		return nil
	})
	g.Go(func() error {
		status.AdminEmailSent = s.send(ctx, c.ID, mailer.Message{
			Template: mailer.TemplateContactAdminNotification,
			To:       s.notifyEmail,
			Data:     data,
		})
		return nil
	})
	_ = g.Wait()
	return status
}

func (s *contactService) send(ctx context.Context, contactID uuid.UUID, msg mailer.Message) bool {
	if err := s.dispatcher.Send(ctx, msg); err != nil {
		s.logger.Warn("send contact email",
			zap.String("contact_id", contactID.String()),
			zap.String("template", msg.Template),
			zap.Error(err),
		)
		return false
	}
	return true
}

func (s *contactService) List(ctx context.Context, q ContactQuery) (ListResult[model.Contact], error) {
	page := q.page()
	contacts, total, err := s.repo.List(ctx, q.filter(), page)
	if err != nil {
		return ListResult[model.Contact]{}, storeErr("list contacts", err, nil)
	}
	return newListResult(contacts, total, page), nil
}

func (s *contactService) Get(ctx context.Context, id uuid.UUID) (*model.Contact, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr("find contact", err, apperrors.ErrContactNotFound)
	}
	return c, nil
}

// Update changes only the triage axes that are present in the input.
func (s *contactService) Update(ctx context.Context, id uuid.UUID, in ContactUpdateInput) (*model.Contact, error) {
	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}

	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr("find contact", err, apperrors.ErrContactNotFound)
	}
	if in.Status != nil {
		c.Status = *in.Status
	}
	if in.Priority != nil {
		c.Priority = *in.Priority
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, storeErr("update contact", err, apperrors.ErrContactNotFound)
	}
	return c, nil
}

func (s *contactService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return storeErr("find contact", err, apperrors.ErrContactNotFound)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return storeErr("delete contact", err, apperrors.ErrContactNotFound)
	}
	return nil
}
