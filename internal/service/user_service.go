package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	apperrors "trivedia/internal/errors"
	"trivedia/internal/model"
	"trivedia/internal/repository"
	"trivedia/internal/validation"
)

const bcryptCost = 10

// UserQuery is the raw filter set of an admin user listing.
type UserQuery struct {
	PageQuery
	Search   string `query:"search"`
	Role     string `query:"role"`
	IsActive string `query:"isActive"`
}

func (q UserQuery) filter() repository.UserFilter {
	return repository.UserFilter{
		Search:   q.Search,
		Role:     model.Role(q.Role),
		IsActive: parseBool(q.IsActive),
	}
}

// CreateUserInput is the payload of an admin user creation.
type CreateUserInput struct {
	Username  string     `json:"username" validate:"required,min=3,max=30,username"`
	Email     string     `json:"email" validate:"required,email,max=255"`
	Password  string     `json:"password" validate:"required,min=6,max=72"`
	FirstName string     `json:"firstName" validate:"required,max=50"`
	LastName  string     `json:"lastName" validate:"required,max=50"`
	Role      model.Role `json:"role" validate:"omitempty,enum"`
}

func (in *CreateUserInput) normalize() {
	trim(&in.Username)
	in.Email = normalizeEmail(in.Email)
	trim(&in.FirstName)
	trim(&in.LastName)
}

// UpdateUserInput is a partial user update; nil fields are left unchanged.
type UpdateUserInput struct {
	FirstName *string     `json:"firstName" validate:"omitnil,min=1,max=50"`
	LastName  *string     `json:"lastName" validate:"omitnil,min=1,max=50"`
	Email     *string     `json:"email" validate:"omitnil,email,max=255"`
	Role      *model.Role `json:"role" validate:"omitnil,enum"`
	IsActive  *bool       `json:"isActive"`
}

func (in *UpdateUserInput) normalize() {
	trimPtr(in.FirstName)
	trimPtr(in.LastName)
	if in.Email != nil {
		e := normalizeEmail(*in.Email)
		in.Email = &e
	}
}

// UserService manages user accounts from the admin area.
type UserService interface {
	List(ctx context.Context, q UserQuery) (ListResult[model.PublicUser], error)
	Get(ctx context.Context, id uuid.UUID) (*model.PublicUser, error)
	Create(ctx context.Context, in CreateUserInput) (*model.PublicUser, error)
	Update(ctx context.Context, id uuid.UUID, in UpdateUserInput) (*model.PublicUser, error)
	Delete(ctx context.Context, actorID, id uuid.UUID) error
	ResetPassword(ctx context.Context, email, password string) error
}

type userService struct {
	repo     repository.UserRepository
	validate *validation.Validator
}

// NewUserService builds a UserService on top of the user repository.
func NewUserService(repo repository.UserRepository, validate *validation.Validator) UserService {
	return &userService{repo: repo, validate: validate}
}

func (s *userService) List(ctx context.Context, q UserQuery) (ListResult[model.PublicUser], error) {
	page := q.page()
	users, total, err := s.repo.List(ctx, q.filter(), page)
	if err != nil {
		return ListResult[model.PublicUser]{}, storeErr("list users", err, nil)
	}
	return newListResult(model.PublicProfiles(users), total, page), nil
}

func (s *userService) Get(ctx context.Context, id uuid.UUID) (*model.PublicUser, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr("find user", err, apperrors.ErrUserNotFound)
	}
	p := user.PublicProfile()
	return &p, nil
}

// Create registers a user after both uniqueness pre-checks pass. The unique
// indexes remain the final guard if a concurrent insert wins the race.
func (s *userService) Create(ctx context.Context, in CreateUserInput) (*model.PublicUser, error) {
	in.normalize()
	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}

	user, err := createUser(ctx, s.repo, in)
	if err != nil {
		return nil, err
	}
	p := user.PublicProfile()
	return &p, nil
}

// createUser is shared by admin creation and public registration. in must
// already be validated.
func createUser(ctx context.Context, repo repository.UserRepository, in CreateUserInput) (*model.User, error) {
	taken, err := repo.EmailExists(ctx, in.Email, uuid.Nil)
	if err != nil {
		return nil, storeErr("check email", err, nil)
	}
	if taken {
		return nil, apperrors.ErrEmailTaken
	}
	taken, err = repo.UsernameExists(ctx, in.Username)
	if err != nil {
		return nil, storeErr("check username", err, nil)
	}
	if taken {
		return nil, apperrors.ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("hash password: %w", err))
	}

	role := in.Role
	if role == "" {
		role = model.RoleViewer
	}
	user := &model.User{
		ID:        uuid.New(),
		Username:  in.Username,
		Email:     in.Email,
		Password:  string(hash),
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Role:      role,
		IsActive:  true,
	}
	if err := repo.Create(ctx, user); err != nil {
		return nil, storeErr("create user", err, nil)
	}
	return user, nil
}

func (s *userService) Update(ctx context.Context, id uuid.UUID, in UpdateUserInput) (*model.PublicUser, error) {
	in.normalize()
	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeErr("find user", err, apperrors.ErrUserNotFound)
	}

	if in.Email != nil && *in.Email != user.Email {
		taken, err := s.repo.EmailExists(ctx, *in.Email, user.ID)
		if err != nil {
			return nil, storeErr("check email", err, nil)
		}
		if taken {
			return nil, apperrors.ErrEmailTaken
		}
		user.Email = *in.Email
	}
	if in.FirstName != nil {
		user.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		user.LastName = *in.LastName
	}
	if in.Role != nil {
		user.Role = *in.Role
	}
	if in.IsActive != nil {
		user.IsActive = *in.IsActive
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, storeErr("update user", err, apperrors.ErrUserNotFound)
	}
	p := user.PublicProfile()
	return &p, nil
}

// Delete removes a user. An admin can never delete their own account.
func (s *userService) Delete(ctx context.Context, actorID, id uuid.UUID) error {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return storeErr("find user", err, apperrors.ErrUserNotFound)
	}
	if user.ID == actorID {
		return apperrors.ErrSelfDelete
	}
	if err := s.repo.Delete(ctx, user.ID); err != nil {
		return storeErr("delete user", err, apperrors.ErrUserNotFound)
	}
	return nil
}

// ResetPassword replaces the password of the user registered under email.
func (s *userService) ResetPassword(ctx context.Context, email, password string) error {
	in := struct {
		Password string `json:"password" validate:"required,min=6,max=72"`
	}{password}
	if err := s.validate.Struct(in); err != nil {
		return err
	}

	user, err := s.repo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return storeErr("find user", err, apperrors.ErrUserNotFound)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return apperrors.Internal(fmt.Errorf("hash password: %w", err))
	}
	if err := s.repo.UpdatePassword(ctx, user.ID, string(hash)); err != nil {
		return storeErr("update password", err, apperrors.ErrUserNotFound)
	}
	return nil
}
