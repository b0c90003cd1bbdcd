package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"trivedia/internal/auth"
	apperrors "trivedia/internal/errors"
	"trivedia/internal/model"
	"trivedia/internal/repository"
	"trivedia/internal/validation"
)

// RegisterInput is the payload of a public signup. New accounts are viewers.
type RegisterInput struct {
	Username  string `json:"username" validate:"required,min=3,max=30,username"`
	Email     string `json:"email" validate:"required,email,max=255"`
	Password  string `json:"password" validate:"required,min=6,max=72"`
	FirstName string `json:"firstName" validate:"required,max=50"`
	LastName  string `json:"lastName" validate:"required,max=50"`
}

// LoginInput is the payload of a login.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ProfileInput is a self-service profile edit; nil fields are left unchanged.
type ProfileInput struct {
	FirstName *string `json:"firstName" validate:"omitnil,min=1,max=50"`
	LastName  *string `json:"lastName" validate:"omitnil,min=1,max=50"`
	Email     *string `json:"email" validate:"omitnil,email,max=255"`
}

// PasswordInput changes the caller's own password.
type PasswordInput struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6,max=72"`
}

// TokenPair is what a successful login or refresh hands back to the client.
type TokenPair struct {
	Token        string            `json:"token"`
	RefreshToken string            `json:"refreshToken,omitempty"`
	ExpiresIn    int64             `json:"expiresIn"`
	User         *model.PublicUser `json:"user,omitempty"`
}

// AuthService handles authentication operations.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*TokenPair, error)
	Login(ctx context.Context, in LoginInput) (*TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	Logout(ctx context.Context, claims *auth.Claims, refreshToken string) error
	Authenticate(ctx context.Context, accessToken string) (*model.User, *auth.Claims, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, in ProfileInput) (*model.PublicUser, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, in PasswordInput) error
}

type authService struct {
	userRepo   repository.UserRepository
	jwtService *auth.JWTService
	tokenStore auth.TokenStoreInterface
	validate   *validation.Validator
	now        func() time.Time
}

// NewAuthService creates a new authentication service.
func NewAuthService(userRepo repository.UserRepository, jwtService *auth.JWTService, tokenStore auth.TokenStoreInterface, validate *validation.Validator) AuthService {
	return &authService{
		userRepo:   userRepo,
		jwtService: jwtService,
		tokenStore: tokenStore,
		validate:   validate,
		now:        time.Now,
	}
}

// Register creates a viewer account and logs it in.
func (s *authService) Register(ctx context.Context, in RegisterInput) (*TokenPair, error) {
	create := CreateUserInput{
		Username:  in.Username,
		Email:     in.Email,
		Password:  in.Password,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Role:      model.RoleViewer,
	}
	create.normalize()
	if err := s.validate.Struct(create); err != nil {
		return nil, err
	}

	user, err := createUser(ctx, s.userRepo, create)
	if err != nil {
		return nil, err
	}
	return s.issue(ctx, user)
}

// Login verifies credentials, records the login time and issues tokens.
// Unknown emails and wrong passwords are indistinguishable to the caller.
func (s *authService) Login(ctx context.Context, in LoginInput) (*TokenPair, error) {
	in.Email = normalizeEmail(in.Email)
	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, storeErr("find user", err, nil)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, apperrors.ErrAccountInactive
	}

	now := s.now()
	if err := s.userRepo.TouchLastLogin(ctx, user.ID, now); err != nil {
		return nil, storeErr("record login", err, nil)
	}
	user.LastLogin = &now

	return s.issue(ctx, user)
}

func (s *authService) issue(ctx context.Context, user *model.User) (*TokenPair, error) {
	accessToken, err := s.jwtService.GenerateAccessToken(user)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("generate access token: %w", err))
	}
	tokenID, refreshToken, err := s.jwtService.GenerateRefreshToken(user)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("generate refresh token: %w", err))
	}
	if err := s.tokenStore.StoreRefreshToken(ctx, tokenID, user.ID, auth.RefreshTokenExpiry); err != nil {
		return nil, apperrors.Internal(fmt.Errorf("store refresh token: %w", err))
	}

	p := user.PublicProfile()
	return &TokenPair{
		Token:        accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(auth.AccessTokenExpiry.Seconds()),
		User:         &p,
	}, nil
}

// Refresh exchanges a registered refresh token for a new access token. The
// user is reloaded so role changes and deactivation take effect.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperrors.ErrInvalidRefreshToken
	}
	storedUserID, err := s.tokenStore.GetRefreshToken(ctx, claims.ID)
	if err != nil || storedUserID != claims.UserID {
		return nil, apperrors.ErrInvalidRefreshToken
	}

	user, err := s.activeUser(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}

	accessToken, err := s.jwtService.GenerateAccessToken(user)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("generate access token: %w", err))
	}
	return &TokenPair{
		Token:     accessToken,
		ExpiresIn: int64(auth.AccessTokenExpiry.Seconds()),
	}, nil
}

// Logout revokes the presented access token until it expires, and the
// refresh token when one is supplied.
func (s *authService) Logout(ctx context.Context, claims *auth.Claims, refreshToken string) error {
	if claims != nil {
		if err := s.tokenStore.BlacklistAccessToken(ctx, claims.ID, claims.TTL()); err != nil {
			return apperrors.Internal(fmt.Errorf("blacklist access token: %w", err))
		}
	}
	if refreshToken == "" {
		return nil
	}
	rc, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return apperrors.ErrInvalidRefreshToken
	}
	if claims != nil && rc.UserID != claims.UserID {
		return apperrors.ErrInvalidRefreshToken
	}
	if err := s.tokenStore.DeleteRefreshToken(ctx, rc.ID); err != nil {
		return apperrors.Internal(fmt.Errorf("delete refresh token: %w", err))
	}
	return nil
}

// Authenticate resolves an access token to an active user.
func (s *authService) Authenticate(ctx context.Context, accessToken string) (*model.User, *auth.Claims, error) {
	claims, err := s.jwtService.ValidateAccessToken(accessToken)
	if err != nil {
		return nil, nil, apperrors.ErrInvalidToken
	}
	revoked, err := s.tokenStore.IsAccessTokenBlacklisted(ctx, claims.ID)
	if err != nil || revoked {
		return nil, nil, apperrors.ErrInvalidToken
	}

	user, err := s.activeUser(ctx, claims.UserID)
	if err != nil {
		return nil, nil, err
	}
	return user, claims, nil
}

func (s *authService) activeUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidToken
		}
		return nil, storeErr("find user", err, nil)
	}
	if !user.IsActive {
		return nil, apperrors.ErrAccountInactive
	}
	return user, nil
}

func (s *authService) UpdateProfile(ctx context.Context, userID uuid.UUID, in ProfileInput) (*model.PublicUser, error) {
	trimPtr(in.FirstName)
	trimPtr(in.LastName)
	if in.Email != nil {
		e := normalizeEmail(*in.Email)
		in.Email = &e
	}
	if err := s.validate.Struct(in); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, storeErr("find user", err, apperrors.ErrUserNotFound)
	}
	if in.Email != nil && *in.Email != user.Email {
		taken, err := s.userRepo.EmailExists(ctx, *in.Email, user.ID)
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

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, storeErr("update profile", err, apperrors.ErrUserNotFound)
	}
	p := user.PublicProfile()
	return &p, nil
}

func (s *authService) ChangePassword(ctx context.Context, userID uuid.UUID, in PasswordInput) error {
	if err := s.validate.Struct(in); err != nil {
		return err
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return storeErr("find user", err, apperrors.ErrUserNotFound)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.CurrentPassword)); err != nil {
		return apperrors.ErrWrongPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcryptCost)
	if err != nil {
		return apperrors.Internal(fmt.Errorf("hash password: %w", err))
	}
	if err := s.userRepo.UpdatePassword(ctx, user.ID, string(hash)); err != nil {
		return storeErr("update password", err, apperrors.ErrUserNotFound)
	}
	return nil
}
