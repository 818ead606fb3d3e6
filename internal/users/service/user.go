package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"

	usererrors "slotline/internal/users/errors"
	"slotline/internal/users/repository"
	"slotline/internal/users/validator"
	"slotline/pkg/config"
	apperrors "slotline/pkg/errors"
	"slotline/pkg/middleware"
	"slotline/pkg/model"
	"slotline/pkg/sanitizer"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

// AuthResult carries an issued access token and its subject.
type AuthResult struct {
	Token     string    `json:"token"`
	Role      string    `json:"role"`
	UserID    string    `json:"user_id,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
}

type UserService interface {
	Register(ctx context.Context, req *validator.RegisterRequest) (*model.User, error)
	Login(ctx context.Context, req *validator.LoginRequest) (*AuthResult, error)
	AdminLogin(ctx context.Context, req *validator.AdminLoginRequest) (*AuthResult, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
}

type userService struct {
	repo      repository.UserRepository
	validator *validator.UserValidator
	cfg       *config.Config
}

func NewUserService(
	repo repository.UserRepository,
	v *validator.UserValidator,
	cfg *config.Config,
) UserService {
	return &userService{
		repo:      repo,
		validator: v,
		cfg:       cfg,
	}
}

func (s *userService) Register(ctx context.Context, req *validator.RegisterRequest) (*model.User, error) {
	req.Name = sanitizer.TrimAndNormalize(req.Name)
	req.Email = sanitizer.NormalizeEmail(req.Email)
	req.Phone = sanitizer.NormalizePhone(req.Phone)

	if err := s.validator.ValidateRegister(req); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return nil, apperrors.Validation("User validation failed", map[string]any{"errors": validationErrs})
		}
		return nil, apperrors.Internal("Failed to validate user", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperrors.Internal("Failed to hash password", err)
	}

	now := time.Now().UTC()
	user := &model.User{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, usererrors.ErrDuplicateEmail) {
			return nil, apperrors.EmailDuplicated()
		}
		return nil, apperrors.Internal("Failed to create user", err)
	}

	s.cfg.Log.Info("User registered", "user_id", user.ID, "email", user.Email)
	return user, nil
}

func (s *userService) Login(ctx context.Context, req *validator.LoginRequest) (*AuthResult, error) {
	req.Email = sanitizer.NormalizeEmail(req.Email)

	if err := s.validator.ValidateLogin(req); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return nil, apperrors.Validation("Login validation failed", map[string]any{"errors": validationErrs})
		}
		return nil, apperrors.Internal("Failed to validate login", err)
	}

	user, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, usererrors.ErrNotFound) {
			return nil, apperrors.InvalidCredentials()
		}
		return nil, apperrors.Internal("Failed to look up user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, apperrors.InvalidCredentials()
	}

	return s.issueToken(user.ID, middleware.RoleUser, user.Email, s.cfg.AccessTokenTTL)
}

// AdminLogin authenticates against the operator credentials from the
// environment, not the user collection.
func (s *userService) AdminLogin(_ context.Context, req *validator.AdminLoginRequest) (*AuthResult, error) {
	if err := s.validator.ValidateAdminLogin(req); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return nil, apperrors.Validation("Login validation failed", map[string]any{"errors": validationErrs})
		}
		return nil, apperrors.Internal("Failed to validate login", err)
	}

	if s.cfg.AdminPassword == "" {
		return nil, apperrors.InvalidCredentials()
	}

	userMatch := subtle.ConstantTimeCompare([]byte(req.Username), []byte(s.cfg.AdminUsername)) == 1
	passMatch := subtle.ConstantTimeCompare([]byte(req.Password), []byte(s.cfg.AdminPassword)) == 1
	if !userMatch || !passMatch {
		return nil, apperrors.InvalidCredentials()
	}

	return s.issueToken(s.cfg.AdminUsername, middleware.RoleAdmin, "", s.cfg.AdminTokenTTL)
}

func (s *userService) FindByID(ctx context.Context, id string) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, usererrors.ErrNotFound) || errors.Is(err, usererrors.ErrInvalidID) {
			return nil, apperrors.NotFound("User")
		}
		return nil, apperrors.Internal("Failed to retrieve user", err)
	}
	return user, nil
}

func (s *userService) issueToken(subject, role, email string, ttl time.Duration) (*AuthResult, error) {
	expiresAt := time.Now().UTC().Add(ttl)
	claims := jwt.MapClaims{
		"sub":  subject,
		"role": role,
		"exp":  expiresAt.Unix(),
		"iat":  time.Now().UTC().Unix(),
	}
	if email != "" {
		claims["email"] = email
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return nil, apperrors.Internal("Failed to sign token", err)
	}

	result := &AuthResult{
		Token:     signed,
		Role:      role,
		ExpiresAt: expiresAt,
	}
	if role == middleware.RoleUser {
		result.UserID = subject
	}
	return result, nil
}
