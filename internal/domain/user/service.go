package user

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/karnworkspace/taskflow/pkg/logger"
	"github.com/karnworkspace/taskflow/pkg/security/auth"
	"go.uber.org/zap"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountLocked      = errors.New("account is temporarily locked")
	ErrPinNotSet          = errors.New("pin login is not configured for this account")
)

var validate = validator.New()

// RegisterInput is the payload for account registration
type RegisterInput struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8"`
	Name     string `validate:"required,max=100"`
	Role     Role   `validate:"omitempty"`
}

// Service defines the user service interface
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*User, error)
	Login(ctx context.Context, email, password string) (*User, error)
	LoginWithPin(ctx context.Context, email, pin string) (*User, error)
	SetPin(ctx context.Context, userID uuid.UUID, pin string) error
	GetUser(ctx context.Context, id uuid.UUID) (*User, error)
	ListUsers(ctx context.Context, filter Filter) ([]User, int64, error)
}

type service struct {
	repo             Repository
	logger           *logger.Logger
	maxLoginAttempts int
	lockoutDuration  time.Duration
}

func NewService(repo Repository, log *logger.Logger, maxLoginAttempts int, lockoutDuration time.Duration) Service {
	if maxLoginAttempts <= 0 {
		maxLoginAttempts = 5
	}
	if lockoutDuration <= 0 {
		lockoutDuration = 15 * time.Minute
	}
	return &service{
		repo:             repo,
		logger:           log,
		maxLoginAttempts: maxLoginAttempts,
		lockoutDuration:  lockoutDuration,
	}
}

func (s *service) Register(ctx context.Context, input RegisterInput) (*User, error) {
	if err := validate.Struct(input); err != nil {
		return nil, ErrInvalidInput
	}
	if input.Role != "" && !input.Role.IsValid() {
		return nil, ErrInvalidInput
	}

	existing, err := s.repo.FindByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, ErrInvalidInput
	}

	user := &User{
		ID:           uuid.New(),
		Email:        input.Email,
		Name:         input.Name,
		PasswordHash: hash,
		Role:         input.Role,
		IsActive:     true,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user registered", zap.String("user_id", user.ID.String()))
	return user, nil
}

func (s *service) Login(ctx context.Context, email, password string) (*User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if user.AccountLockedUntil != nil && user.AccountLockedUntil.After(time.Now()) {
		return nil, ErrAccountLocked
	}

	if !auth.ComparePassword(user.PasswordHash, password) {
		s.recordFailedAttempt(ctx, user)
		return nil, ErrInvalidCredentials
	}

	s.recordSuccessfulLogin(ctx, user)
	return user, nil
}

func (s *service) LoginWithPin(ctx context.Context, email, pin string) (*User, error) {
	if err := auth.ValidatePin(pin); err != nil {
		return nil, ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if user.PinHash == "" {
		return nil, ErrPinNotSet
	}

	if user.AccountLockedUntil != nil && user.AccountLockedUntil.After(time.Now()) {
		return nil, ErrAccountLocked
	}

	if !auth.ComparePin(user.PinHash, pin) {
		s.recordFailedAttempt(ctx, user)
		return nil, ErrInvalidCredentials
	}

	s.recordSuccessfulLogin(ctx, user)
	return user, nil
}

func (s *service) SetPin(ctx context.Context, userID uuid.UUID, pin string) error {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	hash, err := auth.HashPin(pin)
	if err != nil {
		return ErrInvalidInput
	}

	user.PinHash = hash
	return s.repo.Update(ctx, user)
}

func (s *service) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) ListUsers(ctx context.Context, filter Filter) ([]User, int64, error) {
	return s.repo.FindAll(ctx, filter)
}

func (s *service) recordFailedAttempt(ctx context.Context, user *User) {
	user.FailedLoginAttempts++
	if user.FailedLoginAttempts >= s.maxLoginAttempts {
		lockedUntil := time.Now().Add(s.lockoutDuration)
		user.AccountLockedUntil = &lockedUntil
		user.FailedLoginAttempts = 0
		s.logger.Warn("account locked after repeated failures",
			zap.String("user_id", user.ID.String()),
			zap.Time("locked_until", lockedUntil))
	}
	if err := s.repo.Update(ctx, user); err != nil {
		s.logger.Error("failed to record login attempt", zap.Error(err))
	}
}

func (s *service) recordSuccessfulLogin(ctx context.Context, user *User) {
	now := time.Now()
	user.FailedLoginAttempts = 0
	user.AccountLockedUntil = nil
	user.LastLoginAt = &now
	if err := s.repo.Update(ctx, user); err != nil {
		s.logger.Error("failed to record login", zap.Error(err))
	}
}
