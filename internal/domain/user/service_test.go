package user

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/karnworkspace/taskflow/internal/infrastructure/persistence/postgres/connection"
	"github.com/karnworkspace/taskflow/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newUserService(t *testing.T) Service {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&User{}))

	return NewService(NewRepository(connection.Wrap(db)), logger.NewLoggerWithLevel("error"), 3, 15*time.Minute)
}

func register(t *testing.T, svc Service, email string) *User {
	t.Helper()
	u, err := svc.Register(context.Background(), RegisterInput{
		Email:    email,
		Password: "s3cret-pass",
		Name:     "Nok",
	})
	require.NoError(t, err)
	return u
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newUserService(t)
	ctx := context.Background()

	u := register(t, svc, "nok@example.com")
	assert.NotEqual(t, "s3cret-pass", u.PasswordHash, "password is stored hashed")
	assert.True(t, u.IsActive)

	got, err := svc.Login(ctx, "nok@example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.NotNil(t, got.LastLoginAt)

	_, err = svc.Login(ctx, "nok@example.com", "wrong-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody@example.com", "s3cret-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterValidation(t *testing.T) {
	svc := newUserService(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		input RegisterInput
	}{
		{"missing email", RegisterInput{Password: "s3cret-pass", Name: "Nok"}},
		{"malformed email", RegisterInput{Email: "not-an-email", Password: "s3cret-pass", Name: "Nok"}},
		{"short password", RegisterInput{Email: "a@example.com", Password: "short", Name: "Nok"}},
		{"missing name", RegisterInput{Email: "a@example.com", Password: "s3cret-pass"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tt.input)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newUserService(t)
	register(t, svc, "nok@example.com")

	_, err := svc.Register(context.Background(), RegisterInput{
		Email:    "nok@example.com",
		Password: "another-pass",
		Name:     "Dup",
	})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestLoginLockoutAfterRepeatedFailures(t *testing.T) {
	svc := newUserService(t)
	ctx := context.Background()
	register(t, svc, "nok@example.com")

	for i := 0; i < 3; i++ {
		_, err := svc.Login(ctx, "nok@example.com", "wrong-pass")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	}

	// The lock also rejects the correct password.
	_, err := svc.Login(ctx, "nok@example.com", "s3cret-pass")
	assert.ErrorIs(t, err, ErrAccountLocked)
}

func TestSuccessfulLoginResetsFailureCount(t *testing.T) {
	svc := newUserService(t)
	ctx := context.Background()
	register(t, svc, "nok@example.com")

	for i := 0; i < 2; i++ {
		_, err := svc.Login(ctx, "nok@example.com", "wrong-pass")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	}
	_, err := svc.Login(ctx, "nok@example.com", "s3cret-pass")
	require.NoError(t, err)

	// The counter restarted, so two more failures stay short of the lock.
	for i := 0; i < 2; i++ {
		_, err := svc.Login(ctx, "nok@example.com", "wrong-pass")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	}
	_, err = svc.Login(ctx, "nok@example.com", "s3cret-pass")
	assert.NoError(t, err)
}

func TestPinLogin(t *testing.T) {
	svc := newUserService(t)
	ctx := context.Background()
	u := register(t, svc, "nok@example.com")

	_, err := svc.LoginWithPin(ctx, "nok@example.com", "294817")
	assert.ErrorIs(t, err, ErrPinNotSet)

	require.NoError(t, svc.SetPin(ctx, u.ID, "294817"))

	got, err := svc.LoginWithPin(ctx, "nok@example.com", "294817")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = svc.LoginWithPin(ctx, "nok@example.com", "111222")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSetPinRejectsWeakPins(t *testing.T) {
	svc := newUserService(t)
	ctx := context.Background()
	u := register(t, svc, "nok@example.com")

	for _, pin := range []string{"123456", "654321", "777777", "12345", "12345a"} {
		assert.ErrorIs(t, svc.SetPin(ctx, u.ID, pin), ErrInvalidInput, pin)
	}
}
