package usecase

import (
	"context"
	"testing"

	"github.com/Zethembe177/Job-Portal/internal/auth"
	"github.com/Zethembe177/Job-Portal/internal/domain"
	"github.com/Zethembe177/Job-Portal/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) (string, error) {
	args := m.Called(ctx, user)
	if args.Error(1) == nil {
		user.ID = args.String(0)
	}
	return args.String(0), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if u, ok := args.Get(0).(*domain.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if u, ok := args.Get(0).(*domain.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendWelcome(to, name string) error {
	args := m.Called(to, name)
	return args.Error(0)
}

func newTestAuthUsecase(t *testing.T) (*AuthUsecase, *MockUserRepository, *MockMailer) {
	t.Helper()
	users := new(MockUserRepository)
	mailer := new(MockMailer)
	uc := NewAuthUsecase(users, auth.NewTokenManager("test-secret"), mailer, logger.NewNop())
	return uc, users, mailer
}

func TestAuthUsecase_Register_Success(t *testing.T) {
	uc, users, mailer := newTestAuthUsecase(t)
	ctx := context.Background()

	users.On("Create", ctx, mock.AnythingOfType("*domain.User")).Return("user-1", nil).Once()
	mailer.On("SendWelcome", "anna@example.com", "Anna").Return(nil).Once()

	result, err := uc.Register(ctx, RegisterInput{
		Name:     "Anna",
		Email:    "anna@example.com",
		Password: "s3cret",
		Role:     "employer",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, "user-1", result.User.ID)
	assert.Equal(t, domain.RoleEmployer, result.User.Role)
	users.AssertExpectations(t)
	mailer.AssertExpectations(t)
}

func TestAuthUsecase_Register_UnknownRole(t *testing.T) {
	uc, users, _ := newTestAuthUsecase(t)

	_, err := uc.Register(context.Background(), RegisterInput{
		Name:     "Anna",
		Email:    "anna@example.com",
		Password: "s3cret",
		Role:     "admin",
	})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuthUsecase_Register_MissingFields(t *testing.T) {
	uc, _, _ := newTestAuthUsecase(t)

	_, err := uc.Register(context.Background(), RegisterInput{
		Name: "Anna",
		Role: "candidate",
	})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAuthUsecase_Register_DuplicateEmail(t *testing.T) {
	uc, users, mailer := newTestAuthUsecase(t)
	ctx := context.Background()

	users.On("Create", ctx, mock.AnythingOfType("*domain.User")).
		Return("", domain.ErrDuplicateEmail).Once()

	_, err := uc.Register(ctx, RegisterInput{
		Name:     "Anna",
		Email:    "anna@example.com",
		Password: "s3cret",
		Role:     "candidate",
	})

	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)
	mailer.AssertNotCalled(t, "SendWelcome", mock.Anything, mock.Anything)
}

func TestAuthUsecase_Register_MailFailureDoesNotBlock(t *testing.T) {
	uc, users, mailer := newTestAuthUsecase(t)
	ctx := context.Background()

	users.On("Create", ctx, mock.AnythingOfType("*domain.User")).Return("user-1", nil).Once()
	mailer.On("SendWelcome", "anna@example.com", "Anna").
		Return(assert.AnError).Once()

	result, err := uc.Register(ctx, RegisterInput{
		Name:     "Anna",
		Email:    "anna@example.com",
		Password: "s3cret",
		Role:     "candidate",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
}

func TestAuthUsecase_Login_Success(t *testing.T) {
	uc, users, _ := newTestAuthUsecase(t)
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	users.On("FindByEmail", ctx, "anna@example.com").Return(&domain.User{
		ID:       "user-1",
		Email:    "anna@example.com",
		Password: string(hash),
		Role:     domain.RoleCandidate,
	}, nil).Once()

	result, err := uc.Login(ctx, "anna@example.com", "s3cret")

	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, "user-1", result.User.ID)
}

func TestAuthUsecase_Login_WrongPassword(t *testing.T) {
	uc, users, _ := newTestAuthUsecase(t)
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	users.On("FindByEmail", ctx, "anna@example.com").Return(&domain.User{
		ID:       "user-1",
		Password: string(hash),
	}, nil).Once()

	_, err = uc.Login(ctx, "anna@example.com", "wrong")

	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestAuthUsecase_Login_UnknownEmailSameError(t *testing.T) {
	uc, users, _ := newTestAuthUsecase(t)
	ctx := context.Background()

	users.On("FindByEmail", ctx, "ghost@example.com").
		Return(nil, domain.ErrUserNotFound).Once()

	_, err := uc.Login(ctx, "ghost@example.com", "whatever")

	assert.ErrorIs(t, err, domain.ErrInvalidCredentials,
		"unknown email must be indistinguishable from a wrong password")
}
