package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Zethembe177/Job-Portal/internal/auth"
	"github.com/Zethembe177/Job-Portal/internal/domain"
	"github.com/Zethembe177/Job-Portal/internal/platform/logger"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AuthUsecase implements account registration and login.
type AuthUsecase struct {
	users  domain.UserRepository
	tokens *auth.TokenManager
	mailer domain.Mailer
	logger *logger.Logger
}

func NewAuthUsecase(users domain.UserRepository, tokens *auth.TokenManager, mailer domain.Mailer, log *logger.Logger) *AuthUsecase {
	return &AuthUsecase{
		users:  users,
		tokens: tokens,
		mailer: mailer,
		logger: log.Named("AuthUsecase"),
	}
}

// RegisterInput carries the registration form fields.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// AuthResult pairs a signed token with the account it belongs to.
type AuthResult struct {
	Token string
	User  *domain.User
}

// Register creates an account, signs a token for it, and sends a welcome
// mail best-effort.
func (uc *AuthUsecase) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.TrimSpace(input.Email)
	if name == "" || email == "" || input.Password == "" {
		return nil, fmt.Errorf("%w: name, email and password are required", domain.ErrInvalidInput)
	}
	role, err := domain.ParseRole(input.Role)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:     name,
		Email:    email,
		Password: input.Password,
		Role:     role,
	}
	if _, err := uc.users.Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := uc.tokens.Issue(user)
	if err != nil {
		uc.logger.Error("Failed to issue token after registration", zap.String("user_id", user.ID), zap.Error(err))
		return nil, err
	}

	if err := uc.mailer.SendWelcome(user.Email, user.Name); err != nil {
		uc.logger.Warn("Failed to send welcome mail", zap.String("email", user.Email), zap.Error(err))
	}

	uc.logger.Info("User registered", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
	return &AuthResult{Token: token, User: user}, nil
}

// Login verifies the credentials and issues a token. Unknown email and wrong
// password collapse into the same error.
func (uc *AuthUsecase) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", domain.ErrInvalidInput)
	}

	user, err := uc.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := uc.tokens.Issue(user)
	if err != nil {
		return nil, err
	}

	uc.logger.Info("User logged in", zap.String("user_id", user.ID))
	return &AuthResult{Token: token, User: user}, nil
}
