package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/contactdeck/contactdeck/internal/domain"
	"github.com/contactdeck/contactdeck/internal/email"
	"github.com/contactdeck/contactdeck/internal/repository"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 10

type AuthUsecase struct {
	users    repository.UserRepository
	email    email.Sender
	jwtKey   []byte
	tokenTTL time.Duration
	logger   *slog.Logger
}

func NewAuthUsecase(users repository.UserRepository, emailSender email.Sender, jwtKey []byte, tokenTTL time.Duration, logger *slog.Logger) *AuthUsecase {
	return &AuthUsecase{
		users:    users,
		email:    emailSender,
		jwtKey:   jwtKey,
		tokenTTL: tokenTTL,
		logger:   logger.With("component", "auth_usecase"),
	}
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// Register stores a new member and returns a signed token. The email unique
// index backs up the FindByEmail pre-check under concurrent registrations.
func (u *AuthUsecase) Register(ctx context.Context, input RegisterInput) (string, error) {
	_, err := u.users.FindByEmail(ctx, input.Email)
	if err == nil {
		return "", domain.ErrEmailTaken
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return "", fmt.Errorf("check email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	user, err := u.users.Create(ctx, &domain.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: string(hash),
		Role:         domain.RoleMember,
	})
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return "", domain.ErrEmailTaken
		}
		return "", fmt.Errorf("create user: %w", err)
	}

	u.sendWelcome(ctx, user)

	return u.issueToken(user)
}

type LoginInput struct {
	Email    string
	Password string
}

// Login returns domain.ErrInvalidCredentials for both unknown email and wrong
// password so callers cannot tell which failed.
func (u *AuthUsecase) Login(ctx context.Context, input LoginInput) (string, error) {
	user, err := u.users.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", domain.ErrInvalidCredentials
		}
		return "", fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return "", domain.ErrInvalidCredentials
	}

	return u.issueToken(user)
}

func (u *AuthUsecase) issueToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  user.ID,
		"role": string(user.Role),
		"iat":  now.Unix(),
		"exp":  now.Add(u.tokenTTL).Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(u.jwtKey)
	if err != nil {
		return "", fmt.Errorf("sign jwt: %w", err)
	}
	return signed, nil
}

// sendWelcome is best-effort; a failed email never fails registration.
func (u *AuthUsecase) sendWelcome(ctx context.Context, user *domain.User) {
	name := user.Username
	if name == "" {
		name = user.Email
	}
	body := fmt.Sprintf("<p>Hi %s,</p><p>Your account is ready. Sign in and start adding contacts.</p>", name)
	if err := u.email.Send(ctx, user.Email, "Welcome to Contactdeck", body); err != nil {
		u.logger.WarnContext(ctx, "welcome email", "error", err)
	}
}
