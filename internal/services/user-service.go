package services

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/SundayYogurt/account_service/internal/apperr"
	"github.com/SundayYogurt/account_service/internal/domain"
	"github.com/SundayYogurt/account_service/internal/dto"
	"github.com/SundayYogurt/account_service/internal/helper"
	"github.com/SundayYogurt/account_service/internal/helper/utils"
	"github.com/SundayYogurt/account_service/internal/interfaces"
	"github.com/SundayYogurt/account_service/internal/repository"
)

const (
	verificationCodeTTL = 24 * time.Hour
	resetCodeTTL        = 10 * time.Minute
)

// ErrEmailNotVerified is not a failure: login of an unverified account
// returns an informational response instead of a session.
var ErrEmailNotVerified = errors.New("Your email is not verified. Please verify your email.")

type UserService interface {
	Register(ctx context.Context, input dto.RegisterRequest) (*domain.User, string, error)
	Login(ctx context.Context, input dto.LoginRequest) (*domain.User, string, error)
	VerifyEmail(ctx context.Context, username, code string) error
	ResendVerificationCode(ctx context.Context, username string) (alreadyVerified bool, err error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
	GetUser(ctx context.Context, username string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
}

type userService struct {
	repo     repository.UserRepository
	producer interfaces.ProducerHandler
	auth     helper.Auth
	baseURL  string
}

func NewUserService(
	repo repository.UserRepository,
	producer interfaces.ProducerHandler,
	auth helper.Auth,
	baseURL string,
) UserService {
	return &userService{
		repo:     repo,
		producer: producer,
		auth:     auth,
		baseURL:  strings.TrimRight(baseURL, "/"),
	}
}

func (u *userService) Register(ctx context.Context, input dto.RegisterRequest) (*domain.User, string, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(strings.ToLower(input.Email))
	password := input.Password

	if username == "" || email == "" || password == "" {
		return nil, "", apperr.Validation("All fields (username, email, password) are required.")
	}

	if !utils.ValidUsername(username) {
		return nil, "", apperr.Validation("Invalid username. It must contain valid characters, have a proper length, and not contain spaces.")
	}

	if _, err := u.repo.FindByUsername(ctx, username); err == nil {
		return nil, "", apperr.Conflict("This username is already taken. Please choose a different username.")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, "", apperr.Upstream("Internal server error while checking the username. Please try again later.", err)
	}

	if !utils.ValidEmail(email) {
		return nil, "", apperr.Validation("Invalid email address. Please provide a valid email.")
	}

	if _, err := u.repo.FindByEmail(ctx, email); err == nil {
		return nil, "", apperr.Conflict("This email is already registered. Please use a different email address.")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, "", apperr.Upstream("Internal server error while checking the email. Please try again later.", err)
	}

	if !utils.ValidPasswordLength(password) {
		return nil, "", apperr.Validation("Invalid password length. Password must be at least 8 characters long.")
	}

	digest, err := helper.HashPassword(password)
	if err != nil {
		return nil, "", apperr.Upstream("Internal server error while create account. Please try again later.", err)
	}

	code, err := utils.GenerateVerificationCode()
	if err != nil {
		return nil, "", apperr.Upstream("Internal server error while create account. Please try again later.", err)
	}
	expiresAt := time.Now().Add(verificationCodeTTL)

	var name *string
	if input.Name != nil && strings.TrimSpace(*input.Name) != "" {
		trimmed := strings.TrimSpace(*input.Name)
		name = &trimmed
	}

	newUser := &domain.User{
		Username:                  username,
		Name:                      name,
		Email:                     email,
		Password:                  digest,
		Verified:                  false,
		VerificationCode:          code,
		VerificationCodeExpiresAt: &expiresAt,
	}

	// The pre-checks above give the friendly message. The unique indexes
	// close the check-then-insert race: a concurrent duplicate surfaces
	// here and maps to the same rejection.
	created, err := u.repo.CreateUser(ctx, newUser)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			if _, lookupErr := u.repo.FindByUsername(ctx, username); lookupErr == nil {
				return nil, "", apperr.Conflict("This username is already taken. Please choose a different username.")
			}
			return nil, "", apperr.Conflict("This email is already registered. Please use a different email address.")
		}
		return nil, "", apperr.Upstream("Internal server error while create account. Please try again later.", err)
	}

	// Mail dispatch never gates account creation; the resend endpoint is
	// the compensating action if the event is lost.
	u.publish(dto.EventVerifyEmail, dto.VerifyEmailEvent{
		Username:  created.Username,
		Email:     created.Email,
		Code:      code,
		ExpiresAt: expiresAt.Format(time.RFC3339),
	})

	token, err := u.auth.GenerateToken(created.ID, created.Username, created.Email)
	if err != nil {
		return nil, "", apperr.Upstream("Internal server error while create account. Please try again later.", err)
	}

	return created, token, nil
}

func (u *userService) Login(ctx context.Context, input dto.LoginRequest) (*domain.User, string, error) {
	username := strings.TrimSpace(input.Username)
	password := input.Password

	if username == "" || password == "" {
		return nil, "", apperr.Validation("All fields are required.")
	}

	user, err := u.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", apperr.Auth("Can't find user, Please provide valid username")
		}
		return nil, "", apperr.Upstream("Internal server error. Please try again later.", err)
	}

	if !user.Verified {
		return nil, "", ErrEmailNotVerified
	}

	if err := u.auth.VerifyPassword(password, user.Password); err != nil {
		return nil, "", apperr.Auth("Password is incorrect please try again.")
	}

	token, err := u.auth.GenerateToken(user.ID, user.Username, user.Email)
	if err != nil {
		return nil, "", apperr.Upstream("Internal server error. Please try again later.", err)
	}

	u.publish(dto.EventLoginNotice, dto.LoginNoticeEvent{
		Username: user.Username,
		Email:    user.Email,
	})

	return user, token, nil
}

func (u *userService) VerifyEmail(ctx context.Context, username, code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return apperr.Validation("Verification code is required.")
	}

	user, err := u.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("User not found")
		}
		return apperr.Upstream("Internal server error. Please try again later.", err)
	}

	// Distinguish "wrong code" from "expired": the UI depends on it. A
	// verified account has no outstanding code, so a resubmission lands
	// on the wrong-code branch.
	if user.VerificationCode != code {
		return apperr.Validation("Verification code is wrong. Please provide correct code!")
	}

	verified, err := u.repo.ConsumeVerificationCode(ctx, username, code, time.Now())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.Validation("Invalid or Expired verification code")
		}
		return apperr.Upstream("Internal server error. Please try again later.", err)
	}

	u.publish(dto.EventWelcome, dto.WelcomeEvent{
		Username: verified.Username,
		Email:    verified.Email,
	})

	return nil
}

func (u *userService) ResendVerificationCode(ctx context.Context, username string) (bool, error) {
	user, err := u.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, apperr.Validation("You are not registered. Please register first.")
		}
		return false, apperr.Upstream("Internal server error. Please try again later.", err)
	}

	if user.Verified {
		return true, nil
	}

	code, err := utils.GenerateVerificationCode()
	if err != nil {
		return false, apperr.Upstream("Internal server error. Please try again later.", err)
	}
	expiresAt := time.Now().Add(verificationCodeTTL)

	if err := u.repo.SetVerificationCode(ctx, user.ID, code, expiresAt); err != nil {
		return false, apperr.Upstream("Internal server error. Please try again later.", err)
	}

	u.publish(dto.EventVerifyEmail, dto.VerifyEmailEvent{
		Username:  user.Username,
		Email:     user.Email,
		Code:      code,
		ExpiresAt: expiresAt.Format(time.RFC3339),
	})

	return false, nil
}

func (u *userService) ForgotPassword(ctx context.Context, email string) error {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := u.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("User not found")
		}
		return apperr.Upstream("Internal server error. Please try again later.", err)
	}

	token, err := utils.RandomToken(32)
	if err != nil {
		return apperr.Upstream("Internal server error. Please try again later.", err)
	}
	expiresAt := time.Now().Add(resetCodeTTL)

	if err := u.repo.SetResetPasswordCode(ctx, user.ID, token, expiresAt); err != nil {
		return apperr.Upstream("Internal server error. Please try again later.", err)
	}

	u.publish(dto.EventResetPassword, dto.ResetPasswordEvent{
		Email: user.Email,
		Link:  u.baseURL + "/reset-password/" + token,
	})

	return nil
}

func (u *userService) ResetPassword(ctx context.Context, token, newPassword string) error {
	token = strings.TrimSpace(token)
	if token == "" || newPassword == "" {
		return apperr.Validation("Token and password are required.")
	}

	if !utils.ValidPasswordLength(newPassword) {
		return apperr.Validation("Invalid password length. Password must be at least 8 characters long.")
	}

	digest, err := helper.HashPassword(newPassword)
	if err != nil {
		return apperr.Upstream("Internal server error. Please try again later.", err)
	}

	user, err := u.repo.ConsumeResetPasswordCode(ctx, token, digest, time.Now())
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.Validation("Invalid or expired reset token")
		}
		return apperr.Upstream("Internal server error. Please try again later.", err)
	}

	u.publish(dto.EventResetSuccess, dto.ResetSuccessEvent{Email: user.Email})

	return nil
}

func (u *userService) GetUser(ctx context.Context, username string) (*domain.User, error) {
	user, err := u.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("User not found")
		}
		return nil, apperr.Upstream("Internal server error. Please try again later.", err)
	}
	return user, nil
}

func (u *userService) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := u.repo.ListUsers(ctx)
	if err != nil {
		return nil, apperr.Upstream("Server error", err)
	}
	return users, nil
}

func (u *userService) publish(key string, event any) {
	if u.producer == nil {
		return
	}
	payload, err := json.Marshal(event)
	if err != nil {
		log.Printf("marshal %s event error: %v", key, err)
		return
	}
	if err := u.producer.PublishMessage([]byte(key), payload); err != nil {
		log.Printf("publish %s event error: %v", key, err)
	}
}
