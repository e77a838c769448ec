package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/SundayYogurt/account_service/internal/api/rest/middleware"
	"github.com/SundayYogurt/account_service/internal/apperr"
	"github.com/SundayYogurt/account_service/internal/dto"
	"github.com/SundayYogurt/account_service/internal/helper"
	"github.com/SundayYogurt/account_service/internal/helper/utils"
	"github.com/SundayYogurt/account_service/internal/services"
)

type UserHandler struct {
	svc  services.UserService
	auth helper.Auth
}

func NewUserHandler(svc services.UserService, auth helper.Auth) *UserHandler {
	return &UserHandler{svc: svc, auth: auth}
}

func (h *UserHandler) SetupRoutes(app *fiber.App) {
	// public
	app.Post("/register", h.Register)
	app.Post("/login", h.Login)
	app.Post("/logout", h.Logout)
	app.Post("/forgot-password", h.ForgotPassword)
	app.Post("/reset-password/:token", h.ResetPassword)
	app.Get("/users", h.GetAllUsers)

	// protected
	app.Use(middleware.AuthMiddleware(h.auth))
	app.Post("/verify-email", h.VerifyEmail)
	app.Post("/resend-verify-mail", h.ResendVerificationCode)
	app.Get("/user", h.GetUserData)
	app.Get("/check-auth", h.CheckAuth)
}

func (h *UserHandler) fail(ctx *fiber.Ctx, err error) error {
	return utils.ResponseError(ctx, apperr.HTTPStatus(err), apperr.Message(err))
}

func (h *UserHandler) setSessionCookie(ctx *fiber.Ctx, token string) {
	ctx.Cookie(&fiber.Cookie{
		Name:     "token",
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(h.auth.TTL),
		HTTPOnly: true,
		SameSite: "Strict",
	})
}

func (h *UserHandler) Register(ctx *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := ctx.BodyParser(&req); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
	}

	_, token, err := h.svc.Register(ctx.Context(), req)
	if err != nil {
		return h.fail(ctx, err)
	}

	// session issued before verification: the verify-email and resend
	// routes are protected and rely on this cookie
	h.setSessionCookie(ctx, token)

	return utils.ResponseSuccess(ctx, fiber.StatusCreated, fiber.Map{
		"message": "User created successfully",
	})
}

func (h *UserHandler) Login(ctx *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := ctx.BodyParser(&req); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "username and password are required")
	}

	_, token, err := h.svc.Login(ctx.Context(), req)
	if err != nil {
		// informational, not an error: the account exists but is not
		// verified yet, so no session is issued
		if errors.Is(err, services.ErrEmailNotVerified) {
			return utils.ResponseError(ctx, fiber.StatusOK, err.Error())
		}
		return h.fail(ctx, err)
	}

	h.setSessionCookie(ctx, token)

	return utils.ResponseSuccess(ctx, fiber.StatusOK, fiber.Map{
		"token":   token,
		"message": "Login successful",
	})
}

func (h *UserHandler) VerifyEmail(ctx *fiber.Ctx) error {
	claims, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "Unauthorized")
	}

	var req dto.VerifyEmailRequest
	if err := ctx.BodyParser(&req); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide the verification code")
	}

	if err := h.svc.VerifyEmail(ctx.Context(), claims.Username, req.Code); err != nil {
		return h.fail(ctx, err)
	}

	return utils.ResponseSuccess(ctx, fiber.StatusOK, fiber.Map{
		"message": "Email verified successfully",
	})
}

func (h *UserHandler) ResendVerificationCode(ctx *fiber.Ctx) error {
	claims, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "Unauthorized")
	}

	alreadyVerified, err := h.svc.ResendVerificationCode(ctx.Context(), claims.Username)
	if err != nil {
		return h.fail(ctx, err)
	}

	if alreadyVerified {
		return utils.ResponseSuccess(ctx, fiber.StatusOK, fiber.Map{
			"message": "You are already verified",
		})
	}

	return utils.ResponseSuccess(ctx, fiber.StatusOK, fiber.Map{
		"message": "Verification code sent.",
	})
}

func (h *UserHandler) Logout(ctx *fiber.Ctx) error {
	// stateless sessions: clearing the cookie is the whole logout
	ctx.Cookie(&fiber.Cookie{
		Name:     "token",
		Value:    "",
		Path:     "/",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: "Strict",
	})

	return utils.ResponseSuccess(ctx, fiber.StatusOK, fiber.Map{
		"message": "Logged out successfully",
	})
}

func (h *UserHandler) ForgotPassword(ctx *fiber.Ctx) error {
	var req dto.ForgotPasswordRequest
	if err := ctx.BodyParser(&req); err != nil || req.Email == "" {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid email id")
	}

	if err := h.svc.ForgotPassword(ctx.Context(), req.Email); err != nil {
		return h.fail(ctx, err)
	}

	return utils.ResponseSuccess(ctx, fiber.StatusOK, fiber.Map{
		"message": "Password reset email sent",
	})
}

func (h *UserHandler) ResetPassword(ctx *fiber.Ctx) error {
	token := ctx.Params("token")

	var req dto.ResetPasswordRequest
	if err := ctx.BodyParser(&req); err != nil || req.Password == "" {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide a new password")
	}

	if err := h.svc.ResetPassword(ctx.Context(), token, req.Password); err != nil {
		return h.fail(ctx, err)
	}

	return utils.ResponseSuccess(ctx, fiber.StatusOK, fiber.Map{
		"message": "Password reset successfully",
	})
}

func (h *UserHandler) GetUserData(ctx *fiber.Ctx) error {
	claims, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "Unauthorized")
	}

	user, err := h.svc.GetUser(ctx.Context(), claims.Username)
	if err != nil {
		return h.fail(ctx, err)
	}

	return utils.ResponseSuccess(ctx, fiber.StatusOK, fiber.Map{
		"user": user,
	})
}

func (h *UserHandler) GetAllUsers(ctx *fiber.Ctx) error {
	users, err := h.svc.ListUsers(ctx.Context())
	if err != nil {
		return h.fail(ctx, err)
	}

	return utils.ResponseSuccess(ctx, fiber.StatusOK, fiber.Map{
		"users": users,
	})
}

func (h *UserHandler) CheckAuth(ctx *fiber.Ctx) error {
	claims, err := h.auth.GetCurrentUser(ctx)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "Unauthorized")
	}

	user, err := h.svc.GetUser(ctx.Context(), claims.Username)
	if err != nil {
		return h.fail(ctx, err)
	}

	return utils.ResponseSuccess(ctx, fiber.StatusOK, fiber.Map{
		"user": user,
	})
}
