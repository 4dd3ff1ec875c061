package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/vitacross/vitacross-api/internal/config"
	"github.com/vitacross/vitacross-api/internal/dto"
	"github.com/vitacross/vitacross-api/internal/services"
	"github.com/vitacross/vitacross-api/internal/session"
)

type AuthHandler struct {
	authService *services.AuthService
	cfg         *config.Config
}

func NewAuthHandler(authService *services.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{authService: authService, cfg: cfg}
}

func (h *AuthHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok", "service": "auth"})
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}

	resp, err := h.authService.Register(&req)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return internalError(c, err)
	}

	h.setSession(c, resp.Token)
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}

	resp, err := h.authService.Login(&req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return internalError(c, err)
	}

	h.setSession(c, resp.Token)
	return c.JSON(resp)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	session.ClearCookie(c, h.cfg.SessionCookieSecure, h.cfg.SessionCookieDomain)
	return c.JSON(dto.SuccessResponse{Success: true})
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	userID, err := session.GetUserID(c)
	if err != nil {
		return errorJSON(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	user, err := h.authService.Me(userID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			// account deleted while the cookie lived on
			session.ClearCookie(c, h.cfg.SessionCookieSecure, h.cfg.SessionCookieDomain)
			return errorJSON(c, fiber.StatusUnauthorized, "Unauthorized")
		}
		return internalError(c, err)
	}

	return c.JSON(dto.UserResponse{User: user})
}

func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	userID, err := session.GetUserID(c)
	if err != nil {
		return errorJSON(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var req dto.UpdateProfileRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}

	user, err := h.authService.UpdateProfile(userID, &req)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return errorJSON(c, fiber.StatusNotFound, err.Error())
		}
		return internalError(c, err)
	}
	return c.JSON(dto.UserResponse{User: user})
}

func (h *AuthHandler) UpdatePreferences(c *fiber.Ctx) error {
	userID, err := session.GetUserID(c)
	if err != nil {
		return errorJSON(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var req dto.UpdatePreferencesRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}

	user, err := h.authService.UpdatePreferences(userID, &req)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return errorJSON(c, fiber.StatusNotFound, err.Error())
		}
		return internalError(c, err)
	}
	return c.JSON(dto.UserResponse{User: user})
}

func (h *AuthHandler) GoogleCallback(c *fiber.Ctx) error {
	return h.oauthCallback(c, services.ProviderGoogle)
}

func (h *AuthHandler) AppleCallback(c *fiber.Ctx) error {
	return h.oauthCallback(c, services.ProviderApple)
}

func (h *AuthHandler) oauthCallback(c *fiber.Ctx, provider string) error {
	var req dto.OAuthCallbackRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}

	resp, err := h.authService.OAuthSignIn(c.UserContext(), provider, &req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrProviderNotConfigured), errors.Is(err, services.ErrEmailRequired):
			return errorJSON(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, services.ErrEmailTaken):
			return errorJSON(c, fiber.StatusConflict, "An account with this email already exists")
		case errors.Is(err, services.ErrInvalidCredentials):
			return errorJSON(c, fiber.StatusUnauthorized, "Invalid identity token")
		}
		return internalError(c, err)
	}

	h.setSession(c, resp.Token)
	return c.JSON(resp)
}

func (h *AuthHandler) SendVerificationCode(c *fiber.Ctx) error {
	var req dto.SendVerificationCodeRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}

	if err := h.authService.SendVerificationCode(c.UserContext(), req.Email); err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return errorJSON(c, fiber.StatusNotFound, err.Error())
		}
		return internalError(c, err)
	}
	return c.JSON(dto.SuccessResponse{Success: true, Message: "Verification code sent"})
}

func (h *AuthHandler) VerifyEmailCode(c *fiber.Ctx) error {
	var req dto.VerifyEmailCodeRequest
	if ok, err := parseBody(c, &req); !ok {
		return err
	}

	user, err := h.authService.VerifyEmailCode(req.Email, req.Code)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCode) {
			return errorJSON(c, fiber.StatusBadRequest, err.Error())
		}
		return internalError(c, err)
	}
	return c.JSON(dto.UserResponse{User: user})
}

func (h *AuthHandler) DeleteAccount(c *fiber.Ctx) error {
	userID, err := session.GetUserID(c)
	if err != nil {
		return errorJSON(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var req dto.DeleteAccountRequest
	// an empty body is fine for OAuth accounts
	_ = c.BodyParser(&req)

	if err := h.authService.DeleteAccount(userID, req.Password); err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCredentials):
			return errorJSON(c, fiber.StatusUnauthorized, err.Error())
		case errors.Is(err, services.ErrPasswordRequired):
			return errorJSON(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, services.ErrUserNotFound):
			return errorJSON(c, fiber.StatusNotFound, err.Error())
		}
		return internalError(c, err)
	}

	session.ClearCookie(c, h.cfg.SessionCookieSecure, h.cfg.SessionCookieDomain)
	return c.JSON(dto.SuccessResponse{Success: true, Message: "Account deleted"})
}

func (h *AuthHandler) setSession(c *fiber.Ctx, token string) {
	session.SetCookie(c, token, h.cfg.SessionTTL, h.cfg.SessionCookieSecure, h.cfg.SessionCookieDomain)
}
