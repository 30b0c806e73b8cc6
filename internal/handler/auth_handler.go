package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/sira-go-api/internal/dto"
	"github.com/noah-isme/sira-go-api/internal/service"
	"github.com/noah-isme/sira-go-api/internal/utils"
)

// AuthHandler wires authentication endpoints.
type AuthHandler struct {
	service service.AuthService
	logger  zerolog.Logger
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(service service.AuthService, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		logger:  logger.With().Str("component", "auth_handler").Logger(),
	}
}

// RegisterPublic attaches the unauthenticated auth routes.
func (h *AuthHandler) RegisterPublic(router fiber.Router) {
	router.Post("/login", h.login)
}

// RegisterProtected attaches the auth routes that require a valid token.
func (h *AuthHandler) RegisterProtected(router fiber.Router) {
	router.Get("/verify", h.verify)
	router.Get("/me", h.verify)
}

func (h *AuthHandler) login(c *fiber.Ctx) error {
	var payload dto.LoginRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	response, err := h.service.Login(c.Context(), payload)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			return utils.SendErrorCode(c, fiber.StatusUnauthorized, "invalid email or password", "INVALID_CREDENTIALS")
		case errors.Is(err, service.ErrAccountDeactivated):
			return utils.SendErrorCode(c, fiber.StatusUnauthorized, "account is deactivated", "ACCOUNT_DEACTIVATED")
		case errors.Is(err, service.ErrAccountLocked):
			return utils.SendErrorCode(c, fiber.StatusUnauthorized, "account is locked", "ACCOUNT_LOCKED")
		case isValidationError(err):
			return utils.SendErrorCode(c, fiber.StatusBadRequest, err.Error(), "VALIDATION_FAILED")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("login failed")
			return utils.SendError(c, fiber.StatusInternalServerError, "login failed")
		}
	}

	return utils.SendSuccess(c, "login successful", response)
}

func (h *AuthHandler) verify(c *fiber.Ctx) error {
	user, err := h.service.Verify(c.Context(), userIDFromContext(c))
	if err != nil {
		return sendDomainError(c, requestLogger(h.logger, c), err, "failed to verify account")
	}

	return utils.SendSuccess(c, "token valid", user)
}
