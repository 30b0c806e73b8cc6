package handler

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/sira-go-api/internal/middleware"
	"github.com/noah-isme/sira-go-api/internal/repository"
	"github.com/noah-isme/sira-go-api/internal/service"
	"github.com/noah-isme/sira-go-api/internal/utils"
)

func parseUintParam(c *fiber.Ctx, key string) (uint, error) {
	value := strings.TrimSpace(c.Params(key))
	parsed, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(parsed), nil
}

func parseQueryUint(c *fiber.Ctx, key string) (uint, error) {
	value := strings.TrimSpace(c.Query(key))
	if value == "" {
		return 0, nil
	}
	parsed, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(parsed), nil
}

// parsePagination applies the pagination contract: page defaults to 1 and
// limit to 10 when absent, but supplied values outside page >= 1 and
// 1 <= limit <= 100 are rejected, never silently adjusted.
func parsePagination(c *fiber.Ctx) (page, pageSize int, err error) {
	page = 1
	if raw := strings.TrimSpace(c.Query("page")); raw != "" {
		page, err = strconv.Atoi(raw)
		if err != nil || page < 1 {
			return 0, 0, errors.New("page must be a positive integer")
		}
	}

	pageSize = 10
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		pageSize, err = strconv.Atoi(raw)
		if err != nil || pageSize < 1 || pageSize > 100 {
			return 0, 0, errors.New("limit must be between 1 and 100")
		}
	}

	return page, pageSize, nil
}

func userIDFromContext(c *fiber.Ctx) uint {
	if v := c.Locals("user_id"); v != nil {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}

func userRoleFromContext(c *fiber.Ctx) string {
	if v := c.Locals("user_role"); v != nil {
		if role, ok := v.(string); ok {
			return role
		}
	}
	return ""
}

func userEmailFromContext(c *fiber.Ctx) string {
	if v := c.Locals("user_email"); v != nil {
		if email, ok := v.(string); ok {
			return email
		}
	}
	return ""
}

func actorFromContext(c *fiber.Ctx) service.Actor {
	return service.Actor{
		ID:    userIDFromContext(c),
		Email: userEmailFromContext(c),
		Role:  userRoleFromContext(c),
	}
}

func requestLogger(base zerolog.Logger, c *fiber.Ctx) *zerolog.Logger {
	logger := base
	if c != nil {
		if correlation := middleware.GetCorrelationID(c); correlation != "" {
			logger = base.With().Str("correlation_id", correlation).Logger()
		}
	}
	return &logger
}

func isValidationError(err error) bool {
	var validationErrors validator.ValidationErrors
	return errors.As(err, &validationErrors)
}

// sendDomainError maps repository and service sentinels onto the HTTP error
// taxonomy. Unknown errors are logged and reported as a generic 500 so
// internals never leak.
func sendDomainError(c *fiber.Ctx, logger *zerolog.Logger, err error, fallback string) error {
	switch {
	case errors.Is(err, repository.ErrCourseNotFound),
		errors.Is(err, repository.ErrStudentNotFound),
		errors.Is(err, repository.ErrRegistrationNotFound),
		errors.Is(err, repository.ErrUserNotFound):
		return utils.SendErrorCode(c, fiber.StatusNotFound, err.Error(), "NOT_FOUND")
	case errors.Is(err, repository.ErrAlreadyRegistered),
		errors.Is(err, repository.ErrEmailTaken),
		errors.Is(err, repository.ErrStudentCodeTaken),
		errors.Is(err, repository.ErrCourseCodeTaken):
		return utils.SendErrorCode(c, fiber.StatusBadRequest, err.Error(), "CONFLICT")
	case errors.Is(err, repository.ErrCourseFull):
		return utils.SendErrorCode(c, fiber.StatusBadRequest, err.Error(), "CAPACITY_EXCEEDED")
	case errors.Is(err, repository.ErrCourseNotAvailable),
		errors.Is(err, repository.ErrCourseHasEnrollments),
		errors.Is(err, repository.ErrStudentNotEligible):
		return utils.SendErrorCode(c, fiber.StatusBadRequest, err.Error(), "INVALID_STATE")
	case errors.Is(err, service.ErrNoStudentRecord):
		return utils.SendErrorCode(c, fiber.StatusNotFound, err.Error(), "NOT_FOUND")
	case errors.Is(err, service.ErrNotRegistrationOwner):
		return utils.SendErrorCode(c, fiber.StatusForbidden, err.Error(), "FORBIDDEN")
	case errors.Is(err, service.ErrAccountPasswordRequired):
		return utils.SendErrorCode(c, fiber.StatusBadRequest, err.Error(), "VALIDATION_FAILED")
	case isValidationError(err):
		return utils.SendErrorCode(c, fiber.StatusBadRequest, err.Error(), "VALIDATION_FAILED")
	default:
		logger.Error().Err(err).Msg(fallback)
		return utils.SendError(c, fiber.StatusInternalServerError, fallback)
	}
}
