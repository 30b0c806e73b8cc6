package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/sira-go-api/internal/dto"
	"github.com/noah-isme/sira-go-api/internal/service"
	"github.com/noah-isme/sira-go-api/internal/utils"
)

// RegistrationHandler wires enrollment endpoints.
type RegistrationHandler struct {
	service service.RegistrationService
	logger  zerolog.Logger
}

// NewRegistrationHandler constructs the handler.
func NewRegistrationHandler(service service.RegistrationService, logger zerolog.Logger) *RegistrationHandler {
	return &RegistrationHandler{
		service: service,
		logger:  logger.With().Str("component", "registration_handler").Logger(),
	}
}

// Register attaches the routes available to any authenticated user.
func (h *RegistrationHandler) Register(router fiber.Router) {
	router.Post("", h.enroll)
	router.Delete("/:id", h.drop)
}

// RegisterAdmin attaches the admin-only registration routes.
func (h *RegistrationHandler) RegisterAdmin(router fiber.Router) {
	router.Get("", h.list)
	router.Put("/:id", h.update)
}

func (h *RegistrationHandler) enroll(c *fiber.Ctx) error {
	var payload dto.EnrollRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	registration, err := h.service.Enroll(c.Context(), actorFromContext(c), payload)
	if err != nil {
		return sendDomainError(c, requestLogger(h.logger, c), err, "failed to enroll")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "registration created", registration)
}

func (h *RegistrationHandler) drop(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendErrorCode(c, fiber.StatusBadRequest, "invalid identifier", "VALIDATION_FAILED")
	}

	registration, err := h.service.Drop(c.Context(), actorFromContext(c), id)
	if err != nil {
		return sendDomainError(c, requestLogger(h.logger, c), err, "failed to drop registration")
	}

	return utils.SendSuccess(c, "registration removed", registration)
}

func (h *RegistrationHandler) list(c *fiber.Ctx) error {
	page, pageSize, err := parsePagination(c)
	if err != nil {
		return utils.SendErrorCode(c, fiber.StatusBadRequest, err.Error(), "VALIDATION_FAILED")
	}

	courseID, err := parseQueryUint(c, "course_id")
	if err != nil {
		return utils.SendErrorCode(c, fiber.StatusBadRequest, "invalid course_id", "VALIDATION_FAILED")
	}

	studentID, err := parseQueryUint(c, "student_id")
	if err != nil {
		return utils.SendErrorCode(c, fiber.StatusBadRequest, "invalid student_id", "VALIDATION_FAILED")
	}

	req := dto.RegistrationListRequest{
		Page:      page,
		PageSize:  pageSize,
		Status:    c.Query("status"),
		CourseID:  courseID,
		StudentID: studentID,
	}

	response, err := h.service.List(c.Context(), req)
	if err != nil {
		return sendDomainError(c, requestLogger(h.logger, c), err, "failed to list registrations")
	}

	return utils.SendSuccess(c, "registrations retrieved", response)
}

func (h *RegistrationHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendErrorCode(c, fiber.StatusBadRequest, "invalid identifier", "VALIDATION_FAILED")
	}

	var payload dto.RegistrationUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	registration, err := h.service.Update(c.Context(), id, payload)
	if err != nil {
		return sendDomainError(c, requestLogger(h.logger, c), err, "failed to update registration")
	}

	return utils.SendSuccess(c, "registration updated", registration)
}
