package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/sira-go-api/internal/dto"
	"github.com/noah-isme/sira-go-api/internal/service"
	"github.com/noah-isme/sira-go-api/internal/utils"
)

// StudentHandler wires student record endpoints.
type StudentHandler struct {
	students      service.StudentService
	registrations service.RegistrationService
	logger        zerolog.Logger
}

// NewStudentHandler constructs the handler.
func NewStudentHandler(students service.StudentService, registrations service.RegistrationService, logger zerolog.Logger) *StudentHandler {
	return &StudentHandler{
		students:      students,
		registrations: registrations,
		logger:        logger.With().Str("component", "student_handler").Logger(),
	}
}

// RegisterAdmin attaches the admin-only student routes.
func (h *StudentHandler) RegisterAdmin(router fiber.Router) {
	router.Get("", h.list)
	router.Post("", h.create)
	router.Get("/:id", h.get)
	router.Put("/:id", h.update)
	router.Delete("/:id", h.delete)
	router.Post("/:id/enroll", h.bulkEnroll)
	router.Post("/:id/unenroll", h.bulkDrop)
}

// RegisterSelf attaches the student self-service routes.
func (h *StudentHandler) RegisterSelf(router fiber.Router) {
	router.Get("/me", h.me)
	router.Put("/me", h.selfUpdate)
}

func (h *StudentHandler) list(c *fiber.Ctx) error {
	page, pageSize, err := parsePagination(c)
	if err != nil {
		return utils.SendErrorCode(c, fiber.StatusBadRequest, err.Error(), "VALIDATION_FAILED")
	}

	req := dto.StudentListRequest{
		Page:     page,
		PageSize: pageSize,
		Search:   c.Query("search"),
		Status:   c.Query("status"),
		Course:   c.Query("course"),
	}

	response, err := h.students.List(c.Context(), req)
	if err != nil {
		return sendDomainError(c, requestLogger(h.logger, c), err, "failed to list students")
	}

	return utils.SendSuccess(c, "students retrieved", response)
}

func (h *StudentHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendErrorCode(c, fiber.StatusBadRequest, "invalid identifier", "VALIDATION_FAILED")
	}

	student, err := h.students.Get(c.Context(), id)
	if err != nil {
		return sendDomainError(c, requestLogger(h.logger, c), err, "failed to fetch student")
	}

	return utils.SendSuccess(c, "student retrieved", student)
}

func (h *StudentHandler) create(c *fiber.Ctx) error {
	var payload dto.StudentCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	student, err := h.students.Create(c.Context(), payload)
	if err != nil {
		return sendDomainError(c, requestLogger(h.logger, c), err, "failed to create student")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "student created", student)
}

func (h *StudentHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendErrorCode(c, fiber.StatusBadRequest, "invalid identifier", "VALIDATION_FAILED")
	}

	var payload dto.StudentUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	student, err := h.students.Update(c.Context(), id, payload)
	if err != nil {
		return sendDomainError(c, requestLogger(h.logger, c), err, "failed to update student")
	}

	return utils.SendSuccess(c, "student updated", student)
}

func (h *StudentHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendErrorCode(c, fiber.StatusBadRequest, "invalid identifier", "VALIDATION_FAILED")
	}

	if err := h.students.Delete(c.Context(), id); err != nil {
		return sendDomainError(c, requestLogger(h.logger, c), err, "failed to delete student")
	}

	return utils.SendSuccess(c, "student deleted", fiber.Map{"id": id})
}

func (h *StudentHandler) me(c *fiber.Ctx) error {
	student, err := h.students.GetByUserID(c.Context(), userIDFromContext(c))
	if err != nil {
		return sendDomainError(c, requestLogger(h.logger, c), err, "failed to fetch student profile")
	}

	return utils.SendSuccess(c, "student profile retrieved", student)
}

func (h *StudentHandler) selfUpdate(c *fiber.Ctx) error {
	var payload dto.StudentSelfUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	student, err := h.students.SelfUpdate(c.Context(), userIDFromContext(c), payload)
	if err != nil {
		return sendDomainError(c, requestLogger(h.logger, c), err, "failed to update student profile")
	}

	return utils.SendSuccess(c, "student profile updated", student)
}

func (h *StudentHandler) bulkEnroll(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendErrorCode(c, fiber.StatusBadRequest, "invalid identifier", "VALIDATION_FAILED")
	}

	var payload dto.BulkEnrollRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	result, err := h.registrations.BulkEnroll(c.Context(), id, payload)
	if err != nil {
		return sendDomainError(c, requestLogger(h.logger, c), err, "failed to bulk enroll")
	}

	return utils.SendSuccess(c, result.Message, result)
}

func (h *StudentHandler) bulkDrop(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendErrorCode(c, fiber.StatusBadRequest, "invalid identifier", "VALIDATION_FAILED")
	}

	var payload dto.BulkDropRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	result, err := h.registrations.BulkDrop(c.Context(), id, payload)
	if err != nil {
		return sendDomainError(c, requestLogger(h.logger, c), err, "failed to bulk drop")
	}

	return utils.SendSuccess(c, result.Message, result)
}
