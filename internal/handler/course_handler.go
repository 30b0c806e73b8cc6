package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/sira-go-api/internal/dto"
	"github.com/noah-isme/sira-go-api/internal/service"
	"github.com/noah-isme/sira-go-api/internal/utils"
)

// CourseHandler wires course catalog endpoints.
type CourseHandler struct {
	courses       service.CourseService
	registrations service.RegistrationService
	logger        zerolog.Logger
}

// NewCourseHandler constructs the handler.
func NewCourseHandler(courses service.CourseService, registrations service.RegistrationService, logger zerolog.Logger) *CourseHandler {
	return &CourseHandler{
		courses:       courses,
		registrations: registrations,
		logger:        logger.With().Str("component", "course_handler").Logger(),
	}
}

// RegisterReadOnly attaches the course routes available to any
// authenticated user.
func (h *CourseHandler) RegisterReadOnly(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/:id", h.get)
}

// RegisterAdmin attaches the admin-only course routes.
func (h *CourseHandler) RegisterAdmin(router fiber.Router) {
	router.Post("", h.create)
	router.Put("/:id", h.update)
	router.Delete("/:id", h.delete)
	router.Get("/:id/registrations", h.roster)
}

func (h *CourseHandler) list(c *fiber.Ctx) error {
	page, pageSize, err := parsePagination(c)
	if err != nil {
		return utils.SendErrorCode(c, fiber.StatusBadRequest, err.Error(), "VALIDATION_FAILED")
	}

	req := dto.CourseListRequest{
		Page:       page,
		PageSize:   pageSize,
		Search:     c.Query("search"),
		Department: c.Query("department"),
		Semester:   c.Query("semester"),
		Status:     c.Query("status"),
	}

	response, err := h.courses.List(c.Context(), req)
	if err != nil {
		return sendDomainError(c, requestLogger(h.logger, c), err, "failed to list courses")
	}

	return utils.SendSuccess(c, "courses retrieved", response)
}

func (h *CourseHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendErrorCode(c, fiber.StatusBadRequest, "invalid identifier", "VALIDATION_FAILED")
	}

	course, err := h.courses.Get(c.Context(), id)
	if err != nil {
		return sendDomainError(c, requestLogger(h.logger, c), err, "failed to fetch course")
	}

	return utils.SendSuccess(c, "course retrieved", course)
}

func (h *CourseHandler) create(c *fiber.Ctx) error {
	var payload dto.CourseCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	course, err := h.courses.Create(c.Context(), payload)
	if err != nil {
		return sendDomainError(c, requestLogger(h.logger, c), err, "failed to create course")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "course created", course)
}

func (h *CourseHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendErrorCode(c, fiber.StatusBadRequest, "invalid identifier", "VALIDATION_FAILED")
	}

	var payload dto.CourseUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	course, err := h.courses.Update(c.Context(), id, payload)
	if err != nil {
		return sendDomainError(c, requestLogger(h.logger, c), err, "failed to update course")
	}

	return utils.SendSuccess(c, "course updated", course)
}

func (h *CourseHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendErrorCode(c, fiber.StatusBadRequest, "invalid identifier", "VALIDATION_FAILED")
	}

	if err := h.courses.Delete(c.Context(), id); err != nil {
		return sendDomainError(c, requestLogger(h.logger, c), err, "failed to delete course")
	}

	return utils.SendSuccess(c, "course deleted", fiber.Map{"id": id})
}

func (h *CourseHandler) roster(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendErrorCode(c, fiber.StatusBadRequest, "invalid identifier", "VALIDATION_FAILED")
	}

	page, pageSize, err := parsePagination(c)
	if err != nil {
		return utils.SendErrorCode(c, fiber.StatusBadRequest, err.Error(), "VALIDATION_FAILED")
	}

	response, err := h.registrations.ListByCourse(c.Context(), id, page, pageSize)
	if err != nil {
		return sendDomainError(c, requestLogger(h.logger, c), err, "failed to fetch roster")
	}

	return utils.SendSuccess(c, "roster retrieved", response)
}
