package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/sira-go-api/internal/dto"
	"github.com/noah-isme/sira-go-api/internal/observability"
	"github.com/noah-isme/sira-go-api/internal/repository"
)

// Registration failures surfaced by the service on top of the repository
// sentinels.
var (
	ErrNoStudentRecord      = errors.New("no student record linked to this account")
	ErrNotRegistrationOwner = errors.New("registration belongs to another student")
)

// RegistrationService drives enrollments, drops and the bulk variants.
type RegistrationService interface {
	Enroll(ctx context.Context, actor Actor, req dto.EnrollRequest) (dto.RegistrationResponse, error)
	Drop(ctx context.Context, actor Actor, registrationID uint) (dto.RegistrationResponse, error)
	List(ctx context.Context, req dto.RegistrationListRequest) (dto.RegistrationListResponse, error)
	ListByCourse(ctx context.Context, courseID uint, page, pageSize int) (dto.RegistrationListResponse, error)
	Update(ctx context.Context, id uint, req dto.RegistrationUpdateRequest) (dto.RegistrationResponse, error)
	BulkEnroll(ctx context.Context, studentID uint, req dto.BulkEnrollRequest) (dto.BulkResult, error)
	BulkDrop(ctx context.Context, studentID uint, req dto.BulkDropRequest) (dto.BulkResult, error)
}

type registrationService struct {
	registrations repository.RegistrationRepository
	students      repository.StudentRepository
	validator     *validator.Validate
	events        *EventPublisher
	sanitizer     *bluemonday.Policy
	tracer        trace.Tracer
	logger        zerolog.Logger
}

// NewRegistrationService constructs the registration service.
func NewRegistrationService(registrations repository.RegistrationRepository, students repository.StudentRepository, validate *validator.Validate, events *EventPublisher, logger zerolog.Logger) RegistrationService {
	return &registrationService{
		registrations: registrations,
		students:      students,
		validator:     validate,
		events:        events,
		sanitizer:     bluemonday.StrictPolicy(),
		tracer:        otel.Tracer("github.com/noah-isme/sira-go-api/internal/service/registration"),
		logger:        logger.With().Str("component", "registration_service").Logger(),
	}
}

// Enroll admits the acting student (or, for admins, an explicitly named
// student) into a course. The capacity and duplicate invariants are enforced
// by the repository transaction; this layer resolves the actor, records
// metrics and publishes the enrollment event.
func (s *registrationService) Enroll(ctx context.Context, actor Actor, req dto.EnrollRequest) (dto.RegistrationResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.RegistrationResponse{}, err
	}

	ctx, span := s.tracer.Start(ctx, "registration.enroll")
	defer span.End()

	studentID := req.StudentID
	if !actor.IsAdmin() || studentID == 0 {
		student, err := s.students.GetByUserID(ctx, actor.ID)
		if err != nil {
			if errors.Is(err, repository.ErrStudentNotFound) {
				return dto.RegistrationResponse{}, ErrNoStudentRecord
			}
			return dto.RegistrationResponse{}, err
		}
		studentID = student.ID
	}

	registration, err := s.registrations.Enroll(ctx, studentID, req.CourseID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrCourseFull):
			observability.CapacityRejections().Inc()
		case errors.Is(err, repository.ErrAlreadyRegistered):
			observability.DuplicateRejections().Inc()
		}
		return dto.RegistrationResponse{}, err
	}

	observability.Enrollments().Inc()
	s.events.Publish(ctx, RegistrationEvent{
		Type:           EventStudentEnrolled,
		RegistrationID: registration.ID,
		StudentID:      registration.StudentID,
		CourseID:       registration.CourseID,
		OccurredAt:     time.Now().UTC(),
	})

	s.logger.Info().
		Uint("registration_id", registration.ID).
		Uint("student_id", registration.StudentID).
		Uint("course_id", registration.CourseID).
		Msg("student enrolled")

	return dto.NewRegistrationResponse(registration), nil
}

// Drop removes a registration. The owning student gets a soft drop that
// keeps the row; admins hard-delete it.
func (s *registrationService) Drop(ctx context.Context, actor Actor, registrationID uint) (dto.RegistrationResponse, error) {
	ctx, span := s.tracer.Start(ctx, "registration.drop")
	defer span.End()

	registration, err := s.registrations.GetByID(ctx, registrationID)
	if err != nil {
		return dto.RegistrationResponse{}, err
	}

	if actor.IsAdmin() {
		if err := s.registrations.Delete(ctx, registrationID); err != nil {
			return dto.RegistrationResponse{}, err
		}

		observability.Drops().Inc()
		s.publishDrop(ctx, registration.ID, registration.StudentID, registration.CourseID)
		return dto.NewRegistrationResponse(registration), nil
	}

	student, err := s.students.GetByUserID(ctx, actor.ID)
	if err != nil {
		if errors.Is(err, repository.ErrStudentNotFound) {
			return dto.RegistrationResponse{}, ErrNoStudentRecord
		}
		return dto.RegistrationResponse{}, err
	}

	if registration.StudentID != student.ID {
		return dto.RegistrationResponse{}, ErrNotRegistrationOwner
	}

	dropped, err := s.registrations.Drop(ctx, registrationID)
	if err != nil {
		return dto.RegistrationResponse{}, err
	}

	observability.Drops().Inc()
	s.publishDrop(ctx, dropped.ID, dropped.StudentID, dropped.CourseID)
	return dto.NewRegistrationResponse(dropped), nil
}

func (s *registrationService) List(ctx context.Context, req dto.RegistrationListRequest) (dto.RegistrationListResponse, error) {
	filter := repository.RegistrationFilter{
		Status:    req.Status,
		CourseID:  req.CourseID,
		StudentID: req.StudentID,
		Page:      req.Page,
		PageSize:  req.PageSize,
	}

	registrations, total, err := s.registrations.List(ctx, filter)
	if err != nil {
		return dto.RegistrationListResponse{}, err
	}

	items := make([]dto.RegistrationResponse, 0, len(registrations))
	for _, registration := range registrations {
		items = append(items, dto.NewRegistrationResponse(registration))
	}

	return dto.RegistrationListResponse{
		Items:      items,
		Pagination: dto.NewPaginationMeta(req.Page, req.PageSize, total),
	}, nil
}

func (s *registrationService) ListByCourse(ctx context.Context, courseID uint, page, pageSize int) (dto.RegistrationListResponse, error) {
	return s.List(ctx, dto.RegistrationListRequest{
		Page:     page,
		PageSize: pageSize,
		CourseID: courseID,
	})
}

func (s *registrationService) Update(ctx context.Context, id uint, req dto.RegistrationUpdateRequest) (dto.RegistrationResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.RegistrationResponse{}, err
	}

	update := repository.RegistrationUpdate{
		Status: req.Status,
		Grade:  req.Grade,
	}
	if req.Notes != nil {
		sanitized := s.sanitizer.Sanitize(*req.Notes)
		update.Notes = &sanitized
	}

	registration, err := s.registrations.Update(ctx, id, update)
	if err != nil {
		return dto.RegistrationResponse{}, err
	}

	return dto.NewRegistrationResponse(registration), nil
}

// BulkEnroll runs the single-enrollment transaction once per course. Each
// course succeeds or fails on its own; a full or duplicate course never
// rolls back the others.
func (s *registrationService) BulkEnroll(ctx context.Context, studentID uint, req dto.BulkEnrollRequest) (dto.BulkResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.BulkResult{}, err
	}

	ctx, span := s.tracer.Start(ctx, "registration.bulk_enroll")
	defer span.End()

	if _, err := s.students.GetByID(ctx, studentID); err != nil {
		return dto.BulkResult{}, err
	}

	result := dto.BulkResult{
		Successful: make([]dto.BulkItemSuccess, 0, len(req.CourseIDs)),
		Errors:     make([]dto.BulkItemError, 0),
	}

	for _, courseID := range req.CourseIDs {
		registration, err := s.registrations.Enroll(ctx, studentID, courseID)
		if err != nil {
			switch {
			case errors.Is(err, repository.ErrCourseFull):
				observability.CapacityRejections().Inc()
			case errors.Is(err, repository.ErrAlreadyRegistered):
				observability.DuplicateRejections().Inc()
			}

			result.Errors = append(result.Errors, dto.BulkItemError{
				CourseID: courseID,
				Reason:   bulkReason(err),
			})
			continue
		}

		observability.Enrollments().Inc()
		s.events.Publish(ctx, RegistrationEvent{
			Type:           EventStudentEnrolled,
			RegistrationID: registration.ID,
			StudentID:      registration.StudentID,
			CourseID:       registration.CourseID,
			OccurredAt:     time.Now().UTC(),
		})

		result.Successful = append(result.Successful, dto.BulkItemSuccess{
			CourseID:       courseID,
			RegistrationID: registration.ID,
		})
	}

	result.SuccessCount = len(result.Successful)
	result.ErrorCount = len(result.Errors)
	result.Message = fmt.Sprintf("%d enrolled, %d failed", result.SuccessCount, result.ErrorCount)

	return result, nil
}

// BulkDrop soft-drops each listed registration independently. Registrations
// that do not exist or belong to another student are reported, not fatal.
func (s *registrationService) BulkDrop(ctx context.Context, studentID uint, req dto.BulkDropRequest) (dto.BulkResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.BulkResult{}, err
	}

	ctx, span := s.tracer.Start(ctx, "registration.bulk_drop")
	defer span.End()

	if _, err := s.students.GetByID(ctx, studentID); err != nil {
		return dto.BulkResult{}, err
	}

	result := dto.BulkResult{
		Successful: make([]dto.BulkItemSuccess, 0, len(req.RegistrationIDs)),
		Errors:     make([]dto.BulkItemError, 0),
	}

	for _, registrationID := range req.RegistrationIDs {
		registration, err := s.registrations.GetByID(ctx, registrationID)
		if err != nil {
			result.Errors = append(result.Errors, dto.BulkItemError{
				RegistrationID: registrationID,
				Reason:         bulkReason(err),
			})
			continue
		}

		if registration.StudentID != studentID {
			result.Errors = append(result.Errors, dto.BulkItemError{
				RegistrationID: registrationID,
				Reason:         ErrNotRegistrationOwner.Error(),
			})
			continue
		}

		dropped, err := s.registrations.Drop(ctx, registrationID)
		if err != nil {
			result.Errors = append(result.Errors, dto.BulkItemError{
				RegistrationID: registrationID,
				Reason:         bulkReason(err),
			})
			continue
		}

		observability.Drops().Inc()
		s.publishDrop(ctx, dropped.ID, dropped.StudentID, dropped.CourseID)
		result.Successful = append(result.Successful, dto.BulkItemSuccess{RegistrationID: registrationID})
	}

	result.SuccessCount = len(result.Successful)
	result.ErrorCount = len(result.Errors)
	result.Message = fmt.Sprintf("%d dropped, %d failed", result.SuccessCount, result.ErrorCount)

	return result, nil
}

func (s *registrationService) publishDrop(ctx context.Context, registrationID, studentID, courseID uint) {
	s.events.Publish(ctx, RegistrationEvent{
		Type:           EventRegistrationDropped,
		RegistrationID: registrationID,
		StudentID:      studentID,
		CourseID:       courseID,
		OccurredAt:     time.Now().UTC(),
	})
}

func bulkReason(err error) string {
	switch {
	case errors.Is(err, repository.ErrCourseNotFound),
		errors.Is(err, repository.ErrCourseNotAvailable),
		errors.Is(err, repository.ErrCourseFull),
		errors.Is(err, repository.ErrAlreadyRegistered),
		errors.Is(err, repository.ErrStudentNotFound),
		errors.Is(err, repository.ErrStudentNotEligible),
		errors.Is(err, repository.ErrRegistrationNotFound):
		return err.Error()
	default:
		return "internal error"
	}
}
