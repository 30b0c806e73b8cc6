package dto

import (
	"time"

	"github.com/noah-isme/sira-go-api/internal/models"
)

// EnrollRequest captures the payload for a single enrollment.
type EnrollRequest struct {
	CourseID  uint `json:"course_id" validate:"required,gt=0"`
	StudentID uint `json:"student_id" validate:"omitempty,gt=0"`
}

// RegistrationListRequest defines filters for listing registrations.
type RegistrationListRequest struct {
	Page      int
	PageSize  int
	Status    string
	CourseID  uint
	StudentID uint
}

// RegistrationUpdateRequest captures admin updates of a registration.
type RegistrationUpdateRequest struct {
	Status *string `json:"status" validate:"omitempty,oneof=enrolled dropped completed"`
	Grade  *string `json:"grade" validate:"omitempty,max=8"`
	Notes  *string `json:"notes" validate:"omitempty,max=2000"`
}

// BulkEnrollRequest carries the course ids for a bulk enrollment.
type BulkEnrollRequest struct {
	CourseIDs []uint `json:"courseIds" validate:"required,min=1,max=50,dive,gt=0"`
}

// BulkDropRequest carries the registration ids for a bulk drop.
type BulkDropRequest struct {
	RegistrationIDs []uint `json:"registrationIds" validate:"required,min=1,max=50,dive,gt=0"`
}

// BulkItemSuccess records a single successful item of a bulk operation.
type BulkItemSuccess struct {
	CourseID       uint `json:"course_id,omitempty"`
	RegistrationID uint `json:"registration_id"`
}

// BulkItemError records a single failed item of a bulk operation.
type BulkItemError struct {
	CourseID       uint   `json:"course_id,omitempty"`
	RegistrationID uint   `json:"registration_id,omitempty"`
	Reason         string `json:"reason"`
}

// BulkResult is the envelope for bulk enroll/drop outcomes. Bulk operations
// always report both lists instead of failing the whole batch.
type BulkResult struct {
	Message      string            `json:"message"`
	Successful   []BulkItemSuccess `json:"successful"`
	Errors       []BulkItemError   `json:"errors"`
	SuccessCount int               `json:"successCount"`
	ErrorCount   int               `json:"errorCount"`
}

// RegistrationResponse serializes a registration.
type RegistrationResponse struct {
	ID           uint      `json:"id"`
	StudentID    uint      `json:"student_id"`
	CourseID     uint      `json:"course_id"`
	RegisteredAt time.Time `json:"registered_at"`
	Status       string    `json:"status"`
	Grade        *string   `json:"grade,omitempty"`
	Notes        string    `json:"notes,omitempty"`
	StudentName  string    `json:"student_name,omitempty"`
	StudentCode  string    `json:"student_code,omitempty"`
	CourseCode   string    `json:"course_code,omitempty"`
	CourseName   string    `json:"course_name,omitempty"`
}

// RegistrationListResponse wraps a paginated registration listing.
type RegistrationListResponse struct {
	Items      []RegistrationResponse `json:"items"`
	Pagination PaginationMeta         `json:"pagination"`
}

// NewRegistrationResponse converts a registration model into a DTO. Related
// student and course fields are filled when the association was preloaded.
func NewRegistrationResponse(registration models.Registration) RegistrationResponse {
	response := RegistrationResponse{
		ID:           registration.ID,
		StudentID:    registration.StudentID,
		CourseID:     registration.CourseID,
		RegisteredAt: registration.RegisteredAt,
		Status:       registration.Status,
		Grade:        registration.Grade,
		Notes:        registration.Notes,
	}

	if registration.Student.ID != 0 {
		response.StudentName = registration.Student.FullName()
		response.StudentCode = registration.Student.StudentID
	}
	if registration.Course.ID != 0 {
		response.CourseCode = registration.Course.CourseCode
		response.CourseName = registration.Course.Name
	}

	return response
}
