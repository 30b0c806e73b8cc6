package dto

import (
	"time"

	"github.com/noah-isme/sira-go-api/internal/models"
)

// StudentListRequest defines filters for listing students.
type StudentListRequest struct {
	Page     int
	PageSize int
	Search   string
	Status   string
	Course   string
}

// StudentCreateRequest captures the payload for creating a student record.
type StudentCreateRequest struct {
	StudentID     string                 `json:"student_id" validate:"required,min=3,max=32"`
	FirstName     string                 `json:"first_name" validate:"required,min=1,max=100"`
	LastName      string                 `json:"last_name" validate:"required,min=1,max=100"`
	Email         string                 `json:"email" validate:"required,email"`
	Phone         string                 `json:"phone" validate:"omitempty,max=32"`
	DateOfBirth   *string                `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	Gender        string                 `json:"gender" validate:"omitempty,oneof=male female other"`
	Address       map[string]interface{} `json:"address"`
	Status        string                 `json:"status" validate:"omitempty,oneof=active inactive suspended graduated"`
	CreateAccount bool                   `json:"create_account"`
	Password      string                 `json:"password" validate:"omitempty,min=8"`
}

// StudentUpdateRequest captures partial update payloads for students.
type StudentUpdateRequest struct {
	FirstName   *string                `json:"first_name" validate:"omitempty,min=1,max=100"`
	LastName    *string                `json:"last_name" validate:"omitempty,min=1,max=100"`
	Phone       *string                `json:"phone" validate:"omitempty,max=32"`
	DateOfBirth *string                `json:"date_of_birth" validate:"omitempty,datetime=2006-01-02"`
	Gender      *string                `json:"gender" validate:"omitempty,oneof=male female other"`
	Address     map[string]interface{} `json:"address"`
	Status      *string                `json:"status" validate:"omitempty,oneof=active inactive suspended graduated"`
}

// StudentSelfUpdateRequest limits self-service edits to contact fields.
type StudentSelfUpdateRequest struct {
	Phone   *string                `json:"phone" validate:"omitempty,max=32"`
	Address map[string]interface{} `json:"address"`
}

// StudentResponse serializes a student record.
type StudentResponse struct {
	ID             uint                   `json:"id"`
	UserID         *uint                  `json:"user_id,omitempty"`
	StudentID      string                 `json:"student_id"`
	FirstName      string                 `json:"first_name"`
	LastName       string                 `json:"last_name"`
	Email          string                 `json:"email"`
	Phone          string                 `json:"phone,omitempty"`
	DateOfBirth    *time.Time             `json:"date_of_birth,omitempty"`
	Gender         string                 `json:"gender,omitempty"`
	Address        map[string]interface{} `json:"address,omitempty"`
	EnrollmentDate time.Time              `json:"enrollment_date"`
	Status         string                 `json:"status"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
}

// StudentListResponse wraps a paginated student listing.
type StudentListResponse struct {
	Items      []StudentResponse `json:"items"`
	Pagination PaginationMeta    `json:"pagination"`
}

// NewStudentResponse converts a student model into a DTO.
func NewStudentResponse(student models.Student) StudentResponse {
	return StudentResponse{
		ID:             student.ID,
		UserID:         student.UserID,
		StudentID:      student.StudentID,
		FirstName:      student.FirstName,
		LastName:       student.LastName,
		Email:          student.Email,
		Phone:          student.Phone,
		DateOfBirth:    student.DateOfBirth,
		Gender:         student.Gender,
		Address:        student.Address,
		EnrollmentDate: student.EnrollmentDate,
		Status:         student.Status,
		CreatedAt:      student.CreatedAt,
		UpdatedAt:      student.UpdatedAt,
	}
}
