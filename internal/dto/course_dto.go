package dto

import (
	"time"

	"github.com/noah-isme/sira-go-api/internal/models"
)

// CourseListRequest defines filters for listing courses.
type CourseListRequest struct {
	Page       int
	PageSize   int
	Search     string
	Department string
	Semester   string
	Status     string
}

// CourseCreateRequest captures the payload for creating a course offering.
type CourseCreateRequest struct {
	CourseCode    string `json:"course_code" validate:"required,min=2,max=32"`
	Name          string `json:"name" validate:"required,min=3,max=255"`
	Description   string `json:"description" validate:"omitempty,max=5000"`
	Credits       int    `json:"credits" validate:"omitempty,gte=0,lte=30"`
	MaxStudents   int    `json:"max_students" validate:"omitempty,gte=1,lte=1000"`
	Instructor    string `json:"instructor" validate:"omitempty,max=255"`
	Department    string `json:"department" validate:"omitempty,max=255"`
	Semester      string `json:"semester" validate:"omitempty,max=32"`
	Year          int    `json:"year" validate:"omitempty,gte=2000,lte=2100"`
	DurationWeeks int    `json:"duration_weeks" validate:"omitempty,gte=1,lte=52"`
	Status        string `json:"status" validate:"omitempty,oneof=active inactive archived"`
}

// CourseUpdateRequest allows patching course metadata.
type CourseUpdateRequest struct {
	Name          *string `json:"name" validate:"omitempty,min=3,max=255"`
	Description   *string `json:"description" validate:"omitempty,max=5000"`
	Credits       *int    `json:"credits" validate:"omitempty,gte=0,lte=30"`
	MaxStudents   *int    `json:"max_students" validate:"omitempty,gte=1,lte=1000"`
	Instructor    *string `json:"instructor" validate:"omitempty,max=255"`
	Department    *string `json:"department" validate:"omitempty,max=255"`
	Semester      *string `json:"semester" validate:"omitempty,max=32"`
	Year          *int    `json:"year" validate:"omitempty,gte=2000,lte=2100"`
	DurationWeeks *int    `json:"duration_weeks" validate:"omitempty,gte=1,lte=52"`
	Status        *string `json:"status" validate:"omitempty,oneof=active inactive archived"`
}

// CourseResponse serializes a course offering.
type CourseResponse struct {
	ID            uint      `json:"id"`
	CourseCode    string    `json:"course_code"`
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	Credits       int       `json:"credits"`
	MaxStudents   int       `json:"max_students"`
	Instructor    string    `json:"instructor,omitempty"`
	Department    string    `json:"department,omitempty"`
	Semester      string    `json:"semester,omitempty"`
	Year          int       `json:"year,omitempty"`
	DurationWeeks int       `json:"duration_weeks,omitempty"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// CourseDetailResponse adds live seat accounting to a course.
type CourseDetailResponse struct {
	CourseResponse
	EnrolledCount  int64 `json:"enrolled_count"`
	SeatsRemaining int64 `json:"seats_remaining"`
}

// CourseListResponse wraps a paginated course listing.
type CourseListResponse struct {
	Items      []CourseResponse `json:"items"`
	Pagination PaginationMeta   `json:"pagination"`
}

// NewCourseResponse converts a course model into a DTO.
func NewCourseResponse(course models.Course) CourseResponse {
	return CourseResponse{
		ID:            course.ID,
		CourseCode:    course.CourseCode,
		Name:          course.Name,
		Description:   course.Description,
		Credits:       course.Credits,
		MaxStudents:   course.MaxStudents,
		Instructor:    course.Instructor,
		Department:    course.Department,
		Semester:      course.Semester,
		Year:          course.Year,
		DurationWeeks: course.DurationWeeks,
		Status:        course.Status,
		CreatedAt:     course.CreatedAt,
		UpdatedAt:     course.UpdatedAt,
	}
}
