package models

import "time"

// Registration status values.
const (
	RegistrationStatusEnrolled  = "enrolled"
	RegistrationStatusDropped   = "dropped"
	RegistrationStatusCompleted = "completed"
)

// Registration joins a student to a course offering. The composite unique
// index backs the one-registration-per-pair invariant at the database level.
type Registration struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	StudentID    uint      `gorm:"not null;uniqueIndex:idx_student_course;constraint:OnDelete:CASCADE" json:"student_id"`
	CourseID     uint      `gorm:"not null;uniqueIndex:idx_student_course" json:"course_id"`
	RegisteredAt time.Time `json:"registered_at"`
	Status       string    `gorm:"size:32;not null;default:enrolled" json:"status"`
	Grade        *string   `gorm:"size:8" json:"grade,omitempty"`
	Notes        string    `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	Student Student `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Course  Course  `json:"-"`
}
