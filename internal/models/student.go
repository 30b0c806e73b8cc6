package models

import (
	"time"

	"gorm.io/datatypes"
)

// Student status values.
const (
	StudentStatusActive    = "active"
	StudentStatusInactive  = "inactive"
	StudentStatusSuspended = "suspended"
	StudentStatusGraduated = "graduated"
)

// Student represents a person eligible to enroll in courses.
type Student struct {
	ID             uint              `gorm:"primaryKey" json:"id"`
	UserID         *uint             `gorm:"index" json:"user_id,omitempty"`
	StudentID      string            `gorm:"size:32;uniqueIndex;not null" json:"student_id"`
	FirstName      string            `gorm:"size:100;not null" json:"first_name"`
	LastName       string            `gorm:"size:100;not null" json:"last_name"`
	Email          string            `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Phone          string            `gorm:"size:32" json:"phone,omitempty"`
	DateOfBirth    *time.Time        `json:"date_of_birth,omitempty"`
	Gender         string            `gorm:"size:16" json:"gender,omitempty"`
	Address        datatypes.JSONMap `json:"address,omitempty"`
	EnrollmentDate time.Time         `json:"enrollment_date"`
	Status         string            `gorm:"size:32;not null;default:active" json:"status"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`

	Registrations []Registration `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// FullName returns the student's display name.
func (s Student) FullName() string {
	return s.FirstName + " " + s.LastName
}
