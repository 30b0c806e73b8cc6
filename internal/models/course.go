package models

import "time"

// Course status values.
const (
	CourseStatusActive   = "active"
	CourseStatusInactive = "inactive"
	CourseStatusArchived = "archived"
)

// Course represents a course offering students can register for.
type Course struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	CourseCode    string    `gorm:"size:32;uniqueIndex;not null" json:"course_code"`
	Name          string    `gorm:"size:255;not null" json:"name"`
	Description   string    `gorm:"type:text" json:"description,omitempty"`
	Credits       int       `gorm:"not null;default:3" json:"credits"`
	MaxStudents   int       `gorm:"not null;default:30" json:"max_students"`
	Instructor    string    `gorm:"size:255" json:"instructor,omitempty"`
	Department    string    `gorm:"size:255" json:"department,omitempty"`
	Semester      string    `gorm:"size:32" json:"semester,omitempty"`
	Year          int       `json:"year,omitempty"`
	DurationWeeks int       `json:"duration_weeks,omitempty"`
	Status        string    `gorm:"size:32;not null;default:active" json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
