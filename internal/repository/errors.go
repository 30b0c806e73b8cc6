package repository

import "errors"

// Sentinel errors surfaced by the persistence layer. The enrollment
// invariants are enforced inside database transactions, so their failures
// originate here and are matched with errors.Is at the service and handler
// boundaries.
var (
	ErrUserNotFound         = errors.New("user not found")
	ErrEmailTaken           = errors.New("email already in use")
	ErrStudentNotFound      = errors.New("student not found")
	ErrStudentCodeTaken     = errors.New("student id already in use")
	ErrStudentNotEligible   = errors.New("student is not active")
	ErrCourseNotFound       = errors.New("course not found")
	ErrCourseCodeTaken      = errors.New("course code already in use")
	ErrCourseNotAvailable   = errors.New("course is not available for registration")
	ErrCourseHasEnrollments = errors.New("course has active enrollments")
	ErrCourseFull           = errors.New("course is full")
	ErrAlreadyRegistered    = errors.New("student is already registered for this course")
	ErrRegistrationNotFound = errors.New("registration not found")
)
