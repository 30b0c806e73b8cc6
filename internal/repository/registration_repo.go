package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/noah-isme/sira-go-api/internal/models"
)

// Seat-changing transactions run at SERIALIZABLE so two concurrent enrollments
// cannot both read a free seat and both commit. Postgres aborts the loser with
// a serialization failure, which is safe to retry.
const serializationRetries = 3

var serializableTx = sql.TxOptions{Isolation: sql.LevelSerializable}

// serializationFailure reports whether the transaction lost a serialization or
// deadlock race (SQLSTATE 40001 / 40P01) and should be retried.
func serializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}

// RegistrationFilter defines filters for listing registrations.
type RegistrationFilter struct {
	Status    string
	CourseID  uint
	StudentID uint
	Page      int
	PageSize  int
}

// RegistrationUpdate captures the admin-updatable fields of a registration.
type RegistrationUpdate struct {
	Status *string
	Grade  *string
	Notes  *string
}

// RegistrationRepository owns the enrollment transaction and registration
// persistence.
type RegistrationRepository interface {
	Enroll(ctx context.Context, studentID, courseID uint) (models.Registration, error)
	GetByID(ctx context.Context, id uint) (models.Registration, error)
	List(ctx context.Context, filter RegistrationFilter) ([]models.Registration, int64, error)
	Drop(ctx context.Context, id uint) (models.Registration, error)
	Delete(ctx context.Context, id uint) error
	Update(ctx context.Context, id uint, update RegistrationUpdate) (models.Registration, error)
}

type registrationRepository struct {
	db *gorm.DB
}

// NewRegistrationRepository constructs the registration repository.
func NewRegistrationRepository(db *gorm.DB) RegistrationRepository {
	return &registrationRepository{db: db}
}

// Enroll admits a student into a course. Every check and the insert run in
// one serializable transaction so that two concurrent requests cannot both
// observe a free seat and both commit: the seat count is re-read under the
// transaction and the (student_id, course_id) unique index backstops the
// duplicate check.
func (r *registrationRepository) Enroll(ctx context.Context, studentID, courseID uint) (models.Registration, error) {
	var registration models.Registration

	var err error
	for attempt := 0; attempt < serializationRetries; attempt++ {
		err = r.enrollTx(ctx, studentID, courseID, &registration)
		if !serializationFailure(err) {
			break
		}
	}
	if err != nil {
		return models.Registration{}, err
	}

	return registration, nil
}

func (r *registrationRepository) enrollTx(ctx context.Context, studentID, courseID uint, registration *models.Registration) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var course models.Course
		if err := tx.First(&course, courseID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCourseNotFound
			}
			return err
		}

		if course.Status != models.CourseStatusActive {
			return ErrCourseNotAvailable
		}

		var student models.Student
		if err := tx.First(&student, studentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrStudentNotFound
			}
			return err
		}

		if student.Status != models.StudentStatusActive {
			return ErrStudentNotEligible
		}

		// Any prior registration blocks re-enrollment, dropped ones included.
		var existing int64
		if err := tx.Model(&models.Registration{}).
			Where("student_id = ? AND course_id = ?", studentID, courseID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return ErrAlreadyRegistered
		}

		var enrolled int64
		if err := tx.Model(&models.Registration{}).
			Where("course_id = ? AND status = ?", courseID, models.RegistrationStatusEnrolled).
			Count(&enrolled).Error; err != nil {
			return err
		}
		if enrolled >= int64(course.MaxStudents) {
			return ErrCourseFull
		}

		*registration = models.Registration{
			StudentID:    studentID,
			CourseID:     courseID,
			RegisteredAt: time.Now().UTC(),
			Status:       models.RegistrationStatusEnrolled,
		}

		return tx.Create(registration).Error
	}, &serializableTx)
}

func (r *registrationRepository) GetByID(ctx context.Context, id uint) (models.Registration, error) {
	var registration models.Registration
	query := r.db.WithContext(ctx).Preload("Student").Preload("Course")
	if err := query.First(&registration, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Registration{}, ErrRegistrationNotFound
		}
		return models.Registration{}, err
	}

	return registration, nil
}

func (r *registrationRepository) List(ctx context.Context, filter RegistrationFilter) ([]models.Registration, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Registration{})

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	if filter.CourseID != 0 {
		query = query.Where("course_id = ?", filter.CourseID)
	}

	if filter.StudentID != 0 {
		query = query.Where("student_id = ?", filter.StudentID)
	}

	countQuery := query.Session(&gorm.Session{})
	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Preload("Student").Preload("Course").Order("registered_at DESC")
	if filter.PageSize > 0 {
		page := filter.Page
		if page <= 0 {
			page = 1
		}
		query = query.Limit(filter.PageSize).Offset((page - 1) * filter.PageSize)
	}

	var registrations []models.Registration
	if err := query.Find(&registrations).Error; err != nil {
		return nil, 0, err
	}

	return registrations, total, nil
}

// Drop marks a registration as dropped. The row is kept so re-enrollment
// stays blocked by the duplicate check.
func (r *registrationRepository) Drop(ctx context.Context, id uint) (models.Registration, error) {
	result := r.db.WithContext(ctx).Model(&models.Registration{}).
		Where("id = ?", id).
		Update("status", models.RegistrationStatusDropped)
	if result.Error != nil {
		return models.Registration{}, result.Error
	}
	if result.RowsAffected == 0 {
		return models.Registration{}, ErrRegistrationNotFound
	}

	return r.GetByID(ctx, id)
}

func (r *registrationRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Registration{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRegistrationNotFound
	}

	return nil
}

// Update patches status, grade and notes. Re-activating a dropped
// registration re-runs the capacity check under the same serializable
// transaction, since it consumes a seat again.
func (r *registrationRepository) Update(ctx context.Context, id uint, update RegistrationUpdate) (models.Registration, error) {
	var err error
	for attempt := 0; attempt < serializationRetries; attempt++ {
		err = r.updateTx(ctx, id, update)
		if !serializationFailure(err) {
			break
		}
	}
	if err != nil {
		return models.Registration{}, err
	}

	return r.GetByID(ctx, id)
}

func (r *registrationRepository) updateTx(ctx context.Context, id uint, update RegistrationUpdate) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var registration models.Registration
		if err := tx.First(&registration, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRegistrationNotFound
			}
			return err
		}

		updates := make(map[string]interface{})
		if update.Status != nil {
			status := *update.Status
			if status == models.RegistrationStatusEnrolled && registration.Status != models.RegistrationStatusEnrolled {
				var course models.Course
				if err := tx.First(&course, registration.CourseID).Error; err != nil {
					return err
				}

				var enrolled int64
				if err := tx.Model(&models.Registration{}).
					Where("course_id = ? AND status = ?", registration.CourseID, models.RegistrationStatusEnrolled).
					Count(&enrolled).Error; err != nil {
					return err
				}
				if enrolled >= int64(course.MaxStudents) {
					return ErrCourseFull
				}
			}
			updates["status"] = status
		}
		if update.Grade != nil {
			updates["grade"] = *update.Grade
		}
		if update.Notes != nil {
			updates["notes"] = *update.Notes
		}

		if len(updates) == 0 {
			return nil
		}

		return tx.Model(&registration).Updates(updates).Error
	}, &serializableTx)
}
