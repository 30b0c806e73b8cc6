package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/noah-isme/sira-go-api/internal/models"
)

// CourseFilter defines filters for listing course offerings.
type CourseFilter struct {
	Search     string
	Department string
	Semester   string
	Status     string
	Page       int
	PageSize   int
}

// CourseRepository exposes persistence helpers for course offerings.
type CourseRepository interface {
	List(ctx context.Context, filter CourseFilter) ([]models.Course, int64, error)
	GetByID(ctx context.Context, id uint) (models.Course, error)
	Create(ctx context.Context, course *models.Course) error
	Update(ctx context.Context, id uint, updates map[string]interface{}) (models.Course, error)
	Delete(ctx context.Context, id uint) error
	CountEnrolled(ctx context.Context, courseID uint) (int64, error)
}

type courseRepository struct {
	db *gorm.DB
}

// NewCourseRepository constructs the course repository.
func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

func (r *courseRepository) List(ctx context.Context, filter CourseFilter) ([]models.Course, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Course{})

	if filter.Search != "" {
		like := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(course_code) LIKE ? OR LOWER(instructor) LIKE ?", like, like, like)
	}

	if filter.Department != "" {
		query = query.Where("department = ?", filter.Department)
	}

	if filter.Semester != "" {
		query = query.Where("semester = ?", filter.Semester)
	}

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	countQuery := query.Session(&gorm.Session{})
	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = query.Order("created_at DESC")
	if filter.PageSize > 0 {
		page := filter.Page
		if page <= 0 {
			page = 1
		}
		query = query.Limit(filter.PageSize).Offset((page - 1) * filter.PageSize)
	}

	var courses []models.Course
	if err := query.Find(&courses).Error; err != nil {
		return nil, 0, err
	}

	return courses, total, nil
}

func (r *courseRepository) GetByID(ctx context.Context, id uint) (models.Course, error) {
	var course models.Course
	if err := r.db.WithContext(ctx).First(&course, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Course{}, ErrCourseNotFound
		}
		return models.Course{}, err
	}

	return course, nil
}

func (r *courseRepository) Create(ctx context.Context, course *models.Course) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Course{}).Where("course_code = ?", course.CourseCode).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrCourseCodeTaken
		}

		return tx.Create(course).Error
	})
}

func (r *courseRepository) Update(ctx context.Context, id uint, updates map[string]interface{}) (models.Course, error) {
	result := r.db.WithContext(ctx).Model(&models.Course{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return models.Course{}, result.Error
	}
	if result.RowsAffected == 0 {
		return models.Course{}, ErrCourseNotFound
	}

	return r.GetByID(ctx, id)
}

// Delete removes a course unless enrolled registrations still reference it.
// The enrolled count is re-queried inside the delete transaction, never
// taken from a cached value.
func (r *courseRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var course models.Course
		if err := tx.First(&course, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCourseNotFound
			}
			return err
		}

		var enrolled int64
		if err := tx.Model(&models.Registration{}).
			Where("course_id = ? AND status = ?", id, models.RegistrationStatusEnrolled).
			Count(&enrolled).Error; err != nil {
			return err
		}
		if enrolled > 0 {
			return ErrCourseHasEnrollments
		}

		// Dropped and completed rows no longer block deletion.
		if err := tx.Where("course_id = ?", id).Delete(&models.Registration{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Course{}, id).Error
	})
}

func (r *courseRepository) CountEnrolled(ctx context.Context, courseID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Registration{}).
		Where("course_id = ? AND status = ?", courseID, models.RegistrationStatusEnrolled).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}
