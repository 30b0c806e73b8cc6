package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/noah-isme/sira-go-api/internal/models"
)

// StudentFilter defines filters for listing student records.
type StudentFilter struct {
	Search     string
	Status     string
	CourseName string
	Page       int
	PageSize   int
}

// StudentRepository exposes persistence helpers for student records.
type StudentRepository interface {
	List(ctx context.Context, filter StudentFilter) ([]models.Student, int64, error)
	GetByID(ctx context.Context, id uint) (models.Student, error)
	GetByUserID(ctx context.Context, userID uint) (models.Student, error)
	Create(ctx context.Context, student *models.Student, account *models.User) error
	Update(ctx context.Context, id uint, updates map[string]interface{}) (models.Student, error)
	Delete(ctx context.Context, id uint) error
}

type studentRepository struct {
	db *gorm.DB
}

// NewStudentRepository constructs the student repository.
func NewStudentRepository(db *gorm.DB) StudentRepository {
	return &studentRepository{db: db}
}

func (r *studentRepository) List(ctx context.Context, filter StudentFilter) ([]models.Student, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Student{})

	if filter.Search != "" {
		like := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where(
			"LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(student_id) LIKE ?",
			like, like, like, like,
		)
	}

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	if filter.CourseName != "" {
		like := "%" + strings.ToLower(filter.CourseName) + "%"
		query = query.Where(
			"id IN (?)",
			r.db.Model(&models.Registration{}).
				Select("registrations.student_id").
				Joins("JOIN courses ON courses.id = registrations.course_id").
				Where("LOWER(courses.name) LIKE ?", like),
		)
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

	var students []models.Student
	if err := query.Find(&students).Error; err != nil {
		return nil, 0, err
	}

	return students, total, nil
}

func (r *studentRepository) GetByID(ctx context.Context, id uint) (models.Student, error) {
	var student models.Student
	if err := r.db.WithContext(ctx).First(&student, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Student{}, ErrStudentNotFound
		}
		return models.Student{}, err
	}

	return student, nil
}

func (r *studentRepository) GetByUserID(ctx context.Context, userID uint) (models.Student, error) {
	var student models.Student
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if err := query.First(&student).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Student{}, ErrStudentNotFound
		}
		return models.Student{}, err
	}

	return student, nil
}

// Create inserts a student record, checking the student code and email
// uniqueness constraints inside one transaction. When account is non-nil it
// is created in the same transaction and linked to the record, so a student
// never ends up without a matching login.
func (r *studentRepository) Create(ctx context.Context, student *models.Student, account *models.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Student{}).Where("student_id = ?", student.StudentID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrStudentCodeTaken
		}

		if err := tx.Model(&models.Student{}).Where("LOWER(email) = ?", strings.ToLower(student.Email)).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrEmailTaken
		}

		if account != nil {
			if err := tx.Model(&models.User{}).Where("LOWER(email) = ?", strings.ToLower(account.Email)).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return ErrEmailTaken
			}
			if err := tx.Create(account).Error; err != nil {
				return err
			}
			student.UserID = &account.ID
		}

		return tx.Create(student).Error
	})
}

func (r *studentRepository) Update(ctx context.Context, id uint, updates map[string]interface{}) (models.Student, error) {
	result := r.db.WithContext(ctx).Model(&models.Student{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		return models.Student{}, result.Error
	}
	if result.RowsAffected == 0 {
		return models.Student{}, ErrStudentNotFound
	}

	return r.GetByID(ctx, id)
}

// Delete removes the student and every registration referencing it. The
// registrations are deleted explicitly so the cascade does not depend on the
// driver honoring the foreign key constraint.
func (r *studentRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("student_id = ?", id).Delete(&models.Registration{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.Student{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrStudentNotFound
		}

		return nil
	})
}
