package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/sira-go-api/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Student{}, &models.Course{}, &models.Registration{}))
	return db
}

func createTestStudent(t *testing.T, db *gorm.DB, code, email string) models.Student {
	t.Helper()
	student := models.Student{
		StudentID:      code,
		FirstName:      "Test",
		LastName:       "Student",
		Email:          email,
		EnrollmentDate: time.Now().UTC(),
		Status:         models.StudentStatusActive,
	}
	require.NoError(t, db.Create(&student).Error)
	return student
}

func createTestCourse(t *testing.T, db *gorm.DB, code string, maxStudents int, status string) models.Course {
	t.Helper()
	course := models.Course{
		CourseCode:  code,
		Name:        "Course " + code,
		Credits:     3,
		MaxStudents: maxStudents,
		Status:      status,
	}
	require.NoError(t, db.Create(&course).Error)
	return course
}
