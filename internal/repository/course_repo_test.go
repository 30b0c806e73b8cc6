package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sira-go-api/internal/models"
)

func TestCourseRepositoryCreateUniqueCode(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCourseRepository(db)

	course := models.Course{CourseCode: "CS101", Name: "Intro", Credits: 3, MaxStudents: 30, Status: models.CourseStatusActive}
	require.NoError(t, repo.Create(context.Background(), &course))

	duplicate := models.Course{CourseCode: "CS101", Name: "Other", Credits: 3, MaxStudents: 30, Status: models.CourseStatusActive}
	require.ErrorIs(t, repo.Create(context.Background(), &duplicate), ErrCourseCodeTaken)
}

func TestCourseRepositoryListFilters(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCourseRepository(db)

	cs := models.Course{CourseCode: "CS101", Name: "Algorithms", Department: "CS", Semester: "fall", Credits: 3, MaxStudents: 30, Status: models.CourseStatusActive}
	require.NoError(t, db.Create(&cs).Error)
	math := models.Course{CourseCode: "MA201", Name: "Calculus", Department: "Math", Semester: "spring", Credits: 4, MaxStudents: 30, Status: models.CourseStatusArchived}
	require.NoError(t, db.Create(&math).Error)

	courses, total, err := repo.List(context.Background(), CourseFilter{Search: "algo", PageSize: 10})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Equal(t, "CS101", courses[0].CourseCode)

	_, total, err = repo.List(context.Background(), CourseFilter{Department: "Math", PageSize: 10})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)

	_, total, err = repo.List(context.Background(), CourseFilter{Semester: "fall", Status: models.CourseStatusActive, PageSize: 10})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
}

func TestCourseRepositoryDeleteGuard(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCourseRepository(db)
	registrations := NewRegistrationRepository(db)

	student := createTestStudent(t, db, "S001", "alice@example.com")
	course := createTestCourse(t, db, "CS101", 30, models.CourseStatusActive)

	registration, err := registrations.Enroll(context.Background(), student.ID, course.ID)
	require.NoError(t, err)

	// Enrolled registrations block deletion.
	require.ErrorIs(t, repo.Delete(context.Background(), course.ID), ErrCourseHasEnrollments)

	_, err = registrations.Drop(context.Background(), registration.ID)
	require.NoError(t, err)

	// Dropped-only registrations do not.
	require.NoError(t, repo.Delete(context.Background(), course.ID))

	_, err = repo.GetByID(context.Background(), course.ID)
	require.ErrorIs(t, err, ErrCourseNotFound)

	require.ErrorIs(t, repo.Delete(context.Background(), course.ID), ErrCourseNotFound)
}

func TestCourseRepositoryCountEnrolled(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCourseRepository(db)
	registrations := NewRegistrationRepository(db)

	first := createTestStudent(t, db, "S001", "alice@example.com")
	second := createTestStudent(t, db, "S002", "bob@example.com")
	course := createTestCourse(t, db, "CS101", 30, models.CourseStatusActive)

	_, err := registrations.Enroll(context.Background(), first.ID, course.ID)
	require.NoError(t, err)
	dropped, err := registrations.Enroll(context.Background(), second.ID, course.ID)
	require.NoError(t, err)
	_, err = registrations.Drop(context.Background(), dropped.ID)
	require.NoError(t, err)

	count, err := repo.CountEnrolled(context.Background(), course.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)
}
