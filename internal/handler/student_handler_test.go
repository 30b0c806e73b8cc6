package handler_test

import (
	"strconv"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sira-go-api/internal/dto"
	"github.com/noah-isme/sira-go-api/internal/models"
)

func TestStudentHandlerCreateWithAccount(t *testing.T) {
	app, db := setupApp(t)

	admin := seedUser(t, db, "admin@example.com", models.RoleAdmin)

	payload := fiber.Map{
		"student_id":     "S001",
		"first_name":     "Alice",
		"last_name":      "Johnson",
		"email":          "alice@example.com",
		"create_account": true,
		"password":       "alice-password",
	}
	resp, err := app.Test(asUser(jsonRequest(t, "POST", "/api/students", payload), admin))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var envelope struct {
		Success bool                `json:"success"`
		Data    dto.StudentResponse `json:"data"`
	}
	decodeResponse(t, resp, &envelope)
	require.Equal(t, "S001", envelope.Data.StudentID)
	require.NotNil(t, envelope.Data.UserID)

	var account models.User
	require.NoError(t, db.First(&account, *envelope.Data.UserID).Error)
	require.Equal(t, models.RoleStudent, account.Role)
	require.Equal(t, "alice@example.com", account.Email)
}

func TestStudentHandlerCreateDuplicateCode(t *testing.T) {
	app, db := setupApp(t)

	admin := seedUser(t, db, "admin@example.com", models.RoleAdmin)
	seedStudent(t, db, "S001", "alice@example.com", nil)

	payload := fiber.Map{
		"student_id": "S001",
		"first_name": "Bob",
		"last_name":  "Stone",
		"email":      "bob@example.com",
	}
	resp, err := app.Test(asUser(jsonRequest(t, "POST", "/api/students", payload), admin))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var envelope errorEnvelope
	decodeResponse(t, resp, &envelope)
	require.Equal(t, "CONFLICT", envelope.Code)
}

func TestStudentHandlerCreateAccountWithoutPassword(t *testing.T) {
	app, db := setupApp(t)

	admin := seedUser(t, db, "admin@example.com", models.RoleAdmin)

	payload := fiber.Map{
		"student_id":     "S001",
		"first_name":     "Alice",
		"last_name":      "Johnson",
		"email":          "alice@example.com",
		"create_account": true,
	}
	resp, err := app.Test(asUser(jsonRequest(t, "POST", "/api/students", payload), admin))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var envelope errorEnvelope
	decodeResponse(t, resp, &envelope)
	require.Equal(t, "VALIDATION_FAILED", envelope.Code)
}

func TestStudentHandlerListRequiresAdmin(t *testing.T) {
	app, db := setupApp(t)

	user := seedUser(t, db, "alice@example.com", models.RoleStudent)

	resp, err := app.Test(asUser(jsonRequest(t, "GET", "/api/students", nil), user))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	require.NoError(t, resp.Body.Close())
}

func TestStudentHandlerSelfProfile(t *testing.T) {
	app, db := setupApp(t)

	user := seedUser(t, db, "alice@example.com", models.RoleStudent)
	student := seedStudent(t, db, "S001", "alice@example.com", &user.ID)

	resp, err := app.Test(asUser(jsonRequest(t, "GET", "/api/students/me", nil), user))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var envelope struct {
		Success bool                `json:"success"`
		Data    dto.StudentResponse `json:"data"`
	}
	decodeResponse(t, resp, &envelope)
	require.Equal(t, student.ID, envelope.Data.ID)
	require.Equal(t, "S001", envelope.Data.StudentID)
}

func TestStudentHandlerSelfUpdateContactFields(t *testing.T) {
	app, db := setupApp(t)

	user := seedUser(t, db, "alice@example.com", models.RoleStudent)
	student := seedStudent(t, db, "S001", "alice@example.com", &user.ID)

	payload := fiber.Map{"phone": "+1-555-0100"}
	resp, err := app.Test(asUser(jsonRequest(t, "PUT", "/api/students/me", payload), user))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NoError(t, resp.Body.Close())

	var stored models.Student
	require.NoError(t, db.First(&stored, student.ID).Error)
	require.Equal(t, "+1-555-0100", stored.Phone)
}

func TestStudentHandlerBulkEnrollPartialSuccess(t *testing.T) {
	app, db := setupApp(t)

	admin := seedUser(t, db, "admin@example.com", models.RoleAdmin)
	student := seedStudent(t, db, "S001", "alice@example.com", nil)
	open := seedCourse(t, db, "CS101", 30)
	full := seedCourse(t, db, "CS102", 1)

	occupant := seedStudent(t, db, "S002", "bob@example.com", nil)
	require.NoError(t, db.Create(&models.Registration{StudentID: occupant.ID, CourseID: full.ID, Status: models.RegistrationStatusEnrolled}).Error)

	payload := fiber.Map{"courseIds": []uint{open.ID, full.ID, 9999}}
	resp, err := app.Test(asUser(jsonRequest(t, "POST", "/api/students/"+strconv.FormatUint(uint64(student.ID), 10)+"/enroll", payload), admin))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var envelope struct {
		Success bool           `json:"success"`
		Data    dto.BulkResult `json:"data"`
		Message string         `json:"message"`
	}
	decodeResponse(t, resp, &envelope)
	require.True(t, envelope.Success)
	require.Equal(t, 1, envelope.Data.SuccessCount)
	require.Equal(t, 2, envelope.Data.ErrorCount)
	require.Equal(t, "1 enrolled, 2 failed", envelope.Message)
	require.Equal(t, open.ID, envelope.Data.Successful[0].CourseID)
}

func TestStudentHandlerBulkDrop(t *testing.T) {
	app, db := setupApp(t)

	admin := seedUser(t, db, "admin@example.com", models.RoleAdmin)
	student := seedStudent(t, db, "S001", "alice@example.com", nil)
	course := seedCourse(t, db, "CS101", 30)

	registration := models.Registration{StudentID: student.ID, CourseID: course.ID, Status: models.RegistrationStatusEnrolled}
	require.NoError(t, db.Create(&registration).Error)

	payload := fiber.Map{"registrationIds": []uint{registration.ID, 9999}}
	resp, err := app.Test(asUser(jsonRequest(t, "POST", "/api/students/"+strconv.FormatUint(uint64(student.ID), 10)+"/unenroll", payload), admin))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var envelope struct {
		Success bool           `json:"success"`
		Data    dto.BulkResult `json:"data"`
	}
	decodeResponse(t, resp, &envelope)
	require.Equal(t, 1, envelope.Data.SuccessCount)
	require.Equal(t, 1, envelope.Data.ErrorCount)

	var stored models.Registration
	require.NoError(t, db.First(&stored, registration.ID).Error)
	require.Equal(t, models.RegistrationStatusDropped, stored.Status)
}

func TestStudentHandlerDeleteCascades(t *testing.T) {
	app, db := setupApp(t)

	admin := seedUser(t, db, "admin@example.com", models.RoleAdmin)
	student := seedStudent(t, db, "S001", "alice@example.com", nil)
	course := seedCourse(t, db, "CS101", 30)

	require.NoError(t, db.Create(&models.Registration{StudentID: student.ID, CourseID: course.ID, Status: models.RegistrationStatusEnrolled}).Error)

	resp, err := app.Test(asUser(jsonRequest(t, "DELETE", "/api/students/"+strconv.FormatUint(uint64(student.ID), 10), nil), admin))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NoError(t, resp.Body.Close())

	var registrations int64
	require.NoError(t, db.Model(&models.Registration{}).Where("student_id = ?", student.ID).Count(&registrations).Error)
	require.Zero(t, registrations)
}
