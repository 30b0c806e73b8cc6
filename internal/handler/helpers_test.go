package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/sira-go-api/internal/config"
	"github.com/noah-isme/sira-go-api/internal/handler"
	"github.com/noah-isme/sira-go-api/internal/models"
	"github.com/noah-isme/sira-go-api/internal/repository"
	"github.com/noah-isme/sira-go-api/internal/router"
	"github.com/noah-isme/sira-go-api/internal/service"
)

// testAuth injects the authenticated user from test headers so handler tests
// can act as any account without issuing real tokens.
func testAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		idHeader := c.Get("X-Test-User")
		if idHeader == "" {
			return c.SendStatus(fiber.StatusUnauthorized)
		}

		id, err := strconv.ParseUint(idHeader, 10, 64)
		if err != nil {
			return c.SendStatus(fiber.StatusUnauthorized)
		}

		role := c.Get("X-Test-Role")
		if role == "" {
			role = models.RoleStudent
		}

		c.Locals("user_id", uint(id))
		c.Locals("user_role", role)
		c.Locals("user_email", c.Get("X-Test-Email"))
		return c.Next()
	}
}

func setupApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Student{}, &models.Course{}, &models.Registration{}))

	validate := validator.New(validator.WithRequiredStructEnabled())
	logger := zerolog.New(io.Discard)

	userRepo := repository.NewUserRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	registrationRepo := repository.NewRegistrationRepository(db)

	events := service.NewEventPublisher(nil, nil, "", logger)

	authService := service.NewAuthService(userRepo, validate, "test-secret", time.Hour, logger)
	studentService := service.NewStudentService(studentRepo, validate, logger)
	courseService := service.NewCourseService(courseRepo, validate, nil, 0, logger)
	registrationService := service.NewRegistrationService(registrationRepo, studentRepo, validate, events, logger)

	app := fiber.New()
	router.Register(app, config.Config{AppName: "Test", JWTSecret: "test-secret"}, router.Dependencies{
		AuthHandler:         handler.NewAuthHandler(authService, logger),
		StudentHandler:      handler.NewStudentHandler(studentService, registrationService, logger),
		CourseHandler:       handler.NewCourseHandler(courseService, registrationService, logger),
		RegistrationHandler: handler.NewRegistrationHandler(registrationService, logger),
		JWTMiddleware:       testAuth(),
	})

	return app, db
}

func seedUser(t *testing.T, db *gorm.DB, email, role string) models.User {
	t.Helper()
	user := models.User{Email: email, PasswordHash: "unused", Role: role, IsActive: true}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func seedStudent(t *testing.T, db *gorm.DB, code, email string, userID *uint) models.Student {
	t.Helper()
	student := models.Student{
		UserID:         userID,
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

func seedCourse(t *testing.T, db *gorm.DB, code string, maxStudents int) models.Course {
	t.Helper()
	course := models.Course{
		CourseCode:  code,
		Name:        "Course " + code,
		Credits:     3,
		MaxStudents: maxStudents,
		Status:      models.CourseStatusActive,
	}
	require.NoError(t, db.Create(&course).Error)
	return course
}

func jsonRequest(t *testing.T, method, target string, payload interface{}) *http.Request {
	t.Helper()
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(data)
	} else {
		body = strings.NewReader("")
	}

	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func asUser(req *http.Request, user models.User) *http.Request {
	req.Header.Set("X-Test-User", strconv.FormatUint(uint64(user.ID), 10))
	req.Header.Set("X-Test-Role", user.Role)
	req.Header.Set("X-Test-Email", user.Email)
	return req
}

func decodeResponse(t *testing.T, resp *http.Response, target interface{}) {
	t.Helper()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	require.NoError(t, json.Unmarshal(data, target))
}

type errorEnvelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Code    string `json:"code"`
}
