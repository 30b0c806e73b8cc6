package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/sira-go-api/internal/config"
	"github.com/noah-isme/sira-go-api/internal/handler"
	"github.com/noah-isme/sira-go-api/internal/middleware"
	"github.com/noah-isme/sira-go-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler         *handler.AuthHandler
	StudentHandler      *handler.StudentHandler
	CourseHandler       *handler.CourseHandler
	RegistrationHandler *handler.RegistrationHandler
	JWTMiddleware       fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))
	api.Get("/metrics", observability.MetricsHandler())

	// Use provided JWT middleware, or a no-op if nil
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	adminOnly := middleware.RequireRole("admin")

	if deps.AuthHandler != nil {
		auth := api.Group("/auth")
		auth.Use(middleware.RateLimit("auth", 10, time.Minute))
		deps.AuthHandler.RegisterPublic(auth)

		authProtected := auth.Group("", jwtMiddleware)
		deps.AuthHandler.RegisterProtected(authProtected)
	}

	if deps.CourseHandler != nil {
		courses := api.Group("/courses", jwtMiddleware)
		deps.CourseHandler.RegisterReadOnly(courses)

		coursesAdmin := courses.Group("", adminOnly)
		deps.CourseHandler.RegisterAdmin(coursesAdmin)
	}

	if deps.RegistrationHandler != nil {
		registrations := api.Group("/registrations", jwtMiddleware)
		deps.RegistrationHandler.Register(registrations)

		registrationsAdmin := registrations.Group("", adminOnly)
		deps.RegistrationHandler.RegisterAdmin(registrationsAdmin)
	}

	if deps.StudentHandler != nil {
		students := api.Group("/students", jwtMiddleware)
		deps.StudentHandler.RegisterSelf(students)

		studentsAdmin := students.Group("", adminOnly)
		deps.StudentHandler.RegisterAdmin(studentsAdmin)
	}
}
