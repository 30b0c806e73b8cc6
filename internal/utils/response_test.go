package utils

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

func performRequest(t *testing.T, handler fiber.Handler) (APIResponse, int) {
	t.Helper()
	app := fiber.New()
	app.Get("/", handler)

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())

	var envelope APIResponse
	require.NoError(t, json.Unmarshal(body, &envelope))
	return envelope, resp.StatusCode
}

func TestSendSuccess(t *testing.T) {
	envelope, status := performRequest(t, func(c *fiber.Ctx) error {
		return SendSuccess(c, "done", fiber.Map{"id": 1})
	})

	require.Equal(t, fiber.StatusOK, status)
	require.True(t, envelope.Success)
	require.Equal(t, "done", envelope.Message)
	require.NotNil(t, envelope.Data)
}

func TestSendSuccessWithStatusDefaults(t *testing.T) {
	envelope, status := performRequest(t, func(c *fiber.Ctx) error {
		return SendSuccessWithStatus(c, 0, "", nil)
	})

	require.Equal(t, fiber.StatusOK, status)
	require.Equal(t, "success", envelope.Message)
}

func TestSendErrorCode(t *testing.T) {
	envelope, status := performRequest(t, func(c *fiber.Ctx) error {
		return SendErrorCode(c, fiber.StatusBadRequest, "course is full", "CAPACITY_EXCEEDED")
	})

	require.Equal(t, fiber.StatusBadRequest, status)
	require.False(t, envelope.Success)
	require.Equal(t, "course is full", envelope.Message)
	require.Equal(t, "CAPACITY_EXCEEDED", envelope.Code)
}

func TestSendErrorDefaultMessage(t *testing.T) {
	envelope, status := performRequest(t, func(c *fiber.Ctx) error {
		return SendError(c, fiber.StatusInternalServerError, "")
	})

	require.Equal(t, fiber.StatusInternalServerError, status)
	require.Equal(t, "error", envelope.Message)
	require.Empty(t, envelope.Code)
}
