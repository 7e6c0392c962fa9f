package middleware

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"posts/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCtxHandler_AddsRequestAndTraceIDs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(&ctxHandler{slog.NewJSONHandler(&buf, nil)})

	ctx := context.WithValue(context.Background(), RequestIDKey, "req-1")
	ctx = context.WithValue(ctx, TraceIDKey, "trace-1")
	logger.InfoContext(ctx, "hello")

	assert.Contains(t, buf.String(), `"request_id":"req-1"`)
	assert.Contains(t, buf.String(), `"trace_id":"trace-1"`)
}

func TestContextMiddleware(t *testing.T) {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("requestid", "req-42")
		c.Locals("traceID", "trace-42")
		return c.Next()
	})
	app.Use(ContextMiddleware())

	var gotRequest, gotTrace any
	app.Get("/", func(c *fiber.Ctx) error {
		gotRequest = c.UserContext().Value(RequestIDKey)
		gotTrace = c.UserContext().Value(TraceIDKey)
		return c.SendStatus(fiber.StatusNoContent)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "req-42", gotRequest)
	assert.Equal(t, "trace-42", gotTrace)
}

func TestTracingMiddleware_SetsTraceHeader(t *testing.T) {
	app := fiber.New()
	app.Use(TracingMiddleware())

	var traceID any
	app.Get("/", func(c *fiber.Ctx) error {
		traceID = c.Locals("traceID")
		return c.SendString("ok")
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, traceID, resp.Header.Get("X-Trace-ID"))
}

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	previous := Logger
	Logger = slog.New(&ctxHandler{slog.NewTextHandler(&buf, nil)})
	t.Cleanup(func() { Logger = previous })
	return &buf
}

func TestStructuredLogger_StatusOfReturnedErrors(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		status int
	}{
		{"Unknown route", "/nope", http.StatusNotFound},
		{"Application error", "/missing", http.StatusNotFound},
		{"Plain error", "/broken", http.StatusInternalServerError},
		{"Success", "/ok", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := captureLogs(t)

			app := fiber.New(fiber.Config{
				ErrorHandler: func(c *fiber.Ctx, err error) error {
					var fiberErr *fiber.Error
					if errors.As(err, &fiberErr) {
						return c.SendStatus(fiberErr.Code)
					}
					return models.RespondWithError(c, models.StatusFor(err), err)
				},
			})
			app.Use(StructuredLogger())
			app.Get("/missing", func(c *fiber.Ctx) error {
				return models.NewNotFoundError(models.MsgNoSuchUser)
			})
			app.Get("/broken", func(c *fiber.Ctx) error {
				return errors.New("boom")
			})
			app.Get("/ok", func(c *fiber.Ctx) error {
				return c.SendString("ok")
			})

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, tt.path, nil))
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Contains(t, buf.String(), fmt.Sprintf("status=%d", tt.status))
		})
	}
}
