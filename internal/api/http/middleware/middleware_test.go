package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpctx "github.com/dtroode/fileshare-server/internal/api/http/context"
	"github.com/dtroode/fileshare-server/internal/api/http/response"
	"github.com/dtroode/fileshare-server/internal/logger"
	"github.com/dtroode/fileshare-server/internal/model"
	"github.com/dtroode/fileshare-server/internal/testutil"
)

func TestRequestID(t *testing.T) {
	app := fiber.New()
	app.Use(RequestID())
	app.Get("/test", func(c *fiber.Ctx) error {
		return c.SendString(RequestIDFromCtx(c))
	})

	t.Run("generates id", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/test", nil))
		require.NoError(t, err)

		rid := resp.Header.Get(RequestIDHeader)
		assert.NotEmpty(t, rid)
		body, _ := io.ReadAll(resp.Body)
		assert.Equal(t, rid, string(body))
	})

	t.Run("preserves client id", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set(RequestIDHeader, "abc-123")
		resp, err := app.Test(req)
		require.NoError(t, err)

		assert.Equal(t, "abc-123", resp.Header.Get(RequestIDHeader))
		body, _ := io.ReadAll(resp.Body)
		assert.Equal(t, "abc-123", string(body))
	})
}

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	app := fiber.New()
	app.Use(RequestID())
	app.Use(NewLogging(logger.NewWithWriter(&buf, 0)).Handler())
	app.Get("/test", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusAccepted)
	})

	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set(RequestIDHeader, "rid-7")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusAccepted, resp.StatusCode)

	out := buf.String()
	assert.Contains(t, out, "HTTP request completed")
	assert.Contains(t, out, "request_id=rid-7")
	assert.Contains(t, out, "path=/test")
	assert.Contains(t, out, "status=202")
}

func TestPrometheus(t *testing.T) {
	reg := prometheus.NewRegistry()
	prom, err := NewPrometheus(reg)
	require.NoError(t, err)

	app := fiber.New()
	app.Use(prom.Handler())
	app.Get("/download/:id", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })
	app.Get("/metrics", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	for _, id := range []string{"a", "b", "c"} {
		_, err := app.Test(httptest.NewRequest("GET", "/download/"+id, nil))
		require.NoError(t, err)
	}
	_, err = app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	_, err = app.Test(httptest.NewRequest("GET", "/nope", nil))
	require.NoError(t, err)

	assert.Equal(t, 3.0, promtestutil.ToFloat64(prom.requestCount.WithLabelValues("GET", "/download/:id", "200")))
	assert.Equal(t, 1.0, promtestutil.ToFloat64(prom.requestCount.WithLabelValues("GET", "unmatched", "404")))
	assert.Equal(t, 2, promtestutil.CollectAndCount(prom.requestCount))

	_, err = NewPrometheus(reg)
	assert.Error(t, err)
}

type verifierFunc func(ctx context.Context, token string) (uuid.UUID, error)

func (f verifierFunc) Verify(ctx context.Context, token string) (uuid.UUID, error) {
	return f(ctx, token)
}

func TestAuthenticate(t *testing.T) {
	userID := uuid.New()
	verifier := verifierFunc(func(_ context.Context, token string) (uuid.UUID, error) {
		switch token {
		case "":
			return uuid.Nil, model.ErrMissingToken
		case "good":
			return userID, nil
		default:
			return uuid.Nil, model.ErrInvalidToken
		}
	})

	cm := httpctx.NewManager()
	app := fiber.New()
	app.Use(RequestID())
	app.Use(NewAuthenticate(verifier, cm, testutil.MakeNoopLogger()).Handler())
	app.Get("/me", func(c *fiber.Ctx) error {
		id, ok := cm.GetUserIDFromContext(c.UserContext())
		if !ok {
			return c.SendStatus(fiber.StatusTeapot)
		}
		return c.SendString(id.String())
	})

	tests := []struct {
		name       string
		header     string
		value      string
		wantStatus int
		wantCode   string
	}{
		{name: "bearer", header: "Authorization", value: "Bearer good", wantStatus: fiber.StatusOK},
		{name: "lowercase scheme", header: "Authorization", value: "bearer good", wantStatus: fiber.StatusOK},
		{name: "legacy header", header: "auth", value: "good", wantStatus: fiber.StatusOK},
		{name: "missing", wantStatus: fiber.StatusUnauthorized, wantCode: response.CodeMissingToken},
		{name: "wrong scheme", header: "Authorization", value: "Basic Zm9v", wantStatus: fiber.StatusUnauthorized, wantCode: response.CodeMissingToken},
		{name: "invalid", header: "Authorization", value: "Bearer forged", wantStatus: fiber.StatusUnauthorized, wantCode: response.CodeInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/me", nil)
			if tt.header != "" {
				req.Header.Set(tt.header, tt.value)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			require.Equal(t, tt.wantStatus, resp.StatusCode)

			body, _ := io.ReadAll(resp.Body)
			if tt.wantStatus == fiber.StatusOK {
				assert.Equal(t, userID.String(), string(body))
				return
			}
			var payload response.ErrorPayload
			require.NoError(t, json.Unmarshal(body, &payload))
			assert.Equal(t, tt.wantCode, payload.Error.Code)
			assert.False(t, strings.Contains(string(body), "forged"))
		})
	}
}
