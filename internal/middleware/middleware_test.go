package middleware

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/congo-pay/payment_instructions/internal/logging"
)

func TestRequestIDGeneratesAndPropagates(t *testing.T) {
	app := fiber.New()
	app.Use(RequestID())
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(RequestIDFrom(c))
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
	require.NoError(t, err)
	generated := resp.Header.Get(RequestIDHeader)
	assert.Len(t, generated, 36)

	req := httptest.NewRequest(fiber.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "caller-supplied")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "caller-supplied", resp.Header.Get(RequestIDHeader))
}

func TestAuditLogsRequest(t *testing.T) {
	var buf bytes.Buffer
	app := fiber.New()
	app.Use(RequestID())
	app.Use(Audit(logging.NewWithWriter(&buf, "info", "")))
	app.Get("/ok", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusAccepted) })
	app.Get("/err", func(*fiber.Ctx) error { return fiber.NewError(fiber.StatusTeapot, "nope") })

	req := httptest.NewRequest(fiber.MethodGet, "/ok", nil)
	req.Header.Set(RequestIDHeader, "rid-1")
	_, err := app.Test(req)
	require.NoError(t, err)

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "INFO", line["level"])
	assert.Equal(t, "/ok", line["path"])
	assert.Equal(t, float64(fiber.StatusAccepted), line["status"])
	assert.Equal(t, "rid-1", line["request_id"])

	buf.Reset()
	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/err", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTeapot, resp.StatusCode)
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "ERROR", line["level"])
	assert.Contains(t, line["error"], "nope")
}

func rateLimitedApp(t *testing.T, limit int) (*fiber.App, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { cache.Close() })

	app := fiber.New()
	app.Use(RateLimit(cache, limit, logging.Discard()))
	app.Post("/", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })
	return app, mr
}

func TestRateLimitRejectsExcess(t *testing.T) {
	app, _ := rateLimitedApp(t, 2)

	var codes []int
	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodPost, "/", nil))
		require.NoError(t, err)
		codes = append(codes, resp.StatusCode)
		if i == 0 {
			assert.Equal(t, "2", resp.Header.Get("X-RateLimit-Limit"))
			assert.Equal(t, "1", resp.Header.Get("X-RateLimit-Remaining"))
		}
		if resp.StatusCode == fiber.StatusTooManyRequests {
			assert.NotEmpty(t, resp.Header.Get(fiber.HeaderRetryAfter))
		}
	}
	// a minute boundary between requests would reset the count
	assert.Contains(t, [][]int{{200, 200, 429}, {200, 200, 200}}, codes)
}

func TestRateLimitDisabled(t *testing.T) {
	app, _ := rateLimitedApp(t, 0)
	for i := 0; i < 5; i++ {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodPost, "/", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	}

	nilCache := fiber.New()
	nilCache.Use(RateLimit(nil, 1, nil))
	nilCache.Post("/", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })
	for i := 0; i < 3; i++ {
		resp, err := nilCache.Test(httptest.NewRequest(fiber.MethodPost, "/", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	}
}

func TestRateLimitFailsOpen(t *testing.T) {
	app, mr := rateLimitedApp(t, 1)
	mr.Close()

	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodPost, "/", nil), -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	}
}
