package ratelimit

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllowWithinBudget(t *testing.T) {
	l := New(Config{MaxRequestsPerMinute: 5})

	for i := 0; i < 5; i++ {
		assert.True(t, l.allow("10.0.0.1"), "request %d should pass", i+1)
	}
	assert.False(t, l.allow("10.0.0.1"))

	// Other clients have their own bucket.
	assert.True(t, l.allow("10.0.0.2"))
}

func TestMiddlewareRejectsWhenExhausted(t *testing.T) {
	app := fiber.New()
	app.Use(New(Config{MaxRequestsPerMinute: 2}).Middleware())
	app.Get("/", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	for i := 0; i < 2; i++ {
		resp, err := app.Test(httptest.NewRequest("GET", "/", nil), -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	}

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
}
