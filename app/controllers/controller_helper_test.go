package controllers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatTimePtr(t *testing.T) {
	assert.Nil(t, formatTimePtr(nil))

	now := time.Date(2025, 3, 1, 12, 34, 56, 0, time.Local)
	formatted := formatTimePtr(&now)
	assert.IsType(t, "", formatted)
	assert.Equal(t, now.UTC().Format(time.RFC3339), formatted)
}

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantOffset int
		wantLimit  int
		wantPage   int
	}{
		{name: "defaults", query: "", wantOffset: 0, wantLimit: 20, wantPage: 1},
		{name: "second page", query: "?page=2&page_size=10", wantOffset: 10, wantLimit: 10, wantPage: 2},
		{name: "capped page size", query: "?page_size=5000", wantOffset: 0, wantLimit: 100, wantPage: 1},
		{name: "invalid values fall back", query: "?page=-1&page_size=abc", wantOffset: 0, wantLimit: 20, wantPage: 1},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/list", func(c *fiber.Ctx) error {
				offset, limit, page := parsePagination(c)
				assert.Equal(t, tc.wantOffset, offset)
				assert.Equal(t, tc.wantLimit, limit)
				assert.Equal(t, tc.wantPage, page)
				return c.SendStatus(fiber.StatusNoContent)
			})

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/list"+tc.query, nil), -1)
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
		})
	}
}

func TestGetClientIP(t *testing.T) {
	app := fiber.New()
	var got string
	app.Get("/ip", func(c *fiber.Ctx) error {
		got = getClientIP(c)
		return c.SendStatus(fiber.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/ip", nil)
	req.Header.Set("CF-Connecting-IP", "203.0.113.7")
	req.Header.Set("X-Forwarded-For", "198.51.100.1, 10.0.0.1")
	_, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, "203.0.113.7", got)

	req = httptest.NewRequest(http.MethodGet, "/ip", nil)
	req.Header.Set("X-Forwarded-For", "198.51.100.1, 10.0.0.1")
	_, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, "198.51.100.1", got)
}
