package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func guardedApp(secret string) *fiber.App {
	app := fiber.New()
	app.Get("/guarded", RequireSharedSecret(secret), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	return app
}

func TestRequireSharedSecret(t *testing.T) {
	cases := []struct {
		name    string
		secret  string
		headers map[string]string
		want    int
	}{
		{
			name:   "valid api key header",
			secret: "s3cret",
			headers: map[string]string{
				"X-API-Key": "s3cret",
			},
			want: fiber.StatusOK,
		},
		{
			name:   "valid bearer token",
			secret: "s3cret",
			headers: map[string]string{
				"Authorization": "Bearer s3cret",
			},
			want: fiber.StatusOK,
		},
		{
			name:   "wrong key",
			secret: "s3cret",
			headers: map[string]string{
				"X-API-Key": "wrong",
			},
			want: fiber.StatusUnauthorized,
		},
		{
			name:    "missing key",
			secret:  "s3cret",
			headers: nil,
			want:    fiber.StatusUnauthorized,
		},
		{
			name:   "empty configured secret rejects everyone",
			secret: "",
			headers: map[string]string{
				"X-API-Key": "",
			},
			want: fiber.StatusUnauthorized,
		},
		{
			name:   "api key header wins over malformed bearer",
			secret: "s3cret",
			headers: map[string]string{
				"Authorization": "Basic abc",
				"X-API-Key":     "s3cret",
			},
			want: fiber.StatusOK,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := guardedApp(tc.secret)
			req := httptest.NewRequest("GET", "/guarded", nil)
			for k, v := range tc.headers {
				req.Header.Set(k, v)
			}
			resp, err := app.Test(req)
			assert.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tc.want, resp.StatusCode)
		})
	}
}
