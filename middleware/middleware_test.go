package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestAdminAuthMiddleware(t *testing.T) {
	app := fiber.New()
	app.Post("/admin/ping", AdminAuthMiddleware("s3cret"), func(c *fiber.Ctx) error {
		return c.SendString("pong")
	})

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{name: "missing", header: "", want: fiber.StatusUnauthorized},
		{name: "wrong", header: "Bearer nope", want: fiber.StatusUnauthorized},
		{name: "bearer", header: "Bearer s3cret", want: fiber.StatusOK},
		{name: "raw", header: "s3cret", want: fiber.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/admin/ping", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req, -1)
			if err != nil {
				t.Fatalf("request: %v", err)
			}
			if resp.StatusCode != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, resp.StatusCode)
			}
		})
	}
}

func TestUserContextMiddleware(t *testing.T) {
	app := fiber.New()
	app.Use(UserContextMiddleware())
	app.Get("/whoami", func(c *fiber.Ctx) error {
		return c.SendString(UserID(c, c.Query("as")))
	})

	tests := []struct {
		name   string
		header string
		query  string
		want   string
	}{
		{name: "header", header: " u2 ", want: "u2"},
		{name: "explicit wins", header: "u2", query: "u1", want: "u1"},
		{name: "anonymous", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := "/whoami"
			if tt.query != "" {
				target += "?as=" + tt.query
			}
			req := httptest.NewRequest(http.MethodGet, target, nil)
			if tt.header != "" {
				req.Header.Set("X-User-ID", tt.header)
			}
			resp, err := app.Test(req, -1)
			if err != nil {
				t.Fatalf("request: %v", err)
			}
			body, _ := io.ReadAll(resp.Body)
			if string(body) != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, body)
			}
		})
	}
}
