package middleware

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"ai-insights/pkg/auth"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type stubValidator struct {
	username string
}

func (s stubValidator) ValidateToken(token string) (*auth.Claims, error) {
	if token != "good-token" {
		return nil, errors.New("bad token")
	}
	return &auth.Claims{Username: s.username}, nil
}

func newTestApp() *fiber.App {
	app := fiber.New()
	app.Get("/me", AuthMiddleware(stubValidator{username: "alice"}, zap.NewNop()), func(c *fiber.Ctx) error {
		return c.SendString(c.Locals(UsernameKey).(string))
	})
	return app
}

func TestAuthMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantBody   string
	}{
		{"missing header", "", fiber.StatusUnauthorized, ""},
		{"invalid token", "Bearer nope", fiber.StatusUnauthorized, ""},
		{"bearer token", "Bearer good-token", fiber.StatusOK, "alice"},
		{"raw token", "good-token", fiber.StatusOK, "alice"},
	}

	app := newTestApp()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("app.Test() error = %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tt.wantStatus {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			if tt.wantBody != "" {
				body, _ := io.ReadAll(resp.Body)
				if string(body) != tt.wantBody {
					t.Errorf("body = %q, want %q", body, tt.wantBody)
				}
			}
		})
	}
}
