package middleware_test

import (
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"fornecedores/internal/middleware"

	"github.com/dgrijalva/jwt-go"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

// stubValidator accepts the tokens it knows about.
type stubValidator map[string]jwt.MapClaims

func (s stubValidator) ValidateToken(token string) (jwt.MapClaims, error) {
	claims, ok := s[token]
	if !ok {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

func newTestApp() *fiber.App {
	validator := stubValidator{
		"plain":  {"sub": "user-1"},
		"delete": {"sub": "user-2", "ExcluirFornecedor": "Excluir"},
	}
	policies := middleware.NewPolicies(
		middleware.Policy{Name: "Authenticated"},
		middleware.Policy{Name: "ExcluirFornecedor", ClaimType: "ExcluirFornecedor"},
	)

	app := fiber.New()
	ok := func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) }
	app.Post("/write", middleware.AuthRequired(validator), policies.Require("Authenticated"), ok)
	app.Delete("/delete", middleware.AuthRequired(validator), policies.Require("ExcluirFornecedor"), ok)
	app.Get("/unauthenticated", policies.Require("Authenticated"), ok)
	return app
}

func TestAuthRequiredAndPolicies(t *testing.T) {
	app := newTestApp()

	tests := []struct {
		name   string
		method string
		path   string
		auth   string
		want   int
	}{
		{"missing header", http.MethodPost, "/write", "", http.StatusUnauthorized},
		{"wrong scheme", http.MethodPost, "/write", "Basic plain", http.StatusUnauthorized},
		{"unknown token", http.MethodPost, "/write", "Bearer nope", http.StatusUnauthorized},
		{"authenticated policy", http.MethodPost, "/write", "Bearer plain", http.StatusNoContent},
		{"lowercase scheme", http.MethodPost, "/write", "bearer plain", http.StatusNoContent},
		{"missing claim", http.MethodDelete, "/delete", "Bearer plain", http.StatusForbidden},
		{"claim present", http.MethodDelete, "/delete", "Bearer delete", http.StatusNoContent},
		{"claim route without token", http.MethodDelete, "/delete", "", http.StatusUnauthorized},
		{"policy without authentication", http.MethodGet, "/unauthenticated", "", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.auth != "" {
				req.Header.Set("Authorization", tt.auth)
			}
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestRequireUnknownPolicyPanics(t *testing.T) {
	policies := middleware.NewPolicies(middleware.Policy{Name: "Authenticated"})
	assert.Panics(t, func() { policies.Require("Missing") })
}
