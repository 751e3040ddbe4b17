package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/jhoicas/invoice-builder-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/invoice-builder-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testEmail     = "tester@example.com"
	testIssuer    = "invoice-builder-test"
	testExpMin    = 60
)

// buildTestApp aplicación mínima con AuthMiddleware y un handler que devuelve los locals.
func buildTestApp() *fiber.App {
	app := fiber.New()
	app.Get("/protected", apphttp.AuthMiddleware(testJWTSecret), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id": apphttp.GetUserID(c),
			"email":   apphttp.GetEmail(c),
		})
	})
	return app
}

func bearer(t *testing.T, secret string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(secret, testUserID, testEmail, testIssuer, testExpMin)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

func doProtected(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests AuthMiddleware
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_ExtraeClaims(t *testing.T) {
	resp := doProtected(t, buildTestApp(), bearer(t, testJWTSecret))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testUserID, body["user_id"], "el user_id del token debe quedar en locals")
	assert.Equal(t, testEmail, body["email"])
}

func TestAuthMiddleware_SinHeader_Retorna401(t *testing.T) {
	resp := doProtected(t, buildTestApp(), "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "MISSING_TOKEN")
}

func TestAuthMiddleware_FormatoIncorrecto_Retorna401(t *testing.T) {
	resp := doProtected(t, buildTestApp(), "Token abc")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "INVALID_TOKEN")
}

func TestAuthMiddleware_TokenMalformado_Retorna401(t *testing.T) {
	resp := doProtected(t, buildTestApp(), "Bearer token.invalido.aqui")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_FirmaDeOtroSecreto_Retorna401(t *testing.T) {
	resp := doProtected(t, buildTestApp(), bearer(t, "otro-secreto"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode,
		"un token firmado con otro secreto no debe aceptarse")
}
