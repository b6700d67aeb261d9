package middleware

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, method jwt.SigningMethod, key interface{}, claims AccessClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return s
}

func claimsFor(sub, role string, exp time.Time) AccessClaims {
	return AccessClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
}

func bearerApp() *fiber.App {
	app := fiber.New()
	app.Use(Bearer(testSecret))
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"session": CurrentSession(c)})
	})
	return app
}

func resolve(t *testing.T, app *fiber.App, header string) map[string]interface{} {
	t.Helper()
	req := httptest.NewRequest("GET", "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	s, _ := body["session"].(map[string]interface{})
	return s
}

func TestBearer_ValidToken(t *testing.T) {
	id := uuid.New()
	tok := signToken(t, jwt.SigningMethodHS256, []byte(testSecret), claimsFor(id.String(), "AGENT", time.Now().Add(time.Hour)))

	s := resolve(t, bearerApp(), "Bearer "+tok)
	require.NotNil(t, s)
	assert.Equal(t, id.String(), s["userId"])
	assert.Equal(t, "AGENT", s["role"])
}

func TestBearer_RejectedTokensStayAnonymous(t *testing.T) {
	id := uuid.NewString()
	cases := map[string]string{
		"expired":     signToken(t, jwt.SigningMethodHS256, []byte(testSecret), claimsFor(id, "AGENT", time.Now().Add(-time.Minute))),
		"wrong key":   signToken(t, jwt.SigningMethodHS256, []byte("other"), claimsFor(id, "AGENT", time.Now().Add(time.Hour))),
		"wrong alg":   signToken(t, jwt.SigningMethodHS512, []byte(testSecret), claimsFor(id, "AGENT", time.Now().Add(time.Hour))),
		"bad subject": signToken(t, jwt.SigningMethodHS256, []byte(testSecret), claimsFor("alice", "AGENT", time.Now().Add(time.Hour))),
		"garbage":     "not.a.jwt",
	}
	app := bearerApp()
	for name, tok := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Nil(t, resolve(t, app, "Bearer "+tok))
		})
	}
	assert.Nil(t, resolve(t, app, ""))
	assert.Nil(t, resolve(t, app, "Basic abc"))
}

func TestBearer_CookieSessionWins(t *testing.T) {
	cookieUser := uuid.New()
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(userLocal, map[string]interface{}{"user_id": cookieUser.String(), "role": "RENTER"})
		return c.Next()
	})
	app.Use(Bearer(testSecret))
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"session": CurrentSession(c)})
	})
	tok := signToken(t, jwt.SigningMethodHS256, []byte(testSecret), claimsFor(uuid.NewString(), "AGENT", time.Now().Add(time.Hour)))

	s := resolve(t, app, "Bearer "+tok)
	require.NotNil(t, s)
	assert.Equal(t, cookieUser.String(), s["userId"])
}

func TestBearer_ProfileFieldsReachSessionUser(t *testing.T) {
	id := uuid.New()
	claims := claimsFor(id.String(), "LANDLORD", time.Now().Add(time.Hour))
	claims.Name = "Alice"
	claims.Email = "alice@landlord.com"
	tok := signToken(t, jwt.SigningMethodHS256, []byte(testSecret), claims)

	app := fiber.New()
	app.Use(Bearer(testSecret))
	app.Get("/", func(c *fiber.Ctx) error {
		su, ok := GetSessionUser(c)
		if !ok {
			return c.SendStatus(fiber.StatusUnauthorized)
		}
		return c.JSON(su)
	})

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var su SessionUser
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&su))
	assert.Equal(t, SessionUser{UserID: id.String(), Name: "Alice", Email: "alice@landlord.com", Role: "LANDLORD"}, su)

	resp, err = app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
