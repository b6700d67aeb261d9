package middleware

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"propertyhub-backend/internal/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func sessionApp(rdb *redis.Client) *fiber.App {
	app := fiber.New()
	app.Use(SessionWithClient(rdb))
	app.Post("/login", func(c *fiber.Ctx) error {
		sid := RegenerateSessionID(c)
		SetSessionUser(c, SessionUser{UserID: c.Query("id"), Name: "Alice", Email: "alice@example.com", Role: "LANDLORD"})
		cookie := SessionCookieConfig(SessionConfig{})
		cookie.Value = sid
		c.Cookie(&cookie)
		return c.SendString(sid)
	})
	app.Post("/logout", func(c *fiber.Ctx) error {
		DestroySession(c)
		return c.SendStatus(fiber.StatusNoContent)
	})
	app.Get("/whoami", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"session": CurrentSession(c), "sid": GetSessionID(c)})
	})
	return app
}

func whoami(t *testing.T, app *fiber.App, cookie string) map[string]interface{} {
	t.Helper()
	req := httptest.NewRequest("GET", "/whoami", nil)
	if cookie != "" {
		req.Header.Set("Cookie", SessionCookieName+"="+cookie)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestSession_LoginPersistsAndResolves(t *testing.T) {
	mr, rdb := setupRedis(t)
	app := sessionApp(rdb)
	userID := uuid.New()

	resp, err := app.Test(httptest.NewRequest("POST", "/login?id="+userID.String(), nil))
	require.NoError(t, err)
	b, _ := io.ReadAll(resp.Body)
	sid := string(b)
	require.NotEmpty(t, sid)
	assert.Contains(t, resp.Header.Get("Set-Cookie"), SessionCookieName+"="+sid)
	assert.Contains(t, resp.Header.Get("Set-Cookie"), "HttpOnly")

	stored, err := mr.Get(SessionRedisPrefix + sid)
	require.NoError(t, err)
	assert.Contains(t, stored, `"role":"LANDLORD"`)
	assert.True(t, mr.TTL(SessionRedisPrefix+sid) > 0)

	body := whoami(t, app, sid)
	session := body["session"].(map[string]interface{})
	assert.Equal(t, userID.String(), session["userId"])
	assert.Equal(t, "LANDLORD", session["role"])

	body = whoami(t, app, "s:"+sid+".signature")
	assert.NotNil(t, body["session"])
}

func TestSession_UnknownCookieIsAnonymous(t *testing.T) {
	mr, rdb := setupRedis(t)
	app := sessionApp(rdb)

	body := whoami(t, app, "does-not-exist")
	assert.Nil(t, body["session"])
	assert.Equal(t, "", body["sid"])
	assert.False(t, mr.Exists(SessionRedisPrefix+"does-not-exist"))
}

func TestSession_LogoutDoesNotSave(t *testing.T) {
	mr, rdb := setupRedis(t)
	app := sessionApp(rdb)
	require.NoError(t, rdb.Set(context.Background(), SessionRedisPrefix+"abc", `{"user":{"user_id":"`+uuid.NewString()+`","role":"RENTER"}}`, 0).Err())

	req := httptest.NewRequest("POST", "/logout", nil)
	req.Header.Set("Cookie", SessionCookieName+"=abc")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	assert.Equal(t, time.Duration(0), mr.TTL(SessionRedisPrefix+"abc"))
}

func TestSessionCookieConfig(t *testing.T) {
	c := SessionCookieConfig(SessionConfig{})
	assert.Equal(t, fiber.CookieSameSiteLaxMode, c.SameSite)
	assert.False(t, c.Secure)

	c = SessionCookieConfig(SessionConfig{AllowCrossSiteDev: true})
	assert.Equal(t, fiber.CookieSameSiteNoneMode, c.SameSite)
	assert.True(t, c.Secure)
}

func TestCurrentSession(t *testing.T) {
	app := fiber.New()
	id := uuid.New()
	var got []*domain.Session
	app.Get("/", func(c *fiber.Ctx) error {
		for _, u := range []interface{}{
			nil,
			"not-a-map",
			map[string]interface{}{"user_id": "nope", "role": "AGENT"},
			map[string]interface{}{"user_id": id.String(), "role": "AGENT"},
		} {
			c.Locals(userLocal, u)
			got = append(got, CurrentSession(c))
		}
		return nil
	})
	_, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	require.Len(t, got, 4)
	for _, s := range got[:3] {
		assert.Nil(t, s)
	}
	require.NotNil(t, got[3])
	assert.Equal(t, id, got[3].UserID)
	assert.Equal(t, "AGENT", got[3].Role)
}
