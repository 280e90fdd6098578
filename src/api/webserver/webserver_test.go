package webserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/mrpepsi1069/LockerRoom/src/config"
	"github.com/mrpepsi1069/LockerRoom/src/data"
	"github.com/mrpepsi1069/LockerRoom/src/data/memory"
	"github.com/mrpepsi1069/LockerRoom/src/data/noop"
	"github.com/mrpepsi1069/LockerRoom/src/premium"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	secret  = "test-secret"
	guildID = "200000000000000000"
)

type fakeBot struct{ started time.Time }

func (fakeBot) Username() string { return "LockerRoom" }
func (fakeBot) GuildCount() int { return 3 }
func (b fakeBot) Started() time.Time { return b.started }

func init() { gin.SetMode(gin.TestMode) }

func newServer(t *testing.T, store data.Store, jwtSecret string) *gin.Engine {
	t.Helper()
	cfg := config.StatusConfig{Port: "0", JWTSecret: jwtSecret}
	return New(cfg, store, premium.NewService(store), fakeBot{started: time.Now().Add(-90 * time.Minute)})
}

func token(t *testing.T, method jwt.SigningMethod, key any) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(method, jwt.RegisteredClaims{
		Subject:   "ops",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(key)
	require.NoError(t, err)
	return tok
}

func do(r http.Handler, method, path, bearer, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestStatus(t *testing.T) {
	r := newServer(t, memory.New(), "")
	for _, path := range []string{"/", "/status"} {
		w := do(r, http.MethodGet, path, "", "")
		require.Equal(t, http.StatusOK, w.Code, path)

		var body map[string]any
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "online", body["status"])
		assert.Equal(t, "LockerRoom", body["bot"])
		assert.Equal(t, "0d 1h 30m", body["uptime"])
		assert.InDelta(t, 5400, body["uptime_seconds"], 5)
		assert.EqualValues(t, 3, body["guilds"])
	}
}

func TestHealth(t *testing.T) {
	w := do(newServer(t, memory.New(), ""), http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())

	w = do(newServer(t, noop.Store{}, ""), http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestAdminDisabledWithoutSecret(t *testing.T) {
	w := do(newServer(t, memory.New(), ""), http.MethodGet, "/v1/admin/stats", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminRequiresValidToken(t *testing.T) {
	r := newServer(t, memory.New(), secret)

	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/v1/admin/stats", "", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/v1/admin/stats", token(t, jwt.SigningMethodHS256, []byte("wrong")), "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/v1/admin/stats", token(t, jwt.SigningMethodHS384, []byte(secret)), "").Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/v1/admin/stats", token(t, jwt.SigningMethodHS256, []byte(secret)), "").Code)
}

func TestAdminPremium(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	require.NoError(t, store.UpsertGuild(ctx, guildID, "Wolves"))
	r := newServer(t, store, secret)
	tok := token(t, jwt.SigningMethodHS256, []byte(secret))

	w := do(r, http.MethodPost, "/v1/admin/premium", tok, `{"guild_id":"`+guildID+`","days":30}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	g, err := store.GetGuild(ctx, guildID)
	require.NoError(t, err)
	assert.True(t, g.Premium)
	require.NotNil(t, g.PremiumExpiresAt)

	w = do(r, http.MethodGet, "/v1/admin/stats", tok, "")
	var st data.Stats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &st))
	assert.EqualValues(t, 1, st.PremiumGuilds)

	w = do(r, http.MethodDelete, "/v1/admin/premium/"+guildID, tok, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"changed":true`)

	w = do(r, http.MethodDelete, "/v1/admin/premium/"+guildID, tok, "")
	assert.Contains(t, w.Body.String(), `"changed":false`)
}

func TestAdminPremiumValidation(t *testing.T) {
	r := newServer(t, memory.New(), secret)
	tok := token(t, jwt.SigningMethodHS256, []byte(secret))

	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/v1/admin/premium", tok, `{"days":3}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/v1/admin/premium", tok, `{"guild_id":"abcdefg"}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodPost, "/v1/admin/premium", tok, `{"guild_id":"`+guildID+`","days":-1}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodDelete, "/v1/admin/premium/nope", tok, "").Code)
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)
	now := time.Now()
	rl.now = func() time.Time { return now }

	ok, _ := rl.Allow("a")
	assert.True(t, ok)
	ok, _ = rl.Allow("a")
	assert.True(t, ok)
	ok, wait := rl.Allow("a")
	assert.False(t, ok)
	assert.Equal(t, time.Minute, wait)

	ok, _ = rl.Allow("b")
	assert.True(t, ok, "keys are limited independently")

	now = now.Add(time.Minute)
	ok, _ = rl.Allow("a")
	assert.True(t, ok)
}

func TestRateLimitMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RateLimitMiddleware(NewRateLimiter(1, time.Minute)))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	assert.Equal(t, http.StatusNoContent, do(r, http.MethodGet, "/", "", "").Code)
	w := do(r, http.MethodGet, "/", "", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

func TestModuleLifecycle(t *testing.T) {
	m := NewModule(config.StatusConfig{Port: "0"}, newServer(t, memory.New(), ""))
	assert.Equal(t, "webserver", m.Name())
	require.NoError(t, m.Start(context.Background()))
	m.Stop(context.Background())
}
