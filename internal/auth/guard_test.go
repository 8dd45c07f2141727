package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/fundloop/fundloop/internal/apierr"
	"github.com/fundloop/fundloop/internal/config"
	"github.com/fundloop/fundloop/internal/db"
	"github.com/fundloop/fundloop/internal/models"
	"github.com/fundloop/fundloop/internal/permission"
	"github.com/fundloop/fundloop/internal/session"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testCookie = "fundloop_session"

type fixture struct {
	db       *gorm.DB
	tokens   *TokenIssuer
	sessions *session.MemoryStore
	guard    *Guard
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	gdb, err := db.New(config.DatabaseConfig{
		Driver:   "sqlite",
		DSN:      filepath.Join(t.TempDir(), "test.db"),
		LogLevel: "silent",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(gdb) })
	require.NoError(t, db.Migrate(gdb))

	f := &fixture{
		db:       gdb,
		tokens:   NewTokenIssuer("test-secret", time.Hour),
		sessions: session.NewMemoryStore(),
	}
	f.guard = NewGuard(gdb, f.tokens, f.sessions, testCookie)
	return f
}

func (f *fixture) user(t *testing.T, name, role string) models.User {
	t.Helper()
	hash, err := HashPassword("password123")
	require.NoError(t, err)
	u := models.User{Username: name, Email: name + "@example.com", PasswordHash: hash, RoleName: role}
	require.NoError(t, f.db.Create(&u).Error)
	return u
}

func (f *fixture) token(t *testing.T, u models.User) string {
	t.Helper()
	tok, err := f.tokens.Issue(u.ID)
	require.NoError(t, err)
	return tok
}

// renderErrors writes the normalized error the way the API layer does.
func renderErrors(c *gin.Context) {
	c.Next()
	if len(c.Errors) == 0 {
		return
	}
	e := apierr.Normalize(c.Errors.Last().Err)
	c.JSON(e.Status(), gin.H{"kind": e.Kind, "message": e.Message})
}

func serve(g *Guard, required permission.Mask, req *http.Request) *httptest.ResponseRecorder {
	r := gin.New()
	r.Use(renderErrors)
	r.GET("/x", g.Require(required), func(c *gin.Context) {
		p, err := CurrentPrincipal(c)
		if err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": p.User.Username, "mask": p.Mask})
	})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func bearer(token string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func body(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m))
	return m
}

func TestGuard_UnauthenticatedRegardlessOfMask(t *testing.T) {
	f := newFixture(t)

	for _, required := range []permission.Mask{permission.None, permission.CreatePosts, permission.All} {
		w := serve(f.guard, required, httptest.NewRequest(http.MethodGet, "/x", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code, "mask %v", required)

		w = serve(f.guard, required, bearer("not-a-jwt"))
		assert.Equal(t, http.StatusUnauthorized, w.Code, "mask %v", required)
	}
}

func TestGuard_MalformedAuthorizationHeader(t *testing.T) {
	f := newFixture(t)
	for _, header := range []string{"Token abc", "Bearer", "Bearer   ", "abc"} {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set("Authorization", header)
		w := serve(f.guard, permission.None, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code, header)
	}
}

func TestGuard_ExpiredAndForeignTokens(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "alice", permission.RoleAdmin)

	old := NewTokenIssuer("test-secret", time.Minute)
	old.now = func() time.Time { return time.Now().Add(-time.Hour) }
	expired, err := old.Issue(u.ID)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, serve(f.guard, permission.None, bearer(expired)).Code)

	foreign, err := NewTokenIssuer("other-secret", time.Hour).Issue(u.ID)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, serve(f.guard, permission.None, bearer(foreign)).Code)
}

func TestGuard_DeletedUserIsUnauthenticated(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "ghost", permission.RoleAdmin)
	tok := f.token(t, u)
	require.NoError(t, f.db.Delete(&u).Error)

	w := serve(f.guard, permission.ManageRoles, bearer(tok))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGuard_VolunteerScenario(t *testing.T) {
	f := newFixture(t)
	vol := f.user(t, "vol", permission.RoleVolunteer)
	tok := f.token(t, vol)

	w := serve(f.guard, permission.CreatePosts, bearer(tok))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(15), body(t, w)["mask"])

	w = serve(f.guard, permission.BanUsers, bearer(tok))
	assert.Equal(t, http.StatusForbidden, w.Code)
	b := body(t, w)
	assert.Equal(t, string(apierr.KindForbidden), b["kind"])
	assert.NotContains(t, b["message"], "ban")
}

func TestGuard_RequiresAllBits(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "user", permission.RoleUser)
	tok := f.token(t, u)

	assert.Equal(t, http.StatusOK, serve(f.guard, permission.CreateComments|permission.CreateChats, bearer(tok)).Code)
	assert.Equal(t, http.StatusForbidden, serve(f.guard, permission.CreateComments|permission.CreatePosts, bearer(tok)).Code)
}

func TestGuard_ZeroMaskOnlyAuthenticates(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "plain", permission.RoleUser)
	require.NoError(t, f.db.Model(&models.Role{}).Where("name = ?", permission.RoleUser).Update("permissions", 0).Error)

	w := serve(f.guard, permission.None, bearer(f.token(t, u)))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "plain", body(t, w)["user"])
}

func TestGuard_BannedUserHoldsNoCapabilities(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "banned", permission.RoleAdmin)
	require.NoError(t, f.db.Model(&u).Update("banned", true).Error)
	tok := f.token(t, u)

	assert.Equal(t, http.StatusForbidden, serve(f.guard, permission.CreateComments, bearer(tok)).Code)
	assert.Equal(t, http.StatusOK, serve(f.guard, permission.None, bearer(tok)).Code)
}

func TestGuard_RoleChangesApplyToExistingTokens(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "promoted", permission.RoleUser)
	tok := f.token(t, u)

	assert.Equal(t, http.StatusForbidden, serve(f.guard, permission.CreatePosts, bearer(tok)).Code)
	require.NoError(t, f.db.Model(&u).Update("role_name", permission.RoleVolunteer).Error)
	assert.Equal(t, http.StatusOK, serve(f.guard, permission.CreatePosts, bearer(tok)).Code)
}

func TestGuard_SessionCookie(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "cookie", permission.RoleVolunteer)
	sid, err := f.sessions.Create(context.Background(), u.ID, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.AddCookie(&http.Cookie{Name: testCookie, Value: sid})
	assert.Equal(t, http.StatusOK, serve(f.guard, permission.CreatePosts, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.AddCookie(&http.Cookie{Name: testCookie, Value: "stale"})
	assert.Equal(t, http.StatusUnauthorized, serve(f.guard, permission.None, req).Code)
}

type brokenStore struct {
	session.Store
	panics bool
}

func (s brokenStore) Get(ctx context.Context, id string) (uuid.UUID, error) {
	if s.panics {
		panic("store exploded")
	}
	return uuid.Nil, errors.New("connection refused")
}

func TestGuard_FailsClosed(t *testing.T) {
	f := newFixture(t)

	for _, panics := range []bool{false, true} {
		g := NewGuard(f.db, f.tokens, brokenStore{panics: panics}, testCookie)
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.AddCookie(&http.Cookie{Name: testCookie, Value: "sid"})

		w := serve(g, permission.None, req)
		assert.Equal(t, http.StatusForbidden, w.Code, "panics=%v", panics)
		assert.Equal(t, "you are not allowed to perform this action", body(t, w)["message"])
	}
}

func TestGuard_DatabaseFailureFailsClosed(t *testing.T) {
	f := newFixture(t)
	u := f.user(t, "dbfail", permission.RoleAdmin)
	tok := f.token(t, u)
	require.NoError(t, db.Close(f.db))

	w := serve(f.guard, permission.None, bearer(tok))
	assert.Equal(t, http.StatusForbidden, w.Code)
}
