package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/highimexy/Bugly/internal/tracker/domain"
)

const testSecret = "test-secret"

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken(testSecret, "admin@bugly.dev", time.Hour)
	require.NoError(t, err)

	email, err := ParseToken(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, "admin@bugly.dev", email)
}

func TestParseToken_WrongSecret(t *testing.T) {
	token, err := GenerateToken(testSecret, "admin@bugly.dev", time.Hour)
	require.NoError(t, err)

	_, err = ParseToken("other-secret", token)
	assert.Error(t, err)
}

func TestParseToken_Expired(t *testing.T) {
	token, err := GenerateToken(testSecret, "admin@bugly.dev", -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(testSecret, token)
	assert.Error(t, err)
}

func newGuardedRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/guarded", Middleware(testSecret), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"email": UserEmail(c)})
	})
	return r
}

func TestMiddleware_ValidToken(t *testing.T) {
	r := newGuardedRouter(t)
	token, err := GenerateToken(testSecret, "admin@bugly.dev", time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "admin@bugly.dev", body["email"])
}

func TestMiddleware_MissingToken(t *testing.T) {
	r := newGuardedRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMiddleware_GarbageToken(t *testing.T) {
	r := newGuardedRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

type stubUsers struct {
	user *User
	err  error
}

func (s *stubUsers) FindByEmail(ctx context.Context, email string) (*User, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.user == nil || s.user.Email != email {
		return nil, domain.ErrNotFound
	}
	return s.user, nil
}

func loginRouter(t *testing.T, users UserFinder) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHandler(users, testSecret, time.Hour)
	r.POST("/login", h.Login)
	return r
}

func postLogin(t *testing.T, r *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestLogin_Success(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	require.NoError(t, err)

	r := loginRouter(t, &stubUsers{user: &User{Email: "admin@bugly.dev", PasswordHash: string(hash)}})
	w := postLogin(t, r, `{"email":"admin@bugly.dev","password":"secret"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	email, err := ParseToken(testSecret, body["token"])
	require.NoError(t, err)
	assert.Equal(t, "admin@bugly.dev", email)
}

func TestLogin_WrongPassword(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	require.NoError(t, err)

	r := loginRouter(t, &stubUsers{user: &User{Email: "admin@bugly.dev", PasswordHash: string(hash)}})
	w := postLogin(t, r, `{"email":"admin@bugly.dev","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogin_UnknownUser(t *testing.T) {
	r := loginRouter(t, &stubUsers{})
	w := postLogin(t, r, `{"email":"nobody@bugly.dev","password":"secret"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogin_InvalidBody(t *testing.T) {
	r := loginRouter(t, &stubUsers{})
	w := postLogin(t, r, `{"email":"not-an-email"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
