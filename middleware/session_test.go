package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"grocery/config"
	"grocery/models"
	"grocery/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUsers map[string]*models.User

func (f fakeUsers) FindUser(_ context.Context, username string) (*models.User, error) {
	if u, ok := f[username]; ok {
		return u, nil
	}
	return nil, service.ErrNotFound
}

// brokenUsers 模拟数据库不可用
type brokenUsers struct{}

func (brokenUsers) FindUser(context.Context, string) (*models.User, error) {
	return nil, errors.New("connection refused")
}

func newTestSessionManager(secret string) *SessionManager {
	return NewSessionManager(&config.Config{
		Server:  config.ServerConfig{Mode: "debug"},
		Session: config.SessionConfig{Secret: secret, ExpireTime: time.Hour, CookieName: "session"},
	})
}

func TestGenerateAndParseToken(t *testing.T) {
	m := newTestSessionManager("test-session-secret")

	token, err := m.GenerateToken("alice")
	require.NoError(t, err)
	assert.Greater(t, len(token), 20)

	claims, err := m.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)

	// 空字符串
	_, err = m.ParseToken("")
	assert.Error(t, err)

	// 无效格式
	_, err = m.ParseToken("not.a.valid.jwt")
	assert.Error(t, err)

	// 其他密钥签发的 token
	_, err = newTestSessionManager("other-secret").ParseToken(token)
	assert.Error(t, err)
}

func TestParseToken_Expired(t *testing.T) {
	m := newTestSessionManager("test-session-secret")
	claims := SessionClaims{
		Username: "alice",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-session-secret"))
	require.NoError(t, err)

	_, err = m.ParseToken(token)
	assert.Error(t, err)
}

func newSessionRouter(m *SessionManager, users UserLookup) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(m.LoadSession())
	router.GET("/login-as/:name", func(c *gin.Context) {
		if err := m.Login(c, c.Param("name")); err != nil {
			c.String(500, err.Error())
			return
		}
		c.String(200, "ok")
	})
	router.GET("/logout", func(c *gin.Context) {
		m.Logout(c)
		c.String(200, "bye")
	})
	router.GET("/private", m.RequireLogin(users), func(c *gin.Context) {
		c.String(200, "hello %s", GetCurrentUser(c).Username)
	})
	router.GET("/api/private", m.RequireAPIAuth(users), func(c *gin.Context) {
		c.String(200, GetCurrentUsername(c))
	})
	return router
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == "session" {
			return c
		}
	}
	t.Fatal("session cookie not set")
	return nil
}

func TestRequireLogin(t *testing.T) {
	m := newTestSessionManager("test-session-secret")
	users := fakeUsers{"alice": {ID: 1, Username: "alice"}}
	router := newSessionRouter(m, users)

	// 匿名访问跳转登录页
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/private", nil))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	// 登录后可访问
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/login-as/alice", nil))
	cookie := sessionCookie(t, w)
	assert.True(t, cookie.HttpOnly)

	req := httptest.NewRequest("GET", "/private", nil)
	req.AddCookie(&http.Cookie{Name: cookie.Name, Value: cookie.Value})
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, 200, w.Code)
	assert.Equal(t, "hello alice", w.Body.String())

	// 篡改的 Cookie 视为匿名
	req = httptest.NewRequest("GET", "/private", nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: cookie.Value + "x"})
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusFound, w.Code)
}

func TestRequireLogin_UserNoLongerExists(t *testing.T) {
	m := newTestSessionManager("test-session-secret")
	router := newSessionRouter(m, fakeUsers{})

	token, err := m.GenerateToken("ghost")
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/private", nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: token})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, -1, sessionCookie(t, w).MaxAge)
}

// 查询用户出错时返回 500，不清除会话 Cookie
func TestRequireLogin_LookupFailureKeepsSession(t *testing.T) {
	m := newTestSessionManager("test-session-secret")
	router := newSessionRouter(m, brokenUsers{})

	token, err := m.GenerateToken("alice")
	require.NoError(t, err)

	for _, path := range []string{"/private", "/api/private"} {
		req := httptest.NewRequest("GET", path, nil)
		req.AddCookie(&http.Cookie{Name: "session", Value: token})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusInternalServerError, w.Code, path)
		assert.Empty(t, w.Result().Cookies(), path)
	}
}

func TestRequireAPIAuth(t *testing.T) {
	m := newTestSessionManager("test-session-secret")
	router := newSessionRouter(m, fakeUsers{"bob": {ID: 2, Username: "bob"}})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/api/private", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "401")

	token, _ := m.GenerateToken("bob")
	req := httptest.NewRequest("GET", "/api/private", nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: token})
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, 200, w.Code)
	assert.Equal(t, "bob", w.Body.String())
}

func TestLogoutClearsCookie(t *testing.T) {
	m := newTestSessionManager("test-session-secret")
	router := newSessionRouter(m, fakeUsers{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/logout", nil))
	cookie := sessionCookie(t, w)
	assert.Equal(t, "", cookie.Value)
	assert.Equal(t, -1, cookie.MaxAge)
}

func TestGetCurrentUsername(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Equal(t, "", GetCurrentUsername(c))
	assert.Nil(t, GetCurrentUser(c))

	c.Set("username", "carol")
	assert.Equal(t, "carol", GetCurrentUsername(c))
}
