package middleware

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"grocery/config"
	"grocery/models"
	"grocery/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	ctxUsernameKey = "username"
	ctxUserKey     = "user"
)

// SessionClaims 会话 token 载荷，只携带用户名
type SessionClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// UserLookup 校验会话中的用户名仍然对应一个用户
// 用户不存在时返回的错误需包装 service.ErrNotFound
type UserLookup interface {
	FindUser(ctx context.Context, username string) (*models.User, error)
}

// SessionManager 签名 Cookie 会话
// 服务端不保存会话，退出登录只需清除客户端 Cookie
type SessionManager struct {
	secret     []byte
	ttl        time.Duration
	cookieName string
	secure     bool
}

// NewSessionManager 创建会话管理器
func NewSessionManager(cfg *config.Config) *SessionManager {
	return &SessionManager{
		secret:     []byte(cfg.Session.Secret),
		ttl:        cfg.Session.ExpireTime,
		cookieName: cfg.Session.CookieName,
		secure:     cfg.IsRelease(),
	}
}

// GenerateToken 为用户名签发会话 token
func (m *SessionManager) GenerateToken(username string) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// ParseToken 校验签名与过期时间
func (m *SessionManager) ParseToken(tokenString string) (*SessionClaims, error) {
	if tokenString == "" {
		return nil, errors.New("empty session token")
	}
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.Username == "" {
		return nil, errors.New("invalid session token")
	}
	return claims, nil
}

// Login 签发 token 并写入 Cookie
func (m *SessionManager) Login(c *gin.Context, username string) error {
	token, err := m.GenerateToken(username)
	if err != nil {
		return err
	}
	m.setCookie(c, token, int(m.ttl.Seconds()))
	c.Set(ctxUsernameKey, username)
	return nil
}

// Logout 清除会话 Cookie
func (m *SessionManager) Logout(c *gin.Context) {
	m.setCookie(c, "", -1)
}

// setCookie release 模式下启用 Secure，SameSite=Lax 防止跨站 POST 携带 Cookie
func (m *SessionManager) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetCookieData(&http.Cookie{
		Name:     m.cookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		Secure:   m.secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// LoadSession 解析 Cookie 中的会话，无效时视为匿名，不拦截请求
func (m *SessionManager) LoadSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw, err := c.Cookie(m.cookieName); err == nil && raw != "" {
			if claims, err := m.ParseToken(raw); err == nil {
				c.Set(ctxUsernameKey, claims.Username)
			}
		}
		c.Next()
	}
}

// RequireLogin 页面路由：未登录或用户已不存在时跳转登录页
func (m *SessionManager) RequireLogin(users UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch m.authorize(c, users) {
		case authOK:
			c.Next()
		case authAnonymous:
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
		default:
			c.String(http.StatusInternalServerError, "Something went wrong, please try again.")
			c.Abort()
		}
	}
}

// RequireAPIAuth JSON 接口：未登录返回 401
func (m *SessionManager) RequireAPIAuth(users UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch m.authorize(c, users) {
		case authOK:
			c.Next()
		case authAnonymous:
			c.JSON(http.StatusUnauthorized, gin.H{
				"code":    http.StatusUnauthorized,
				"message": "not logged in",
			})
			c.Abort()
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"code":    http.StatusInternalServerError,
				"message": "failed to load user",
			})
			c.Abort()
		}
	}
}

type authResult int

const (
	authOK authResult = iota
	authAnonymous
	authFailed
)

func (m *SessionManager) authorize(c *gin.Context, users UserLookup) authResult {
	username := GetCurrentUsername(c)
	if username == "" {
		return authAnonymous
	}
	user, err := users.FindUser(c.Request.Context(), username)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			// 签名有效但用户已不存在，清掉 Cookie
			m.Logout(c)
			return authAnonymous
		}
		// 查询失败时保留会话
		log.Printf("会话用户查询失败: %v", err)
		return authFailed
	}
	c.Set(ctxUserKey, user)
	return authOK
}

// GetCurrentUsername 获取当前会话用户名，匿名时为空
func GetCurrentUsername(c *gin.Context) string {
	if v, ok := c.Get(ctxUsernameKey); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// GetCurrentUser 获取 RequireLogin 解析出的用户
func GetCurrentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(ctxUserKey); ok {
		if u, ok := v.(*models.User); ok {
			return u
		}
	}
	return nil
}
