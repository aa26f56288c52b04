package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"expensetracker/config"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// SessionCookieName 会话 Cookie 名称
const SessionCookieName = "session"

var sessionSecret []byte

// SessionClaims 会话载荷：当前请求的三要素（用户ID、用户名、管理员标记）
type SessionClaims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	IsAdmin  bool   `json:"is_admin"`
	jwt.RegisteredClaims
}

// InitSession 初始化会话签名密钥
func InitSession(cfg *config.Config) {
	sessionSecret = []byte(cfg.Session.Secret)
}

// GenerateToken 生成会话 token
func GenerateToken(userID uint, username string, isAdmin bool, expire time.Duration) (string, error) {
	claims := SessionClaims{
		UserID:   userID,
		Username: username,
		IsAdmin:  isAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expire)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(sessionSecret)
}

// ParseToken 解析并校验会话 token
func ParseToken(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return sessionSecret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, errors.New("无效的会话")
	}
	return claims, nil
}

// sessionToken 从 Cookie 或 Authorization 头提取会话 token
// Cookie 优先；Bearer 头作为 API 客户端的兜底
func sessionToken(c *gin.Context) string {
	if cookie, err := c.Cookie(SessionCookieName); err == nil && cookie != "" {
		return cookie
	}
	auth := c.GetHeader("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	return ""
}

// AuthRequired 登录校验中间件
// 未登录（或会话失效）时带提示重定向到登录页
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := sessionToken(c)
		if tokenString == "" {
			SetFlash(c, "请先登录")
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}

		claims, err := ParseToken(tokenString)
		if err != nil {
			ClearSessionCookie(c)
			SetFlash(c, "请先登录")
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}

		c.Set("userID", claims.UserID)
		c.Set("username", claims.Username)
		c.Set("isAdmin", claims.IsAdmin)
		c.Next()
	}
}

// AdminRequired 管理员校验中间件，需在 AuthRequired 之后使用
// 非管理员直接 403 拒绝，不重定向
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsCurrentUserAdmin(c) {
			c.JSON(http.StatusForbidden, gin.H{
				"code":    http.StatusForbidden,
				"message": "权限不足",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// SetSessionCookie 写入会话 Cookie
func SetSessionCookie(c *gin.Context, token string, maxAge int) {
	secure, sameSite := CookieOptions()
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		Secure:   secure,
		HttpOnly: true,
		SameSite: sameSite,
	})
}

// ClearSessionCookie 清除会话 Cookie
func ClearSessionCookie(c *gin.Context) {
	secure, sameSite := CookieOptions()
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Secure:   secure,
		HttpOnly: true,
		SameSite: sameSite,
	})
}

// CookieOptions 根据运行模式返回 Cookie 的安全选项
// release 模式下启用 Secure（仅 HTTPS 传输）；SameSite=Lax 防止跨站 POST 携带 Cookie
func CookieOptions() (secure bool, sameSite http.SameSite) {
	cfg := config.GetConfig()
	if cfg != nil && cfg.Server.Mode == "release" {
		secure = true
	}
	sameSite = http.SameSiteLaxMode
	return
}

// GetCurrentUserID 获取当前登录用户ID
func GetCurrentUserID(c *gin.Context) uint {
	if id, exists := c.Get("userID"); exists {
		if userID, ok := id.(uint); ok {
			return userID
		}
	}
	return 0
}

// GetCurrentUsername 获取当前登录用户名
func GetCurrentUsername(c *gin.Context) string {
	if name, exists := c.Get("username"); exists {
		if username, ok := name.(string); ok {
			return username
		}
	}
	return ""
}

// IsCurrentUserAdmin 当前会话是否为管理员
func IsCurrentUserAdmin(c *gin.Context) bool {
	if v, exists := c.Get("isAdmin"); exists {
		if isAdmin, ok := v.(bool); ok {
			return isAdmin
		}
	}
	return false
}
