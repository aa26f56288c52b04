package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"expensetracker/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func initTestSession() {
	InitSession(&config.Config{
		Session: config.SessionConfig{Secret: "test-secret", ExpireTime: time.Hour},
	})
}

func TestGenerateAndParseToken(t *testing.T) {
	initTestSession()

	token, err := GenerateToken(42, "alice", true, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.True(t, claims.IsAdmin)
}

func TestParseToken_Expired(t *testing.T) {
	initTestSession()

	token, err := GenerateToken(1, "alice", false, -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(token)
	assert.Error(t, err)
}

func TestParseToken_WrongSecret(t *testing.T) {
	initTestSession()
	token, err := GenerateToken(1, "alice", false, time.Hour)
	require.NoError(t, err)

	// 换密钥后旧 token 不再可信
	InitSession(&config.Config{Session: config.SessionConfig{Secret: "another-secret"}})
	_, err = ParseToken(token)
	assert.Error(t, err)

	initTestSession()
}

func TestParseToken_Garbage(t *testing.T) {
	initTestSession()

	_, err := ParseToken("not-a-token")
	assert.Error(t, err)
}

func TestAuthRequired_NoSession(t *testing.T) {
	initTestSession()

	router := gin.New()
	router.GET("/", AuthRequired(), func(c *gin.Context) {
		c.String(200, "ok")
	})

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	// 未登录：带提示重定向到登录页
	assert.Equal(t, 302, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
	assert.Contains(t, w.Header().Get("Set-Cookie"), FlashCookieName)
}

func TestAuthRequired_ValidCookie(t *testing.T) {
	initTestSession()

	token, err := GenerateToken(7, "alice", false, time.Hour)
	require.NoError(t, err)

	var gotUserID uint
	var gotUsername string
	router := gin.New()
	router.GET("/", AuthRequired(), func(c *gin.Context) {
		gotUserID = GetCurrentUserID(c)
		gotUsername = GetCurrentUsername(c)
		c.String(200, "ok")
	})

	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	assert.Equal(t, uint(7), gotUserID)
	assert.Equal(t, "alice", gotUsername)
}

func TestAuthRequired_BearerHeader(t *testing.T) {
	initTestSession()

	token, err := GenerateToken(7, "alice", false, time.Hour)
	require.NoError(t, err)

	router := gin.New()
	router.GET("/", AuthRequired(), func(c *gin.Context) {
		c.String(200, "ok")
	})

	// 无 Cookie 时 Authorization 头兜底
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
}

func TestAuthRequired_TamperedToken(t *testing.T) {
	initTestSession()

	token, err := GenerateToken(7, "alice", false, time.Hour)
	require.NoError(t, err)

	router := gin.New()
	router.GET("/", AuthRequired(), func(c *gin.Context) {
		c.String(200, "ok")
	})

	// 篡改后的 token 重定向到登录页，且会话 Cookie 被清除
	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token + "x"})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 302, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestAdminRequired(t *testing.T) {
	router := gin.New()
	router.GET("/admin", func(c *gin.Context) {
		c.Set("userID", uint(1))
		c.Set("username", "alice")
		c.Set("isAdmin", false)
	}, AdminRequired(), func(c *gin.Context) {
		c.String(200, "ok")
	})

	req := httptest.NewRequest("GET", "/admin", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 403, w.Code)
	assert.Contains(t, w.Body.String(), "权限不足")
}

func TestAdminRequired_Admin(t *testing.T) {
	router := gin.New()
	router.GET("/admin", func(c *gin.Context) {
		c.Set("userID", uint(99))
		c.Set("username", "admin")
		c.Set("isAdmin", true)
	}, AdminRequired(), func(c *gin.Context) {
		c.String(200, "ok")
	})

	req := httptest.NewRequest("GET", "/admin", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
}

func TestCurrentUserHelpers_Defaults(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/", nil)

	assert.Equal(t, uint(0), GetCurrentUserID(c))
	assert.Equal(t, "", GetCurrentUsername(c))
	assert.False(t, IsCurrentUserAdmin(c))
}
