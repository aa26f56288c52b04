package api

import (
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"expensetracker/config"
	"expensetracker/database"
	"expensetracker/middleware"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupMockDB(t *testing.T) (sqlmock.Sqlmock, func()) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	oldDB := database.DB
	database.DB = gormDB
	return mock, func() {
		database.DB = oldDB
		sqlDB.Close()
	}
}

func testConfig() *config.Config {
	return &config.Config{
		Server:  config.ServerConfig{Mode: "debug"},
		Session: config.SessionConfig{Secret: "test-secret", ExpireTime: time.Hour},
	}
}

// setSessionMiddleware 模拟已登录会话
func setSessionMiddleware(userID uint, username string, isAdmin bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", userID)
		c.Set("username", username)
		c.Set("isAdmin", isAdmin)
		c.Next()
	}
}

func postForm(router *gin.Engine, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthHandler_Register(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	cfg := testConfig()
	config.GlobalConfig = cfg
	defer func() { config.GlobalConfig = nil }()

	// 检查用户名不存在：SELECT 返回无记录
	mock.ExpectQuery("SELECT .* FROM `users`").
		WithArgs("newuser", 1).
		WillReturnRows(sqlmock.NewRows([]string{}))

	// GORM Create 使用事务
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `users`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	router := gin.New()
	router.POST("/register", NewAuthHandler(cfg).Register)

	w := postForm(router, "/register", url.Values{
		"username": {"  newuser  "}, // 首尾空白应被去除
		"password": {"password123"},
	})

	assert.Equal(t, 302, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
	assert.Contains(t, w.Header().Get("Set-Cookie"), middleware.FlashCookieName)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthHandler_Register_ShortPassword(t *testing.T) {
	_, cleanup := setupMockDB(t)
	defer cleanup()

	cfg := testConfig()
	router := gin.New()
	router.POST("/register", NewAuthHandler(cfg).Register)

	// 密码不足6位：不产生任何数据库操作
	w := postForm(router, "/register", url.Values{
		"username": {"alice"},
		"password": {"12345"},
	})

	assert.Equal(t, 400, w.Code)
	assert.Contains(t, w.Body.String(), "密码长度不能少于6位")
}

func TestAuthHandler_Register_EmptyUsername(t *testing.T) {
	_, cleanup := setupMockDB(t)
	defer cleanup()

	cfg := testConfig()
	router := gin.New()
	router.POST("/register", NewAuthHandler(cfg).Register)

	w := postForm(router, "/register", url.Values{
		"username": {"   "},
		"password": {"password123"},
	})

	assert.Equal(t, 400, w.Code)
}

func TestAuthHandler_Register_DuplicateUsername(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	cfg := testConfig()

	mock.ExpectQuery("SELECT .* FROM `users`").
		WithArgs("existinguser", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username"}).AddRow(1, "existinguser"))

	router := gin.New()
	router.POST("/register", NewAuthHandler(cfg).Register)

	w := postForm(router, "/register", url.Values{
		"username": {"existinguser"},
		"password": {"password123"},
	})

	assert.Equal(t, 400, w.Code)
	assert.Contains(t, w.Body.String(), "用户名已存在")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthHandler_Login(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	cfg := testConfig()
	config.GlobalConfig = cfg
	middleware.InitSession(cfg)
	defer func() { config.GlobalConfig = nil }()

	hashed, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	mock.ExpectQuery("SELECT .* FROM `users`").
		WithArgs("loginuser", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password", "email", "is_admin", "created_at", "updated_at", "deleted_at"}).
			AddRow(1, "loginuser", string(hashed), "", false, time.Now(), time.Now(), nil))

	router := gin.New()
	router.POST("/login", NewAuthHandler(cfg).Login)

	w := postForm(router, "/login", url.Values{
		"username": {"loginuser"},
		"password": {"password123"},
	})

	assert.Equal(t, 302, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
	// 会话 Cookie 已写入
	assert.Contains(t, w.Header().Get("Set-Cookie"), middleware.SessionCookieName+"=")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthHandler_Login_WrongPassword(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	cfg := testConfig()
	config.GlobalConfig = cfg
	middleware.InitSession(cfg)
	defer func() { config.GlobalConfig = nil }()

	hashed, _ := bcrypt.GenerateFromPassword([]byte("rightpassword"), bcrypt.DefaultCost)
	mock.ExpectQuery("SELECT .* FROM `users`").
		WithArgs("loginuser", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password", "email", "is_admin", "created_at", "updated_at", "deleted_at"}).
			AddRow(1, "loginuser", string(hashed), "", false, time.Now(), time.Now(), nil))

	router := gin.New()
	router.POST("/login", NewAuthHandler(cfg).Login)

	w := postForm(router, "/login", url.Values{
		"username": {"loginuser"},
		"password": {"wrongpassword"},
	})

	assert.Equal(t, 401, w.Code)
	assert.Contains(t, w.Body.String(), "用户名或密码错误")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthHandler_Login_UserNotFound(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	cfg := testConfig()

	mock.ExpectQuery("SELECT .* FROM `users`").
		WithArgs("nouser", 1).
		WillReturnRows(sqlmock.NewRows([]string{}))

	router := gin.New()
	router.POST("/login", NewAuthHandler(cfg).Login)

	w := postForm(router, "/login", url.Values{
		"username": {"nouser"},
		"password": {"any"},
	})

	// 用户不存在与密码错误文案一致
	assert.Equal(t, 401, w.Code)
	assert.Contains(t, w.Body.String(), "用户名或密码错误")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthHandler_Logout(t *testing.T) {
	cfg := testConfig()
	router := gin.New()
	router.GET("/logout", NewAuthHandler(cfg).Logout)

	req := httptest.NewRequest("GET", "/logout", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 302, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
	// 会话 Cookie 被清除
	assert.Contains(t, w.Header().Get("Set-Cookie"), middleware.SessionCookieName+"=;")
}
