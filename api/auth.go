package api

import (
	"net/http"
	"strings"

	"expensetracker/config"
	"expensetracker/database"
	"expensetracker/middleware"
	"expensetracker/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength 密码最小长度
const MinPasswordLength = 6

// AuthHandler 认证处理器
type AuthHandler struct {
	cfg *config.Config
}

// NewAuthHandler 创建认证处理器
func NewAuthHandler(cfg *config.Config) *AuthHandler {
	return &AuthHandler{cfg: cfg}
}

// RegisterPage 注册页数据（表单由前端渲染，这里只回传一次性提示）
// @Summary 注册页
// @Tags 认证
// @Produce json
// @Success 200 {object} Response
// @Router /register [get]
func (h *AuthHandler) RegisterPage(c *gin.Context) {
	Success(c, gin.H{"flash": middleware.TakeFlash(c)})
}

// Register 用户注册
// @Summary 用户注册
// @Description 创建新用户账号，成功后重定向到登录页
// @Tags 认证
// @Accept x-www-form-urlencoded
// @Produce json
// @Param username formData string true "用户名"
// @Param password formData string true "密码（至少6位）"
// @Param email formData string false "邮箱（用于找回密码）"
// @Success 302 "注册成功，重定向到 /login"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 500 {object} Response "服务器错误"
// @Router /register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	password := c.PostForm("password")
	email := strings.TrimSpace(c.PostForm("email"))

	if username == "" {
		BadRequest(c, "用户名不能为空")
		return
	}
	if len(password) < MinPasswordLength {
		BadRequest(c, "密码长度不能少于6位")
		return
	}

	// 检查用户名是否已存在（区分大小写的精确匹配）
	var existingUser models.User
	if err := database.DB.Where("username = ?", username).First(&existingUser).Error; err == nil {
		BadRequest(c, "用户名已存在")
		return
	}

	// 只存储加盐哈希，绝不落明文
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		InternalError(c, "密码加密失败")
		return
	}

	user := models.User{
		Username: username,
		Password: string(hashedPassword),
		Email:    email,
	}

	if err := database.DB.Create(&user).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "创建用户失败"))
		return
	}

	middleware.SetFlash(c, "注册成功，请登录")
	c.Redirect(http.StatusFound, "/login")
}

// LoginPage 登录页数据
// @Summary 登录页
// @Tags 认证
// @Produce json
// @Success 200 {object} Response
// @Router /login [get]
func (h *AuthHandler) LoginPage(c *gin.Context) {
	Success(c, gin.H{"flash": middleware.TakeFlash(c)})
}

// Login 用户登录
// @Summary 用户登录
// @Description 校验凭证并写入会话 Cookie，成功后重定向到仪表盘
// @Tags 认证
// @Accept x-www-form-urlencoded
// @Produce json
// @Param username formData string true "用户名"
// @Param password formData string true "密码"
// @Success 302 "登录成功，重定向到 /"
// @Failure 401 {object} Response "用户名或密码错误"
// @Router /login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	// 用户不存在与密码错误返回同一文案，不泄露哪一项出错
	var user models.User
	if err := database.DB.Where("username = ?", username).First(&user).Error; err != nil {
		Unauthorized(c, "用户名或密码错误")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		Unauthorized(c, "用户名或密码错误")
		return
	}

	token, err := middleware.GenerateToken(user.ID, user.Username, user.IsAdmin, h.cfg.Session.ExpireTime)
	if err != nil {
		InternalError(c, "生成会话失败")
		return
	}
	middleware.SetSessionCookie(c, token, int(h.cfg.Session.ExpireTime.Seconds()))

	c.Redirect(http.StatusFound, "/")
}

// Logout 退出登录
// @Summary 退出登录
// @Description 清除会话 Cookie 并重定向到登录页
// @Tags 认证
// @Success 302 "重定向到 /login"
// @Router /logout [get]
func (h *AuthHandler) Logout(c *gin.Context) {
	middleware.ClearSessionCookie(c)
	c.Redirect(http.StatusFound, "/login")
}

// GetProfile 获取当前用户信息
// @Summary 获取当前用户信息
// @Tags 认证
// @Produce json
// @Success 200 {object} Response{data=models.User} "获取成功"
// @Failure 302 "未登录，重定向到 /login"
// @Router /profile [get]
func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		Error(c, http.StatusNotFound, "用户不存在")
		return
	}

	Success(c, user)
}

// ChangePasswordRequest 修改密码请求
type ChangePasswordRequest struct {
	OldPassword string `form:"old_password" json:"old_password" binding:"required"`
	NewPassword string `form:"new_password" json:"new_password" binding:"required"`
}

// ChangePassword 修改密码
// @Summary 修改密码
// @Description 校验原密码后更新为新密码
// @Tags 认证
// @Accept x-www-form-urlencoded
// @Produce json
// @Param old_password formData string true "原密码"
// @Param new_password formData string true "新密码（至少6位）"
// @Success 200 {object} Response "修改成功"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 401 {object} Response "原密码错误"
// @Router /password [put]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var req ChangePasswordRequest
	if err := c.ShouldBind(&req); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}
	if len(req.NewPassword) < MinPasswordLength {
		BadRequest(c, "密码长度不能少于6位")
		return
	}

	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		Error(c, http.StatusNotFound, "用户不存在")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.OldPassword)); err != nil {
		Unauthorized(c, "原密码错误")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		InternalError(c, "密码加密失败")
		return
	}

	if err := database.DB.Model(&user).Update("password", string(hashedPassword)).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "更新密码失败"))
		return
	}

	SuccessWithMessage(c, "密码修改成功", nil)
}
