package api

import (
	"log"
	"net/http"
	"time"

	"expensetracker/config"
	"expensetracker/database"
	"expensetracker/models"
	"expensetracker/service"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// resetCodeTTL 重置验证码有效期
const resetCodeTTL = 10 * time.Minute

// PasswordResetHandler 密码重置处理器
type PasswordResetHandler struct {
	emailService *service.EmailService
}

// NewPasswordResetHandler 创建密码重置处理器
func NewPasswordResetHandler(cfg *config.Config) *PasswordResetHandler {
	return &PasswordResetHandler{
		emailService: service.NewEmailService(&cfg.Email),
	}
}

// RequestResetRequest 请求密码重置
type RequestResetRequest struct {
	Email string `form:"email" json:"email" binding:"required,email"`
}

// RequestReset 请求密码重置（发送验证码）
// @Summary 请求密码重置
// @Description 向邮箱发送 6 位重置验证码；无论邮箱是否注册均返回相同文案，不泄露账号存在性
// @Tags 认证
// @Accept x-www-form-urlencoded
// @Produce json
// @Param email formData string true "注册邮箱"
// @Success 200 {object} Response "验证码已发送"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 429 {object} Response "请求过于频繁"
// @Router /password/request-reset [post]
func (h *PasswordResetHandler) RequestReset(c *gin.Context) {
	var req RequestResetRequest
	if err := c.ShouldBind(&req); err != nil {
		BadRequest(c, "请输入有效的邮箱地址")
		return
	}

	// 为了安全，即使用户不存在也返回成功
	var user models.User
	if err := database.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		SuccessWithMessage(c, "如果该邮箱已注册，您将收到密码重置验证码", nil)
		return
	}

	// 检查是否有未使用的有效验证码（防止频繁发送）
	var existing models.PasswordReset
	if err := database.DB.Where("user_id = ? AND used = ? AND expires_at > ?",
		user.ID, false, time.Now()).First(&existing).Error; err == nil {
		if time.Since(existing.CreatedAt) < time.Minute {
			c.JSON(http.StatusTooManyRequests, Response{
				Code:    http.StatusTooManyRequests,
				Message: "请求过于频繁，请稍后再试",
			})
			return
		}
		// 使旧验证码失效
		database.DB.Model(&existing).Update("used", true)
	}

	code, err := models.GenerateResetCode()
	if err != nil {
		InternalError(c, "生成验证码失败")
		return
	}

	reset := models.PasswordReset{
		UserID:    user.ID,
		Code:      code,
		Email:     req.Email,
		ExpiresAt: time.Now().Add(resetCodeTTL),
	}
	if err := database.DB.Create(&reset).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "创建重置验证码失败"))
		return
	}

	if h.emailService.Enabled() {
		if err := h.emailService.SendResetCodeEmail(req.Email, user.Username, code); err != nil {
			database.DB.Delete(&reset)
			InternalError(c, SafeErrorMessage(err, "邮件发送失败"))
			return
		}
	} else {
		// 开发环境未配置 SMTP 时验证码打到日志
		log.Printf("邮件服务未启用，密码重置验证码 (%s): %s", req.Email, code)
	}

	SuccessWithMessage(c, "如果该邮箱已注册，您将收到密码重置验证码", nil)
}

// ResetPasswordRequest 重置密码请求
type ResetPasswordRequest struct {
	Email       string `form:"email" json:"email" binding:"required,email"`
	Code        string `form:"code" json:"code" binding:"required,len=6"`
	NewPassword string `form:"new_password" json:"new_password" binding:"required"`
}

// ResetPassword 使用验证码重置密码
// @Summary 重置密码
// @Description 校验邮箱+验证码后更新密码，并使该用户所有未使用的验证码失效
// @Tags 认证
// @Accept x-www-form-urlencoded
// @Produce json
// @Param email formData string true "注册邮箱"
// @Param code formData string true "6位验证码"
// @Param new_password formData string true "新密码（至少6位）"
// @Success 200 {object} Response "密码重置成功"
// @Failure 400 {object} Response "验证码错误或已过期"
// @Router /password/reset [post]
func (h *PasswordResetHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBind(&req); err != nil {
		BadRequest(c, "参数错误")
		return
	}
	if len(req.NewPassword) < MinPasswordLength {
		BadRequest(c, "密码长度不能少于6位")
		return
	}

	var reset models.PasswordReset
	if err := database.DB.Where("email = ? AND code = ?", req.Email, req.Code).
		First(&reset).Error; err != nil {
		BadRequest(c, "验证码错误")
		return
	}

	if !reset.IsValid() {
		if reset.Used {
			BadRequest(c, "验证码已被使用")
		} else {
			BadRequest(c, "验证码已过期，请重新获取")
		}
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		InternalError(c, "密码加密失败")
		return
	}

	if err := database.DB.Model(&models.User{}).Where("id = ?", reset.UserID).
		Update("password", string(hashedPassword)).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "更新密码失败"))
		return
	}

	// 本次验证码与该用户所有未使用的验证码一并失效
	database.DB.Model(&models.PasswordReset{}).
		Where("user_id = ? AND used = ?", reset.UserID, false).
		Update("used", true)

	SuccessWithMessage(c, "密码重置成功，请使用新密码登录", nil)
}
