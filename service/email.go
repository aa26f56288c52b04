package service

import (
	"fmt"

	"expensetracker/config"

	"gopkg.in/gomail.v2"
)

// EmailService 邮件服务
type EmailService struct {
	cfg *config.EmailConfig
}

// NewEmailService 创建邮件服务
func NewEmailService(cfg *config.EmailConfig) *EmailService {
	return &EmailService{cfg: cfg}
}

// Enabled 邮件服务是否启用
func (s *EmailService) Enabled() bool {
	return s.cfg.Enabled
}

// SendResetCodeEmail 发送密码重置验证码邮件
func (s *EmailService) SendResetCodeEmail(toEmail, username, code string) error {
	if !s.cfg.Enabled {
		return fmt.Errorf("邮件服务未启用")
	}

	subject := "【记账本】密码重置验证码"
	body := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: 'Microsoft YaHei', Arial, sans-serif;">
    <p>尊敬的 <strong>%s</strong>，您好！</p>
    <p>您的密码重置验证码为：</p>
    <p style="font-size: 28px; font-weight: bold; letter-spacing: 6px;">%s</p>
    <p>验证码 10 分钟内有效。如果您没有请求重置密码，请忽略此邮件。</p>
    <p style="color: #6c757d; font-size: 12px;">此邮件由系统自动发送，请勿回复</p>
</body>
</html>
`, username, code)

	return s.sendEmail(toEmail, subject, body)
}

// sendEmail 发送邮件
func (s *EmailService) sendEmail(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.cfg.Username, s.cfg.From))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("发送邮件失败: %w", err)
	}
	return nil
}
