package middleware

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
)

// FlashCookieName 一次性提示 Cookie 名称
const FlashCookieName = "flash"

// SetFlash 设置一次性提示消息
// 页面层读取后即失效，用于重定向后展示操作结果
func SetFlash(c *gin.Context, message string) {
	secure, sameSite := CookieOptions()
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     FlashCookieName,
		Value:    url.QueryEscape(message),
		Path:     "/",
		MaxAge:   60,
		Secure:   secure,
		HttpOnly: false, // 页面脚本需要读取
		SameSite: sameSite,
	})
}

// TakeFlash 读取并清除一次性提示消息
func TakeFlash(c *gin.Context) string {
	raw, err := c.Cookie(FlashCookieName)
	if err != nil || raw == "" {
		return ""
	}
	secure, sameSite := CookieOptions()
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     FlashCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Secure:   secure,
		SameSite: sameSite,
	})
	message, err := url.QueryUnescape(raw)
	if err != nil {
		return raw
	}
	return message
}
