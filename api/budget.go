package api

import (
	"net/http"
	"strconv"
	"strings"

	"expensetracker/database"
	"expensetracker/middleware"
	"expensetracker/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm/clause"
)

// BudgetHandler 预算处理器
type BudgetHandler struct{}

// NewBudgetHandler 创建预算处理器
func NewBudgetHandler() *BudgetHandler {
	return &BudgetHandler{}
}

// SetBudget 设置月度预算
// @Summary 设置月度预算
// @Description 按 (用户, 月份, 年份) 原子覆盖预算：不存在则插入，存在则替换金额
// @Tags 预算
// @Accept x-www-form-urlencoded
// @Produce json
// @Param month formData string true "两位月份，如 03"
// @Param year formData string true "四位年份，如 2024"
// @Param amount formData number true "预算金额（非负）"
// @Success 302 "设置成功，重定向到 /"
// @Failure 400 {object} Response "请求参数错误"
// @Router /budget [post]
func (h *BudgetHandler) SetBudget(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	month := strings.TrimSpace(c.PostForm("month"))
	year := strings.TrimSpace(c.PostForm("year"))
	amountStr := strings.TrimSpace(c.PostForm("amount"))

	if !monthPattern.MatchString(month) {
		BadRequest(c, "月份格式错误，应为两位数字，如 03")
		return
	}
	if m, _ := strconv.Atoi(month); m < 1 || m > 12 {
		BadRequest(c, "月份超出范围")
		return
	}
	if !yearPattern.MatchString(year) {
		BadRequest(c, "年份格式错误，应为四位数字，如 2024")
		return
	}
	if amountStr == "" {
		BadRequest(c, "金额不能为空")
		return
	}
	amount, err := strconv.ParseFloat(amountStr, 64)
	if err != nil {
		BadRequest(c, "金额格式错误")
		return
	}
	if amount < 0 {
		BadRequest(c, "金额不能为负数")
		return
	}

	// 唯一键 (user_id, month, year) 冲突时覆盖金额，单条语句内原子完成
	budget := models.Budget{
		UserID: userID,
		Month:  month,
		Year:   year,
		Amount: amount,
	}
	err = database.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "month"}, {Name: "year"}},
		DoUpdates: clause.AssignmentColumns([]string{"amount", "updated_at"}),
	}).Create(&budget).Error
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "设置预算失败"))
		return
	}

	middleware.SetFlash(c, "预算已更新")
	c.Redirect(http.StatusFound, "/")
}
