package api

import (
	"errors"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"expensetracker/database"
	"expensetracker/middleware"
	"expensetracker/models"
	"expensetracker/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ExpenseHandler 消费记录处理器
type ExpenseHandler struct{}

// NewExpenseHandler 创建消费记录处理器
func NewExpenseHandler() *ExpenseHandler {
	return &ExpenseHandler{}
}

var (
	monthPattern = regexp.MustCompile(`^\d{2}$`)
	yearPattern  = regexp.MustCompile(`^\d{4}$`)
)

// ExpenseFilter 消费记录筛选条件，所有字段可选，同时给出时取 AND
type ExpenseFilter struct {
	Month     string `form:"month"`      // 两位月份，如 "03"
	Year      string `form:"year"`       // 四位年份，如 "2024"
	StartDate string `form:"start_date"` // YYYY-MM-DD
	EndDate   string `form:"end_date"`   // YYYY-MM-DD
}

// listExpenses 按筛选条件查询指定用户的消费记录
// 结果按 id 升序返回（稳定默认排序）
func listExpenses(userID uint, filter ExpenseFilter) ([]models.Expense, error) {
	query := database.DB.Model(&models.Expense{}).Where("user_id = ?", userID)

	if filter.Month != "" && monthPattern.MatchString(filter.Month) {
		query = query.Where("DATE_FORMAT(date, '%m') = ?", filter.Month)
	}
	if filter.Year != "" && yearPattern.MatchString(filter.Year) {
		query = query.Where("DATE_FORMAT(date, '%Y') = ?", filter.Year)
	}
	if filter.StartDate != "" {
		if t, err := time.ParseInLocation(models.DateLayout, filter.StartDate, time.Local); err == nil {
			query = query.Where("date >= ?", t)
		}
	}
	if filter.EndDate != "" {
		if t, err := time.ParseInLocation(models.DateLayout, filter.EndDate, time.Local); err == nil {
			query = query.Where("date <= ?", t)
		}
	}

	var expenses []models.Expense
	err := query.Order("id ASC").Find(&expenses).Error
	return expenses, err
}

// Dashboard 仪表盘
// @Summary 仪表盘
// @Description 返回当前用户过滤后的消费记录、总额、按类别/按月汇总；同时给出 month 和 year 时附带预算对比
// @Tags 消费记录
// @Produce json
// @Param month query string false "月份筛选，两位，如 03"
// @Param year query string false "年份筛选，四位，如 2024"
// @Param start_date query string false "起始日期 (YYYY-MM-DD)"
// @Param end_date query string false "截止日期 (YYYY-MM-DD)"
// @Success 200 {object} Response "获取成功"
// @Failure 302 "未登录，重定向到 /login"
// @Router / [get]
func (h *ExpenseHandler) Dashboard(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	var filter ExpenseFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		BadRequest(c, SafeErrorMessage(err, "参数错误"))
		return
	}

	expenses, err := listExpenses(userID, filter)
	if err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}

	summary := service.Summarize(expenses)

	// 同时指定月份和年份时查询对应预算并给出对比
	var comparison *service.BudgetComparison
	if filter.Month != "" && filter.Year != "" {
		var budget models.Budget
		err := database.DB.Where("user_id = ? AND month = ? AND year = ?",
			userID, filter.Month, filter.Year).First(&budget).Error
		switch {
		case err == nil:
			comparison = service.CompareBudget(&budget, summary.Total)
		case errors.Is(err, gorm.ErrRecordNotFound):
			// 未设置预算，不附带对比
		default:
			InternalError(c, SafeErrorMessage(err, "查询预算失败"))
			return
		}
	}

	Success(c, gin.H{
		"expenses":         expenses,
		"total":            summary.Total,
		"category_summary": summary.CategorySummary,
		"monthly_summary":  summary.MonthlySummary,
		"budget":           comparison,
		"filter":           filter,
		"flash":            middleware.TakeFlash(c),
	})
}

// parseExpenseForm 解析并校验消费记录表单（date 字段仅在创建时使用）
func parseExpenseForm(c *gin.Context) (category, description string, amount float64, ok bool) {
	category = strings.TrimSpace(c.PostForm("category"))
	description = strings.TrimSpace(c.PostForm("description"))
	amountStr := strings.TrimSpace(c.PostForm("amount"))

	if category == "" {
		BadRequest(c, "类别不能为空")
		return "", "", 0, false
	}
	if amountStr == "" {
		BadRequest(c, "金额不能为空")
		return "", "", 0, false
	}
	amount, err := strconv.ParseFloat(amountStr, 64)
	if err != nil {
		BadRequest(c, "金额格式错误")
		return "", "", 0, false
	}
	if amount < 0 {
		BadRequest(c, "金额不能为负数")
		return "", "", 0, false
	}
	return category, description, amount, true
}

// AddPage 记账页数据
// @Summary 记账页
// @Tags 消费记录
// @Produce json
// @Success 200 {object} Response
// @Router /add [get]
func (h *ExpenseHandler) AddPage(c *gin.Context) {
	Success(c, gin.H{
		"today": time.Now().Format(models.DateLayout),
		"flash": middleware.TakeFlash(c),
	})
}

// Create 创建消费记录
// @Summary 创建消费记录
// @Description 为当前用户新增一条消费记录，成功后重定向到仪表盘
// @Tags 消费记录
// @Accept x-www-form-urlencoded
// @Produce json
// @Param date formData string true "消费日期 (YYYY-MM-DD)"
// @Param category formData string true "类别"
// @Param description formData string false "描述"
// @Param amount formData number true "金额（非负）"
// @Success 302 "创建成功，重定向到 /"
// @Failure 400 {object} Response "请求参数错误"
// @Router /add [post]
func (h *ExpenseHandler) Create(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)

	dateStr := strings.TrimSpace(c.PostForm("date"))
	if dateStr == "" {
		BadRequest(c, "日期不能为空")
		return
	}
	date, err := time.ParseInLocation(models.DateLayout, dateStr, time.Local)
	if err != nil {
		BadRequest(c, "日期格式错误，应为: 2024-01-15")
		return
	}

	category, description, amount, ok := parseExpenseForm(c)
	if !ok {
		return
	}

	expense := models.Expense{
		UserID:      userID,
		Date:        date,
		Category:    category,
		Description: description,
		Amount:      amount,
	}

	if err := database.DB.Create(&expense).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "创建消费记录失败"))
		return
	}

	c.Redirect(http.StatusFound, "/")
}

// EditPage 编辑页数据
// @Summary 编辑页
// @Description 返回待编辑的消费记录；非本人记录返回 403
// @Tags 消费记录
// @Produce json
// @Param id path int true "消费记录ID"
// @Success 200 {object} Response{data=models.Expense}
// @Failure 403 {object} Response "无权访问该记录"
// @Router /edit/{id} [get]
func (h *ExpenseHandler) EditPage(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}

	var expense models.Expense
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&expense).Error; err != nil {
		// 记录不存在与越权统一按越权处理，硬拒绝
		Forbidden(c, "无权访问该记录")
		return
	}

	Success(c, expense)
}

// Update 更新消费记录
// @Summary 更新消费记录
// @Description 更新本人的消费记录（日期创建后不可修改），成功后重定向到仪表盘
// @Tags 消费记录
// @Accept x-www-form-urlencoded
// @Produce json
// @Param id path int true "消费记录ID"
// @Param category formData string true "类别"
// @Param description formData string false "描述"
// @Param amount formData number true "金额（非负）"
// @Success 302 "更新成功，重定向到 /"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 403 {object} Response "无权访问该记录"
// @Router /edit/{id} [post]
func (h *ExpenseHandler) Update(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}

	var expense models.Expense
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).First(&expense).Error; err != nil {
		Forbidden(c, "无权访问该记录")
		return
	}

	category, description, amount, ok := parseExpenseForm(c)
	if !ok {
		return
	}

	updates := map[string]interface{}{
		"category":    category,
		"description": description,
		"amount":      amount,
	}
	if err := database.DB.Model(&expense).Updates(updates).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "更新失败"))
		return
	}

	c.Redirect(http.StatusFound, "/")
}

// Delete 删除消费记录
// @Summary 删除消费记录
// @Description 删除本人的消费记录；目标不存在时视为成功（幂等），之后重定向到仪表盘
// @Tags 消费记录
// @Produce json
// @Param id path int true "消费记录ID"
// @Success 302 "重定向到 /"
// @Router /delete/{id} [get]
func (h *ExpenseHandler) Delete(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "无效的ID")
		return
	}

	// 影响 0 行不算错误：重复删除与删除不存在的记录结果一致
	if err := database.DB.Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.Expense{}).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		InternalError(c, SafeErrorMessage(err, "删除失败"))
		return
	}

	c.Redirect(http.StatusFound, "/")
}
