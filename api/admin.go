package api

import (
	"fmt"
	"net/http"
	"time"

	"expensetracker/database"
	"expensetracker/models"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// AdminHandler 管理员处理器
type AdminHandler struct{}

// NewAdminHandler 创建管理员处理器
func NewAdminHandler() *AdminHandler {
	return &AdminHandler{}
}

// ExpenseWithUser 带归属用户名的消费记录（管理员视图）
type ExpenseWithUser struct {
	models.Expense
	Username string `json:"username"`
}

// Dashboard 管理员总览
// @Summary 管理员总览
// @Description 全量（不限归属）消费记录列表（含用户名）、用户总数与全站消费总额，只读
// @Tags 管理员
// @Produce json
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(20)
// @Success 200 {object} Response "获取成功"
// @Failure 403 {object} Response "非管理员"
// @Router /admin [get]
func (h *AdminHandler) Dashboard(c *gin.Context) {
	page := 1
	pageSize := 20
	if p := c.Query("page"); p != "" {
		fmt.Sscanf(p, "%d", &page)
	}
	if ps := c.Query("page_size"); ps != "" {
		fmt.Sscanf(ps, "%d", &pageSize)
	}
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}

	query := database.DB.Model(&models.Expense{}).
		Select("expenses.*, users.username").
		Joins("LEFT JOIN users ON expenses.user_id = users.id")

	var total int64
	query.Count(&total)

	var expenses []ExpenseWithUser
	offset := (page - 1) * pageSize
	if err := query.Order("expenses.id ASC").Offset(offset).Limit(pageSize).
		Scan(&expenses).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询失败"))
		return
	}

	// 全站汇总：用户总数 + 消费总额
	var userCount int64
	database.DB.Model(&models.User{}).Count(&userCount)

	var totalAmount float64
	database.DB.Model(&models.Expense{}).Select("COALESCE(SUM(amount), 0)").Scan(&totalAmount)

	Success(c, gin.H{
		"expenses": PageResponse{
			Total:    total,
			Page:     page,
			PageSize: pageSize,
			List:     expenses,
		},
		"user_count":   userCount,
		"total_amount": totalAmount,
	})
}

// ExportExcel 导出全站消费记录为 Excel
// @Summary 导出全站消费记录
// @Description 按时间范围导出所有用户的消费记录为 XLSX 文件，含归属用户名和汇总行
// @Tags 管理员
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param start_date query string true "开始日期 (YYYY-MM-DD)"
// @Param end_date query string true "结束日期 (YYYY-MM-DD)"
// @Success 200 {file} file "XLSX 文件"
// @Failure 400 {object} Response "请求参数错误"
// @Failure 403 {object} Response "非管理员"
// @Router /admin/export/excel [get]
func (h *AdminHandler) ExportExcel(c *gin.Context) {
	startDate := c.Query("start_date")
	endDate := c.Query("end_date")

	if startDate == "" || endDate == "" {
		BadRequest(c, "请提供开始日期和结束日期")
		return
	}
	start, err := time.ParseInLocation(models.DateLayout, startDate, time.Local)
	if err != nil {
		BadRequest(c, "开始日期格式错误，应为: 2024-01-01")
		return
	}
	end, err := time.ParseInLocation(models.DateLayout, endDate, time.Local)
	if err != nil {
		BadRequest(c, "结束日期格式错误，应为: 2024-12-31")
		return
	}

	var expenses []ExpenseWithUser
	if err := database.DB.Model(&models.Expense{}).
		Select("expenses.*, users.username").
		Joins("LEFT JOIN users ON expenses.user_id = users.id").
		Where("expenses.date >= ? AND expenses.date <= ?", start, end).
		Order("expenses.date ASC, expenses.id ASC").
		Scan(&expenses).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询数据失败"))
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "消费记录"
	f.SetSheetName("Sheet1", sheetName)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 12, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4F81BD"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	dataStyle, _ := f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	f.SetColWidth(sheetName, "A", "A", 10)
	f.SetColWidth(sheetName, "B", "B", 15)
	f.SetColWidth(sheetName, "C", "C", 14)
	f.SetColWidth(sheetName, "D", "D", 12)
	f.SetColWidth(sheetName, "E", "E", 30)
	f.SetColWidth(sheetName, "F", "F", 12)

	headers := []string{"ID", "用户名", "日期", "类别", "描述", "金额"}
	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	var totalAmount float64
	for i := range expenses {
		e := &expenses[i]
		row := i + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), e.ID)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), e.Username)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), e.DateString())
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), e.Category)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), e.Description)
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), e.Amount)
		f.SetCellStyle(sheetName, fmt.Sprintf("A%d", row), fmt.Sprintf("F%d", row), dataStyle)
		totalAmount += e.Amount
	}

	summaryRow := len(expenses) + 2
	summaryStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"FFC000"}, Pattern: 1},
	})
	f.SetCellValue(sheetName, fmt.Sprintf("A%d", summaryRow), "合计")
	f.MergeCell(sheetName, fmt.Sprintf("A%d", summaryRow), fmt.Sprintf("E%d", summaryRow))
	f.SetCellValue(sheetName, fmt.Sprintf("F%d", summaryRow), totalAmount)
	f.SetCellStyle(sheetName, fmt.Sprintf("A%d", summaryRow), fmt.Sprintf("F%d", summaryRow), summaryStyle)

	filename := fmt.Sprintf("expenses_%s_%s.xlsx", startDate, endDate)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))

	if err := f.Write(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, Response{Code: 500, Message: "生成 Excel 失败"})
		return
	}
}
