package api

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"

	"expensetracker/database"
	"expensetracker/middleware"
	"expensetracker/models"

	"github.com/gin-gonic/gin"
)

// ExportHandler 导出处理器
type ExportHandler struct{}

// NewExportHandler 创建导出处理器
func NewExportHandler() *ExportHandler {
	return &ExportHandler{}
}

// ExportCSV 导出本人消费记录为 CSV
// @Summary 导出消费记录
// @Description 导出当前用户的全部消费记录为 CSV 附件；无记录时带提示重定向回仪表盘，不产生空文件
// @Tags 导出
// @Produce text/csv
// @Success 200 {file} file "CSV 文件"
// @Success 302 "无记录，重定向到 /"
// @Router /export/csv [get]
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	userID := middleware.GetCurrentUserID(c)
	username := middleware.GetCurrentUsername(c)

	var expenses []models.Expense
	if err := database.DB.Where("user_id = ?", userID).
		Order("id ASC").
		Find(&expenses).Error; err != nil {
		InternalError(c, SafeErrorMessage(err, "查询数据失败"))
		return
	}

	if len(expenses) == 0 {
		middleware.SetFlash(c, "没有可导出的消费记录")
		c.Redirect(http.StatusFound, "/")
		return
	}

	buf := new(bytes.Buffer)
	// BOM 保证 Excel 正确识别 UTF-8
	buf.WriteString("\xEF\xBB\xBF")

	writer := csv.NewWriter(buf)

	headers := []string{"Date", "Category", "Description", "Amount"}
	if err := writer.Write(headers); err != nil {
		InternalError(c, "生成 CSV 失败")
		return
	}

	for i := range expenses {
		e := &expenses[i]
		row := []string{
			e.DateString(),
			e.Category,
			e.Description,
			fmt.Sprintf("%.2f", e.Amount),
		}
		if err := writer.Write(row); err != nil {
			InternalError(c, "生成 CSV 失败")
			return
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		InternalError(c, "生成 CSV 失败")
		return
	}

	filename := fmt.Sprintf("expenses_%s.csv", username)
	c.Header("Content-Type", "text/csv; charset=utf-8")
	// 用户名可能含空格等特殊字符，文件名必须带引号
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Header("Content-Length", fmt.Sprintf("%d", buf.Len()))

	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}
