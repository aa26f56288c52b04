package api

import (
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"expensetracker/middleware"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminHandler_Dashboard(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	now := time.Now()
	d1 := time.Date(2024, 3, 10, 0, 0, 0, 0, time.Local)
	d2 := time.Date(2024, 3, 15, 0, 0, 0, 0, time.Local)

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `expenses`").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(2))

	// 含全部用户的记录并联出归属用户名
	mock.ExpectQuery("SELECT .* FROM `expenses`").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "date", "category", "description", "amount",
			"created_at", "updated_at", "deleted_at", "username",
		}).
			AddRow(1, 1, d1, "Food", "午餐", 15.0, now, now, nil, "alice").
			AddRow(2, 2, d2, "Rent", "房租", 100.0, now, now, nil, "bob"))

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"count(*)"}).AddRow(2))

	mock.ExpectQuery("SELECT COALESCE\\(SUM\\(amount\\), 0\\) FROM `expenses`").
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(115.0))

	router := gin.New()
	router.GET("/admin", setSessionMiddleware(99, "admin", true), middleware.AdminRequired(), NewAdminHandler().Dashboard)

	req := httptest.NewRequest("GET", "/admin", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)

	var resp struct {
		Code int `json:"code"`
		Data struct {
			Expenses struct {
				Total int64 `json:"total"`
				List  []struct {
					ID       uint    `json:"id"`
					Username string  `json:"username"`
					Amount   float64 `json:"amount"`
				} `json:"list"`
			} `json:"expenses"`
			UserCount   int64   `json:"user_count"`
			TotalAmount float64 `json:"total_amount"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(2), resp.Data.Expenses.Total)
	require.Len(t, resp.Data.Expenses.List, 2)
	assert.Equal(t, "alice", resp.Data.Expenses.List[0].Username)
	assert.Equal(t, "bob", resp.Data.Expenses.List[1].Username)
	assert.Equal(t, int64(2), resp.Data.UserCount)
	assert.InDelta(t, 115.0, resp.Data.TotalAmount, 0.001)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminHandler_Dashboard_NonAdminForbidden(t *testing.T) {
	_, cleanup := setupMockDB(t)
	defer cleanup()

	router := gin.New()
	router.GET("/admin", setSessionMiddleware(1, "alice", false), middleware.AdminRequired(), NewAdminHandler().Dashboard)

	req := httptest.NewRequest("GET", "/admin", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	// 普通用户硬拒绝，不重定向
	assert.Equal(t, 403, w.Code)
	assert.Contains(t, w.Body.String(), "权限不足")
}

func TestAdminHandler_ExportExcel_MissingDates(t *testing.T) {
	_, cleanup := setupMockDB(t)
	defer cleanup()

	router := gin.New()
	router.GET("/admin/export/excel", setSessionMiddleware(99, "admin", true), NewAdminHandler().ExportExcel)

	req := httptest.NewRequest("GET", "/admin/export/excel", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 400, w.Code)
	assert.Contains(t, w.Body.String(), "请提供开始日期和结束日期")
}

func TestAdminHandler_ExportExcel(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	now := time.Now()
	d := time.Date(2024, 3, 10, 0, 0, 0, 0, time.Local)
	mock.ExpectQuery("SELECT .* FROM `expenses`").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "user_id", "date", "category", "description", "amount",
			"created_at", "updated_at", "deleted_at", "username",
		}).AddRow(1, 1, d, "Food", "午餐", 15.0, now, now, nil, "alice"))

	router := gin.New()
	router.GET("/admin/export/excel", setSessionMiddleware(99, "admin", true), NewAdminHandler().ExportExcel)

	req := httptest.NewRequest("GET", "/admin/export/excel?start_date=2024-03-01&end_date=2024-03-31", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, 200, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "expenses_2024-03-01_2024-03-31.xlsx")
	assert.NotZero(t, w.Body.Len())
	require.NoError(t, mock.ExpectationsWereMet())
}
