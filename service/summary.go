package service

import (
	"expensetracker/models"
)

// Summary 一次过滤结果集的聚合：总额、按类别求和、按月份求和
type Summary struct {
	Total           float64            `json:"total"`
	CategorySummary map[string]float64 `json:"category_summary"`
	MonthlySummary  map[string]float64 `json:"monthly_summary"`
}

// Summarize 对已过滤的消费记录做单次线性归并
// 类别键区分大小写；月份键为 ISO 日期的前 7 位（YYYY-MM）。
// 每次请求全量重算，不做缓存。
func Summarize(expenses []models.Expense) Summary {
	s := Summary{
		CategorySummary: make(map[string]float64),
		MonthlySummary:  make(map[string]float64),
	}
	for i := range expenses {
		e := &expenses[i]
		s.Total += e.Amount
		s.CategorySummary[e.Category] += e.Amount
		s.MonthlySummary[e.MonthKey()] += e.Amount
	}
	return s
}

// BudgetComparison 预算与实际支出的对比
type BudgetComparison struct {
	Month     string  `json:"month"`
	Year      string  `json:"year"`
	Budget    float64 `json:"budget"`
	Spent     float64 `json:"spent"`
	Remaining float64 `json:"remaining"`
	Over      bool    `json:"over"`
}

// CompareBudget 用过滤后的支出总额对比指定月份的预算
func CompareBudget(b *models.Budget, spent float64) *BudgetComparison {
	if b == nil {
		return nil
	}
	return &BudgetComparison{
		Month:     b.Month,
		Year:      b.Year,
		Budget:    b.Amount,
		Spent:     spent,
		Remaining: b.Amount - spent,
		Over:      spent > b.Amount,
	}
}
