package models

import (
	"time"
)

// Budget 月度预算模型
// (user_id, month, year) 为联合唯一键，设置预算时按该键原子覆盖（upsert）。
// 不使用软删除：软删除的残留行会与唯一键冲突，导致 upsert 语义失效。
type Budget struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"uniqueIndex:uk_budget_user_month_year;not null"`
	Month     string    `json:"month" gorm:"size:2;uniqueIndex:uk_budget_user_month_year;not null"` // 两位月份，如 "03"
	Year      string    `json:"year" gorm:"size:4;uniqueIndex:uk_budget_user_month_year;not null"`  // 四位年份，如 "2024"
	Amount    float64   `json:"amount" gorm:"type:decimal(10,2);not null;check:amount >= 0"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	User      User      `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// TableName 设置表名
func (Budget) TableName() string {
	return "budgets"
}
