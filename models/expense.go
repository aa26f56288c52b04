package models

import (
	"time"

	"gorm.io/gorm"
)

// DateLayout 消费日期的标准格式（ISO-8601 日历日期）
const DateLayout = "2006-01-02"

// Expense 消费记录模型
// 金额非负由两层保证：handler 层校验 + 数据库 CHECK 约束
type Expense struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	UserID      uint           `json:"user_id" gorm:"index;not null"`
	Date        time.Time      `json:"date" gorm:"column:date;type:date;not null"`
	Category    string         `json:"category" gorm:"size:50;not null"`
	Description string         `json:"description" gorm:"size:255"`
	Amount      float64        `json:"amount" gorm:"type:decimal(10,2);not null;check:amount >= 0"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
	User        User           `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

// TableName 设置表名
func (Expense) TableName() string {
	return "expenses"
}

// DateString 返回 YYYY-MM-DD 格式的消费日期
func (e *Expense) DateString() string {
	return e.Date.Format(DateLayout)
}

// MonthKey 返回 YYYY-MM 格式的月份键（即 ISO 日期的前 7 位）
func (e *Expense) MonthKey() string {
	return e.Date.Format("2006-01")
}
