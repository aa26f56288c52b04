package models

import (
	"time"

	"gorm.io/gorm"
)

// User 用户模型
type User struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	// 用户名比较区分大小写，MySQL 默认排序规则不区分，因此显式指定 utf8mb4_bin
	Username  string         `json:"username" gorm:"type:varchar(50) COLLATE utf8mb4_bin;uniqueIndex;not null"`
	Password  string         `json:"-" gorm:"size:255;not null"`
	Email     string         `json:"email" gorm:"size:100"` // 可选，用于找回密码
	IsAdmin   bool           `json:"is_admin" gorm:"default:false;index"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// TableName 设置表名
func (User) TableName() string {
	return "users"
}
