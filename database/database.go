package database

import (
	"fmt"
	"log"

	"expensetracker/config"
	"expensetracker/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Init 初始化数据库连接
func Init(cfg *config.Config) error {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=%s&parseTime=True&loc=Local",
		cfg.Database.Username,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.DBName,
		cfg.Database.Charset,
	)

	var err error
	DB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})
	if err != nil {
		return fmt.Errorf("连接数据库失败: %w", err)
	}

	// 连接池：每个请求借用连接、请求结束即归还，不跨请求持有
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	// 自动迁移数据库表
	if err := DB.AutoMigrate(
		&models.User{},
		&models.Expense{},
		&models.Budget{},
		&models.PasswordReset{},
	); err != nil {
		return err
	}

	if err := bootstrapAdmin(cfg); err != nil {
		return err
	}

	log.Println("数据库初始化成功")
	return nil
}

// bootstrapAdmin 按配置创建初始管理员（仅当该用户名不存在时）
// 注册接口不提供管理员入口，首个管理员只能由此产生
func bootstrapAdmin(cfg *config.Config) error {
	username := cfg.Admin.Username
	password := cfg.Admin.Password
	if username == "" || password == "" {
		return nil
	}

	var count int64
	DB.Model(&models.User{}).Where("username = ?", username).Count(&count)
	if count > 0 {
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("初始管理员密码加密失败: %w", err)
	}

	admin := models.User{
		Username: username,
		Password: string(hashed),
		IsAdmin:  true,
	}
	if err := DB.Create(&admin).Error; err != nil {
		return fmt.Errorf("创建初始管理员失败: %w", err)
	}
	log.Printf("已创建初始管理员: %s", username)
	return nil
}

// GetDB 获取数据库连接
func GetDB() *gorm.DB {
	return DB
}
