package router

import (
	"time"

	"expensetracker/api"
	"expensetracker/config"
	_ "expensetracker/docs"
	"expensetracker/middleware"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// SetupRouter 设置路由
func SetupRouter(cfg *config.Config) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.Default()

	r.Use(CORSMiddleware())

	authHandler := api.NewAuthHandler(cfg)
	expenseHandler := api.NewExpenseHandler()
	budgetHandler := api.NewBudgetHandler()
	exportHandler := api.NewExportHandler()
	adminHandler := api.NewAdminHandler()
	passwordResetHandler := api.NewPasswordResetHandler(cfg)

	// 无需登录的路由
	r.GET("/register", authHandler.RegisterPage)
	r.POST("/register", authHandler.Register)
	r.GET("/login", authHandler.LoginPage)
	r.POST("/login", middleware.LoginRateLimit(10, time.Minute), authHandler.Login)
	r.GET("/logout", authHandler.Logout)
	r.POST("/password/request-reset", passwordResetHandler.RequestReset)
	r.POST("/password/reset", passwordResetHandler.ResetPassword)

	// 需要登录的路由
	authorized := r.Group("")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.GET("/", expenseHandler.Dashboard)
		authorized.GET("/add", expenseHandler.AddPage)
		authorized.POST("/add", expenseHandler.Create)
		authorized.GET("/edit/:id", expenseHandler.EditPage)
		authorized.POST("/edit/:id", expenseHandler.Update)
		authorized.GET("/delete/:id", expenseHandler.Delete)
		authorized.POST("/budget", budgetHandler.SetBudget)
		authorized.GET("/export/csv", exportHandler.ExportCSV)
		authorized.GET("/profile", authHandler.GetProfile)
		authorized.PUT("/password", authHandler.ChangePassword)

		// 管理员路由
		admin := authorized.Group("/admin")
		admin.Use(middleware.AdminRequired())
		{
			admin.GET("", adminHandler.Dashboard)
			admin.GET("/export/excel", adminHandler.ExportExcel)
		}
	}

	// Swagger 文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	return r
}

// CORSMiddleware CORS 跨域中间件
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
