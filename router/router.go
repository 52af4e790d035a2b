package router

import (
	"html/template"
	"net/http"
	"time"

	"grocery/api"
	"grocery/config"
	_ "grocery/docs"
	"grocery/middleware"
	"grocery/web"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// 登录、注册表单每个 IP 每分钟最多提交次数
const authAttemptsPerMinute = 10

// Services 路由依赖的业务服务
type Services struct {
	Accounts  api.AccountService
	Ledger    api.LedgerService
	Nutrition api.NutritionService
	Sessions  *middleware.SessionManager
	Location  *time.Location
}

// SetupRouter 设置路由
func SetupRouter(cfg *config.Config, svc Services) *gin.Engine {
	// 设置运行模式
	gin.SetMode(cfg.Server.Mode)

	r := gin.Default()

	// 嵌入的页面模板
	r.SetHTMLTemplate(template.Must(template.New("").ParseFS(web.TemplateFS, "templates/*.html")))

	r.Use(svc.Sessions.LoadSession())

	authHandler := api.NewAuthHandler(cfg, svc.Accounts, svc.Sessions)
	dashboardHandler := api.NewDashboardHandler(cfg, svc.Ledger, svc.Location)
	exportHandler := api.NewExportHandler(svc.Ledger, svc.Location)
	lookupHandler := api.NewLookupHandler(cfg, svc.Nutrition)
	apiHandler := api.NewAPIHandler(cfg, svc.Ledger, svc.Nutrition, svc.Location)

	// 登录注册（无需登录）
	limiter := middleware.LoginRateLimit(authAttemptsPerMinute, time.Minute)
	r.GET("/login", authHandler.LoginPage)
	r.POST("/login", limiter, authHandler.Login)
	r.GET("/register", authHandler.RegisterPage)
	r.POST("/register", limiter, authHandler.Register)
	r.GET("/logout", authHandler.Logout)
	r.POST("/logout", authHandler.Logout)

	// 需要登录的页面
	pages := r.Group("")
	pages.Use(svc.Sessions.RequireLogin(svc.Accounts))
	{
		pages.GET("/", dashboardHandler.Index)
		pages.POST("/", dashboardHandler.AddPurchase)
		pages.POST("/budget", dashboardHandler.SetBudget)
		pages.GET("/edit/:id", dashboardHandler.EditPage)
		pages.POST("/edit/:id", dashboardHandler.Edit)
		pages.GET("/delete/:id", dashboardHandler.Delete)
		pages.POST("/delete/:id", dashboardHandler.Delete)

		pages.GET("/export", exportHandler.ExportExcel)
		pages.GET("/export/csv", exportHandler.ExportCSV)

		pages.GET("/account", authHandler.AccountPage)
		pages.POST("/account/password", authHandler.ChangePassword)
	}

	// 营养查询（无需登录）
	r.GET("/lookup", lookupHandler.BarcodePage)
	r.POST("/lookup", lookupHandler.Barcode)
	r.GET("/lookup/name", lookupHandler.NamePage)
	r.POST("/lookup/name", lookupHandler.Name)
	r.GET("/what-page", lookupHandler.WhatPage)
	r.POST("/what-page", lookupHandler.WhatPage)
	r.GET("/test-api", lookupHandler.TestAPI)

	// Swagger 文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API v1 路由组（会话 Cookie 认证）
	v1 := r.Group("/api/v1")
	v1.Use(svc.Sessions.RequireAPIAuth(svc.Accounts))
	{
		v1.GET("/week", apiHandler.WeekSummary)
		v1.GET("/products", apiHandler.ProductByName)
		v1.GET("/products/:barcode", apiHandler.ProductByBarcode)
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	return r
}
