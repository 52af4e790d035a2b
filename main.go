package main

import (
	"flag"
	"log"
	"strings"

	"grocery/config"
	"grocery/database"
	"grocery/middleware"
	"grocery/router"
	"grocery/service"
)

// @title Grocery Budget API
// @version 1.0
// @description 每周买菜预算记录：预算设置、购物记录、本周汇总及 Open Food Facts 营养查询
// @host localhost:5000
// @BasePath /
// @securityDefinitions.apikey SessionCookie
// @in cookie
// @name session

var (
	configFile  string
	port        string
	showVersion bool
)

func init() {
	flag.StringVar(&configFile, "config", "", "外部配置文件路径（可选）")
	flag.StringVar(&configFile, "c", "", "外部配置文件路径（简写）")
	flag.StringVar(&port, "port", "", "监听端口，如: 5000 或 :5000")
	flag.StringVar(&port, "p", "", "监听端口（简写）")
	flag.BoolVar(&showVersion, "version", false, "显示版本信息")
	flag.BoolVar(&showVersion, "v", false, "显示版本信息（简写）")
}

func main() {
	flag.Parse()

	if showVersion {
		log.Println("Grocery Budget v1.0.0")
		return
	}

	// 加载配置（内置配置 + 外部配置文件 + 环境变量）
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	// 命令行参数覆盖端口配置
	if port != "" {
		if !strings.HasPrefix(port, ":") {
			port = ":" + port
		}
		cfg.Server.Port = port
		log.Printf("命令行指定端口: %s", port)
	}

	cfg.PrintConfig()

	db, err := database.Open(cfg.Database)
	if err != nil {
		log.Fatalf("数据库初始化失败: %v", err)
	}

	loc, err := cfg.Display.Location()
	if err != nil {
		log.Fatalf("展示时区无效: %v", err)
	}

	accounts := service.NewAccounts(db)

	// 未配置邮件时不发送超支提醒
	var notifier service.BudgetNotifier
	if email := service.NewEmailService(&cfg.Email); email.Enabled() {
		notifier = email
	}
	ledger := service.NewLedger(db, notifier)

	r := router.SetupRouter(cfg, router.Services{
		Accounts:  accounts,
		Ledger:    ledger,
		Nutrition: service.NewNutritionClient(cfg.Nutrition),
		Sessions:  middleware.NewSessionManager(cfg),
		Location:  loc,
	})

	log.Printf("==========================================")
	log.Printf("  🛒 Grocery Budget 已启动")
	log.Printf("==========================================")
	log.Printf("  首页:     http://localhost%s/", cfg.Server.Port)
	log.Printf("  Swagger:  http://localhost%s/swagger/index.html", cfg.Server.Port)
	log.Printf("  API接口:  http://localhost%s/api/v1/", cfg.Server.Port)
	log.Printf("==========================================")

	if err := r.Run(cfg.Server.Port); err != nil {
		log.Fatalf("服务器启动失败: %v", err)
	}
}
