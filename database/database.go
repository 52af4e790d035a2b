package database

import (
	"fmt"
	"log"
	"strings"

	"grocery/config"
	"grocery/models"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open 根据配置建立数据库连接并自动建表
// database.url 为空时回落到本地 sqlite 文件
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dialector, kind, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(parseLogLevel(cfg.LogLevel)),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	// 获取底层 *sql.DB 连接池配置
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if kind == "sqlite" {
		// sqlite 单写者，串行化避免 database is locked
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
	}

	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("自动建表失败: %w", err)
	}

	log.Printf("数据库初始化成功 (%s)", kind)
	return db, nil
}

// Migrate 自动迁移数据库表，表不存在时创建
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Budget{},
		&models.GroceryItem{},
	)
}

// Dialector 按连接串前缀选择驱动，返回驱动名称便于日志
func Dialector(cfg config.DatabaseConfig) (gorm.Dialector, string, error) {
	url := config.NormalizeDatabaseURL(cfg.URL)
	switch {
	case url == "":
		path := cfg.Path
		if path == "" {
			path = "grocery.db"
		}
		return sqlite.Open(path), "sqlite", nil
	case strings.HasPrefix(url, "postgresql://"):
		return postgres.Open(url), "postgres", nil
	case strings.HasPrefix(url, "mysql://"):
		return mysql.Open(mysqlDSN(strings.TrimPrefix(url, "mysql://"))), "mysql", nil
	case strings.HasPrefix(url, "sqlite://"):
		return sqlite.Open(strings.TrimPrefix(url, "sqlite://")), "sqlite", nil
	default:
		scheme, _, _ := strings.Cut(url, "://")
		return nil, "", fmt.Errorf("不支持的数据库类型: %s", scheme)
	}
}

// mysqlDSN 补齐 parseTime，否则 DATETIME 无法扫描到 time.Time
func mysqlDSN(dsn string) string {
	if strings.Contains(dsn, "parseTime=") {
		return dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&parseTime=True&loc=UTC"
	}
	return dsn + "?parseTime=True&loc=UTC"
}

func parseLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}
