package config

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// devSessionSecret 仅用于 debug 模式，release 模式必须显式配置
const devSessionSecret = "grocery-dev-session-secret"

// MaxSearchPageSize 名称搜索每次最多取回的结果数
const MaxSearchPageSize = 5

// Config 应用配置
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Session   SessionConfig   `mapstructure:"session"`
	Nutrition NutritionConfig `mapstructure:"nutrition"`
	Display   DisplayConfig   `mapstructure:"display"`
	Email     EmailConfig     `mapstructure:"email"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port    string `mapstructure:"port"`
	Mode    string `mapstructure:"mode"`
	BaseURL string `mapstructure:"base_url"`
}

// DatabaseConfig 数据库配置
// URL 为空时使用 Path 指向的本地 sqlite 文件
type DatabaseConfig struct {
	URL      string `mapstructure:"url"`
	Path     string `mapstructure:"path"`
	LogLevel string `mapstructure:"log_level"`
}

// SessionConfig 会话 Cookie 配置
type SessionConfig struct {
	Secret      string        `mapstructure:"secret"`
	ExpireHours int           `mapstructure:"expire_hours"`
	CookieName  string        `mapstructure:"cookie_name"`
	ExpireTime  time.Duration `mapstructure:"-"`
}

// NutritionConfig 营养信息查询（Open Food Facts）配置
type NutritionConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	TimeoutSeconds int           `mapstructure:"timeout_seconds"`
	SearchPageSize int           `mapstructure:"search_page_size"`
	TestBarcode    string        `mapstructure:"test_barcode"`
	UserAgent      string        `mapstructure:"user_agent"`
	Timeout        time.Duration `mapstructure:"-"`
}

// DisplayConfig 页面展示配置
type DisplayConfig struct {
	Timezone string `mapstructure:"timezone"`
}

// EmailConfig 邮件配置（预算超支提醒）
type EmailConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
	To       string `mapstructure:"to"`
}

// LoadConfig 加载配置
// 优先级: 环境变量 > 外部配置文件 > 嵌入的默认配置
// configPath: 可选的外部配置文件路径
func LoadConfig(configPath string) (*Config, error) {
	// .env 文件可选，不存在时忽略
	if err := godotenv.Load(); err == nil {
		log.Println("已加载 .env 文件")
	}

	v := viper.New()
	v.SetConfigType("yaml")

	// 1. 首先加载嵌入的默认配置
	if err := v.ReadConfig(bytes.NewReader(DefaultConfigYAML)); err != nil {
		return nil, fmt.Errorf("读取内置配置失败: %w", err)
	}

	// 2. 尝试加载外部配置文件（可选，用于覆盖默认配置）
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.MergeInConfig(); err != nil {
			log.Printf("警告: 无法读取指定配置文件 %s: %v", configPath, err)
		} else {
			log.Printf("已合并外部配置文件: %s", configPath)
		}
	} else {
		externalViper := viper.New()
		externalViper.SetConfigName("config")
		externalViper.SetConfigType("yaml")
		externalViper.AddConfigPath(".")
		externalViper.AddConfigPath("./config")
		externalViper.AddConfigPath("/etc/grocery")
		externalViper.AddConfigPath("$HOME/.grocery")

		if err := externalViper.ReadInConfig(); err == nil {
			if err := v.MergeConfigMap(externalViper.AllSettings()); err != nil {
				log.Printf("警告: 合并外部配置失败: %v", err)
			} else {
				log.Printf("已合并外部配置文件: %s", externalViper.ConfigFileUsed())
			}
		}
	}

	// 3. 环境变量覆盖，GROCERY_DATABASE_URL 之类
	v.SetEnvPrefix("GROCERY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 兼容部署平台注入的变量名
	_ = v.BindEnv("database.url", "GROCERY_DATABASE_URL", "DATABASE_URL")
	_ = v.BindEnv("session.secret", "GROCERY_SESSION_SECRET", "SECRET_KEY")
	_ = v.BindEnv("server.port", "GROCERY_SERVER_PORT", "PORT")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	if err := cfg.finalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// MustLoadConfig 加载配置，失败则 panic
func MustLoadConfig(configPath string) *Config {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		panic(fmt.Sprintf("加载配置失败: %v", err))
	}
	return cfg
}

// finalize 补全派生字段并校验
func (c *Config) finalize() error {
	if c.Server.Port != "" && !strings.HasPrefix(c.Server.Port, ":") {
		c.Server.Port = ":" + c.Server.Port
	}

	c.Database.URL = NormalizeDatabaseURL(c.Database.URL)
	if c.Database.URL == "" && c.Database.Path == "" {
		c.Database.Path = "grocery.db"
	}

	if c.Session.ExpireHours <= 0 {
		c.Session.ExpireHours = 24
	}
	c.Session.ExpireTime = time.Duration(c.Session.ExpireHours) * time.Hour
	if c.Session.CookieName == "" {
		c.Session.CookieName = "session"
	}
	if c.Session.Secret == "" {
		if c.IsRelease() {
			return errors.New("release 模式必须配置 SECRET_KEY")
		}
		log.Println("警告: 未配置 SECRET_KEY，使用开发环境默认密钥")
		c.Session.Secret = devSessionSecret
	}

	if c.Nutrition.TimeoutSeconds <= 0 {
		c.Nutrition.TimeoutSeconds = 25
	}
	c.Nutrition.Timeout = time.Duration(c.Nutrition.TimeoutSeconds) * time.Second
	if c.Nutrition.SearchPageSize <= 0 || c.Nutrition.SearchPageSize > MaxSearchPageSize {
		c.Nutrition.SearchPageSize = MaxSearchPageSize
	}
	c.Nutrition.BaseURL = strings.TrimRight(c.Nutrition.BaseURL, "/")

	if _, err := c.Display.Location(); err != nil {
		return fmt.Errorf("无效的时区 %q: %w", c.Display.Timezone, err)
	}
	return nil
}

// NormalizeDatabaseURL 把 postgres:// 前缀改写为标准的 postgresql://
func NormalizeDatabaseURL(url string) string {
	url = strings.TrimSpace(url)
	if strings.HasPrefix(url, "postgres://") {
		return "postgresql://" + strings.TrimPrefix(url, "postgres://")
	}
	return url
}

// Location 返回展示用时区，未配置时为 UTC
func (d DisplayConfig) Location() (*time.Location, error) {
	if d.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(d.Timezone)
}

// IsRelease 是否为生产模式
func (c *Config) IsRelease() bool {
	return c != nil && c.Server.Mode == "release"
}

// SafeErrorMessage 生产环境下不向客户端暴露内部错误详情，避免信息泄露
func (c *Config) SafeErrorMessage(err error, fallback string) string {
	if err == nil || c.IsRelease() {
		return fallback
	}
	return err.Error()
}

// PrintConfig 打印当前配置（隐藏敏感信息）
func (c *Config) PrintConfig() {
	log.Printf("当前配置:")
	log.Printf("  服务器: %s (模式: %s)", c.Server.Port, c.Server.Mode)
	if c.Database.URL != "" {
		scheme, _, _ := strings.Cut(c.Database.URL, "://")
		log.Printf("  数据库: %s://***", scheme)
	} else {
		log.Printf("  数据库: sqlite %s", c.Database.Path)
	}
	log.Printf("  营养查询: %s (超时 %s)", c.Nutrition.BaseURL, c.Nutrition.Timeout)
	log.Printf("  展示时区: %s", c.Display.Timezone)
	log.Printf("  超支提醒邮件: %v", c.Email.Enabled)
}
