package api

import (
	"context"
	"html/template"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"grocery/config"
	"grocery/database"
	"grocery/middleware"
	"grocery/models"
	"grocery/service"
	"grocery/web"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig() *config.Config {
	return &config.Config{
		Server:  config.ServerConfig{Mode: "test"},
		Session: config.SessionConfig{Secret: "test-secret", ExpireTime: time.Hour, CookieName: "session"},
		Nutrition: config.NutritionConfig{
			TestBarcode: "737628064502",
		},
	}
}

func testTemplates() *template.Template {
	return template.Must(template.New("").ParseFS(web.TemplateFS, "templates/*.html"))
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(config.DatabaseConfig{
		Path:     filepath.Join(t.TempDir(), "api.db"),
		LogLevel: "silent",
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// fakeNutrition 按条码/名称返回预置结果
type fakeNutrition struct {
	products map[string]*models.Product
	err      error
}

func (f *fakeNutrition) LookupBarcode(_ context.Context, barcode string) (*models.Product, error) {
	return f.find(barcode)
}

func (f *fakeNutrition) SearchByName(_ context.Context, name string) (*models.Product, error) {
	return f.find(name)
}

func (f *fakeNutrition) find(key string) (*models.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	if strings.TrimSpace(key) == "" {
		return nil, service.ErrValidation
	}
	if p, ok := f.products[key]; ok {
		return p, nil
	}
	return nil, service.ErrNotFound
}

type testEnv struct {
	cfg       *config.Config
	db        *gorm.DB
	accounts  *service.Accounts
	ledger    *service.Ledger
	sessions  *middleware.SessionManager
	nutrition *fakeNutrition
	engine    *gin.Engine
}

// newTestEnv 使用 sqlite 与真实模板组装页面路由
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	cfg := testConfig()
	db := newTestDB(t)
	env := &testEnv{
		cfg:       cfg,
		db:        db,
		accounts:  service.NewAccounts(db),
		ledger:    service.NewLedger(db, nil),
		sessions:  middleware.NewSessionManager(cfg),
		nutrition: &fakeNutrition{products: map[string]*models.Product{}},
	}

	r := gin.New()
	r.SetHTMLTemplate(testTemplates())
	r.Use(env.sessions.LoadSession())

	auth := NewAuthHandler(cfg, env.accounts, env.sessions)
	r.GET("/login", auth.LoginPage)
	r.POST("/login", auth.Login)
	r.GET("/register", auth.RegisterPage)
	r.POST("/register", auth.Register)
	r.GET("/logout", auth.Logout)

	dashboard := NewDashboardHandler(cfg, env.ledger, time.UTC)
	exports := NewExportHandler(env.ledger, time.UTC)
	lookup := NewLookupHandler(cfg, env.nutrition)
	jsonAPI := NewAPIHandler(cfg, env.ledger, env.nutrition, time.UTC)

	pages := r.Group("")
	pages.Use(env.sessions.RequireLogin(env.accounts))
	pages.GET("/", dashboard.Index)
	pages.POST("/", dashboard.AddPurchase)
	pages.POST("/budget", dashboard.SetBudget)
	pages.GET("/edit/:id", dashboard.EditPage)
	pages.POST("/edit/:id", dashboard.Edit)
	pages.GET("/delete/:id", dashboard.Delete)
	pages.POST("/delete/:id", dashboard.Delete)
	pages.GET("/export", exports.ExportExcel)
	pages.GET("/export/csv", exports.ExportCSV)
	pages.GET("/account", auth.AccountPage)
	pages.POST("/account/password", auth.ChangePassword)

	r.GET("/lookup", lookup.BarcodePage)
	r.POST("/lookup", lookup.Barcode)
	r.POST("/lookup/name", lookup.Name)
	r.GET("/what-page", lookup.WhatPage)
	r.GET("/test-api", lookup.TestAPI)

	v1 := r.Group("/api/v1")
	v1.Use(env.sessions.RequireAPIAuth(env.accounts))
	v1.GET("/week", jsonAPI.WeekSummary)
	v1.GET("/products", jsonAPI.ProductByName)
	v1.GET("/products/:barcode", jsonAPI.ProductByBarcode)

	env.engine = r
	return env
}

// register 直接通过服务创建用户并返回会话 Cookie
func (e *testEnv) register(t *testing.T, username string) *http.Cookie {
	t.Helper()
	_, err := e.accounts.Register(context.Background(), username, "password123")
	require.NoError(t, err)
	token, err := e.sessions.GenerateToken(username)
	require.NoError(t, err)
	return &http.Cookie{Name: e.cfg.Session.CookieName, Value: token}
}

func (e *testEnv) get(path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

func (e *testEnv) postForm(path string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

func sessionCookie(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
