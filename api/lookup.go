package api

import (
	"errors"
	"log"
	"net/http"

	"grocery/config"
	"grocery/models"
	"grocery/service"

	"github.com/gin-gonic/gin"
)

// LookupHandler 营养信息查询页面
type LookupHandler struct {
	cfg       *config.Config
	nutrition NutritionService
}

// NewLookupHandler 创建营养查询处理器
func NewLookupHandler(cfg *config.Config, nutrition NutritionService) *LookupHandler {
	return &LookupHandler{cfg: cfg, nutrition: nutrition}
}

// BarcodeForm 条码查询表单
type BarcodeForm struct {
	Barcode string `form:"barcode"`
}

// NameForm 名称查询表单
type NameForm struct {
	Name string `form:"name"`
}

// BarcodePage 条码查询页
func (h *LookupHandler) BarcodePage(c *gin.Context) {
	c.HTML(http.StatusOK, "lookup.html", gin.H{})
}

// Barcode 按条码查询
func (h *LookupHandler) Barcode(c *gin.Context) {
	var form BarcodeForm
	_ = c.ShouldBind(&form)

	product, err := h.nutrition.LookupBarcode(c.Request.Context(), form.Barcode)
	c.HTML(http.StatusOK, "lookup.html", h.result(product, err, gin.H{"Barcode": form.Barcode}))
}

// NamePage 名称查询页
func (h *LookupHandler) NamePage(c *gin.Context) {
	c.HTML(http.StatusOK, "lookup_name.html", gin.H{})
}

// Name 按名称搜索，只展示第一条结果
func (h *LookupHandler) Name(c *gin.Context) {
	var form NameForm
	_ = c.ShouldBind(&form)

	product, err := h.nutrition.SearchByName(c.Request.Context(), form.Name)
	c.HTML(http.StatusOK, "lookup_name.html", h.result(product, err, gin.H{"Name": form.Name}))
}

// WhatPage 说明页
func (h *LookupHandler) WhatPage(c *gin.Context) {
	c.HTML(http.StatusOK, "what.html", gin.H{})
}

// TestAPI 用固定条码检查外部接口是否可用，结果只写日志
func (h *LookupHandler) TestAPI(c *gin.Context) {
	barcode := h.cfg.Nutrition.TestBarcode
	product, err := h.nutrition.LookupBarcode(c.Request.Context(), barcode)
	if err != nil {
		log.Printf("营养接口测试失败 (条码 %s): %v", barcode, err)
	} else {
		view := NewProductView(product)
		log.Printf("营养接口测试成功 (条码 %s): %+v", barcode, view)
	}
	c.String(http.StatusOK, "Lookup test finished, see server log.")
}

// result 外部接口的各种失败都渲染为页面上的错误提示
func (h *LookupHandler) result(product *models.Product, err error, data gin.H) gin.H {
	if err == nil {
		data["Product"] = NewProductView(product)
		return data
	}
	data["Error"] = lookupErrorMessage(err)
	if !errors.Is(err, service.ErrNotFound) && !errors.Is(err, service.ErrValidation) {
		log.Printf("营养查询失败: %v", err)
	}
	return data
}

func lookupErrorMessage(err error) string {
	switch {
	case errors.Is(err, service.ErrValidation):
		return "Please enter something to look up."
	case errors.Is(err, service.ErrNotFound):
		return "Product not found."
	case errors.Is(err, service.ErrLookupTimeout):
		return "The food database took too long to respond. Please try again."
	default:
		return "The food database is unavailable right now. Please try again later."
	}
}
