package api

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"grocery/config"
	"grocery/middleware"
	"grocery/service"

	"github.com/gin-gonic/gin"
)

// DashboardHandler 本周预算看板与购物记录维护
type DashboardHandler struct {
	cfg    *config.Config
	ledger LedgerService
	loc    *time.Location
}

// NewDashboardHandler 创建看板处理器，loc 为展示时区
func NewDashboardHandler(cfg *config.Config, ledger LedgerService, loc *time.Location) *DashboardHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &DashboardHandler{cfg: cfg, ledger: ledger, loc: loc}
}

// PurchaseForm 新增购物记录表单
type PurchaseForm struct {
	Amount   string `form:"amount"`
	Category string `form:"category"`
	Shopper  string `form:"shopper"`
}

// BudgetForm 设置预算表单
type BudgetForm struct {
	Budget string `form:"budget"`
}

// AmountForm 修改金额表单
type AmountForm struct {
	Amount string `form:"amount"`
}

// Index 本周看板
func (h *DashboardHandler) Index(c *gin.Context) {
	h.renderDashboard(c, "")
}

// AddPurchase 新增购物记录后回到首页
func (h *DashboardHandler) AddPurchase(c *gin.Context) {
	var form PurchaseForm
	_ = c.ShouldBind(&form)

	amount, err := service.ParseAmount(form.Amount)
	if err != nil {
		h.renderDashboard(c, "Amount must be a whole number.")
		return
	}

	_, err = h.ledger.AddPurchase(c.Request.Context(), middleware.GetCurrentUsername(c), service.PurchaseInput{
		Amount:   amount,
		Category: form.Category,
		Shopper:  form.Shopper,
	})
	if err != nil {
		h.handleLedgerError(c, err, "There was an issue adding your purchase")
		return
	}
	c.Redirect(http.StatusFound, "/")
}

// SetBudget 更新每周预算
func (h *DashboardHandler) SetBudget(c *gin.Context) {
	var form BudgetForm
	_ = c.ShouldBind(&form)

	err := h.ledger.SetBudget(c.Request.Context(), middleware.GetCurrentUsername(c), form.Budget)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			h.renderDashboard(c, "Budget must be a whole number of dollars, zero or more.")
			return
		}
		h.handleLedgerError(c, err, "There was an issue updating your budget")
		return
	}
	c.Redirect(http.StatusFound, "/")
}

// EditPage 修改金额页面
func (h *DashboardHandler) EditPage(c *gin.Context) {
	id, ok := parseItemID(c)
	if !ok {
		return
	}
	item, err := h.ledger.GetPurchase(c.Request.Context(), middleware.GetCurrentUsername(c), id)
	if err != nil {
		h.itemError(c, err, "There was an issue finding that purchase")
		return
	}
	c.HTML(http.StatusOK, "edit.html", gin.H{"Item": newItemView(*item, h.loc)})
}

// Edit 只修改金额
func (h *DashboardHandler) Edit(c *gin.Context) {
	id, ok := parseItemID(c)
	if !ok {
		return
	}
	username := middleware.GetCurrentUsername(c)

	var form AmountForm
	_ = c.ShouldBind(&form)
	amount, err := service.ParseAmount(form.Amount)
	if err != nil {
		item, getErr := h.ledger.GetPurchase(c.Request.Context(), username, id)
		if getErr != nil {
			h.itemError(c, getErr, "There was an issue finding that purchase")
			return
		}
		c.HTML(http.StatusOK, "edit.html", gin.H{
			"Item":  newItemView(*item, h.loc),
			"Error": "Amount must be a whole number.",
		})
		return
	}

	if err := h.ledger.EditPurchase(c.Request.Context(), username, id, amount); err != nil {
		h.itemError(c, err, "There was an issue updating that purchase")
		return
	}
	c.Redirect(http.StatusFound, "/")
}

// Delete 删除购物记录
func (h *DashboardHandler) Delete(c *gin.Context) {
	id, ok := parseItemID(c)
	if !ok {
		return
	}
	if err := h.ledger.DeletePurchase(c.Request.Context(), middleware.GetCurrentUsername(c), id); err != nil {
		h.itemError(c, err, "There was a problem deleting that purchase")
		return
	}
	c.Redirect(http.StatusFound, "/")
}

func (h *DashboardHandler) renderDashboard(c *gin.Context, formError string) {
	username := middleware.GetCurrentUsername(c)
	summary, err := h.ledger.WeekSummary(c.Request.Context(), username)
	if err != nil {
		h.handleLedgerError(c, err, "There was an issue loading your budget")
		return
	}
	view := newDashboardView(username, summary, h.loc)
	view.Error = formError
	c.HTML(http.StatusOK, "index.html", view)
}

// handleLedgerError 预算缺失返回 400 纯文本，其他错误 500
func (h *DashboardHandler) handleLedgerError(c *gin.Context, err error, fallback string) {
	if errors.Is(err, service.ErrNotFound) {
		c.String(http.StatusBadRequest, "No budget is linked to your account.")
		return
	}
	log.Printf("%s: %v", fallback, err)
	c.String(http.StatusInternalServerError, h.cfg.SafeErrorMessage(err, fallback))
}

// itemError 修改/删除失败以纯文本返回
func (h *DashboardHandler) itemError(c *gin.Context, err error, fallback string) {
	if errors.Is(err, service.ErrNotFound) {
		c.String(http.StatusNotFound, fallback)
		return
	}
	log.Printf("%s: %v", fallback, err)
	c.String(http.StatusInternalServerError, fallback)
}

// parseItemID 非法 ID 与不存在的记录一样处理
func parseItemID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.String(http.StatusNotFound, "There was an issue finding that purchase")
		return 0, false
	}
	return uint(id), true
}
