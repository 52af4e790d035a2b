package api

import (
	"errors"
	"time"

	"grocery/config"
	"grocery/middleware"
	"grocery/models"
	"grocery/service"

	"github.com/gin-gonic/gin"
)

// APIHandler 供脚本和手机快捷指令使用的 JSON 接口
type APIHandler struct {
	cfg       *config.Config
	ledger    LedgerService
	nutrition NutritionService
	loc       *time.Location
}

// NewAPIHandler 创建 JSON 接口处理器
func NewAPIHandler(cfg *config.Config, ledger LedgerService, nutrition NutritionService, loc *time.Location) *APIHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &APIHandler{cfg: cfg, ledger: ledger, nutrition: nutrition, loc: loc}
}

// WeekItem 本周购物记录
type WeekItem struct {
	ID       uint      `json:"id" example:"12"`
	Amount   int       `json:"amount" example:"35"`
	Category string    `json:"category" example:"Dairy"`
	Shopper  string    `json:"shopper" example:"Sam"`
	Time     time.Time `json:"time"`
	Display  string    `json:"display_time" example:"Wed May 15 6:00 AM"`
}

// WeekSummaryResponse 本周汇总
type WeekSummaryResponse struct {
	Budget    int        `json:"budget" example:"100"`
	Spent     int        `json:"spent" example:"55"`
	Remaining int        `json:"remaining" example:"45"`
	WeekStart time.Time  `json:"week_start"`
	Items     []WeekItem `json:"items"`
}

// WeekSummary 获取本周汇总
// @Summary 获取本周预算汇总
// @Description 返回当前用户本周（周一 00:00 UTC 起）的预算、已花费、剩余及购物记录，记录按时间倒序
// @Tags 预算
// @Produce json
// @Success 200 {object} Response{data=WeekSummaryResponse} "获取成功"
// @Failure 400 {object} Response "未关联预算"
// @Failure 401 {object} Response "未登录"
// @Router /api/v1/week [get]
func (h *APIHandler) WeekSummary(c *gin.Context) {
	summary, err := h.ledger.WeekSummary(c.Request.Context(), middleware.GetCurrentUsername(c))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			BadRequest(c, "no budget linked to this account")
			return
		}
		InternalError(c, h.cfg.SafeErrorMessage(err, "failed to load summary"))
		return
	}

	resp := WeekSummaryResponse{
		Budget:    summary.Budget,
		Spent:     summary.Spent,
		Remaining: summary.Remaining,
		WeekStart: summary.Start,
		Items:     make([]WeekItem, 0, len(summary.Items)),
	}
	for _, item := range summary.Items {
		resp.Items = append(resp.Items, WeekItem{
			ID:       item.ID,
			Amount:   item.Amount,
			Category: item.Category,
			Shopper:  item.Shopper,
			Time:     item.Time,
			Display:  item.Time.In(h.loc).Format(displayTimeLayout),
		})
	}
	Success(c, resp)
}

// ProductByBarcode 按条码查询营养信息
// @Summary 按条码查询营养信息
// @Description 调用 Open Food Facts，缺失字段为 N/A
// @Tags 营养查询
// @Produce json
// @Param barcode path string true "商品条码"
// @Success 200 {object} Response{data=ProductView} "查询成功"
// @Failure 404 {object} Response "未找到"
// @Failure 502 {object} Response "外部服务异常"
// @Failure 504 {object} Response "外部服务超时"
// @Router /api/v1/products/{barcode} [get]
func (h *APIHandler) ProductByBarcode(c *gin.Context) {
	product, err := h.nutrition.LookupBarcode(c.Request.Context(), c.Param("barcode"))
	h.writeProduct(c, product, err)
}

// ProductByName 按名称搜索营养信息
// @Summary 按名称搜索营养信息
// @Description 最多取 5 条搜索结果中的第一条
// @Tags 营养查询
// @Produce json
// @Param name query string true "商品名称"
// @Success 200 {object} Response{data=ProductView} "查询成功"
// @Failure 400 {object} Response "缺少名称"
// @Failure 404 {object} Response "未找到"
// @Failure 502 {object} Response "外部服务异常"
// @Failure 504 {object} Response "外部服务超时"
// @Router /api/v1/products [get]
func (h *APIHandler) ProductByName(c *gin.Context) {
	product, err := h.nutrition.SearchByName(c.Request.Context(), c.Query("name"))
	h.writeProduct(c, product, err)
}

func (h *APIHandler) writeProduct(c *gin.Context, product *models.Product, err error) {
	if err == nil {
		Success(c, NewProductView(product))
		return
	}
	msg := lookupErrorMessage(err)
	switch {
	case errors.Is(err, service.ErrValidation):
		BadRequest(c, msg)
	case errors.Is(err, service.ErrNotFound):
		NotFound(c, msg)
	case errors.Is(err, service.ErrLookupTimeout):
		GatewayTimeout(c, msg)
	default:
		BadGateway(c, msg)
	}
}
