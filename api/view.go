package api

import (
	"strconv"
	"time"

	"grocery/models"
	"grocery/service"
)

// notAvailable 缺失字段的展示文本，只在展示层使用
const notAvailable = "N/A"

const displayTimeLayout = "Mon Jan 2 3:04 PM"

// ProductView 营养查询结果展示
type ProductView struct {
	Barcode  string `json:"barcode"`
	Name     string `json:"name"`
	Brand    string `json:"brand"`
	Category string `json:"category"`
	Calories string `json:"calories"`
	Sugar    string `json:"sugar"`
	Protein  string `json:"protein"`
}

// NewProductView 缺失字段统一显示 N/A
func NewProductView(p *models.Product) ProductView {
	return ProductView{
		Barcode:  orNA(&p.Barcode),
		Name:     orNA(p.Name),
		Brand:    orNA(p.Brand),
		Category: orNA(p.Category),
		Calories: numberOrNA(p.Calories),
		Sugar:    numberOrNA(p.Sugar),
		Protein:  numberOrNA(p.Protein),
	}
}

func orNA(s *string) string {
	if s == nil || *s == "" {
		return notAvailable
	}
	return *s
}

func numberOrNA(v *float64) string {
	if v == nil {
		return notAvailable
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// ItemView 购物记录展示，时间转换到展示时区
type ItemView struct {
	ID       uint
	Amount   int
	Category string
	Shopper  string
	When     string
}

// DashboardView 首页数据
type DashboardView struct {
	Username   string
	Budget     int
	Spent      int
	Remaining  int
	OverBudget bool
	WeekStart  string
	Items      []ItemView
	Categories []string
	Error      string
}

func newItemView(item models.GroceryItem, loc *time.Location) ItemView {
	return ItemView{
		ID:       item.ID,
		Amount:   item.Amount,
		Category: item.Category,
		Shopper:  item.Shopper,
		When:     item.Time.In(loc).Format(displayTimeLayout),
	}
}

func newDashboardView(username string, s *service.WeekSummary, loc *time.Location) DashboardView {
	view := DashboardView{
		Username:   username,
		Budget:     s.Budget,
		Spent:      s.Spent,
		Remaining:  s.Remaining,
		OverBudget: s.Remaining < 0,
		WeekStart:  s.Start.Format("Mon Jan 2"),
		Items:      make([]ItemView, 0, len(s.Items)),
		Categories: models.GetCategories(),
	}
	for _, item := range s.Items {
		view.Items = append(view.Items, newItemView(item, loc))
	}
	return view
}
