package models

import "time"

// GroceryItem 一条购物记录
// Time 统一以 UTC 存储，只在展示时转换时区
type GroceryItem struct {
	ID       uint      `json:"id" gorm:"primaryKey"`
	Amount   int       `json:"amount" gorm:"not null"`
	Category string    `json:"category" gorm:"size:50"`
	Shopper  string    `json:"shopper" gorm:"size:50"`
	Time     time.Time `json:"time" gorm:"index;not null"`
	BudgetID uint      `json:"budget_id" gorm:"index;not null"`
}

// TableName 设置表名
func (GroceryItem) TableName() string {
	return "grocery_item"
}

// Category 常用类别，表单下拉框使用
const (
	CategoryProduce   = "Produce"
	CategoryMeat      = "Meat"
	CategoryDairy     = "Dairy"
	CategoryBakery    = "Bakery"
	CategoryPantry    = "Pantry"
	CategoryFrozen    = "Frozen"
	CategoryHousehold = "Household"
	CategoryOther     = "Other"
)

// GetCategories 获取所有购物类别
func GetCategories() []string {
	return []string{
		CategoryProduce,
		CategoryMeat,
		CategoryDairy,
		CategoryBakery,
		CategoryPantry,
		CategoryFrozen,
		CategoryHousehold,
		CategoryOther,
	}
}
