package models

// Budget 每周预算，每个用户一条
type Budget struct {
	ID     uint `json:"id" gorm:"primaryKey"`
	UserID uint `json:"user_id" gorm:"index;not null"`
	Budget int  `json:"budget" gorm:"not null;default:0"`
}

// TableName 设置表名
func (Budget) TableName() string {
	return "budget"
}
