package models

import "time"

// User 用户模型
// BudgetID 在注册事务完成后必然非空
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"uniqueIndex;size:80;not null"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"`
	BudgetID     *uint     `json:"budget_id" gorm:"index"`
	CreatedAt    time.Time `json:"created_at"`
}

// TableName 设置表名
func (User) TableName() string {
	return "user"
}
