package api

import (
	"context"

	"grocery/models"
	"grocery/service"
)

// AccountService 账户相关操作
type AccountService interface {
	Register(ctx context.Context, username, password string) (*models.User, error)
	Authenticate(ctx context.Context, username, password string) (*models.User, error)
	FindUser(ctx context.Context, username string) (*models.User, error)
	ChangePassword(ctx context.Context, username, oldPassword, newPassword string) error
}

// LedgerService 预算与购物记录操作，均以会话用户名为准
type LedgerService interface {
	SetBudget(ctx context.Context, username, raw string) error
	AddPurchase(ctx context.Context, username string, in service.PurchaseInput) (*models.GroceryItem, error)
	GetPurchase(ctx context.Context, username string, id uint) (*models.GroceryItem, error)
	EditPurchase(ctx context.Context, username string, id uint, amount int) error
	DeletePurchase(ctx context.Context, username string, id uint) error
	WeekSummary(ctx context.Context, username string) (*service.WeekSummary, error)
}

// NutritionService 营养信息查询
type NutritionService interface {
	LookupBarcode(ctx context.Context, barcode string) (*models.Product, error)
	SearchByName(ctx context.Context, name string) (*models.Product, error)
}
