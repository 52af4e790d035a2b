package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"grocery/models"

	"gorm.io/gorm"
)

// BudgetNotifier 本周消费首次超出预算时调用
type BudgetNotifier interface {
	BudgetExceeded(username string, summary *WeekSummary) error
}

// PurchaseInput 新增购物记录参数
type PurchaseInput struct {
	Amount   int
	Category string
	Shopper  string
}

// Ledger 预算与购物记录
// 所有记录操作都以当前会话用户为准，只能访问自己预算下的记录
type Ledger struct {
	db       *gorm.DB
	notifier BudgetNotifier
	now      func() time.Time
}

// NewLedger 创建账本服务，notifier 可为 nil
func NewLedger(db *gorm.DB, notifier BudgetNotifier) *Ledger {
	return &Ledger{db: db, notifier: notifier, now: time.Now}
}

// ParseBudget 预算只接受非负整数字符串
func ParseBudget(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("%w: budget is required", ErrValidation)
	}
	for _, r := range raw {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("%w: budget must be a whole number of dollars", ErrValidation)
		}
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: budget is too large", ErrValidation)
	}
	return v, nil
}

// ParseAmount 金额为整数，允许负数（退款）
func ParseAmount(raw string) (int, error) {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%w: amount must be a whole number", ErrValidation)
	}
	return v, nil
}

// SetBudget 覆盖当前用户的每周预算
func (l *Ledger) SetBudget(ctx context.Context, username, raw string) error {
	value, err := ParseBudget(raw)
	if err != nil {
		return err
	}
	budget, err := l.budgetFor(ctx, username)
	if err != nil {
		return err
	}
	return l.db.WithContext(ctx).Model(budget).Update("budget", value).Error
}

// AddPurchase 记录一笔购物，时间为当前 UTC
func (l *Ledger) AddPurchase(ctx context.Context, username string, in PurchaseInput) (*models.GroceryItem, error) {
	budget, err := l.budgetFor(ctx, username)
	if err != nil {
		return nil, err
	}

	item := models.GroceryItem{
		Amount:   in.Amount,
		Category: strings.TrimSpace(in.Category),
		Shopper:  strings.TrimSpace(in.Shopper),
		Time:     l.now().UTC(),
		BudgetID: budget.ID,
	}
	if err := l.db.WithContext(ctx).Create(&item).Error; err != nil {
		return nil, fmt.Errorf("create purchase: %w", err)
	}

	if l.notifier != nil {
		l.notifyIfExceeded(ctx, username, budget, item.Amount)
	}
	return &item, nil
}

// notifyIfExceeded 只在本笔消费让剩余额度由非负变为负数时提醒一次
func (l *Ledger) notifyIfExceeded(ctx context.Context, username string, budget *models.Budget, amount int) {
	summary, err := l.summarize(ctx, budget)
	if err != nil {
		log.Printf("超支检查失败: %v", err)
		return
	}
	if summary.Remaining >= 0 || summary.Remaining+amount < 0 {
		return
	}
	if err := l.notifier.BudgetExceeded(username, summary); err != nil {
		log.Printf("发送超支提醒失败: %v", err)
	}
}

// GetPurchase 获取当前用户的一条记录
func (l *Ledger) GetPurchase(ctx context.Context, username string, id uint) (*models.GroceryItem, error) {
	budget, err := l.budgetFor(ctx, username)
	if err != nil {
		return nil, err
	}
	return l.ownedItem(ctx, budget, id)
}

// EditPurchase 只修改金额，类别、购物人和时间保持不变
func (l *Ledger) EditPurchase(ctx context.Context, username string, id uint, amount int) error {
	budget, err := l.budgetFor(ctx, username)
	if err != nil {
		return err
	}
	item, err := l.ownedItem(ctx, budget, id)
	if err != nil {
		return err
	}
	return l.db.WithContext(ctx).Model(item).Update("amount", amount).Error
}

// DeletePurchase 删除当前用户的一条记录
func (l *Ledger) DeletePurchase(ctx context.Context, username string, id uint) error {
	budget, err := l.budgetFor(ctx, username)
	if err != nil {
		return err
	}
	item, err := l.ownedItem(ctx, budget, id)
	if err != nil {
		return err
	}
	return l.db.WithContext(ctx).Delete(item).Error
}

// WeekSummary 当前用户本周的预算、已花费和剩余
func (l *Ledger) WeekSummary(ctx context.Context, username string) (*WeekSummary, error) {
	budget, err := l.budgetFor(ctx, username)
	if err != nil {
		return nil, err
	}
	return l.summarize(ctx, budget)
}

func (l *Ledger) summarize(ctx context.Context, budget *models.Budget) (*WeekSummary, error) {
	now := l.now()
	var items []models.GroceryItem
	err := l.db.WithContext(ctx).
		Where("budget_id = ? AND time >= ?", budget.ID, WeekStart(now)).
		Order("time DESC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	summary := Summarize(*budget, items, now)
	return &summary, nil
}

// budgetFor 解析会话用户关联的预算
func (l *Ledger) budgetFor(ctx context.Context, username string) (*models.Budget, error) {
	var user models.User
	if err := l.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %q", ErrNotFound, username)
		}
		return nil, err
	}
	if user.BudgetID == nil {
		return nil, fmt.Errorf("%w: no budget linked to %q", ErrNotFound, username)
	}

	var budget models.Budget
	if err := l.db.WithContext(ctx).First(&budget, *user.BudgetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: budget %d", ErrNotFound, *user.BudgetID)
		}
		return nil, err
	}
	return &budget, nil
}

// ownedItem 别人的记录与不存在的记录一样返回 ErrNotFound
func (l *Ledger) ownedItem(ctx context.Context, budget *models.Budget, id uint) (*models.GroceryItem, error) {
	var item models.GroceryItem
	err := l.db.WithContext(ctx).Where("id = ? AND budget_id = ?", id, budget.ID).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: purchase %d", ErrNotFound, id)
		}
		return nil, err
	}
	return &item, nil
}
