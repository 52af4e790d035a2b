package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"grocery/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// bcrypt 只接受前 72 字节，超长密码直接拒绝
const maxPasswordBytes = 72

// Accounts 用户注册、登录与密码校验
type Accounts struct {
	db       *gorm.DB
	hashCost int
}

// NewAccounts 创建账户服务
func NewAccounts(db *gorm.DB) *Accounts {
	return &Accounts{db: db, hashCost: bcrypt.DefaultCost}
}

// Register 创建用户及其预算
// 用户名按原样保存，登录时精确匹配
// 用户、预算、回填 budget_id 在同一事务中完成，不会留下未关联预算的用户
func (a *Accounts) Register(ctx context.Context, username, password string) (*models.User, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", ErrValidation)
	}
	if err := checkPasswordLength(password); err != nil {
		return nil, err
	}

	hash, err := a.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := models.User{Username: username, PasswordHash: hash}
	err = a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 检查用户名是否已存在（唯一索引兜底并发注册）
		var existing models.User
		err := tx.Where("username = ?", username).First(&existing).Error
		if err == nil {
			return ErrConflict
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		budget := models.Budget{UserID: user.ID}
		if err := tx.Create(&budget).Error; err != nil {
			return err
		}
		user.BudgetID = &budget.ID
		return tx.Model(&user).Update("budget_id", budget.ID).Error
	})
	if err != nil {
		if errors.Is(err, ErrConflict) || errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return &user, nil
}

// Authenticate 校验用户名与密码
// 用户不存在与密码错误返回同一个错误，不泄露用户名是否存在
func (a *Accounts) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := a.FindUser(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrAuth
		}
		return nil, err
	}
	if !VerifyPassword(user.PasswordHash, password) {
		return nil, ErrAuth
	}
	return user, nil
}

// FindUser 按用户名查找，大小写敏感
func (a *Accounts) FindUser(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := a.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %q", ErrNotFound, username)
		}
		return nil, err
	}
	return &user, nil
}

// ChangePassword 校验旧密码后更新为新密码
func (a *Accounts) ChangePassword(ctx context.Context, username, oldPassword, newPassword string) error {
	if newPassword == "" {
		return fmt.Errorf("%w: new password is required", ErrValidation)
	}
	if err := checkPasswordLength(newPassword); err != nil {
		return err
	}
	user, err := a.Authenticate(ctx, username, oldPassword)
	if err != nil {
		return err
	}
	hash, err := a.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return a.db.WithContext(ctx).Model(user).Update("password_hash", hash).Error
}

func checkPasswordLength(password string) error {
	if len(password) > maxPasswordBytes {
		return ErrPasswordTooLong
	}
	return nil
}

// HashPassword 生成加盐哈希
func (a *Accounts) HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), a.hashCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

// VerifyPassword bcrypt 比较内部为常量时间
func VerifyPassword(storedHash, candidate string) bool {
	return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(candidate)) == nil
}
