package service

import (
	"path/filepath"
	"testing"
	"time"

	"grocery/config"
	"grocery/database"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// 2024-05-15 是周三，本周从 2024-05-13 周一开始
var wednesday = time.Date(2024, 5, 15, 12, 0, 0, 0, time.UTC)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open(config.DatabaseConfig{
		Path:     filepath.Join(t.TempDir(), "test.db"),
		LogLevel: "silent",
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func newTestAccounts(db *gorm.DB) *Accounts {
	a := NewAccounts(db)
	a.hashCost = bcrypt.MinCost
	return a
}

func newTestLedger(db *gorm.DB, notifier BudgetNotifier) *Ledger {
	l := NewLedger(db, notifier)
	l.now = func() time.Time { return wednesday }
	return l
}
