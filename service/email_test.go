package service

import (
	"testing"
	"time"

	"grocery/config"

	"github.com/stretchr/testify/assert"
)

func TestGenerateOverBudgetBody(t *testing.T) {
	s := NewEmailService(&config.EmailConfig{})
	body := s.generateOverBudgetBody("<alice>", &WeekSummary{
		Budget:    100,
		Spent:     130,
		Remaining: -30,
		Start:     time.Date(2024, 5, 13, 0, 0, 0, 0, time.UTC),
	})
	assert.Contains(t, body, "&lt;alice&gt;")
	assert.Contains(t, body, "Mon May 13")
	assert.Contains(t, body, "Budget: $100")
	assert.Contains(t, body, "Spent: $130")
	assert.Contains(t, body, "Remaining: $-30")
}

func TestEmailService_Enabled(t *testing.T) {
	assert.False(t, NewEmailService(nil).Enabled())
	assert.False(t, NewEmailService(&config.EmailConfig{Enabled: true, Host: "smtp.example.com"}).Enabled())
	assert.True(t, NewEmailService(&config.EmailConfig{Enabled: true, Host: "smtp.example.com", To: "home@example.com"}).Enabled())

	err := NewEmailService(&config.EmailConfig{}).BudgetExceeded("alice", &WeekSummary{})
	assert.Error(t, err)
}
