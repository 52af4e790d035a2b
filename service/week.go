package service

import (
	"sort"
	"time"

	"grocery/models"
)

// WeekSummary 本周预算汇总
type WeekSummary struct {
	BudgetID  uint                 `json:"budget_id"`
	Budget    int                  `json:"budget"`
	Spent     int                  `json:"spent"`
	Remaining int                  `json:"remaining"`
	Start     time.Time            `json:"week_start"`
	Items     []models.GroceryItem `json:"items"`
}

// WeekStart 返回 now 所在周的周一 00:00（UTC）
func WeekStart(now time.Time) time.Time {
	u := now.UTC()
	daysSinceMonday := (int(u.Weekday()) + 6) % 7
	y, m, d := u.Date()
	return time.Date(y, m, d-daysSinceMonday, 0, 0, 0, 0, time.UTC)
}

// Summarize 汇总本周消费
// 只统计属于该预算且 time >= 周一零点的记录，结果按时间倒序；remaining 可为负数
func Summarize(budget models.Budget, items []models.GroceryItem, now time.Time) WeekSummary {
	start := WeekStart(now)
	summary := WeekSummary{
		BudgetID: budget.ID,
		Budget:   budget.Budget,
		Start:    start,
		Items:    make([]models.GroceryItem, 0, len(items)),
	}
	for _, item := range items {
		if item.BudgetID != budget.ID || item.Time.Before(start) {
			continue
		}
		summary.Items = append(summary.Items, item)
		summary.Spent += item.Amount
	}
	sort.SliceStable(summary.Items, func(i, j int) bool {
		return summary.Items[i].Time.After(summary.Items[j].Time)
	})
	summary.Remaining = summary.Budget - summary.Spent
	return summary
}
