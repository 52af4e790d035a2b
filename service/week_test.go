package service

import (
	"testing"
	"time"

	"grocery/models"

	"github.com/stretchr/testify/assert"
)

func TestWeekStart(t *testing.T) {
	monday := time.Date(2024, 5, 13, 0, 0, 0, 0, time.UTC)

	cases := []time.Time{
		time.Date(2024, 5, 13, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 5, 13, 23, 59, 59, 0, time.UTC),
		wednesday,
		time.Date(2024, 5, 19, 23, 59, 59, 0, time.UTC), // 周日仍属于本周
	}
	for _, now := range cases {
		assert.Equal(t, monday, WeekStart(now), now.String())
	}

	// 下周一跳到新的一周
	assert.Equal(t, monday.AddDate(0, 0, 7), WeekStart(time.Date(2024, 5, 20, 0, 0, 1, 0, time.UTC)))

	// 非 UTC 输入按 UTC 计算：丹佛周日晚上已是 UTC 周一
	denver, _ := time.LoadLocation("America/Denver")
	sundayNight := time.Date(2024, 5, 19, 20, 0, 0, 0, denver)
	assert.Equal(t, monday.AddDate(0, 0, 7), WeekStart(sundayNight))
}

func TestSummarize(t *testing.T) {
	budget := models.Budget{ID: 1, Budget: 100}
	items := []models.GroceryItem{
		{ID: 1, Amount: 20, BudgetID: 1, Time: wednesday.Add(-48 * time.Hour)},
		{ID: 2, Amount: 35, BudgetID: 1, Time: wednesday.Add(-time.Hour)},
	}

	s := Summarize(budget, items, wednesday)
	assert.Equal(t, 100, s.Budget)
	assert.Equal(t, 55, s.Spent)
	assert.Equal(t, 45, s.Remaining)
	assert.Equal(t, time.Date(2024, 5, 13, 0, 0, 0, 0, time.UTC), s.Start)
	// 最近的在前
	assert.Equal(t, []uint{2, 1}, []uint{s.Items[0].ID, s.Items[1].ID})
}

func TestSummarize_ExcludesOutsideWindowAndOtherBudgets(t *testing.T) {
	start := WeekStart(wednesday)
	budget := models.Budget{ID: 1, Budget: 50}
	items := []models.GroceryItem{
		// 周一零点边界包含在内
		{ID: 1, Amount: 10, BudgetID: 1, Time: start},
		// 上周
		{ID: 2, Amount: 99, BudgetID: 1, Time: start.Add(-time.Nanosecond)},
		// 别人的预算
		{ID: 3, Amount: 77, BudgetID: 2, Time: wednesday},
		// 退款
		{ID: 4, Amount: -5, BudgetID: 1, Time: wednesday.Add(-time.Minute)},
	}

	s := Summarize(budget, items, wednesday)
	assert.Equal(t, 5, s.Spent)
	assert.Equal(t, 45, s.Remaining)
	assert.Len(t, s.Items, 2)
}

func TestSummarize_NegativeRemaining(t *testing.T) {
	budget := models.Budget{ID: 3, Budget: 30}
	items := []models.GroceryItem{
		{Amount: 25, BudgetID: 3, Time: wednesday},
		{Amount: 25, BudgetID: 3, Time: wednesday},
	}
	s := Summarize(budget, items, wednesday)
	assert.Equal(t, 50, s.Spent)
	assert.Equal(t, -20, s.Remaining)
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(models.Budget{ID: 1, Budget: 80}, nil, wednesday)
	assert.Equal(t, 0, s.Spent)
	assert.Equal(t, 80, s.Remaining)
	assert.NotNil(t, s.Items)
	assert.Empty(t, s.Items)
}
