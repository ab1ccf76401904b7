package service

import (
	"testing"
	"time"

	"sispar/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func historyEntry(value float64, expenseType string, date time.Time, status models.Status) *models.Reimbursement {
	return &models.Reimbursement{
		Expense:     decimal.NewFromFloat(value),
		ExpenseType: expenseType,
		Date:        date,
		Status:      status,
	}
}

func TestAnalyzePatternsInsufficientHistory(t *testing.T) {
	now := time.Now()
	current := historyEntry(5000, "Combustível", now, models.StatusPending)
	history := []*models.Reimbursement{
		historyEntry(100, "Alimentação", now.AddDate(0, 0, -10), models.StatusApproved),
		historyEntry(110, "Alimentação", now.AddDate(0, 0, -5), models.StatusApproved),
	}

	flags := AnalyzePatterns(current, history)

	// Two prior records are below the minimum; nothing may be flagged.
	assert.False(t, flags.ValueOutlier)
	assert.True(t, flags.FrequencyNormal)
	assert.True(t, flags.TypeCommon)
}

func TestAnalyzePatternsValueOutlier(t *testing.T) {
	now := time.Now()
	history := []*models.Reimbursement{
		historyEntry(90, "Alimentação", now.AddDate(0, 0, -40), models.StatusApproved),
		historyEntry(100, "Alimentação", now.AddDate(0, 0, -30), models.StatusApproved),
		historyEntry(110, "Alimentação", now.AddDate(0, 0, -20), models.StatusApproved),
		historyEntry(105, "Alimentação", now.AddDate(0, 0, -10), models.StatusApproved),
	}
	current := historyEntry(500, "Alimentação", now, models.StatusPending)

	flags := AnalyzePatterns(current, history)

	assert.True(t, flags.ValueOutlier)
	assert.True(t, flags.FrequencyNormal)
}

func TestAnalyzePatternsValueWithinRange(t *testing.T) {
	now := time.Now()
	history := []*models.Reimbursement{
		historyEntry(90, "Alimentação", now.AddDate(0, 0, -40), models.StatusApproved),
		historyEntry(100, "Alimentação", now.AddDate(0, 0, -30), models.StatusApproved),
		historyEntry(110, "Alimentação", now.AddDate(0, 0, -20), models.StatusApproved),
	}
	current := historyEntry(105, "Alimentação", now, models.StatusPending)

	flags := AnalyzePatterns(current, history)

	assert.False(t, flags.ValueOutlier)
}

func TestAnalyzePatternsHighFrequency(t *testing.T) {
	now := time.Now()
	history := []*models.Reimbursement{
		historyEntry(100, "Alimentação", now.AddDate(0, 0, -3), models.StatusApproved),
		historyEntry(100, "Alimentação", now.AddDate(0, 0, -2), models.StatusApproved),
		historyEntry(100, "Alimentação", now.AddDate(0, 0, -1), models.StatusApproved),
	}
	current := historyEntry(100, "Alimentação", now, models.StatusPending)

	flags := AnalyzePatterns(current, history)

	// One-day mean interval is below the two-day threshold.
	assert.False(t, flags.FrequencyNormal)
}

func TestAnalyzePatternsUncommonType(t *testing.T) {
	now := time.Now()
	history := []*models.Reimbursement{
		historyEntry(100, "Alimentação", now.AddDate(0, 0, -60), models.StatusApproved),
		historyEntry(100, "Alimentação", now.AddDate(0, 0, -40), models.StatusApproved),
		historyEntry(100, "Alimentação", now.AddDate(0, 0, -20), models.StatusApproved),
		historyEntry(100, "Alimentação", now.AddDate(0, 0, -10), models.StatusApproved),
	}
	current := historyEntry(100, "Hospedagem", now, models.StatusPending)

	flags := AnalyzePatterns(current, history)

	assert.False(t, flags.TypeCommon)
}

func TestAnalyzeHistoryEmpty(t *testing.T) {
	stats := AnalyzeHistory(nil, time.Now())

	assert.Equal(t, 0, stats.TotalRequests)
	assert.Zero(t, stats.ApprovalRate)
	assert.Empty(t, stats.LastRequest)
}

func TestAnalyzeHistoryStats(t *testing.T) {
	now := time.Now()
	history := []*models.Reimbursement{
		historyEntry(300, "Alimentação", now.AddDate(0, 0, -90), models.StatusApproved),
		historyEntry(300, "Alimentação", now.AddDate(0, 0, -60), models.StatusApproved),
		historyEntry(300, "Alimentação", now.AddDate(0, 0, -30), models.StatusRejected),
		historyEntry(300, "Alimentação", now.AddDate(0, 0, -15), models.StatusPending),
	}

	stats := AnalyzeHistory(history, now)

	assert.Equal(t, 4, stats.TotalRequests)
	assert.Equal(t, 2, stats.TotalApproved)
	assert.Equal(t, 1, stats.TotalRejected)
	assert.Equal(t, 50.0, stats.ApprovalRate)
	// 1200 over the last 180 days divided by 6 months.
	assert.Equal(t, 200.0, stats.AvgMonthlyValue)
	assert.NotEmpty(t, stats.LastRequest)
	assert.Equal(t, 25.0, stats.MeanIntervalDays)
}
