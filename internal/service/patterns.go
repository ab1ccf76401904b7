package service

import (
	"math"
	"sort"
	"time"

	"sispar/internal/models"
)

// minHistoryForPatterns is the number of prior requests required before
// any behavioral flag can fire. Below it everything reports normal so
// that new collaborators are never auto-flagged.
const minHistoryForPatterns = 3

// HistoryStats summarizes a collaborator's reimbursement history for the
// analysis record.
type HistoryStats struct {
	TotalRequests    int     `json:"total_reembolsos"`
	TotalApproved    int     `json:"total_aprovados"`
	TotalRejected    int     `json:"total_rejeitados"`
	ApprovalRate     float64 `json:"taxa_aprovacao"`
	AvgMonthlyValue  float64 `json:"valor_medio_mensal"`
	LastRequest      string  `json:"ultima_solicitacao,omitempty"`
	MeanIntervalDays float64 `json:"frequencia_media_dias"`
}

// AnalyzeHistory computes aggregate statistics over a collaborator's
// reimbursements. The monthly average covers the last six months.
func AnalyzeHistory(history []*models.Reimbursement, now time.Time) HistoryStats {
	stats := HistoryStats{TotalRequests: len(history)}
	if len(history) == 0 {
		return stats
	}

	for _, r := range history {
		switch r.Status {
		case models.StatusApproved:
			stats.TotalApproved++
		case models.StatusRejected:
			stats.TotalRejected++
		}
	}
	stats.ApprovalRate = round2(float64(stats.TotalApproved) / float64(len(history)) * 100)

	sixMonthsAgo := now.AddDate(0, 0, -180)
	var recentTotal float64
	var hasRecent bool
	for _, r := range history {
		if !r.Date.Before(sixMonthsAgo) {
			recentTotal += r.Expense.InexactFloat64()
			hasRecent = true
		}
	}
	if hasRecent {
		stats.AvgMonthlyValue = round2(recentTotal / 6)
	}

	dates := requestDates(history)
	if len(dates) > 0 {
		stats.LastRequest = dates[len(dates)-1].Format(time.RFC3339)
	}
	stats.MeanIntervalDays = round1(meanIntervalDays(dates))

	return stats
}

// AnalyzePatterns flags deviations of the current request from the
// collaborator's history: declared value beyond two standard deviations
// of the historical mean, mean interval between requests under two days,
// and an expense type under 20% of the historical type distribution.
// With fewer than three prior records every flag stays normal.
func AnalyzePatterns(current *models.Reimbursement, history []*models.Reimbursement) PatternFlags {
	flags := NormalPatterns()
	if len(history) < minHistoryForPatterns {
		return flags
	}

	values := make([]float64, 0, len(history))
	for _, r := range history {
		values = append(values, r.Expense.InexactFloat64())
	}
	mean, stddev := meanStddev(values)
	if stddev > 0 {
		flags.ValueOutlier = math.Abs(current.Expense.InexactFloat64()-mean) > 2*stddev
	}

	dates := requestDates(history)
	if interval := meanIntervalDays(dates); len(dates) > 1 {
		flags.FrequencyNormal = interval >= 2
	}

	var sameType int
	for _, r := range history {
		if r.ExpenseType == current.ExpenseType {
			sameType++
		}
	}
	flags.TypeCommon = float64(sameType) >= float64(len(history))*0.2

	return flags
}

func requestDates(history []*models.Reimbursement) []time.Time {
	dates := make([]time.Time, 0, len(history))
	for _, r := range history {
		if !r.Date.IsZero() {
			dates = append(dates, r.Date)
		}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

func meanIntervalDays(sorted []time.Time) float64 {
	if len(sorted) < 2 {
		return 0
	}
	var total float64
	for i := 1; i < len(sorted); i++ {
		total += sorted[i].Sub(sorted[i-1]).Hours() / 24
	}
	return total / float64(len(sorted)-1)
}

// meanStddev returns the mean and the sample standard deviation.
func meanStddev(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))

	if len(values) < 2 {
		return mean, 0
	}
	var sq float64
	for _, v := range values {
		sq += (v - mean) * (v - mean)
	}
	return mean, math.Sqrt(sq / float64(len(values)-1))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
