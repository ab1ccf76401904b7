package service

import (
	"context"
	"testing"
	"time"

	"sispar/internal/models"
	"sispar/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubAnalysisStore struct {
	analyses []*models.FraudAnalysis
	byRisk   map[string]int
	total    int
}

func (s *stubAnalysisStore) Create(_ context.Context, _ *models.FraudAnalysis) error {
	return nil
}

func (s *stubAnalysisStore) LatestByReimbursement(_ context.Context, _ uuid.UUID) (*models.FraudAnalysis, error) {
	return nil, ErrAnalysisNotFound
}

func (s *stubAnalysisStore) List(_ context.Context, _ repository.AnalysisFilter) ([]*models.FraudAnalysis, error) {
	return s.analyses, nil
}

func (s *stubAnalysisStore) CountByRisk(_ context.Context) (map[string]int, error) {
	return s.byRisk, nil
}

func (s *stubAnalysisStore) Count(_ context.Context) (int, error) {
	return s.total, nil
}

type stubReimbursementReader struct {
	total int
}

func (s *stubReimbursementReader) GetByID(_ context.Context, _ uuid.UUID) (*models.Reimbursement, error) {
	return nil, ErrReimbursementNotFound
}

func (s *stubReimbursementReader) ListByCollaborator(_ context.Context, _ uuid.UUID, _ uuid.UUID) ([]*models.Reimbursement, error) {
	return nil, nil
}

func (s *stubReimbursementReader) UpdateStatus(_ context.Context, _ uuid.UUID, _ models.Status) error {
	return nil
}

func (s *stubReimbursementReader) Count(_ context.Context) (int, error) {
	return s.total, nil
}

func fallbackService() *AnalysisService {
	return &AnalysisService{
		tolerancePct: DefaultTolerancePercent,
		logger:       zap.NewNop(),
	}
}

func TestOCROnlyAnalysisMatchingValue(t *testing.T) {
	s := fallbackService()
	receipt := &models.Receipt{
		ExtractedText:  "Total: R$ 100,00",
		ExtractedValue: decimal.NullDecimal{Decimal: decimal.RequireFromString("100"), Valid: true},
	}
	reimbursement := &models.Reimbursement{DeclaredValue: decimal.RequireFromString("100")}

	analysis := s.ocrOnlyAnalysis(receipt, reimbursement)

	assert.True(t, analysis.Validations.AmountMatches)
	assert.True(t, analysis.Validations.Legible)
	assert.True(t, analysis.Validations.DateValid)
	assert.False(t, analysis.FraudSignals.Edited)
	assert.Equal(t, 100.0, analysis.ExtractedData.Total)
}

func TestOCROnlyAnalysisDivergentValue(t *testing.T) {
	s := fallbackService()
	receipt := &models.Receipt{
		ExtractedText:  "Total: R$ 120,00",
		ExtractedValue: decimal.NullDecimal{Decimal: decimal.RequireFromString("120"), Valid: true},
	}
	reimbursement := &models.Reimbursement{DeclaredValue: decimal.RequireFromString("100")}

	analysis := s.ocrOnlyAnalysis(receipt, reimbursement)

	assert.False(t, analysis.Validations.AmountMatches)
	assert.Equal(t, 20.0, analysis.Validations.DivergencePercent)
}

func TestOCROnlyAnalysisNoExtractedValue(t *testing.T) {
	s := fallbackService()
	receipt := &models.Receipt{ExtractedText: ""}
	reimbursement := &models.Reimbursement{DeclaredValue: decimal.RequireFromString("100")}

	analysis := s.ocrOnlyAnalysis(receipt, reimbursement)

	assert.False(t, analysis.Validations.AmountMatches)
	assert.False(t, analysis.Validations.Legible)
	assert.Zero(t, analysis.ExtractedData.Total)
}

// The fallback analysis feeds the scorer without tripping the checks only
// the vision vendor could perform.
func TestOCROnlyAnalysisScoresClean(t *testing.T) {
	s := fallbackService()
	receipt := &models.Receipt{
		ExtractedText:  "Total: R$ 100,00",
		ExtractedValue: decimal.NullDecimal{Decimal: decimal.RequireFromString("100"), Valid: true},
	}
	reimbursement := &models.Reimbursement{DeclaredValue: decimal.RequireFromString("100")}

	analysis := s.ocrOnlyAnalysis(receipt, reimbursement)
	score, risk, alerts := ReliabilityScore(analysis.Validations, 0, NormalPatterns(), analysis.FraudSignals)

	assert.Equal(t, 100, score)
	assert.Equal(t, models.RiskLow, risk)
	assert.Empty(t, alerts)
}

// The dashboard reports both totals: stored analyses and reimbursements,
// so the reviewer can see how much of the backlog has been analyzed.
func TestDashboardTotals(t *testing.T) {
	record := &models.FraudAnalysis{
		ID:              uuid.New(),
		ReimbursementID: uuid.New(),
		Score:           95,
		RiskLevel:       models.RiskLow,
		AnalyzedAt:      time.Now(),
	}
	s := &AnalysisService{
		repo: &stubAnalysisStore{
			analyses: []*models.FraudAnalysis{record},
			byRisk:   map[string]int{models.RiskLow: 2, models.RiskHigh: 1},
			total:    3,
		},
		reimbRepo: &stubReimbursementReader{total: 7},
		logger:    zap.NewNop(),
	}

	resp, err := s.Dashboard(context.Background(), repository.AnalysisFilter{})
	require.NoError(t, err)

	assert.Equal(t, 3, resp.Total)
	assert.Equal(t, 7, resp.TotalReimbursements)
	assert.Equal(t, map[string]int{models.RiskLow: 2, models.RiskHigh: 1}, resp.ByRisk)
	require.Len(t, resp.Analyses, 1)
	assert.Equal(t, record.ID.String(), resp.Analyses[0].ID)
}
