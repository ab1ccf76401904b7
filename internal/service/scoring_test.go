package service

import (
	"strings"
	"testing"

	"sispar/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cleanValidations() Validations {
	return Validations{
		AmountMatches:      true,
		DateValid:          true,
		EstablishmentValid: true,
		ExpenseTypeCorrect: true,
		Legible:            true,
		ImageQuality:       0.95,
	}
}

func TestReliabilityScoreAllClean(t *testing.T) {
	score, risk, alerts := ReliabilityScore(cleanValidations(), 0, NormalPatterns(), FraudSignals{OriginalMetadata: true})

	assert.Equal(t, 100, score)
	assert.Equal(t, models.RiskLow, risk)
	assert.Empty(t, alerts)
}

func TestReliabilityScoreDuplicate(t *testing.T) {
	score, risk, alerts := ReliabilityScore(cleanValidations(), 1, NormalPatterns(), FraudSignals{})

	// 50 is below the 60 boundary, so the tier is high risk.
	assert.Equal(t, 50, score)
	assert.Equal(t, models.RiskHigh, risk)
	require.Len(t, alerts, 1)
	assert.Equal(t, "duplicata", alerts[0].Type)
	assert.Equal(t, SeverityCritical, alerts[0].Severity)
	assert.Equal(t, 1.0, alerts[0].Confidence)
}

func TestReliabilityScoreDivergenceBands(t *testing.T) {
	tests := []struct {
		divergence float64
		penalty    int
		severity   string
	}{
		{60, 50, SeverityCritical},
		{30, 40, SeverityHigh},
		{15, 25, SeverityHigh},
		{8, 15, SeverityMedium},
		{3, 5, SeverityLow},
	}

	for _, tt := range tests {
		v := cleanValidations()
		v.AmountMatches = false
		v.DivergencePercent = tt.divergence

		score, _, alerts := ReliabilityScore(v, 0, NormalPatterns(), FraudSignals{})

		assert.Equal(t, 100-tt.penalty, score, "divergence %.0f", tt.divergence)
		require.Len(t, alerts, 1)
		assert.Equal(t, "valor_divergente", alerts[0].Type)
		assert.Equal(t, tt.severity, alerts[0].Severity)
	}
}

func TestReliabilityScoreEditedDocument(t *testing.T) {
	score, risk, alerts := ReliabilityScore(cleanValidations(), 0, NormalPatterns(),
		FraudSignals{Edited: true, EditConfidence: 0.9})

	assert.Equal(t, 60, score)
	assert.Equal(t, models.RiskMedium, risk)
	require.Len(t, alerts, 1)
	assert.Equal(t, "documento_editado", alerts[0].Type)
	assert.Equal(t, 0.9, alerts[0].Confidence)
}

func TestReliabilityScoreEditedDefaultConfidence(t *testing.T) {
	_, _, alerts := ReliabilityScore(cleanValidations(), 0, NormalPatterns(), FraudSignals{Edited: true})

	require.Len(t, alerts, 1)
	assert.Equal(t, 0.80, alerts[0].Confidence)
}

func TestReliabilityScoreClampedAtZero(t *testing.T) {
	v := Validations{AmountMatches: false, DivergencePercent: 80}

	score, risk, alerts := ReliabilityScore(v, 2,
		PatternFlags{ValueOutlier: true, FrequencyNormal: false, TypeCommon: false},
		FraudSignals{Edited: true})

	assert.Equal(t, 0, score)
	assert.Equal(t, models.RiskHigh, risk)
	assert.NotEmpty(t, alerts)
}

func TestReliabilityScorePatternPenalties(t *testing.T) {
	score, _, alerts := ReliabilityScore(cleanValidations(), 0,
		PatternFlags{ValueOutlier: true, FrequencyNormal: false, TypeCommon: true},
		FraudSignals{})

	// -15 outlier, -10 frequency
	assert.Equal(t, 75, score)
	assert.Len(t, alerts, 2)
}

func TestRiskLevelBoundaries(t *testing.T) {
	assert.Equal(t, models.RiskLow, riskLevel(100))
	assert.Equal(t, models.RiskLow, riskLevel(85))
	assert.Equal(t, models.RiskMedium, riskLevel(84))
	assert.Equal(t, models.RiskMedium, riskLevel(60))
	assert.Equal(t, models.RiskHigh, riskLevel(59))
	assert.Equal(t, models.RiskHigh, riskLevel(0))
}

func TestRecommendBands(t *testing.T) {
	approved, reason := Recommend(95, models.RiskLow, nil)
	assert.True(t, approved)
	assert.True(t, strings.HasPrefix(reason, "Aprovar automaticamente"))

	approved, reason = Recommend(85, models.RiskLow, []Alert{
		{Type: "valor_divergente", Severity: SeverityLow, Message: "Pequena divergência de 3.0% aceitável"},
	})
	assert.True(t, approved)
	assert.Contains(t, reason, "Aprovar com ressalvas")
	assert.Contains(t, reason, "Pequena divergência")

	approved, reason = Recommend(75, models.RiskMedium, nil)
	assert.True(t, approved)
	assert.Contains(t, reason, "Aprovar com cautela")

	approved, reason = Recommend(55, models.RiskHigh, []Alert{
		{Type: "data_invalida", Severity: SeverityHigh, Message: "Data do comprovante posterior à solicitação ou muito antiga"},
	})
	assert.False(t, approved)
	assert.Contains(t, reason, "Revisão manual obrigatória")

	approved, reason = Recommend(20, models.RiskHigh, []Alert{
		{Type: "duplicata", Severity: SeverityCritical, Message: "Comprovante duplicado em 2 reembolso(s)"},
	})
	assert.False(t, approved)
	assert.Contains(t, reason, "REJEITAR")
	assert.Contains(t, reason, "duplicado")
}
