package service

import (
	"fmt"

	"sispar/internal/models"

	"github.com/shopspring/decimal"
)

// DefaultTolerancePercent is the accepted percentage difference between
// declared and extracted values.
const DefaultTolerancePercent = 5.0

var hundred = decimal.NewFromInt(100)

// Discrepancy returns |declared - extracted| / declared * 100 rounded to
// two decimal places. It is undefined (ok=false) when the declared value
// is zero or either value is missing. The denominator is the declared
// value on purpose: the discrepancy measures how far the receipt strays
// from what the collaborator claimed.
func Discrepancy(declared, extracted decimal.Decimal) (decimal.Decimal, bool) {
	if declared.IsZero() || extracted.IsZero() {
		return decimal.Decimal{}, false
	}
	pct := declared.Sub(extracted).Abs().Div(declared).Mul(hundred)
	return pct.Round(2), true
}

// ValidationResult is the outcome of checking an extracted value against
// the declared one.
type ValidationResult struct {
	Status      string              `json:"status"`
	Approved    bool                `json:"aprovado"`
	Discrepancy decimal.NullDecimal `json:"discrepancia"`
	Message     string              `json:"mensagem"`
}

// ValidateAmounts decides whether the extracted value is acceptable for
// the declared one given a tolerance in percent. Pure and deterministic.
func ValidateAmounts(declared decimal.Decimal, extracted decimal.NullDecimal, tolerancePercent float64) ValidationResult {
	var discrepancy decimal.Decimal
	ok := false
	if extracted.Valid {
		discrepancy, ok = Discrepancy(declared, extracted.Decimal)
	}

	if !ok {
		return ValidationResult{
			Status:   models.ValidationPending,
			Approved: false,
			Message:  "Não foi possível extrair valor do comprovante",
		}
	}

	result := ValidationResult{
		Discrepancy: decimal.NullDecimal{Decimal: discrepancy, Valid: true},
	}

	tolerance := decimal.NewFromFloat(tolerancePercent)
	switch {
	case discrepancy.IsZero():
		result.Status = models.ValidationApproved
		result.Approved = true
		result.Message = "Valores exatamente iguais"
	case discrepancy.LessThanOrEqual(tolerance):
		result.Status = models.ValidationApproved
		result.Approved = true
		result.Message = fmt.Sprintf("Diferença de %s%% dentro da tolerância", discrepancy.String())
	default:
		result.Status = models.ValidationDivergent
		result.Approved = false
		result.Message = fmt.Sprintf("Discrepância de %s%% acima da tolerância de %.1f%%", discrepancy.String(), tolerancePercent)
	}
	return result
}
