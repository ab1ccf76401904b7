package service

import (
	"testing"

	"sispar/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func nullDec(s string) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: decimal.RequireFromString(s), Valid: true}
}

func TestDiscrepancy(t *testing.T) {
	d, ok := Discrepancy(dec("100"), dec("104"))
	require.True(t, ok)
	assert.True(t, d.Equal(dec("4")))

	d, ok = Discrepancy(dec("100"), dec("120"))
	require.True(t, ok)
	assert.True(t, d.Equal(dec("20")))

	d, ok = Discrepancy(dec("100"), dec("100"))
	require.True(t, ok)
	assert.True(t, d.IsZero())
}

// The denominator is the declared value, so swapping the arguments
// changes the result.
func TestDiscrepancyAsymmetric(t *testing.T) {
	forward, ok := Discrepancy(dec("100"), dec("120"))
	require.True(t, ok)
	backward, ok := Discrepancy(dec("120"), dec("100"))
	require.True(t, ok)

	assert.True(t, forward.Equal(dec("20")))
	assert.True(t, backward.Equal(dec("16.67")))
	assert.False(t, forward.Equal(backward))
}

func TestDiscrepancyUndefined(t *testing.T) {
	_, ok := Discrepancy(dec("0"), dec("50"))
	assert.False(t, ok)

	_, ok = Discrepancy(dec("100"), dec("0"))
	assert.False(t, ok)
}

func TestValidateAmountsExactMatch(t *testing.T) {
	result := ValidateAmounts(dec("100"), nullDec("100"), DefaultTolerancePercent)

	assert.Equal(t, models.ValidationApproved, result.Status)
	assert.True(t, result.Approved)
	require.True(t, result.Discrepancy.Valid)
	assert.True(t, result.Discrepancy.Decimal.IsZero())
	assert.Equal(t, "Valores exatamente iguais", result.Message)
}

func TestValidateAmountsWithinTolerance(t *testing.T) {
	result := ValidateAmounts(dec("100"), nullDec("104"), DefaultTolerancePercent)

	assert.Equal(t, models.ValidationApproved, result.Status)
	assert.True(t, result.Approved)
	require.True(t, result.Discrepancy.Valid)
	assert.True(t, result.Discrepancy.Decimal.Equal(dec("4")))
}

func TestValidateAmountsAtToleranceBoundary(t *testing.T) {
	result := ValidateAmounts(dec("100"), nullDec("105"), DefaultTolerancePercent)

	assert.Equal(t, models.ValidationApproved, result.Status)
	assert.True(t, result.Approved)
}

func TestValidateAmountsDivergent(t *testing.T) {
	result := ValidateAmounts(dec("100"), nullDec("120"), DefaultTolerancePercent)

	assert.Equal(t, models.ValidationDivergent, result.Status)
	assert.False(t, result.Approved)
	require.True(t, result.Discrepancy.Valid)
	assert.True(t, result.Discrepancy.Decimal.Equal(dec("20")))
}

func TestValidateAmountsNoExtractedValue(t *testing.T) {
	result := ValidateAmounts(dec("100"), decimal.NullDecimal{}, DefaultTolerancePercent)

	assert.Equal(t, models.ValidationPending, result.Status)
	assert.False(t, result.Approved)
	assert.False(t, result.Discrepancy.Valid)
	assert.Equal(t, "Não foi possível extrair valor do comprovante", result.Message)
}

func TestValidateAmountsZeroDeclared(t *testing.T) {
	result := ValidateAmounts(dec("0"), nullDec("50"), DefaultTolerancePercent)

	assert.Equal(t, models.ValidationPending, result.Status)
	assert.False(t, result.Approved)
	assert.False(t, result.Discrepancy.Valid)
}
