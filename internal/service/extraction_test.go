package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestExtractMonetaryValues(t *testing.T) {
	text := "NOTA FISCAL\nCafé expresso R$ 12,00\nTotal: R$ 1.234,56"

	values := ExtractMonetaryValues(text)

	strs := make([]string, 0, len(values))
	for _, v := range values {
		strs = append(strs, v.String())
	}
	assert.Contains(t, strs, "1234.56")
	assert.Contains(t, strs, "12")
	assert.Len(t, values, 2)
}

func TestExtractMonetaryValuesFormats(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"simple", "R$ 45,90", "45.9"},
		{"thousands", "R$ 1.234,56", "1234.56"},
		{"keyword anchored", "VALOR: 89,90", "89.9"},
		{"bare number with separators", "pago 2.500,00 em débito", "2500"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := ExtractMonetaryValues(tt.text)
			assert.NotEmpty(t, values)
			assert.Equal(t, tt.want, values[0].String())
		})
	}
}

func TestExtractMonetaryValuesNoMatch(t *testing.T) {
	assert.Empty(t, ExtractMonetaryValues("comprovante sem valores legiveis"))
	assert.Empty(t, ExtractMonetaryValues(""))
}

func TestLargestMonetaryValue(t *testing.T) {
	text := "Subtotal: R$ 100,00\nTaxa R$ 12,00\nTotal: R$ 1.234,56"

	max, ok := LargestMonetaryValue(text)

	assert.True(t, ok)
	assert.True(t, max.Equal(decimal.RequireFromString("1234.56")))
}

func TestLargestMonetaryValueEmpty(t *testing.T) {
	_, ok := LargestMonetaryValue("sem nada aqui")
	assert.False(t, ok)
}
