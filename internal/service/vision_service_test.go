package service

import (
	"testing"
	"time"

	"sispar/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const visionResponseJSON = `{
  "dados_extraidos": {
    "valor_total": 150.50,
    "data_emissao": "2025-12-20",
    "cnpj": "12.345.678/0001-90",
    "razao_social": "Posto Central",
    "itens": ["Gasolina comum"],
    "forma_pagamento": "Débito",
    "numero_nota": "123456"
  },
  "validacoes": {
    "valor_corresponde": true,
    "divergencia_percentual": 0.0,
    "data_valida": true,
    "data_comprovante": "2025-12-20",
    "estabelecimento_valido": true,
    "tipo_despesa_correto": true,
    "tipo_detectado": "Combustível",
    "comprovante_legivel": true,
    "qualidade_imagem": 0.95
  },
  "sinais_fraude": {
    "editado": false,
    "confianca_edicao": 0.0,
    "inconsistencias_visuais": false,
    "layout_suspeito": false,
    "metadados_originais": true
  },
  "observacoes": "Comprovante íntegro"
}`

func TestParseReceiptAnalysis(t *testing.T) {
	analysis, err := parseReceiptAnalysis(visionResponseJSON)

	require.NoError(t, err)
	assert.Equal(t, 150.50, analysis.ExtractedData.Total)
	assert.Equal(t, "Posto Central", analysis.ExtractedData.LegalName)
	assert.True(t, analysis.Validations.AmountMatches)
	assert.True(t, analysis.Validations.Legible)
	assert.False(t, analysis.FraudSignals.Edited)
	assert.True(t, analysis.FraudSignals.OriginalMetadata)
	assert.Equal(t, "Comprovante íntegro", analysis.Notes)
}

func TestParseReceiptAnalysisStripsMarkdownFences(t *testing.T) {
	fenced := "```json\n" + visionResponseJSON + "\n```"

	analysis, err := parseReceiptAnalysis(fenced)

	require.NoError(t, err)
	assert.Equal(t, 150.50, analysis.ExtractedData.Total)
}

func TestParseReceiptAnalysisWithSurroundingProse(t *testing.T) {
	wrapped := "Segue a análise solicitada:\n" + visionResponseJSON + "\nEspero ter ajudado."

	analysis, err := parseReceiptAnalysis(wrapped)

	require.NoError(t, err)
	assert.Equal(t, "Combustível", analysis.Validations.DetectedType)
}

func TestParseReceiptAnalysisInvalid(t *testing.T) {
	_, err := parseReceiptAnalysis("não consegui analisar a imagem")
	assert.Error(t, err)

	_, err = parseReceiptAnalysis("{valor: quebrado")
	assert.Error(t, err)
}

func TestBuildReceiptPrompt(t *testing.T) {
	r := &models.Reimbursement{
		Expense:     decimal.RequireFromString("150.50"),
		ExpenseType: "Combustível",
		Description: "Abastecimento viagem a cliente",
		Date:        time.Date(2025, 12, 22, 0, 0, 0, 0, time.UTC),
	}

	prompt := buildReceiptPrompt(r)

	assert.Contains(t, prompt, "R$ 150.50")
	assert.Contains(t, prompt, "22/12/2025")
	assert.Contains(t, prompt, "Combustível")
	assert.Contains(t, prompt, "Abastecimento viagem a cliente")
	assert.Contains(t, prompt, "APENAS EM JSON")
}
