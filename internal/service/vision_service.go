package service

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"sispar/internal/models"
	"sispar/pkg/config"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// ExtractedData is the structured information the vision vendor reads off
// a receipt.
type ExtractedData struct {
	Total         float64  `json:"valor_total"`
	IssueDate     string   `json:"data_emissao"`
	CNPJ          string   `json:"cnpj"`
	LegalName     string   `json:"razao_social"`
	Items         []string `json:"itens"`
	PaymentMethod string   `json:"forma_pagamento"`
	InvoiceNumber string   `json:"numero_nota"`
}

// ReceiptAnalysis is the fixed response schema expected from the vision
// vendor. Decoding failures are recoverable: the caller substitutes the
// OCR-only fallback instead of surfacing them.
type ReceiptAnalysis struct {
	ExtractedData ExtractedData `json:"dados_extraidos"`
	Validations   Validations   `json:"validacoes"`
	FraudSignals  FraudSignals  `json:"sinais_fraude"`
	Notes         string        `json:"observacoes"`
}

// VisionAnalyzer is the injectable vision vendor client. Constructed
// explicitly and passed down so the scoring pipeline is testable without
// live network calls.
type VisionAnalyzer interface {
	AnalyzeReceipt(ctx context.Context, filePath string, reimbursement *models.Reimbursement) (*ReceiptAnalysis, error)
	ModelVersion() string
	Close() error
}

// GeminiVisionService analyzes receipts with the Gemini vision API.
type GeminiVisionService struct {
	client *genai.Client
	model  *genai.GenerativeModel
	name   string
	logger *zap.Logger
}

func NewGeminiVisionService(ctx context.Context, cfg *config.GeminiConfig, logger *zap.Logger) (*GeminiVisionService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &GeminiVisionService{
		client: client,
		model:  client.GenerativeModel(cfg.Model),
		name:   cfg.Model,
		logger: logger,
	}, nil
}

func (s *GeminiVisionService) ModelVersion() string {
	return s.name
}

func (s *GeminiVisionService) Close() error {
	return s.client.Close()
}

// AnalyzeReceipt uploads the receipt image to Gemini together with the
// declared data and decodes the structured analysis. PDFs are rendered to
// an image of their first page before the call.
func (s *GeminiVisionService) AnalyzeReceipt(ctx context.Context, filePath string, reimbursement *models.Reimbursement) (*ReceiptAnalysis, error) {
	imageData, format, err := receiptImageData(filePath)
	if err != nil {
		return nil, err
	}

	prompt := buildReceiptPrompt(reimbursement)
	resp, err := s.model.GenerateContent(ctx, genai.ImageData(format, imageData), genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("vision request failed: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("empty vision response")
	}

	var builder strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			builder.WriteString(string(text))
		}
	}

	analysis, err := parseReceiptAnalysis(builder.String())
	if err != nil {
		return nil, err
	}

	s.logger.Info("Vision analysis completed",
		zap.String("file", filePath),
		zap.String("model", s.name),
	)
	return analysis, nil
}

func receiptImageData(filePath string) ([]byte, string, error) {
	ext := strings.ToLower(filepath.Ext(filePath))
	if ext == ".pdf" {
		data, err := RenderFirstPagePNG(filePath)
		if err != nil {
			return nil, "", err
		}
		return data, "png", nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read receipt file: %w", err)
	}

	format := "jpeg"
	if ext == ".png" {
		format = "png"
	}
	return data, format, nil
}

// parseReceiptAnalysis strips markdown fences and decodes the vendor JSON
// into the fixed schema.
func parseReceiptAnalysis(text string) (*ReceiptAnalysis, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return nil, fmt.Errorf("no JSON object in vision response")
	}

	var analysis ReceiptAnalysis
	if err := json.Unmarshal([]byte(text[start:end+1]), &analysis); err != nil {
		return nil, fmt.Errorf("failed to decode vision response: %w", err)
	}
	return &analysis, nil
}

func buildReceiptPrompt(r *models.Reimbursement) string {
	date := "N/A"
	if !r.Date.IsZero() {
		date = r.Date.Format("02/01/2006")
	}
	description := r.Description
	if description == "" {
		description = "Não informada"
	}

	return fmt.Sprintf(`Analise este comprovante fiscal brasileiro com extrema atenção aos detalhes para detectar possíveis fraudes.

DADOS DECLARADOS PELO USUÁRIO:
- Valor: R$ %s
- Data da solicitação: %s
- Tipo de despesa: %s
- Descrição: %s

TAREFAS DE ANÁLISE:

1. EXTRAÇÃO DE DADOS:
   - Valor total pago (em reais)
   - Data de emissão do documento
   - CNPJ do estabelecimento (se visível)
   - Nome/Razão social do estabelecimento
   - Itens/produtos/serviços (lista)
   - Forma de pagamento (se visível)
   - Número da nota fiscal (se houver)

2. VALIDAÇÕES:
   - O valor declarado (%s) corresponde ao valor do comprovante?
   - A data do comprovante é anterior ou igual à data da solicitação?
   - O tipo de estabelecimento corresponde ao tipo de despesa declarado (%s)?
   - O documento está legível e completo?

3. DETECÇÃO DE FRAUDE:
   - Existem sinais de edição digital da imagem?
   - Existem inconsistências visuais (fontes diferentes, alinhamentos estranhos)?
   - O layout do documento parece autêntico?

RESPONDA APENAS EM JSON no seguinte formato (sem markdown, sem backticks):
{
  "dados_extraidos": {
    "valor_total": 150.50,
    "data_emissao": "2025-12-20",
    "cnpj": "12.345.678/0001-90",
    "razao_social": "Nome do Estabelecimento",
    "itens": ["item 1", "item 2"],
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
  "observacoes": "Lista de observações importantes encontradas"
}`,
		r.Expense.StringFixed(2), date, r.ExpenseType, description,
		r.Expense.StringFixed(2), r.ExpenseType)
}
