package models

import (
	"time"

	"github.com/google/uuid"
)

// FraudAnalysis is an append-only snapshot of one scoring run. A
// reimbursement accumulates analyses over time; only the latest one is
// authoritative for decisions.
type FraudAnalysis struct {
	ID                  uuid.UUID `db:"id"`
	ReimbursementID     uuid.UUID `db:"reembolso_id"`
	Score               int       `db:"score_confiabilidade"`
	RiskLevel           string    `db:"nivel_risco"`
	ApprovalSuggested   bool      `db:"aprovacao_sugerida"`
	SuggestionReason    string    `db:"motivo_sugestao"`
	VendorData          []byte    `db:"dados_ia"`             // JSON: data extracted by the vision vendor
	Alerts              []byte    `db:"alertas"`              // JSON: []service.Alert
	Validations         []byte    `db:"validacoes"`           // JSON: service.Validations
	CollaboratorHistory []byte    `db:"historico_colaborador"` // JSON: service.HistoryStats
	ModelVersion        string    `db:"versao_modelo"`
	AnalyzedAt          time.Time `db:"timestamp_analise"`
}

// Risk tiers derived from the confidence score.
const (
	RiskLow    = "baixo"
	RiskMedium = "medio"
	RiskHigh   = "alto"
)
