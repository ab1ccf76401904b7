package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Receipt validation states. Both ValidationStatus and Discrepancy are
// derived from (declared value, extracted value, tolerance) and must stay
// recomputable from them.
const (
	ValidationPending   = "Pendente"
	ValidationApproved  = "Aprovado"
	ValidationDivergent = "Divergente"
)

type Receipt struct {
	ID              uuid.UUID           `db:"id"`
	ReimbursementID uuid.UUID           `db:"reembolso_id"`
	FileName        string              `db:"nome_arquivo"`
	ExtractedText   string              `db:"texto_extraido"`
	ExtractedValue  decimal.NullDecimal `db:"valor_extraido"`
	ValidationStatus string             `db:"status_validacao"`
	Discrepancy     decimal.NullDecimal `db:"discrepancia_percentual"`
	FileHash        string              `db:"hash_arquivo"`
	CreatedAt       time.Time           `db:"data_criacao"`
}
