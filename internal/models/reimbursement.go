package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status is the reimbursement workflow state. The validation/scoring
// pipeline never changes it on its own; only the explicit status
// operations do.
type Status string

const (
	StatusPending     Status = "Pendente"
	StatusPreApproved Status = "Pré-aprovado"
	StatusInReview    Status = "Em análise"
	StatusApproved    Status = "Aprovado"
	StatusRejected    Status = "Rejeitado"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusPreApproved, StatusInReview, StatusApproved, StatusRejected:
		return true
	}
	return false
}

type Reimbursement struct {
	ID               uuid.UUID           `db:"id"`
	CollaboratorName string              `db:"colaborador"`
	CollaboratorID   uuid.UUID           `db:"id_colaborador"`
	Company          string              `db:"empresa"`
	Description      string              `db:"descricao"`
	ExpenseType      string              `db:"tipo_reembolso"`
	CostCenter       string              `db:"centro_custo"`
	InternalOrder    string              `db:"ordem_interna"`
	Division         string              `db:"divisao"`
	PEP              string              `db:"pep"`
	Currency         string              `db:"moeda"`
	DistanceKM       decimal.NullDecimal `db:"distancia_km"`
	ValuePerKM       decimal.NullDecimal `db:"valor_km"`
	DeclaredValue    decimal.Decimal     `db:"valor_faturado"`
	Expense          decimal.Decimal     `db:"despesa"`
	Status           Status              `db:"status"`
	ReceiptID        *uuid.UUID          `db:"comprovante_id"`
	Date             time.Time           `db:"data"`
	CreatedAt        time.Time           `db:"created_at"`
	UpdatedAt        time.Time           `db:"updated_at"`
}
