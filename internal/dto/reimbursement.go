package dto

type CreateReimbursementRequest struct {
	CollaboratorName string  `json:"colaborador" validate:"required"`
	CollaboratorID   string  `json:"id_colaborador" validate:"required,uuid"`
	Company          string  `json:"empresa" validate:"required"`
	Description      string  `json:"descricao"`
	ExpenseType      string  `json:"tipo_reembolso" validate:"required"`
	CostCenter       string  `json:"centro_custo"`
	InternalOrder    string  `json:"ordem_interna"`
	Division         string  `json:"divisao"`
	PEP              string  `json:"pep"`
	Currency         string  `json:"moeda"`
	DistanceKM       float64 `json:"distancia_km"`
	ValuePerKM       float64 `json:"valor_km"`
	DeclaredValue    float64 `json:"valor_faturado" validate:"required,gt=0"`
	Expense          float64 `json:"despesa"`
	Date             string  `json:"data"`
}

type UpdateReimbursementRequest struct {
	CollaboratorName string  `json:"colaborador"`
	Company          string  `json:"empresa"`
	Description      string  `json:"descricao"`
	ExpenseType      string  `json:"tipo_reembolso"`
	CostCenter       string  `json:"centro_custo"`
	InternalOrder    string  `json:"ordem_interna"`
	Division         string  `json:"divisao"`
	PEP              string  `json:"pep"`
	Currency         string  `json:"moeda"`
	DistanceKM       float64 `json:"distancia_km"`
	ValuePerKM       float64 `json:"valor_km"`
	DeclaredValue    float64 `json:"valor_faturado"`
	Expense          float64 `json:"despesa"`
}

type ReimbursementResponse struct {
	ID               string  `json:"id"`
	CollaboratorName string  `json:"colaborador"`
	CollaboratorID   string  `json:"id_colaborador"`
	Company          string  `json:"empresa"`
	Description      string  `json:"descricao,omitempty"`
	ExpenseType      string  `json:"tipo_reembolso"`
	CostCenter       string  `json:"centro_custo,omitempty"`
	InternalOrder    string  `json:"ordem_interna,omitempty"`
	Division         string  `json:"divisao,omitempty"`
	PEP              string  `json:"pep,omitempty"`
	Currency         string  `json:"moeda,omitempty"`
	DistanceKM       float64 `json:"distancia_km,omitempty"`
	ValuePerKM       float64 `json:"valor_km,omitempty"`
	DeclaredValue    float64 `json:"valor_faturado"`
	Expense          float64 `json:"despesa"`
	Status           string  `json:"status"`
	ReceiptID        string  `json:"comprovante_id,omitempty"`
	Date             string  `json:"data"`
	CreatedAt        string  `json:"created_at"`
}

type StatusChangeResponse struct {
	ID      string `json:"id"`
	Status  string `json:"status"`
	Message string `json:"mensagem"`
}
