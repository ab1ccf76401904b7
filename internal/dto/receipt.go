package dto

type ReceiptResponse struct {
	ID               string    `json:"id"`
	ReimbursementID  string    `json:"reembolso_id"`
	FileName         string    `json:"nome_arquivo"`
	ExtractedValue   *float64  `json:"valor_extraido"`
	ValidationStatus string    `json:"status_validacao"`
	Discrepancy      *float64  `json:"discrepancia_percentual"`
	CreatedAt        string    `json:"data_criacao"`
}

type ReceiptUploadResponse struct {
	Receipt       ReceiptResponse `json:"comprovante"`
	DeclaredValue float64         `json:"valor_declarado"`
	FoundValues   []float64       `json:"valores_encontrados"`
	Message       string          `json:"mensagem"`
}

type ReceiptValidationResponse struct {
	ReceiptID        string   `json:"comprovante_id"`
	ValidationStatus string   `json:"status_validacao"`
	Approved         bool     `json:"aprovado"`
	Discrepancy      *float64 `json:"discrepancia"`
	Message          string   `json:"mensagem"`
}
