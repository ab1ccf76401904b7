package dto

type ChatRequest struct {
	Message string `json:"mensagem" validate:"required"`
}

type ChatResponse struct {
	Reply string `json:"resposta"`
	Model string `json:"modelo"`
}
