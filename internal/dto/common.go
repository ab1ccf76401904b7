package dto

type ErrorResponse struct {
	Error string `json:"erro"`
}

type MessageResponse struct {
	Message string `json:"mensagem"`
}
