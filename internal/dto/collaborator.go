package dto

type RegisterCollaboratorRequest struct {
	Name     string  `json:"nome" validate:"required"`
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"senha" validate:"required,min=6"`
	Position string  `json:"cargo"`
	Salary   float64 `json:"salario"`
	Role     string  `json:"tipo" validate:"omitempty,oneof=usuario admin"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"senha" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type UpdateCollaboratorRequest struct {
	Name     string  `json:"nome"`
	Email    string  `json:"email"`
	Password string  `json:"senha"`
	Position string  `json:"cargo"`
	Salary   float64 `json:"salario"`
}

type CollaboratorResponse struct {
	ID       string  `json:"id"`
	Name     string  `json:"nome"`
	Email    string  `json:"email"`
	Position string  `json:"cargo"`
	Salary   float64 `json:"salario,omitempty"`
	Role     string  `json:"tipo"`
	CreatedAt string `json:"created_at"`
}

type AuthResponse struct {
	AccessToken  string               `json:"access_token"`
	RefreshToken string               `json:"refresh_token"`
	TokenType    string               `json:"token_type"`
	ExpiresIn    int64                `json:"expires_in"`
	User         CollaboratorResponse `json:"usuario"`
}
