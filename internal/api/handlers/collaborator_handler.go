package handlers

import (
	"errors"

	"sispar/internal/dto"
	"sispar/internal/models"
	"sispar/internal/service"
	"sispar/pkg/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CollaboratorHandler struct {
	service *service.CollaboratorService
	logger  *zap.Logger
}

func NewCollaboratorHandler(service *service.CollaboratorService, logger *zap.Logger) *CollaboratorHandler {
	return &CollaboratorHandler{
		service: service,
		logger:  logger,
	}
}

// Register godoc
// @Summary Cadastra um novo colaborador
// @Description Cria o colaborador e retorna o par de tokens JWT
// @Tags colaborador
// @Accept json
// @Produce json
// @Param request body dto.RegisterCollaboratorRequest true "Dados do colaborador"
// @Success 201 {object} dto.AuthResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /colaborador/cadastrar [post]
func (h *CollaboratorHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterCollaboratorRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Corpo da requisição inválido")
	}
	if req.Name == "" || req.Email == "" || len(req.Password) < 6 {
		return errorJSON(c, fiber.StatusBadRequest, "Nome, email e senha (mínimo 6 caracteres) são obrigatórios")
	}

	resp, err := h.service.Register(c.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailTaken):
			return errorJSON(c, fiber.StatusConflict, "Email já cadastrado")
		case errors.Is(err, service.ErrInvalidRole):
			return errorJSON(c, fiber.StatusBadRequest, "Tipo de usuário inválido")
		}
		h.logger.Error("Registration failed", zap.Error(err))
		return errorJSON(c, fiber.StatusInternalServerError, "Falha ao cadastrar colaborador")
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Login godoc
// @Summary Autentica um colaborador
// @Tags colaborador
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Credenciais"
// @Success 200 {object} dto.AuthResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /colaborador/login [post]
func (h *CollaboratorHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Corpo da requisição inválido")
	}

	resp, err := h.service.Login(c.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return errorJSON(c, fiber.StatusUnauthorized, "Email ou senha incorretos")
		}
		h.logger.Error("Login failed", zap.Error(err))
		return errorJSON(c, fiber.StatusInternalServerError, "Falha ao autenticar")
	}

	return c.JSON(resp)
}

// Refresh godoc
// @Summary Renova o token de acesso
// @Tags colaborador
// @Accept json
// @Produce json
// @Param request body dto.RefreshRequest true "Refresh token"
// @Success 200 {object} dto.AuthResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /colaborador/refresh [post]
func (h *CollaboratorHandler) Refresh(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	if err := c.BodyParser(&req); err != nil || req.RefreshToken == "" {
		return errorJSON(c, fiber.StatusBadRequest, "Refresh token é obrigatório")
	}

	resp, err := h.service.Refresh(c.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidToken) {
			return errorJSON(c, fiber.StatusUnauthorized, "Refresh token inválido ou expirado")
		}
		h.logger.Error("Token refresh failed", zap.Error(err))
		return errorJSON(c, fiber.StatusInternalServerError, "Falha ao renovar token")
	}

	return c.JSON(resp)
}

// List godoc
// @Summary Lista todos os colaboradores
// @Tags colaborador
// @Produce json
// @Security Bearer
// @Success 200 {array} dto.CollaboratorResponse
// @Router /colaborador/todos-colaboradores [get]
func (h *CollaboratorHandler) List(c *fiber.Ctx) error {
	collaborators, err := h.service.List(c.Context())
	if err != nil {
		h.logger.Error("Failed to list collaborators", zap.Error(err))
		return errorJSON(c, fiber.StatusInternalServerError, "Falha ao listar colaboradores")
	}
	return c.JSON(collaborators)
}

// Get godoc
// @Summary Busca um colaborador pelo id
// @Tags colaborador
// @Produce json
// @Security Bearer
// @Param id path string true "ID do colaborador"
// @Success 200 {object} dto.CollaboratorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /colaborador/{id} [get]
func (h *CollaboratorHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "ID inválido")
	}

	collaborator, err := h.service.Get(c.Context(), id)
	if err != nil {
		return errorJSON(c, fiber.StatusNotFound, "Colaborador não encontrado")
	}
	return c.JSON(collaborator)
}

// Update godoc
// @Summary Atualiza os dados de um colaborador
// @Tags colaborador
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "ID do colaborador"
// @Param request body dto.UpdateCollaboratorRequest true "Campos a atualizar"
// @Success 200 {object} dto.CollaboratorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /colaborador/{id} [put]
func (h *CollaboratorHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "ID inválido")
	}

	var req dto.UpdateCollaboratorRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Corpo da requisição inválido")
	}

	collaborator, err := h.service.Update(c.Context(), id, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCollaboratorNotFound):
			return errorJSON(c, fiber.StatusNotFound, "Colaborador não encontrado")
		case errors.Is(err, service.ErrEmailTaken):
			return errorJSON(c, fiber.StatusConflict, "Email já cadastrado")
		}
		h.logger.Error("Failed to update collaborator", zap.Error(err))
		return errorJSON(c, fiber.StatusInternalServerError, "Falha ao atualizar colaborador")
	}
	return c.JSON(collaborator)
}

// Promote godoc
// @Summary Altera o papel de um colaborador (admin)
// @Tags colaborador
// @Produce json
// @Security Bearer
// @Param id path string true "ID do colaborador"
// @Param tipo query string false "Novo papel: usuario ou admin" default(admin)
// @Success 200 {object} dto.MessageResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /colaborador/{id}/promover [post]
func (h *CollaboratorHandler) Promote(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "ID inválido")
	}

	role := models.Role(c.Query("tipo", string(models.RoleAdmin)))
	if err := h.service.Promote(c.Context(), id, role); err != nil {
		switch {
		case errors.Is(err, service.ErrCollaboratorNotFound):
			return errorJSON(c, fiber.StatusNotFound, "Colaborador não encontrado")
		case errors.Is(err, service.ErrInvalidRole):
			return errorJSON(c, fiber.StatusBadRequest, "Tipo de usuário inválido")
		}
		h.logger.Error("Failed to change role", zap.Error(err))
		return errorJSON(c, fiber.StatusInternalServerError, "Falha ao alterar papel")
	}

	return c.JSON(dto.MessageResponse{Message: "Papel atualizado com sucesso"})
}

// Delete godoc
// @Summary Remove um colaborador (admin)
// @Tags colaborador
// @Produce json
// @Security Bearer
// @Param id path string true "ID do colaborador"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /colaborador/{id} [delete]
func (h *CollaboratorHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "ID inválido")
	}

	if err := h.service.Delete(c.Context(), id); err != nil {
		if errors.Is(err, service.ErrCollaboratorNotFound) {
			return errorJSON(c, fiber.StatusNotFound, "Colaborador não encontrado")
		}
		h.logger.Error("Failed to delete collaborator", zap.Error(err))
		return errorJSON(c, fiber.StatusInternalServerError, "Falha ao remover colaborador")
	}

	return c.JSON(dto.MessageResponse{Message: "Colaborador removido com sucesso"})
}
