package handlers

import (
	"context"
	"errors"

	"sispar/internal/dto"
	"sispar/internal/models"
	"sispar/internal/repository"
	"sispar/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ReimbursementHandler struct {
	service *service.ReimbursementService
	logger  *zap.Logger
}

func NewReimbursementHandler(service *service.ReimbursementService, logger *zap.Logger) *ReimbursementHandler {
	return &ReimbursementHandler{
		service: service,
		logger:  logger,
	}
}

// Create godoc
// @Summary Cadastra uma solicitação de reembolso
// @Tags reembolso
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body dto.CreateReimbursementRequest true "Dados do reembolso"
// @Success 201 {object} dto.ReimbursementResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /reembolsos [post]
func (h *ReimbursementHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateReimbursementRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Corpo da requisição inválido")
	}
	if req.CollaboratorName == "" || req.CollaboratorID == "" || req.Company == "" ||
		req.ExpenseType == "" || req.DeclaredValue <= 0 {
		return errorJSON(c, fiber.StatusBadRequest,
			"Colaborador, empresa, tipo de reembolso e valor faturado (> 0) são obrigatórios")
	}

	resp, err := h.service.Create(c.Context(), &req)
	if err != nil {
		h.logger.Error("Failed to create reimbursement", zap.Error(err))
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

// List godoc
// @Summary Lista reembolsos
// @Description Lista reembolsos com filtros opcionais de status e colaborador
// @Tags reembolso
// @Produce json
// @Security Bearer
// @Param status query string false "Filtra pelo status"
// @Param id_colaborador query string false "Filtra pelo colaborador"
// @Success 200 {array} dto.ReimbursementResponse
// @Router /reembolsos [get]
func (h *ReimbursementHandler) List(c *fiber.Ctx) error {
	filter := repository.ReimbursementFilter{
		Status: models.Status(c.Query("status")),
	}
	if raw := c.Query("id_colaborador"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return errorJSON(c, fiber.StatusBadRequest, "id_colaborador inválido")
		}
		filter.CollaboratorID = id
	}

	reimbursements, err := h.service.List(c.Context(), filter)
	if err != nil {
		if errors.Is(err, service.ErrInvalidStatus) {
			return errorJSON(c, fiber.StatusBadRequest, "Status inválido")
		}
		h.logger.Error("Failed to list reimbursements", zap.Error(err))
		return errorJSON(c, fiber.StatusInternalServerError, "Falha ao listar reembolsos")
	}
	return c.JSON(reimbursements)
}

// Get godoc
// @Summary Busca um reembolso pelo id
// @Tags reembolso
// @Produce json
// @Security Bearer
// @Param id path string true "ID do reembolso"
// @Success 200 {object} dto.ReimbursementResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /reembolsos/{id} [get]
func (h *ReimbursementHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "ID inválido")
	}

	resp, err := h.service.Get(c.Context(), id)
	if err != nil {
		return errorJSON(c, fiber.StatusNotFound, "Reembolso não encontrado")
	}
	return c.JSON(resp)
}

// Update godoc
// @Summary Atualiza uma solicitação de reembolso
// @Tags reembolso
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "ID do reembolso"
// @Param request body dto.UpdateReimbursementRequest true "Campos a atualizar"
// @Success 200 {object} dto.ReimbursementResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /reembolsos/{id} [put]
func (h *ReimbursementHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "ID inválido")
	}

	var req dto.UpdateReimbursementRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Corpo da requisição inválido")
	}

	resp, err := h.service.Update(c.Context(), id, &req)
	if err != nil {
		if errors.Is(err, service.ErrReimbursementNotFound) {
			return errorJSON(c, fiber.StatusNotFound, "Reembolso não encontrado")
		}
		h.logger.Error("Failed to update reimbursement", zap.Error(err))
		return errorJSON(c, fiber.StatusInternalServerError, "Falha ao atualizar reembolso")
	}
	return c.JSON(resp)
}

// Delete godoc
// @Summary Remove um reembolso e seus comprovantes e análises
// @Tags reembolso
// @Produce json
// @Security Bearer
// @Param id path string true "ID do reembolso"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /reembolsos/{id} [delete]
func (h *ReimbursementHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "ID inválido")
	}

	if err := h.service.Delete(c.Context(), id); err != nil {
		if errors.Is(err, service.ErrReimbursementNotFound) {
			return errorJSON(c, fiber.StatusNotFound, "Reembolso não encontrado")
		}
		h.logger.Error("Failed to delete reimbursement", zap.Error(err))
		return errorJSON(c, fiber.StatusInternalServerError, "Falha ao remover reembolso")
	}

	return c.JSON(dto.MessageResponse{Message: "Reembolso removido com sucesso"})
}

// Approve godoc
// @Summary Aprova um reembolso
// @Tags reembolso
// @Produce json
// @Security Bearer
// @Param id path string true "ID do reembolso"
// @Success 200 {object} dto.StatusChangeResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /reembolsos/{id}/aprovar [post]
func (h *ReimbursementHandler) Approve(c *fiber.Ctx) error {
	return h.statusChange(c, h.service.Approve)
}

// Reject godoc
// @Summary Rejeita um reembolso
// @Tags reembolso
// @Produce json
// @Security Bearer
// @Param id path string true "ID do reembolso"
// @Success 200 {object} dto.StatusChangeResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /reembolsos/{id}/rejeitar [post]
func (h *ReimbursementHandler) Reject(c *fiber.Ctx) error {
	return h.statusChange(c, h.service.Reject)
}

// SubmitForReview godoc
// @Summary Encaminha um reembolso conforme a validação do comprovante
// @Description Comprovante aprovado pré-aprova o reembolso; caso contrário vai para análise manual
// @Tags reembolso
// @Produce json
// @Security Bearer
// @Param id path string true "ID do reembolso"
// @Success 200 {object} dto.StatusChangeResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /reembolsos/{id}/enviar-analise [post]
func (h *ReimbursementHandler) SubmitForReview(c *fiber.Ctx) error {
	return h.statusChange(c, h.service.SubmitForReview)
}

func (h *ReimbursementHandler) statusChange(
	c *fiber.Ctx,
	op func(ctx context.Context, id uuid.UUID) (*dto.StatusChangeResponse, error),
) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "ID inválido")
	}

	resp, err := op(c.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrReimbursementNotFound) {
			return errorJSON(c, fiber.StatusNotFound, "Reembolso não encontrado")
		}
		h.logger.Error("Failed to change reimbursement status", zap.Error(err))
		return errorJSON(c, fiber.StatusInternalServerError, "Falha ao alterar status")
	}
	return c.JSON(resp)
}
