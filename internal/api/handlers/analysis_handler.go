package handlers

import (
	"errors"
	"strconv"

	"sispar/internal/dto"
	"sispar/internal/repository"
	"sispar/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AnalysisHandler struct {
	service *service.AnalysisService
	logger  *zap.Logger
}

func NewAnalysisHandler(service *service.AnalysisService, logger *zap.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		service: service,
		logger:  logger,
	}
}

// Analyze godoc
// @Summary Executa a análise de fraude de um reembolso
// @Description Analisa o comprovante (visão ou fallback OCR), detecta duplicatas e padrões e calcula o score
// @Tags analise
// @Produce json
// @Security Bearer
// @Param id path string true "ID do reembolso"
// @Success 200 {object} dto.AnalysisResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /reembolsos/{id}/analisar-ia [post]
func (h *AnalysisHandler) Analyze(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "ID inválido")
	}

	resp, err := h.service.Analyze(c.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrReimbursementNotFound):
			return errorJSON(c, fiber.StatusNotFound, "Reembolso não encontrado")
		case errors.Is(err, service.ErrNoReceipt):
			return errorJSON(c, fiber.StatusUnprocessableEntity, "Reembolso sem comprovante para analisar")
		}
		h.logger.Error("Fraud analysis failed", zap.Error(err))
		return errorJSON(c, fiber.StatusInternalServerError, "Falha ao executar análise")
	}
	return c.JSON(resp)
}

// AnalyzeBatch godoc
// @Summary Analisa um lote de reembolsos (máximo 10)
// @Tags analise
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body dto.BatchAnalyzeRequest true "IDs dos reembolsos"
// @Success 200 {object} dto.BatchAnalyzeResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /analises/lote [post]
func (h *AnalysisHandler) AnalyzeBatch(c *fiber.Ctx) error {
	var req dto.BatchAnalyzeRequest
	if err := c.BodyParser(&req); err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Corpo da requisição inválido")
	}

	ids := make([]uuid.UUID, 0, len(req.IDs))
	for _, raw := range req.IDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return errorJSON(c, fiber.StatusBadRequest, "ID inválido no lote: "+raw)
		}
		ids = append(ids, id)
	}

	resp, err := h.service.AnalyzeBatch(c.Context(), ids)
	if err != nil {
		if errors.Is(err, service.ErrBatchTooLarge) {
			return errorJSON(c, fiber.StatusBadRequest, "Lote excede o máximo de 10 reembolsos")
		}
		h.logger.Error("Batch analysis failed", zap.Error(err))
		return errorJSON(c, fiber.StatusBadRequest, err.Error())
	}
	return c.JSON(resp)
}

// Latest godoc
// @Summary Retorna a análise mais recente de um reembolso
// @Tags analise
// @Produce json
// @Security Bearer
// @Param id path string true "ID do reembolso"
// @Success 200 {object} dto.AnalysisResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /reembolsos/{id}/analise [get]
func (h *AnalysisHandler) Latest(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "ID inválido")
	}

	resp, err := h.service.Latest(c.Context(), id)
	if err != nil {
		return errorJSON(c, fiber.StatusNotFound, "Nenhuma análise encontrada para este reembolso")
	}
	return c.JSON(resp)
}

// ApproveWithAI godoc
// @Summary Aprova um reembolso quando a análise recomenda a aprovação
// @Description Recusa quando a análise mais recente não sugere aprovação
// @Tags analise
// @Produce json
// @Security Bearer
// @Param id path string true "ID do reembolso"
// @Success 200 {object} dto.ApproveWithAIResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /reembolsos/{id}/aprovar-com-ia [post]
func (h *AnalysisHandler) ApproveWithAI(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "ID inválido")
	}

	resp, err := h.service.ApproveWithAI(c.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrReimbursementNotFound):
			return errorJSON(c, fiber.StatusNotFound, "Reembolso não encontrado")
		case errors.Is(err, service.ErrNoReceipt):
			return errorJSON(c, fiber.StatusUnprocessableEntity, "Reembolso sem comprovante para analisar")
		case errors.Is(err, service.ErrApprovalNotSuggested):
			return errorJSON(c, fiber.StatusUnprocessableEntity, "A análise não recomenda a aprovação deste reembolso")
		}
		h.logger.Error("AI approval failed", zap.Error(err))
		return errorJSON(c, fiber.StatusInternalServerError, "Falha ao aprovar com IA")
	}
	return c.JSON(resp)
}

// Dashboard godoc
// @Summary Lista análises com filtros e agregados por risco
// @Tags analise
// @Produce json
// @Security Bearer
// @Param risco query string false "Filtra pelo nível de risco: baixo, medio, alto"
// @Param aprovacao_sugerida query bool false "Filtra pela sugestão de aprovação"
// @Param limit query int false "Máximo de análises retornadas" default(50)
// @Param offset query int false "Deslocamento da listagem"
// @Success 200 {object} dto.DashboardResponse
// @Router /analises [get]
func (h *AnalysisHandler) Dashboard(c *fiber.Ctx) error {
	filter := repository.AnalysisFilter{
		RiskLevel: c.Query("risco"),
		Limit:     50,
	}
	if raw := c.Query("aprovacao_sugerida"); raw != "" {
		approved, err := strconv.ParseBool(raw)
		if err != nil {
			return errorJSON(c, fiber.StatusBadRequest, "aprovacao_sugerida inválida")
		}
		filter.ApprovalSuggested = &approved
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return errorJSON(c, fiber.StatusBadRequest, "limit inválido")
		}
		filter.Limit = limit
	}
	if raw := c.Query("offset"); raw != "" {
		offset, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return errorJSON(c, fiber.StatusBadRequest, "offset inválido")
		}
		filter.Offset = offset
	}

	resp, err := h.service.Dashboard(c.Context(), filter)
	if err != nil {
		h.logger.Error("Failed to build analysis dashboard", zap.Error(err))
		return errorJSON(c, fiber.StatusInternalServerError, "Falha ao listar análises")
	}
	return c.JSON(resp)
}
