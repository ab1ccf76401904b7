package handlers

import (
	"errors"

	"sispar/internal/dto"
	"sispar/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type ChatHandler struct {
	service *service.ChatService
	logger  *zap.Logger
}

func NewChatHandler(service *service.ChatService, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{
		service: service,
		logger:  logger,
	}
}

// Ask godoc
// @Summary Pergunta ao assistente virtual do sistema
// @Description Responde dúvidas sobre reembolsos usando o contexto do colaborador autenticado
// @Tags chatbot
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body dto.ChatRequest true "Pergunta"
// @Success 200 {object} dto.ChatResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /chatbot/perguntar [post]
func (h *ChatHandler) Ask(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return errorJSON(c, fiber.StatusUnauthorized, "Não autorizado")
	}

	var req dto.ChatRequest
	if err := c.BodyParser(&req); err != nil || req.Message == "" {
		return errorJSON(c, fiber.StatusBadRequest, "Mensagem é obrigatória")
	}

	resp, err := h.service.Ask(c.Context(), userID, req.Message)
	if err != nil {
		if errors.Is(err, service.ErrChatUnavailable) {
			return errorJSON(c, fiber.StatusServiceUnavailable, "Assistente virtual indisponível")
		}
		h.logger.Error("Chat request failed", zap.Error(err))
		return errorJSON(c, fiber.StatusInternalServerError, "Falha ao consultar o assistente")
	}
	return c.JSON(resp)
}
