package handlers

import (
	"errors"
	"io"

	"sispar/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ReceiptHandler struct {
	service *service.ReceiptService
	logger  *zap.Logger
}

func NewReceiptHandler(service *service.ReceiptService, logger *zap.Logger) *ReceiptHandler {
	return &ReceiptHandler{
		service: service,
		logger:  logger,
	}
}

// Upload godoc
// @Summary Envia um comprovante para OCR e validação
// @Description Armazena o arquivo, extrai o texto via OCR e valida o valor contra o declarado
// @Tags comprovante
// @Accept multipart/form-data
// @Produce json
// @Security Bearer
// @Param file formData file true "Comprovante (jpg, jpeg, png ou pdf)"
// @Param reembolso_id formData string true "ID do reembolso"
// @Success 201 {object} dto.ReceiptUploadResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /ocr [post]
func (h *ReceiptHandler) Upload(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Arquivo é obrigatório")
	}

	reimbursementID, err := uuid.Parse(c.FormValue("reembolso_id"))
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "reembolso_id inválido")
	}

	src, err := file.Open()
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Falha ao abrir o arquivo")
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "Falha ao ler o arquivo")
	}

	resp, err := h.service.Upload(c.Context(), reimbursementID, file.Filename, data)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrReimbursementNotFound):
			return errorJSON(c, fiber.StatusNotFound, "Reembolso não encontrado")
		case errors.Is(err, service.ErrUnsupportedFormat):
			return errorJSON(c, fiber.StatusBadRequest, "Formato não suportado (jpg, jpeg, png, pdf)")
		}
		h.logger.Error("Receipt upload failed", zap.Error(err))
		return errorJSON(c, fiber.StatusInternalServerError, "Falha ao processar comprovante")
	}

	return c.Status(fiber.StatusCreated).JSON(resp)
}

// List godoc
// @Summary Lista comprovantes
// @Tags comprovante
// @Produce json
// @Security Bearer
// @Success 200 {array} dto.ReceiptResponse
// @Router /comprovantes [get]
func (h *ReceiptHandler) List(c *fiber.Ctx) error {
	receipts, err := h.service.List(c.Context())
	if err != nil {
		h.logger.Error("Failed to list receipts", zap.Error(err))
		return errorJSON(c, fiber.StatusInternalServerError, "Falha ao listar comprovantes")
	}
	return c.JSON(receipts)
}

// Get godoc
// @Summary Busca um comprovante pelo id
// @Tags comprovante
// @Produce json
// @Security Bearer
// @Param id path string true "ID do comprovante"
// @Success 200 {object} dto.ReceiptResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /comprovantes/{id} [get]
func (h *ReceiptHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "ID inválido")
	}

	receipt, err := h.service.Get(c.Context(), id)
	if err != nil {
		return errorJSON(c, fiber.StatusNotFound, "Comprovante não encontrado")
	}
	return c.JSON(receipt)
}

// Revalidate godoc
// @Summary Revalida um comprovante contra o valor declarado atual
// @Tags comprovante
// @Produce json
// @Security Bearer
// @Param id path string true "ID do comprovante"
// @Success 200 {object} dto.ReceiptValidationResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /comprovantes/{id}/revalidar [post]
func (h *ReceiptHandler) Revalidate(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "ID inválido")
	}

	resp, err := h.service.Revalidate(c.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrReceiptNotFound) || errors.Is(err, service.ErrReimbursementNotFound) {
			return errorJSON(c, fiber.StatusNotFound, "Comprovante não encontrado")
		}
		h.logger.Error("Receipt revalidation failed", zap.Error(err))
		return errorJSON(c, fiber.StatusInternalServerError, "Falha ao revalidar comprovante")
	}
	return c.JSON(resp)
}

// Download godoc
// @Summary Baixa o arquivo de um comprovante
// @Tags comprovante
// @Produce octet-stream
// @Security Bearer
// @Param id path string true "ID do comprovante"
// @Success 200 {file} file
// @Failure 404 {object} dto.ErrorResponse
// @Router /comprovantes/{id}/arquivo [get]
func (h *ReceiptHandler) Download(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return errorJSON(c, fiber.StatusBadRequest, "ID inválido")
	}

	path, contentType, err := h.service.File(c.Context(), id)
	if err != nil {
		return errorJSON(c, fiber.StatusNotFound, "Arquivo do comprovante não encontrado")
	}

	c.Set(fiber.HeaderContentType, contentType)
	return c.SendFile(path)
}
