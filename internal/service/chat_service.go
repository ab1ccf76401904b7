package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"sispar/internal/dto"
	"sispar/internal/models"
	"sispar/internal/repository"
	"sispar/pkg/config"

	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

var ErrChatUnavailable = errors.New("chat assistant is not configured")

const chatSystemPrompt = `Você é o assistente virtual do SISPAR, o sistema de solicitação de reembolsos corporativos.
Responda em português, de forma objetiva e cordial.
Você ajuda colaboradores com dúvidas sobre: cadastro de reembolsos, envio de comprovantes,
status das solicitações, prazos de aprovação e políticas de despesas.
Use o contexto do colaborador quando fornecido. Não invente valores ou status que não estejam no contexto.`

// ChatService answers collaborator questions through an OpenAI-compatible
// chat-completion API, enriched with the collaborator's reimbursement
// counts as context.
type ChatService struct {
	client     *openai.Client
	model      string
	maxRetries int
	timeout    time.Duration
	reimbRepo  *repository.ReimbursementRepository
	logger     *zap.Logger
}

func NewChatService(cfg *config.GroqConfig, reimbRepo *repository.ReimbursementRepository, logger *zap.Logger) *ChatService {
	if cfg.APIKey == "" {
		return &ChatService{reimbRepo: reimbRepo, logger: logger}
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	clientConfig.BaseURL = cfg.BaseURL

	return &ChatService{
		client:     openai.NewClientWithConfig(clientConfig),
		model:      cfg.Model,
		maxRetries: cfg.MaxRetries,
		timeout:    cfg.Timeout,
		reimbRepo:  reimbRepo,
		logger:     logger,
	}
}

// Ask sends the collaborator's message with their reimbursement context
// and returns the assistant's reply. Transient vendor failures are
// retried up to the configured limit.
func (s *ChatService) Ask(ctx context.Context, collaboratorID uuid.UUID, message string) (*dto.ChatResponse, error) {
	if s.client == nil {
		return nil, ErrChatUnavailable
	}

	request := openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: chatSystemPrompt},
			{Role: openai.ChatMessageRoleSystem, Content: s.collaboratorContext(ctx, collaboratorID)},
			{Role: openai.ChatMessageRoleUser, Content: message},
		},
	}

	var lastErr error
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, s.timeout)
		resp, err := s.client.CreateChatCompletion(callCtx, request)
		cancel()
		if err != nil {
			lastErr = err
			s.logger.Warn("Chat completion attempt failed",
				zap.Int("attempt", attempt+1),
				zap.Error(err),
			)
			continue
		}
		if len(resp.Choices) == 0 {
			lastErr = errors.New("empty chat completion response")
			continue
		}
		return &dto.ChatResponse{
			Reply: strings.TrimSpace(resp.Choices[0].Message.Content),
			Model: s.model,
		}, nil
	}

	return nil, fmt.Errorf("chat completion failed: %w", lastErr)
}

// collaboratorContext summarizes the collaborator's reimbursement counts
// per status. Failures yield an empty context rather than failing the chat.
func (s *ChatService) collaboratorContext(ctx context.Context, collaboratorID uuid.UUID) string {
	counts, err := s.reimbRepo.CountByStatus(ctx, collaboratorID)
	if err != nil || len(counts) == 0 {
		return "Contexto do colaborador: nenhum reembolso registrado."
	}

	var builder strings.Builder
	builder.WriteString("Contexto do colaborador, reembolsos por status:")
	for _, status := range []models.Status{
		models.StatusPending, models.StatusPreApproved, models.StatusInReview,
		models.StatusApproved, models.StatusRejected,
	} {
		if count, ok := counts[status]; ok {
			builder.WriteString(fmt.Sprintf(" %s: %d;", status, count))
		}
	}
	return builder.String()
}
