package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"sispar/internal/dto"
	"sispar/internal/models"
	"sispar/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// maxBatchSize caps one batch analysis call.
const maxBatchSize = 10

// fallbackModelVersion marks analyses produced without the vision vendor.
const fallbackModelVersion = "ocr-fallback"

var (
	ErrAnalysisNotFound     = errors.New("analysis not found")
	ErrBatchTooLarge        = fmt.Errorf("batch size exceeds the maximum of %d", maxBatchSize)
	ErrApprovalNotSuggested = errors.New("analysis does not suggest approval")
)

// analysisStore is the slice of AnalysisRepository the pipeline needs.
type analysisStore interface {
	Create(ctx context.Context, a *models.FraudAnalysis) error
	LatestByReimbursement(ctx context.Context, reimbursementID uuid.UUID) (*models.FraudAnalysis, error)
	List(ctx context.Context, filter repository.AnalysisFilter) ([]*models.FraudAnalysis, error)
	CountByRisk(ctx context.Context) (map[string]int, error)
	Count(ctx context.Context) (int, error)
}

// reimbursementReader exposes the reimbursement lookups the scoring
// pipeline and dashboard rely on.
type reimbursementReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Reimbursement, error)
	ListByCollaborator(ctx context.Context, collaboratorID uuid.UUID, exclude uuid.UUID) ([]*models.Reimbursement, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status models.Status) error
	Count(ctx context.Context) (int, error)
}

// receiptFinder exposes the receipt lookups duplicate detection needs.
type receiptFinder interface {
	GetByReimbursement(ctx context.Context, reimbursementID uuid.UUID) (*models.Receipt, error)
	FindByHash(ctx context.Context, hash string, excludeReimbursement uuid.UUID) ([]*models.Receipt, error)
}

// AnalysisService runs the fraud scoring pipeline: vision (or OCR-only
// fallback) analysis of the receipt, duplicate detection, behavioral
// pattern checks and the penalty-based reliability score.
type AnalysisService struct {
	repo         analysisStore
	reimbRepo    reimbursementReader
	receiptRepo  receiptFinder
	vision       VisionAnalyzer
	uploadDir    string
	tolerancePct float64
	logger       *zap.Logger
}

// NewAnalysisService builds the scoring pipeline. vision may be nil; the
// pipeline then runs entirely on the OCR-only fallback.
func NewAnalysisService(
	repo analysisStore,
	reimbRepo reimbursementReader,
	receiptRepo receiptFinder,
	vision VisionAnalyzer,
	uploadDir string,
	tolerancePercent float64,
	logger *zap.Logger,
) *AnalysisService {
	return &AnalysisService{
		repo:         repo,
		reimbRepo:    reimbRepo,
		receiptRepo:  receiptRepo,
		vision:       vision,
		uploadDir:    uploadDir,
		tolerancePct: tolerancePercent,
		logger:       logger,
	}
}

// Analyze runs a full scoring pass over a reimbursement and persists the
// snapshot. Each call appends a new analysis; prior ones are kept.
func (s *AnalysisService) Analyze(ctx context.Context, reimbursementID uuid.UUID) (*dto.AnalysisResponse, error) {
	reimbursement, err := s.reimbRepo.GetByID(ctx, reimbursementID)
	if err != nil {
		return nil, ErrReimbursementNotFound
	}

	receipt, err := s.receiptRepo.GetByReimbursement(ctx, reimbursement.ID)
	if err != nil {
		return nil, ErrNoReceipt
	}

	analysis, modelVersion := s.receiptAnalysis(ctx, receipt, reimbursement)

	duplicates := 0
	if receipt.FileHash != "" {
		matches, err := s.receiptRepo.FindByHash(ctx, receipt.FileHash, reimbursement.ID)
		if err != nil {
			return nil, err
		}
		duplicates = len(matches)
	}

	history, err := s.reimbRepo.ListByCollaborator(ctx, reimbursement.CollaboratorID, reimbursement.ID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	stats := AnalyzeHistory(history, now)
	patterns := AnalyzePatterns(reimbursement, history)

	score, risk, alerts := ReliabilityScore(analysis.Validations, duplicates, patterns, analysis.FraudSignals)
	approved, reason := Recommend(score, risk, alerts)

	record := &models.FraudAnalysis{
		ID:                uuid.New(),
		ReimbursementID:   reimbursement.ID,
		Score:             score,
		RiskLevel:         risk,
		ApprovalSuggested: approved,
		SuggestionReason:  reason,
		ModelVersion:      modelVersion,
		AnalyzedAt:        now,
	}
	record.VendorData, _ = json.Marshal(analysis.ExtractedData)
	record.Alerts, _ = json.Marshal(alerts)
	record.Validations, _ = json.Marshal(analysis.Validations)
	record.CollaboratorHistory, _ = json.Marshal(stats)

	if err := s.repo.Create(ctx, record); err != nil {
		return nil, err
	}

	s.logger.Info("Fraud analysis completed",
		zap.String("reimbursement_id", reimbursement.ID.String()),
		zap.Int("score", score),
		zap.String("risk_level", risk),
		zap.Bool("approval_suggested", approved),
	)

	return &dto.AnalysisResponse{
		ID:                record.ID.String(),
		ReimbursementID:   reimbursement.ID.String(),
		Score:             score,
		RiskLevel:         risk,
		ApprovalSuggested: approved,
		SuggestionReason:  reason,
		Alerts:            alerts,
		Validations:       analysis.Validations,
		ExtractedData:     analysis.ExtractedData,
		History:           stats,
		Patterns:          patterns,
		SimilarReceipts:   duplicates,
		Recommendation:    reason,
		ModelVersion:      modelVersion,
		AnalyzedAt:        now.Format(time.RFC3339),
	}, nil
}

// AnalyzeBatch analyzes up to maxBatchSize reimbursements sequentially,
// collecting per-item errors instead of failing the whole batch.
func (s *AnalysisService) AnalyzeBatch(ctx context.Context, ids []uuid.UUID) (*dto.BatchAnalyzeResponse, error) {
	if len(ids) == 0 {
		return nil, errors.New("empty batch")
	}
	if len(ids) > maxBatchSize {
		return nil, ErrBatchTooLarge
	}

	start := time.Now()
	resp := &dto.BatchAnalyzeResponse{
		Results: make([]dto.BatchAnalyzeItem, 0, len(ids)),
		Summary: dto.BatchSummary{Total: len(ids)},
	}

	for _, id := range ids {
		item := dto.BatchAnalyzeItem{ID: id.String()}
		analysis, err := s.Analyze(ctx, id)
		if err != nil {
			item.Error = err.Error()
			resp.Summary.Failed++
		} else {
			item.Analysis = analysis
			resp.Summary.Succeeded++
			switch analysis.RiskLevel {
			case models.RiskHigh:
				resp.Summary.HighRisk++
			case models.RiskMedium:
				resp.Summary.MediumRisk++
			case models.RiskLow:
				resp.Summary.LowRisk++
			}
		}
		resp.Results = append(resp.Results, item)
	}

	resp.ElapsedSeconds = time.Since(start).Seconds()
	return resp, nil
}

// Latest returns the most recent stored analysis of a reimbursement.
func (s *AnalysisService) Latest(ctx context.Context, reimbursementID uuid.UUID) (*dto.AnalysisResponse, error) {
	record, err := s.repo.LatestByReimbursement(ctx, reimbursementID)
	if err != nil {
		return nil, ErrAnalysisNotFound
	}
	resp := toAnalysisResponse(record)
	return &resp, nil
}

// ApproveWithAI approves a reimbursement only when its latest analysis
// suggests approval. Runs a fresh analysis when none exists yet.
func (s *AnalysisService) ApproveWithAI(ctx context.Context, reimbursementID uuid.UUID) (*dto.ApproveWithAIResponse, error) {
	record, err := s.repo.LatestByReimbursement(ctx, reimbursementID)
	if err != nil {
		if _, analyzeErr := s.Analyze(ctx, reimbursementID); analyzeErr != nil {
			return nil, analyzeErr
		}
		record, err = s.repo.LatestByReimbursement(ctx, reimbursementID)
		if err != nil {
			return nil, ErrAnalysisNotFound
		}
	}

	if !record.ApprovalSuggested {
		return nil, ErrApprovalNotSuggested
	}

	if err := s.reimbRepo.UpdateStatus(ctx, reimbursementID, models.StatusApproved); err != nil {
		return nil, err
	}

	return &dto.ApproveWithAIResponse{
		ID:      reimbursementID.String(),
		Status:  string(models.StatusApproved),
		Score:   record.Score,
		Message: fmt.Sprintf("Reembolso aprovado com base na análise (score %d%%)", record.Score),
	}, nil
}

// Dashboard lists stored analyses with risk/approval filters plus the
// per-tier aggregates.
func (s *AnalysisService) Dashboard(ctx context.Context, filter repository.AnalysisFilter) (*dto.DashboardResponse, error) {
	analyses, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	byRisk, err := s.repo.CountByRisk(ctx)
	if err != nil {
		return nil, err
	}

	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, err
	}

	totalReimbursements, err := s.reimbRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	resp := &dto.DashboardResponse{
		Total:               total,
		TotalReimbursements: totalReimbursements,
		ByRisk:              byRisk,
		Analyses:            make([]dto.AnalysisResponse, 0, len(analyses)),
	}
	for _, record := range analyses {
		resp.Analyses = append(resp.Analyses, toAnalysisResponse(record))
	}
	return resp, nil
}

// receiptAnalysis asks the vision vendor for the structured analysis and
// falls back to an OCR-only one when the vendor is unavailable or fails.
// Vendor failures degrade, never abort: a scoring run must always produce
// a result when the receipt exists.
func (s *AnalysisService) receiptAnalysis(ctx context.Context, receipt *models.Receipt, reimbursement *models.Reimbursement) (*ReceiptAnalysis, string) {
	if s.vision != nil {
		path := filepath.Join(s.uploadDir, receipt.FileName)
		analysis, err := s.vision.AnalyzeReceipt(ctx, path, reimbursement)
		if err == nil {
			return analysis, s.vision.ModelVersion()
		}
		s.logger.Warn("Vision analysis failed, using OCR-only fallback",
			zap.String("receipt_id", receipt.ID.String()),
			zap.Error(err),
		)
	}
	return s.ocrOnlyAnalysis(receipt, reimbursement), fallbackModelVersion
}

// ocrOnlyAnalysis builds a ReceiptAnalysis from the OCR extraction alone.
// Checks the vision vendor would perform (dates, establishment, tampering)
// default to passing so the fallback only penalizes what OCR can verify.
func (s *AnalysisService) ocrOnlyAnalysis(receipt *models.Receipt, reimbursement *models.Reimbursement) *ReceiptAnalysis {
	validation := ValidateAmounts(reimbursement.DeclaredValue, receipt.ExtractedValue, s.tolerancePct)

	analysis := &ReceiptAnalysis{
		Validations: Validations{
			AmountMatches:      validation.Approved,
			DateValid:          true,
			EstablishmentValid: true,
			ExpenseTypeCorrect: true,
			Legible:            receipt.ExtractedText != "",
		},
		FraudSignals: FraudSignals{OriginalMetadata: true},
		Notes:        "Análise baseada apenas em OCR; verificação visual indisponível",
	}
	if validation.Discrepancy.Valid {
		analysis.Validations.DivergencePercent = validation.Discrepancy.Decimal.InexactFloat64()
	}
	if receipt.ExtractedValue.Valid {
		analysis.ExtractedData.Total = receipt.ExtractedValue.Decimal.InexactFloat64()
	}
	return analysis
}

func toAnalysisResponse(record *models.FraudAnalysis) dto.AnalysisResponse {
	resp := dto.AnalysisResponse{
		ID:                record.ID.String(),
		ReimbursementID:   record.ReimbursementID.String(),
		Score:             record.Score,
		RiskLevel:         record.RiskLevel,
		ApprovalSuggested: record.ApprovalSuggested,
		SuggestionReason:  record.SuggestionReason,
		Recommendation:    record.SuggestionReason,
		ModelVersion:      record.ModelVersion,
		AnalyzedAt:        record.AnalyzedAt.Format(time.RFC3339),
	}
	resp.Alerts = rawJSON(record.Alerts)
	resp.Validations = rawJSON(record.Validations)
	resp.ExtractedData = rawJSON(record.VendorData)
	resp.History = rawJSON(record.CollaboratorHistory)
	return resp
}

func rawJSON(data []byte) interface{} {
	if len(data) == 0 {
		return nil
	}
	return json.RawMessage(data)
}
