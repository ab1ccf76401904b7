package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"sispar/internal/dto"
	"sispar/internal/models"
	"sispar/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrReimbursementNotFound = errors.New("reimbursement not found")
	ErrInvalidStatus         = errors.New("invalid status")
	ErrNoReceipt             = errors.New("reimbursement has no receipt")
)

type ReimbursementService struct {
	repo        *repository.ReimbursementRepository
	receiptRepo *repository.ReceiptRepository
	analysisRepo *repository.AnalysisRepository
	uploadDir   string
	logger      *zap.Logger
}

func NewReimbursementService(
	repo *repository.ReimbursementRepository,
	receiptRepo *repository.ReceiptRepository,
	analysisRepo *repository.AnalysisRepository,
	uploadDir string,
	logger *zap.Logger,
) *ReimbursementService {
	return &ReimbursementService{
		repo:         repo,
		receiptRepo:  receiptRepo,
		analysisRepo: analysisRepo,
		uploadDir:    uploadDir,
		logger:       logger,
	}
}

func (s *ReimbursementService) Create(ctx context.Context, req *dto.CreateReimbursementRequest) (*dto.ReimbursementResponse, error) {
	collaboratorID, err := uuid.Parse(req.CollaboratorID)
	if err != nil {
		return nil, errors.New("invalid collaborator id")
	}

	date := time.Now()
	if req.Date != "" {
		parsed, err := parseDate(req.Date)
		if err != nil {
			return nil, errors.New("invalid date format, expected YYYY-MM-DD")
		}
		date = parsed
	}

	currency := req.Currency
	if currency == "" {
		currency = "BRL"
	}

	expense := decimal.NewFromFloat(req.Expense)
	if expense.IsZero() {
		expense = decimal.NewFromFloat(req.DeclaredValue)
	}

	now := time.Now()
	m := &models.Reimbursement{
		ID:               uuid.New(),
		CollaboratorName: req.CollaboratorName,
		CollaboratorID:   collaboratorID,
		Company:          req.Company,
		Description:      req.Description,
		ExpenseType:      req.ExpenseType,
		CostCenter:       req.CostCenter,
		InternalOrder:    req.InternalOrder,
		Division:         req.Division,
		PEP:              req.PEP,
		Currency:         currency,
		DeclaredValue:    decimal.NewFromFloat(req.DeclaredValue),
		Expense:          expense,
		Status:           models.StatusPending,
		Date:             date,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if req.DistanceKM > 0 {
		m.DistanceKM = decimal.NullDecimal{Decimal: decimal.NewFromFloat(req.DistanceKM), Valid: true}
	}
	if req.ValuePerKM > 0 {
		m.ValuePerKM = decimal.NullDecimal{Decimal: decimal.NewFromFloat(req.ValuePerKM), Valid: true}
	}

	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}

	s.logger.Info("Reimbursement created",
		zap.String("id", m.ID.String()),
		zap.String("collaborator_id", m.CollaboratorID.String()),
		zap.String("declared_value", m.DeclaredValue.String()),
	)

	resp := toReimbursementResponse(m)
	return &resp, nil
}

func (s *ReimbursementService) Get(ctx context.Context, id uuid.UUID) (*dto.ReimbursementResponse, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrReimbursementNotFound
	}
	resp := toReimbursementResponse(m)
	return &resp, nil
}

func (s *ReimbursementService) List(ctx context.Context, filter repository.ReimbursementFilter) ([]dto.ReimbursementResponse, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, ErrInvalidStatus
	}

	reimbursements, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.ReimbursementResponse, 0, len(reimbursements))
	for _, m := range reimbursements {
		responses = append(responses, toReimbursementResponse(m))
	}
	return responses, nil
}

func (s *ReimbursementService) Update(ctx context.Context, id uuid.UUID, req *dto.UpdateReimbursementRequest) (*dto.ReimbursementResponse, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrReimbursementNotFound
	}

	if req.CollaboratorName != "" {
		m.CollaboratorName = req.CollaboratorName
	}
	if req.Company != "" {
		m.Company = req.Company
	}
	if req.Description != "" {
		m.Description = req.Description
	}
	if req.ExpenseType != "" {
		m.ExpenseType = req.ExpenseType
	}
	if req.CostCenter != "" {
		m.CostCenter = req.CostCenter
	}
	if req.InternalOrder != "" {
		m.InternalOrder = req.InternalOrder
	}
	if req.Division != "" {
		m.Division = req.Division
	}
	if req.PEP != "" {
		m.PEP = req.PEP
	}
	if req.Currency != "" {
		m.Currency = req.Currency
	}
	if req.DistanceKM > 0 {
		m.DistanceKM = decimal.NullDecimal{Decimal: decimal.NewFromFloat(req.DistanceKM), Valid: true}
	}
	if req.ValuePerKM > 0 {
		m.ValuePerKM = decimal.NullDecimal{Decimal: decimal.NewFromFloat(req.ValuePerKM), Valid: true}
	}
	if req.DeclaredValue > 0 {
		m.DeclaredValue = decimal.NewFromFloat(req.DeclaredValue)
	}
	if req.Expense > 0 {
		m.Expense = decimal.NewFromFloat(req.Expense)
	}

	if err := s.repo.Update(ctx, m); err != nil {
		return nil, err
	}

	resp := toReimbursementResponse(m)
	return &resp, nil
}

// Delete removes a reimbursement with its receipts (database rows and
// stored files) and analysis history.
func (s *ReimbursementService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return ErrReimbursementNotFound
	}

	if err := s.analysisRepo.DeleteByReimbursement(ctx, id); err != nil {
		return err
	}

	receipts, err := s.receiptRepo.DeleteByReimbursement(ctx, id)
	if err != nil {
		return err
	}
	for _, receipt := range receipts {
		path := filepath.Join(s.uploadDir, receipt.FileName)
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			s.logger.Warn("Failed to remove receipt file",
				zap.String("path", path),
				zap.Error(err),
			)
		}
	}

	return s.repo.Delete(ctx, id)
}

// Approve marks a reimbursement approved. An explicit human decision; the
// scoring pipeline only ever suggests.
func (s *ReimbursementService) Approve(ctx context.Context, id uuid.UUID) (*dto.StatusChangeResponse, error) {
	return s.changeStatus(ctx, id, models.StatusApproved, "Reembolso aprovado")
}

func (s *ReimbursementService) Reject(ctx context.Context, id uuid.UUID) (*dto.StatusChangeResponse, error) {
	return s.changeStatus(ctx, id, models.StatusRejected, "Reembolso rejeitado")
}

// SubmitForReview moves a pending reimbursement forward based on its
// receipt validation: an approved receipt pre-approves it, anything else
// sends it to manual review.
func (s *ReimbursementService) SubmitForReview(ctx context.Context, id uuid.UUID) (*dto.StatusChangeResponse, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrReimbursementNotFound
	}

	status := models.StatusInReview
	message := "Reembolso enviado para análise manual"

	receipt, err := s.receiptRepo.GetByReimbursement(ctx, m.ID)
	if err == nil && receipt.ValidationStatus == models.ValidationApproved {
		status = models.StatusPreApproved
		message = "Comprovante validado, reembolso pré-aprovado"
	}

	if err := s.repo.UpdateStatus(ctx, m.ID, status); err != nil {
		return nil, err
	}

	return &dto.StatusChangeResponse{
		ID:      m.ID.String(),
		Status:  string(status),
		Message: message,
	}, nil
}

func (s *ReimbursementService) changeStatus(ctx context.Context, id uuid.UUID, status models.Status, message string) (*dto.StatusChangeResponse, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, ErrReimbursementNotFound
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}

	s.logger.Info("Reimbursement status changed",
		zap.String("id", id.String()),
		zap.String("status", string(status)),
	)

	return &dto.StatusChangeResponse{
		ID:      id.String(),
		Status:  string(status),
		Message: message,
	}, nil
}

func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}

func toReimbursementResponse(m *models.Reimbursement) dto.ReimbursementResponse {
	resp := dto.ReimbursementResponse{
		ID:               m.ID.String(),
		CollaboratorName: m.CollaboratorName,
		CollaboratorID:   m.CollaboratorID.String(),
		Company:          m.Company,
		Description:      m.Description,
		ExpenseType:      m.ExpenseType,
		CostCenter:       m.CostCenter,
		InternalOrder:    m.InternalOrder,
		Division:         m.Division,
		PEP:              m.PEP,
		Currency:         m.Currency,
		DeclaredValue:    m.DeclaredValue.InexactFloat64(),
		Expense:          m.Expense.InexactFloat64(),
		Status:           string(m.Status),
		Date:             m.Date.Format("2006-01-02"),
		CreatedAt:        m.CreatedAt.Format(time.RFC3339),
	}
	if m.DistanceKM.Valid {
		resp.DistanceKM = m.DistanceKM.Decimal.InexactFloat64()
	}
	if m.ValuePerKM.Valid {
		resp.ValuePerKM = m.ValuePerKM.Decimal.InexactFloat64()
	}
	if m.ReceiptID != nil {
		resp.ReceiptID = m.ReceiptID.String()
	}
	return resp
}
