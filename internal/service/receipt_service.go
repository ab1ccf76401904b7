package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"sispar/internal/dto"
	"sispar/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrReceiptNotFound    = errors.New("receipt not found")
	ErrUnsupportedFormat  = errors.New("unsupported file format")
)

// receiptStore is the slice of ReceiptRepository the pipeline needs.
type receiptStore interface {
	Create(ctx context.Context, receipt *models.Receipt) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Receipt, error)
	List(ctx context.Context) ([]*models.Receipt, error)
	UpdateValidation(ctx context.Context, id uuid.UUID, status string, discrepancy decimal.NullDecimal) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// reimbursementLinker resolves the reimbursement a receipt belongs to and
// links the stored receipt back to it.
type reimbursementLinker interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Reimbursement, error)
	SetReceipt(ctx context.Context, id uuid.UUID, receiptID uuid.UUID) error
}

type textExtractor interface {
	ExtractText(ctx context.Context, filePath string) (string, error)
}

// ReceiptService owns the receipt pipeline: store the file, OCR it,
// extract the monetary value and validate it against the declared one.
type ReceiptService struct {
	repo          receiptStore
	reimbRepo     reimbursementLinker
	ocr           textExtractor
	uploadDir     string
	tolerancePct  float64
	logger        *zap.Logger
}

func NewReceiptService(
	repo receiptStore,
	reimbRepo reimbursementLinker,
	ocr textExtractor,
	uploadDir string,
	tolerancePercent float64,
	logger *zap.Logger,
) *ReceiptService {
	return &ReceiptService{
		repo:         repo,
		reimbRepo:    reimbRepo,
		ocr:          ocr,
		uploadDir:    uploadDir,
		tolerancePct: tolerancePercent,
		logger:       logger,
	}
}

// Upload stores a receipt file, runs OCR over it and validates the
// extracted value against the reimbursement's declared one. The stored
// validation fields stay derivable from (declared, extracted, tolerance).
func (s *ReceiptService) Upload(ctx context.Context, reimbursementID uuid.UUID, originalName string, data []byte) (*dto.ReceiptUploadResponse, error) {
	reimbursement, err := s.reimbRepo.GetByID(ctx, reimbursementID)
	if err != nil {
		return nil, ErrReimbursementNotFound
	}

	ext := strings.ToLower(filepath.Ext(originalName))
	if !supportedReceiptFormats[ext] {
		return nil, ErrUnsupportedFormat
	}

	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}

	receiptID := uuid.New()
	fileName := receiptID.String() + ext
	filePath := filepath.Join(s.uploadDir, fileName)
	if err := os.WriteFile(filePath, data, 0o644); err != nil {
		return nil, fmt.Errorf("failed to store receipt file: %w", err)
	}

	hash := sha256.Sum256(data)
	fileHash := hex.EncodeToString(hash[:])

	text, err := s.ocr.ExtractText(ctx, filePath)
	if err != nil {
		// No partial uploads: the receipt row and file stand or fall together.
		if removeErr := os.Remove(filePath); removeErr != nil {
			s.logger.Warn("Failed to remove receipt file after OCR failure",
				zap.String("path", filePath),
				zap.Error(removeErr),
			)
		}
		return nil, fmt.Errorf("OCR failed: %w", err)
	}
	text = sanitizeUTF8(text)

	foundValues := ExtractMonetaryValues(text)
	var extracted decimal.NullDecimal
	if largest, ok := LargestMonetaryValue(text); ok {
		extracted = decimal.NullDecimal{Decimal: largest, Valid: true}
	}

	validation := ValidateAmounts(reimbursement.DeclaredValue, extracted, s.tolerancePct)

	receipt := &models.Receipt{
		ID:               receiptID,
		ReimbursementID:  reimbursement.ID,
		FileName:         fileName,
		ExtractedText:    text,
		ExtractedValue:   extracted,
		ValidationStatus: validation.Status,
		Discrepancy:      validation.Discrepancy,
		FileHash:         fileHash,
		CreatedAt:        time.Now(),
	}

	if err := s.repo.Create(ctx, receipt); err != nil {
		if removeErr := os.Remove(filePath); removeErr != nil {
			s.logger.Warn("Failed to remove receipt file after insert failure",
				zap.String("path", filePath),
				zap.Error(removeErr),
			)
		}
		return nil, err
	}

	if err := s.reimbRepo.SetReceipt(ctx, reimbursement.ID, receipt.ID); err != nil {
		// Same no-partial-uploads rule: roll the row and the file back
		// rather than leaving a receipt the reimbursement does not point to.
		if delErr := s.repo.Delete(ctx, receipt.ID); delErr != nil {
			s.logger.Warn("Failed to remove receipt row after link failure",
				zap.String("receipt_id", receipt.ID.String()),
				zap.Error(delErr),
			)
		}
		if removeErr := os.Remove(filePath); removeErr != nil {
			s.logger.Warn("Failed to remove receipt file after link failure",
				zap.String("path", filePath),
				zap.Error(removeErr),
			)
		}
		return nil, err
	}

	s.logger.Info("Receipt uploaded and validated",
		zap.String("receipt_id", receipt.ID.String()),
		zap.String("reimbursement_id", reimbursement.ID.String()),
		zap.String("validation_status", receipt.ValidationStatus),
	)

	values := make([]float64, 0, len(foundValues))
	for _, v := range foundValues {
		values = append(values, v.InexactFloat64())
	}

	return &dto.ReceiptUploadResponse{
		Receipt:       toReceiptResponse(receipt),
		DeclaredValue: reimbursement.DeclaredValue.InexactFloat64(),
		FoundValues:   values,
		Message:       validation.Message,
	}, nil
}

func (s *ReceiptService) Get(ctx context.Context, id uuid.UUID) (*dto.ReceiptResponse, error) {
	receipt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrReceiptNotFound
	}
	resp := toReceiptResponse(receipt)
	return &resp, nil
}

func (s *ReceiptService) List(ctx context.Context) ([]dto.ReceiptResponse, error) {
	receipts, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.ReceiptResponse, 0, len(receipts))
	for _, receipt := range receipts {
		responses = append(responses, toReceiptResponse(receipt))
	}
	return responses, nil
}

// Revalidate recomputes the validation fields from the stored extracted
// text and the current declared value. Lets a corrected declared value
// or a changed tolerance take effect without re-running OCR.
func (s *ReceiptService) Revalidate(ctx context.Context, id uuid.UUID) (*dto.ReceiptValidationResponse, error) {
	receipt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrReceiptNotFound
	}

	reimbursement, err := s.reimbRepo.GetByID(ctx, receipt.ReimbursementID)
	if err != nil {
		return nil, ErrReimbursementNotFound
	}

	var extracted decimal.NullDecimal
	if largest, ok := LargestMonetaryValue(receipt.ExtractedText); ok {
		extracted = decimal.NullDecimal{Decimal: largest, Valid: true}
	}

	validation := ValidateAmounts(reimbursement.DeclaredValue, extracted, s.tolerancePct)
	if err := s.repo.UpdateValidation(ctx, receipt.ID, validation.Status, validation.Discrepancy); err != nil {
		return nil, err
	}

	resp := &dto.ReceiptValidationResponse{
		ReceiptID:        receipt.ID.String(),
		ValidationStatus: validation.Status,
		Approved:         validation.Approved,
		Message:          validation.Message,
	}
	if validation.Discrepancy.Valid {
		v := validation.Discrepancy.Decimal.InexactFloat64()
		resp.Discrepancy = &v
	}
	return resp, nil
}

// File resolves the stored file path and content type for download.
func (s *ReceiptService) File(ctx context.Context, id uuid.UUID) (string, string, error) {
	receipt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", "", ErrReceiptNotFound
	}

	path := filepath.Join(s.uploadDir, receipt.FileName)
	if _, err := os.Stat(path); err != nil {
		return "", "", ErrReceiptNotFound
	}

	contentType := "application/octet-stream"
	switch strings.ToLower(filepath.Ext(receipt.FileName)) {
	case ".pdf":
		contentType = "application/pdf"
	case ".png":
		contentType = "image/png"
	case ".jpg", ".jpeg":
		contentType = "image/jpeg"
	}
	return path, contentType, nil
}

func toReceiptResponse(receipt *models.Receipt) dto.ReceiptResponse {
	resp := dto.ReceiptResponse{
		ID:               receipt.ID.String(),
		ReimbursementID:  receipt.ReimbursementID.String(),
		FileName:         receipt.FileName,
		ValidationStatus: receipt.ValidationStatus,
		CreatedAt:        receipt.CreatedAt.Format(time.RFC3339),
	}
	if receipt.ExtractedValue.Valid {
		v := receipt.ExtractedValue.Decimal.InexactFloat64()
		resp.ExtractedValue = &v
	}
	if receipt.Discrepancy.Valid {
		v := receipt.Discrepancy.Decimal.InexactFloat64()
		resp.Discrepancy = &v
	}
	return resp
}
