package service

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"sispar/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubReceiptStore struct {
	created   []*models.Receipt
	deleted   []uuid.UUID
	createErr error
}

func (s *stubReceiptStore) Create(_ context.Context, receipt *models.Receipt) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.created = append(s.created, receipt)
	return nil
}

func (s *stubReceiptStore) GetByID(_ context.Context, id uuid.UUID) (*models.Receipt, error) {
	for _, receipt := range s.created {
		if receipt.ID == id {
			return receipt, nil
		}
	}
	return nil, errors.New("no rows")
}

func (s *stubReceiptStore) List(_ context.Context) ([]*models.Receipt, error) {
	return s.created, nil
}

func (s *stubReceiptStore) UpdateValidation(_ context.Context, _ uuid.UUID, _ string, _ decimal.NullDecimal) error {
	return nil
}

func (s *stubReceiptStore) Delete(_ context.Context, id uuid.UUID) error {
	s.deleted = append(s.deleted, id)
	return nil
}

type stubReimbursementLinker struct {
	reimbursement *models.Reimbursement
	setReceiptErr error
	linked        []uuid.UUID
}

func (s *stubReimbursementLinker) GetByID(_ context.Context, id uuid.UUID) (*models.Reimbursement, error) {
	if s.reimbursement == nil || s.reimbursement.ID != id {
		return nil, errors.New("no rows")
	}
	return s.reimbursement, nil
}

func (s *stubReimbursementLinker) SetReceipt(_ context.Context, _ uuid.UUID, receiptID uuid.UUID) error {
	if s.setReceiptErr != nil {
		return s.setReceiptErr
	}
	s.linked = append(s.linked, receiptID)
	return nil
}

type stubTextExtractor struct {
	text string
	err  error
}

func (s *stubTextExtractor) ExtractText(_ context.Context, _ string) (string, error) {
	return s.text, s.err
}

func uploadFixture(t *testing.T) (*ReceiptService, *stubReceiptStore, *stubReimbursementLinker, *models.Reimbursement) {
	t.Helper()

	reimbursement := &models.Reimbursement{
		ID:            uuid.New(),
		DeclaredValue: decimal.RequireFromString("100"),
		Status:        models.StatusPending,
		CreatedAt:     time.Now(),
	}
	store := &stubReceiptStore{}
	linker := &stubReimbursementLinker{reimbursement: reimbursement}
	svc := NewReceiptService(store, linker,
		&stubTextExtractor{text: "Total: R$ 100,00"},
		t.TempDir(), DefaultTolerancePercent, zap.NewNop())
	return svc, store, linker, reimbursement
}

func storedFiles(t *testing.T, dir string) []os.DirEntry {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	return entries
}

func TestUploadStoresAndValidates(t *testing.T) {
	svc, store, linker, reimbursement := uploadFixture(t)

	resp, err := svc.Upload(context.Background(), reimbursement.ID, "nota.png", []byte("imagem"))
	require.NoError(t, err)

	require.Len(t, store.created, 1)
	receipt := store.created[0]
	assert.Equal(t, models.ValidationApproved, receipt.ValidationStatus)
	assert.Equal(t, []uuid.UUID{receipt.ID}, linker.linked)
	assert.Equal(t, 100.0, resp.DeclaredValue)
	assert.Equal(t, []float64{100.0}, resp.FoundValues)
	assert.Equal(t, "Valores exatamente iguais", resp.Message)
	assert.Len(t, storedFiles(t, svc.uploadDir), 1)
}

func TestUploadRejectsUnsupportedFormat(t *testing.T) {
	svc, store, _, reimbursement := uploadFixture(t)

	_, err := svc.Upload(context.Background(), reimbursement.ID, "nota.txt", []byte("texto"))

	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.Empty(t, store.created)
}

func TestUploadOCRFailureRemovesFile(t *testing.T) {
	svc, store, _, reimbursement := uploadFixture(t)
	svc.ocr = &stubTextExtractor{err: errors.New("tesseract unavailable")}

	_, err := svc.Upload(context.Background(), reimbursement.ID, "nota.png", []byte("imagem"))

	require.Error(t, err)
	assert.Empty(t, store.created)
	assert.Empty(t, storedFiles(t, svc.uploadDir))
}

// A failed link must not leave an orphan receipt: the row and the stored
// file are both rolled back.
func TestUploadLinkFailureRollsBack(t *testing.T) {
	svc, store, linker, reimbursement := uploadFixture(t)
	linker.setReceiptErr = errors.New("connection reset")

	_, err := svc.Upload(context.Background(), reimbursement.ID, "nota.png", []byte("imagem"))

	require.Error(t, err)
	require.Len(t, store.created, 1)
	assert.Equal(t, []uuid.UUID{store.created[0].ID}, store.deleted)
	assert.Empty(t, storedFiles(t, svc.uploadDir))
}
