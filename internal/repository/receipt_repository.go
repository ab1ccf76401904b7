package repository

import (
	"context"

	"sispar/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var receiptColumns = []string{
	"id", "reembolso_id", "nome_arquivo", "texto_extraido", "valor_extraido",
	"status_validacao", "discrepancia_percentual", "hash_arquivo", "data_criacao",
}

type ReceiptRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewReceiptRepository(db *pgxpool.Pool, logger *zap.Logger) *ReceiptRepository {
	return &ReceiptRepository{
		db:     db,
		logger: logger,
	}
}

func (r *ReceiptRepository) Create(ctx context.Context, receipt *models.Receipt) error {
	query := squirrel.Insert("comprovantes").
		Columns(receiptColumns...).
		Values(receipt.ID, receipt.ReimbursementID, receipt.FileName, receipt.ExtractedText,
			receipt.ExtractedValue, receipt.ValidationStatus, receipt.Discrepancy,
			receipt.FileHash, receipt.CreatedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *ReceiptRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Receipt, error) {
	query := squirrel.Select(receiptColumns...).
		From("comprovantes").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var receipt models.Receipt
	err = r.db.QueryRow(ctx, sql, args...).Scan(receiptScanTargets(&receipt)...)
	if err != nil {
		return nil, err
	}
	return &receipt, nil
}

// GetByReimbursement returns the newest receipt attached to a reimbursement.
func (r *ReceiptRepository) GetByReimbursement(ctx context.Context, reimbursementID uuid.UUID) (*models.Receipt, error) {
	query := squirrel.Select(receiptColumns...).
		From("comprovantes").
		Where(squirrel.Eq{"reembolso_id": reimbursementID}).
		OrderBy("data_criacao DESC").
		Limit(1).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var receipt models.Receipt
	err = r.db.QueryRow(ctx, sql, args...).Scan(receiptScanTargets(&receipt)...)
	if err != nil {
		return nil, err
	}
	return &receipt, nil
}

func (r *ReceiptRepository) List(ctx context.Context) ([]*models.Receipt, error) {
	query := squirrel.Select(receiptColumns...).
		From("comprovantes").
		OrderBy("data_criacao DESC").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	return r.scanMany(ctx, sql, args)
}

// FindByHash returns receipts sharing a content hash, excluding those of
// the given reimbursement. Exact match only: re-encoding an image defeats
// the duplicate check (known limitation).
func (r *ReceiptRepository) FindByHash(ctx context.Context, hash string, excludeReimbursement uuid.UUID) ([]*models.Receipt, error) {
	query := squirrel.Select(receiptColumns...).
		From("comprovantes").
		Where(squirrel.Eq{"hash_arquivo": hash}).
		Where(squirrel.NotEq{"reembolso_id": excludeReimbursement}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	return r.scanMany(ctx, sql, args)
}

// UpdateValidation rewrites the derived validation fields after a
// revalidation run.
func (r *ReceiptRepository) UpdateValidation(ctx context.Context, id uuid.UUID, status string, discrepancy decimal.NullDecimal) error {
	query := squirrel.Update("comprovantes").
		Set("status_validacao", status).
		Set("discrepancia_percentual", discrepancy).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *ReceiptRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := squirrel.Delete("comprovantes").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

// DeleteByReimbursement removes all receipts of a reimbursement and
// returns them so the caller can remove the stored files.
func (r *ReceiptRepository) DeleteByReimbursement(ctx context.Context, reimbursementID uuid.UUID) ([]*models.Receipt, error) {
	receipts, err := r.listByReimbursement(ctx, reimbursementID)
	if err != nil {
		return nil, err
	}

	query := squirrel.Delete("comprovantes").
		Where(squirrel.Eq{"reembolso_id": reimbursementID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		return nil, err
	}
	return receipts, nil
}

func (r *ReceiptRepository) listByReimbursement(ctx context.Context, reimbursementID uuid.UUID) ([]*models.Receipt, error) {
	query := squirrel.Select(receiptColumns...).
		From("comprovantes").
		Where(squirrel.Eq{"reembolso_id": reimbursementID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	return r.scanMany(ctx, sql, args)
}

func (r *ReceiptRepository) scanMany(ctx context.Context, sql string, args []interface{}) ([]*models.Receipt, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var receipts []*models.Receipt
	for rows.Next() {
		var receipt models.Receipt
		if err := rows.Scan(receiptScanTargets(&receipt)...); err != nil {
			return nil, err
		}
		receipts = append(receipts, &receipt)
	}

	return receipts, rows.Err()
}

func receiptScanTargets(receipt *models.Receipt) []interface{} {
	return []interface{}{
		&receipt.ID, &receipt.ReimbursementID, &receipt.FileName, &receipt.ExtractedText,
		&receipt.ExtractedValue, &receipt.ValidationStatus, &receipt.Discrepancy,
		&receipt.FileHash, &receipt.CreatedAt,
	}
}
