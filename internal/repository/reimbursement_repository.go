package repository

import (
	"context"

	"sispar/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var reimbursementColumns = []string{
	"id", "colaborador", "id_colaborador", "empresa", "descricao", "tipo_reembolso",
	"centro_custo", "ordem_interna", "divisao", "pep", "moeda", "distancia_km",
	"valor_km", "valor_faturado", "despesa", "status", "comprovante_id", "data",
	"created_at", "updated_at",
}

// ReimbursementFilter narrows List results. Zero values mean no filter.
type ReimbursementFilter struct {
	Status         models.Status
	CollaboratorID uuid.UUID
}

type ReimbursementRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewReimbursementRepository(db *pgxpool.Pool, logger *zap.Logger) *ReimbursementRepository {
	return &ReimbursementRepository{
		db:     db,
		logger: logger,
	}
}

func (r *ReimbursementRepository) Create(ctx context.Context, m *models.Reimbursement) error {
	query := squirrel.Insert("reembolsos").
		Columns(reimbursementColumns...).
		Values(m.ID, m.CollaboratorName, m.CollaboratorID, m.Company, m.Description,
			m.ExpenseType, m.CostCenter, m.InternalOrder, m.Division, m.PEP, m.Currency,
			m.DistanceKM, m.ValuePerKM, m.DeclaredValue, m.Expense, m.Status,
			m.ReceiptID, m.Date, m.CreatedAt, m.UpdatedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *ReimbursementRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Reimbursement, error) {
	query := squirrel.Select(reimbursementColumns...).
		From("reembolsos").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var m models.Reimbursement
	err = r.db.QueryRow(ctx, sql, args...).Scan(scanTargets(&m)...)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *ReimbursementRepository) List(ctx context.Context, filter ReimbursementFilter) ([]*models.Reimbursement, error) {
	query := squirrel.Select(reimbursementColumns...).
		From("reembolsos").
		OrderBy("data DESC").
		PlaceholderFormat(squirrel.Dollar)

	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"status": filter.Status})
	}
	if filter.CollaboratorID != uuid.Nil {
		query = query.Where(squirrel.Eq{"id_colaborador": filter.CollaboratorID})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	return r.scanMany(ctx, sql, args)
}

// ListByCollaborator returns a collaborator's reimbursements, optionally
// excluding one (the request under analysis).
func (r *ReimbursementRepository) ListByCollaborator(ctx context.Context, collaboratorID uuid.UUID, exclude uuid.UUID) ([]*models.Reimbursement, error) {
	query := squirrel.Select(reimbursementColumns...).
		From("reembolsos").
		Where(squirrel.Eq{"id_colaborador": collaboratorID}).
		OrderBy("data ASC").
		PlaceholderFormat(squirrel.Dollar)

	if exclude != uuid.Nil {
		query = query.Where(squirrel.NotEq{"id": exclude})
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	return r.scanMany(ctx, sql, args)
}

func (r *ReimbursementRepository) Update(ctx context.Context, m *models.Reimbursement) error {
	query := squirrel.Update("reembolsos").
		Set("colaborador", m.CollaboratorName).
		Set("empresa", m.Company).
		Set("descricao", m.Description).
		Set("tipo_reembolso", m.ExpenseType).
		Set("centro_custo", m.CostCenter).
		Set("ordem_interna", m.InternalOrder).
		Set("divisao", m.Division).
		Set("pep", m.PEP).
		Set("moeda", m.Currency).
		Set("distancia_km", m.DistanceKM).
		Set("valor_km", m.ValuePerKM).
		Set("valor_faturado", m.DeclaredValue).
		Set("despesa", m.Expense).
		Set("status", m.Status).
		Set("comprovante_id", m.ReceiptID).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": m.ID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *ReimbursementRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.Status) error {
	query := squirrel.Update("reembolsos").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *ReimbursementRepository) SetReceipt(ctx context.Context, id uuid.UUID, receiptID uuid.UUID) error {
	query := squirrel.Update("reembolsos").
		Set("comprovante_id", receiptID).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *ReimbursementRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := squirrel.Delete("reembolsos").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

// CountByStatus returns how many reimbursements a collaborator has per
// status (chat assistant context).
func (r *ReimbursementRepository) CountByStatus(ctx context.Context, collaboratorID uuid.UUID) (map[models.Status]int, error) {
	query := squirrel.Select("status", "COUNT(*)").
		From("reembolsos").
		Where(squirrel.Eq{"id_colaborador": collaboratorID}).
		GroupBy("status").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[models.Status]int)
	for rows.Next() {
		var status models.Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}

	return counts, rows.Err()
}

func (r *ReimbursementRepository) Count(ctx context.Context) (int, error) {
	sql, args, err := squirrel.Select("COUNT(*)").From("reembolsos").
		PlaceholderFormat(squirrel.Dollar).ToSql()
	if err != nil {
		return 0, err
	}

	var count int
	err = r.db.QueryRow(ctx, sql, args...).Scan(&count)
	return count, err
}

func (r *ReimbursementRepository) scanMany(ctx context.Context, sql string, args []interface{}) ([]*models.Reimbursement, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reimbursements []*models.Reimbursement
	for rows.Next() {
		var m models.Reimbursement
		if err := rows.Scan(scanTargets(&m)...); err != nil {
			return nil, err
		}
		reimbursements = append(reimbursements, &m)
	}

	return reimbursements, rows.Err()
}

func scanTargets(m *models.Reimbursement) []interface{} {
	return []interface{}{
		&m.ID, &m.CollaboratorName, &m.CollaboratorID, &m.Company, &m.Description,
		&m.ExpenseType, &m.CostCenter, &m.InternalOrder, &m.Division, &m.PEP,
		&m.Currency, &m.DistanceKM, &m.ValuePerKM, &m.DeclaredValue, &m.Expense,
		&m.Status, &m.ReceiptID, &m.Date, &m.CreatedAt, &m.UpdatedAt,
	}
}
