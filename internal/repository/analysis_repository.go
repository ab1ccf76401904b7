package repository

import (
	"context"

	"sispar/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var analysisColumns = []string{
	"id", "reembolso_id", "score_confiabilidade", "nivel_risco", "aprovacao_sugerida",
	"motivo_sugestao", "dados_ia", "alertas", "validacoes", "historico_colaborador",
	"versao_modelo", "timestamp_analise",
}

// AnalysisFilter narrows List results for the review dashboard.
type AnalysisFilter struct {
	RiskLevel         string
	ApprovalSuggested *bool
	Limit             uint64
	Offset            uint64
}

type AnalysisRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewAnalysisRepository(db *pgxpool.Pool, logger *zap.Logger) *AnalysisRepository {
	return &AnalysisRepository{
		db:     db,
		logger: logger,
	}
}

func (r *AnalysisRepository) Create(ctx context.Context, a *models.FraudAnalysis) error {
	query := squirrel.Insert("analises_ia").
		Columns(analysisColumns...).
		Values(a.ID, a.ReimbursementID, a.Score, a.RiskLevel, a.ApprovalSuggested,
			a.SuggestionReason, a.VendorData, a.Alerts, a.Validations,
			a.CollaboratorHistory, a.ModelVersion, a.AnalyzedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

// LatestByReimbursement returns the most recent analysis snapshot of a
// reimbursement. Analyses are append-only; earlier rows stay for audit.
func (r *AnalysisRepository) LatestByReimbursement(ctx context.Context, reimbursementID uuid.UUID) (*models.FraudAnalysis, error) {
	query := squirrel.Select(analysisColumns...).
		From("analises_ia").
		Where(squirrel.Eq{"reembolso_id": reimbursementID}).
		OrderBy("timestamp_analise DESC").
		Limit(1).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	var a models.FraudAnalysis
	err = r.db.QueryRow(ctx, sql, args...).Scan(analysisScanTargets(&a)...)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AnalysisRepository) List(ctx context.Context, filter AnalysisFilter) ([]*models.FraudAnalysis, error) {
	query := squirrel.Select(analysisColumns...).
		From("analises_ia").
		OrderBy("timestamp_analise DESC").
		PlaceholderFormat(squirrel.Dollar)

	if filter.RiskLevel != "" {
		query = query.Where(squirrel.Eq{"nivel_risco": filter.RiskLevel})
	}
	if filter.ApprovalSuggested != nil {
		query = query.Where(squirrel.Eq{"aprovacao_sugerida": *filter.ApprovalSuggested})
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var analyses []*models.FraudAnalysis
	for rows.Next() {
		var a models.FraudAnalysis
		if err := rows.Scan(analysisScanTargets(&a)...); err != nil {
			return nil, err
		}
		analyses = append(analyses, &a)
	}

	return analyses, rows.Err()
}

// CountByRisk aggregates analyses per risk tier for the dashboard summary.
func (r *AnalysisRepository) CountByRisk(ctx context.Context) (map[string]int, error) {
	sql, args, err := squirrel.Select("nivel_risco", "COUNT(*)").
		From("analises_ia").
		GroupBy("nivel_risco").
		PlaceholderFormat(squirrel.Dollar).ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var level string
		var count int
		if err := rows.Scan(&level, &count); err != nil {
			return nil, err
		}
		counts[level] = count
	}

	return counts, rows.Err()
}

func (r *AnalysisRepository) Count(ctx context.Context) (int, error) {
	sql, args, err := squirrel.Select("COUNT(*)").From("analises_ia").
		PlaceholderFormat(squirrel.Dollar).ToSql()
	if err != nil {
		return 0, err
	}

	var count int
	err = r.db.QueryRow(ctx, sql, args...).Scan(&count)
	return count, err
}

func (r *AnalysisRepository) DeleteByReimbursement(ctx context.Context, reimbursementID uuid.UUID) error {
	query := squirrel.Delete("analises_ia").
		Where(squirrel.Eq{"reembolso_id": reimbursementID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func analysisScanTargets(a *models.FraudAnalysis) []interface{} {
	return []interface{}{
		&a.ID, &a.ReimbursementID, &a.Score, &a.RiskLevel, &a.ApprovalSuggested,
		&a.SuggestionReason, &a.VendorData, &a.Alerts, &a.Validations,
		&a.CollaboratorHistory, &a.ModelVersion, &a.AnalyzedAt,
	}
}
