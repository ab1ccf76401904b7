package repository

import (
	"context"

	"sispar/internal/models"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var collaboratorColumns = []string{
	"id", "nome", "email", "senha", "cargo", "salario", "tipo", "created_at", "updated_at",
}

type CollaboratorRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewCollaboratorRepository(db *pgxpool.Pool, logger *zap.Logger) *CollaboratorRepository {
	return &CollaboratorRepository{
		db:     db,
		logger: logger,
	}
}

func (r *CollaboratorRepository) Create(ctx context.Context, c *models.Collaborator) error {
	query := squirrel.Insert("colaboradores").
		Columns(collaboratorColumns...).
		Values(c.ID, c.Name, c.Email, c.Password, c.Position, c.Salary, c.Role, c.CreatedAt, c.UpdatedAt).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *CollaboratorRepository) GetByEmail(ctx context.Context, email string) (*models.Collaborator, error) {
	query := squirrel.Select(collaboratorColumns...).
		From("colaboradores").
		Where(squirrel.Eq{"email": email}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	return r.scanOne(ctx, sql, args)
}

func (r *CollaboratorRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Collaborator, error) {
	query := squirrel.Select(collaboratorColumns...).
		From("colaboradores").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, err
	}

	return r.scanOne(ctx, sql, args)
}

func (r *CollaboratorRepository) List(ctx context.Context) ([]*models.Collaborator, error) {
	query := squirrel.Select(collaboratorColumns...).
		From("colaboradores").
		OrderBy("nome ASC").
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

	var collaborators []*models.Collaborator
	for rows.Next() {
		var c models.Collaborator
		if err := rows.Scan(
			&c.ID, &c.Name, &c.Email, &c.Password, &c.Position, &c.Salary, &c.Role, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, err
		}
		collaborators = append(collaborators, &c)
	}

	return collaborators, rows.Err()
}

func (r *CollaboratorRepository) Update(ctx context.Context, c *models.Collaborator) error {
	query := squirrel.Update("colaboradores").
		Set("nome", c.Name).
		Set("email", c.Email).
		Set("senha", c.Password).
		Set("cargo", c.Position).
		Set("salario", c.Salary).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": c.ID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *CollaboratorRepository) UpdateRole(ctx context.Context, id uuid.UUID, role models.Role) error {
	query := squirrel.Update("colaboradores").
		Set("tipo", role).
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

func (r *CollaboratorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := squirrel.Delete("colaboradores").
		Where(squirrel.Eq{"id": id}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *CollaboratorRepository) scanOne(ctx context.Context, sql string, args []interface{}) (*models.Collaborator, error) {
	var c models.Collaborator
	err := r.db.QueryRow(ctx, sql, args...).Scan(
		&c.ID, &c.Name, &c.Email, &c.Password, &c.Position, &c.Salary, &c.Role, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
