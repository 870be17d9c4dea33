package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"courseboard/internal/common"
	"courseboard/internal/domain/model"

	"github.com/jackc/pgx/v5/pgconn"
)

// AssignmentRepository is the resource store for assignments. GetOrCreate
// must be atomic per natural key: concurrent imports of the same row race
// inside the database's unique constraint, never in calling code.
type AssignmentRepository interface {
	GetOrCreate(ctx context.Context, a *model.Assignment) (*model.Assignment, bool, error)
	FindByID(ctx context.Context, id string) (*model.Assignment, error)
	FindByOwner(ctx context.Context, ownerID string) ([]model.Assignment, error)
	List(ctx context.Context, limit, offset int) ([]model.Assignment, int, error)
	Update(ctx context.Context, a *model.Assignment) error
	Delete(ctx context.Context, id string) error
}

type pgAssignmentRepository struct {
	db *sql.DB
}

func NewPgAssignmentRepository(db *sql.DB) AssignmentRepository {
	return &pgAssignmentRepository{db: db}
}

const assignmentColumns = `id, title, slug, description, due_at, owner_id, created_at, updated_at`

// GetOrCreate inserts the assignment and reports whether a row was
// created. The natural key (title, description, due_at, owner_id) is a
// unique index; ON CONFLICT DO NOTHING makes the insert a no-op when the
// key already exists, and the follow-up select returns the present row.
func (r *pgAssignmentRepository) GetOrCreate(ctx context.Context, a *model.Assignment) (*model.Assignment, bool, error) {
	insert := `INSERT INTO assignments (id, title, slug, description, due_at, owner_id)
	           VALUES ($1, $2, $3, $4, $5, $6)
	           ON CONFLICT (title, description, due_at, owner_id) DO NOTHING
	           RETURNING ` + assignmentColumns

	created := &model.Assignment{}
	err := r.db.QueryRowContext(ctx, insert,
		a.ID, a.Title, a.Slug, a.Description, a.DueAt, a.OwnerID,
	).Scan(
		&created.ID, &created.Title, &created.Slug, &created.Description,
		&created.DueAt, &created.OwnerID, &created.CreatedAt, &created.UpdatedAt,
	)
	if err == nil {
		return created, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, fmt.Errorf("pgAssignmentRepository.GetOrCreate insert: %w", err)
	}

	// Conflict on the natural key: fetch the existing row.
	query := `SELECT ` + assignmentColumns + `
	          FROM assignments
	          WHERE title = $1 AND description = $2 AND due_at = $3 AND owner_id = $4`
	existing := &model.Assignment{}
	err = r.db.QueryRowContext(ctx, query, a.Title, a.Description, a.DueAt, a.OwnerID).Scan(
		&existing.ID, &existing.Title, &existing.Slug, &existing.Description,
		&existing.DueAt, &existing.OwnerID, &existing.CreatedAt, &existing.UpdatedAt,
	)
	if err != nil {
		return nil, false, fmt.Errorf("pgAssignmentRepository.GetOrCreate select: %w", err)
	}
	return existing, false, nil
}

func (r *pgAssignmentRepository) FindByID(ctx context.Context, id string) (*model.Assignment, error) {
	query := `SELECT ` + assignmentColumns + ` FROM assignments WHERE id = $1`
	return r.scanOne(ctx, query, id)
}

func (r *pgAssignmentRepository) scanOne(ctx context.Context, query string, arg any) (*model.Assignment, error) {
	a := &model.Assignment{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&a.ID, &a.Title, &a.Slug, &a.Description, &a.DueAt, &a.OwnerID, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgAssignmentRepository: %w", err)
	}
	return a, nil
}

func (r *pgAssignmentRepository) FindByOwner(ctx context.Context, ownerID string) ([]model.Assignment, error) {
	query := `SELECT ` + assignmentColumns + `
	          FROM assignments WHERE owner_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("pgAssignmentRepository.FindByOwner query: %w", err)
	}
	defer rows.Close()
	return scanAssignments(rows)
}

func (r *pgAssignmentRepository) List(ctx context.Context, limit, offset int) ([]model.Assignment, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM assignments`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("pgAssignmentRepository.List count: %w", err)
	}

	query := `SELECT ` + assignmentColumns + `
	          FROM assignments ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("pgAssignmentRepository.List query: %w", err)
	}
	defer rows.Close()

	assignments, err := scanAssignments(rows)
	if err != nil {
		return nil, 0, err
	}
	return assignments, total, nil
}

func scanAssignments(rows *sql.Rows) ([]model.Assignment, error) {
	assignments := []model.Assignment{}
	for rows.Next() {
		var a model.Assignment
		if err := rows.Scan(&a.ID, &a.Title, &a.Slug, &a.Description, &a.DueAt, &a.OwnerID, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("pgAssignmentRepository scan: %w", err)
		}
		assignments = append(assignments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgAssignmentRepository rows.Err: %w", err)
	}
	return assignments, nil
}

func (r *pgAssignmentRepository) Update(ctx context.Context, a *model.Assignment) error {
	query := `UPDATE assignments SET
	            title = $1, slug = $2, description = $3, due_at = $4, updated_at = CURRENT_TIMESTAMP
	          WHERE id = $5`
	res, err := r.db.ExecContext(ctx, query, a.Title, a.Slug, a.Description, a.DueAt, a.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("assignment with this natural key already exists: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgAssignmentRepository.Update: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("pgAssignmentRepository.Update: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgAssignmentRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM assignments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pgAssignmentRepository.Delete: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("pgAssignmentRepository.Delete: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}
	return nil
}
