package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"courseboard/internal/common"
	"courseboard/internal/domain/model"
)

type SubmissionRepository interface {
	Create(ctx context.Context, sub *model.Submission) error
	FindByID(ctx context.Context, id string) (*model.Submission, error)
	FindByAssignment(ctx context.Context, assignmentID string) ([]model.Submission, error)
	MarkNotified(ctx context.Context, id string) error
}

type pgSubmissionRepository struct {
	db *sql.DB
}

func NewPgSubmissionRepository(db *sql.DB) SubmissionRepository {
	return &pgSubmissionRepository{db: db}
}

func (r *pgSubmissionRepository) Create(ctx context.Context, sub *model.Submission) error {
	query := `INSERT INTO submissions (id, assignment_id, submitter_id, student_name, file_ref, notified)
	          VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.ExecContext(ctx, query,
		sub.ID, sub.AssignmentID, sub.SubmitterID, sub.StudentName, sub.FileRef, sub.Notified)
	if err != nil {
		return fmt.Errorf("pgSubmissionRepository.Create: %w", err)
	}
	return nil
}

func (r *pgSubmissionRepository) FindByID(ctx context.Context, id string) (*model.Submission, error) {
	query := `SELECT id, assignment_id, submitter_id, student_name, file_ref, submitted_at, notified
	          FROM submissions WHERE id = $1`
	sub := &model.Submission{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&sub.ID, &sub.AssignmentID, &sub.SubmitterID, &sub.StudentName, &sub.FileRef, &sub.SubmittedAt, &sub.Notified,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgSubmissionRepository.FindByID: %w", err)
	}
	return sub, nil
}

func (r *pgSubmissionRepository) FindByAssignment(ctx context.Context, assignmentID string) ([]model.Submission, error) {
	query := `SELECT s.id, s.assignment_id, s.submitter_id, s.student_name, s.file_ref, s.submitted_at, s.notified,
	                 a.title
	          FROM submissions s
	          JOIN assignments a ON s.assignment_id = a.id
	          WHERE s.assignment_id = $1
	          ORDER BY s.submitted_at ASC`
	rows, err := r.db.QueryContext(ctx, query, assignmentID)
	if err != nil {
		return nil, fmt.Errorf("pgSubmissionRepository.FindByAssignment query: %w", err)
	}
	defer rows.Close()

	subs := []model.Submission{}
	for rows.Next() {
		var s model.Submission
		var title string
		if err := rows.Scan(&s.ID, &s.AssignmentID, &s.SubmitterID, &s.StudentName, &s.FileRef, &s.SubmittedAt, &s.Notified, &title); err != nil {
			return nil, fmt.Errorf("pgSubmissionRepository.FindByAssignment scan: %w", err)
		}
		s.AssignmentTitle = &title
		subs = append(subs, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgSubmissionRepository.FindByAssignment rows.Err: %w", err)
	}
	return subs, nil
}

func (r *pgSubmissionRepository) MarkNotified(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE submissions SET notified = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pgSubmissionRepository.MarkNotified: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("pgSubmissionRepository.MarkNotified: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}
	return nil
}
