package service

import (
	"context"
	"fmt"
	"io"

	"courseboard/internal/app/authz"
	"courseboard/internal/app/ingest"
	"courseboard/internal/app/validate"
	"courseboard/internal/common"
	"courseboard/internal/domain/model"
	"courseboard/internal/domain/repository"

	"github.com/google/uuid"
)

// AssignmentService owns both creation paths: a single validated
// submission and a bulk import. Both funnel through the same validation
// schema and guard before any store write.
type AssignmentService struct {
	assignmentRepo repository.AssignmentRepository
	engine         *ingest.Engine
	schema         validate.Schema
	uploadSchema   validate.Schema
}

func NewAssignmentService(assignmentRepo repository.AssignmentRepository) *AssignmentService {
	return &AssignmentService{
		assignmentRepo: assignmentRepo,
		engine:         ingest.NewEngine(assignmentRepo),
		schema:         validate.AssignmentSchema(),
		uploadSchema:   validate.BulkUploadSchema(),
	}
}

type CreateAssignmentRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DueAt       string `json:"due_at"` // 2006-01-02 15:04
}

func (r CreateAssignmentRequest) fields() validate.Fields {
	return validate.Fields{
		"title":       r.Title,
		"description": r.Description,
		"due_at":      r.DueAt,
	}
}

// Create runs the single-record path: pipeline, guard, then the atomic
// get-or-create. A natural-key duplicate is a conflict here, unlike the
// bulk path where it is an idempotent skip.
func (s *AssignmentService) Create(ctx context.Context, actor authz.Actor, req CreateAssignmentRequest) (*model.Assignment, error) {
	rec, errs := s.schema.Validate(ctx, req.fields())
	if !errs.Empty() {
		return nil, errs
	}

	if err := authz.RequireRole(actor, model.RoleTeacher, model.RoleAdmin); err != nil {
		return nil, err
	}

	candidate := &model.Assignment{
		ID:          uuid.NewString(),
		Title:       rec.Text("title"),
		Slug:        model.MakeSlug(rec.Text("title")),
		Description: rec.Text("description"),
		DueAt:       rec.Time("due_at"),
		OwnerID:     actor.ID,
	}
	created, wasCreated, err := s.assignmentRepo.GetOrCreate(ctx, candidate)
	if err != nil {
		return nil, err
	}
	if !wasCreated {
		return created, fmt.Errorf("an assignment with this title, description and due date already exists: %w", common.ErrConflict)
	}
	return created, nil
}

// BulkImport validates the upload itself, then hands the source to the
// ingestion engine. The returned report is row-partial by contract: rows
// committed before a failure stay committed.
func (s *AssignmentService) BulkImport(ctx context.Context, actor authz.Actor, file validate.FileRef, src io.Reader) (*common.Report, error) {
	if _, errs := s.uploadSchema.Validate(ctx, validate.Fields{"file": file}); !errs.Empty() {
		return nil, errs
	}
	return s.engine.Ingest(ctx, src, actor)
}

// List is readable by any authenticated principal.
func (s *AssignmentService) List(ctx context.Context, page, pageSize int) ([]model.Assignment, int, error) {
	limit := pageSize
	offset := (page - 1) * pageSize
	if offset < 0 {
		offset = 0
	}
	return s.assignmentRepo.List(ctx, limit, offset)
}

func (s *AssignmentService) Get(ctx context.Context, id string) (*model.Assignment, error) {
	return s.assignmentRepo.FindByID(ctx, id)
}

// ListOwned returns the acting principal's own assignments.
func (s *AssignmentService) ListOwned(ctx context.Context, actor authz.Actor) ([]model.Assignment, error) {
	return s.assignmentRepo.FindByOwner(ctx, actor.ID)
}

// Update mutates an assignment through the same schema; only the owner
// or an admin may do so.
func (s *AssignmentService) Update(ctx context.Context, actor authz.Actor, id string, req CreateAssignmentRequest) (*model.Assignment, error) {
	assignment, err := s.assignmentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authz.RequireOwnership(actor, assignment.OwnerID); err != nil {
		return nil, err
	}

	rec, errs := s.schema.Validate(ctx, req.fields())
	if !errs.Empty() {
		return nil, errs
	}

	assignment.Title = rec.Text("title")
	assignment.Slug = model.MakeSlug(assignment.Title)
	assignment.Description = rec.Text("description")
	assignment.DueAt = rec.Time("due_at")

	if err := s.assignmentRepo.Update(ctx, assignment); err != nil {
		return nil, err
	}
	return assignment, nil
}

func (s *AssignmentService) Delete(ctx context.Context, actor authz.Actor, id string) error {
	assignment, err := s.assignmentRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := authz.RequireOwnership(actor, assignment.OwnerID); err != nil {
		return err
	}
	return s.assignmentRepo.Delete(ctx, assignment.ID)
}
