package service

import (
	"context"
	"fmt"
	"log"

	"courseboard/internal/app/authz"
	"courseboard/internal/app/validate"
	"courseboard/internal/domain/model"
	"courseboard/internal/domain/repository"
	"courseboard/internal/platform/config"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// SubmissionService accepts work handed in against an assignment. The
// submitter and the assignment owner are different principals by
// design, so submission never requires ownership of the assignment.
type SubmissionService struct {
	submissionRepo repository.SubmissionRepository
	assignmentRepo repository.AssignmentRepository
	rdb            *redis.Client
	schema         validate.Schema
}

func NewSubmissionService(
	submissionRepo repository.SubmissionRepository,
	assignmentRepo repository.AssignmentRepository,
	rdb *redis.Client,
) *SubmissionService {
	return &SubmissionService{
		submissionRepo: submissionRepo,
		assignmentRepo: assignmentRepo,
		rdb:            rdb,
		schema:         validate.SubmissionSchema(),
	}
}

type CreateSubmissionRequest struct {
	StudentName string
	File        validate.FileRef
}

// Create validates and stores one submission, then enqueues its
// notification. The submission itself is never re-submitted in place.
func (s *SubmissionService) Create(ctx context.Context, actor authz.Actor, assignmentID string, req CreateSubmissionRequest) (*model.Submission, error) {
	rec, errs := s.schema.Validate(ctx, validate.Fields{
		"student_name": req.StudentName,
		"file":         req.File,
	})
	if !errs.Empty() {
		return nil, errs
	}

	assignment, err := s.assignmentRepo.FindByID(ctx, assignmentID)
	if err != nil {
		return nil, fmt.Errorf("assignment not found: %w", err)
	}

	// Any authenticated role may submit.
	if err := authz.RequireRole(actor, model.RoleStudent, model.RoleTeacher, model.RoleAdmin); err != nil {
		return nil, err
	}

	submission := &model.Submission{
		ID:           uuid.NewString(),
		AssignmentID: assignment.ID,
		SubmitterID:  actor.ID,
		StudentName:  rec.Text("student_name"),
		FileRef:      rec.File("file").Path,
	}
	if err := s.submissionRepo.Create(ctx, submission); err != nil {
		return nil, err
	}

	// Notification delivery is asynchronous; a failed enqueue leaves the
	// submission stored with notified=false for a later sweep.
	if err := s.rdb.RPush(ctx, config.AppConfig.NotificationQueueName, submission.ID).Err(); err != nil {
		log.Printf("ERROR: Failed to enqueue notification for submission %s: %v", submission.ID, err)
	}
	return submission, nil
}

// ListForAssignment is visible to the assignment owner or an admin.
func (s *SubmissionService) ListForAssignment(ctx context.Context, actor authz.Actor, assignmentID string) ([]model.Submission, error) {
	assignment, err := s.assignmentRepo.FindByID(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	if err := authz.RequireOwnership(actor, assignment.OwnerID); err != nil {
		return nil, err
	}
	return s.submissionRepo.FindByAssignment(ctx, assignment.ID)
}

// Get returns one submission, visible to its submitter, the assignment
// owner, or an admin.
func (s *SubmissionService) Get(ctx context.Context, actor authz.Actor, id string) (*model.Submission, error) {
	submission, err := s.submissionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.ID == submission.SubmitterID {
		return submission, nil
	}
	assignment, err := s.assignmentRepo.FindByID(ctx, submission.AssignmentID)
	if err != nil {
		return nil, err
	}
	if err := authz.RequireOwnership(actor, assignment.OwnerID); err != nil {
		return nil, err
	}
	return submission, nil
}
