// Package ingest drives the bulk import path: it parses a delimited
// source into rows and runs each row through the validation pipeline,
// the authorization guard, and the store's atomic get-or-create.
package ingest

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"courseboard/internal/app/authz"
	"courseboard/internal/app/validate"
	"courseboard/internal/common"
	"courseboard/internal/domain/model"
	"courseboard/internal/domain/repository"

	"github.com/google/uuid"
)

// requiredColumns are the bulk-format columns every source must carry.
// Unrecognized extra columns are ignored.
var requiredColumns = []string{"title", "description", "date", "time"}

type Engine struct {
	assignments repository.AssignmentRepository
	schema      validate.Schema
}

func NewEngine(assignments repository.AssignmentRepository) *Engine {
	return &Engine{
		assignments: assignments,
		schema:      validate.BulkAssignmentRowSchema(),
	}
}

// Ingest reconciles the CSV source against the store on behalf of the
// acting principal, who becomes the owner of every created assignment.
//
// Structural failures (missing column, malformed framing) abort before
// any row is touched. Row-level failures are recorded in the report and
// never abort the batch; rows are processed in source order and the
// report preserves it. Row indexes are 1-based over data rows.
func (e *Engine) Ingest(ctx context.Context, src io.Reader, actor authz.Actor) (*common.Report, error) {
	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1 // short rows surface as per-field errors, not aborts

	// The whole source is read up front so a framing error anywhere
	// aborts before the first row mutates the store.
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrMalformedSource, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: source has no header row", common.ErrMalformedSource)
	}

	columns, err := indexHeader(rows[0])
	if err != nil {
		return nil, err
	}

	report := &common.Report{}
	for i, row := range rows[1:] {
		rowIndex := i + 1
		if err := e.ingestRow(ctx, report, rowIndex, rowFields(columns, row), actor); err != nil {
			// Infrastructure failure: rows committed so far stay
			// committed, and the partial report goes back with the error.
			return report, fmt.Errorf("row %d: %w", rowIndex, err)
		}
	}
	return report, nil
}

// ingestRow runs one row through pipeline, guard, and store. Outcomes
// are commutative across rows: no row's result depends on another's.
// The returned error is non-nil only for store-level failures; row
// rejections land in the report.
func (e *Engine) ingestRow(ctx context.Context, report *common.Report, rowIndex int, fields validate.Fields, actor authz.Actor) error {
	rec, errs := e.schema.Validate(ctx, fields)
	if !errs.Empty() {
		report.RecordFailure(rowIndex, errs)
		return nil
	}

	// The guard runs strictly before the store write; a denial leaves
	// the batch's remaining rows unaffected and the store untouched.
	if err := authz.RequireRole(actor, model.RoleTeacher, model.RoleAdmin); err != nil {
		report.RecordFailure(rowIndex, common.ErrorSet{}.AddRecord(err.Error()))
		return nil
	}

	candidate := &model.Assignment{
		ID:          uuid.NewString(),
		Title:       rec.Text("title"),
		Slug:        model.MakeSlug(rec.Text("title")),
		Description: rec.Text("description"),
		DueAt:       combine(rec.Time("date"), rec.Time("time")),
		OwnerID:     actor.ID,
	}

	_, created, err := e.assignments.GetOrCreate(ctx, candidate)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrStoreUnavailable, err)
	}
	if created {
		report.RecordCreated()
	} else {
		report.RecordSkipped()
	}
	return nil
}

// indexHeader maps recognized column names to their positions and fails
// the whole operation when a required column is absent.
func indexHeader(header []string) (map[string]int, error) {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	var missing []string
	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", common.ErrMissingColumn, strings.Join(missing, ", "))
	}
	return columns, nil
}

// rowFields builds the candidate field mapping for one row. Cells the
// row is too short to carry are simply absent, which the pipeline
// reports as required-field errors.
func rowFields(columns map[string]int, row []string) validate.Fields {
	fields := validate.Fields{}
	for _, name := range requiredColumns {
		if idx := columns[name]; idx < len(row) {
			fields[name] = row[idx]
		}
	}
	return fields
}

// combine merges the date and time-of-day columns into one timestamp.
func combine(date, timeOfDay time.Time) time.Time {
	return time.Date(
		date.Year(), date.Month(), date.Day(),
		timeOfDay.Hour(), timeOfDay.Minute(), 0, 0,
		time.UTC,
	)
}
