package validate

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"courseboard/internal/common"
)

// contactSchema is a small three-field schema used to exercise the
// pipeline independently of the domain schemas.
func contactSchema() Schema {
	return Schema{
		Fields: []FieldSpec{
			{Name: "name", Kind: KindText, Required: true, Validators: []Validator{MinLength(2)}},
			{Name: "email", Kind: KindEmail, Required: true},
			{Name: "message", Kind: KindText, Required: true, Validators: []Validator{MinLength(10)}},
		},
	}
}

func TestValidateCleanRecord(t *testing.T) {
	rec, errs := contactSchema().Validate(context.Background(), Fields{
		"name":    "  Ada  ",
		"email":   "ada@example.com",
		"message": "See you at the lab tomorrow.",
	})
	if !errs.Empty() {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if rec.Text("name") != "Ada" {
		t.Fatalf("coercion should trim whitespace, got %q", rec.Text("name"))
	}
}

func TestValidateCollectsAllFieldErrors(t *testing.T) {
	_, errs := contactSchema().Validate(context.Background(), Fields{
		"name":    "A",
		"email":   "not-an-address",
		"message": "too short",
	})
	if len(errs) != 3 {
		t.Fatalf("expected errors on all three fields, got %v", errs)
	}
	if errs["name"] != "must be at least 2 characters long" {
		t.Errorf("name: got %q", errs["name"])
	}
	if errs["email"] != "enter a valid email address" {
		t.Errorf("email: got %q", errs["email"])
	}
	if errs["message"] != "must be at least 10 characters long" {
		t.Errorf("message: got %q", errs["message"])
	}
}

func TestValidateMissingRequiredField(t *testing.T) {
	_, errs := contactSchema().Validate(context.Background(), Fields{
		"name":    "Ada",
		"message": "See you at the lab tomorrow.",
	})
	if errs["email"] != "this field is required" {
		t.Fatalf("expected required error for email, got %v", errs)
	}
}

func TestValidateBlankCountsAsMissing(t *testing.T) {
	_, errs := contactSchema().Validate(context.Background(), Fields{
		"name":    "   ",
		"email":   "ada@example.com",
		"message": "See you at the lab tomorrow.",
	})
	if errs["name"] != "this field is required" {
		t.Fatalf("whitespace-only input should count as absent, got %v", errs)
	}
}

func TestValidateFirstValidatorFailureWins(t *testing.T) {
	schema := Schema{
		Fields: []FieldSpec{
			{Name: "title", Kind: KindText, Required: true, Validators: []Validator{MinLength(5), MaxLength(3)}},
		},
	}
	_, errs := schema.Validate(context.Background(), Fields{"title": "abcd"})
	if errs["title"] != "must be at least 5 characters long" {
		t.Fatalf("expected the first failing validator's message, got %v", errs)
	}
}

func TestValidateDateCoercion(t *testing.T) {
	schema := Schema{
		Fields: []FieldSpec{
			{Name: "date", Kind: KindDate, Required: true},
			{Name: "time", Kind: KindTimeOfDay, Required: true},
		},
	}

	_, errs := schema.Validate(context.Background(), Fields{"date": "2026-13-40", "time": "25:99"})
	if errs["date"] != "invalid format" || errs["time"] != "invalid format" {
		t.Fatalf("expected invalid format on both fields, got %v", errs)
	}

	rec, errs := schema.Validate(context.Background(), Fields{"date": "2026-09-01", "time": "09:30"})
	if !errs.Empty() {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if rec.Time("date").Day() != 1 || rec.Time("time").Minute() != 30 {
		t.Fatalf("parsed times are wrong: date=%v time=%v", rec.Time("date"), rec.Time("time"))
	}
}

func TestValidateRecordRulesSkippedOnFieldError(t *testing.T) {
	called := false
	schema := Schema{
		Fields: []FieldSpec{
			{Name: "name", Kind: KindText, Required: true, Validators: []Validator{MinLength(2)}},
		},
		RecordRules: []RecordRule{{
			Name: "probe",
			Check: func(context.Context, CleanRecord) error {
				called = true
				return nil
			},
		}},
	}

	_, errs := schema.Validate(context.Background(), Fields{"name": "A"})
	if errs.Empty() {
		t.Fatalf("expected a field error")
	}
	if called {
		t.Fatalf("record rule must not run when a field failed")
	}
}

func TestValidateRecordRuleFailureUsesRecordKey(t *testing.T) {
	schema := Schema{
		Fields: []FieldSpec{
			{Name: "name", Kind: KindText, Required: true},
		},
		RecordRules: []RecordRule{{
			Name:  "always_no",
			Check: func(context.Context, CleanRecord) error { return fmt.Errorf("no dice") },
		}},
	}

	rec, errs := schema.Validate(context.Background(), Fields{"name": "Ada"})
	if rec != nil {
		t.Fatalf("record rule failure must not yield a clean record")
	}
	if errs[common.RecordKey] != "no dice" {
		t.Fatalf("expected record-level error, got %v", errs)
	}
}

func TestValidateForbiddenWords(t *testing.T) {
	schema := Schema{
		Fields: []FieldSpec{
			{Name: "title", Kind: KindText, Required: true},
			{Name: "description", Kind: KindText, Required: true},
		},
		RecordRules: []RecordRule{ForbiddenWords([]string{"spam", "fake", "scam"}, "title", "description")},
	}

	_, errs := schema.Validate(context.Background(), Fields{
		"title":       "Totally legitimate",
		"description": "This is a FAKE assignment",
	})
	if errs[common.RecordKey] != "contains a forbidden word: fake" {
		t.Fatalf("expected forbidden word error, got %v", errs)
	}
}

func TestValidateErrorSetUnwrapsToValidation(t *testing.T) {
	_, errs := contactSchema().Validate(context.Background(), Fields{})
	if !errors.Is(errs, common.ErrValidation) {
		t.Fatalf("ErrorSet should unwrap to ErrValidation")
	}
}

func TestValidateFileRules(t *testing.T) {
	schema := BulkUploadSchema()

	_, errs := schema.Validate(context.Background(), Fields{
		"file": FileRef{Name: "rows.txt", ContentType: "text/plain"},
	})
	if errs["file"] != "please upload a valid .csv file" {
		t.Fatalf("expected extension error first, got %v", errs)
	}

	_, errs = schema.Validate(context.Background(), Fields{
		"file": FileRef{Name: "rows.csv", ContentType: "application/pdf"},
	})
	if errs["file"] != "file type is not text/csv" {
		t.Fatalf("expected content-type error, got %v", errs)
	}

	rec, errs := schema.Validate(context.Background(), Fields{
		"file": FileRef{Name: "ROWS.CSV", ContentType: "text/csv"},
	})
	if !errs.Empty() {
		t.Fatalf("uppercase extension should pass: %v", errs)
	}
	if rec.File("file").Name != "ROWS.CSV" {
		t.Fatalf("clean record should carry the file ref")
	}
}
