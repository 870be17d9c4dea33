package validate

// Domain schemas. The single-record and bulk paths share the same title
// and description specs so a row rejected by one would be rejected by
// the other.

var forbiddenContent = []string{"spam", "fake", "scam"}

func titleField() FieldSpec {
	return FieldSpec{
		Name:     "title",
		Kind:     KindText,
		Required: true,
		Validators: []Validator{
			MinLength(3),
			MaxLength(200),
		},
	}
}

func descriptionField() FieldSpec {
	return FieldSpec{
		Name:     "description",
		Kind:     KindText,
		Required: true,
	}
}

// AssignmentSchema validates a single assignment submission, with the
// combined timestamp already in one due_at field.
func AssignmentSchema() Schema {
	return Schema{
		Fields: []FieldSpec{
			titleField(),
			descriptionField(),
			{Name: "due_at", Kind: KindDateTime, Required: true},
		},
		RecordRules: []RecordRule{
			ForbiddenWords(forbiddenContent, "title", "description"),
		},
	}
}

// BulkAssignmentRowSchema validates one row of a bulk import, where the
// source carries separate date and time columns.
func BulkAssignmentRowSchema() Schema {
	return Schema{
		Fields: []FieldSpec{
			titleField(),
			descriptionField(),
			{Name: "date", Kind: KindDate, Required: true},
			{Name: "time", Kind: KindTimeOfDay, Required: true},
		},
		RecordRules: []RecordRule{
			ForbiddenWords(forbiddenContent, "title", "description"),
		},
	}
}

// SubmissionSchema validates a student handing work in.
func SubmissionSchema() Schema {
	return Schema{
		Fields: []FieldSpec{
			{
				Name:       "student_name",
				Kind:       KindText,
				Required:   true,
				Validators: []Validator{MinLength(2), MaxLength(100)},
			},
			{Name: "file", Kind: KindFile, Required: true},
		},
	}
}

// BulkUploadSchema gates the uploaded file itself before any parsing.
func BulkUploadSchema() Schema {
	return Schema{
		Fields: []FieldSpec{
			{
				Name:     "file",
				Kind:     KindFile,
				Required: true,
				Validators: []Validator{
					FileExtension(".csv"),
					FileContentType("text/csv"),
				},
			},
		},
	}
}
