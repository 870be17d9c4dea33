package model

import "time"

// Submission is owned by the submitter, not the assignment owner. It is
// never re-submitted in place; the only mutation is flipping Notified
// once the downstream notification has fired.
type Submission struct {
	ID              string    `json:"id"`
	AssignmentID    string    `json:"assignment_id"`
	SubmitterID     string    `json:"submitter_id"`
	StudentName     string    `json:"student_name"`
	FileRef         string    `json:"file_ref"`
	SubmittedAt     time.Time `json:"submitted_at"`
	Notified        bool      `json:"notified"`
	AssignmentTitle *string   `json:"assignment_title,omitempty"` // For display
}
