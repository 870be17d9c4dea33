// Package validate turns untrusted field-level input into a clean,
// typed record or a structured set of rejection reasons. The same
// pipeline backs single submissions and bulk rows; it is deterministic
// and keeps no state across invocations.
package validate

import "time"

// Kind is the semantic type a raw field is coerced to.
type Kind int

const (
	KindText Kind = iota
	KindEmail
	KindDate      // 2006-01-02
	KindTimeOfDay // 15:04
	KindDateTime  // 2006-01-02 15:04
	KindFile
)

const (
	DateLayout      = "2006-01-02"
	TimeOfDayLayout = "15:04"
	DateTimeLayout  = "2006-01-02 15:04"
)

// FileRef points at an already-received upload; the pipeline validates
// its metadata, it never reads file content.
type FileRef struct {
	Name        string
	ContentType string
	Path        string
}

// Fields is the untrusted input mapping. Values are strings or FileRefs.
type Fields map[string]any

// Value is one coerced field of a clean record.
type Value struct {
	Kind Kind
	Text string
	Time time.Time
	File FileRef
}

// CleanRecord is the typed output of a successful validation. Fields
// that failed coercion are absent.
type CleanRecord map[string]Value

func (r CleanRecord) Text(name string) string {
	return r[name].Text
}

func (r CleanRecord) Time(name string) time.Time {
	return r[name].Time
}

func (r CleanRecord) File(name string) FileRef {
	return r[name].File
}
