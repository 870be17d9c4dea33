package validate

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"courseboard/internal/common"
)

// Validator is a named, pure per-field check. Validators for one field
// run in declared order; the first failure is the one reported.
type Validator struct {
	Name  string
	Check func(v Value) error
}

// RecordRule runs only when no field-level error occurred. It sees the
// whole clean record and may consult external state (e.g. uniqueness
// against the store). Failures are keyed under common.RecordKey.
type RecordRule struct {
	Name  string
	Check func(ctx context.Context, rec CleanRecord) error
}

// FieldSpec declares one field: its semantic type, whether it must be
// present, and the ordered validators applied after coercion.
type FieldSpec struct {
	Name       string
	Kind       Kind
	Required   bool
	Validators []Validator
}

// Schema is an explicit, statically enumerated field list plus record
// rules. Fields are processed in declaration order.
type Schema struct {
	Fields      []FieldSpec
	RecordRules []RecordRule
}

// Validate runs the three stages: coercion + required check, per-field
// validators, then record rules. Field failures never stop processing
// of the remaining fields; record rules are skipped entirely when any
// field failed.
func (s Schema) Validate(ctx context.Context, raw Fields) (CleanRecord, common.ErrorSet) {
	rec := CleanRecord{}
	var errs common.ErrorSet

	for _, field := range s.Fields {
		value, ok, err := coerce(field.Kind, raw[field.Name])
		if err != nil {
			errs = errs.Add(field.Name, err.Error())
			continue
		}
		if !ok {
			if field.Required {
				errs = errs.Add(field.Name, "this field is required")
			}
			continue
		}

		failed := false
		for _, v := range field.Validators {
			if err := v.Check(value); err != nil {
				errs = errs.Add(field.Name, err.Error())
				failed = true
				break
			}
		}
		if failed {
			continue
		}
		rec[field.Name] = value
	}

	if !errs.Empty() {
		return nil, errs
	}

	for _, rule := range s.RecordRules {
		if err := rule.Check(ctx, rec); err != nil {
			errs = errs.AddRecord(err.Error())
		}
	}
	if !errs.Empty() {
		return nil, errs
	}
	return rec, nil
}

// coerce maps a raw value to its semantic type. ok reports whether a
// value was present at all; err reports a present but malformed value.
func coerce(kind Kind, raw any) (Value, bool, error) {
	if kind == KindFile {
		switch f := raw.(type) {
		case nil:
			return Value{}, false, nil
		case FileRef:
			// A zero ref means no file arrived at all.
			if f == (FileRef{}) {
				return Value{}, false, nil
			}
			return Value{Kind: KindFile, File: f}, true, nil
		case *FileRef:
			if f == nil || *f == (FileRef{}) {
				return Value{}, false, nil
			}
			return Value{Kind: KindFile, File: *f}, true, nil
		default:
			return Value{}, false, fmt.Errorf("expected a file")
		}
	}

	var text string
	switch v := raw.(type) {
	case nil:
		return Value{}, false, nil
	case string:
		text = strings.TrimSpace(v)
	default:
		return Value{}, false, fmt.Errorf("expected text")
	}
	if text == "" {
		return Value{}, false, nil
	}

	switch kind {
	case KindText:
		return Value{Kind: kind, Text: text}, true, nil
	case KindEmail:
		addr, err := mail.ParseAddress(text)
		if err != nil {
			return Value{}, false, fmt.Errorf("enter a valid email address")
		}
		return Value{Kind: kind, Text: addr.Address}, true, nil
	case KindDate:
		return parseTime(kind, DateLayout, text)
	case KindTimeOfDay:
		return parseTime(kind, TimeOfDayLayout, text)
	case KindDateTime:
		return parseTime(kind, DateTimeLayout, text)
	default:
		return Value{}, false, fmt.Errorf("unsupported field kind")
	}
}

func parseTime(kind Kind, layout, text string) (Value, bool, error) {
	t, err := time.Parse(layout, text)
	if err != nil {
		return Value{}, false, fmt.Errorf("invalid format")
	}
	return Value{Kind: kind, Text: text, Time: t}, true, nil
}
