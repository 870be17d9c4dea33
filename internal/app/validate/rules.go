package validate

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

func MinLength(n int) Validator {
	return Validator{
		Name: fmt.Sprintf("min_length_%d", n),
		Check: func(v Value) error {
			if len(v.Text) < n {
				return fmt.Errorf("must be at least %d characters long", n)
			}
			return nil
		},
	}
}

func MaxLength(n int) Validator {
	return Validator{
		Name: fmt.Sprintf("max_length_%d", n),
		Check: func(v Value) error {
			if len(v.Text) > n {
				return fmt.Errorf("must be at most %d characters long", n)
			}
			return nil
		},
	}
}

func FileExtension(ext string) Validator {
	return Validator{
		Name: "file_extension",
		Check: func(v Value) error {
			if !strings.EqualFold(filepath.Ext(v.File.Name), ext) {
				return fmt.Errorf("please upload a valid %s file", ext)
			}
			return nil
		},
	}
}

func FileContentType(contentType string) Validator {
	return Validator{
		Name: "file_content_type",
		Check: func(v Value) error {
			if v.File.ContentType != contentType {
				return fmt.Errorf("file type is not %s", contentType)
			}
			return nil
		},
	}
}

// ForbiddenWords scans the named text fields for banned content. Words
// are checked in order so the reported word is deterministic.
func ForbiddenWords(words []string, fields ...string) RecordRule {
	return RecordRule{
		Name: "forbidden_words",
		Check: func(_ context.Context, rec CleanRecord) error {
			for _, word := range words {
				for _, field := range fields {
					if strings.Contains(strings.ToLower(rec.Text(field)), word) {
						return fmt.Errorf("contains a forbidden word: %s", word)
					}
				}
			}
			return nil
		},
	}
}
