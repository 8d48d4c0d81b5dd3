// Package validation enforces the catalog's field-level constraints:
// publication year bounds, upload extension/size limits, and the year
// window used by the statistics pages.
//
// All checks run against the full candidate state before anything is
// persisted; repositories only see values that already passed here.
package validation

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"booklibrary/internal/config"
)

// Limits is the immutable validation configuration, built once at
// startup from config.Library.
type Limits struct {
	MinYear       int
	ImageExts     []string
	ImageMaxBytes int64
	FileExts      []string
	FileMaxBytes  int64
}

// NewLimits builds the validation limits. The accepted extension sets
// are fixed; only the year floor and byte ceilings are configurable.
func NewLimits(cfg config.Library) Limits {
	return Limits{
		MinYear:       cfg.MinYear,
		ImageExts:     []string{"png", "jpg", "jpeg"},
		ImageMaxBytes: cfg.ImageMaxBytes,
		FileExts:      []string{"pdf", "doc", "docx", "txt"},
		FileMaxBytes:  cfg.FileMaxBytes,
	}
}

// MaxYear is the upper bound for year_of_publication: the current
// calendar year, evaluated at validation time.
func (l Limits) MaxYear() int {
	return time.Now().Year()
}

// FieldErrors collects per-field validation messages, rendered back
// into the submitted form.
type FieldErrors map[string][]string

func (e FieldErrors) Add(field, message string) {
	e[field] = append(e[field], message)
}

func (e FieldErrors) Empty() bool {
	return len(e) == 0
}

func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var b strings.Builder
	for i, field := range fields {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(field)
		b.WriteString(": ")
		b.WriteString(strings.Join(e[field], ", "))
	}
	return b.String()
}

// ValidateYear rejects a publication year outside [MinYear, MaxYear].
// Out-of-range years are a hard failure, never clamped.
func (l Limits) ValidateYear(year int) error {
	if year < l.MinYear || year > l.MaxYear() {
		return fmt.Errorf("year of publication must be between %d and %d", l.MinYear, l.MaxYear())
	}
	return nil
}

// ValidateBookFile checks an uploaded book file's extension and size.
func (l Limits) ValidateBookFile(filename string, size int64) error {
	if !extensionAllowed(filename, l.FileExts) {
		return fmt.Errorf("file extension must be one of: %s", strings.Join(l.FileExts, ", "))
	}
	if size > l.FileMaxBytes {
		return fmt.Errorf("the maximum file size that can be uploaded is %dMB", l.FileMaxBytes/(1024*1024))
	}
	return nil
}

// ValidateCoverImage checks an uploaded cover image's extension and size.
func (l Limits) ValidateCoverImage(filename string, size int64) error {
	if !extensionAllowed(filename, l.ImageExts) {
		return fmt.Errorf("image extension must be one of: %s", strings.Join(l.ImageExts, ", "))
	}
	if size > l.ImageMaxBytes {
		return fmt.Errorf("the maximum image size that can be uploaded is %dMB", l.ImageMaxBytes/(1024*1024))
	}
	return nil
}

func extensionAllowed(filename string, allowed []string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	for _, a := range allowed {
		if ext == a {
			return true
		}
	}
	return false
}

// YearWindow bounds the statistics queries. Both ends are inclusive.
type YearWindow struct {
	Start int
	End   int
}

// NewYearWindow builds a year window from optional bounds, defaulting
// each missing bound to the full valid range. A window whose start
// exceeds its end is invalid input, not silently swapped.
func (l Limits) NewYearWindow(start, end *int) (YearWindow, error) {
	w := YearWindow{Start: l.MinYear, End: l.MaxYear()}
	if start != nil {
		if err := l.ValidateYear(*start); err != nil {
			return YearWindow{}, fmt.Errorf("start year: %w", err)
		}
		w.Start = *start
	}
	if end != nil {
		if err := l.ValidateYear(*end); err != nil {
			return YearWindow{}, fmt.Errorf("end year: %w", err)
		}
		w.End = *end
	}
	if w.Start > w.End {
		return YearWindow{}, fmt.Errorf("start year should not be greater than end year")
	}
	return w, nil
}
