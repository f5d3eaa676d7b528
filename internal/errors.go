package internal

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the outcomes the pipeline and store distinguish.
var (
	// ErrDuplicate is returned by Store.Insert when a record with the same
	// crypto hash already exists. Expected during re-imports, not a failure.
	ErrDuplicate = errors.New("duplicate content")

	// ErrInvalidCatalog marks a catalog whose schema does not match the
	// expected shape. Fatal to the repository, never auto-repaired.
	ErrInvalidCatalog = errors.New("not a valid repository catalog")

	// ErrDestinationExists marks a destination filename collision. The
	// hash+rank pair is unique by construction, so a clash means an earlier
	// run left the repository inconsistent.
	ErrDestinationExists = errors.New("destination file already exists")
)

// FailureCategory represents the type of error encountered while ingesting
type FailureCategory string

const (
	CategoryIO        FailureCategory = "io_error"              // File system, permissions, disk space
	CategoryHash      FailureCategory = "hash_error"            // File bytes could not be hashed
	CategoryMetadata  FailureCategory = "metadata_error"        // EXIF/metadata extraction failed
	CategoryCollision FailureCategory = "destination_collision" // Hash+rank name already on disk
	CategoryCatalog   FailureCategory = "invalid_catalog"       // Store schema mismatch
	CategoryUnknown   FailureCategory = "unknown_error"         // Unexpected errors
)

// ErrorSeverity indicates how critical the error is
type ErrorSeverity string

const (
	SeverityCritical ErrorSeverity = "critical" // Repository-level issues (schema, disk full)
	SeverityError    ErrorSeverity = "error"    // File-level issues (unreadable, collision)
	SeverityWarning  ErrorSeverity = "warning"  // Recoverable issues (degraded enrichment)
)

// ImportError represents a categorized per-file failure
type ImportError struct {
	FilePath string
	Category FailureCategory
	Severity ErrorSeverity
	Err      error
}

func (e *ImportError) Error() string {
	return fmt.Sprintf("[%s/%s] %s: %v", e.Severity, e.Category, e.FilePath, e.Err)
}

func (e *ImportError) Unwrap() error {
	return e.Err
}

// Categorize analyzes an error and returns an ImportError with category and
// severity filled in.
func Categorize(filePath string, err error) *ImportError {
	if err == nil {
		return nil
	}

	impErr := &ImportError{
		FilePath: filePath,
		Err:      err,
	}

	errStr := strings.ToLower(err.Error())

	switch {
	case errors.Is(err, ErrDestinationExists):
		impErr.Category = CategoryCollision
		impErr.Severity = SeverityError

	case errors.Is(err, ErrInvalidCatalog):
		impErr.Category = CategoryCatalog
		impErr.Severity = SeverityCritical

	case strings.Contains(errStr, "no space left"),
		strings.Contains(errStr, "permission denied"),
		strings.Contains(errStr, "read-only file system"):
		impErr.Category = CategoryIO
		impErr.Severity = SeverityCritical

	case strings.Contains(errStr, "no such file"),
		strings.Contains(errStr, "input/output error"):
		impErr.Category = CategoryIO
		impErr.Severity = SeverityError

	case strings.Contains(errStr, "hash"), strings.Contains(errStr, "image"):
		impErr.Category = CategoryHash
		impErr.Severity = SeverityError

	case strings.Contains(errStr, "exif"), strings.Contains(errStr, "metadata"):
		impErr.Category = CategoryMetadata
		impErr.Severity = SeverityWarning

	default:
		impErr.Category = CategoryUnknown
		impErr.Severity = SeverityError
	}

	return impErr
}

// ErrorStats tracks failure statistics during a batch
type ErrorStats struct {
	Total      int
	Critical   int
	Errors     int
	Warnings   int
	ByCategory map[FailureCategory]int
	LastErrors []*ImportError // Last 5 errors for quick diagnosis
}

func NewErrorStats() *ErrorStats {
	return &ErrorStats{
		ByCategory: make(map[FailureCategory]int),
		LastErrors: make([]*ImportError, 0, 5),
	}
}

func (s *ErrorStats) Add(err *ImportError) {
	s.Total++
	s.ByCategory[err.Category]++

	switch err.Severity {
	case SeverityCritical:
		s.Critical++
	case SeverityError:
		s.Errors++
	case SeverityWarning:
		s.Warnings++
	}

	// Keep last 5 errors
	if len(s.LastErrors) >= 5 {
		s.LastErrors = s.LastErrors[1:]
	}
	s.LastErrors = append(s.LastErrors, err)
}

// Report creates a human-readable failure summary for the end of a batch.
func (s *ErrorStats) Report() string {
	if s.Total == 0 {
		return ""
	}

	var report strings.Builder

	report.WriteString(fmt.Sprintf("%d files failed:\n", s.Total))

	for cat, count := range s.ByCategory {
		report.WriteString(fmt.Sprintf("  %s: %d\n", cat, count))
	}

	report.WriteString("Recent failures:\n")
	for _, err := range s.LastErrors {
		report.WriteString(fmt.Sprintf("  %s\n", err.Error()))
	}

	return report.String()
}
