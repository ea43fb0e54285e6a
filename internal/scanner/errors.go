package scanner

import (
	"errors"
	"fmt"
)

var (
	// ErrNotReady is reported when Scan is invoked before the scanner's
	// pre-checks have passed.
	ErrNotReady = errors.New("pre-checks have not passed, run PreChecks first")

	// ErrNotRegularFile is reported when the scan target is missing or
	// is not a regular file.
	ErrNotRegularFile = errors.New("path not found or is not a regular file")
)

// MissingDependencyError is raised by a scanner's pre-checks when a
// required external library or tool is absent or unusable. The Hint
// carries a human-readable remediation suggestion.
type MissingDependencyError struct {
	Dependency string
	Hint       string
}

func (e *MissingDependencyError) Error() string {
	return fmt.Sprintf("missing dependency '%s': %s", e.Dependency, e.Hint)
}

// InvalidStepError indicates a malformed extraction step was registered
// on a scanner. This is a programming error raised at construction time
// and is never recovered from.
type InvalidStepError struct {
	Reason string
}

func (e *InvalidStepError) Error() string {
	return fmt.Sprintf("invalid extraction step: %s", e.Reason)
}
