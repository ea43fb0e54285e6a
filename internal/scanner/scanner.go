// Package scanner provides the extraction framework at the heart of
// mdeco: stateful scanners which register ordered extraction steps,
// gate execution behind a readiness check, and merge the partial
// results of each step in to a single record.
package scanner

import (
	"fmt"
	"os"
	"reflect"
	"runtime"

	"github.com/tbukov/mdeco/internal/treedict"
	"github.com/tbukov/mdeco/pkg/logger"
)

var log = logger.Get("Scanner")

// StepFunc is a self-contained extraction step: given the path of the
// file under scan it returns a partial record which, by convention,
// carries exactly one top-level key owned by the registering scanner.
type StepFunc func(path string) (*treedict.Tree, error)

type extractionStep struct {
	run         StepFunc
	description string
}

type State int

const (
	NotReady State = iota
	Ready
	Failed
)

// FileScanner is the contract the metadata service consumes. Concrete
// scanners embed Scanner for the step bookkeeping and the Scan
// implementation, overriding PreChecks with their own dependency
// verification.
type FileScanner interface {
	Name() string
	MimeTypes() []string
	PreChecks() error
	Ready() bool
	Scan(path string) (*treedict.Tree, error)
}

// Scanner is the embeddable base: an ordered list of extraction steps
// plus the readiness state machine (NotReady -> Ready|Failed). A failed
// scanner keeps rejecting scans, but a later PreChecks invocation is
// free to move it to Ready if the environment has changed (e.g. a
// missing tool was installed).
type Scanner struct {
	name      string
	mimeTypes []string
	steps     []extractionStep
	state     State
}

func NewScanner(name string, mimeTypes []string) Scanner {
	return Scanner{
		name:      name,
		mimeTypes: mimeTypes,
		steps:     make([]extractionStep, 0),
		state:     NotReady,
	}
}

func (scanner *Scanner) Name() string { return scanner.name }

// MimeTypes returns the glob patterns (e.g. 'image/*') describing the
// files this scanner claims to handle.
func (scanner *Scanner) MimeTypes() []string { return scanner.mimeTypes }

func (scanner *Scanner) Ready() bool { return scanner.state == Ready }

func (scanner *Scanner) State() State { return scanner.state }

// PreChecks is the default readiness gate: it unconditionally marks the
// scanner ready. Scanners with external dependencies override this to
// verify them first, reporting a MissingDependencyError on failure.
// The method is idempotent and may be invoked any number of times.
func (scanner *Scanner) PreChecks() error {
	scanner.markReady()
	return nil
}

func (scanner *Scanner) markReady() {
	scanner.state = Ready
}

func (scanner *Scanner) markFailed() {
	scanner.state = Failed
}

// RegisterStep appends an extraction step to this scanner. Steps are
// invoked by Scan in registration order. A nil step is rejected; if no
// description is supplied one is derived from the function's name, and
// registration fails when neither is available.
func (scanner *Scanner) RegisterStep(step StepFunc, description string) error {
	if step == nil {
		return &InvalidStepError{Reason: "step function is nil"}
	}

	if description == "" {
		if fn := runtime.FuncForPC(reflect.ValueOf(step).Pointer()); fn != nil {
			description = fn.Name()
		}
		if description == "" {
			return &InvalidStepError{Reason: "no description supplied and none could be derived"}
		}
	}

	scanner.steps = append(scanner.steps, extractionStep{run: step, description: description})
	return nil
}

// mustRegister backs the concrete scanner constructors, where a
// registration failure is a programming error.
func (scanner *Scanner) mustRegister(step StepFunc, description string) {
	if err := scanner.RegisterStep(step, description); err != nil {
		panic(fmt.Sprintf("scanner '%s' failed to register extraction step: %v", scanner.name, err))
	}
}

// StepDescriptions returns the human-readable descriptions of the
// registered steps, in invocation order.
func (scanner *Scanner) StepDescriptions() []string {
	descriptions := make([]string, len(scanner.steps))
	for i, step := range scanner.steps {
		descriptions[i] = step.description
	}

	return descriptions
}

// Scan runs every registered step against the file at 'path' in
// registration order and unions their partial records in to one.
//
// Preconditions: the scanner must be Ready, and 'path' must reference
// an existing regular file; violating either yields an error with no
// extraction performed. The union is last-write-wins, which is safe
// because a scanner's own steps emit disjoint keys by design.
func (scanner *Scanner) Scan(path string) (*treedict.Tree, error) {
	if scanner.state != Ready {
		return nil, fmt.Errorf("scanner '%s' cannot scan '%s': %w", scanner.name, path, ErrNotReady)
	}

	if info, err := os.Stat(path); err != nil || !info.Mode().IsRegular() {
		return nil, fmt.Errorf("scanner '%s' cannot scan '%s': %w", scanner.name, path, ErrNotRegularFile)
	}

	results := treedict.New()
	for _, step := range scanner.steps {
		log.Emit(logger.VERBOSE, "Scanner '%s' running step '%s' against %s\n", scanner.name, step.description, path)
		partial, err := step.run(path)
		if err != nil {
			return nil, fmt.Errorf("scanner '%s' step '%s' failed for '%s': %w", scanner.name, step.description, path, err)
		}

		results.Update(partial)
	}

	return results, nil
}
