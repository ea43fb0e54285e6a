// Package service provides the metadata orchestration layer: it picks
// the applicable scanners for a file based on their declared MIME glob
// patterns and combines their partial records in to one composite
// metadata record.
package service

import (
	"errors"
	"fmt"
	"os"
	"path"
	"sync"

	"github.com/google/uuid"
	"github.com/tbukov/mdeco/internal/fsutil"
	"github.com/tbukov/mdeco/internal/scanner"
	"github.com/tbukov/mdeco/internal/treedict"
	"github.com/tbukov/mdeco/pkg/logger"
)

var log = logger.Get("MetaServ")

// Config contains the user-tunable options for the metadata service.
type Config struct {
	// HashAlgorithm selects the content digest reported under the
	// 'file_hash' facet.
	HashAlgorithm string `yaml:"hash_algorithm" env:"HASH_ALGORITHM" env-default:"sha256"`

	// HashBlockSize bounds the per-read memory used while digesting
	// file content. Zero selects the built-in default (8 MiB).
	HashBlockSize int `yaml:"hash_block_size" env:"HASH_BLOCK_SIZE"`

	// FractionsAsFloat converts rational EXIF tag values to floats
	// instead of 'numerator/denominator' strings.
	FractionsAsFloat bool `yaml:"fractions_as_float" env:"FRACTIONS_AS_FLOAT"`

	// EnableCombinedProbe swaps the separate video and audio scanners
	// for the experimental combined ffprobe scanner, which classifies
	// files by their sniffed content MIME.
	EnableCombinedProbe bool `yaml:"enable_combined_probe" env:"ENABLE_COMBINED_PROBE"`
}

// ScannerStatus is a snapshot of one registered scanner's readiness,
// exposed for dependency reporting.
type ScannerStatus struct {
	Name      string
	MimeTypes []string
	Ready     bool
	Steps     []string
	Error     string
}

// MetadataService aggregates the records of every applicable scanner
// for a file in to one composite record. The FileInfo scanner runs
// unconditionally; type-specific scanners run when their MIME glob
// patterns match and their dependencies are usable, and are silently
// skipped otherwise so that output degrades rather than the whole
// request failing.
type MetadataService struct {
	mutex sync.Mutex

	fileInfo *scanner.FileInfoScanner
	scanners []scanner.FileScanner

	// checkOutcomes caches the pre-check result per scanner instance
	// so each scanner's dependency probe runs at most once.
	checkOutcomes map[scanner.FileScanner]error
}

func New(config Config) *MetadataService {
	typed := make([]scanner.FileScanner, 0, 4)
	if config.EnableCombinedProbe {
		typed = append(typed, scanner.NewFFprobeScanner())
	} else {
		typed = append(typed,
			scanner.NewVideoInfoScanner(),
			scanner.NewAudioInfoScanner(),
		)
	}
	typed = append(typed,
		scanner.NewImageInfoScanner(config.FractionsAsFloat),
		scanner.NewTextInfoScanner(),
	)

	return &MetadataService{
		fileInfo:      scanner.NewFileInfoScanner(config.HashAlgorithm, config.HashBlockSize),
		scanners:      typed,
		checkOutcomes: make(map[scanner.FileScanner]error),
	}
}

// RegisterScanner appends an additional type-specific scanner to the
// service. Its pre-checks are run lazily on first use, like those of
// the built-in scanners.
func (service *MetadataService) RegisterScanner(extra scanner.FileScanner) {
	service.mutex.Lock()
	defer service.mutex.Unlock()

	service.scanners = append(service.scanners, extra)
}

// GetMetadata produces the composite metadata record for the file at
// 'path'. The request fails outright when the path is missing or not a
// regular file; a type-specific scanner whose dependency is unavailable
// merely omits its facet.
func (service *MetadataService) GetMetadata(fpath string) (*treedict.Tree, error) {
	scanID := uuid.New()

	if info, err := os.Stat(fpath); err != nil || !info.Mode().IsRegular() {
		return nil, fmt.Errorf("cannot collect metadata for '%s': %w", fpath, scanner.ErrNotRegularFile)
	}

	if err := service.ensureReady(service.fileInfo); err != nil {
		return nil, fmt.Errorf("file info scanner failed readiness checks: %w", err)
	}

	record, err := service.fileInfo.Scan(fpath)
	if err != nil {
		return nil, err
	}

	mimeType := scanner.DefaultMimeType
	if detected, ok := record.Get("mime_type"); ok {
		if str, ok := detected.(string); ok && str != "" {
			mimeType = str
		}
	}

	for _, typed := range service.scanners {
		if !matchesMime(typed.MimeTypes(), mimeType) {
			continue
		}

		if err := service.ensureReady(typed); err != nil {
			missing := &scanner.MissingDependencyError{}
			if errors.As(err, &missing) {
				log.Emit(logger.WARNING, "Scan %s: skipping scanner '%s' for %s: %s\n", scanID, typed.Name(), fpath, err.Error())
				continue
			}

			return nil, err
		}

		partial, err := typed.Scan(fpath)
		if err != nil {
			return nil, err
		}

		// Built-in scanners own disjoint facet keys; a collision here
		// is an authoring bug in a scanner, so it is rejected rather
		// than silently overwritten.
		if err := record.Merge(partial); err != nil {
			return nil, fmt.Errorf("scanner '%s' emitted a facet that collides with an earlier scanner: %w", typed.Name(), err)
		}
	}

	log.Emit(logger.VERBOSE, "Scan %s: collected %d facets for %s\n", scanID, record.Len(), fpath)
	return record, nil
}

// CheckDependencies runs the readiness checks of every registered
// scanner (at most once per instance) and reports the outcome of each.
func (service *MetadataService) CheckDependencies() []ScannerStatus {
	statuses := make([]ScannerStatus, 0, len(service.scanners)+1)
	for _, registered := range append([]scanner.FileScanner{service.fileInfo}, service.scanners...) {
		status := ScannerStatus{
			Name:      registered.Name(),
			MimeTypes: registered.MimeTypes(),
		}

		if err := service.ensureReady(registered); err != nil {
			status.Error = err.Error()
		}
		status.Ready = registered.Ready()

		if base, ok := registered.(interface{ StepDescriptions() []string }); ok {
			status.Steps = base.StepDescriptions()
		}

		statuses = append(statuses, status)
	}

	return statuses
}

// ensureReady lazily runs a scanner's pre-checks, caching the outcome
// so that each instance's dependency probe is performed at most once.
func (service *MetadataService) ensureReady(target scanner.FileScanner) error {
	service.mutex.Lock()
	defer service.mutex.Unlock()

	outcome, checked := service.checkOutcomes[target]
	if !checked {
		outcome = target.PreChecks()
		service.checkOutcomes[target] = outcome
	}

	return outcome
}

// matchesMime reports whether any of the declared glob patterns match
// the detected MIME type. Patterns are matched independently against
// both the full type and its top-level category.
func matchesMime(patterns []string, mimeType string) bool {
	category := fsutil.MIMECategory(mimeType)
	for _, pattern := range patterns {
		if matched, err := path.Match(pattern, mimeType); err == nil && matched {
			return true
		}
		if matched, err := path.Match(pattern, category); err == nil && matched {
			return true
		}
	}

	return false
}
