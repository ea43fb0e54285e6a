// Package crawl walks a directory tree and collects the composite
// metadata record for every regular file found, fanning the work out
// over a pool of workers.
package crawl

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"regexp"

	"github.com/tbukov/mdeco/internal/treedict"
	"github.com/tbukov/mdeco/pkg/logger"
	"github.com/tbukov/mdeco/pkg/worker"
)

var log = logger.Get("Crawler")

// Config contains configuration options that allow customization of
// how the crawler traverses a directory tree.
type Config struct {
	// Parallelism controls the number of workers collecting metadata
	// concurrently. Extraction is blocking I/O (file reads, external
	// process invocation), so a small pool is usually enough.
	Parallelism int `yaml:"parallelism" env:"SCAN_PARALLELISM" env-default:"4"`

	// Blacklist is a set of regular expressions used to RESTRICT the
	// files visited by the crawler. A file whose name matches any
	// expression is skipped.
	Blacklist []string `yaml:"blacklist" env:"SCAN_BLACKLIST"`
}

// metadataProvider is the slice of the metadata service the crawler
// consumes.
type metadataProvider interface {
	GetMetadata(path string) (*treedict.Tree, error)
}

// Result carries the outcome of one file visit. Either Record or Err
// is populated.
type Result struct {
	Path   string
	Record *treedict.Tree
	Err    error
}

type Crawler struct {
	config    Config
	provider  metadataProvider
	blacklist []*regexp.Regexp
}

// New constructs a Crawler, compiling the configured blacklist
// expressions up front so that malformed patterns surface immediately.
func New(config Config, provider metadataProvider) (*Crawler, error) {
	if config.Parallelism <= 0 {
		config.Parallelism = 1
	}

	blacklist := make([]*regexp.Regexp, 0, len(config.Blacklist))
	for _, pattern := range config.Blacklist {
		compiled, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("blacklist pattern '%s' is not a valid regular expression: %w", pattern, err)
		}

		blacklist = append(blacklist, compiled)
	}

	return &Crawler{
		config:    config,
		provider:  provider,
		blacklist: blacklist,
	}, nil
}

// Crawl walks the tree rooted at 'root', collects metadata for every
// regular non-blacklisted file and hands each Result to 'emit'. The
// emit callback is invoked from a single goroutine, so it needs no
// internal locking. Crawl blocks until the walk is complete or the
// context is cancelled.
func (crawler *Crawler) Crawl(ctx context.Context, root string, emit func(Result)) error {
	paths := make(chan string)
	results := make(chan Result)

	pool := worker.NewWorkerPool()
	for i := 0; i < crawler.config.Parallelism; i++ {
		label := fmt.Sprintf("crawl-worker-%d", i)
		if err := pool.PushWorker(worker.NewWorker(label, &crawlTask{provider: crawler.provider, paths: paths, results: results})); err != nil {
			return err
		}
	}

	if err := pool.Start(); err != nil {
		return err
	}

	// Close the result stream once every worker has drained the path
	// queue, releasing the collector loop below.
	go func() {
		pool.Wait()
		close(results)
	}()

	collectorDone := make(chan struct{})
	go func() {
		for result := range results {
			emit(result)
		}
		close(collectorDone)
	}()

	walkErr := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !entry.Type().IsRegular() {
			return nil
		}
		if crawler.isBlacklisted(entry.Name()) {
			log.Emit(logger.DEBUG, "Skipping blacklisted file %s\n", path)
			return nil
		}

		select {
		case paths <- path:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})

	close(paths)
	<-collectorDone

	return walkErr
}

func (crawler *Crawler) isBlacklisted(name string) bool {
	for _, pattern := range crawler.blacklist {
		if pattern.MatchString(name) {
			return true
		}
	}

	return false
}

// crawlTask drains the shared path queue, collecting metadata for each
// path and forwarding the outcome to the result stream.
type crawlTask struct {
	provider metadataProvider
	paths    <-chan string
	results  chan<- Result
}

func (task *crawlTask) Execute(w worker.Worker) error {
	for path := range task.paths {
		record, err := task.provider.GetMetadata(path)
		task.results <- Result{Path: path, Record: record, Err: err}
	}

	return nil
}
