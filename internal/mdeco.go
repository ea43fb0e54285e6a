package internal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/tbukov/mdeco/internal/api"
	"github.com/tbukov/mdeco/internal/crawl"
	"github.com/tbukov/mdeco/internal/service"
	"github.com/tbukov/mdeco/pkg/logger"
)

var log = logger.Get("Core")

// Mdeco represents the top-level object for the application and is
// responsible for wiring the metadata service in to its consumers (the
// directory crawler and the optional REST gateway).
type mdecoImpl struct {
	config   MdecoConfig
	metadata *service.MetadataService
}

func New(config MdecoConfig) *mdecoImpl {
	log.Emit(logger.DEBUG, "Bootstrapping mdeco services using config: %#v\n", config)

	return &mdecoImpl{
		config:   config,
		metadata: service.New(config.Service),
	}
}

// DumpTree crawls the directory tree rooted at 'root' and writes the
// metadata record of every file to 'output' as indented JSON. Files
// whose scan fails are reported and skipped; the crawl continues.
func (mdeco *mdecoImpl) DumpTree(ctx context.Context, root string, output io.Writer) error {
	crawler, err := crawl.New(mdeco.config.Scan, mdeco.metadata)
	if err != nil {
		return err
	}

	return crawler.Crawl(ctx, root, func(result crawl.Result) {
		if result.Err != nil {
			log.Emit(logger.WARNING, "Failed to collect metadata for %s: %v\n", result.Path, result.Err)
			return
		}

		encoded, err := json.MarshalIndent(result.Record, "", "  ")
		if err != nil {
			log.Emit(logger.ERROR, "Failed to serialize metadata record for %s: %v\n", result.Path, err)
			return
		}

		fmt.Fprintf(output, "%s\n", encoded)
	})
}

// ServeAPI runs the REST gateway until the provided context is
// cancelled.
func (mdeco *mdecoImpl) ServeAPI(ctx context.Context) error {
	gateway := api.NewRestGateway(&mdeco.config.Api, mdeco.metadata)

	log.Emit(logger.INFO, "Serving metadata API on %s\n", mdeco.config.Api.HostAddr)
	return gateway.Run(ctx)
}

// ReportDependencies runs the readiness checks of every scanner and
// logs the outcome, mirroring the information served by the API's
// scanner listing.
func (mdeco *mdecoImpl) ReportDependencies() {
	for _, status := range mdeco.metadata.CheckDependencies() {
		if status.Ready {
			log.Emit(logger.SUCCESS, "Scanner '%s' (%v) is ready\n", status.Name, status.MimeTypes)
		} else {
			log.Emit(logger.WARNING, "Scanner '%s' (%v) is NOT ready: %s\n", status.Name, status.MimeTypes, status.Error)
		}
	}
}
