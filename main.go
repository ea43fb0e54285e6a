package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/tbukov/mdeco/internal"
	"github.com/tbukov/mdeco/pkg/logger"
)

var log = logger.Get("Main")

// main is the entry point to the program. It loads the user config
// (from file if provided, otherwise from the environment) and either
// crawls a directory tree dumping each file's metadata record, serves
// the metadata API, or reports scanner dependency readiness.
func main() {
	configPath := flag.String("config", "", "path to a YAML configuration file")
	scanPath := flag.String("path", "", "directory tree to crawl for file metadata")
	serve := flag.Bool("serve", false, "serve the metadata REST API instead of crawling")
	deps := flag.Bool("deps", false, "report scanner dependency readiness and exit")
	verbose := flag.Bool("verbose", false, "enable verbose logging")
	flag.Parse()

	if *verbose {
		logger.Log.SetMinStatus(logger.VERBOSE)
	}

	config := internal.MdecoConfig{}
	if *configPath != "" {
		if err := config.LoadFromFile(*configPath); err != nil {
			log.Emit(logger.FATAL, "Failed to load configuration: %v\n", err)
			os.Exit(1)
		}
	} else if err := config.LoadFromEnv(); err != nil {
		log.Emit(logger.FATAL, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	mdeco := internal.New(config)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	switch {
	case *deps:
		mdeco.ReportDependencies()
	case *serve || config.Api.Enabled:
		if err := mdeco.ServeAPI(ctx); err != nil {
			log.Emit(logger.FATAL, "Metadata API failed: %v\n", err)
			os.Exit(1)
		}
	case *scanPath != "":
		if err := mdeco.DumpTree(ctx, *scanPath, os.Stdout); err != nil {
			log.Emit(logger.FATAL, "Crawl of '%s' failed: %v\n", *scanPath, err)
			os.Exit(1)
		}
	default:
		log.Emit(logger.ERROR, "Nothing to do: supply -path to crawl a directory, -serve to run the API, or -deps to report scanner readiness\n")
		flag.Usage()
		os.Exit(2)
	}
}
