// Package main provides the artifact build command. It ingests the raw
// SQLite export, constructs the knowledge graph, mines keyword
// profiles, and persists both so the API server can serve them.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/do/v2"

	"github.com/shelfmind/shelfmind-server/internal/di"
	"github.com/shelfmind/shelfmind-server/internal/di/providers"
	"github.com/shelfmind/shelfmind-server/internal/logger"
)

func main() {
	// Registered before the config loader parses the flag set.
	forceRemine := flag.Bool("force-remine", false, "Re-mine every book even when a compatible keyword cache exists")

	injector := di.NewContainer()

	build, err := di.BootstrapBuild(injector)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bootstrap build pipeline: %v\n", err)
		os.Exit(1)
	}

	log := do.MustInvoke[*logger.Logger](injector)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	stats, err := build.Run(ctx, !*forceRemine)
	if err != nil {
		log.Error("Build failed", "error", err)
		shutdown(injector, log)
		os.Exit(1)
	}

	log.Info("Build complete",
		"books", stats.Books,
		"authors", stats.Authors,
		"translators", stats.Translators,
		"publishers", stats.Publishers,
		"series", stats.Series,
		"relations", stats.Relations,
		"keyword_profiles", stats.KeywordProfiles,
		"elapsed", time.Since(start).Round(time.Millisecond),
	)

	shutdown(injector, log)
}

func shutdown(injector *do.RootScope, log *logger.Logger) {
	if err := injector.Shutdown(); err != nil {
		log.Error("Shutdown error", "error", err)
	}
	if storeHandle, err := do.Invoke[*providers.StoreHandle](injector); err == nil {
		if err := storeHandle.Shutdown(); err != nil {
			log.Error("Failed to close artifact store", "error", err)
		}
	}
	if readerHandle, err := do.Invoke[*providers.ReaderHandle](injector); err == nil {
		if err := readerHandle.Shutdown(); err != nil {
			log.Error("Failed to close source database", "error", err)
		}
	}
}
