package providers

import (
	"github.com/samber/do/v2"

	"github.com/shelfmind/shelfmind-server/internal/config"
	"github.com/shelfmind/shelfmind-server/internal/domain"
	"github.com/shelfmind/shelfmind-server/internal/errors"
	"github.com/shelfmind/shelfmind-server/internal/ingest"
	"github.com/shelfmind/shelfmind-server/internal/kg"
	"github.com/shelfmind/shelfmind-server/internal/logger"
	"github.com/shelfmind/shelfmind-server/internal/store"
)

// StoreHandle wraps the artifact store with shutdown capability.
type StoreHandle struct {
	*store.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore provides the badger artifact store.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	st, err := store.New(cfg.GraphPath(), log)
	if err != nil {
		return nil, err
	}

	return &StoreHandle{Store: st}, nil
}

// ReaderHandle wraps the SQLite ingest reader with shutdown capability.
type ReaderHandle struct {
	*ingest.Reader
}

// Shutdown implements do.Shutdownable.
func (h *ReaderHandle) Shutdown() error {
	return h.Close()
}

// ProvideReader provides the read-only SQLite source reader.
// Only the build command invokes this; the API server never touches
// the raw export.
func ProvideReader(i do.Injector) (*ReaderHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if cfg.Data.SourceDB == "" {
		return nil, errors.Validationf("source database path is not configured (set SOURCE_DB or -source-db)")
	}

	reader, err := ingest.Open(cfg.Data.SourceDB, log)
	if err != nil {
		return nil, err
	}

	return &ReaderHandle{Reader: reader}, nil
}

// Artifacts holds the persisted graph and keyword profiles loaded at
// startup. Graph is nil only when the persisted schema is
// incompatible, in which case the server starts unhealthy until a
// rebuild; a graph that was never built fails startup instead.
type Artifacts struct {
	Graph    *kg.Graph
	Keywords map[string]domain.BookKeywords
}

// ProvideArtifacts loads the persisted build artifacts from the store.
func ProvideArtifacts(i do.Injector) (*Artifacts, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)
	return loadArtifacts(storeHandle.Store, log)
}

// loadArtifacts reads the graph and keyword blobs. A missing graph is
// fatal: the server has nothing to serve and the operator needs to be
// told which command produces the artifact. An incompatible graph
// schema keeps the server up but unhealthy, per the health endpoint.
func loadArtifacts(st *store.Store, log *logger.Logger) (*Artifacts, error) {
	artifacts := &Artifacts{}

	graph, err := st.LoadGraph()
	switch {
	case err == nil:
		artifacts.Graph = graph
	case errors.Is(err, errors.ErrNotFound):
		return nil, errors.Wrap(err, errors.CodeNotFound,
			"no knowledge graph artifact found, run the build command (cmd/build) before starting the server")
	case errors.Is(err, errors.ErrIncompatible):
		log.Warn("Persisted graph has an incompatible schema, rebuild required", "error", err)
		return artifacts, nil
	default:
		return nil, err
	}

	keywords, err := st.LoadKeywords()
	switch {
	case err == nil:
		artifacts.Keywords = keywords
	case errors.Is(err, errors.ErrNotFound), errors.Is(err, errors.ErrIncompatible):
		log.Warn("No compatible keyword profiles found, serving graph without keywords", "error", err)
		artifacts.Keywords = map[string]domain.BookKeywords{}
	default:
		return nil, err
	}

	stats := graph.Stats()
	log.Info("Loaded build artifacts",
		"books", stats.Books,
		"relations", stats.Relations,
		"keyword_profiles", len(artifacts.Keywords),
	)

	return artifacts, nil
}
