// Package service orchestrates the engine's building blocks behind
// facades the HTTP layer and commands talk to.
package service

import (
	"context"

	"github.com/shelfmind/shelfmind-server/internal/domain"
	"github.com/shelfmind/shelfmind-server/internal/errors"
	"github.com/shelfmind/shelfmind-server/internal/ingest"
	"github.com/shelfmind/shelfmind-server/internal/kg"
	"github.com/shelfmind/shelfmind-server/internal/logger"
	"github.com/shelfmind/shelfmind-server/internal/mining"
	"github.com/shelfmind/shelfmind-server/internal/store"
)

// Build runs the full artifact pipeline: ingest the export, build the
// knowledge graph, mine keyword profiles, persist both.
type Build struct {
	reader  *ingest.Reader
	store   *store.Store
	builder *kg.Builder
	miner   *mining.Miner
	log     *logger.Logger
}

// NewBuild creates the build pipeline.
func NewBuild(reader *ingest.Reader, st *store.Store, builder *kg.Builder, miner *mining.Miner, log *logger.Logger) *Build {
	return &Build{reader: reader, store: st, builder: builder, miner: miner, log: log}
}

// Run executes the pipeline. reuseCache is the normal mode: previously
// mined keyword profiles are kept instead of re-scored, and an
// unreadable or incompatible cache falls back to a full re-mine.
// Passing false forces a re-mine of every book.
func (b *Build) Run(ctx context.Context, reuseCache bool) (domain.GraphStats, error) {
	records, err := b.reader.Books(ctx)
	if err != nil {
		return domain.GraphStats{}, errors.Wrap(err, errors.CodeInternal, "load book export")
	}

	graph := b.builder.Build(records)

	var cached map[string]domain.BookKeywords
	if reuseCache {
		cached, err = b.store.LoadKeywords()
		switch {
		case err == nil:
			b.log.Info("reusing keyword cache", "profiles", len(cached))
		case errors.Is(err, errors.ErrNotFound):
			b.log.Info("no keyword cache, mining from scratch")
			cached = nil
		case errors.Is(err, errors.ErrIncompatible):
			b.log.Warn("keyword cache has an incompatible schema, mining from scratch")
			cached = nil
		default:
			return domain.GraphStats{}, errors.Wrap(err, errors.CodeInternal, "load keyword cache")
		}
	}

	profiles, err := b.miner.Mine(ctx, records, cached)
	if err != nil {
		return domain.GraphStats{}, errors.Wrap(err, errors.CodeInternal, "mine keywords")
	}

	if err := b.store.SaveGraph(graph); err != nil {
		return domain.GraphStats{}, errors.Wrap(err, errors.CodeInternal, "save graph")
	}
	if err := b.store.SaveKeywords(profiles); err != nil {
		return domain.GraphStats{}, errors.Wrap(err, errors.CodeInternal, "save keywords")
	}

	stats := graph.Stats()
	stats.KeywordProfiles = len(profiles)
	b.log.Info("build complete",
		"books", stats.Books,
		"relations", stats.Relations,
		"keyword_profiles", stats.KeywordProfiles)
	return stats, nil
}
