package providers

import (
	"github.com/samber/do/v2"

	"github.com/shelfmind/shelfmind-server/internal/config"
	"github.com/shelfmind/shelfmind-server/internal/kg"
	"github.com/shelfmind/shelfmind-server/internal/logger"
	"github.com/shelfmind/shelfmind-server/internal/mining"
	"github.com/shelfmind/shelfmind-server/internal/recommend"
	"github.com/shelfmind/shelfmind-server/internal/service"
)

// ProvideBuilder provides the knowledge graph builder.
func ProvideBuilder(i do.Injector) (*kg.Builder, error) {
	log := do.MustInvoke[*logger.Logger](i)
	return kg.NewBuilder(log), nil
}

// ProvideAnalyzer provides the comment tokenizer, merging any
// configured stopword file into the built-in English set.
func ProvideAnalyzer(i do.Injector) (*mining.Analyzer, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	var extra []string
	if cfg.Data.StopwordsFile != "" {
		words, err := mining.LoadStopwordsFile(cfg.Data.StopwordsFile)
		if err != nil {
			return nil, err
		}
		extra = words
		log.Info("Loaded extra stopwords", "file", cfg.Data.StopwordsFile, "count", len(words))
	}

	return mining.NewAnalyzer(extra)
}

// ProvideMiner provides the keyword extraction pipeline.
func ProvideMiner(i do.Injector) (*mining.Miner, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	analyzer := do.MustInvoke[*mining.Analyzer](i)

	return mining.NewMiner(analyzer, cfg.Miner.Workers, log), nil
}

// ProvideBuildService provides the full ingest-build-mine pipeline.
func ProvideBuildService(i do.Injector) (*service.Build, error) {
	readerHandle := do.MustInvoke[*ReaderHandle](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	builder := do.MustInvoke[*kg.Builder](i)
	miner := do.MustInvoke[*mining.Miner](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewBuild(readerHandle.Reader, storeHandle.Store, builder, miner, log), nil
}

// ProvideCatalog provides the in-memory catalog, populated from the
// persisted artifacts when they exist.
func ProvideCatalog(i do.Injector) (*service.Catalog, error) {
	artifacts := do.MustInvoke[*Artifacts](i)
	log := do.MustInvoke[*logger.Logger](i)

	catalog := service.NewCatalog(log)
	if artifacts.Graph != nil {
		catalog.Install(artifacts.Graph, artifacts.Keywords)
	}

	return catalog, nil
}

// ProvideRecommender provides the recommendation engine.
func ProvideRecommender(i do.Injector) (*recommend.Recommender, error) {
	artifacts := do.MustInvoke[*Artifacts](i)
	log := do.MustInvoke[*logger.Logger](i)

	rec := recommend.New(recommend.DefaultWeights(), log)
	if artifacts.Graph != nil {
		rec.Initialize(artifacts.Graph, artifacts.Keywords)
	}

	return rec, nil
}
