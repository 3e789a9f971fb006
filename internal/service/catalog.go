package service

import (
	"sort"
	"sync"

	"github.com/shelfmind/shelfmind-server/internal/domain"
	"github.com/shelfmind/shelfmind-server/internal/errors"
	"github.com/shelfmind/shelfmind-server/internal/kg"
	"github.com/shelfmind/shelfmind-server/internal/logger"
)

// Catalog answers read queries over the built artifacts. Install swaps
// artifacts atomically so a rebuild never interrupts readers.
type Catalog struct {
	log *logger.Logger

	mu       sync.RWMutex
	graph    *kg.Graph
	keywords map[string]domain.BookKeywords
}

// NewCatalog creates an empty catalog. It serves errors until Install.
func NewCatalog(log *logger.Logger) *Catalog {
	return &Catalog{log: log}
}

// Install swaps in freshly loaded artifacts.
func (c *Catalog) Install(g *kg.Graph, keywords map[string]domain.BookKeywords) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.graph = g
	c.keywords = keywords
}

// Ready reports whether artifacts have been installed.
func (c *Catalog) Ready() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.graph != nil
}

// Book returns the record behind a book ID.
func (c *Catalog) Book(id string) (domain.BookRecord, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.graph == nil {
		return domain.BookRecord{}, errors.Unavailable("catalog not initialized")
	}
	rec, ok := c.graph.Books[kg.BookEntityID(id)]
	if !ok {
		return domain.BookRecord{}, errors.NotFoundf("book %q not found", id)
	}
	return rec, nil
}

// Keywords returns the mined keyword profile for a book. A known book
// without a profile yields an empty profile, not an error.
func (c *Catalog) Keywords(id string) (domain.BookKeywords, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.graph == nil {
		return domain.BookKeywords{}, errors.Unavailable("catalog not initialized")
	}
	entityID := kg.BookEntityID(id)
	if _, ok := c.graph.Books[entityID]; !ok {
		return domain.BookKeywords{}, errors.NotFoundf("book %q not found", id)
	}
	profile, ok := c.keywords[entityID]
	if !ok {
		return domain.BookKeywords{BookID: entityID}, nil
	}
	return profile, nil
}

// Related returns a book's one-hop neighbors grouped by relation
// type, sorted by name within each group.
func (c *Catalog) Related(id string) (map[string][]domain.Entity, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.graph == nil {
		return nil, errors.Unavailable("catalog not initialized")
	}
	entityID := kg.BookEntityID(id)
	if _, ok := c.graph.Books[entityID]; !ok {
		return nil, errors.NotFoundf("book %q not found", id)
	}

	related := make(map[string][]domain.Entity)
	for _, rel := range c.graph.Outgoing(entityID) {
		if entity, ok := c.graph.Entity(rel.To); ok {
			related[string(rel.Type)] = append(related[string(rel.Type)], entity)
		}
	}
	for _, entities := range related {
		sort.Slice(entities, func(i, j int) bool { return entities[i].Name < entities[j].Name })
	}
	return related, nil
}

// Stats returns entity counts and keyword coverage.
func (c *Catalog) Stats() (domain.GraphStats, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.graph == nil {
		return domain.GraphStats{}, errors.Unavailable("catalog not initialized")
	}
	stats := c.graph.Stats()
	stats.KeywordProfiles = len(c.keywords)
	return stats, nil
}

// Books returns every book record sorted by ID, for search indexing.
func (c *Catalog) Books() []domain.BookRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.graph == nil {
		return nil
	}
	records := make([]domain.BookRecord, 0, len(c.graph.Books))
	for _, rec := range c.graph.Books {
		records = append(records, rec)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })
	return records
}
