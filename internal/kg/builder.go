package kg

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"

	"github.com/shelfmind/shelfmind-server/internal/domain"
	"github.com/shelfmind/shelfmind-server/internal/logger"
)

// Builder assembles a Graph from ingested book records.
type Builder struct {
	log *logger.Logger
}

// NewBuilder creates a graph builder.
func NewBuilder(log *logger.Logger) *Builder {
	return &Builder{log: log}
}

// Build creates the knowledge graph. Every metadata link produces a
// relation in both directions. Authors, translators, publishers and
// series that differ only in case or surrounding whitespace resolve to
// the same entity; the first spelling seen becomes the display name.
func (b *Builder) Build(records []domain.BookRecord) *Graph {
	g := NewGraph()
	seen := make(map[string]struct{})

	addRelation := func(from, to string, relType domain.RelationType) {
		key := from + "|" + string(relType) + "|" + to
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		g.Relations = append(g.Relations, domain.Relation{From: from, To: to, Type: relType})

		recip := relType.Reciprocal()
		recipKey := to + "|" + string(recip) + "|" + from
		seen[recipKey] = struct{}{}
		g.Relations = append(g.Relations, domain.Relation{From: to, To: from, Type: recip})
	}

	for _, rec := range records {
		bookID := BookEntityID(rec.ID)
		if _, dup := g.Entities[bookID]; dup {
			b.log.Warn("duplicate book record skipped", "book_id", rec.ID)
			continue
		}
		g.Entities[bookID] = domain.Entity{
			ID:   bookID,
			Type: domain.EntityBook,
			Name: rec.Title,
		}
		stored := rec
		stored.Comments = nil
		g.Books[bookID] = stored

		links := []struct {
			name    string
			etype   domain.EntityType
			relType domain.RelationType
		}{
			{rec.Author, domain.EntityAuthor, domain.RelWrittenBy},
			{rec.Translator, domain.EntityTranslator, domain.RelTranslatedBy},
			{rec.Publisher, domain.EntityPublisher, domain.RelPublishedBy},
			{rec.Series, domain.EntitySeries, domain.RelBelongsTo},
		}
		for _, link := range links {
			id, ok := b.ensureEntity(g, link.etype, link.name)
			if !ok {
				continue
			}
			addRelation(bookID, id, link.relType)
		}
	}

	g.Reindex()

	stats := g.Stats()
	b.log.Info("knowledge graph built",
		"books", stats.Books,
		"authors", stats.Authors,
		"translators", stats.Translators,
		"publishers", stats.Publishers,
		"series", stats.Series,
		"relations", stats.Relations)

	return g
}

// ensureEntity adds the named entity if new, returning its ID. Missing
// or sentinel names produce no entity.
func (b *Builder) ensureEntity(g *Graph, etype domain.EntityType, name string) (string, bool) {
	id, ok := NamedEntityID(etype, name)
	if !ok {
		return "", false
	}
	if _, exists := g.Entities[id]; !exists {
		g.Entities[id] = domain.Entity{
			ID:   id,
			Type: etype,
			Name: strings.TrimSpace(name),
		}
	}
	return id, true
}

// BookEntityID returns the graph ID for a book record.
func BookEntityID(recordID string) string {
	return "book:" + recordID
}

// NamedEntityID derives the graph ID for a named entity. Names are
// case-folded so spelling variants resolve to one node. Returns false
// for empty or sentinel names.
func NamedEntityID(etype domain.EntityType, name string) (string, bool) {
	folded := FoldName(name)
	if folded == "" || folded == "nan" {
		return "", false
	}
	return fmt.Sprintf("%s:%s", etype, folded), true
}

// FoldName case-folds a name and collapses internal whitespace, the
// normal form used for every name comparison in the graph.
func FoldName(name string) string {
	folded := cases.Fold().String(strings.TrimSpace(name))
	return strings.Join(strings.Fields(folded), " ")
}
