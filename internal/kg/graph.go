// Package kg builds and queries the book knowledge graph.
package kg

import (
	"github.com/shelfmind/shelfmind-server/internal/domain"
)

// Graph is the in-memory knowledge graph: entities keyed by ID plus a
// directed adjacency index. It is immutable after Build and safe for
// concurrent reads.
type Graph struct {
	Entities  map[string]domain.Entity `json:"entities"`
	Relations []domain.Relation        `json:"relations"`
	// Books holds the record snapshot behind each book entity, keyed by
	// entity ID, with comment text stripped.
	Books map[string]domain.BookRecord `json:"books"`

	out map[string][]domain.Relation
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{
		Entities: make(map[string]domain.Entity),
		Books:    make(map[string]domain.BookRecord),
		out:      make(map[string][]domain.Relation),
	}
}

// Reindex rebuilds the adjacency index from Relations. Call after
// loading a graph whose index was not serialized.
func (g *Graph) Reindex() {
	g.out = make(map[string][]domain.Relation, len(g.Entities))
	for _, rel := range g.Relations {
		g.out[rel.From] = append(g.out[rel.From], rel)
	}
}

// Entity returns the entity with the given ID.
func (g *Graph) Entity(id string) (domain.Entity, bool) {
	e, ok := g.Entities[id]
	return e, ok
}

// Outgoing returns all relations leaving the given entity.
func (g *Graph) Outgoing(id string) []domain.Relation {
	return g.out[id]
}

// Neighbors returns the IDs of entities one hop away over relations of
// the given type. Pass "" to follow every relation type.
func (g *Graph) Neighbors(id string, relType domain.RelationType) []string {
	var ids []string
	for _, rel := range g.out[id] {
		if relType != "" && rel.Type != relType {
			continue
		}
		ids = append(ids, rel.To)
	}
	return ids
}

// BookIDs returns the IDs of all book entities.
func (g *Graph) BookIDs() []string {
	var ids []string
	for id, e := range g.Entities {
		if e.Type == domain.EntityBook {
			ids = append(ids, id)
		}
	}
	return ids
}

// Stats counts entities by type and total relations.
func (g *Graph) Stats() domain.GraphStats {
	var s domain.GraphStats
	for _, e := range g.Entities {
		switch e.Type {
		case domain.EntityBook:
			s.Books++
		case domain.EntityAuthor:
			s.Authors++
		case domain.EntityTranslator:
			s.Translators++
		case domain.EntityPublisher:
			s.Publishers++
		case domain.EntitySeries:
			s.Series++
		}
	}
	s.Relations = len(g.Relations)
	return s
}
