// Package store persists built artifacts (knowledge graph, keyword
// cache) in a Badger database, each wrapped in a versioned envelope so
// stale artifacts from older builds are detected on load.
package store

import (
	"encoding/json/jsontext"
	"encoding/json/v2"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/shelfmind/shelfmind-server/internal/domain"
	"github.com/shelfmind/shelfmind-server/internal/errors"
	"github.com/shelfmind/shelfmind-server/internal/kg"
	"github.com/shelfmind/shelfmind-server/internal/logger"
)

// SchemaVersion is bumped whenever the persisted artifact layout
// changes. Envelopes with any other version fail to load.
const SchemaVersion = 1

var (
	keyEntities  = []byte("kg:entities")
	keyRelations = []byte("kg:relations")
	keyKeywords  = []byte("keywords:cache")
)

// envelope wraps every persisted artifact.
type envelope struct {
	Version int             `json:"version"`
	SavedAt time.Time       `json:"saved_at"`
	Payload jsontext.Value `json:"payload"`
}

// Store wraps a Badger database instance.
type Store struct {
	db  *badger.DB
	log *logger.Logger
}

// New opens the artifact store at the given path.
func New(path string, log *logger.Logger) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil            // Disable Badger's internal logging
	opts.SyncWrites = true       // Ensure writes are synced to disk to prevent corruption on crashes
	opts.CompactL0OnClose = true // Compact L0 tables on close for faster startup

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}

	log.Info("artifact store opened", "path", path)
	return &Store{db: db, log: log}, nil
}

// Close gracefully closes the database connection.
func (s *Store) Close() error {
	s.log.Info("closing artifact store")
	return s.db.Close()
}

// entityBlob holds the entity side of the graph: the typed nodes plus
// the book record snapshots behind the book entities.
type entityBlob struct {
	Entities map[string]domain.Entity     `json:"entities"`
	Books    map[string]domain.BookRecord `json:"books"`
}

// relationBlob holds the edge list. The adjacency index is rebuilt on
// load rather than persisted.
type relationBlob struct {
	Relations []domain.Relation `json:"relations"`
}

// SaveGraph persists the knowledge graph as two artifacts, entities
// and relations, loadable independently.
func (s *Store) SaveGraph(g *kg.Graph) error {
	if err := s.set(keyEntities, entityBlob{Entities: g.Entities, Books: g.Books}); err != nil {
		return err
	}
	return s.set(keyRelations, relationBlob{Relations: g.Relations})
}

// LoadGraph loads both graph artifacts and rebuilds the adjacency index.
func (s *Store) LoadGraph() (*kg.Graph, error) {
	var entities entityBlob
	if err := s.get(keyEntities, &entities); err != nil {
		return nil, err
	}
	var relations relationBlob
	if err := s.get(keyRelations, &relations); err != nil {
		return nil, err
	}

	g := kg.NewGraph()
	if entities.Entities != nil {
		g.Entities = entities.Entities
	}
	if entities.Books != nil {
		g.Books = entities.Books
	}
	g.Relations = relations.Relations
	g.Reindex()
	return g, nil
}

// SaveKeywords persists the mined keyword profiles keyed by book
// entity ID.
func (s *Store) SaveKeywords(profiles map[string]domain.BookKeywords) error {
	return s.set(keyKeywords, profiles)
}

// LoadKeywords loads the mined keyword profiles.
func (s *Store) LoadKeywords() (map[string]domain.BookKeywords, error) {
	profiles := make(map[string]domain.BookKeywords)
	if err := s.get(keyKeywords, &profiles); err != nil {
		return nil, err
	}
	return profiles, nil
}

// DeleteKeywords drops the keyword cache. The next build re-mines
// every book.
func (s *Store) DeleteKeywords() error {
	return s.delete(keyKeywords)
}

// HasGraph reports whether the graph artifacts exist.
func (s *Store) HasGraph() (bool, error) {
	return s.exists(keyEntities)
}

// HasKeywords reports whether a keyword cache exists.
func (s *Store) HasKeywords() (bool, error) {
	return s.exists(keyKeywords)
}

// set stores a value by key inside a versioned envelope.
func (s *Store) set(key []byte, value any) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}
	return s.setRaw(key, envelope{
		Version: SchemaVersion,
		SavedAt: time.Now().UTC(),
		Payload: payload,
	})
}

// setRaw writes an envelope without stamping the current schema version.
func (s *Store) setRaw(key []byte, env envelope) error {
	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("failed to marshal envelope: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, data)
	})
}

// get retrieves a value by key, checking the envelope version.
func (s *Store) get(key []byte, dest any) error {
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			var env envelope
			if err := json.Unmarshal(val, &env); err != nil {
				return fmt.Errorf("failed to unmarshal envelope: %w", err)
			}
			if env.Version != SchemaVersion {
				return errors.Incompatiblef("artifact %q has schema version %d, want %d",
					key, env.Version, SchemaVersion)
			}
			return json.Unmarshal(env.Payload, dest)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return errors.NotFoundf("artifact %q", key)
	}
	return err
}

// delete removes a key from the database.
func (s *Store) delete(key []byte) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key)
	})
}

// exists checks if a key exists.
func (s *Store) exists(key []byte) (bool, error) {
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		return err
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
