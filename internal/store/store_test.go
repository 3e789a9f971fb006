package store

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfmind/shelfmind-server/internal/domain"
	"github.com/shelfmind/shelfmind-server/internal/errors"
	"github.com/shelfmind/shelfmind-server/internal/kg"
	"github.com/shelfmind/shelfmind-server/internal/logger"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	log := logger.New(logger.Config{Writer: io.Discard, Environment: "development"})
	s, err := New(t.TempDir(), log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestGraphRoundTrip(t *testing.T) {
	s := testStore(t)

	builder := kg.NewBuilder(logger.New(logger.Config{Writer: io.Discard, Environment: "development"}))
	g := builder.Build([]domain.BookRecord{
		{ID: "1", Title: "Hyperion", Author: "Dan Simmons", Series: "Hyperion Cantos"},
		{ID: "2", Title: "The Fall of Hyperion", Author: "Dan Simmons", Series: "Hyperion Cantos"},
	})

	require.NoError(t, s.SaveGraph(g))

	loaded, err := s.LoadGraph()
	require.NoError(t, err)

	assert.Equal(t, g.Stats(), loaded.Stats())

	// The adjacency index survives the round trip via Reindex.
	authorID, _ := kg.NamedEntityID(domain.EntityAuthor, "Dan Simmons")
	books := loaded.Neighbors(authorID, domain.RelWrite)
	assert.Len(t, books, 2)
}

func TestKeywordsRoundTrip(t *testing.T) {
	s := testStore(t)

	profiles := map[string]domain.BookKeywords{
		"book:1": {
			BookID: "book:1",
			Keywords: []domain.Keyword{
				{Word: "pilgrimage", Weight: 0.7, Class: domain.ClassCommonNoun},
			},
		},
	}
	require.NoError(t, s.SaveKeywords(profiles))

	loaded, err := s.LoadKeywords()
	require.NoError(t, err)
	assert.Equal(t, profiles, loaded)

	ok, err := s.HasKeywords()
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, s.DeleteKeywords())
	ok, err = s.HasKeywords()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLoadMissingArtifact(t *testing.T) {
	s := testStore(t)

	_, err := s.LoadGraph()
	assert.True(t, errors.Is(err, errors.ErrNotFound))

	ok, err := s.HasGraph()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVersionMismatchRejected(t *testing.T) {
	s := testStore(t)

	// Write an envelope with a stale version directly.
	stale := envelope{Version: SchemaVersion + 1, Payload: []byte(`{}`)}
	require.NoError(t, s.setRaw(keyEntities, stale))

	_, err := s.LoadGraph()
	assert.True(t, errors.Is(err, errors.ErrIncompatible))
}
