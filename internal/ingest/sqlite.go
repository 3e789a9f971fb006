// Package ingest reads the raw book and comment export that the graph
// and keyword pipelines are built from.
package ingest

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shelfmind/shelfmind-server/internal/domain"
	"github.com/shelfmind/shelfmind-server/internal/logger"

	_ "modernc.org/sqlite"
)

// Reader loads book records from a SQLite export.
type Reader struct {
	db  *sql.DB
	log *logger.Logger
}

// Open opens the export read-only.
func Open(path string, log *logger.Logger) (*Reader, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)

	pragmas := []string{
		"PRAGMA query_only=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", pragma, err)
		}
	}

	return &Reader{db: db, log: log}, nil
}

// Close closes the underlying database connection.
func (r *Reader) Close() error {
	return r.db.Close()
}

// Books loads every book row joined with its aggregated comments.
// Rows with an empty title are skipped.
func (r *Reader) Books(ctx context.Context) ([]domain.BookRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, title, author, translator, publisher, series, description
		FROM books
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query books: %w", err)
	}
	defer rows.Close()

	var books []domain.BookRecord
	for rows.Next() {
		var (
			rec        domain.BookRecord
			author     sql.NullString
			translator sql.NullString
			publisher  sql.NullString
			series     sql.NullString
			desc       sql.NullString
		)
		if err := rows.Scan(&rec.ID, &rec.Title, &author, &translator, &publisher, &series, &desc); err != nil {
			return nil, fmt.Errorf("scan book row: %w", err)
		}
		if strings.TrimSpace(rec.Title) == "" {
			r.log.Warn("skipping book with empty title", "book_id", rec.ID)
			continue
		}
		rec.Author = CleanField(author.String)
		rec.Translator = CleanField(translator.String)
		rec.Publisher = CleanField(publisher.String)
		rec.Series = CleanField(series.String)
		rec.Description = strings.TrimSpace(desc.String)
		books = append(books, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate books: %w", err)
	}

	if err := r.attachComments(ctx, books); err != nil {
		return nil, err
	}

	r.log.Info("loaded book export", "books", len(books))
	return books, nil
}

// attachComments fills Comments and Engagement on each record in place.
func (r *Reader) attachComments(ctx context.Context, books []domain.BookRecord) error {
	byID := make(map[string]*domain.BookRecord, len(books))
	for i := range books {
		byID[books[i].ID] = &books[i]
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT book_id, content, rating
		FROM comments`)
	if err != nil {
		return fmt.Errorf("query comments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			bookID  string
			content sql.NullString
			rating  sql.NullString
		)
		if err := rows.Scan(&bookID, &content, &rating); err != nil {
			return fmt.Errorf("scan comment row: %w", err)
		}

		rec, ok := byID[bookID]
		if !ok {
			continue
		}

		rec.Engagement.TotalComments++

		score, scored := ParseRating(rating.String)
		if scored {
			rec.Engagement.Ratings = append(rec.Engagement.Ratings, score)
		}
		if text := strings.TrimSpace(content.String); text != "" {
			rec.Comments = append(rec.Comments, domain.Comment{Text: text, Rating: score})
		}
	}
	return rows.Err()
}

// ParseRating extracts the numeric score from rating strings like
// "rating4" or a bare "5". Returns false for anything unparseable or
// outside the 1-5 range.
func ParseRating(raw string) (int, bool) {
	s := strings.TrimSpace(strings.ToLower(raw))
	s = strings.TrimPrefix(s, "rating")
	if s == "" {
		return 0, false
	}
	score, err := strconv.Atoi(s)
	if err != nil || score < 1 || score > 5 {
		return 0, false
	}
	return score, true
}

// CleanField normalizes a metadata field, mapping export sentinels for
// missing values to the empty string.
func CleanField(raw string) string {
	s := strings.TrimSpace(raw)
	switch strings.ToLower(s) {
	case "", "nan", "none", "null":
		return ""
	}
	return s
}
