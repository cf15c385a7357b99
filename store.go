package route360

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/eringen/route360/content"
	"github.com/eringen/route360/markdown"
)

// ErrNotFound is returned when a document or tag does not exist in the store.
var ErrNotFound = errors.New("not found")

// Store is the content index the renderer queries. It is rebuilt from the
// content tree on every build.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the SQLite database at path and ensures the
// schema. ":memory:" keeps the index in memory for the life of the Store.
func NewStore(path string) (*Store, error) {
	memory := path == ":memory:"
	if !memory {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if memory {
		// Every connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	} else {
		// WAL lets the parallel renderer read while nothing writes; the busy
		// timeout makes a rare writer wait instead of failing.
		if _, err := db.Exec(`
			PRAGMA journal_mode=WAL;
			PRAGMA busy_timeout=5000;
			PRAGMA synchronous=NORMAL;
			PRAGMA cache_size=-8000;
		`); err != nil {
			db.Close()
			return nil, err
		}
		db.SetMaxOpenConns(4)
		db.SetMaxIdleConns(4)
	}
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS documents (
    id TEXT PRIMARY KEY,
    language TEXT NOT NULL,
    type TEXT NOT NULL,
    slug TEXT NOT NULL,
    title TEXT NOT NULL,
    date TEXT NOT NULL,
    date_key INTEGER NOT NULL,
    lastmod TEXT NOT NULL,
    draft INTEGER NOT NULL DEFAULT 0,
    body TEXT NOT NULL,
    html TEXT NOT NULL,
    plain TEXT NOT NULL,
    word_count INTEGER NOT NULL,
    headings TEXT NOT NULL,
    source_path TEXT NOT NULL,
    ord INTEGER NOT NULL,
    UNIQUE (language, type, slug)
);
CREATE INDEX IF NOT EXISTS documents_listing ON documents (language, type, draft, date_key DESC, ord);
CREATE TABLE IF NOT EXISTS tags (
    slug TEXT PRIMARY KEY,
    title TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS document_tags (
    document_id TEXT NOT NULL REFERENCES documents (id) ON DELETE CASCADE,
    position INTEGER NOT NULL,
    tag_slug TEXT NOT NULL,
    PRIMARY KEY (document_id, tag_slug)
);
CREATE INDEX IF NOT EXISTS document_tags_slug ON document_tags (tag_slug);
`)
	return err
}

// Reset removes every document and tag.
func (s *Store) Reset() error {
	_, err := s.db.Exec(`DELETE FROM document_tags; DELETE FROM documents; DELETE FROM tags;`)
	return err
}

// SaveTag upserts an entry of the tag table.
func (s *Store) SaveTag(t content.Tag) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO tags (slug, title) VALUES (?, ?)`, t.Slug, t.Title)
	return err
}

// GetTag returns the tag table entry for slug.
func (s *Store) GetTag(slug string) (content.Tag, error) {
	t := content.Tag{Slug: slug}
	err := s.db.QueryRow(`SELECT title FROM tags WHERE slug = ?`, slug).Scan(&t.Title)
	if errors.Is(err, sql.ErrNoRows) {
		return content.Tag{}, fmt.Errorf("tag %q: %w", slug, ErrNotFound)
	}
	return t, err
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339Nano, s)
}

// SaveDocument upserts d and its tag references in one transaction.
func (s *Store) SaveDocument(d content.Document) error {
	headings, err := json.Marshal(d.Headings)
	if err != nil {
		return err
	}
	var dateKey int64
	if !d.Date.IsZero() {
		dateKey = d.Date.UnixNano()
	}
	draft := 0
	if d.Draft {
		draft = 1
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM document_tags WHERE document_id = ?`, d.ID); err != nil {
		return err
	}
	_, err = tx.Exec(`INSERT OR REPLACE INTO documents
		(id, language, type, slug, title, date, date_key, lastmod, draft, body, html, plain, word_count, headings, source_path, ord)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.Language, d.Type, d.Slug, d.Title, formatTime(d.Date), dateKey, formatTime(d.LastMod), draft,
		d.Body, d.HTML, d.Plain, d.WordCount, string(headings), d.SourcePath, d.Order)
	if err != nil {
		return err
	}
	for i, t := range d.Tags {
		if _, err := tx.Exec(`INSERT OR IGNORE INTO document_tags (document_id, position, tag_slug) VALUES (?, ?, ?)`,
			d.ID, i, t.Slug); err != nil {
			return err
		}
	}
	return tx.Commit()
}

const documentColumns = `id, language, type, slug, title, date, lastmod, draft, body, html, plain, word_count, headings, source_path, ord`

type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(row scanner) (content.Document, error) {
	var (
		d             content.Document
		date, lastmod string
		draft         int
		headings      string
	)
	if err := row.Scan(&d.ID, &d.Language, &d.Type, &d.Slug, &d.Title, &date, &lastmod, &draft,
		&d.Body, &d.HTML, &d.Plain, &d.WordCount, &headings, &d.SourcePath, &d.Order); err != nil {
		return content.Document{}, err
	}
	var err error
	if d.Date, err = parseTime(date); err != nil {
		return content.Document{}, fmt.Errorf("document %s: date: %w", d.ID, err)
	}
	if d.LastMod, err = parseTime(lastmod); err != nil {
		return content.Document{}, fmt.Errorf("document %s: lastmod: %w", d.ID, err)
	}
	d.Draft = draft == 1
	var hs []markdown.Heading
	if err := json.Unmarshal([]byte(headings), &hs); err != nil {
		return content.Document{}, fmt.Errorf("document %s: headings: %w", d.ID, err)
	}
	d.Headings = hs
	return d, nil
}

// GetDocument returns the document with id, drafts included.
func (s *Store) GetDocument(id string) (content.Document, error) {
	d, err := scanDocument(s.db.QueryRow(`SELECT `+documentColumns+` FROM documents WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return content.Document{}, fmt.Errorf("document %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return content.Document{}, err
	}
	if err := s.attachTags([]*content.Document{&d}); err != nil {
		return content.Document{}, err
	}
	return d, nil
}

// PostQuery selects a window of public posts in one language, newest first.
type PostQuery struct {
	Language string
	Tag      string // empty for every post
	Skip     int
	Limit    int // 0 for no limit
}

func (q PostQuery) where() (string, []any) {
	clause := `language = ? AND type = ? AND draft = 0`
	args := []any{q.Language, content.TypePost}
	if q.Tag != "" {
		clause += ` AND EXISTS (SELECT 1 FROM document_tags t WHERE t.document_id = documents.id AND t.tag_slug = ?)`
		args = append(args, q.Tag)
	}
	return clause, args
}

// ListPosts returns the posts selected by q. Equal dates keep ingestion order,
// the same order the page planner paginates in.
func (s *Store) ListPosts(q PostQuery) ([]content.Document, error) {
	where, args := q.where()
	limit := q.Limit
	if limit <= 0 {
		limit = -1
	}
	args = append(args, limit, q.Skip)
	rows, err := s.db.Query(`SELECT `+documentColumns+` FROM documents WHERE `+where+
		` ORDER BY date_key DESC, ord ASC LIMIT ? OFFSET ?`, args...)
	if err != nil {
		return nil, err
	}
	var docs []content.Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	// Release the connection before the tag queries: an in-memory store has
	// only one.
	rows.Close()

	ptrs := make([]*content.Document, len(docs))
	for i := range docs {
		ptrs[i] = &docs[i]
	}
	if err := s.attachTags(ptrs); err != nil {
		return nil, err
	}
	return docs, nil
}

// CountPosts returns the number of posts q selects, ignoring Skip and Limit.
func (s *Store) CountPosts(q PostQuery) (int, error) {
	where, args := q.where()
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM documents WHERE `+where, args...).Scan(&n)
	return n, err
}

// attachTags fills the tag references of docs in stored order. Titles come
// from the tag table and are empty for unknown slugs.
func (s *Store) attachTags(docs []*content.Document) error {
	for _, d := range docs {
		rows, err := s.db.Query(`SELECT dt.tag_slug, COALESCE(t.title, '') FROM document_tags dt
			LEFT JOIN tags t ON t.slug = dt.tag_slug
			WHERE dt.document_id = ? ORDER BY dt.position`, d.ID)
		if err != nil {
			return err
		}
		var tags []content.TagRef
		for rows.Next() {
			var t content.TagRef
			if err := rows.Scan(&t.Slug, &t.Title); err != nil {
				rows.Close()
				return err
			}
			tags = append(tags, t)
		}
		err = rows.Err()
		rows.Close()
		if err != nil {
			return err
		}
		d.Tags = tags
	}
	return nil
}
