package portfolio

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/eringen/portfolio/content"
)

// MemoryDatabase keeps the blog index in process memory.
const MemoryDatabase = ":memory:"

// ErrNotFound is returned when a requested blog does not exist.
var ErrNotFound = sql.ErrNoRows

// Store is a SQLite read model of the loaded blog records. It never holds
// anything that is not derived from the content directory: every content
// load replaces its rows wholesale.
type Store struct {
	db *sql.DB
}

// NewStore opens the SQLite database at path (MemoryDatabase for an
// in-process index) and ensures the schema exists.
func NewStore(path string) (*Store, error) {
	if path == "" {
		path = MemoryDatabase
	}
	memory := path == MemoryDatabase
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
		// Every connection to :memory: is a separate database; pin one.
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
	} else {
		// WAL lets page renders read while a content reload writes.
		if _, err := db.Exec(`
			PRAGMA journal_mode=WAL;
			PRAGMA busy_timeout=5000;
			PRAGMA synchronous=NORMAL;
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
CREATE TABLE IF NOT EXISTS blogs (
    slug TEXT PRIMARY KEY,
    position INTEGER NOT NULL,
    title TEXT NOT NULL,
    excerpt TEXT NOT NULL,
    cover_image TEXT NOT NULL DEFAULT '',
    date TEXT NOT NULL DEFAULT '',
    tags TEXT NOT NULL DEFAULT ',',
    body TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS blogs_position ON blogs(position);
`)
	return err
}

// ReplaceBlogs swaps the indexed blogs for blogs in one transaction,
// remembering their order.
func (s *Store) ReplaceBlogs(blogs []content.Blog) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM blogs`); err != nil {
		return err
	}
	stmt, err := tx.Prepare(`INSERT INTO blogs (slug, position, title, excerpt, cover_image, date, tags, body) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for i, b := range blogs {
		if _, err := stmt.Exec(b.Slug, i, b.Title, b.Excerpt, b.CoverImage, dateColumn(b.Date), JoinTagColumn(b.Tags), b.Body); err != nil {
			return fmt.Errorf("index %s: %w", b.Slug, err)
		}
	}
	return tx.Commit()
}

const blogColumns = `slug, title, excerpt, cover_image, date, tags, body`

// ListBlogs returns blogs in content order. If tag is non-empty, only blogs
// carrying that tag are returned.
func (s *Store) ListBlogs(tag string) ([]content.Blog, error) {
	var rows *sql.Rows
	var err error
	if tag == "" {
		rows, err = s.db.Query(`SELECT ` + blogColumns + ` FROM blogs ORDER BY position`)
	} else {
		rows, err = s.db.Query(`SELECT `+blogColumns+` FROM blogs WHERE instr(tags, ',' || ? || ',') > 0 ORDER BY position`, normalizeTag(tag))
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var blogs []content.Blog
	for rows.Next() {
		b, err := scanBlog(rows)
		if err != nil {
			return nil, err
		}
		blogs = append(blogs, b)
	}
	return blogs, rows.Err()
}

// GetBlog returns a single blog by slug, or ErrNotFound.
func (s *Store) GetBlog(slug string) (content.Blog, error) {
	row := s.db.QueryRow(`SELECT `+blogColumns+` FROM blogs WHERE slug = ?`, slug)
	return scanBlog(row)
}

// CountBlogs returns the number of indexed blogs.
func (s *Store) CountBlogs() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM blogs`).Scan(&n)
	return n, err
}

// ListTags returns a sorted, deduplicated slice of all blog tags.
func (s *Store) ListTags() ([]string, error) {
	rows, err := s.db.Query(`SELECT tags FROM blogs`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	set := make(map[string]struct{})
	for rows.Next() {
		var tags string
		if err := rows.Scan(&tags); err != nil {
			return nil, err
		}
		for _, t := range ParseTagColumn(tags) {
			set[t] = struct{}{}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	result := make([]string, 0, len(set))
	for t := range set {
		result = append(result, t)
	}
	sort.Strings(result)
	return result, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBlog(r scanner) (content.Blog, error) {
	var b content.Blog
	var date, tags string
	if err := r.Scan(&b.Slug, &b.Title, &b.Excerpt, &b.CoverImage, &date, &tags, &b.Body); err != nil {
		return content.Blog{}, err
	}
	if date != "" {
		t, err := time.Parse(time.RFC3339Nano, date)
		if err != nil {
			return content.Blog{}, fmt.Errorf("blog %s: bad date %q: %w", b.Slug, date, err)
		}
		b.Date = t
	}
	b.Tags = ParseTagColumn(tags)
	return b, nil
}

// dateColumn stores the full timestamp so ordering and the feed keep the
// time of day.
func dateColumn(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339Nano)
}

// JoinTagColumn stores tags as ",a,b," so a tag can be matched with instr.
func JoinTagColumn(tags []string) string {
	normalized := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = normalizeTag(t); t != "" {
			normalized = append(normalized, t)
		}
	}
	return "," + strings.Join(normalized, ",") + ","
}

// ParseTagColumn splits a comma-delimited tag string (e.g. ",go,web,") into a slice.
func ParseTagColumn(tagString string) []string {
	tagString = strings.Trim(tagString, ",")
	if tagString == "" {
		return nil
	}
	parts := strings.Split(tagString, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func normalizeTag(t string) string {
	return strings.ToLower(strings.TrimSpace(t))
}
