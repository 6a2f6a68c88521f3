package portfolio

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/eringen/portfolio/content"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(MemoryDatabase)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func day(s string) time.Time {
	t, err := time.Parse(content.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func sampleBlogs() []content.Blog {
	return []content.Blog{
		{Slug: "newest", Title: "Newest", Excerpt: "e1", CoverImage: "/img/a.png", Date: day("2024-03-01"), Tags: []string{"go", "web"}, Body: "b1"},
		{Slug: "middle", Title: "Middle", Excerpt: "e2", Date: day("2024-02-01"), Tags: []string{"Rust"}, Body: "b2"},
		{Slug: "series/part-1", Title: "Part 1", Excerpt: "e3", Body: "b3"},
	}
}

func TestBlogDateKeepsTimeOfDay(t *testing.T) {
	s := setupTestStore(t)
	when := time.Date(2024, 3, 1, 18, 45, 30, 0, time.FixedZone("CET", 3600))
	if err := s.ReplaceBlogs([]content.Blog{{Slug: "evening", Title: "Evening", Date: when, Body: "b"}}); err != nil {
		t.Fatalf("ReplaceBlogs failed: %v", err)
	}

	got, err := s.GetBlog("evening")
	if err != nil {
		t.Fatalf("GetBlog failed: %v", err)
	}
	if !got.Date.Equal(when) {
		t.Errorf("Date = %v, want %v", got.Date, when)
	}
}

func TestSaveAndGetBlog(t *testing.T) {
	s := setupTestStore(t)
	if err := s.ReplaceBlogs(sampleBlogs()); err != nil {
		t.Fatalf("ReplaceBlogs failed: %v", err)
	}

	got, err := s.GetBlog("newest")
	if err != nil {
		t.Fatalf("GetBlog failed: %v", err)
	}
	if got.Title != "Newest" {
		t.Errorf("Title = %q, want %q", got.Title, "Newest")
	}
	if got.CoverImage != "/img/a.png" {
		t.Errorf("CoverImage = %q", got.CoverImage)
	}
	if got.DateString() != "2024-03-01" {
		t.Errorf("Date = %q, want 2024-03-01", got.DateString())
	}
	if len(got.Tags) != 2 || got.Tags[0] != "go" || got.Tags[1] != "web" {
		t.Errorf("Tags = %v, want [go web]", got.Tags)
	}
	if got.Body != "b1" {
		t.Errorf("Body = %q", got.Body)
	}

	nested, err := s.GetBlog("series/part-1")
	if err != nil {
		t.Fatalf("GetBlog nested failed: %v", err)
	}
	if !nested.Date.IsZero() || nested.CoverImage != "" || nested.Tags != nil {
		t.Errorf("nested blog should have empty optional fields, got %+v", nested)
	}
}

func TestGetBlogNotFound(t *testing.T) {
	s := setupTestStore(t)
	_, err := s.GetBlog("missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListBlogsKeepsContentOrder(t *testing.T) {
	s := setupTestStore(t)
	// deliberately not date ordered
	blogs := []content.Blog{
		{Slug: "b", Title: "B", Date: day("2020-01-01")},
		{Slug: "a", Title: "A", Date: day("2024-01-01")},
		{Slug: "c", Title: "C"},
	}
	if err := s.ReplaceBlogs(blogs); err != nil {
		t.Fatalf("ReplaceBlogs failed: %v", err)
	}
	got, err := s.ListBlogs("")
	if err != nil {
		t.Fatalf("ListBlogs failed: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("ListBlogs count = %d, want 3", len(got))
	}
	for i, want := range []string{"b", "a", "c"} {
		if got[i].Slug != want {
			t.Errorf("position %d = %s, want %s", i, got[i].Slug, want)
		}
	}
}

func TestListBlogsByTag(t *testing.T) {
	s := setupTestStore(t)
	if err := s.ReplaceBlogs(sampleBlogs()); err != nil {
		t.Fatalf("ReplaceBlogs failed: %v", err)
	}
	tests := []struct {
		tag  string
		want int
	}{
		{"go", 1},
		{"RUST", 1},
		{" web ", 1},
		{"nonexistent", 0},
		{"", 3},
	}
	for _, tt := range tests {
		got, err := s.ListBlogs(tt.tag)
		if err != nil {
			t.Fatalf("ListBlogs(%q) failed: %v", tt.tag, err)
		}
		if len(got) != tt.want {
			t.Errorf("ListBlogs(%q) count = %d, want %d", tt.tag, len(got), tt.want)
		}
	}
}

func TestReplaceBlogsDropsOldRows(t *testing.T) {
	s := setupTestStore(t)
	if err := s.ReplaceBlogs(sampleBlogs()); err != nil {
		t.Fatalf("ReplaceBlogs failed: %v", err)
	}
	if err := s.ReplaceBlogs([]content.Blog{{Slug: "only", Title: "Only"}}); err != nil {
		t.Fatalf("ReplaceBlogs failed: %v", err)
	}
	n, err := s.CountBlogs()
	if err != nil {
		t.Fatalf("CountBlogs failed: %v", err)
	}
	if n != 1 {
		t.Errorf("CountBlogs = %d, want 1", n)
	}
	if _, err := s.GetBlog("newest"); !errors.Is(err, ErrNotFound) {
		t.Errorf("old blog should be gone, got %v", err)
	}
}

func TestReplaceBlogsDuplicateSlugRollsBack(t *testing.T) {
	s := setupTestStore(t)
	if err := s.ReplaceBlogs(sampleBlogs()); err != nil {
		t.Fatalf("ReplaceBlogs failed: %v", err)
	}
	dup := []content.Blog{{Slug: "x", Title: "X"}, {Slug: "x", Title: "X again"}}
	if err := s.ReplaceBlogs(dup); err == nil {
		t.Fatal("expected duplicate slug error")
	}
	n, _ := s.CountBlogs()
	if n != 3 {
		t.Errorf("failed replace should keep previous rows, count = %d", n)
	}
}

func TestListTags(t *testing.T) {
	s := setupTestStore(t)
	if err := s.ReplaceBlogs(sampleBlogs()); err != nil {
		t.Fatalf("ReplaceBlogs failed: %v", err)
	}
	tags, err := s.ListTags()
	if err != nil {
		t.Fatalf("ListTags failed: %v", err)
	}
	want := []string{"go", "rust", "web"}
	if len(tags) != len(want) {
		t.Fatalf("ListTags = %v, want %v", tags, want)
	}
	for i := range want {
		if tags[i] != want[i] {
			t.Errorf("tags[%d] = %q, want %q", i, tags[i], want[i])
		}
	}
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "index.db")
	s, err := NewStore(path)
	if err != nil {
		t.Fatalf("NewStore(%s) failed: %v", path, err)
	}
	defer s.Close()
	if err := s.ReplaceBlogs(sampleBlogs()); err != nil {
		t.Fatalf("ReplaceBlogs failed: %v", err)
	}
	got, err := s.ListBlogs("")
	if err != nil || len(got) != 3 {
		t.Errorf("ListBlogs = %d blogs, err %v", len(got), err)
	}
}

func TestTagColumn(t *testing.T) {
	tests := []struct {
		tags []string
		col  string
	}{
		{nil, ",,"},
		{[]string{"Go", " web "}, ",go,web,"},
		{[]string{"", "x"}, ",x,"},
	}
	for _, tt := range tests {
		if got := JoinTagColumn(tt.tags); got != tt.col {
			t.Errorf("JoinTagColumn(%v) = %q, want %q", tt.tags, got, tt.col)
		}
	}
	if got := ParseTagColumn(",go,web,"); len(got) != 2 || got[0] != "go" || got[1] != "web" {
		t.Errorf("ParseTagColumn = %v", got)
	}
	if got := ParseTagColumn(",,"); got != nil {
		t.Errorf("ParseTagColumn(,,) = %v, want nil", got)
	}
}
