package content

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, rel, body string) {
	t.Helper()
	p := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
}

func TestParseBlog(t *testing.T) {
	src := "---\ntitle: Hello Go\nexcerpt: A short intro\ncoverImage: ../public/images/go.png\ndate: 2024-02-01\ntags: [Go, web, go]\n---\n# Heading\n\nBody text.\n"
	b, ok, err := ParseBlog("hello-go", []byte(src))
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, "Hello Go", b.Title)
	assert.Equal(t, "A short intro", b.Excerpt)
	assert.Equal(t, "../public/images/go.png", b.CoverImage)
	assert.Equal(t, "2024-02-01", b.DateString())
	assert.Equal(t, []string{"go", "web"}, b.Tags)
	assert.Equal(t, "# Heading\n\nBody text.\n", b.Body)
	assert.Equal(t, "/blogs/hello-go/", b.Link())
}

func TestParseBlogWithoutFrontMatter(t *testing.T) {
	b, ok, err := ParseBlog("plain", []byte("Just text"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "plain", b.Title)
	assert.Empty(t, b.CoverImage)
	assert.Equal(t, "", b.DateString())
	assert.Equal(t, "Just text", b.Body)
}

func TestParseBlogQuotedAndCRLF(t *testing.T) {
	src := "---\r\ntitle: \"Quoted\"\r\ndate: \"2023-05-06\"\r\n---\r\nbody"
	b, ok, err := ParseBlog("q", []byte(src))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Quoted", b.Title)
	assert.Equal(t, "2023-05-06", b.DateString())
	assert.Equal(t, "body", b.Body)
}

func TestParseBlogDraft(t *testing.T) {
	_, ok, err := ParseBlog("d", []byte("---\ntitle: D\ndraft: true\n---\nx"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestParseBlogErrors(t *testing.T) {
	_, _, err := ParseBlog("u", []byte("---\ntitle: never closed\n"))
	assert.Error(t, err)

	_, _, err = ParseBlog("d", []byte("---\ndate: yesterday\n---\n"))
	assert.Error(t, err)
}

func TestFlattenPath(t *testing.T) {
	tests := map[string]string{
		"hello.md":             "hello",
		"2024/go-tips.mdx":     "2024/go-tips",
		"series/part/index.md": "series/part",
		"index.md":             "index",
	}
	for in, want := range tests {
		assert.Equal(t, want, FlattenPath(in), in)
	}
}

func TestLoadLibrary(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "blogs/old.md", "---\ntitle: Old\ndate: 2023-01-01\n---\nOld body.")
	writeFile(t, dir, "blogs/new.md", "---\ntitle: New\ndate: 2024-01-01\n---\nFirst paragraph of the new post.\n\nSecond.")
	writeFile(t, dir, "blogs/nested/index.md", "---\ntitle: Nested\ndate: 2024-01-01\n---\nx")
	writeFile(t, dir, "blogs/draft.md", "---\ntitle: Draft\ndraft: true\n---\nx")
	writeFile(t, dir, "blogs/broken.md", "---\ntitle: [unclosed\n---\nx")
	writeFile(t, dir, "blogs/notes.txt", "ignored")
	writeFile(t, dir, "projects.yaml", "- title: Mail TUI\n  description: A terminal email client.\n  tags: [Go, ' Bubble Tea ']\n  imageUrl: /images/mail.png\n")
	writeFile(t, dir, "about.md", "I build things.")

	lib, err := NewSource(dir).Load()
	require.NoError(t, err)

	var slugs []string
	for _, b := range lib.Blogs {
		slugs = append(slugs, b.Slug)
	}
	assert.Equal(t, []string{"nested", "new", "old"}, slugs)
	assert.Equal(t, "First paragraph of the new post.", lib.Blogs[1].Excerpt)

	require.Len(t, lib.Projects, 1)
	assert.Equal(t, "Mail TUI", lib.Projects[0].Title)
	assert.Equal(t, []string{"Go", "Bubble Tea"}, lib.Projects[0].Tags)
	assert.Equal(t, "/images/mail.png", lib.Projects[0].ImageURL)
	assert.Equal(t, "I build things.", lib.About)

	require.Len(t, lib.Problems, 1)
	assert.Contains(t, lib.Problems[0].Error(), "broken.md")
}

func TestLoadEmptyDirectory(t *testing.T) {
	lib, err := NewSource(t.TempDir()).Load()
	require.NoError(t, err)
	assert.Empty(t, lib.Blogs)
	assert.Empty(t, lib.Projects)
	assert.Empty(t, lib.Problems)
}

func TestLoadMissingDirectory(t *testing.T) {
	_, err := NewSource(filepath.Join(t.TempDir(), "nope")).Load()
	assert.Error(t, err)
}

func TestWatcherCoalescesChanges(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "blogs/a.md", "a")

	w, err := NewWatcher(dir, 50*time.Millisecond, nil)
	require.NoError(t, err)

	var calls atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx, func() { calls.Add(1) })

	writeFile(t, dir, "blogs/a.md", "changed")
	writeFile(t, dir, "blogs/b.md", "new")

	assert.Eventually(t, func() bool { return calls.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)
}
