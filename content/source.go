package content

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/eringen/portfolio/markdown"
)

// ExcerptLength bounds excerpts derived from a blog body when the front
// matter does not provide one.
const ExcerptLength = 200

// Source reads a content directory laid out as:
//
//	blogs/**/*.md   blog records with YAML front matter
//	projects.yaml   project showcase entries
//	about.md        About section body
type Source struct {
	dir string
}

// NewSource returns a Source reading from dir.
func NewSource(dir string) *Source {
	return &Source{dir: dir}
}

// Dir returns the content directory.
func (s *Source) Dir() string {
	return s.dir
}

// Load reads the whole content directory. Individual files that fail to
// parse are skipped and reported in Library.Problems; missing optional
// files are not errors.
func (s *Source) Load() (*Library, error) {
	info, err := os.Stat(s.dir)
	if err != nil {
		return nil, fmt.Errorf("content: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("content: %s is not a directory", s.dir)
	}
	lib := &Library{}
	if err := s.loadBlogs(lib); err != nil {
		return nil, err
	}
	if err := s.loadProjects(lib); err != nil {
		lib.Problems = append(lib.Problems, err)
	}
	about, err := os.ReadFile(filepath.Join(s.dir, "about.md"))
	switch {
	case err == nil:
		lib.About = string(about)
	case !errors.Is(err, fs.ErrNotExist):
		lib.Problems = append(lib.Problems, fmt.Errorf("content: about.md: %w", err))
	}
	return lib, nil
}

func (s *Source) loadBlogs(lib *Library) error {
	root := filepath.Join(s.dir, "blogs")
	if _, err := os.Stat(root); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	seen := make(map[string]string)
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isMarkdown(d.Name()) {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		slug := FlattenPath(rel)
		if prev, dup := seen[slug]; dup {
			lib.Problems = append(lib.Problems, fmt.Errorf("content: %s: slug %q already used by %s", rel, slug, prev))
			return nil
		}
		src, err := os.ReadFile(p)
		if err != nil {
			lib.Problems = append(lib.Problems, fmt.Errorf("content: %s: %w", rel, err))
			return nil
		}
		b, ok, err := ParseBlog(slug, src)
		if err != nil {
			lib.Problems = append(lib.Problems, fmt.Errorf("content: %s: %w", rel, err))
			return nil
		}
		if !ok {
			return nil
		}
		if b.Excerpt == "" {
			b.Excerpt = markdown.Excerpt(b.Body, ExcerptLength)
		}
		seen[slug] = rel
		lib.Blogs = append(lib.Blogs, b)
		return nil
	})
	if err != nil {
		return fmt.Errorf("content: walk blogs: %w", err)
	}
	SortBlogs(lib.Blogs)
	return nil
}

func (s *Source) loadProjects(lib *Library) error {
	data, err := os.ReadFile(filepath.Join(s.dir, "projects.yaml"))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("content: projects.yaml: %w", err)
	}
	var projects []Project
	if err := yaml.Unmarshal(data, &projects); err != nil {
		return fmt.Errorf("content: projects.yaml: %w", err)
	}
	for i := range projects {
		projects[i].Tags = normalizeTagCase(projects[i].Tags)
	}
	lib.Projects = projects
	return nil
}

// normalizeTagCase trims project tags but keeps their display case.
func normalizeTagCase(tags []string) []string {
	var out []string
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func isMarkdown(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".md" || ext == ".mdx" || ext == ".markdown"
}

// FlattenPath turns a file path relative to the blogs directory into a
// slug: extension dropped, separators normalized to "/", and a trailing
// "index" folded into its directory.
func FlattenPath(rel string) string {
	p := filepath.ToSlash(rel)
	p = strings.TrimSuffix(p, path.Ext(p))
	if path.Base(p) == "index" {
		p = path.Dir(p)
		if p == "." {
			p = "index"
		}
	}
	return strings.Trim(p, "/")
}

// SortBlogs orders blogs newest first, then by slug. This is the order the
// content source provides; renderers keep it.
func SortBlogs(blogs []Blog) {
	sort.SliceStable(blogs, func(i, j int) bool {
		if !blogs[i].Date.Equal(blogs[j].Date) {
			return blogs[i].Date.After(blogs[j].Date)
		}
		return blogs[i].Slug < blogs[j].Slug
	})
}
