// Package content loads the portfolio's externally authored records:
// blog posts written as markdown with YAML front matter, the project list,
// and the About text.
package content

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Blog is a blog record. It is immutable once loaded.
type Blog struct {
	Title      string
	Excerpt    string
	CoverImage string // path of the cover image as written in front matter, may be empty
	Slug       string
	Date       time.Time
	Tags       []string
	Body       string
}

// Link returns the detail route of the blog.
func (b Blog) Link() string {
	return "/blogs/" + b.Slug + "/"
}

// DateString formats the date as YYYY-MM-DD, or "" when unset.
func (b Blog) DateString() string {
	if b.Date.IsZero() {
		return ""
	}
	return b.Date.Format(DateLayout)
}

// Project is one showcase entry.
type Project struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Tags        []string `yaml:"tags"`
	ImageURL    string   `yaml:"imageUrl"`
}

// Library is everything loaded from one content directory.
type Library struct {
	Blogs    []Blog
	Projects []Project
	About    string

	// Problems lists files that were skipped because they failed to parse.
	Problems []error
}

// DateLayout is the front matter date format.
const DateLayout = "2006-01-02"

// Date accepts YYYY-MM-DD and RFC 3339 front matter values, quoted or not.
type Date struct {
	time.Time
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Date) UnmarshalYAML(n *yaml.Node) error {
	v := strings.TrimSpace(n.Value)
	if v == "" {
		return nil
	}
	for _, layout := range []string{DateLayout, time.RFC3339, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, v); err == nil {
			d.Time = t
			return nil
		}
	}
	return fmt.Errorf("content: invalid date %q", v)
}

// frontMatter is the YAML header of a blog file.
type frontMatter struct {
	Title      string   `yaml:"title"`
	Excerpt    string   `yaml:"excerpt"`
	CoverImage string   `yaml:"coverImage"`
	Date       Date     `yaml:"date"`
	Tags       []string `yaml:"tags"`
	Draft      bool     `yaml:"draft"`
}

const fence = "---"

// splitFrontMatter separates a leading "---" delimited YAML block from the body.
// Files without front matter return an empty header.
func splitFrontMatter(src string) (header, body string, err error) {
	src = strings.TrimPrefix(src, "\ufeff")
	src = strings.ReplaceAll(src, "\r\n", "\n")
	if !strings.HasPrefix(src, fence+"\n") {
		return "", src, nil
	}
	rest := src[len(fence)+1:]
	end := 0
	if !strings.HasPrefix(rest, fence) {
		i := strings.Index(rest, "\n"+fence)
		if i < 0 {
			return "", "", fmt.Errorf("content: unterminated front matter")
		}
		end = i + 1
	}
	header = rest[:end]
	body = rest[end+len(fence):]
	if nl := strings.IndexByte(body, '\n'); nl >= 0 {
		body = body[nl+1:]
	} else {
		body = ""
	}
	return header, body, nil
}

// ParseBlog parses a markdown file with front matter into a Blog with the given slug.
// Drafts report ok=false.
func ParseBlog(slug string, src []byte) (b Blog, ok bool, err error) {
	header, body, err := splitFrontMatter(string(src))
	if err != nil {
		return Blog{}, false, err
	}
	var fm frontMatter
	if header != "" {
		if err := yaml.Unmarshal([]byte(header), &fm); err != nil {
			return Blog{}, false, fmt.Errorf("content: front matter: %w", err)
		}
	}
	if fm.Draft {
		return Blog{}, false, nil
	}
	title := strings.TrimSpace(fm.Title)
	if title == "" {
		title = slug
	}
	return Blog{
		Title:      title,
		Excerpt:    strings.TrimSpace(fm.Excerpt),
		CoverImage: strings.TrimSpace(fm.CoverImage),
		Slug:       slug,
		Date:       fm.Date.Time,
		Tags:       normalizeTags(fm.Tags),
		Body:       body,
	}, true, nil
}

func normalizeTags(tags []string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
