// Package scaffold writes a starter site: a content directory with one blog,
// a project list and an About text, plus an example .env file.
package scaffold

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"
)

// Templates contains all scaffold template files.
// Files use Go text/template syntax and have a .tmpl suffix.
//
//go:embed all:templates
var Templates embed.FS

// Data holds the template variables passed to every scaffold template.
type Data struct {
	SiteName string
	Author   string
	Email    string
	Date     string // YYYY-MM-DD of the starter blog
}

// NewData derives template data from a directory name, e.g. "my-site".
func NewData(dir string) Data {
	return Data{
		SiteName: ToTitle(filepath.Base(filepath.Clean(dir))),
		Author:   "Your Name",
		Email:    "you@example.com",
		Date:     time.Now().Format("2006-01-02"),
	}
}

// Write renders every template into dir and returns the created paths.
// It refuses to write into an existing directory.
func Write(dir string, data Data) ([]string, error) {
	if _, err := os.Stat(dir); err == nil {
		return nil, fmt.Errorf("scaffold: directory %q already exists", dir)
	}

	const root = "templates"
	var created []string
	err := fs.WalkDir(Templates, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		outPath := strings.TrimSuffix(filepath.Join(dir, relPath), ".tmpl")
		if filepath.Base(outPath) == "dotenv" {
			outPath = filepath.Join(filepath.Dir(outPath), ".env.example")
		}
		if d.IsDir() {
			return os.MkdirAll(outPath, 0o755)
		}
		if d.Name() == ".keep" {
			return nil
		}

		src, err := Templates.ReadFile(path)
		if err != nil {
			return fmt.Errorf("scaffold: read %s: %w", path, err)
		}
		tmpl, err := template.New(filepath.Base(path)).Parse(string(src))
		if err != nil {
			return fmt.Errorf("scaffold: parse template %s: %w", path, err)
		}
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("scaffold: create %s: %w", outPath, err)
		}
		defer f.Close()
		if err := tmpl.Execute(f, data); err != nil {
			return fmt.Errorf("scaffold: execute template %s: %w", path, err)
		}
		created = append(created, outPath)
		return nil
	})
	if err != nil {
		return created, err
	}
	return created, nil
}

// ToTitle converts a hyphenated or lowercase name to a title-case string.
// e.g. "my-site" -> "My Site", "mysite" -> "Mysite"
func ToTitle(s string) string {
	parts := strings.Split(s, "-")
	for i, p := range parts {
		if len(p) > 0 {
			parts[i] = strings.ToUpper(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, " ")
}
