package portfolio

import (
	"net/url"
	"path"
	"strings"

	"github.com/eringen/portfolio/content"
)

// BuildURL joins a base URL with path segments. Joined paths end in a
// slash, matching the site's routes; the bare base is returned unchanged.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	if len(pathSegments) == 0 {
		return u.String()
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// blogURL is the absolute detail URL of b. Nested slugs keep their
// directories: "notes/go" -> <base>/blogs/notes/go/.
func blogURL(base string, b content.Blog) string {
	return BuildURL(base, "blogs", b.Slug)
}

// fileURL is an absolute URL of a file route such as /sitemap.xml.
func fileURL(base, name string) string {
	return strings.TrimSuffix(BuildURL(base, name), "/")
}
