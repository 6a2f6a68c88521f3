package views

import (
	"github.com/eringen/portfolio/content"
	"github.com/eringen/portfolio/motion"
)

// Thumbnail size of blog card covers.
const (
	ThumbWidth  = 200
	ThumbHeight = 120
)

// BlogCard is the summary of one blog in the list.
type BlogCard struct {
	Title    string
	Excerpt  string
	ImageSrc string // "" when the blog has no cover
	Href     string
	Motion   motion.Motion
}

// BlogCards builds one card per blog, in the order given.
func BlogCards(blogs []content.Blog) []BlogCard {
	cards := make([]BlogCard, len(blogs))
	for i, b := range blogs {
		cards[i] = BlogCard{
			Title:    b.Title,
			Excerpt:  b.Excerpt,
			ImageSrc: ThumbSrc(b.CoverImage),
			Href:     b.Link(),
			Motion:   motion.ListItem(i),
		}
	}
	return cards
}
