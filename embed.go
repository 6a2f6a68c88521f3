package portfolio

import "embed"

// EmbeddedAssets contains static assets shipped with the site:
// sections.js, motion.js, and a default favicon.svg
//
//go:embed embedded/*
var EmbeddedAssets embed.FS
