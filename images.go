package portfolio

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"sync"

	"github.com/labstack/echo/v4"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/eringen/portfolio/views"
)

const (
	jpegQuality = 80
	maxThumbs   = 256
)

// thumbnail decodes an image from src and scales it down to fit within
// maxW x maxH, keeping its aspect ratio. Smaller images are not enlarged.
// The result is encoded as JPEG.
func thumbnail(src io.Reader, maxW, maxH int) ([]byte, error) {
	img, _, err := image.Decode(src)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("decode image: empty image")
	}

	if w > maxW || h > maxH {
		nw, nh := maxW, h*maxW/w
		if nh > maxH {
			nw, nh = w*maxH/h, maxH
		}
		if nw < 1 {
			nw = 1
		}
		if nh < 1 {
			nh = 1
		}
		dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// thumbCache keeps encoded thumbnails in memory. When full, it starts over.
type thumbCache struct {
	mu    sync.Mutex
	max   int
	items map[string][]byte
}

func newThumbCache(max int) *thumbCache {
	return &thumbCache{max: max, items: make(map[string][]byte)}
}

func (c *thumbCache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.items[key]
	return b, ok
}

func (c *thumbCache) Put(key string, b []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.items) >= c.max {
		c.items = make(map[string][]byte)
	}
	c.items[key] = b
}

// Reset drops every cached thumbnail, as after a content reload.
func (c *thumbCache) Reset() {
	c.mu.Lock()
	c.items = make(map[string][]byte)
	c.mu.Unlock()
}

// handleThumb serves /thumbs/<path>: the static image at <path> scaled to
// the blog card size.
func (a *App) handleThumb(c echo.Context) error {
	rel := path.Clean("/" + c.Param("*"))
	if rel == "/" {
		return echo.ErrNotFound
	}
	if data, ok := a.thumbs.Get(rel); ok {
		return c.Blob(http.StatusOK, "image/jpeg", data)
	}

	f, err := os.Open(filepath.Join(a.staticDir, filepath.FromSlash(rel)))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return echo.ErrNotFound
		}
		return err
	}
	defer f.Close()
	if info, err := f.Stat(); err != nil || info.IsDir() {
		return echo.ErrNotFound
	}

	data, err := thumbnail(f, views.ThumbWidth, views.ThumbHeight)
	if err != nil {
		// Serve the original so the card still shows an image.
		c.Logger().Warnf("thumbnail %s: %v", rel, err)
		return c.Redirect(http.StatusFound, rel)
	}
	a.thumbs.Put(rel, data)
	return c.Blob(http.StatusOK, "image/jpeg", data)
}
