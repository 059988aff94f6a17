// Package assets loads images from the asset directory. Games treat every
// image as optional: a missing file is reported with ErrNotFound and the
// caller draws a plain shape instead.
package assets

import (
	"errors"
	"fmt"
	"image"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

var ErrNotFound = errors.New("asset not found")

// Loader resolves names against Dir and caches decoded images.
type Loader struct {
	Dir    string
	logger *slog.Logger
	cache  map[string]*ebiten.Image
}

func NewLoader(dir string, logger *slog.Logger) *Loader {
	return &Loader{
		Dir:    dir,
		logger: logger,
		cache:  make(map[string]*ebiten.Image),
	}
}

// Resolve returns the path of name inside Dir, or ErrNotFound.
func (l *Loader) Resolve(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("%w: empty name", ErrNotFound)
	}
	path := filepath.Join(l.Dir, name)
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%w: %s is a directory", ErrNotFound, path)
	}
	return path, nil
}

// Image loads and caches name.
func (l *Loader) Image(name string) (*ebiten.Image, error) {
	if img, ok := l.cache[name]; ok {
		return img, nil
	}
	path, err := l.Resolve(name)
	if err != nil {
		return nil, err
	}
	img, _, err := ebitenutil.NewImageFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	l.cache[name] = img
	return img, nil
}

// Optional loads name and returns nil, logging at debug level, when it is
// missing or broken. A nil Loader always returns nil.
func (l *Loader) Optional(name string) *ebiten.Image {
	if l == nil {
		return nil
	}
	img, err := l.Image(name)
	if err != nil {
		if l.logger != nil {
			l.logger.Debug("asset unavailable, using fallback", "name", name, "err", err)
		}
		return nil
	}
	return img
}

// CellRect is the bounds of cell (col, row) in a sheet of w×h cells.
func CellRect(col, row, w, h int) image.Rectangle {
	return image.Rect(col*w, row*h, (col+1)*w, (row+1)*h)
}

// Cell cuts one cell out of a sprite sheet. It returns nil when the sheet
// is nil or too small.
func Cell(sheet *ebiten.Image, col, row, w, h int) *ebiten.Image {
	if sheet == nil {
		return nil
	}
	r := CellRect(col, row, w, h)
	if !r.In(sheet.Bounds()) {
		return nil
	}
	return sheet.SubImage(r).(*ebiten.Image)
}
