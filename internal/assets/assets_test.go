package assets

import (
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cave_pixel.png"), []byte("not really a png"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sheets"), 0o755))

	l := NewLoader(dir, nil)

	path, err := l.Resolve("cave_pixel.png")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "cave_pixel.png"), path)

	for _, name := range []string{"missing.png", "sheets", ""} {
		_, err := l.Resolve(name)
		assert.ErrorIs(t, err, ErrNotFound, name)
	}
}

func TestImageReportsDecodeErrors(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.png"), []byte("garbage"), 0o644))
	l := NewLoader(dir, nil)

	_, err := l.Image("broken.png")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)

	_, err = l.Image("absent.png")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Nil(t, l.Optional("absent.png"))
	var none *Loader
	assert.Nil(t, none.Optional("anything.png"))
}

func TestCellRect(t *testing.T) {
	assert.Equal(t, image.Rect(0, 0, 32, 32), CellRect(0, 0, 32, 32))
	assert.Equal(t, image.Rect(64, 32, 96, 64), CellRect(2, 1, 32, 32))
	assert.Nil(t, Cell(nil, 0, 0, 32, 32))
}
