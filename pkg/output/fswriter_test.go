package output

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pathKey string

func (k pathKey) FsPath() string {
	return string(k)
}

func TestFsWriter_Write(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "photo.png")
	require.NoError(t, os.WriteFile(source, []byte("source"), 0644))

	w := NewFsWriter(source)

	t.Run("writes next to the source", func(t *testing.T) {
		path, err := w.Write(NewSquareFileKey(source, "", 0), bytes.NewReader([]byte("jpeg data")))
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "photo_square_0.jpg"), path)

		b, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "jpeg data", string(b))
	})

	t.Run("replaces a previous output", func(t *testing.T) {
		key := NewSquareFileKey(source, "", 1)

		_, err := w.Write(key, bytes.NewReader([]byte("first")))
		require.NoError(t, err)

		path, err := w.Write(key, bytes.NewReader([]byte("second")))
		require.NoError(t, err)

		b, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "second", string(b))
	})

	t.Run("refuses to overwrite the source", func(t *testing.T) {
		_, err := w.Write(pathKey(source), bytes.NewReader([]byte("oops")))
		assert.True(t, errors.Is(err, ErrIO))

		b, err := os.ReadFile(source)
		require.NoError(t, err)
		assert.Equal(t, "source", string(b))
	})

	t.Run("missing directory", func(t *testing.T) {
		_, err := w.Write(pathKey(filepath.Join(dir, "missing", "out.jpg")), bytes.NewReader(nil))
		assert.True(t, errors.Is(err, ErrIO))
	})

	t.Run("no temporary file is left behind", func(t *testing.T) {
		matches, err := filepath.Glob(filepath.Join(dir, ".squarer-*"))
		require.NoError(t, err)
		assert.Empty(t, matches)
	})
}

func TestFsWriter_Write_unchanged(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "photo.png")
	require.NoError(t, os.WriteFile(source, []byte("source"), 0644))

	w := NewFsWriter(source)
	key := NewSquareFileKey(source, "", 0)

	path, err := w.Write(key, bytes.NewReader([]byte("jpeg data")))
	require.NoError(t, err)

	old := time.Date(2001, time.January, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, os.Chtimes(path, old, old))

	t.Run("same contents keep the existing file", func(t *testing.T) {
		_, err := w.Write(key, bytes.NewReader([]byte("jpeg data")))
		require.NoError(t, err)

		fi, err := os.Stat(path)
		require.NoError(t, err)
		assert.True(t, fi.ModTime().Equal(old), "modified at %v", fi.ModTime())
	})

	t.Run("different contents replace it", func(t *testing.T) {
		_, err := w.Write(key, bytes.NewReader([]byte("other data")))
		require.NoError(t, err)

		fi, err := os.Stat(path)
		require.NoError(t, err)
		assert.False(t, fi.ModTime().Equal(old))

		b, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "other data", string(b))
	})

	matches, err := filepath.Glob(filepath.Join(dir, ".squarer-*"))
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestFileDigest(t *testing.T) {
	dir := t.TempDir()

	a := filepath.Join(dir, "a")
	require.NoError(t, os.WriteFile(a, []byte("a"), 0644))

	b := filepath.Join(dir, "b")
	require.NoError(t, os.WriteFile(b, []byte("b"), 0644))

	da, err := fileDigest(a)
	require.NoError(t, err)
	assert.Len(t, da, 16)

	db, err := fileDigest(b)
	require.NoError(t, err)
	assert.NotEqual(t, da, db)

	missing, err := fileDigest(filepath.Join(dir, "missing"))
	require.NoError(t, err)
	assert.Empty(t, missing)

	d, err := fileDigest(dir)
	require.NoError(t, err)
	assert.Empty(t, d)
}
