package output

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

var ErrIO = errors.New("i/o error")

// FsWriter writes outputs on the local filesystem. It never replaces the
// file it was created for.
type FsWriter struct {
	source string
}

func NewFsWriter(source string) *FsWriter {
	return &FsWriter{source: source}
}

// Write stores the contents of r at key.FsPath() and returns that path. The
// data goes to a temporary file in the same directory first, so a failed
// write never leaves a truncated output behind. An existing output with the
// same contents is left untouched.
func (w *FsWriter) Write(key Key, r io.Reader) (string, error) {
	path := key.FsPath()

	if same, err := w.isSource(path); err != nil {
		return "", fmt.Errorf("%w: %v", ErrIO, err)
	} else if same {
		return "", fmt.Errorf("%w: refusing to overwrite the source %s", ErrIO, w.source)
	}

	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, ".squarer-*")
	if err != nil {
		return "", fmt.Errorf("%w: could not create a temporary file in %s: %v", ErrIO, dir, err)
	}

	tmpName := tmp.Name()

	defer func() {
		tmp.Close()
		os.Remove(tmpName)
	}()

	h := newDigest()

	n, err := bufio.NewReader(io.TeeReader(r, h)).WriteTo(tmp)
	if err != nil {
		return "", fmt.Errorf("%w: could not write the data to %s: %v", ErrIO, tmpName, err)
	}

	if err := tmp.Sync(); err != nil {
		return "", fmt.Errorf("%w: could not sync %s: %v", ErrIO, tmpName, err)
	}

	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("%w: could not close %s: %v", ErrIO, tmpName, err)
	}

	digest := sum(h)

	previous, err := fileDigest(path)
	if err != nil {
		return "", fmt.Errorf("%w: could not read the existing %s: %v", ErrIO, path, err)
	}

	if previous == digest {
		log.Printf("%s is up to date (fnv %s)", path, digest)
		return path, nil
	}

	if err := os.Chmod(tmpName, 0644); err != nil {
		return "", fmt.Errorf("%w: could not set the permissions of %s: %v", ErrIO, tmpName, err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		return "", fmt.Errorf("%w: could not rename %s to %s: %v", ErrIO, tmpName, path, err)
	}

	log.Printf("Wrote %d bytes to %s (fnv %s)", n, path, digest)

	return path, nil
}

func (w *FsWriter) isSource(path string) (bool, error) {
	if filepath.Clean(path) == filepath.Clean(w.source) {
		return true, nil
	}

	srcInfo, err := os.Stat(w.source)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}

		return false, err
	}

	dstInfo, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}

		return false, err
	}

	return os.SameFile(srcInfo, dstInfo), nil
}
