package output

import (
	"path/filepath"
	"strconv"
	"strings"
)

const DefaultTag = "square"

// Key identifies one output file of a run.
type Key interface {
	FsPath() string
}

// SquareFileKey names the index-th output of source as
// <dir>/<base>_<tag>_<index>.jpg, where base is the source file name up to
// its first dot.
type SquareFileKey struct {
	source string
	tag    string
	index  int
}

func NewSquareFileKey(source, tag string, index int) *SquareFileKey {
	if tag == "" {
		tag = DefaultTag
	}

	return &SquareFileKey{
		source: source,
		tag:    tag,
		index:  index,
	}
}

func (sfk *SquareFileKey) FsPath() string {
	name := filepath.Base(sfk.source)

	base, _, _ := strings.Cut(name, ".")
	if base == "" {
		base = strings.TrimSuffix(name, filepath.Ext(name))
	}

	return filepath.Join(
		filepath.Dir(sfk.source),
		strings.Join([]string{base, sfk.tag, strconv.Itoa(sfk.index)}, "_")+".jpg",
	)
}
