package output

import (
	"encoding/hex"
	"hash"
	"hash/fnv"
	"io"
	"os"
)

func newDigest() hash.Hash {
	return fnv.New64a()
}

func sum(h hash.Hash) string {
	return hex.EncodeToString(h.Sum(nil))
}

// fileDigest returns the digest of the file at path, or an empty string when
// there is no such regular file.
func fileDigest(path string) (string, error) {
	fd, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}

		return "", err
	}
	defer fd.Close()

	if fi, err := fd.Stat(); err != nil {
		return "", err
	} else if !fi.Mode().IsRegular() {
		return "", nil
	}

	h := newDigest()

	if _, err := io.Copy(h, fd); err != nil {
		return "", err
	}

	return sum(h), nil
}
