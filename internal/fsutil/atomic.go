// Package fsutil provides small filesystem helpers.
package fsutil

import (
	"os"
	"path/filepath"
)

// WriteFileAtomic writes data to dir/name atomically using a temp file and
// rename, so readers never observe a partially-written file. The startup
// configuration store relies on this for its single logical write.
func WriteFileAtomic(dir, name string, data []byte, perm os.FileMode) error {
	target := filepath.Join(dir, name)
	tmp := filepath.Join(dir, ".tmp-"+name)

	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	defer os.Remove(tmp) // clean up on error

	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, target)
}
