package render

import (
	"fmt"
	"os"
	"sync"

	"github.com/spf13/afero"
)

// tempFile is a transient file that must be released on every exit path:
//
//	tmp, err := createTempFile(fs, dir, "plan-*.svg", data)
//	if err != nil { ... }
//	defer tmp.Release()
type tempFile struct {
	fs   afero.Fs
	name string
	once sync.Once
	err  error
}

// createTempFile writes data to a new file in dir. On any failure nothing is
// left behind.
func createTempFile(fs afero.Fs, dir, pattern string, data []byte) (*tempFile, error) {
	if dir == "" {
		dir = os.TempDir()
	}
	if err := fs.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}

	f, err := afero.TempFile(fs, dir, pattern)
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}

	tmp := &tempFile{fs: fs, name: f.Name()}
	if _, err := f.Write(data); err != nil {
		f.Close()
		tmp.Release()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		tmp.Release()
		return nil, fmt.Errorf("close temp file: %w", err)
	}

	return tmp, nil
}

func (t *tempFile) Path() string { return t.name }

// Release removes the file. Safe to call more than once.
func (t *tempFile) Release() error {
	t.once.Do(func() {
		if err := t.fs.Remove(t.name); err != nil && !os.IsNotExist(err) {
			t.err = err
		}
	})
	return t.err
}
