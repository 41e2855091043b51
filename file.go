package flashqueue

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// FileBackend menyimpan setiap store sebagai satu file di bawah Dir.
type FileBackend struct {
	Dir string
}

func (b FileBackend) path(name string) string {
	return filepath.Join(b.Dir, name)
}

// Exists reports whether the named file is present.
func (b FileBackend) Exists(name string) (bool, error) {
	_, err := os.Stat(b.path(name))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// Open opens or creates the named file. OpenCreate truncates the file; the
// ring engine fills it up to its total size afterwards.
func (b FileBackend) Open(name string, mode OpenMode, size int64) (Handle, error) {
	p := b.path(name)
	switch mode {
	case OpenExisting:
		f, err := os.OpenFile(p, os.O_RDWR, 0)
		if err != nil {
			return nil, err
		}
		return &fileHandle{f: f}, nil
	case OpenCreate:
		// Pastikan direktori ada
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			return nil, fmt.Errorf("gagal membuat direktori: %w", err)
		}
		f, err := os.OpenFile(p, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o666)
		if err != nil {
			return nil, err
		}
		return &fileHandle{f: f}, nil
	default:
		return nil, fmt.Errorf("unknown open mode %d", mode)
	}
}

// Remove deletes the named store file.
func (b FileBackend) Remove(name string) error {
	return os.Remove(b.path(name))
}

type fileHandle struct {
	f *os.File
}

func (h *fileHandle) ReadAt(p []byte, off int64) (int, error)  { return h.f.ReadAt(p, off) }
func (h *fileHandle) WriteAt(p []byte, off int64) (int, error) { return h.f.WriteAt(p, off) }

func (h *fileHandle) Sync() error {
	if err := unix.Fsync(int(h.f.Fd())); err != nil {
		return fmt.Errorf("fsync %s: %w", h.f.Name(), err)
	}
	return nil
}

func (h *fileHandle) Close() error { return h.f.Close() }
