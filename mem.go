package flashqueue

import (
	"fmt"
	"io"
	"io/fs"
	"sort"
	"sync"
)

// MemBackend adalah Backend di memori, dipakai untuk pengujian dan untuk
// perangkat tanpa filesystem. Nilai nol belum siap dipakai; gunakan
// NewMemBackend.
type MemBackend struct {
	mu      sync.Mutex
	files   map[string]*memFile
	openErr error
	// readBudget < 0 berarti tidak dibatasi.
	readBudget int64
}

type memFile struct {
	data []byte
}

// NewMemBackend returns an empty in-memory backend.
func NewMemBackend() *MemBackend {
	return &MemBackend{files: make(map[string]*memFile), readBudget: -1}
}

// Exists reports whether the named store has been created.
func (b *MemBackend) Exists(name string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.files[name]
	return ok, nil
}

// Open returns a handle on the named store; OpenCreate replaces any existing
// contents with an empty store.
func (b *MemBackend) Open(name string, mode OpenMode, size int64) (Handle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.openErr != nil {
		return nil, b.openErr
	}
	switch mode {
	case OpenExisting:
		f, ok := b.files[name]
		if !ok {
			return nil, fmt.Errorf("open %s: %w", name, fs.ErrNotExist)
		}
		return &memHandle{b: b, f: f}, nil
	case OpenCreate:
		f := &memFile{}
		b.files[name] = f
		return &memHandle{b: b, f: f}, nil
	default:
		return nil, fmt.Errorf("unknown open mode %d", mode)
	}
}

// Remove deletes the named store.
func (b *MemBackend) Remove(name string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.files[name]; !ok {
		return fmt.Errorf("remove %s: %w", name, fs.ErrNotExist)
	}
	delete(b.files, name)
	return nil
}

// Names lists stored names in sorted order.
func (b *MemBackend) Names() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	names := make([]string, 0, len(b.files))
	for n := range b.files {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Bytes returns a copy of the named store's contents, or nil.
func (b *MemBackend) Bytes(name string) []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	f, ok := b.files[name]
	if !ok {
		return nil
	}
	out := make([]byte, len(f.data))
	copy(out, f.data)
	return out
}

// SetBytes replaces the named store's contents, creating it if needed.
func (b *MemBackend) SetBytes(name string, p []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	data := make([]byte, len(p))
	copy(data, p)
	if f, ok := b.files[name]; ok {
		f.data = data
		return
	}
	b.files[name] = &memFile{data: data}
}

// FailOpen makes every subsequent Open return err. Pass nil to clear.
func (b *MemBackend) FailOpen(err error) {
	b.mu.Lock()
	b.openErr = err
	b.mu.Unlock()
}

// FailReadsAfter lets n more bytes be read, after which every read reports
// io.EOF. A negative n removes the limit.
func (b *MemBackend) FailReadsAfter(n int64) {
	b.mu.Lock()
	b.readBudget = n
	b.mu.Unlock()
}

type memHandle struct {
	b *MemBackend
	f *memFile
}

func (h *memHandle) ReadAt(p []byte, off int64) (int, error) {
	h.b.mu.Lock()
	defer h.b.mu.Unlock()
	if off < 0 {
		return 0, fmt.Errorf("negative offset %d", off)
	}
	want := len(p)
	if h.b.readBudget >= 0 && int64(want) > h.b.readBudget {
		want = int(h.b.readBudget)
	}
	if off >= int64(len(h.f.data)) {
		return 0, io.EOF
	}
	n := copy(p[:want], h.f.data[off:])
	if h.b.readBudget >= 0 {
		h.b.readBudget -= int64(n)
	}
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (h *memHandle) WriteAt(p []byte, off int64) (int, error) {
	h.b.mu.Lock()
	defer h.b.mu.Unlock()
	if off < 0 {
		return 0, fmt.Errorf("negative offset %d", off)
	}
	end := off + int64(len(p))
	if end > int64(len(h.f.data)) {
		grown := make([]byte, end)
		copy(grown, h.f.data)
		h.f.data = grown
	}
	return copy(h.f.data[off:], p), nil
}

func (h *memHandle) Sync() error  { return nil }
func (h *memHandle) Close() error { return nil }
