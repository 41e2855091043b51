package flashqueue

import "io"

// OpenMode memilih cara Backend membuka sebuah store.
type OpenMode int

const (
	// OpenExisting membuka store yang sudah ada untuk baca-tulis.
	OpenExisting OpenMode = iota
	// OpenCreate membuat store baru (atau memotong yang lama) berukuran size.
	OpenCreate
)

func (m OpenMode) String() string {
	switch m {
	case OpenExisting:
		return "existing"
	case OpenCreate:
		return "create"
	default:
		return "unknown"
	}
}

// Handle adalah objek block-storage yang bisa di-seek: baca/tulis posisional,
// sync, dan close. Store memiliki handle secara eksklusif.
type Handle interface {
	io.ReaderAt
	io.WriterAt
	Sync() error
	Close() error
}

// Backend menyediakan store bernama di atas suatu media (file, mmap, memori).
//
// Untuk OpenExisting, size diabaikan; Handle memakai ukuran yang sudah ada.
type Backend interface {
	Exists(name string) (bool, error)
	Open(name string, mode OpenMode, size int64) (Handle, error)
}
