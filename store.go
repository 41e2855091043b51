package flashqueue

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
)

// Store adalah antrean FIFO byte berkapasitas tetap di atas satu objek
// block-storage. Header (head, tail, ukuran total, ruang kosong) disimpan di
// HeaderSize byte pertama dan ditulis ulang setelah setiap operasi yang
// mengubah state, sehingga isi antrean bertahan setelah restart.
//
// Store tidak aman untuk goroutine; pemanggil harus menyerialkan akses.
type Store struct {
	name    string
	handle  Handle // nil setelah Close
	hdr     Header // cermin header di media
	options Options
	log     *slog.Logger

	statEnqueued     uint64 // byte yang berhasil di-enqueue
	statDequeued     uint64 // byte yang berhasil di-dequeue
	statRejected     uint64 // enqueue ditolak karena ruang tidak cukup
	statUnderflow    uint64 // dequeue/peek ditolak karena data tidak cukup
	statHeaderWrites uint64 // jumlah header yang ditulis ke media
	statReadFailures uint64 // pembacaan yang berakhir lebih awal
}

// OpenFile membuka (atau membuat) store berupa file di path dengan opsi
// default (lihat DefaultOptions).
func OpenFile(path string, totalSize int64) (*Store, error) {
	opts := DefaultOptions()
	opts.Backend = FileBackend{Dir: filepath.Dir(path)}
	return Open(filepath.Base(path), totalSize, opts)
}

// Open membuka store bernama name pada opts.Backend. Bila store sudah ada,
// header di media dibaca dan dipakai (ukuran di header menang atas totalSize).
// Bila belum ada, store dibuat, region data diisi opts.FillByte, dan header
// awal ditulis.
//
// Semua error pembukaan membungkus ErrStorageOpen.
func Open(name string, totalSize int64, opts Options) (*Store, error) {
	opts = opts.withDefaults()
	if err := validateSize(totalSize, opts.PowerOfTwo); err != nil {
		return nil, err
	}

	s := &Store{
		name:    name,
		options: opts,
		log:     opts.Logger.With(slog.String("store", name)),
	}

	exists, err := opts.Backend.Exists(name)
	if err != nil {
		s.log.Error("storage lookup failed", slog.Any("err", err))
		return nil, fmt.Errorf("%w: %s: %w", ErrStorageOpen, name, err)
	}

	if exists {
		err = s.recover(totalSize)
	} else {
		err = s.create(totalSize)
	}
	if err != nil {
		s.log.Error("storage open failed", slog.Bool("existing", exists), slog.Any("err", err))
		return nil, err
	}
	return s, nil
}

func validateSize(totalSize int64, powerOfTwo bool) error {
	if totalSize <= HeaderSize {
		return fmt.Errorf("%w: %d must exceed header size %d", ErrInvalidSize, totalSize, HeaderSize)
	}
	capacity := totalSize - HeaderSize
	if powerOfTwo && capacity&(capacity-1) != 0 {
		return fmt.Errorf("%w: data region %d is not a power of two", ErrInvalidSize, capacity)
	}
	return nil
}

// create membuat store baru. Handle yang sudah terbuka selalu ditutup bila
// langkah berikutnya gagal.
func (s *Store) create(totalSize int64) error {
	h, err := s.options.Backend.Open(s.name, OpenCreate, totalSize)
	if err != nil {
		return fmt.Errorf("%w: create %s: %w", ErrStorageOpen, s.name, err)
	}

	// header ditulis lebih dulu agar media yang sudah dialokasikan penuh
	// (mmap, partisi flash) tetap bisa dipulihkan bila pengisian terputus
	s.handle = h
	s.hdr = initialHeader(totalSize)
	if err := s.persistHeader(); err != nil {
		h.Close()
		s.handle = nil
		return fmt.Errorf("%w: %w", ErrStorageOpen, err)
	}

	// reserve file
	buf := fillBuf(s.options.FillByte, totalSize-HeaderSize)
	for off := int64(HeaderSize); off < totalSize; off += int64(len(buf)) {
		chunk := buf
		if rem := totalSize - off; rem < int64(len(chunk)) {
			chunk = chunk[:rem]
		}
		if _, err := h.WriteAt(chunk, off); err != nil {
			h.Close()
			s.handle = nil
			return fmt.Errorf("%w: fill %s at %d: %w", ErrStorageOpen, s.name, off, err)
		}
	}

	if err := h.Sync(); err != nil {
		h.Close()
		s.handle = nil
		return fmt.Errorf("%w: sync %s: %w", ErrStorageOpen, s.name, err)
	}
	s.log.Debug("store initialized", slog.Int64("total_size", totalSize))
	return nil
}

// recover membuka store yang sudah ada dan memuat header dari media.
func (s *Store) recover(requested int64) error {
	h, err := s.options.Backend.Open(s.name, OpenExisting, 0)
	if err != nil {
		return fmt.Errorf("%w: open %s: %w", ErrStorageOpen, s.name, err)
	}

	hdr, err := readHeader(h)
	if err != nil {
		h.Close()
		return fmt.Errorf("%w: %s: %w", ErrStorageOpen, s.name, err)
	}

	// byte terakhir harus ada; store yang terpotong tidak bisa dipakai ulang
	var last [1]byte
	if n, err := h.ReadAt(last[:], hdr.TotalSize-1); n != 1 {
		h.Close()
		return fmt.Errorf("%w: %s shorter than header total size %d: %v", ErrStorageOpen, s.name, hdr.TotalSize, err)
	}

	if hdr.TotalSize != requested {
		s.log.Warn("requested size differs from persisted header, using persisted",
			slog.Int64("requested", requested), slog.Int64("persisted", hdr.TotalSize))
	}

	s.handle = h
	s.hdr = hdr
	s.log.Debug("store recovered",
		slog.Int64("head", hdr.Head), slog.Int64("tail", hdr.Tail),
		slog.Int64("items", hdr.NumItems()))
	return nil
}

// Inspect membaca header store tanpa membuka store untuk ditulis.
func Inspect(backend Backend, name string) (Header, error) {
	h, err := backend.Open(name, OpenExisting, 0)
	if err != nil {
		return Header{}, fmt.Errorf("%w: open %s: %w", ErrStorageOpen, name, err)
	}
	defer h.Close()
	return readHeader(h)
}

func readHeader(h Handle) (Header, error) {
	buf := getHeaderBuf()
	defer putHeaderBuf(buf)

	n, err := h.ReadAt(buf, 0)
	if err != nil && !errors.Is(err, io.EOF) {
		return Header{}, fmt.Errorf("read header: %w", err)
	}
	return DecodeHeader(buf[:n])
}

// Name returns the store name given to Open.
func (s *Store) Name() string { return s.name }
