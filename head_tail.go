package flashqueue

import (
	"fmt"
	"sync/atomic"
)

// persistHeader menulis ulang header penuh di offset 0. Ini adalah titik
// durabilitas: data yang ditulis setelah header terakhir yang berhasil
// dianggap hilang saat recovery.
func (s *Store) persistHeader() error {
	buf := getHeaderBuf()
	defer putHeaderBuf(buf)

	if err := encodeHeaderInto(buf, s.hdr, s.options.FillByte); err != nil {
		return err
	}
	if _, err := s.handle.WriteAt(buf, 0); err != nil {
		return fmt.Errorf("%w: header: %w", ErrStorageWrite, err)
	}
	atomic.AddUint64(&s.statHeaderWrites, 1)
	if s.options.SyncOnWrite {
		if err := s.handle.Sync(); err != nil {
			return fmt.Errorf("%w: sync: %w", ErrStorageWrite, err)
		}
	}
	return nil
}

// Head returns the absolute offset of the next write.
func (s *Store) Head() int64 { return s.hdr.Head }

// Tail returns the absolute offset of the next read.
func (s *Store) Tail() int64 { return s.hdr.Tail }

// Header returns a copy of the in-memory header.
func (s *Store) Header() Header { return s.hdr }

// IsEmpty reports whether no bytes are queued. Ruang kosong adalah sumber
// kebenaran: head == tail juga terjadi saat penuh.
func (s *Store) IsEmpty() bool { return s.hdr.NumItems() == 0 }

// IsFull reports whether FreeSpace is zero.
func (s *Store) IsFull() bool { return s.hdr.Free == 0 }

// Len returns the number of queued bytes.
func (s *Store) Len() int64 { return s.hdr.NumItems() }

// FreeSpace returns the number of bytes that can still be enqueued.
func (s *Store) FreeSpace() int64 { return s.hdr.Free }

// Capacity returns the size of the data region.
func (s *Store) Capacity() int64 { return s.hdr.Capacity() }

// TotalSize returns the store size including the header region.
func (s *Store) TotalSize() int64 { return s.hdr.TotalSize }
