package flashqueue

import (
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
)

// Enqueue menambahkan p ke ujung antrean. Bila len(p) > FreeSpace, Enqueue
// mengembalikan ErrInsufficientSpace tanpa mengubah state. Penulisan yang
// melewati akhir region data dibagi dua segmen: sisa run sampai TotalSize,
// lalu lanjutan mulai HeaderSize.
//
// Header ditulis ulang sebelum Enqueue kembali. Kedua segmen tidak atomik;
// crash sebelum header ditulis membuat byte baru hilang, isi lama tetap utuh.
func (s *Store) Enqueue(p []byte) error {
	if s.handle == nil {
		return ErrClosed
	}
	n := int64(len(p))
	if n > s.hdr.Free {
		atomic.AddUint64(&s.statRejected, 1)
		s.log.Warn("no space left to write",
			slog.Int64("requested", n), slog.Int64("free", s.hdr.Free))
		return fmt.Errorf("%w: requested %d, free %d", ErrInsufficientSpace, n, s.hdr.Free)
	}
	if n == 0 {
		return nil
	}

	head := s.hdr.Head
	run := s.hdr.TotalSize - head
	if run >= n {
		if err := s.writeSegment(p, head); err != nil {
			return err
		}
		head += n
	} else {
		if err := s.writeSegment(p[:run], head); err != nil {
			return err
		}
		if err := s.writeSegment(p[run:], HeaderSize); err != nil {
			return err
		}
		head = HeaderSize + (n - run)
	}
	// head tidak pernah sama dengan TotalSize
	if head == s.hdr.TotalSize {
		head = HeaderSize
	}

	s.hdr.Head = head
	s.hdr.Free -= n
	atomic.AddUint64(&s.statEnqueued, uint64(n))
	return s.persistHeader()
}

// EnqueueByte menambahkan satu byte.
func (s *Store) EnqueueByte(b byte) error {
	return s.Enqueue([]byte{b})
}

func (s *Store) writeSegment(p []byte, off int64) error {
	if _, err := s.handle.WriteAt(p, off); err != nil {
		return fmt.Errorf("%w: %d bytes at %d: %w", ErrStorageWrite, len(p), off, err)
	}
	return nil
}

// Dequeue mengambil len(p) byte tertua ke p dan mengembalikan jumlah byte yang
// dikonsumsi. Bila len(p) > Len, Dequeue mengembalikan ErrInsufficientData
// tanpa mengubah state.
//
// Bila storage berakhir di tengah pembacaan, byte yang sudah terbaca tetap
// dikonsumsi (header ditulis untuk prefix itu) dan error membungkus
// ErrStorageRead.
func (s *Store) Dequeue(p []byte) (int, error) {
	if s.handle == nil {
		return 0, ErrClosed
	}
	n := int64(len(p))
	if n > s.hdr.NumItems() {
		atomic.AddUint64(&s.statUnderflow, 1)
		s.log.Debug("cannot read amount of data requested",
			slog.Int64("requested", n), slog.Int64("items", s.hdr.NumItems()))
		return 0, fmt.Errorf("%w: requested %d, have %d", ErrInsufficientData, n, s.hdr.NumItems())
	}
	if n == 0 {
		return 0, nil
	}

	var done int64
	for done < n {
		tail := s.hdr.Tail
		seg := min(n-done, s.hdr.TotalSize-tail)
		got, err := s.handle.ReadAt(p[done:done+seg], tail)
		s.advanceTail(int64(got))
		done += int64(got)
		if int64(got) < seg {
			atomic.AddUint64(&s.statReadFailures, 1)
			s.log.Warn("internal error: read ended before queued data",
				slog.Int64("offset", tail+int64(got)), slog.Int64("consumed", done), slog.Any("err", err))
			readErr := fmt.Errorf("%w: offset %d: %v", ErrStorageRead, tail+int64(got), err)
			if done > 0 {
				if perr := s.persistHeader(); perr != nil {
					return int(done), errors.Join(readErr, perr)
				}
			}
			return int(done), readErr
		}
	}
	return int(done), s.persistHeader()
}

// DequeueByte mengambil satu byte tertua.
func (s *Store) DequeueByte() (byte, error) {
	var b [1]byte
	if _, err := s.Dequeue(b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

func (s *Store) advanceTail(k int64) {
	if k == 0 {
		return
	}
	s.hdr.Tail += k
	if s.hdr.Tail == s.hdr.TotalSize {
		s.hdr.Tail = HeaderSize
	}
	s.hdr.Free += k
	atomic.AddUint64(&s.statDequeued, uint64(k))
}

// Peek mengembalikan byte ke-index (0 = tertua) tanpa mengonsumsinya.
func (s *Store) Peek(index int64) (byte, error) {
	var b [1]byte
	if err := s.PeekAt(b[:], index); err != nil {
		return 0, err
	}
	return b[0], nil
}

// PeekAt mengisi p dengan len(p) byte mulai dari byte ke-index tanpa mengubah
// head, tail, maupun ruang kosong.
func (s *Store) PeekAt(p []byte, index int64) error {
	if s.handle == nil {
		return ErrClosed
	}
	n := int64(len(p))
	items := s.hdr.NumItems()
	if index < 0 || index >= items || n > items-index {
		atomic.AddUint64(&s.statUnderflow, 1)
		return fmt.Errorf("%w: index %d+%d, have %d", ErrInsufficientData, index, n, s.hdr.NumItems())
	}

	capacity := s.hdr.Capacity()
	var done int64
	for done < n {
		off := HeaderSize + (s.hdr.Tail-HeaderSize+index+done)%capacity
		seg := min(n-done, s.hdr.TotalSize-off)
		got, err := s.handle.ReadAt(p[done:done+seg], off)
		done += int64(got)
		if int64(got) < seg {
			atomic.AddUint64(&s.statReadFailures, 1)
			s.log.Warn("internal error: peek ended before queued data",
				slog.Int64("offset", off+int64(got)), slog.Any("err", err))
			return fmt.Errorf("%w: offset %d: %v", ErrStorageRead, off+int64(got), err)
		}
	}
	return nil
}
