package flashqueue

import (
	"errors"
	"fmt"
)

// Flush menulis ulang header dan memaksa semua data tersimpan ke media.
func (s *Store) Flush() error {
	if s.handle == nil {
		return ErrClosed
	}
	if err := s.persistHeader(); err != nil {
		return err
	}
	if err := s.handle.Sync(); err != nil {
		return fmt.Errorf("gagal sync %s: %w", s.name, err)
	}
	return nil
}

// Close menulis header terakhir lalu melepas handle. Handle dilepas tepat
// sekali; Close berikutnya tidak melakukan apa pun.
func (s *Store) Close() error {
	if s.handle == nil {
		return nil
	}
	var firstErr error
	if err := s.Flush(); err != nil {
		firstErr = err
	}
	if err := s.handle.Close(); err != nil {
		firstErr = errors.Join(firstErr, fmt.Errorf("gagal menutup %s: %w", s.name, err))
	}
	s.handle = nil
	return firstErr
}
