package flashqueue

import (
	"fmt"

	"github.com/sugawarayuuta/sonnet"
)

// Snapshot captures the observable state of a store, for dumps and tooling.
type Snapshot struct {
	Name      string `json:"name"`
	Head      int64  `json:"head"`
	Tail      int64  `json:"tail"`
	TotalSize int64  `json:"total_size"`
	FreeSpace int64  `json:"free_space"`
	Items     int64  `json:"items"`
	Capacity  int64  `json:"capacity"`
	Empty     bool   `json:"empty"`
	Full      bool   `json:"full"`
	Stats     *Stats `json:"stats,omitempty"`
}

// SnapshotOf builds a snapshot from a header alone (no stats).
func SnapshotOf(name string, h Header) Snapshot {
	return Snapshot{
		Name:      name,
		Head:      h.Head,
		Tail:      h.Tail,
		TotalSize: h.TotalSize,
		FreeSpace: h.Free,
		Items:     h.NumItems(),
		Capacity:  h.Capacity(),
		Empty:     h.NumItems() == 0,
		Full:      h.Free == 0,
	}
}

// Snapshot returns the current state together with the counters.
func (s *Store) Snapshot() Snapshot {
	snap := SnapshotOf(s.name, s.hdr)
	st := s.GetStats()
	snap.Stats = &st
	return snap
}

// Header reconstructs the control fields recorded in the snapshot.
func (sn Snapshot) Header() Header {
	return Header{Head: sn.Head, Tail: sn.Tail, TotalSize: sn.TotalSize, Free: sn.FreeSpace}
}

// EncodeSnapshot encodes sn as JSON.
func EncodeSnapshot(sn Snapshot) ([]byte, error) {
	b, err := sonnet.Marshal(sn)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return b, nil
}

// DecodeSnapshot parses JSON produced by EncodeSnapshot and checks that the
// recorded header is consistent.
func DecodeSnapshot(b []byte) (Snapshot, error) {
	var sn Snapshot
	if err := sonnet.Unmarshal(b, &sn); err != nil {
		return Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	if err := sn.Header().Validate(); err != nil {
		return Snapshot{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return sn, nil
}
