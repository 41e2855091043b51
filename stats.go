package flashqueue

import "sync/atomic"

// Stats menyimpan penghitung aktivitas store sejak dibuka atau sejak
// ResetStats.
type Stats struct {
	BytesEnqueued uint64 `json:"bytes_enqueued"`
	BytesDequeued uint64 `json:"bytes_dequeued"`
	Rejected      uint64 `json:"rejected"`   // enqueue ditolak, ruang tidak cukup
	Underflows    uint64 `json:"underflows"` // dequeue/peek ditolak, data tidak cukup
	HeaderWrites  uint64 `json:"header_writes"`
	ReadFailures  uint64 `json:"read_failures"`
}

// GetStats mengambil snapshot statistik.
func (s *Store) GetStats() Stats {
	return Stats{
		BytesEnqueued: atomic.LoadUint64(&s.statEnqueued),
		BytesDequeued: atomic.LoadUint64(&s.statDequeued),
		Rejected:      atomic.LoadUint64(&s.statRejected),
		Underflows:    atomic.LoadUint64(&s.statUnderflow),
		HeaderWrites:  atomic.LoadUint64(&s.statHeaderWrites),
		ReadFailures:  atomic.LoadUint64(&s.statReadFailures),
	}
}

// ResetStats mengatur ulang semua penghitung.
func (s *Store) ResetStats() {
	atomic.StoreUint64(&s.statEnqueued, 0)
	atomic.StoreUint64(&s.statDequeued, 0)
	atomic.StoreUint64(&s.statRejected, 0)
	atomic.StoreUint64(&s.statUnderflow, 0)
	atomic.StoreUint64(&s.statHeaderWrites, 0)
	atomic.StoreUint64(&s.statReadFailures, 0)
}
