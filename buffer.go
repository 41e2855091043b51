package flashqueue

import "sync"

// headerPool menyimpan buffer HeaderSize byte agar setiap enqueue/dequeue tidak
// mengalokasikan buffer header baru.
var headerPool = sync.Pool{New: func() any { return make([]byte, HeaderSize) }}

// fillChunk adalah ukuran potongan saat mengisi region data baru.
const fillChunk = 4096

func getHeaderBuf() []byte {
	return headerPool.Get().([]byte)
}

// putHeaderBuf hanya mengembalikan buffer dengan ukuran tepat ke pool untuk
// menghindari fragmentasi.
func putHeaderBuf(buf []byte) {
	if cap(buf) == HeaderSize {
		headerPool.Put(buf[:HeaderSize])
	}
}

// fillBuf mengembalikan buffer berisi byte pengisi, maksimal fillChunk byte.
func fillBuf(fill byte, n int64) []byte {
	if n > fillChunk {
		n = fillChunk
	}
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = fill
	}
	return buf
}
