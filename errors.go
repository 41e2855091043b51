package flashqueue

import "errors"

// Kesalahan yang dapat dicocokkan dengan errors.Is oleh pemanggil.
var (
	// ErrStorageOpen: backing store tidak bisa dibuat/dibuka. Instance tidak
	// boleh dipakai lagi.
	ErrStorageOpen = errors.New("flashqueue: storage open failed")

	// ErrInsufficientSpace: enqueue meminta lebih banyak byte daripada FreeSpace.
	ErrInsufficientSpace = errors.New("flashqueue: insufficient space")

	// ErrInsufficientData: dequeue/peek meminta lebih banyak byte daripada Len.
	ErrInsufficientData = errors.New("flashqueue: insufficient data")

	// ErrStorageRead: storage berakhir sebelum data yang sudah ditulis terbaca.
	// Artinya header dan isi media tidak sinkron.
	ErrStorageRead = errors.New("flashqueue: storage read failed")

	// ErrStorageWrite: storage menolak atau memotong tulisan.
	ErrStorageWrite = errors.New("flashqueue: storage write failed")

	// ErrHeaderDecode: header di media tidak berisi empat integer yang valid.
	ErrHeaderDecode = errors.New("flashqueue: header decode failed")

	// ErrHeaderTooLarge: hasil encode header melebihi HeaderSize byte.
	ErrHeaderTooLarge = errors.New("flashqueue: encoded header exceeds reserved region")

	// ErrInvalidSize: ukuran total tidak valid untuk ring buffer.
	ErrInvalidSize = errors.New("flashqueue: invalid total size")

	// ErrClosed: operasi pada store yang sudah ditutup.
	ErrClosed = errors.New("flashqueue: store closed")
)
