package flashqueue

import "log/slog"

// Options menyediakan opsi konfigurasi untuk Store.
//
//   - Backend:     media penyimpanan (nil = FileBackend di direktori kerja)
//   - FillByte:    byte pengisi region data saat store dibuat
//   - PowerOfTwo:  tolak kapasitas data yang bukan pangkat dua
//   - SyncOnWrite: fsync/msync setiap kali header ditulis
//   - Logger:      sink untuk event penting (nil = dibuang)
//
// Lihat DefaultOptions() untuk nilai bawaan.
type Options struct {
	Backend     Backend      // Media penyimpanan store
	FillByte    byte         // Pengisi region data baru (default ' ')
	PowerOfTwo  bool         // Kapasitas data (total - HeaderSize) wajib pangkat dua
	SyncOnWrite bool         // Sync handle setelah setiap header ditulis
	Logger      *slog.Logger // Observer untuk open failure, ruang habis, read failure
}

// DefaultOptions mengembalikan konfigurasi default yang digunakan OpenFile.
func DefaultOptions() Options {
	return Options{
		Backend:     FileBackend{Dir: "."},
		FillByte:    ' ',
		PowerOfTwo:  true,
		SyncOnWrite: false,
	}
}

func (o Options) withDefaults() Options {
	if o.Backend == nil {
		o.Backend = FileBackend{Dir: "."}
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	return o
}
