// Package flashqueue provides a persistent, fixed-capacity FIFO byte queue
// (ring buffer) backed by a single fixed-length block-storage object such as a
// flash file. A 64-byte ASCII header at offset 0 records head, tail, total
// size, and free space so the queue survives power cycles.
//
// The library is organised into several files for clarity:
//
//	options.go     – configuration struct & defaults
//	errors.go      – sentinel errors
//	header.go      – header codec (encode/decode/validate)
//	storage.go     – Backend & Handle contracts
//	file.go        – plain file backend
//	mmap.go        – memory-mapped file backend
//	mem.go         – in-memory backend with fault injection
//	store.go       – constructors, create & recovery
//	buffer.go      – pooled header buffers & fill helpers
//	io.go          – enqueue/dequeue/peek with wraparound
//	head_tail.go   – header persistence & O(1) queries
//	stats.go       – lightweight stats accessors
//	snapshot.go    – JSON state dumps
//	flush_close.go – flush & close helpers
//
// Durability is at-least-once relative to the last header write: bytes
// written by an Enqueue that crashed before its header write are lost on the
// next Open, older content is kept.
//
// A new store writes its header before filling the data region. On a plain
// file the region grows during the fill, so a power loss in that window leaves
// a file shorter than its header's total size; Open rejects it with
// ErrStorageOpen and the file must be removed before the store is recreated.
package flashqueue
