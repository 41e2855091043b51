package flashqueue

import (
	"bytes"
	"fmt"
	"strconv"
)

// header layout: ASCII text in bytes [0, HeaderSize)
//
//	<head>|<tail>|<total>|<free>|\r\n<fill...>
//
// The record is padded with the fill byte up to HeaderSize.

// HeaderSize is the reserved prefix of every store, regardless of how many
// bytes the encoded record actually uses.
const HeaderSize = 64

const (
	headerDelim      = '|'
	headerFieldCount = 4
)

// Header mirrors the control fields persisted at offset 0.
type Header struct {
	Head      int64 // absolute offset of the next write
	Tail      int64 // absolute offset of the next read
	TotalSize int64 // store size in bytes, header region included
	Free      int64 // bytes writable before the ring is full
}

func initialHeader(totalSize int64) Header {
	return Header{
		Head:      HeaderSize,
		Tail:      HeaderSize,
		TotalSize: totalSize,
		Free:      totalSize - HeaderSize,
	}
}

// Capacity returns the size of the data region.
func (h Header) Capacity() int64 { return h.TotalSize - HeaderSize }

// NumItems returns the number of queued bytes.
func (h Header) NumItems() int64 { return h.TotalSize - h.Free - HeaderSize }

// Validate checks the data-model invariants.
func (h Header) Validate() error {
	if h.TotalSize <= HeaderSize {
		return fmt.Errorf("total size %d must exceed header size %d", h.TotalSize, HeaderSize)
	}
	if h.Head < HeaderSize || h.Head >= h.TotalSize {
		return fmt.Errorf("head %d out of range [%d, %d)", h.Head, HeaderSize, h.TotalSize)
	}
	if h.Tail < HeaderSize || h.Tail >= h.TotalSize {
		return fmt.Errorf("tail %d out of range [%d, %d)", h.Tail, HeaderSize, h.TotalSize)
	}
	if h.Free < 0 || h.Free > h.Capacity() {
		return fmt.Errorf("free space %d out of range [0, %d]", h.Free, h.Capacity())
	}
	// head-tail distance must agree with the item count
	used := (h.Head - h.Tail + h.Capacity()) % h.Capacity()
	if n := h.NumItems(); n != used && !(used == 0 && n == h.Capacity()) {
		return fmt.Errorf("item count %d disagrees with head/tail distance %d", n, used)
	}
	return nil
}

// appendHeader menulis record header ke dst tanpa padding.
func appendHeader(dst []byte, h Header) []byte {
	for _, v := range [headerFieldCount]int64{h.Head, h.Tail, h.TotalSize, h.Free} {
		dst = strconv.AppendInt(dst, v, 10)
		dst = append(dst, headerDelim)
	}
	return append(dst, '\r', '\n')
}

// EncodeHeader returns exactly HeaderSize bytes: the text record followed by
// fill bytes.
func EncodeHeader(h Header, fill byte) ([]byte, error) {
	buf := make([]byte, HeaderSize)
	if err := encodeHeaderInto(buf, h, fill); err != nil {
		return nil, err
	}
	return buf, nil
}

func encodeHeaderInto(buf []byte, h Header, fill byte) error {
	rec := appendHeader(buf[:0], h)
	if len(rec) > HeaderSize {
		return fmt.Errorf("%w: %d bytes", ErrHeaderTooLarge, len(rec))
	}
	buf = buf[:HeaderSize]
	for i := len(rec); i < HeaderSize; i++ {
		buf[i] = fill
	}
	return nil
}

// DecodeHeader parses a record produced by EncodeHeader. Only the four
// delimited fields are significant; whatever follows them is ignored.
func DecodeHeader(b []byte) (Header, error) {
	if len(b) > HeaderSize {
		b = b[:HeaderSize]
	}
	var fields [headerFieldCount]int64
	rest := b
	for i := range fields {
		end := bytes.IndexByte(rest, headerDelim)
		if end < 0 {
			return Header{}, fmt.Errorf("%w: missing field %d", ErrHeaderDecode, i)
		}
		v, err := strconv.ParseInt(string(rest[:end]), 10, 64)
		if err != nil {
			return Header{}, fmt.Errorf("%w: field %d: %v", ErrHeaderDecode, i, err)
		}
		fields[i] = v
		rest = rest[end+1:]
	}
	h := Header{Head: fields[0], Tail: fields[1], TotalSize: fields[2], Free: fields[3]}
	if err := h.Validate(); err != nil {
		return Header{}, fmt.Errorf("%w: %v", ErrHeaderDecode, err)
	}
	return h, nil
}
