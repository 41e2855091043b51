package flashqueue

import (
	"bytes"
	"errors"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// helper to create a store on an in-memory backend with deterministic options
func newTestStore(t *testing.T, totalSize int64) (*Store, *MemBackend) {
	t.Helper()
	mem := NewMemBackend()
	s, err := Open("queue.dat", totalSize, memOptions(mem))
	require.NoError(t, err, "failed to create store")
	t.Cleanup(func() { s.Close() })
	return s, mem
}

func memOptions(mem *MemBackend) Options {
	opts := DefaultOptions()
	opts.Backend = mem
	return opts
}

func TestCreateInitializesHeaderAndFill(t *testing.T) {
	s, mem := newTestStore(t, 192)

	assert.Equal(t, int64(HeaderSize), s.Head())
	assert.Equal(t, int64(HeaderSize), s.Tail())
	assert.Equal(t, int64(192), s.TotalSize())
	assert.Equal(t, int64(128), s.FreeSpace())
	assert.Equal(t, int64(0), s.Len())
	assert.True(t, s.IsEmpty())
	assert.False(t, s.IsFull())

	raw := mem.Bytes("queue.dat")
	require.Len(t, raw, 192)
	assert.True(t, bytes.HasPrefix(raw, []byte("64|64|192|128|\r\n")), "header: %q", raw[:HeaderSize])
	assert.Equal(t, bytes.Repeat([]byte{' '}, 128), raw[HeaderSize:])
}

func TestCreateRejectsInvalidSize(t *testing.T) {
	mem := NewMemBackend()
	for _, size := range []int64{-1, 0, 32, HeaderSize} {
		_, err := Open("small", size, memOptions(mem))
		assert.ErrorIs(t, err, ErrInvalidSize, "size %d", size)
	}
	ok, _ := mem.Exists("small")
	assert.False(t, ok, "invalid size must not create a store")

	_, err := Open("odd", HeaderSize+100, memOptions(mem))
	assert.ErrorIs(t, err, ErrInvalidSize)

	opts := memOptions(mem)
	opts.PowerOfTwo = false
	s, err := Open("odd", HeaderSize+100, opts)
	require.NoError(t, err)
	defer s.Close()
	assert.Equal(t, int64(100), s.Capacity())
}

func TestOpenFailureWrapsStorageOpen(t *testing.T) {
	mem := NewMemBackend()
	mem.FailOpen(errors.New("flash not mounted"))

	s, err := Open("queue.dat", 192, memOptions(mem))
	assert.Nil(t, s)
	assert.ErrorIs(t, err, ErrStorageOpen)
	assert.ErrorContains(t, err, "flash not mounted")
}

func TestRecoverCorruptHeader(t *testing.T) {
	mem := NewMemBackend()
	mem.SetBytes("queue.dat", bytes.Repeat([]byte{'x'}, 192))

	cb := &closeCountingBackend{Backend: mem}
	opts := memOptions(mem)
	opts.Backend = cb
	_, err := Open("queue.dat", 192, opts)
	assert.ErrorIs(t, err, ErrStorageOpen)
	assert.ErrorIs(t, err, ErrHeaderDecode)
	assert.Equal(t, 1, cb.opened)
	assert.Equal(t, 1, cb.closed, "opened handle must be released on failure")
}

func TestRecoverTruncatedStore(t *testing.T) {
	mem := NewMemBackend()
	hdr, err := EncodeHeader(initialHeader(192), ' ')
	require.NoError(t, err)
	mem.SetBytes("queue.dat", hdr) // data region missing

	_, err = Open("queue.dat", 192, memOptions(mem))
	assert.ErrorIs(t, err, ErrStorageOpen)
}

func TestPersistenceRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "queue.dat")
	payload := []byte("sensor-sample-0001|sensor-sample-0002")

	s, err := OpenFile(path, HeaderSize+256)
	require.NoError(t, err)
	require.NoError(t, s.Enqueue(payload))
	require.NoError(t, s.Close())

	reopened, err := OpenFile(path, HeaderSize+256)
	require.NoError(t, err)
	defer reopened.Close()

	assert.Equal(t, int64(len(payload)), reopened.Len())
	got := make([]byte, len(payload))
	n, err := reopened.Dequeue(got)
	require.NoError(t, err)
	assert.Equal(t, len(payload), n)
	assert.Equal(t, payload, got)
	assert.True(t, reopened.IsEmpty())
}

func TestPersistenceAcrossWrap(t *testing.T) {
	mem := NewMemBackend()
	s, err := Open("queue.dat", 192, memOptions(mem))
	require.NoError(t, err)

	first := bytes.Repeat([]byte{'a'}, 100)
	require.NoError(t, s.Enqueue(first))
	_, err = s.Dequeue(make([]byte, 90))
	require.NoError(t, err)
	second := []byte("0123456789abcdefghijklmnopqrstuvwxyz")
	require.NoError(t, s.Enqueue(second))
	require.NoError(t, s.Close())

	reopened, err := Open("queue.dat", 192, memOptions(mem))
	require.NoError(t, err)
	defer reopened.Close()

	want := append(bytes.Repeat([]byte{'a'}, 10), second...)
	got := make([]byte, len(want))
	_, err = reopened.Dequeue(got)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestRecoveredHeaderWinsOverRequestedSize(t *testing.T) {
	mem := NewMemBackend()
	s, err := Open("queue.dat", 192, memOptions(mem))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	reopened, err := Open("queue.dat", HeaderSize+1024, memOptions(mem))
	require.NoError(t, err)
	defer reopened.Close()
	assert.Equal(t, int64(192), reopened.TotalSize())
}

func TestCloseIsIdempotent(t *testing.T) {
	cb := &closeCountingBackend{Backend: NewMemBackend()}
	opts := DefaultOptions()
	opts.Backend = cb
	s, err := Open("queue.dat", 192, opts)
	require.NoError(t, err)

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
	assert.Equal(t, 1, cb.closed)

	assert.ErrorIs(t, s.Enqueue([]byte("x")), ErrClosed)
	_, err = s.Dequeue(make([]byte, 1))
	assert.ErrorIs(t, err, ErrClosed)
	_, err = s.Peek(0)
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, s.Flush(), ErrClosed)
}

func TestInspect(t *testing.T) {
	s, mem := newTestStore(t, 192)
	require.NoError(t, s.Enqueue([]byte("hello")))

	h, err := Inspect(mem, "queue.dat")
	require.NoError(t, err)
	assert.Equal(t, s.Header(), h)

	_, err = Inspect(mem, "missing.dat")
	assert.ErrorIs(t, err, ErrStorageOpen)
}

type closeCountingBackend struct {
	Backend
	opened int
	closed int
}

func (b *closeCountingBackend) Open(name string, mode OpenMode, size int64) (Handle, error) {
	h, err := b.Backend.Open(name, mode, size)
	if err != nil {
		return nil, err
	}
	b.opened++
	return &closeCountingHandle{Handle: h, b: b}, nil
}

type closeCountingHandle struct {
	Handle
	b *closeCountingBackend
}

func (h *closeCountingHandle) Close() error {
	h.b.closed++
	return h.Handle.Close()
}

func TestLoggerReceivesEvents(t *testing.T) {
	var logBuf bytes.Buffer
	mem := NewMemBackend()
	opts := memOptions(mem)
	opts.Logger = slog.New(slog.NewTextHandler(&logBuf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	s, err := Open("queue.dat", 192, opts)
	require.NoError(t, err)
	defer s.Close()
	assert.Contains(t, logBuf.String(), "store initialized")

	assert.ErrorIs(t, s.Enqueue(make([]byte, 129)), ErrInsufficientSpace)
	assert.Contains(t, logBuf.String(), "no space left to write")
	assert.Contains(t, logBuf.String(), "store=queue.dat")

	mem.FailOpen(errors.New("boom"))
	_, err = Open("other.dat", 192, opts)
	require.Error(t, err)
	assert.Contains(t, logBuf.String(), "storage open failed")
}

func TestCreateWritesHeaderBeforeFill(t *testing.T) {
	mem := NewMemBackend()
	opts := memOptions(mem)
	opts.Backend = &fillFailingBackend{Backend: mem}

	_, err := Open("queue.dat", 192, opts)
	assert.ErrorIs(t, err, ErrStorageOpen)

	h, err := Inspect(mem, "queue.dat")
	require.NoError(t, err, "header must already be on media when the fill is cut short")
	assert.Equal(t, initialHeader(192), h)
}

// fillFailingBackend hands out handles that refuse writes past the header.
type fillFailingBackend struct {
	Backend
}

func (b *fillFailingBackend) Open(name string, mode OpenMode, size int64) (Handle, error) {
	h, err := b.Backend.Open(name, mode, size)
	if err != nil {
		return nil, err
	}
	return fillFailingHandle{h}, nil
}

type fillFailingHandle struct {
	Handle
}

func (h fillFailingHandle) WriteAt(p []byte, off int64) (int, error) {
	if off >= HeaderSize {
		return 0, errors.New("flash write error")
	}
	return h.Handle.WriteAt(p, off)
}
