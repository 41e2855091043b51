// Command flashq inspects and edits flashqueue store files from a host, e.g. a
// flash image pulled off a device.
//
//	flashq init  -size 4160 samples.dat
//	flashq stat  samples.dat
//	flashq push  samples.dat "t=21.5C;"
//	flashq pop   -n 8 samples.dat
//	flashq peek  -i 0 -n 4 samples.dat
package main

import (
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	flashqueue "github.com/luhtfiimanal/go-flash-queue"
)

const defaultSize = flashqueue.HeaderSize + 4096

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "flashq:", err)
		os.Exit(1)
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage: flashq <init|stat|push|pop|peek> [flags] <store>")
}

func run(args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		usage(stderr)
		return errors.New("missing command")
	}
	cmd, args := args[0], args[1:]
	switch cmd {
	case "init", "stat", "push", "pop", "peek":
	default:
		usage(stderr)
		return fmt.Errorf("unknown command %q", cmd)
	}

	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fs.SetOutput(stderr)
	size := fs.Int64("size", defaultSize, "total store size in bytes, header included")
	n := fs.Int("n", 1, "number of bytes")
	index := fs.Int64("i", 0, "peek index (0 = oldest)")
	asHex := fs.Bool("hex", false, "print bytes as hex")
	mmap := fs.Bool("mmap", false, "use the memory-mapped backend")
	verbose := fs.Bool("v", false, "debug logging to stderr")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *n < 0 {
		return fmt.Errorf("%s: -n must not be negative, got %d", cmd, *n)
	}
	if fs.NArg() < 1 {
		usage(stderr)
		return fmt.Errorf("%s: missing store path", cmd)
	}
	path := fs.Arg(0)

	opts := flashqueue.DefaultOptions()
	dir, name := filepath.Dir(path), filepath.Base(path)
	if *mmap {
		opts.Backend = flashqueue.MmapBackend{Dir: dir}
	} else {
		opts.Backend = flashqueue.FileBackend{Dir: dir}
	}
	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	opts.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	if cmd == "stat" {
		h, err := flashqueue.Inspect(opts.Backend, name)
		if err != nil {
			return err
		}
		return writeSnapshot(stdout, flashqueue.SnapshotOf(name, h))
	}

	if cmd == "init" {
		if ok, err := opts.Backend.Exists(name); err != nil {
			return err
		} else if ok {
			return fmt.Errorf("init: %s already exists", path)
		}
	}

	q, err := flashqueue.Open(name, *size, opts)
	if err != nil {
		return err
	}
	defer q.Close()

	switch cmd {
	case "init":
		return writeSnapshot(stdout, q.Snapshot())
	case "push":
		data := strings.Join(fs.Args()[1:], " ")
		if *asHex {
			b, err := hex.DecodeString(data)
			if err != nil {
				return fmt.Errorf("push: %w", err)
			}
			return q.Enqueue(b)
		}
		return q.Enqueue([]byte(data))
	case "pop":
		buf := make([]byte, *n)
		got, err := q.Dequeue(buf)
		printBytes(stdout, buf[:got], *asHex)
		return err
	case "peek":
		buf := make([]byte, *n)
		if err := q.PeekAt(buf, *index); err != nil {
			return err
		}
		printBytes(stdout, buf, *asHex)
	}
	return nil
}

func printBytes(w io.Writer, b []byte, asHex bool) {
	if len(b) == 0 {
		return
	}
	if asHex {
		fmt.Fprintln(w, hex.EncodeToString(b))
		return
	}
	fmt.Fprintf(w, "%s\n", b)
}

func writeSnapshot(w io.Writer, sn flashqueue.Snapshot) error {
	b, err := flashqueue.EncodeSnapshot(sn)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", b)
	return err
}
