package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/discochess/tinypress/internal/store"
	"github.com/discochess/tinypress/internal/store/diskstore"
	"github.com/discochess/tinypress/internal/store/gcsstore"
	"github.com/discochess/tinypress/internal/store/s3store"
)

// stdio is the location name for stdin or stdout.
const stdio = "-"

// location is a parsed input or output argument.
type location struct {
	scheme string // "", "s3" or "gs"
	bucket string
	key    string // object key, or local path when scheme is ""
}

// parseLocation parses "-", "s3://bucket/key", "gs://bucket/key" or a
// local path.
func parseLocation(arg string) (location, error) {
	for _, scheme := range []string{"s3", "gs"} {
		rest, ok := strings.CutPrefix(arg, scheme+"://")
		if !ok {
			continue
		}
		bucket, key, _ := strings.Cut(rest, "/")
		if bucket == "" {
			return location{}, fmt.Errorf("invalid %s path %q: missing bucket name", scheme, arg)
		}
		if key == "" || strings.HasSuffix(key, "/") {
			return location{}, fmt.Errorf("invalid %s path %q: missing object name", scheme, arg)
		}
		return location{scheme: scheme, bucket: bucket, key: key}, nil
	}
	if arg == "" {
		return location{}, fmt.Errorf("empty path")
	}
	return location{key: arg}, nil
}

func (l location) String() string {
	if l.scheme == "" {
		return l.key
	}
	return l.scheme + "://" + l.bucket + "/" + l.key
}

// openStore returns the store holding l and the name of l within it.
func openStore(ctx context.Context, l location) (store.Store, string, error) {
	switch l.scheme {
	case "s3":
		s, err := s3store.New(ctx, l.bucket)
		return s, l.key, err
	case "gs":
		s, err := gcsstore.New(ctx, l.bucket)
		return s, l.key, err
	}

	abs, err := filepath.Abs(l.key)
	if err != nil {
		return nil, "", fmt.Errorf("resolving %s: %w", l.key, err)
	}
	s, err := diskstore.New(filepath.Dir(abs))
	return s, abs, err
}

// openInput opens arg for reading.
func openInput(ctx context.Context, arg string) (io.ReadCloser, error) {
	if arg == stdio {
		return io.NopCloser(os.Stdin), nil
	}
	loc, err := parseLocation(arg)
	if err != nil {
		return nil, err
	}
	s, name, err := openStore(ctx, loc)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", loc, err)
	}
	r, err := s.Open(ctx, name)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("opening input: %w", err)
	}
	return &storeReader{ReadCloser: r, store: s}, nil
}

type storeReader struct {
	io.ReadCloser
	store store.Store
}

func (r *storeReader) Close() error {
	err := r.ReadCloser.Close()
	if cerr := r.store.Close(); err == nil {
		err = cerr
	}
	return err
}

// output is a destination that can be discarded if the command fails.
type output struct {
	io.WriteCloser
	discard func()
}

// createOutput creates arg for writing. Calling discard after a failure
// closes the output and removes what was written, except for stdout.
func createOutput(ctx context.Context, arg string) (*output, error) {
	if arg == stdio {
		return &output{
			WriteCloser: nopWriteCloser{os.Stdout},
			discard:     func() {},
		}, nil
	}
	loc, err := parseLocation(arg)
	if err != nil {
		return nil, err
	}
	s, name, err := openStore(ctx, loc)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", loc, err)
	}
	// Cancelling wctx aborts an upload in progress.
	wctx, cancel := context.WithCancel(ctx)
	w, err := s.Create(wctx, name)
	if err != nil {
		cancel()
		s.Close()
		return nil, fmt.Errorf("creating output: %w", err)
	}

	out := &output{}
	out.WriteCloser = &storeWriter{WriteCloser: w, store: s, cancel: cancel}
	out.discard = func() {
		cancel()
		w.Close()
		// Objects that were never committed do not exist; ignore ErrNotFound.
		if err := s.Remove(context.Background(), name); err != nil {
			log.Debug("removing partial output", zap.String("output", arg), zap.Error(err))
		}
		s.Close()
	}
	return out, nil
}

type storeWriter struct {
	io.WriteCloser
	store  store.Store
	cancel context.CancelFunc
}

func (w *storeWriter) Close() error {
	err := w.WriteCloser.Close()
	w.cancel()
	if cerr := w.store.Close(); err == nil {
		err = cerr
	}
	return err
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
