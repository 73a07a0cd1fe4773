// Package archive packs a directory tree into a single file in which every
// regular file is a complete, independently decodable tinypress stream.
//
// Layout, little endian:
//
//	[magic u8][count u32]
//	count × [pathLen u16][path][rawSize u64][encodedSize u64][stream]
//
// The archive magic equals the magic of every embedded stream. Entries are
// sorted by their slash separated path.
package archive

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/discochess/tinypress/internal/format"
	"github.com/discochess/tinypress/internal/stats"
	"github.com/discochess/tinypress/internal/store"
	"github.com/discochess/tinypress/internal/stream"
)

var (
	// ErrInvalidArchive indicates a malformed archive: a short header, an
	// entry whose stream disagrees with the archive, or a size mismatch.
	ErrInvalidArchive = errors.New("tinypress: invalid archive")

	// ErrUnsafePath indicates an entry path that would escape the
	// destination (absolute, or containing "..").
	ErrUnsafePath = errors.New("tinypress: unsafe path in archive")
)

// DefaultWorkers is the default number of files encoded concurrently.
const DefaultWorkers = 4

// Entry describes one archived file.
type Entry struct {
	Path        string
	RawSize     uint64
	EncodedSize uint64
}

// Summary reports the totals of a Pack or Unpack.
type Summary struct {
	Kind         format.Kind
	Files        int
	RawBytes     int64
	EncodedBytes int64
}

// Option configures Pack and Unpack.
type Option func(*config)

type config struct {
	workers    int
	logger     *zap.Logger
	stats      stats.Collector
	streamOpts []stream.Option
}

func newConfig(opts []Option) config {
	cfg := config{
		workers: DefaultWorkers,
		logger:  zap.NewNop(),
		stats:   stats.NewNoop(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithWorkers sets how many files Pack encodes at once.
func WithWorkers(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.workers = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithStats sets the stats collector.
func WithStats(s stats.Collector) Option {
	return func(c *config) {
		if s != nil {
			c.stats = s
		}
	}
}

// WithStreamOptions passes options to every per-file encoder or decoder.
func WithStreamOptions(opts ...stream.Option) Option {
	return func(c *config) {
		c.streamOpts = append(c.streamOpts, opts...)
	}
}

// encoded is one packed file awaiting output.
type encoded struct {
	entry Entry
	data  []byte
}

// Pack encodes every regular file in fsys and writes the archive to w.
// Files are encoded in parallel, each by its own encoder.
func Pack(ctx context.Context, fsys fs.FS, kind format.Kind, w io.Writer, opts ...Option) (*Summary, error) {
	cfg := newConfig(opts)
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %v", stream.ErrUnknownKind, kind)
	}

	paths, err := listFiles(fsys)
	if err != nil {
		return nil, err
	}
	if uint64(len(paths)) > math.MaxUint32 {
		return nil, fmt.Errorf("too many files: %d", len(paths))
	}

	cfg.logger.Debug("packing",
		zap.Stringer("kind", kind),
		zap.Int("files", len(paths)),
		zap.Int("workers", cfg.workers),
	)

	results := make([]encoded, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.workers)
	for i, p := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := encodeFile(fsys, p, kind, cfg.streamOpts)
			if err != nil {
				return fmt.Errorf("encoding %s: %w", p, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sum := &Summary{Kind: kind, Files: len(results)}
	if err := writeArchive(w, kind, results, sum); err != nil {
		return nil, err
	}
	cfg.stats.IncCounter(stats.MetricArchiveFiles, int64(sum.Files))
	return sum, nil
}

// listFiles returns the slash separated paths of all regular files in
// fsys, sorted.
func listFiles(fsys fs.FS) ([]string, error) {
	var paths []string
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			if len(p) > math.MaxUint16 {
				return fmt.Errorf("path too long: %s", p)
			}
			paths = append(paths, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking input: %w", err)
	}
	sort.Strings(paths)
	return paths, nil
}

func encodeFile(fsys fs.FS, p string, kind format.Kind, opts []stream.Option) (encoded, error) {
	f, err := fsys.Open(p)
	if err != nil {
		return encoded{}, err
	}
	defer f.Close()

	var buf bytes.Buffer
	enc, err := stream.NewEncoder(kind, &buf, opts...)
	if err != nil {
		return encoded{}, err
	}
	if _, err := io.Copy(enc, f); err != nil {
		return encoded{}, err
	}
	if err := enc.Close(); err != nil {
		return encoded{}, err
	}

	return encoded{
		entry: Entry{
			Path:        p,
			RawSize:     uint64(enc.BytesIn()),
			EncodedSize: uint64(buf.Len()),
		},
		data: buf.Bytes(),
	}, nil
}

func writeArchive(w io.Writer, kind format.Kind, files []encoded, sum *Summary) error {
	cw := &countingWriter{w: w}
	hdr := make([]byte, 0, 5)
	hdr = append(hdr, kind.Magic())
	hdr = binary.LittleEndian.AppendUint32(hdr, uint32(len(files)))
	if _, err := cw.Write(hdr); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, f := range files {
		entryHdr := make([]byte, 0, 2+len(f.entry.Path)+16)
		entryHdr = binary.LittleEndian.AppendUint16(entryHdr, uint16(len(f.entry.Path)))
		entryHdr = append(entryHdr, f.entry.Path...)
		entryHdr = binary.LittleEndian.AppendUint64(entryHdr, f.entry.RawSize)
		entryHdr = binary.LittleEndian.AppendUint64(entryHdr, f.entry.EncodedSize)
		if _, err := cw.Write(entryHdr); err != nil {
			return fmt.Errorf("writing entry %s: %w", f.entry.Path, err)
		}
		if _, err := cw.Write(f.data); err != nil {
			return fmt.Errorf("writing entry %s: %w", f.entry.Path, err)
		}
		sum.RawBytes += int64(f.entry.RawSize)
	}
	sum.EncodedBytes = cw.n
	return nil
}

// Unpack reads an archive from r and writes every entry to dst under its
// path. kind may be format.KindAuto to accept either family.
func Unpack(ctx context.Context, r io.Reader, dst store.Store, kind format.Kind, opts ...Option) (*Summary, error) {
	cfg := newConfig(opts)
	cr := &countingReader{r: r}

	kind, count, err := readHeader(cr, kind)
	if err != nil {
		return nil, err
	}

	sum := &Summary{Kind: kind}
	for i := uint32(0); i < count; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		entry, err := readEntry(cr)
		if err != nil {
			return nil, fmt.Errorf("reading entry %d: %w", i, err)
		}
		if err := checkPath(entry.Path); err != nil {
			return nil, err
		}

		if err := unpackEntry(ctx, cr, dst, kind, entry, cfg.streamOpts); err != nil {
			return nil, err
		}

		cfg.logger.Debug("unpacked entry",
			zap.String("path", entry.Path),
			zap.Uint64("rawSize", entry.RawSize),
			zap.Uint64("encodedSize", entry.EncodedSize),
		)
		sum.Files++
		sum.RawBytes += int64(entry.RawSize)
	}
	sum.EncodedBytes = cr.n
	cfg.stats.IncCounter(stats.MetricArchiveFiles, int64(sum.Files))
	return sum, nil
}

// List returns the entries of an archive without decoding them.
func List(r io.Reader) (format.Kind, []Entry, error) {
	kind, count, err := readHeader(r, format.KindAuto)
	if err != nil {
		return kind, nil, err
	}

	entries := make([]Entry, 0, min(count, 1024))
	for i := uint32(0); i < count; i++ {
		entry, err := readEntry(r)
		if err != nil {
			return kind, nil, fmt.Errorf("reading entry %d: %w", i, err)
		}
		if _, err := io.CopyN(io.Discard, r, int64(entry.EncodedSize)); err != nil {
			return kind, nil, fmt.Errorf("%w: entry %s: %v", ErrInvalidArchive, entry.Path, err)
		}
		entries = append(entries, entry)
	}
	return kind, entries, nil
}

func readHeader(r io.Reader, want format.Kind) (format.Kind, uint32, error) {
	var hdr [5]byte
	if _, err := io.ReadFull(r, hdr[:1]); err != nil {
		return want, 0, fmt.Errorf("%w: empty archive", ErrInvalidArchive)
	}
	kind, err := format.Detect(hdr[0])
	if err != nil {
		return want, 0, err
	}
	if want != format.KindAuto && kind != want {
		return want, 0, fmt.Errorf("%w: archive is %v, want %v", format.ErrFormat, kind, want)
	}
	if _, err := io.ReadFull(r, hdr[1:]); err != nil {
		return kind, 0, fmt.Errorf("%w: short header", ErrInvalidArchive)
	}
	return kind, binary.LittleEndian.Uint32(hdr[1:]), nil
}

func readEntry(r io.Reader) (Entry, error) {
	var n [2]byte
	if _, err := io.ReadFull(r, n[:]); err != nil {
		return Entry{}, fmt.Errorf("%w: short entry header", ErrInvalidArchive)
	}
	rest := make([]byte, int(binary.LittleEndian.Uint16(n[:]))+16)
	if _, err := io.ReadFull(r, rest); err != nil {
		return Entry{}, fmt.Errorf("%w: short entry header", ErrInvalidArchive)
	}
	pathLen := len(rest) - 16
	return Entry{
		Path:        string(rest[:pathLen]),
		RawSize:     binary.LittleEndian.Uint64(rest[pathLen:]),
		EncodedSize: binary.LittleEndian.Uint64(rest[pathLen+8:]),
	}, nil
}

// checkPath rejects entry paths that are empty, absolute, or escape the
// destination.
func checkPath(p string) error {
	if p == "" || strings.Contains(p, "\\") || path.IsAbs(p) || !filepath.IsLocal(filepath.FromSlash(p)) {
		return fmt.Errorf("%w: %q", ErrUnsafePath, p)
	}
	if path.Clean(p) != p {
		return fmt.Errorf("%w: %q", ErrUnsafePath, p)
	}
	return nil
}

func unpackEntry(ctx context.Context, r io.Reader, dst store.Store, kind format.Kind, entry Entry, opts []stream.Option) error {
	if entry.EncodedSize > math.MaxInt64 {
		return fmt.Errorf("%w: entry %s: encoded size %d", ErrInvalidArchive, entry.Path, entry.EncodedSize)
	}

	out, err := dst.Create(ctx, entry.Path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", entry.Path, err)
	}

	dec, err := stream.NewDecoder(kind, out, opts...)
	if err != nil {
		out.Close()
		return err
	}

	n, err := io.CopyN(dec, r, int64(entry.EncodedSize))
	if err == nil {
		err = dec.Close()
	} else if n < int64(entry.EncodedSize) && dec.Err() == nil {
		err = fmt.Errorf("%w: entry %s truncated", ErrInvalidArchive, entry.Path)
	}
	if cerr := out.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("closing %s: %w", entry.Path, cerr)
	}
	if err == nil && uint64(dec.BytesOut()) != entry.RawSize {
		err = fmt.Errorf("%w: entry %s decoded to %d bytes, header says %d",
			ErrInvalidArchive, entry.Path, dec.BytesOut(), entry.RawSize)
	}
	if err != nil {
		_ = dst.Remove(ctx, entry.Path)
		if errors.Is(err, ErrInvalidArchive) {
			return err
		}
		return fmt.Errorf("%w: entry %s: %w", ErrInvalidArchive, entry.Path, err)
	}
	return nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
