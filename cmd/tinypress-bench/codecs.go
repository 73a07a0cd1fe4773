package main

import (
	"fmt"
	"strings"

	"github.com/discochess/tinypress/internal/codec"
	"github.com/discochess/tinypress/internal/codec/gzipcodec"
	"github.com/discochess/tinypress/internal/codec/lz4codec"
	"github.com/discochess/tinypress/internal/codec/lz77codec"
	"github.com/discochess/tinypress/internal/codec/noopcodec"
	"github.com/discochess/tinypress/internal/codec/rlecodec"
	"github.com/discochess/tinypress/internal/codec/s2codec"
	"github.com/discochess/tinypress/internal/codec/snappycodec"
	"github.com/discochess/tinypress/internal/codec/zstdcodec"
	"github.com/discochess/tinypress/internal/stream"
)

// defaultCodecs is the --codecs default: both tinypress formats first,
// then the general purpose codecs they are measured against.
var defaultCodecs = []string{"rle", "lz77", "gzip", "zstd", "s2", "snappy", "lz4", "none"}

// lookupCodec returns the codec registered under name. "lz" is accepted
// for lz77 to match the tinypress CLI flag.
func lookupCodec(name string, opts ...stream.Option) (codec.Codec, error) {
	switch strings.ToLower(name) {
	case "rle":
		return rlecodec.New(opts...), nil
	case "lz77", "lz":
		return lz77codec.New(opts...), nil
	case "gzip":
		return gzipcodec.New(), nil
	case "zstd":
		return zstdcodec.New(), nil
	case "s2":
		return s2codec.New(), nil
	case "snappy":
		return snappycodec.New(), nil
	case "lz4":
		return lz4codec.New(), nil
	case "none":
		return noopcodec.New(), nil
	default:
		return nil, fmt.Errorf("unknown codec: %s", name)
	}
}

func lookupCodecs(names []string, opts ...stream.Option) ([]codec.Codec, error) {
	codecs := make([]codec.Codec, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		c, err := lookupCodec(name, opts...)
		if err != nil {
			return nil, err
		}
		if seen[c.Name()] {
			continue
		}
		seen[c.Name()] = true
		codecs = append(codecs, c)
	}
	return codecs, nil
}
