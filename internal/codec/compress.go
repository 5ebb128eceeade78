package codec

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression is the whole-file compression applied after encoding.
type Compression uint8

const (
	CompressionNone Compression = iota
	CompressionZstd
	CompressionLZ4
)

func (c Compression) String() string {
	switch c {
	case CompressionZstd:
		return "zstd"
	case CompressionLZ4:
		return "lz4"
	default:
		return "none"
	}
}

func compressionByExt(ext string) (Compression, bool) {
	switch ext {
	case ".zst":
		return CompressionZstd, true
	case ".lz4":
		return CompressionLZ4, true
	default:
		return CompressionNone, false
	}
}

// zstd encoders and decoders are reusable and safe for concurrent EncodeAll/DecodeAll.
var (
	zstdOnce    sync.Once
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
	zstdErr     error
)

func zstdCoders() (*zstd.Encoder, *zstd.Decoder, error) {
	zstdOnce.Do(func() {
		zstdEncoder, zstdErr = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if zstdErr != nil {
			return
		}
		zstdDecoder, zstdErr = zstd.NewReader(nil)
	})

	return zstdEncoder, zstdDecoder, zstdErr
}

// Compress returns data compressed with c.
func (c Compression) Compress(data []byte) ([]byte, error) {
	switch c {
	case CompressionZstd:
		enc, _, err := zstdCoders()
		if err != nil {
			return nil, err
		}
		return enc.EncodeAll(data, nil), nil

	case CompressionLZ4:
		var buf bytes.Buffer

		w := lz4.NewWriter(&buf)
		if _, err := w.Write(data); err != nil {
			return nil, fmt.Errorf("lz4 compress: %w", err)
		}

		if err := w.Close(); err != nil {
			return nil, fmt.Errorf("lz4 compress: %w", err)
		}

		return buf.Bytes(), nil

	default:
		return data, nil
	}
}

// Decompress reverses Compress.
func (c Compression) Decompress(data []byte) ([]byte, error) {
	switch c {
	case CompressionZstd:
		_, dec, err := zstdCoders()
		if err != nil {
			return nil, err
		}

		out, err := dec.DecodeAll(data, nil)
		if err != nil {
			return nil, fmt.Errorf("zstd decompress: %w", err)
		}

		return out, nil

	case CompressionLZ4:
		out, err := io.ReadAll(lz4.NewReader(bytes.NewReader(data)))
		if err != nil {
			return nil, fmt.Errorf("lz4 decompress: %w", err)
		}

		return out, nil

	default:
		return data, nil
	}
}
