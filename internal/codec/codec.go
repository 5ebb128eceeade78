// Package codec encodes and decodes record collections.
//
// The format of a file is derived from its name: an optional compression
// suffix (".zst", ".lz4") followed by the format suffix (".json",
// ".yaml"/".yml", ".msgpack"/".mpk").
package codec

import (
	"fmt"
	"path"
	"strings"
)

// Codec encodes/decodes values.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// Default is used when a name carries no known format suffix.
var Default Codec = JSON{}

// ByName returns a built-in codec by its name.
func ByName(name string) (Codec, bool) {
	switch strings.ToLower(name) {
	case "json":
		return JSON{}, true
	case "yaml", "yml":
		return YAML{}, true
	case "msgpack", "mpk":
		return MsgPack{}, true
	default:
		return nil, false
	}
}

// Format describes how a file is stored.
type Format struct {
	Codec       Codec
	Compression Compression
}

func (f Format) String() string {
	if f.Compression == CompressionNone {
		return f.Codec.Name()
	}

	return f.Codec.Name() + "+" + f.Compression.String()
}

// Detect derives the format from the file name of url. override, when
// not empty, names the codec and wins over the format suffix; the
// compression suffix is always honoured.
func Detect(url, override string) (Format, error) {
	name := path.Base(url)

	var f Format

	ext := path.Ext(name)
	if c, ok := compressionByExt(ext); ok {
		f.Compression = c
		name = strings.TrimSuffix(name, ext)
		ext = path.Ext(name)
	}

	if override != "" {
		c, ok := ByName(override)
		if !ok {
			return Format{}, fmt.Errorf("unknown format %q", override)
		}

		f.Codec = c

		return f, nil
	}

	c, ok := ByName(strings.TrimPrefix(ext, "."))
	if !ok {
		c = Default
	}

	f.Codec = c

	return f, nil
}

// Encode marshals v and compresses the result.
func (f Format) Encode(v any) ([]byte, error) {
	data, err := f.Codec.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%s marshal: %w", f.Codec.Name(), err)
	}

	return f.Compression.Compress(data)
}

// Decode decompresses data and unmarshals it into v.
func (f Format) Decode(data []byte, v any) error {
	raw, err := f.Compression.Decompress(data)
	if err != nil {
		return err
	}

	if err := f.Codec.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%s unmarshal: %w", f.Codec.Name(), err)
	}

	return nil
}
