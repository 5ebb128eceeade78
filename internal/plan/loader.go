package plan

import (
	"context"
	"fmt"

	"github.com/viant/afs"
	"gopkg.in/yaml.v3"
)

// Load downloads and parses a plan from any URL afs can read.
func Load(ctx context.Context, fs afs.Service, url string) (*File, error) {
	if fs == nil {
		fs = afs.New()
	}

	data, err := fs.DownloadWithURL(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan %s: %w", url, err)
	}

	return Parse(data)
}

// Parse parses YAML data into a File.
func Parse(data []byte) (*File, error) {
	var f File

	err := yaml.Unmarshal(data, &f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse plan YAML: %w", err)
	}

	// Apply defaults and normalize
	applyDefaults(&f)

	return &f, nil
}

// applyDefaults fills in default values for optional fields.
func applyDefaults(f *File) {
	if f.Version == "" {
		f.Version = SupportedVersion
	}

	for i := range f.Joins {
		j := &f.Joins[i]
		if j.Name == "" {
			j.Name = fmt.Sprintf("join-%d", i+1)
		}
	}
}

// Marshal serializes a File to YAML.
func Marshal(f *File) ([]byte, error) {
	return yaml.Marshal(f)
}
