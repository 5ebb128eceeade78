// Package source reads and writes record collections through
// github.com/viant/afs, so any URL afs understands (file://, mem://,
// s3://, gs://, ...) can hold a collection.
package source

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"golang.org/x/sync/errgroup"

	"record-linker/internal/codec"
)

// Store loads and saves collections of dynamic records.
type Store struct {
	fs     afs.Service
	logger *slog.Logger
}

// New creates a Store. A nil fs uses afs.New().
func New(fs afs.Service, logger *slog.Logger) *Store {
	if fs == nil {
		fs = afs.New()
	}

	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Store{fs: fs, logger: logger}
}

// Load downloads url and decodes it. format overrides the codec derived
// from the file name when not empty.
func (s *Store) Load(ctx context.Context, url, format string) ([]map[string]any, error) {
	f, err := codec.Detect(url, format)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", url, err)
	}

	data, err := s.fs.DownloadWithURL(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", url, err)
	}

	records, err := f.DecodeRecords(data)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", url, err)
	}

	s.logger.Debug("collection loaded",
		"url", url,
		"format", f.String(),
		"bytes", len(data),
		"records", len(records),
	)

	return records, nil
}

// Pair is a primary/secondary collection couple.
type Pair struct {
	Primary   []map[string]any
	Secondary []map[string]any
}

// LoadPair loads both collections concurrently. The first failure
// cancels the other download.
func (s *Store) LoadPair(ctx context.Context, primaryURL, primaryFormat, secondaryURL, secondaryFormat string) (Pair, error) {
	var p Pair

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		recs, err := s.Load(ctx, primaryURL, primaryFormat)
		p.Primary = recs
		return err
	})

	g.Go(func() error {
		recs, err := s.Load(ctx, secondaryURL, secondaryFormat)
		p.Secondary = recs
		return err
	})

	if err := g.Wait(); err != nil {
		return Pair{}, err
	}

	return p, nil
}

// Save encodes records and uploads them to url. It returns the digest of
// the uploaded bytes.
func (s *Store) Save(ctx context.Context, url, format string, records any) (uint64, error) {
	f, err := codec.Detect(url, format)
	if err != nil {
		return 0, fmt.Errorf("save %s: %w", url, err)
	}

	data, err := f.Encode(records)
	if err != nil {
		return 0, fmt.Errorf("save %s: %w", url, err)
	}

	digest, err := Digest(data)
	if err != nil {
		return 0, fmt.Errorf("save %s: %w", url, err)
	}

	if err := s.fs.Upload(ctx, url, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return 0, fmt.Errorf("save %s: %w", url, err)
	}

	s.logger.Debug("collection saved",
		"url", url,
		"format", f.String(),
		"bytes", len(data),
		"digest", fmt.Sprintf("%016x", digest),
	)

	return digest, nil
}
