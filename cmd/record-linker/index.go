package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/davecgh/go-spew/spew"

	"record-linker/linker"
	"record-linker/options"
)

var dumper = spew.ConfigState{
	Indent:                  "  ",
	SortKeys:                true,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
}

func (a *app) index(ctx context.Context, args []string) int {
	fl := flag.NewFlagSet("index", flag.ContinueOnError)
	fl.SetOutput(a.stderr)

	in := fl.String("in", "", "collection URL")
	key := fl.String("key", "", "key field")
	format := fl.String("format", "", "codec override (json, yaml, msgpack)")
	categories := fl.String("categories", "", "comma separated key categories")

	if err := fl.Parse(args); err != nil {
		return exitUsage
	}

	if *in == "" || *key == "" {
		fmt.Fprintln(a.stderr, "index: -in and -key are required")
		return exitUsage
	}

	cats := a.cfg.KeyCategories
	if *categories != "" {
		c, err := options.ParseCategories(*categories)
		if err != nil {
			fmt.Fprintln(a.stderr, "index:", err)
			return exitUsage
		}
		cats = c
	}

	records, err := a.store.Load(ctx, *in, *format)
	if err != nil {
		a.logger.Error("load collection", "error", err)
		return exitError
	}

	idx, err := linker.IndexByField(records, *key,
		linker.WithLogger(a.logger),
		linker.WithKeyCategories(cats))
	if err != nil {
		a.logger.Error("build index", "error", err)
		return exitError
	}

	entries := make(map[any]any, idx.Len())
	idx.Range(func(k, rec any) bool {
		entries[k] = rec
		return true
	})

	fmt.Fprintf(a.stdout, "key=%s records=%d keys=%d duplicates=%d missing_keys=%d categories=%s\n",
		*key, len(records), idx.Len(), idx.Duplicates(), idx.MissingKeys(), cats)
	dumper.Fdump(a.stdout, entries)

	return exitOK
}
