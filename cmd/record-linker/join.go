package main

import (
	"context"
	"flag"
	"fmt"

	"record-linker/internal/codec"
	"record-linker/internal/plan"
	"record-linker/internal/source"
	"record-linker/linker"
)

func (a *app) join(ctx context.Context, args []string) int {
	fl := flag.NewFlagSet("join", flag.ContinueOnError)
	fl.SetOutput(a.stderr)

	planURL := fl.String("plan", "", "plan file URL")
	only := fl.String("join", "", "run only the join with this name")

	if err := fl.Parse(args); err != nil {
		return exitUsage
	}

	if *planURL == "" {
		fmt.Fprintln(a.stderr, "join: -plan is required")
		return exitUsage
	}

	f, err := plan.Load(ctx, a.fs, *planURL)
	if err != nil {
		a.logger.Error("load plan", "error", err)
		return exitError
	}

	if diags := plan.Validate(f); diags.HasErrors() {
		a.printDiagnostics(diags.All())
		return exitError
	}

	ran := 0

	for i := range f.Joins {
		j := &f.Joins[i]
		if *only != "" && j.Name != *only {
			continue
		}

		if err := a.runJoin(ctx, f.Defaults, j); err != nil {
			a.logger.Error("join failed", "join", j.Name, "error", err)
			return exitError
		}

		ran++
	}

	if ran == 0 && *only != "" {
		a.logger.Error("no such join", "join", *only)
		return exitError
	}

	return exitOK
}

func (a *app) runJoin(ctx context.Context, d plan.Defaults, j *plan.Join) error {
	logger := a.logger.With("join", j.Name)

	cats, err := j.Categories(d, a.cfg.KeyCategories)
	if err != nil {
		return err
	}

	pair, err := a.store.LoadPair(ctx,
		j.Primary.URL, d.FormatOf(j.Primary),
		j.Secondary.URL, d.FormatOf(j.Secondary))
	if err != nil {
		return err
	}

	opts := []linker.Option{
		linker.WithLogger(logger),
		linker.WithKeyCategories(cats),
	}
	if j.ShouldPrevalidate(d) {
		opts = append(opts, linker.WithPrevalidate())
	}

	rep, err := linker.Link(pair.Primary, j.Primary.Key, j.Target, pair.Secondary, j.Secondary.Key, opts...)
	if err != nil {
		return err
	}

	digest, err := a.writeOutput(ctx, d, j, pair.Primary)
	if err != nil {
		return err
	}

	logger.Info("join finished",
		"primary", rep.Primary,
		"secondary", rep.Secondary,
		"matched", rep.MatchedCount(),
		"unmatched", len(rep.Unmatched()),
		"duplicates", rep.Duplicates,
		"missing_keys", rep.MissingKeys,
		"key_categories", cats.String(),
		"digest", fmt.Sprintf("%016x", digest),
	)

	return nil
}

// writeOutput stores the enriched collection, or prints it when the join
// has no output.
func (a *app) writeOutput(ctx context.Context, d plan.Defaults, j *plan.Join, records []map[string]any) (uint64, error) {
	if j.Output != "" {
		return a.store.Save(ctx, j.Output, d.OutputFormatOf(j), records)
	}

	format, err := codec.Detect("", d.OutputFormatOf(j))
	if err != nil {
		return 0, err
	}

	data, err := format.Encode(records)
	if err != nil {
		return 0, err
	}

	digest, err := source.Digest(data)
	if err != nil {
		return 0, err
	}

	if _, err := fmt.Fprintf(a.stdout, "%s\n", data); err != nil {
		return 0, err
	}

	return digest, nil
}
