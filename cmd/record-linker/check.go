package main

import (
	"context"
	"flag"
	"fmt"

	"record-linker/internal/analyze"
	"record-linker/internal/diagnostic"
	"record-linker/internal/plan"
)

func (a *app) check(ctx context.Context, args []string) int {
	fl := flag.NewFlagSet("check", flag.ContinueOnError)
	fl.SetOutput(a.stderr)

	planURL := fl.String("plan", "", "plan file URL")

	if err := fl.Parse(args); err != nil {
		return exitUsage
	}

	if *planURL == "" {
		fmt.Fprintln(a.stderr, "check: -plan is required")
		return exitUsage
	}

	f, err := plan.Load(ctx, a.fs, *planURL)
	if err != nil {
		a.logger.Error("load plan", "error", err)
		return exitError
	}

	diags := plan.Validate(f)

	if len(f.Packages) > 0 {
		graph, err := analyze.NewAnalyzer().LoadPackages(f.Packages...)
		if err != nil {
			a.logger.Error("load packages", "packages", f.Packages, "error", err)
			return exitError
		}

		diags.Merge(*plan.CheckTypes(f, graph, a.cfg.KeyCategories))
	}

	a.printDiagnostics(diags.All())

	if diags.HasErrors() {
		return exitError
	}

	fmt.Fprintf(a.stdout, "plan ok: %d joins\n", len(f.Joins))

	return exitOK
}

func (a *app) printDiagnostics(diags []diagnostic.Diagnostic) {
	for _, d := range diags {
		fmt.Fprintf(a.stdout, "%s: %s\n", d.Severity, d)
	}
}
