package plan

import (
	"fmt"
	"strings"
	"unicode"

	"record-linker/internal/codec"
	"record-linker/internal/diagnostic"
	"record-linker/options"
)

// Validate checks a plan structurally: required settings, names, key
// categories and formats. Record types are checked by CheckTypes.
func Validate(f *File) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}
	if f == nil {
		res.AddError("plan_is_nil", "plan is nil", "", "")
		return res
	}

	if f.Version != SupportedVersion {
		res.AddError("unsupported_version",
			fmt.Sprintf("unsupported plan version %q, want %q", f.Version, SupportedVersion), "", "version")
	}

	validateCategories(res, "", "defaults.key_categories", f.Defaults.KeyCategories)
	validateFormat(res, "", "defaults.format", f.Defaults.Format)

	if len(f.Joins) == 0 {
		res.AddWarning("no_joins", "plan declares no joins", "", "joins")
		return res
	}

	seen := map[string]struct{}{}

	for i := range f.Joins {
		j := &f.Joins[i]

		if _, dup := seen[j.Name]; dup {
			res.AddError("duplicate_join", fmt.Sprintf("duplicate join name %q", j.Name), j.Name, "name")
		}
		seen[j.Name] = struct{}{}

		validateJoin(res, j)
	}

	return res
}

func validateJoin(res *diagnostic.Diagnostics, j *Join) {
	required := []struct {
		path, value string
	}{
		{"primary.url", j.Primary.URL},
		{"primary.key", j.Primary.Key},
		{"secondary.url", j.Secondary.URL},
		{"secondary.key", j.Secondary.Key},
		{"target", j.Target},
	}

	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			res.AddError("missing_field", r.path+" is required", j.Name, r.path)
			continue
		}

		if strings.IndexFunc(r.value, unicode.IsSpace) >= 0 && !strings.HasSuffix(r.path, ".url") {
			res.AddWarning("suspicious_field_name",
				fmt.Sprintf("field name %q contains white space", r.value), j.Name, r.path)
		}
	}

	if j.Target != "" && j.Target == j.Primary.Key {
		res.AddError("target_is_key",
			fmt.Sprintf("target %q overwrites the primary key", j.Target), j.Name, "target")
	}

	validateCategories(res, j.Name, "key_categories", j.KeyCategories)
	validateFormat(res, j.Name, "primary.format", j.Primary.Format)
	validateFormat(res, j.Name, "secondary.format", j.Secondary.Format)
	validateFormat(res, j.Name, "output_format", j.OutputFormat)

	if j.Output == "" {
		res.AddInfo("output_stdout", "no output configured, the result is written to stdout", j.Name, "output")
	}
}

func validateCategories(res *diagnostic.Diagnostics, join, path string, names StringOrArray) {
	if names.IsEmpty() {
		return
	}

	if _, err := options.ParseCategories(names...); err != nil {
		res.AddError("unknown_key_category", err.Error(), join, path)
	}
}

func validateFormat(res *diagnostic.Diagnostics, join, path, format string) {
	if format == "" {
		return
	}

	if _, ok := codec.ByName(format); !ok {
		res.AddError("unknown_format", fmt.Sprintf("unknown format %q", format), join, path)
	}
}
