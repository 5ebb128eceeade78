package plan

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"record-linker/internal/common"
	"record-linker/options"
)

// SupportedVersion is the only plan schema version.
const SupportedVersion = "1"

// File represents the root of a YAML join plan.
type File struct {
	// Version of the plan schema (for future compatibility).
	Version string `yaml:"version,omitempty"`

	// Packages lists Go package patterns loaded by "check" to resolve
	// declared record types.
	Packages []string `yaml:"packages,omitempty"`

	// Defaults apply to every join that does not override them.
	Defaults Defaults `yaml:"defaults,omitempty"`

	// Joins run in order.
	Joins []Join `yaml:"joins"`
}

// Defaults are plan-wide join settings.
type Defaults struct {
	KeyCategories StringOrArray `yaml:"key_categories,omitempty"`
	Prevalidate   bool          `yaml:"prevalidate,omitempty"`
	Format        string        `yaml:"format,omitempty"`
}

// Side is one input collection of a join.
type Side struct {
	// URL is any location afs can read (file path, file://, mem://, s3://...).
	URL string `yaml:"url"`
	// Key is the field holding the join key.
	Key string `yaml:"key"`
	// Format overrides the codec derived from the URL.
	Format string `yaml:"format,omitempty"`
	// Type optionally names the Go record type, e.g. "*store.Order".
	Type string `yaml:"type,omitempty"`
}

// Join is a single one-to-one enrichment join.
type Join struct {
	Name      string `yaml:"name,omitempty"`
	Primary   Side   `yaml:"primary"`
	Secondary Side   `yaml:"secondary"`
	// Target is the primary field receiving the matched secondary record.
	Target string `yaml:"target"`
	// Output receives the enriched primary collection; stdout when empty.
	Output       string `yaml:"output,omitempty"`
	OutputFormat string `yaml:"output_format,omitempty"`

	KeyCategories StringOrArray `yaml:"key_categories,omitempty"`
	Prevalidate   *bool         `yaml:"prevalidate,omitempty"`
}

// String identifies the join in logs and diagnostics.
func (j *Join) String() string {
	return fmt.Sprintf("%s (%s -> %s)", j.Name, j.Primary.Key, j.Target)
}

// Categories returns the key categories of the join: its own, else the
// plan defaults, else fallback.
func (j *Join) Categories(d Defaults, fallback options.CategoryEnum) (options.CategoryEnum, error) {
	switch {
	case !j.KeyCategories.IsEmpty():
		return options.ParseCategories(j.KeyCategories...)
	case !d.KeyCategories.IsEmpty():
		return options.ParseCategories(d.KeyCategories...)
	default:
		return fallback, nil
	}
}

// ShouldPrevalidate reports whether the join resolves every access before writing.
func (j *Join) ShouldPrevalidate(d Defaults) bool {
	if j.Prevalidate != nil {
		return *j.Prevalidate
	}

	return d.Prevalidate
}

// FormatOf returns the codec override for a side, "" to derive it from the URL.
func (d Defaults) FormatOf(s Side) string {
	if s.Format != "" {
		return s.Format
	}

	return d.Format
}

// OutputFormatOf returns the codec override for the join output.
func (d Defaults) OutputFormatOf(j *Join) string {
	if j.OutputFormat != "" {
		return j.OutputFormat
	}

	return d.Format
}

// StringOrArray is a list that accepts a single string in YAML.
type StringOrArray []string

// UnmarshalYAML accepts either a single string or an array of strings.
func (s *StringOrArray) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var str string

		err := node.Decode(&str)
		if err != nil {
			return err
		}

		if str != "" {
			*s = StringOrArray{str}
		} else {
			*s = StringOrArray{}
		}

		return nil

	case yaml.SequenceNode:
		var arr []string

		err := node.Decode(&arr)
		if err != nil {
			return err
		}

		*s = arr

		return nil

	default:
		return fmt.Errorf("expected string or array, got %v", node.Kind)
	}
}

// MarshalYAML outputs a single string if length is 1, otherwise an array.
func (s StringOrArray) MarshalYAML() (any, error) {
	if common.IsSingle(s) {
		return s[0], nil
	}

	return []string(s), nil
}

// IsEmpty returns true if the array is empty.
func (s StringOrArray) IsEmpty() bool {
	return common.IsEmpty(s)
}
