package codec

import (
	"gopkg.in/yaml.v3"
)

// YAML encodes documents with gopkg.in/yaml.v3. Integers decode as int.
type YAML struct{}

func (YAML) Marshal(v any) ([]byte, error) { return yaml.Marshal(v) }

func (YAML) Unmarshal(data []byte, v any) error { return yaml.Unmarshal(data, v) }

func (YAML) Name() string { return "yaml" }
