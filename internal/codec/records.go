package codec

import (
	"fmt"
)

// DecodeRecords decodes a collection of dynamic records: either a list of
// objects or a single object, which yields a one-element collection.
func (f Format) DecodeRecords(data []byte) ([]map[string]any, error) {
	var doc any
	if err := f.Decode(data, &doc); err != nil {
		return nil, err
	}

	switch v := doc.(type) {
	case nil:
		return nil, nil
	case []any:
		out := make([]map[string]any, 0, len(v))
		for i, item := range v {
			rec, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("element %d is %T, want an object", i, item)
			}
			out = append(out, rec)
		}
		return out, nil
	case map[string]any:
		return []map[string]any{v}, nil
	default:
		return nil, fmt.Errorf("document is %T, want a list of objects", doc)
	}
}
