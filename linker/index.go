package linker

import (
	"record-linker/options"
	"record-linker/primitive"
	"record-linker/record"
)

// Index maps key values to a single record. It is built once from a
// secondary collection and is not safe for concurrent mutation.
type Index struct {
	keyField   string
	categories options.CategoryEnum
	entries    map[any]any
	duplicates int
	missing    int
}

// IndexByField builds a lookup from the value of keyField to the record
// holding it. When several records share a key the last one wins.
// Records without the key field (absent or nil) are skipped. A nil or
// empty collection yields an empty index.
func IndexByField[S any](collection []S, keyField string, opts ...Option) (*Index, error) {
	return buildIndex(collection, keyField, newConfig(opts))
}

func buildIndex[S any](collection []S, keyField string, cfg *config) (*Index, error) {
	idx := &Index{
		keyField:   keyField,
		categories: cfg.keys,
		entries:    make(map[any]any, len(collection)),
	}

	for i := range collection {
		rec := any(collection[i])

		key, ok, err := record.Read(rec, keyField)
		if err != nil {
			return nil, positioned(err, i)
		}

		if !ok || key == nil {
			idx.missing++
			continue
		}

		ck, err := idx.canonical(rec, key)
		if err != nil {
			return nil, positioned(err, i)
		}

		if _, dup := idx.entries[ck]; dup {
			idx.duplicates++
		}

		idx.entries[ck] = rec
	}

	cfg.logger.Debug("index built",
		"key_field", keyField,
		"records", len(collection),
		"keys", len(idx.entries),
		"duplicates", idx.duplicates,
		"missing_keys", idx.missing,
	)

	return idx, nil
}

func (idx *Index) canonical(rec, key any) (any, error) {
	ck := primitive.Canonical(key, idx.categories)
	if !primitive.Comparable(ck) {
		return nil, record.NewKeyError(idx.keyField, rec, key)
	}

	return ck, nil
}

// Lookup returns the record indexed under key. Keys are canonicalised
// with the categories the index was built with; keys that cannot be
// compared never match.
func (idx *Index) Lookup(key any) (any, bool) {
	if idx == nil || key == nil {
		return nil, false
	}

	ck := primitive.Canonical(key, idx.categories)
	if !primitive.Comparable(ck) {
		return nil, false
	}

	rec, ok := idx.entries[ck]

	return rec, ok
}

// Len returns the number of distinct keys.
func (idx *Index) Len() int {
	if idx == nil {
		return 0
	}

	return len(idx.entries)
}

// KeyField returns the field the index was built on.
func (idx *Index) KeyField() string {
	if idx == nil {
		return ""
	}

	return idx.keyField
}

// Duplicates returns how many records were overwritten by a later record with the same key.
func (idx *Index) Duplicates() int {
	if idx == nil {
		return 0
	}

	return idx.duplicates
}

// MissingKeys returns how many records were skipped for lacking the key field.
func (idx *Index) MissingKeys() int {
	if idx == nil {
		return 0
	}

	return idx.missing
}

// Keys returns the canonical keys in no particular order.
func (idx *Index) Keys() []any {
	keys := make([]any, 0, idx.Len())
	idx.Range(func(key, _ any) bool {
		keys = append(keys, key)
		return true
	})

	return keys
}

// Range calls fn for every entry until fn returns false. Order is unspecified.
func (idx *Index) Range(fn func(key, rec any) bool) {
	if idx == nil {
		return
	}

	for k, v := range idx.entries {
		if !fn(k, v) {
			return
		}
	}
}

// positioned attaches the collection position to record errors.
func positioned(err error, i int) error {
	if re, ok := record.AsError(err); ok {
		return re.AtIndex(i)
	}

	return err
}
