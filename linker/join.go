package linker

import (
	"reflect"

	"record-linker/record"
)

// Apply writes, for every primary record in order, the record indexed
// under its keyField value into targetField. Records without a match
// are left untouched.
//
// The first failure stops the pass. Records written before the failure
// stay written; there is no rollback. Use WithPrevalidate to detect
// resolution failures before anything is mutated.
func Apply[P any](primary []P, keyField, targetField string, idx *Index, opts ...Option) (Report, error) {
	return apply(primary, keyField, targetField, idx, newConfig(opts))
}

func apply[P any](primary []P, keyField, targetField string, idx *Index, cfg *config) (Report, error) {
	rep := newReport(len(primary))
	if len(primary) == 0 {
		return rep, nil
	}

	if idx == nil {
		idx = &Index{entries: map[any]any{}}
	}

	elem := elements(primary)

	if cfg.prevalidate {
		if err := prevalidate(primary, elem, keyField, targetField, idx); err != nil {
			return rep, err
		}
	}

	for i := range primary {
		rec := elem(i)

		matched, ok, err := match(rec, keyField, idx)
		if err != nil {
			return rep, positioned(err, i)
		}

		if !ok {
			continue
		}

		if err := record.Write(rec, targetField, matched); err != nil {
			return rep, positioned(err, i)
		}

		rep.Matched.Add(uint32(i))
	}

	cfg.logger.Debug("index applied",
		"key_field", keyField,
		"target_field", targetField,
		"records", len(primary),
		"matched", rep.MatchedCount(),
	)

	return rep, nil
}

func prevalidate[P any](primary []P, elem func(int) any, keyField, targetField string, idx *Index) error {
	for i := range primary {
		rec := elem(i)

		matched, ok, err := match(rec, keyField, idx)
		if err != nil {
			return positioned(err, i)
		}

		if !ok {
			continue
		}

		if err := record.CanWrite(rec, targetField, matched); err != nil {
			return positioned(err, i)
		}
	}

	return nil
}

func match(rec any, keyField string, idx *Index) (any, bool, error) {
	key, ok, err := record.Read(rec, keyField)
	if err != nil || !ok || key == nil {
		return nil, false, err
	}

	ck, err := idx.canonical(rec, key)
	if err != nil {
		return nil, false, err
	}

	matched, ok := idx.entries[ck]

	return matched, ok, nil
}

// elements returns the value to read and write for position i. Struct
// elements are addressed in place so writes land in the slice itself;
// maps, pointers and interfaces already refer to the record.
func elements[P any](primary []P) func(int) any {
	if reflect.TypeFor[P]().Kind() == reflect.Struct {
		return func(i int) any { return &primary[i] }
	}

	return func(i int) any { return primary[i] }
}
