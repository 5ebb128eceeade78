package linker

import (
	"fmt"

	"record-linker/record"
)

// OneToOneLinked enriches primary in place: every primary record whose
// keyField value matches the secondaryKeyField value of a secondary
// record gets that secondary record written into targetField.
//
// If either collection is nil or empty the call does nothing. Otherwise
// the secondary collection is indexed (last duplicate wins) and applied
// to the primary collection. The first failure aborts the call and
// records already written keep their new value.
func OneToOneLinked[P, S any](
	primary []P, keyField, targetField string,
	secondary []S, secondaryKeyField string,
	opts ...Option,
) error {
	_, err := Link(primary, keyField, targetField, secondary, secondaryKeyField, opts...)
	return err
}

// Link is OneToOneLinked returning a Report of the pass.
func Link[P, S any](
	primary []P, keyField, targetField string,
	secondary []S, secondaryKeyField string,
	opts ...Option,
) (Report, error) {
	cfg := newConfig(opts)

	if len(primary) == 0 || len(secondary) == 0 {
		rep := newReport(len(primary))
		rep.Secondary = len(secondary)
		rep.Skipped = true

		cfg.logger.Debug("link skipped",
			"primary", len(primary),
			"secondary", len(secondary),
		)

		return rep, nil
	}

	cfg.logger.Debug("link started",
		"primary", len(primary),
		"primary_rep", record.Classify(primary[0]).String(),
		"secondary", len(secondary),
		"secondary_rep", record.Classify(secondary[0]).String(),
		"key_categories", cfg.keys.String(),
	)

	idx, err := buildIndex(secondary, secondaryKeyField, cfg)
	if err != nil {
		rep := newReport(len(primary))
		rep.Secondary = len(secondary)

		return rep, fmt.Errorf("index secondary by %q: %w", secondaryKeyField, err)
	}

	rep, err := apply(primary, keyField, targetField, idx, cfg)
	rep.Secondary = len(secondary)
	rep.absorb(idx)

	if err != nil {
		return rep, fmt.Errorf("link %q into %q: %w", keyField, targetField, err)
	}

	return rep, nil
}

// Linked is the non-mutating form of OneToOneLinked. It returns a copy
// of primary in which every record is a shallow clone (see record.Clone)
// enriched with its match. On failure it returns nil and primary is
// unchanged.
func Linked[P, S any](
	primary []P, keyField, targetField string,
	secondary []S, secondaryKeyField string,
	opts ...Option,
) ([]P, error) {
	if primary == nil {
		return nil, nil
	}

	out := make([]P, len(primary))
	for i, rec := range primary {
		out[i] = record.Clone(rec)
	}

	if err := OneToOneLinked(out, keyField, targetField, secondary, secondaryKeyField, opts...); err != nil {
		return nil, err
	}

	return out, nil
}
