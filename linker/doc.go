// Package linker performs one-to-one enrichment joins over in-memory
// collections.
//
// A secondary collection is indexed by a key field (IndexByField) and
// the index is applied to a primary collection (Apply): each primary
// record whose key matches receives the secondary record in a target
// field. OneToOneLinked and Link compose both steps and mutate the
// primary collection in place; Linked returns an enriched copy instead.
//
// Field names are resolved by package record, so collections may hold
// dynamic maps, structs, pointers to structs or record.Accessor values.
//
// # Failure policy
//
// A failed field access aborts the whole call with a *record.Error that
// carries the position of the offending record. Primary records written
// before the failure are not rolled back. WithPrevalidate moves every
// resolution check ahead of the first write.
package linker
