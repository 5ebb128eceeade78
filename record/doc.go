// Package record gives type-erased, by-name access to the fields of
// arbitrary records.
//
// Three representations are supported:
//   - Accessor implementations, which expose Get/Set explicitly
//   - dynamic records: Dynamic, map[string]any or any map keyed by a string kind
//   - structured records: structs reached through a pointer (or a slice element)
//
// Structured records follow the accessor naming convention: the field
// name "customer" is read through GetCustomer and written through
// SetCustomer. When no such method exists the struct fields are searched
// by `link` tag, `json` tag, Go name and normalized name.
//
// Resolutions are cached per struct type, field name and written value
// type, so a homogeneous collection is resolved once.
//
// Failures are *Error values; use errors.Is with ErrResolution,
// ErrInvocation or ErrKey to branch on the cause.
package record
