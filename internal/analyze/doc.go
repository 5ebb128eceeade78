// Package analyze provides package loading and type graph extraction.
//
// It uses golang.org/x/tools/go/packages with go/types to build an
// in-memory model of record types: their fields, struct tags and the
// method set of the pointer type. Access resolves a field name against
// that model with the same rules package record applies at run time, so
// a join plan can be checked before any data is loaded.
//
// Key types:
//   - TypeID: package import path + type name
//   - TypeInfo: describes kind (struct/basic/alias/pointer/slice/map/...)
//   - FieldInfo: describes field name, type, tags, and embedding
//   - MethodInfo: describes a method of *T with its signature
package analyze
