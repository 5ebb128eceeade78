package analyze

import (
	"go/types"
	"sort"
	"strings"

	"record-linker/internal/match"
	"record-linker/record"
)

// Member is the accessor or mutator a field name resolves to.
type Member struct {
	// Name is the Go method or field name, or the map key.
	Name string
	// Method is set for Get/Set methods.
	Method bool
	// Type is the value type: the getter result, the setter parameter,
	// the struct field type or the map element type.
	Type *TypeInfo
	// ReturnsError is set for methods with a trailing error result.
	ReturnsError bool
}

// Checkable reports whether field access on t can be resolved
// statically: structs, pointers to structs and string-keyed maps.
func Checkable(t *TypeInfo) bool {
	t = recordType(t)
	if t == nil {
		return false
	}

	switch t.Kind {
	case TypeKindStruct:
		return true
	case TypeKindMap:
		return t.KeyType != nil && isString(t.KeyType)
	default:
		return false
	}
}

// Readable resolves field for reading on records of type t.
func Readable(t *TypeInfo, field string) (Member, bool) {
	t = recordType(t)
	if t == nil || field == "" {
		return Member{}, false
	}

	if t.Kind == TypeKindMap {
		return Member{Name: field, Type: t.ElemType}, Checkable(t)
	}

	if m, ok := t.Method(record.AccessorName(field)); ok && len(m.Params) == 0 {
		switch {
		case len(m.Results) == 1:
			return Member{Name: m.Name, Method: true, Type: m.Results[0]}, true
		case len(m.Results) == 2 && isError(m.Results[1]):
			return Member{Name: m.Name, Method: true, Type: m.Results[0], ReturnsError: true}, true
		}
	}

	if f, ok := findField(t, field); ok {
		return Member{Name: f.Name, Type: f.Type}, true
	}

	return Member{}, false
}

// Writable resolves field for writing on records of type t.
func Writable(t *TypeInfo, field string) (Member, bool) {
	t = recordType(t)
	if t == nil || field == "" {
		return Member{}, false
	}

	if t.Kind == TypeKindMap {
		return Member{Name: field, Type: t.ElemType}, Checkable(t)
	}

	if m, ok := t.Method(record.MutatorName(field)); ok && len(m.Params) == 1 {
		switch {
		case len(m.Results) == 0:
			return Member{Name: m.Name, Method: true, Type: m.Params[0]}, true
		case len(m.Results) == 1 && isError(m.Results[0]):
			return Member{Name: m.Name, Method: true, Type: m.Params[0], ReturnsError: true}, true
		}
	}

	if f, ok := findField(t, field); ok {
		return Member{Name: f.Name, Type: f.Type}, true
	}

	return Member{}, false
}

// Accepts reports whether a value of type value can be written into a
// member of type target: assignable, or a string-keyed map convertible
// to a map target.
func Accepts(value, target *TypeInfo) bool {
	if value == nil || target == nil || value.GoType == nil || target.GoType == nil {
		return false
	}

	if types.AssignableTo(value.GoType, target.GoType) {
		return true
	}

	vm, ok := value.GoType.Underlying().(*types.Map)
	if !ok {
		return false
	}

	if _, ok := target.GoType.Underlying().(*types.Map); !ok {
		return false
	}

	kb, ok := vm.Key().Underlying().(*types.Basic)

	return ok && kb.Info()&types.IsString != 0 && types.ConvertibleTo(value.GoType, target.GoType)
}

// ReadableNames lists the names Readable would resolve on t, for suggestions.
func ReadableNames(t *TypeInfo) []string {
	return knownNames(recordType(t), "Get")
}

// WritableNames lists the names Writable would resolve on t, for suggestions.
func WritableNames(t *TypeInfo) []string {
	return knownNames(recordType(t), "Set")
}

// recordType dereferences pointers and named wrappers down to the type
// carrying fields and methods.
func recordType(t *TypeInfo) *TypeInfo {
	for t != nil && t.Kind == TypeKindPointer {
		t = t.ElemType
	}

	return t
}

func isError(t *TypeInfo) bool {
	return t != nil && t.ID == TypeID{Name: "error"}
}

func isString(t *TypeInfo) bool {
	if t.GoType == nil {
		return false
	}

	b, ok := t.GoType.Underlying().(*types.Basic)

	return ok && b.Info()&types.IsString != 0
}

// findField mirrors the run-time lookup: `link` tag, json tag,
// capitalized or exact name, normalized name.
func findField(t *TypeInfo, field string) (FieldInfo, bool) {
	fields := visibleFields(t)

	for _, f := range fields {
		if f.TagName(record.LinkTag) == field {
			return f, true
		}
	}

	for _, f := range fields {
		if f.TagName("json") == field {
			return f, true
		}
	}

	capitalized := record.Capitalize(field)
	for _, f := range fields {
		if f.Name == capitalized || f.Name == field {
			return f, true
		}
	}

	norm := match.NormalizeIdent(field)
	for _, f := range fields {
		if match.NormalizeIdent(f.Name) == norm {
			return f, true
		}
	}

	return FieldInfo{}, false
}

// visibleFields returns exported, non-embedded fields including those
// promoted through embedded structs. Shallower fields shadow deeper ones.
func visibleFields(t *TypeInfo) []FieldInfo {
	var out []FieldInfo

	seen := map[string]struct{}{}
	visited := map[*TypeInfo]struct{}{}
	level := []*TypeInfo{t}

	for len(level) > 0 {
		var next []*TypeInfo

		for _, st := range level {
			if _, ok := visited[st]; ok {
				continue
			}
			visited[st] = struct{}{}

			for _, f := range st.Fields {
				if f.Embedded {
					if et := recordType(f.Type); et != nil && et.Kind == TypeKindStruct {
						next = append(next, et)
					}
					continue
				}

				if !f.Exported {
					continue
				}

				if _, dup := seen[f.Name]; dup {
					continue
				}
				seen[f.Name] = struct{}{}

				out = append(out, f)
			}
		}

		level = next
	}

	return out
}

func knownNames(t *TypeInfo, verb string) []string {
	if t == nil {
		return nil
	}

	seen := map[string]struct{}{}

	for _, f := range visibleFields(t) {
		seen[f.Name] = struct{}{}
		if n := f.TagName(record.LinkTag); n != "" {
			seen[n] = struct{}{}
		}
		if n := f.TagName("json"); n != "" {
			seen[n] = struct{}{}
		}
	}

	for _, m := range t.Methods {
		if suffix, ok := strings.CutPrefix(m.Name, verb); ok && suffix != "" {
			seen[suffix] = struct{}{}
		}
	}

	out := make([]string, 0, len(seen))
	for n := range seen {
		out = append(out, n)
	}
	sort.Strings(out)

	return out
}
