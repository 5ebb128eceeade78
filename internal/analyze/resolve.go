package analyze

import (
	"go/types"
	"strings"

	"record-linker/internal/common"
)

// Resolve finds a type by a type ID string like:
// - "store.Order" (short)
// - "record-linker/store.Order" (full)
// - "Order" (name only)
// A leading "*" yields a pointer to the resolved type.
func (g *TypeGraph) Resolve(typeIDStr string) *TypeInfo {
	if g == nil {
		return nil
	}

	if rest, ok := strings.CutPrefix(typeIDStr, "*"); ok {
		elem := g.Resolve(rest)
		if elem == nil {
			return nil
		}

		return pointerTo(elem)
	}

	// Name-only: best-effort match by type name.
	if !strings.Contains(typeIDStr, ".") {
		name := typeIDStr
		if name == "" {
			return nil
		}

		for id, t := range g.Types {
			if id.Name == name {
				return t
			}
		}

		return nil
	}

	lastDot := strings.LastIndex(typeIDStr, ".")
	pkgStr := typeIDStr[:lastDot]

	name := typeIDStr[lastDot+1:]
	if pkgStr == "" || name == "" {
		return nil
	}

	// 1) exact match (for fully qualified import path)
	if t := g.GetType(TypeID{PkgPath: pkgStr, Name: name}); t != nil {
		return t
	}

	// 2) suffix match (for short forms like "store.Order" vs "record-linker/store.Order")
	for id, t := range g.Types {
		if id.Name != name {
			continue
		}

		if common.PkgAlias(id.PkgPath) == pkgStr || strings.HasSuffix(id.PkgPath, "/"+pkgStr) {
			return t
		}
	}

	return nil
}

func pointerTo(elem *TypeInfo) *TypeInfo {
	p := &TypeInfo{Kind: TypeKindPointer, ElemType: elem}
	if elem.GoType != nil {
		p.GoType = types.NewPointer(elem.GoType)
	}

	return p
}
