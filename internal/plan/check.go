package plan

import (
	"fmt"
	"go/types"

	"record-linker/internal/analyze"
	"record-linker/internal/diagnostic"
	"record-linker/internal/match"
	"record-linker/options"
)

const maxSuggestions = 3

// CheckTypes verifies, for joins declaring Go record types, that the
// keys are readable and the target writable with the values the join
// would write. fallback is the key category set used when neither the
// join nor the defaults name one.
func CheckTypes(f *File, graph *analyze.TypeGraph, fallback options.CategoryEnum) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}
	if f == nil {
		res.AddError("plan_is_nil", "plan is nil", "", "")
		return res
	}

	if graph == nil {
		res.AddError("graph_is_nil", "type graph is nil", "", "")
		return res
	}

	for i := range f.Joins {
		checkJoin(res, &f.Joins[i], f.Defaults, graph, fallback)
	}

	return res
}

func checkJoin(res *diagnostic.Diagnostics, j *Join, d Defaults, graph *analyze.TypeGraph, fallback options.CategoryEnum) {
	primary := resolveSide(res, j, "primary.type", j.Primary.Type, graph)
	secondary := resolveSide(res, j, "secondary.type", j.Secondary.Type, graph)

	var primaryKey, secondaryKey *analyze.Member

	if primary != nil {
		primaryKey = checkReadable(res, j, "primary.key", primary, j.Primary.Key)

		target, ok := analyze.Writable(primary, j.Target)
		if !ok {
			res.AddError("field_not_writable",
				fmt.Sprintf("%s has no mutator for %q", primary, j.Target), j.Name, "target",
				match.Suggest(j.Target, analyze.WritableNames(primary), maxSuggestions)...)
		} else if secondary != nil && !analyze.Accepts(secondary, target.Type) {
			res.AddError("target_type_mismatch",
				fmt.Sprintf("%s takes %s, secondary records are %s", target.Name, target.Type, secondary),
				j.Name, "target")
		}
	}

	if secondary != nil {
		secondaryKey = checkReadable(res, j, "secondary.key", secondary, j.Secondary.Key)
	}

	if primaryKey == nil || secondaryKey == nil {
		return
	}

	cats, err := j.Categories(d, fallback)
	if err != nil {
		// reported by Validate
		return
	}

	a, b := primaryKey.Type.GoType, secondaryKey.Type.GoType
	if cats == options.CategoryNone && a != nil && b != nil && !types.Identical(a, b) && !types.IsInterface(a) && !types.IsInterface(b) {
		res.AddWarning("key_type_mismatch",
			fmt.Sprintf("keys compare with strict equality but are %s and %s; set key_categories", a, b),
			j.Name, "key_categories")
	}
}

func resolveSide(res *diagnostic.Diagnostics, j *Join, path, typeName string, graph *analyze.TypeGraph) *analyze.TypeInfo {
	if typeName == "" {
		return nil
	}

	t := graph.Resolve(typeName)
	if t == nil {
		res.AddError("type_not_found", fmt.Sprintf("type %q not found", typeName), j.Name, path)
		return nil
	}

	if !analyze.Checkable(t) {
		res.AddInfo("type_not_checkable", fmt.Sprintf("fields of %s are resolved at run time only", t), j.Name, path)
		return nil
	}

	return t
}

func checkReadable(res *diagnostic.Diagnostics, j *Join, path string, t *analyze.TypeInfo, field string) *analyze.Member {
	m, ok := analyze.Readable(t, field)
	if !ok {
		res.AddError("field_not_readable",
			fmt.Sprintf("%s has no accessor for %q", t, field), j.Name, path,
			match.Suggest(field, analyze.ReadableNames(t), maxSuggestions)...)
		return nil
	}

	return &m
}
