package record

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"record-linker/internal/match"
)

const (
	readVerb  = "Get"
	writeVerb = "Set"

	// LinkTag is the struct tag consulted before the json tag.
	LinkTag = "link"

	maxSuggestions = 3
)

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// plan is a resolved accessor or mutator for one struct type and field name.
type plan struct {
	method  int   // method index on the pointer type, -1 for field plans
	index   []int // field index path for field plans
	param   reflect.Type
	retErr  bool
	goName  string
	resolve error // resolution failure, cached like successful plans
	suggest []string
}

type planKey struct {
	t     reflect.Type
	op    Op
	field string
	value reflect.Type // runtime type of the written value, nil for reads
}

var plans sync.Map // planKey -> *plan

// Capitalize upper-cases the first character of a field name, the suffix
// used by the Get/Set accessor naming convention.
func Capitalize(field string) string {
	r, size := utf8.DecodeRuneInString(field)
	if r == utf8.RuneError {
		return field
	}

	return string(unicode.ToUpper(r)) + field[size:]
}

// AccessorName returns the Get<Field> method name for field.
func AccessorName(field string) string { return readVerb + Capitalize(field) }

// MutatorName returns the Set<Field> method name for field.
func MutatorName(field string) string { return writeVerb + Capitalize(field) }

func readStruct(rec any, sv reflect.Value, field string) (value any, ok bool, err error) {
	p := readPlan(sv.Type(), field)
	if p.resolve != nil {
		e := newError(KindResolution, OpRead, field, rec, p.resolve)
		e.Suggestions = p.suggest
		return nil, false, e
	}

	defer func() {
		if r := recover(); r != nil {
			value, ok = nil, false
			err = newError(KindInvocation, OpRead, field, rec, fmt.Errorf("%s panicked: %v", p.goName, r))
		}
	}()

	if p.method < 0 {
		fv, ferr := sv.FieldByIndexErr(p.index)
		if ferr != nil {
			return nil, false, newError(KindInvocation, OpRead, field, rec, ferr)
		}
		return fv.Interface(), true, nil
	}

	out := receiver(sv).Method(p.method).Call(nil)
	if p.retErr && !out[1].IsNil() {
		return nil, false, newError(KindInvocation, OpRead, field, rec, out[1].Interface().(error))
	}

	return out[0].Interface(), true, nil
}

func writeStruct(rec any, sv reflect.Value, field string, value any, apply bool) (err error) {
	p := writePlan(sv.Type(), field, reflect.TypeOf(value))
	if p.resolve != nil {
		e := newError(KindResolution, OpWrite, field, rec, p.resolve)
		e.Suggestions = p.suggest
		return e
	}

	if !apply {
		return nil
	}

	arg, aerr := argument(value, p.param)
	if aerr != nil {
		return newError(KindResolution, OpWrite, field, rec, aerr)
	}

	defer func() {
		if r := recover(); r != nil {
			err = newError(KindInvocation, OpWrite, field, rec, fmt.Errorf("%s panicked: %v", p.goName, r))
		}
	}()

	if p.method < 0 {
		fv, ferr := sv.FieldByIndexErr(p.index)
		if ferr != nil {
			return newError(KindInvocation, OpWrite, field, rec, ferr)
		}
		fv.Set(arg)
		return nil
	}

	out := sv.Addr().Method(p.method).Call([]reflect.Value{arg})
	if p.retErr && !out[0].IsNil() {
		return newError(KindInvocation, OpWrite, field, rec, out[0].Interface().(error))
	}

	return nil
}

// receiver returns a pointer to the struct so pointer-receiver accessors
// are reachable. Unaddressable structs are copied; reads do not mutate.
func receiver(sv reflect.Value) reflect.Value {
	if sv.CanAddr() {
		return sv.Addr()
	}

	cp := reflect.New(sv.Type())
	cp.Elem().Set(sv)

	return cp
}

func readPlan(t reflect.Type, field string) *plan {
	key := planKey{t: t, op: OpRead, field: field}
	if p, ok := plans.Load(key); ok {
		return p.(*plan)
	}

	p := resolveRead(t, field)
	actual, _ := plans.LoadOrStore(key, p)

	return actual.(*plan)
}

func writePlan(t reflect.Type, field string, vt reflect.Type) *plan {
	key := planKey{t: t, op: OpWrite, field: field, value: vt}
	if p, ok := plans.Load(key); ok {
		return p.(*plan)
	}

	p := resolveWrite(t, field, vt)
	actual, _ := plans.LoadOrStore(key, p)

	return actual.(*plan)
}

func resolveRead(t reflect.Type, field string) *plan {
	pt := reflect.PointerTo(t)
	name := AccessorName(field)

	if m, ok := pt.MethodByName(name); ok {
		mt := m.Type // includes the receiver
		switch {
		case mt.NumIn() == 1 && mt.NumOut() == 1:
			return &plan{method: m.Index, goName: name}
		case mt.NumIn() == 1 && mt.NumOut() == 2 && mt.Out(1) == errorType:
			return &plan{method: m.Index, retErr: true, goName: name}
		}
		// a Get method with another signature is not an accessor; fall back to fields
	}

	if sf, ok := findField(t, field); ok {
		return &plan{method: -1, index: sf.Index, goName: sf.Name}
	}

	return &plan{
		resolve: fmt.Errorf("%w %s: no %s method or matching field on %s", errNoAccessor, field, name, t),
		suggest: match.Suggest(field, readableNames(t), maxSuggestions),
	}
}

func resolveWrite(t reflect.Type, field string, vt reflect.Type) *plan {
	pt := reflect.PointerTo(t)
	name := MutatorName(field)

	if m, ok := pt.MethodByName(name); ok {
		mt := m.Type
		retErr := mt.NumOut() == 1 && mt.Out(0) == errorType
		if mt.NumIn() == 2 && (mt.NumOut() == 0 || retErr) {
			param := mt.In(1)
			if vt != nil && !accepts(vt, param) {
				return &plan{resolve: fmt.Errorf("%w %s: %s takes %s, value is %s", errNoMutator, field, name, param, vt)}
			}
			return &plan{method: m.Index, param: param, retErr: retErr, goName: name}
		}
	}

	if sf, ok := findField(t, field); ok {
		if vt != nil && !accepts(vt, sf.Type) {
			return &plan{resolve: fmt.Errorf("%w %s: field %s is %s, value is %s", errNoMutator, field, sf.Name, sf.Type, vt)}
		}
		return &plan{method: -1, index: sf.Index, param: sf.Type, goName: sf.Name}
	}

	return &plan{
		resolve: fmt.Errorf("%w %s: no %s method or matching field on %s", errNoMutator, field, name, t),
		suggest: match.Suggest(field, writableNames(t), maxSuggestions),
	}
}

// findField tries: `link` tag, json tag, capitalized name, exact name,
// normalized name. Only exported fields, promoted ones included.
func findField(t reflect.Type, field string) (reflect.StructField, bool) {
	fields := exportedFields(t)

	for _, f := range fields {
		if tagName(f, LinkTag) == field {
			return f, true
		}
	}

	for _, f := range fields {
		if tagName(f, "json") == field {
			return f, true
		}
	}

	capitalized := Capitalize(field)
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

	return reflect.StructField{}, false
}

func exportedFields(t reflect.Type) []reflect.StructField {
	var out []reflect.StructField

	for _, f := range reflect.VisibleFields(t) {
		if f.IsExported() && !f.Anonymous {
			out = append(out, f)
		}
	}

	return out
}

func tagName(f reflect.StructField, key string) string {
	tag := f.Tag.Get(key)
	if tag == "" || tag == "-" {
		return ""
	}

	// trim options
	if idx := strings.IndexByte(tag, ','); idx >= 0 {
		tag = tag[:idx]
	}

	return tag
}

// readableNames lists the names Read would resolve on t, for suggestions.
func readableNames(t reflect.Type) []string {
	return knownNames(t, readVerb)
}

func writableNames(t reflect.Type) []string {
	return knownNames(t, writeVerb)
}

func knownNames(t reflect.Type, verb string) []string {
	seen := map[string]struct{}{}

	for _, f := range exportedFields(t) {
		seen[f.Name] = struct{}{}
		if n := tagName(f, LinkTag); n != "" {
			seen[n] = struct{}{}
		}
		if n := tagName(f, "json"); n != "" {
			seen[n] = struct{}{}
		}
	}

	pt := reflect.PointerTo(t)
	for i := range pt.NumMethod() {
		name := pt.Method(i).Name
		if suffix, ok := strings.CutPrefix(name, verb); ok && suffix != "" {
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
