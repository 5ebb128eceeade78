package record

// Dynamic is a loosely-typed record: field names map straight to values.
type Dynamic map[string]any

var _ Accessor = Dynamic(nil)

// Get returns the raw value stored under field. Reading a nil Dynamic fails.
func (d Dynamic) Get(field string) (any, bool, error) {
	if d == nil {
		return nil, false, newError(KindResolution, OpRead, field, d, errNilRecord)
	}

	v, ok := d[field]
	return v, ok, nil
}

// Set stores value under field. Writing into a nil Dynamic fails.
func (d Dynamic) Set(field string, value any) error {
	if d == nil {
		return newError(KindResolution, OpWrite, field, d, errNilRecord)
	}

	d[field] = value

	return nil
}

// Fields returns the field names present on the record, unordered.
func (d Dynamic) Fields() []string {
	out := make([]string, 0, len(d))
	for k := range d {
		out = append(out, k)
	}

	return out
}
