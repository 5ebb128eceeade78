package primitive

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"record-linker/options"
)

type customerID string

type sku int32

func TestCanonical(t *testing.T) {
	tests := []struct {
		name     string
		input    any
		allowed  options.CategoryEnum
		expected any
	}{
		{"strict keeps string", "a", options.CategoryNone, "a"},
		{"strict keeps enum", customerID("a"), options.CategoryNone, customerID("a")},
		{"strict keeps float", float64(1), options.CategoryNone, float64(1)},

		{"number int", int(7), options.CategoryNumber, int64(7)},
		{"number int8", int8(-3), options.CategoryNumber, int64(-3)},
		{"number uint small", uint32(9), options.CategoryNumber, int64(9)},
		{"number uint huge", uint64(math.MaxUint64), options.CategoryNumber, uint64(math.MaxUint64)},
		{"number integral float", float64(42), options.CategoryNumber, int64(42)},
		{"number fractional float", float64(4.5), options.CategoryNumber, float64(4.5)},
		{"number leaves strings", "42", options.CategoryNumber, "42"},

		{"text number int", "42", options.CategoryTextNumber, int64(42)},
		{"text number float", "4.5", options.CategoryTextNumber, float64(4.5)},
		{"text number rejects NaN", "NaN", options.CategoryTextNumber, "NaN"},
		{"text number canonicalises numbers", float32(42), options.CategoryTextNumber, int64(42)},

		{"enum string", customerID("a"), options.CategoryEnumString, "a"},
		{"enum int without number", sku(5), options.CategoryEnumString, int32(5)},
		{"enum int with number", sku(5), options.CategoryEnumString | options.CategoryNumber, int64(5)},

		{"fold case", "AbC", options.CategoryFoldCase, "abc"},
		{"trim space", "  x ", options.CategoryTrimSpace, "x"},
		{"trim then parse", " 12 ", options.CategoryTrimSpace | options.CategoryTextNumber, int64(12)},

		{"bool untouched", true, options.CategoryAll, true},
		{"nil", nil, options.CategoryAll, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Canonical(tt.input, tt.allowed))
		})
	}
}

func TestComparable(t *testing.T) {
	assert.True(t, Comparable(nil))
	assert.True(t, Comparable("x"))
	assert.True(t, Comparable(struct{ A int }{1}))
	assert.False(t, Comparable([]string{"x"}))
	assert.False(t, Comparable(map[string]any{}))
	assert.False(t, Comparable(any(struct{ V any }{V: []int{1}})))
}
