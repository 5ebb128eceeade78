package options

import (
	"fmt"
	"strings"
)

// CategoryEnum selects which key coercions are allowed when two key values are compared.
type CategoryEnum int

const (
	CategoryNumber     CategoryEnum = 1 << iota // int, uint, float: integral values collapse to one representation
	CategoryTextNumber                          // string -> number: "42" matches 42
	CategoryEnumString                          // named basic types collapse to their basic kind: ID("a") matches "a"
	CategoryFoldCase                            // string keys compare case-insensitively
	CategoryTrimSpace                           // string keys ignore leading and trailing white space

	CategoryAll  CategoryEnum = (1 << iota) - 1 // all categories combined
	CategoryNone CategoryEnum = 0               // strict Go equality
)

var categoryNames = []struct {
	name string
	cat  CategoryEnum
}{
	{"number", CategoryNumber},
	{"text-number", CategoryTextNumber},
	{"enum-string", CategoryEnumString},
	{"fold-case", CategoryFoldCase},
	{"trim-space", CategoryTrimSpace},
}

// Has reports whether every flag of other is set in c.
func (c CategoryEnum) Has(other CategoryEnum) bool {
	return c&other == other
}

func (c CategoryEnum) String() string {
	switch c {
	case CategoryNone:
		return "none"
	case CategoryAll:
		return "all"
	}

	var parts []string
	for _, cn := range categoryNames {
		if c.Has(cn.cat) {
			parts = append(parts, cn.name)
		}
	}

	return strings.Join(parts, "|")
}

// ParseCategory maps a single category name (as used in plan files and
// environment variables) to its flag.
func ParseCategory(name string) (CategoryEnum, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	switch name {
	case "none", "strict":
		return CategoryNone, nil
	case "all":
		return CategoryAll, nil
	}

	for _, cn := range categoryNames {
		if cn.name == name {
			return cn.cat, nil
		}
	}

	return CategoryNone, fmt.Errorf("unknown key category %q", name)
}

// ParseCategories combines several category names into one set.
// A comma separated single string is accepted as well.
func ParseCategories(names ...string) (CategoryEnum, error) {
	var out CategoryEnum

	for _, n := range names {
		for _, part := range strings.Split(n, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}

			c, err := ParseCategory(part)
			if err != nil {
				return CategoryNone, err
			}

			out |= c
		}
	}

	return out, nil
}
