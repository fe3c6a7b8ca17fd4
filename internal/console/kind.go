package console

import "strings"

// Kind is the type tag of an entry.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindCommand
	KindBool
	KindInt
	KindFloat
	KindString
	KindRangeInt
	KindRangeFloat
	KindVec2
	KindVec3
	KindVec4
)

var kindNames = [...]string{
	KindInvalid:    "Invalid",
	KindCommand:    "Command",
	KindBool:       "Bool",
	KindInt:        "Integer",
	KindFloat:      "Float",
	KindString:     "String",
	KindRangeInt:   "RangeInteger",
	KindRangeFloat: "RangeFloat",
	KindVec2:       "Vec2",
	KindVec3:       "Vec3",
	KindVec4:       "Vec4",
}

var kindAliases = map[string]Kind{
	"int":      KindInt,
	"rangeint": KindRangeInt,
}

// String returns the display name used in help and error messages.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return kindNames[KindInvalid]
}

// ParseKind is the inverse of Kind.String, case insensitive. "Int" and
// "RangeInt" are accepted as well. Unknown text yields KindInvalid.
func ParseKind(s string) Kind {
	s = strings.TrimSpace(s)
	for k, name := range kindNames {
		if strings.EqualFold(s, name) {
			return Kind(k)
		}
	}
	if k, ok := kindAliases[strings.ToLower(s)]; ok {
		return k
	}
	return KindInvalid
}

// IsVar reports whether entries of this kind hold a value.
func (k Kind) IsVar() bool {
	return k >= KindBool && k <= KindVec4
}

// IsRange reports whether values of this kind are clamped.
func (k Kind) IsRange() bool {
	return k == KindRangeInt || k == KindRangeFloat
}

// Base maps range kinds to the kind of value they store.
func (k Kind) Base() Kind {
	switch k {
	case KindRangeInt:
		return KindInt
	case KindRangeFloat:
		return KindFloat
	default:
		return k
	}
}

// Components returns the number of float components of a vector kind.
func (k Kind) Components() int {
	switch k {
	case KindVec2:
		return 2
	case KindVec3:
		return 3
	case KindVec4:
		return 4
	default:
		return 0
	}
}
