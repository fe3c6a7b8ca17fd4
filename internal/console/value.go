package console

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// Value is a typed console value. Only the field matching kind is read.
// Values carry base kinds only: range entries store KindInt or KindFloat.
type Value struct {
	kind Kind
	b    bool
	i    int
	f    float32
	s    string
	v    mgl32.Vec4
}

func BoolValue(b bool) Value       { return Value{kind: KindBool, b: b} }
func IntValue(i int) Value         { return Value{kind: KindInt, i: i} }
func FloatValue(f float32) Value   { return Value{kind: KindFloat, f: f} }
func StringValue(s string) Value   { return Value{kind: KindString, s: s} }
func Vec2Value(v mgl32.Vec2) Value { return Value{kind: KindVec2, v: v.Vec4(0, 0)} }
func Vec3Value(v mgl32.Vec3) Value { return Value{kind: KindVec3, v: v.Vec4(0)} }
func Vec4Value(v mgl32.Vec4) Value { return Value{kind: KindVec4, v: v} }

// Kind returns the value's type tag.
func (v Value) Kind() Kind { return v.kind }

func (v Value) Bool() bool         { return v.b }
func (v Value) Int() int           { return v.i }
func (v Value) Float() float32     { return v.f }
func (v Value) Text() string       { return v.s }
func (v Value) Vec2() mgl32.Vec2   { return v.v.Vec2() }
func (v Value) Vec3() mgl32.Vec3   { return v.v.Vec3() }
func (v Value) Vec4() mgl32.Vec4   { return v.v }
func (v Value) IsZero() bool       { return v.kind == KindInvalid }
func (v Value) fits(k Kind) bool   { return v.kind != KindInvalid && v.kind == k.Base() }
func (v Value) Equal(o Value) bool { return v == o }

// String renders the canonical text of the value: bools as true/false,
// floats with six decimals, vectors as space separated components and
// strings unquoted.
func (v Value) String() string {
	switch v.kind {
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt:
		return strconv.Itoa(v.i)
	case KindFloat:
		return formatFloat(v.f)
	case KindString:
		return v.s
	case KindVec2, KindVec3, KindVec4:
		n := v.kind.Components()
		parts := make([]string, n)
		for i := 0; i < n; i++ {
			parts[i] = formatFloat(v.v[i])
		}
		return strings.Join(parts, " ")
	default:
		return ""
	}
}

func formatFloat(f float32) string {
	return strconv.FormatFloat(float64(f), 'f', 6, 32)
}

// ParseValue reads the canonical text of a value of kind k. Range kinds parse
// as their base kind.
func ParseValue(k Kind, text string) (Value, error) {
	switch k.Base() {
	case KindBool:
		b, ok := parseBool(strings.TrimSpace(text))
		if !ok {
			return Value{}, fmt.Errorf("%w: %q is not a bool", ErrInvalidArgs, text)
		}
		return BoolValue(b), nil
	case KindInt:
		i, err := strconv.Atoi(strings.TrimSpace(text))
		if err != nil {
			return Value{}, fmt.Errorf("%w: %q is not an integer", ErrInvalidArgs, text)
		}
		return IntValue(i), nil
	case KindFloat:
		f, err := strconv.ParseFloat(strings.TrimSpace(text), 32)
		if err != nil {
			return Value{}, fmt.Errorf("%w: %q is not a float", ErrInvalidArgs, text)
		}
		return FloatValue(float32(f)), nil
	case KindString:
		return StringValue(text), nil
	case KindVec2, KindVec3, KindVec4:
		return parseVec(k, strings.Fields(text))
	default:
		return Value{}, fmt.Errorf("%w: kind %s holds no value", ErrTypeMismatch, k)
	}
}

func parseVec(k Kind, fields []string) (Value, error) {
	n := k.Components()
	if len(fields) != n {
		return Value{}, fmt.Errorf("%w: %s needs %d numbers, got %d", ErrInvalidArgs, k, n, len(fields))
	}

	var out mgl32.Vec4
	for i, field := range fields {
		f, err := strconv.ParseFloat(field, 32)
		if err != nil {
			return Value{}, fmt.Errorf("%w: component %d %q is not a number", ErrInvalidArgs, i, field)
		}
		out[i] = float32(f)
	}
	return Value{kind: k, v: out}, nil
}

var (
	boolTrue = []string{
		"true", "t", "yes", "yeah", "yup", "y", "enabled", "on", "sure",
	}
	boolFalse = []string{
		"false", "f", "no", "nah", "nope", "n", "disabled", "off",
	}
	boolCoinFlip = []string{
		"maybe", "idk", "?", "rand", "random", "coinflip", "coin", "rng", "roll", "dice",
	}
)

func inList(s string, list []string) bool {
	for _, item := range list {
		if strings.EqualFold(s, item) {
			return true
		}
	}
	return false
}

// parseBool accepts 1/0, any number (true when above zero) and the alias
// lists above.
func parseBool(s string) (bool, bool) {
	switch {
	case s == "1":
		return true, true
	case s == "0":
		return false, true
	case inList(s, boolTrue):
		return true, true
	case inList(s, boolFalse):
		return false, true
	case inList(s, boolCoinFlip):
		return rand.IntN(2) == 1, true
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f > 0, true
	}
	return false, false
}

// valueFromArgs converts command arguments into a value for kind k. String
// entries take the single argument, or the raw text after the name when
// several words were given. Vector entries accept either N arguments or one
// quoted argument holding N numbers.
func valueFromArgs(k Kind, args []string, tail string) (Value, error) {
	switch k.Base() {
	case KindString:
		if len(args) == 1 {
			return StringValue(args[0]), nil
		}
		return StringValue(tail), nil
	case KindVec2, KindVec3, KindVec4:
		return parseVec(k, strings.Fields(strings.Join(args, " ")))
	default:
		return ParseValue(k, args[0])
	}
}

func clampValue(v, lo, hi Value) (Value, bool) {
	switch v.kind {
	case KindInt:
		c := min(max(v.i, lo.i), hi.i)
		return IntValue(c), c != v.i
	case KindFloat:
		if v.f != v.f {
			return FloatValue(lo.f), true
		}
		c := min(max(v.f, lo.f), hi.f)
		return FloatValue(c), c != v.f
	default:
		return v, false
	}
}
