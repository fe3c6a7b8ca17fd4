package console

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/require"
)

func TestKind_StringRoundTrip(t *testing.T) {
	for k := KindInvalid; k <= KindVec4; k++ {
		require.Equal(t, k, ParseKind(k.String()), k.String())
	}
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		in   string
		want Kind
	}{
		{"Bool", KindBool},
		{"integer", KindInt},
		{"Int", KindInt},
		{"RangeInt", KindRangeInt},
		{" rangefloat ", KindRangeFloat},
		{"VEC3", KindVec3},
		{"command", KindCommand},
		{"double", KindInvalid},
		{"", KindInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			require.Equal(t, tt.want, ParseKind(tt.in))
		})
	}

	require.Equal(t, "Invalid", Kind(200).String())
}

func TestKind_Predicates(t *testing.T) {
	require.False(t, KindCommand.IsVar())
	require.False(t, KindInvalid.IsVar())
	require.True(t, KindVec4.IsVar())
	require.True(t, KindRangeFloat.IsRange())
	require.False(t, KindFloat.IsRange())
	require.Equal(t, KindInt, KindRangeInt.Base())
	require.Equal(t, KindVec2, KindVec2.Base())
	require.Equal(t, 3, KindVec3.Components())
	require.Zero(t, KindString.Components())
}

func TestValue_String(t *testing.T) {
	tests := []struct {
		name  string
		value Value
		want  string
	}{
		{"true", BoolValue(true), "true"},
		{"false", BoolValue(false), "false"},
		{"int", IntValue(-42), "-42"},
		{"float", FloatValue(0.5), "0.500000"},
		{"string keeps spaces", StringValue("a b"), "a b"},
		{"vec2", Vec2Value(mgl32.Vec2{1, 2}), "1.000000 2.000000"},
		{"vec4", Vec4Value(mgl32.Vec4{0, -1, 0.25, 3}), "0.000000 -1.000000 0.250000 3.000000"},
		{"zero value", Value{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.value.String())
		})
	}
}

func TestValue_RoundTripThroughSet(t *testing.T) {
	c, _ := newTestConsole(t)

	tests := []struct {
		name string
		kind Kind
		val  Value
		opts []RegisterOption
	}{
		{"rt.bool", KindBool, BoolValue(true), nil},
		{"rt.int", KindInt, IntValue(123456), nil},
		{"rt.float", KindFloat, FloatValue(3.14159), nil},
		{"rt.string", KindString, StringValue(`say "hi" there`), nil},
		{"rt.rangeint", KindRangeInt, IntValue(7), []RegisterOption{WithRange(IntValue(0), IntValue(10))}},
		{"rt.rangefloat", KindRangeFloat, FloatValue(0.3), []RegisterOption{WithRange(FloatValue(0), FloatValue(1))}},
		{"rt.vec2", KindVec2, Vec2Value(mgl32.Vec2{-1.5, 2}), nil},
		{"rt.vec3", KindVec3, Vec3Value(mgl32.Vec3{1, 2, 3}), nil},
		{"rt.vec4", KindVec4, Vec4Value(mgl32.Vec4{0.1, 0.2, 0.3, 0.4}), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := c.RegisterVar(tt.name, tt.kind, tt.val, tt.opts...)
			require.NoError(t, err)
			original := e.Value().String()

			kind := ParseKind(e.Kind().String())
			parsed, err := ParseValue(kind, original)
			require.NoError(t, err)

			require.Equal(t, ResultOk, c.SetValue(tt.name, parsed))
			require.Equal(t, original, e.Value().String())
		})
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		kind    Kind
		text    string
		want    Value
		wantErr error
	}{
		{KindBool, "1", BoolValue(true), nil},
		{KindBool, "Enabled", BoolValue(true), nil},
		{KindBool, "nope", BoolValue(false), nil},
		{KindBool, "-3", BoolValue(false), nil},
		{KindBool, "0.5", BoolValue(true), nil},
		{KindBool, "perhaps", Value{}, ErrInvalidArgs},
		{KindInt, " 12 ", IntValue(12), nil},
		{KindInt, "12.5", Value{}, ErrInvalidArgs},
		{KindRangeFloat, "1e-1", FloatValue(0.1), nil},
		{KindFloat, "abc", Value{}, ErrInvalidArgs},
		{KindString, "  padded  ", StringValue("  padded  "), nil},
		{KindVec2, "1 2", Vec2Value(mgl32.Vec2{1, 2}), nil},
		{KindVec3, "1 2", Value{}, ErrInvalidArgs},
		{KindCommand, "x", Value{}, ErrTypeMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String()+"/"+tt.text, func(t *testing.T) {
			got, err := ParseValue(tt.kind, tt.text)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.True(t, tt.want.Equal(got), "got %v", got)
		})
	}
}

func TestParseValue_CoinFlip(t *testing.T) {
	seen := map[bool]bool{}
	for i := 0; i < 200 && len(seen) < 2; i++ {
		v, err := ParseValue(KindBool, "coinflip")
		require.NoError(t, err)
		seen[v.Bool()] = true
	}
	require.Len(t, seen, 2)
}

func TestClampValue(t *testing.T) {
	v, changed := clampValue(IntValue(-5), IntValue(0), IntValue(3))
	require.True(t, changed)
	require.Equal(t, 0, v.Int())

	v, changed = clampValue(FloatValue(0.5), FloatValue(0), FloatValue(1))
	require.False(t, changed)
	require.Equal(t, float32(0.5), v.Float())

	v, changed = clampValue(StringValue("x"), Value{}, Value{})
	require.False(t, changed)
	require.Equal(t, "x", v.Text())
}
