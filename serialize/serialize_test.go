package serialize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tsawler/pdftree/core"
)

func TestSerializeKinds(t *testing.T) {
	tests := []struct {
		name string
		obj  core.Object
		want string
	}{
		{"nil", nil, "null"},
		{"null", core.Null{}, "null"},
		{"true", core.Bool(true), "true"},
		{"false", core.Bool(false), "false"},
		{"int", core.Int(3), "3"},
		{"negative int", core.Int(-12), "-12"},
		{"integral real", core.Real(3), "3"},
		{"fractional real", core.Real(3.5), "3.50"},
		{"rounded real", core.Real(0.126), "0.13"},
		{"negative zero", core.Real(-0.0), "0"},
		{"string", core.String("Hello"), "(Hello)"},
		{"name", core.Name("Page"), "/Page"},
		{"reference", core.Reference{Number: 12, Generation: 3}, "12 0 R"},
		{"array", core.Array{core.Int(0), core.Int(0), core.Real(612.5), core.Int(792)}, "[ 0 0 612.50 792 ]"},
		{"empty array", core.Array{}, "[  ]"},
		{"empty dict", core.Dict{}, "<< >>"},
		{
			"dict in key order",
			core.Dict{"Type": core.Name("Page"), "Contents": core.Reference{Number: 6}},
			"<< /Contents 6 0 R /Type /Page >>",
		},
		{
			"stream",
			&core.Stream{Dict: core.Dict{"Length": core.Int(5)}, Data: []byte("hello")},
			"<< /Length 5 >> stream\n<< stream data >>\nendstream",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Serialize(tt.obj))
		})
	}
}

func TestSerializeDepthCutoff(t *testing.T) {
	// twelve nested arrays around an integer
	var obj core.Object = core.Int(1)
	for i := 0; i < 12; i++ {
		obj = core.Array{obj}
	}

	got := Serialize(obj)
	assert.Equal(t, 11, strings.Count(got, "["), "levels 0 through 10 render")
	assert.Contains(t, got, "[ null ]")
	assert.NotContains(t, got, "1")

	s := Serializer{MaxDepth: 2}
	assert.Equal(t, "[ [ [ null ] ] ]", s.Serialize(obj, 0))
	assert.Equal(t, "null", s.Serialize(core.Int(4), 3))

	stream := &core.Stream{Dict: core.Dict{"Length": core.Int(1)}}
	assert.Equal(t, "null stream\n<< stream data >>\nendstream", s.Serialize(stream, 2))
}

func TestSerializeDecodeText(t *testing.T) {
	utf16 := core.String("\xfe\xff\x00H\x00i")

	plain := Serializer{}
	assert.Equal(t, "(\xfe\xff\x00H\x00i)", plain.Serialize(utf16, 0))

	decoding := Serializer{DecodeText: true}
	assert.Equal(t, "(Hi)", decoding.Serialize(utf16, 0))
	assert.Equal(t, "(plain)", decoding.Serialize(core.String("plain"), 0))
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "3", FormatNumber(3))
	assert.Equal(t, "3.50", FormatNumber(3.5))
	assert.Equal(t, "-2.25", FormatNumber(-2.25))
	assert.Equal(t, "100000", FormatNumber(1e5))
}
