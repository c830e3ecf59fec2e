// Package serialize renders PDF objects as compact PDF-like text for
// diagnostic display.
//
// The rendering is not round-trippable. Stream payloads are replaced by a
// placeholder, references always print generation 0, and nesting deeper
// than MaxDepth collapses to null.
package serialize

import (
	"bytes"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/unicode"

	"github.com/tsawler/pdftree/core"
)

// DefaultMaxDepth is the nesting level beyond which values render as null
const DefaultMaxDepth = 10

const streamPlaceholder = " stream\n<< stream data >>\nendstream"

// Serializer renders objects. The zero value uses DefaultMaxDepth and
// emits string bytes unchanged.
type Serializer struct {
	// MaxDepth is the deepest nesting level that is still rendered
	MaxDepth int
	// DecodeText converts UTF-16BE strings (those starting with a byte
	// order mark) to UTF-8.
	DecodeText bool
}

// Serialize renders obj with the default serializer
func Serialize(obj core.Object) string {
	var s Serializer
	return s.Serialize(obj, 0)
}

// Serialize renders obj as if it were nested depth levels deep
func (s *Serializer) Serialize(obj core.Object, depth int) string {
	var sb strings.Builder
	s.write(&sb, obj, depth)
	return sb.String()
}

func (s *Serializer) maxDepth() int {
	if s.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return s.MaxDepth
}

func (s *Serializer) write(sb *strings.Builder, obj core.Object, depth int) {
	if obj == nil || depth > s.maxDepth() {
		sb.WriteString("null")
		return
	}

	switch obj.Kind() {
	case core.KindBool:
		if v, _ := obj.(core.Bool); v {
			sb.WriteString("true")
		} else {
			sb.WriteString("false")
		}

	case core.KindInt:
		v, _ := obj.(core.Int)
		sb.WriteString(strconv.FormatInt(int64(v), 10))

	case core.KindReal:
		v, _ := obj.(core.Real)
		sb.WriteString(FormatNumber(float64(v)))

	case core.KindString:
		v, _ := obj.(core.String)
		sb.WriteByte('(')
		sb.WriteString(s.text(string(v)))
		sb.WriteByte(')')

	case core.KindName:
		v, _ := obj.(core.Name)
		sb.WriteByte('/')
		sb.WriteString(string(v))

	case core.KindArray:
		arr, _ := obj.(core.Array)
		sb.WriteString("[ ")
		for i, elem := range arr {
			if i > 0 {
				sb.WriteByte(' ')
			}
			s.write(sb, elem, depth+1)
		}
		sb.WriteString(" ]")

	case core.KindDict:
		dict, _ := obj.(core.Dict)
		s.writeDict(sb, dict, depth)

	case core.KindStream:
		stream, _ := obj.(*core.Stream)
		if stream == nil {
			sb.WriteString("null")
			return
		}
		if depth+1 > s.maxDepth() {
			sb.WriteString("null")
		} else {
			s.writeDict(sb, stream.Dict, depth+1)
		}
		sb.WriteString(streamPlaceholder)

	case core.KindReference:
		v, _ := obj.(core.Reference)
		sb.WriteString(strconv.FormatUint(uint64(v.Number), 10))
		sb.WriteString(" 0 R")

	default:
		sb.WriteString("null")
	}
}

func (s *Serializer) writeDict(sb *strings.Builder, dict core.Dict, depth int) {
	sb.WriteString("<< ")
	dict.Range(func(key string, val core.Object) bool {
		sb.WriteByte('/')
		sb.WriteString(key)
		sb.WriteByte(' ')
		s.write(sb, val, depth+1)
		sb.WriteByte(' ')
		return true
	})
	sb.WriteString(">>")
}

var utf16BOM = []byte{0xFE, 0xFF}

func (s *Serializer) text(raw string) string {
	if !s.DecodeText || !strings.HasPrefix(raw, string(utf16BOM)) {
		return raw
	}
	dec := unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder()
	out, err := dec.Bytes([]byte(raw))
	if err != nil {
		return raw
	}
	return string(bytes.ToValidUTF8(out, []byte("�")))
}

// FormatNumber renders integral values without a fraction and everything
// else with exactly two fractional digits.
func FormatNumber(v float64) string {
	if v == math.Trunc(v) && !math.IsInf(v, 0) {
		if v == 0 {
			return "0"
		}
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}
