package core

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Object represents a PDF object. Kind() and the concrete type need not
// agree for types defined outside this package, so consumers that unpack
// containers switch on the concrete type.
type Object interface {
	Kind() Kind
	String() string
}

// Kind tags the variant of a PDF object
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindReal
	KindString
	KindName
	KindArray
	KindDict
	KindStream
	KindReference
)

// String returns the name of the kind
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "Null"
	case KindBool:
		return "Bool"
	case KindInt:
		return "Int"
	case KindReal:
		return "Real"
	case KindString:
		return "String"
	case KindName:
		return "Name"
	case KindArray:
		return "Array"
	case KindDict:
		return "Dict"
	case KindStream:
		return "Stream"
	case KindReference:
		return "Reference"
	default:
		return "Unknown"
	}
}

// KindOf returns the kind of obj, treating a nil object as KindNull.
func KindOf(obj Object) Kind {
	if obj == nil {
		return KindNull
	}
	return obj.Kind()
}

// ObjectRef is the two-part identity of an indirect object. A zero Number
// means the object has no indirect identity.
type ObjectRef struct {
	Number     uint32
	Generation uint16
}

// IsZero reports whether the ref carries no indirect identity
func (r ObjectRef) IsZero() bool {
	return r.Number == 0
}

func (r ObjectRef) String() string {
	return fmt.Sprintf("%d %d R", r.Number, r.Generation)
}

// Null represents a PDF null object
type Null struct{}

func (n Null) Kind() Kind     { return KindNull }
func (n Null) String() string { return "null" }

// Bool represents a PDF boolean
type Bool bool

func (b Bool) Kind() Kind { return KindBool }
func (b Bool) String() string {
	if b {
		return "true"
	}
	return "false"
}

// Int represents a PDF integer
type Int int64

func (i Int) Kind() Kind     { return KindInt }
func (i Int) String() string { return strconv.FormatInt(int64(i), 10) }

// Real represents a PDF real number
type Real float64

func (r Real) Kind() Kind     { return KindReal }
func (r Real) String() string { return strconv.FormatFloat(float64(r), 'f', -1, 64) }

// String represents a PDF string. The value holds the decoded bytes of a
// literal or hexadecimal string.
type String string

func (s String) Kind() Kind     { return KindString }
func (s String) String() string { return string(s) }

// Name represents a PDF name without the leading slash
type Name string

func (n Name) Kind() Kind     { return KindName }
func (n Name) String() string { return "/" + string(n) }

// Array represents a PDF array
type Array []Object

func (a Array) Kind() Kind { return KindArray }
func (a Array) String() string {
	parts := make([]string, 0, len(a))
	for _, obj := range a {
		if obj == nil {
			parts = append(parts, "null")
			continue
		}
		parts = append(parts, obj.String())
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// Len returns the length of the array
func (a Array) Len() int {
	return len(a)
}

// Get retrieves an element at the given index
func (a Array) Get(index int) Object {
	if index < 0 || index >= len(a) {
		return nil
	}
	return a[index]
}

// Dict represents a PDF dictionary. Enumeration through Keys and Range is
// always in ascending key order.
type Dict map[string]Object

func (d Dict) Kind() Kind { return KindDict }
func (d Dict) String() string {
	parts := make([]string, 0, len(d))
	d.Range(func(key string, val Object) bool {
		if val == nil {
			val = Null{}
		}
		parts = append(parts, fmt.Sprintf("/%s %s", key, val.String()))
		return true
	})
	return "<<" + strings.Join(parts, " ") + ">>"
}

// Get retrieves a value from the dictionary
func (d Dict) Get(key string) Object {
	return d[key]
}

// Has checks if a key exists in the dictionary
func (d Dict) Has(key string) bool {
	_, ok := d[key]
	return ok
}

// Len returns the number of entries
func (d Dict) Len() int {
	return len(d)
}

// Keys returns all keys in ascending order
func (d Dict) Keys() []string {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Range calls fn for every entry in key order until fn returns false
func (d Dict) Range(fn func(key string, val Object) bool) {
	for _, k := range d.Keys() {
		if !fn(k, d[k]) {
			return
		}
	}
}

// GetName retrieves a name value
func (d Dict) GetName(key string) (Name, bool) {
	n, ok := d[key].(Name)
	return n, ok
}

// GetInt retrieves an integer value
func (d Dict) GetInt(key string) (Int, bool) {
	i, ok := d[key].(Int)
	return i, ok
}

// GetDict retrieves a dictionary value
func (d Dict) GetDict(key string) (Dict, bool) {
	dict, ok := d[key].(Dict)
	return dict, ok
}

// GetArray retrieves an array value
func (d Dict) GetArray(key string) (Array, bool) {
	arr, ok := d[key].(Array)
	return arr, ok
}

// GetReference retrieves an indirect reference
func (d Dict) GetReference(key string) (Reference, bool) {
	ref, ok := d[key].(Reference)
	return ref, ok
}

// Stream represents a PDF stream: a dictionary and its raw, still-encoded
// payload.
type Stream struct {
	Dict Dict
	Data []byte
}

func (s *Stream) Kind() Kind { return KindStream }
func (s *Stream) String() string {
	return fmt.Sprintf("stream %s (%d bytes)", s.Dict.String(), len(s.Data))
}

// Reference names an indirect object by identity
type Reference struct {
	Number     uint32
	Generation uint16
}

func (r Reference) Kind() Kind { return KindReference }
func (r Reference) String() string {
	return fmt.Sprintf("%d %d R", r.Number, r.Generation)
}

// Ref returns the identity the reference points at
func (r Reference) Ref() ObjectRef {
	return ObjectRef{Number: r.Number, Generation: r.Generation}
}

// IndirectObject pairs a parsed object with its identity
type IndirectObject struct {
	Ref    ObjectRef
	Object Object
}
