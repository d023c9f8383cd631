// Package repr implements the structured trees in which protocol messages are exchanged.
//
// A tree node is a named-field Object, an ordered List, or a leaf: an arbitrary
// precision Int, a String or a Bytes value. Every announcement, challenge, response
// and proof knows how to turn itself into such a tree (Representable), and every
// protocol knows how to recreate its messages from one. Trees are encoded on the wire
// with deterministic CBOR (see Marshal).
package repr

import (
	"bytes"
	"sort"

	"github.com/privacybydesign/zkproto/big"
)

// Kind identifies the type of a tree node.
type Kind uint8

const (
	KindObject Kind = iota + 1
	KindList
	KindInt
	KindString
	KindBytes
)

func (k Kind) String() string {
	switch k {
	case KindObject:
		return "object"
	case KindList:
		return "list"
	case KindInt:
		return "int"
	case KindString:
		return "string"
	case KindBytes:
		return "bytes"
	default:
		return "unknown"
	}
}

type (
	// Representation is a node of a message tree. The set of implementations is closed.
	Representation interface {
		Kind() Kind
	}

	// Representable is implemented by all values that can be sent to another party.
	Representable interface {
		Representation() Representation
	}

	// Object is a node with named fields.
	Object map[string]Representation

	// List is a node with ordered children.
	List []Representation

	// Int is an integer leaf. Use NewInt to construct one.
	Int struct {
		value *big.Int
	}

	// String is a text leaf.
	String string

	// Bytes is a byte string leaf.
	Bytes []byte
)

func (Object) Kind() Kind { return KindObject }
func (List) Kind() Kind   { return KindList }
func (Int) Kind() Kind    { return KindInt }
func (String) Kind() Kind { return KindString }
func (Bytes) Kind() Kind  { return KindBytes }

// NewInt returns an integer leaf holding a copy of x.
func NewInt(x *big.Int) Int {
	return Int{value: new(big.Int).Set(x)}
}

// Int64 returns an integer leaf holding x.
func Int64(x int64) Int {
	return Int{value: big.NewInt(x)}
}

// Value returns a copy of the integer held by the leaf.
func (i Int) Value() *big.Int {
	if i.value == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Set(i.value)
}

// Names returns the field names of the object in sorted order.
func (o Object) Names() []string {
	names := make([]string, 0, len(o))
	for name := range o {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Field returns the named field, or a DecodeError if it is absent.
func (o Object) Field(name string) (Representation, error) {
	r, ok := o[name]
	if !ok || r == nil {
		return nil, decodeErrorf(name, "missing field")
	}
	return r, nil
}

// ObjectField returns the named field, which must be an object.
func (o Object) ObjectField(name string) (Object, error) {
	r, err := o.Field(name)
	if err != nil {
		return nil, err
	}
	res, err := AsObject(r)
	return res, prefixed(name, err)
}

// ListField returns the named field, which must be a list.
func (o Object) ListField(name string) (List, error) {
	r, err := o.Field(name)
	if err != nil {
		return nil, err
	}
	res, err := AsList(r)
	return res, prefixed(name, err)
}

// IntField returns the value of the named field, which must be an integer.
func (o Object) IntField(name string) (*big.Int, error) {
	r, err := o.Field(name)
	if err != nil {
		return nil, err
	}
	res, err := AsInt(r)
	return res, prefixed(name, err)
}

// BytesField returns the value of the named field, which must be a byte string.
func (o Object) BytesField(name string) ([]byte, error) {
	r, err := o.Field(name)
	if err != nil {
		return nil, err
	}
	res, err := AsBytes(r)
	return res, prefixed(name, err)
}

// AsObject asserts that r is an object.
func AsObject(r Representation) (Object, error) {
	o, ok := r.(Object)
	if !ok {
		return nil, kindError(r, KindObject)
	}
	return o, nil
}

// AsList asserts that r is a list.
func AsList(r Representation) (List, error) {
	l, ok := r.(List)
	if !ok {
		return nil, kindError(r, KindList)
	}
	return l, nil
}

// AsInt asserts that r is an integer leaf and returns a copy of its value.
func AsInt(r Representation) (*big.Int, error) {
	i, ok := r.(Int)
	if !ok {
		return nil, kindError(r, KindInt)
	}
	return i.Value(), nil
}

// AsString asserts that r is a text leaf.
func AsString(r Representation) (string, error) {
	s, ok := r.(String)
	if !ok {
		return "", kindError(r, KindString)
	}
	return string(s), nil
}

// AsBytes asserts that r is a byte string leaf and returns a copy of its contents.
func AsBytes(r Representation) ([]byte, error) {
	b, ok := r.(Bytes)
	if !ok {
		return nil, kindError(r, KindBytes)
	}
	return append([]byte{}, b...), nil
}

// Equal reports whether a and b are structurally identical trees.
func Equal(a, b Representation) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch x := a.(type) {
	case Object:
		y := b.(Object)
		if len(x) != len(y) {
			return false
		}
		for name, child := range x {
			other, ok := y[name]
			if !ok || !Equal(child, other) {
				return false
			}
		}
		return true
	case List:
		y := b.(List)
		if len(x) != len(y) {
			return false
		}
		for i := range x {
			if !Equal(x[i], y[i]) {
				return false
			}
		}
		return true
	case Int:
		return x.Value().Cmp(b.(Int).Value()) == 0
	case String:
		return x == b.(String)
	case Bytes:
		return bytes.Equal(x, b.(Bytes))
	}
	return false
}

func kindError(r Representation, expected Kind) error {
	if r == nil {
		return decodeErrorf("", "expected %s, got nothing", expected)
	}
	return decodeErrorf("", "expected %s, got %s", expected, r.Kind())
}
