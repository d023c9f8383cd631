package repr

import (
	"strconv"

	"github.com/go-errors/errors"
	"github.com/privacybydesign/zkproto/big"
	"github.com/privacybydesign/zkproto/cbor"
)

// node is the CBOR shape of a tree node. Exactly the fields belonging to Kind are set.
type node struct {
	Kind  Kind            `cbor:"k"`
	Int   []byte          `cbor:"i,omitempty"`
	Neg   bool            `cbor:"n,omitempty"`
	Str   string          `cbor:"s,omitempty"`
	Bytes []byte          `cbor:"b,omitempty"`
	List  []node          `cbor:"l,omitempty"`
	Obj   map[string]node `cbor:"o,omitempty"`
}

// Marshal encodes the tree r into deterministic CBOR.
func Marshal(r Representation) ([]byte, error) {
	n, err := toNode(r)
	if err != nil {
		return nil, err
	}
	return cbor.Marshal(n)
}

// Unmarshal decodes a tree encoded by Marshal. All failures are DecodeErrors.
func Unmarshal(data []byte) (Representation, error) {
	var n node
	if err := cbor.Unmarshal(data, &n); err != nil {
		return nil, decodeErrorf("", "invalid encoding: %v", err)
	}
	return fromNode(&n)
}

func toNode(r Representation) (node, error) {
	switch x := r.(type) {
	case Object:
		n := node{Kind: KindObject, Obj: make(map[string]node, len(x))}
		for name, child := range x {
			c, err := toNode(child)
			if err != nil {
				return node{}, err
			}
			n.Obj[name] = c
		}
		return n, nil
	case List:
		n := node{Kind: KindList, List: make([]node, len(x))}
		for i, child := range x {
			c, err := toNode(child)
			if err != nil {
				return node{}, err
			}
			n.List[i] = c
		}
		return n, nil
	case Int:
		v := x.Value()
		return node{Kind: KindInt, Int: v.Bytes(), Neg: v.Sign() < 0}, nil
	case String:
		return node{Kind: KindString, Str: string(x)}, nil
	case Bytes:
		return node{Kind: KindBytes, Bytes: []byte(x)}, nil
	case nil:
		return node{}, errors.New("cannot marshal empty representation")
	default:
		return node{}, errors.Errorf("cannot marshal representation of type %T", r)
	}
}

func fromNode(n *node) (Representation, error) {
	if n.Kind != KindInt && (len(n.Int) > 0 || n.Neg) ||
		n.Kind != KindString && n.Str != "" ||
		n.Kind != KindBytes && len(n.Bytes) > 0 ||
		n.Kind != KindList && len(n.List) > 0 ||
		n.Kind != KindObject && len(n.Obj) > 0 {
		return nil, decodeErrorf("", "%s node carries foreign fields", n.Kind)
	}

	switch n.Kind {
	case KindObject:
		o := make(Object, len(n.Obj))
		for name, child := range n.Obj {
			child := child
			c, err := fromNode(&child)
			if err != nil {
				return nil, prefixed(name, err)
			}
			o[name] = c
		}
		return o, nil
	case KindList:
		l := make(List, len(n.List))
		for i := range n.List {
			c, err := fromNode(&n.List[i])
			if err != nil {
				return nil, prefixed(strconv.Itoa(i), err)
			}
			l[i] = c
		}
		return l, nil
	case KindInt:
		if len(n.Int) > 0 && n.Int[0] == 0 {
			return nil, decodeErrorf("", "integer has leading zero bytes")
		}
		if n.Neg && len(n.Int) == 0 {
			return nil, decodeErrorf("", "negative zero")
		}
		v := new(big.Int).SetBytes(n.Int)
		if n.Neg {
			v.Neg(v)
		}
		return Int{value: v}, nil
	case KindString:
		return String(n.Str), nil
	case KindBytes:
		return Bytes(append([]byte{}, n.Bytes...)), nil
	default:
		return nil, decodeErrorf("", "unknown node kind %d", n.Kind)
	}
}

