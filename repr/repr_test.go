package repr

import (
	"testing"

	"github.com/privacybydesign/zkproto/big"
	"github.com/privacybydesign/zkproto/cbor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTree() Representation {
	return Object{
		"announcement": NewInt(big.NewInt(12345)),
		"negative":     Int64(-7),
		"zero":         Int64(0),
		"name":         String("prover"),
		"raw":          Bytes{0, 1, 2, 255},
		"list": List{
			Int64(1),
			Object{"nested": String("x")},
			List{},
		},
		"empty": Object{},
	}
}

func TestRoundTrip(t *testing.T) {
	tree := sampleTree()
	bts, err := Marshal(tree)
	require.NoError(t, err)

	decoded, err := Unmarshal(bts)
	require.NoError(t, err)
	assert.True(t, Equal(tree, decoded), "tree changed after round trip")

	again, err := Marshal(decoded)
	require.NoError(t, err)
	assert.Equal(t, bts, again, "encoding is not deterministic")
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal(Int64(3), NewInt(big.NewInt(3))))
	assert.False(t, Equal(Int64(3), Int64(4)))
	assert.False(t, Equal(Int64(3), String("3")))
	assert.False(t, Equal(List{Int64(1)}, List{Int64(1), Int64(2)}))
	assert.False(t, Equal(Object{"a": Int64(1)}, Object{"b": Int64(1)}))
	assert.True(t, Equal(Bytes(nil), Bytes{}))
	assert.True(t, Equal(nil, nil))
	assert.False(t, Equal(nil, Int64(0)))
}

func TestAccessors(t *testing.T) {
	o, err := AsObject(sampleTree())
	require.NoError(t, err)

	v, err := o.IntField("announcement")
	require.NoError(t, err)
	assert.Equal(t, int64(12345), v.Int64())

	bts, err := o.BytesField("raw")
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 1, 2, 255}, bts)

	l, err := o.ListField("list")
	require.NoError(t, err)
	assert.Len(t, l, 3)

	_, err = o.IntField("name")
	derr, ok := AsDecodeError(err)
	require.True(t, ok, "expected a decode error")
	assert.Equal(t, "name", derr.Path)

	_, err = o.Field("missing")
	derr, ok = AsDecodeError(err)
	require.True(t, ok)
	assert.Equal(t, "missing", derr.Path)

	assert.Equal(t, []string{"announcement", "empty", "list", "name", "negative", "raw", "zero"}, o.Names())
}

func TestIntIsCopied(t *testing.T) {
	x := big.NewInt(5)
	leaf := NewInt(x)
	x.SetInt64(6)
	assert.Equal(t, int64(5), leaf.Value().Int64())
	leaf.Value().SetInt64(7)
	assert.Equal(t, int64(5), leaf.Value().Int64())
}

func TestUnmarshalGarbage(t *testing.T) {
	_, err := Unmarshal([]byte{0xff, 0x00, 0x13})
	_, ok := AsDecodeError(err)
	assert.True(t, ok, "garbage should give a decode error, got %v", err)

	_, err = Unmarshal(nil)
	_, ok = AsDecodeError(err)
	assert.True(t, ok)
}

func TestUnmarshalNonCanonical(t *testing.T) {
	for _, n := range []node{
		{Kind: 0},
		{Kind: 42},
		{Kind: KindInt, Int: []byte{0, 1}},
		{Kind: KindInt, Neg: true},
		{Kind: KindString, Str: "a", Bytes: []byte{1}},
		{Kind: KindList, Obj: map[string]node{"a": {Kind: KindString}}},
		{Kind: KindObject, Obj: map[string]node{"a": {Kind: 9}}},
	} {
		bts, err := marshalNode(n)
		require.NoError(t, err)
		_, err = Unmarshal(bts)
		_, ok := AsDecodeError(err)
		assert.True(t, ok, "node %+v accepted", n)
	}
}

func TestNestedErrorPath(t *testing.T) {
	bts, err := marshalNode(node{Kind: KindObject, Obj: map[string]node{
		"outer": {Kind: KindList, List: []node{{Kind: KindString}, {Kind: 77}}},
	}})
	require.NoError(t, err)
	_, err = Unmarshal(bts)
	derr, ok := AsDecodeError(err)
	require.True(t, ok)
	assert.Equal(t, "outer.1", derr.Path)
}

func TestMarshalNil(t *testing.T) {
	_, err := Marshal(nil)
	assert.Error(t, err)
	_, err = Marshal(List{nil})
	assert.Error(t, err)
}

func marshalNode(n node) ([]byte, error) {
	return cbor.Marshal(n)
}
