package writer

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/scigolib/fleece/internal/core"
	"github.com/scigolib/fleece/internal/structures"
)

func TestEncoder_SingletonRoot(t *testing.T) {
	e := NewEncoder()
	require.NoError(t, e.WriteValue(int64(1234)))
	buf, err := e.Finish()
	require.NoError(t, err)
	require.Len(t, buf, 2)

	root, err := core.FromBytes(buf)
	require.NoError(t, err)
	require.Equal(t, int64(1234), root.ToInt())
}

func TestEncoder_SecondTopLevelWriteFails(t *testing.T) {
	e := NewEncoder()
	require.NoError(t, e.WriteValue(int64(1)))
	require.ErrorIs(t, e.WriteValue(int64(2)), ErrCollectionNotOpen)
}

func TestEncoder_Array(t *testing.T) {
	e := NewEncoder()
	require.NoError(t, e.BeginArray(3))
	require.NoError(t, e.WriteValue(int64(10)))
	require.NoError(t, e.WriteValue("hi"))
	require.NoError(t, e.WriteValue(true))
	require.NoError(t, e.EndArray())
	buf, err := e.Finish()
	require.NoError(t, err)

	root, err := core.FromBytes(buf)
	require.NoError(t, err)
	require.Equal(t, core.KindArray, root.Kind())
	a := root.AsArray()
	require.Equal(t, 3, a.Len())
	v0, _ := a.Get(0)
	require.Equal(t, int64(10), v0.ToInt())
	v1, _ := a.Get(1)
	require.Equal(t, "hi", v1.ToStr())
	v2, _ := a.Get(2)
	require.True(t, v2.ToBool())
}

func TestEncoder_NestedArray(t *testing.T) {
	e := NewEncoder()
	require.NoError(t, e.BeginArray(1))
	require.NoError(t, e.BeginArray(2))
	require.NoError(t, e.WriteValue(int64(1)))
	require.NoError(t, e.WriteValue(int64(2)))
	require.NoError(t, e.EndArray())
	require.NoError(t, e.EndArray())
	buf, err := e.Finish()
	require.NoError(t, err)

	root, err := core.FromBytes(buf)
	require.NoError(t, err)
	outer := root.AsArray()
	require.Equal(t, 1, outer.Len())
	inner, ok := outer.Get(0)
	require.True(t, ok)
	require.Equal(t, core.KindArray, inner.Kind())
	require.Equal(t, 2, inner.AsArray().Len())
}

func TestEncoder_EmptyArrayIsInline(t *testing.T) {
	e := NewEncoder()
	require.NoError(t, e.BeginArray(0))
	require.NoError(t, e.EndArray())
	buf, err := e.Finish()
	require.NoError(t, err)
	// An empty array's encoding is exactly 2 bytes, so the whole document
	// is that header with no separate pointer hop.
	require.Len(t, buf, 2)
	root, err := core.FromBytes(buf)
	require.NoError(t, err)
	require.Equal(t, 0, root.AsArray().Len())
}

func TestEncoder_Dict(t *testing.T) {
	e := NewEncoder()
	require.NoError(t, e.BeginDict(2))
	require.NoError(t, e.WriteKey("b"))
	require.NoError(t, e.WriteValue(int64(2)))
	require.NoError(t, e.WriteKey("a"))
	require.NoError(t, e.WriteValue(int64(1)))
	require.NoError(t, e.EndDict())
	buf, err := e.Finish()
	require.NoError(t, err)

	root, err := core.FromBytes(buf)
	require.NoError(t, err)
	d := root.AsDict()
	va, ok := d.Get("a", nil)
	require.True(t, ok)
	require.Equal(t, int64(1), va.ToInt())
	vb, ok := d.Get("b", nil)
	require.True(t, ok)
	require.Equal(t, int64(2), vb.ToInt())
}

func TestEncoder_DictStateMachine(t *testing.T) {
	e := NewEncoder()
	require.NoError(t, e.BeginDict(1))
	require.ErrorIs(t, e.WriteValue(int64(1)), ErrDictWaitingForKey)
	require.NoError(t, e.WriteKey("k"))
	require.ErrorIs(t, e.WriteKey("k2"), ErrDictWaitingForValue)
	require.ErrorIs(t, e.EndDict(), ErrDictWaitingForValue)
	require.NoError(t, e.WriteValue(int64(1)))
	require.NoError(t, e.EndDict())
}

func TestEncoder_MismatchedCloseErrors(t *testing.T) {
	e := NewEncoder()
	require.NoError(t, e.BeginArray(0))
	require.ErrorIs(t, e.EndDict(), ErrDictNotOpen)
	require.NoError(t, e.EndArray())

	e2 := NewEncoder()
	require.NoError(t, e2.BeginDict(0))
	require.ErrorIs(t, e2.EndArray(), ErrArrayNotOpen)
}

func TestEncoder_EndWithoutOpenCollection(t *testing.T) {
	e := NewEncoder()
	require.ErrorIs(t, e.EndArray(), ErrCollectionNotOpen)
}

func TestEncoder_PointerSharing(t *testing.T) {
	e := NewEncoder()
	require.NoError(t, e.BeginArray(3))
	require.NoError(t, e.WriteValue("hello"))
	require.NoError(t, e.WriteValue("hello"))
	require.NoError(t, e.WriteValue("hello"))
	require.NoError(t, e.EndArray())
	buf, err := e.Finish()
	require.NoError(t, err)

	require.Equal(t, 1, bytes.Count(buf, []byte("hello")))

	root, err := core.FromBytes(buf)
	require.NoError(t, err)
	a := root.AsArray()
	for i := 0; i < 3; i++ {
		v, ok := a.Get(i)
		require.True(t, ok)
		require.Equal(t, "hello", v.ToStr())
	}
}

func TestEncodeContainer_WidePromotionBoundary(t *testing.T) {
	child := slot{out: true, outAt: 0}

	narrowStart := uint64(0x3FFE - 2)
	encoded, err := encodeContainer(narrowStart, core.TagArray, []slot{child}, 1)
	require.NoError(t, err)
	require.Len(t, encoded, 4)
	require.Zero(t, encoded[0]&0x08)

	wideStart := narrowStart + 2
	encoded, err = encodeContainer(wideStart, core.TagArray, []slot{child}, 1)
	require.NoError(t, err)
	require.Len(t, encoded, 6)
	require.NotZero(t, encoded[0]&0x08)
}

func TestEncoder_SharedKeysRoundTrip(t *testing.T) {
	sk := structures.New()
	_, _ = sk.EncodeAndInsert("id")
	_, _ = sk.EncodeAndInsert("name")
	_, _ = sk.EncodeAndInsert("age")

	e := NewEncoder()
	e.SetSharedKeys(sk)
	require.NoError(t, e.BeginDict(3))
	require.NoError(t, e.WriteKey("id"))
	require.NoError(t, e.WriteValue(int64(1)))
	require.NoError(t, e.WriteKey("name"))
	require.NoError(t, e.WriteValue("A"))
	require.NoError(t, e.WriteKey("age"))
	require.NoError(t, e.WriteValue(int64(2)))
	require.NoError(t, e.EndDict())
	buf, err := e.Finish()
	require.NoError(t, err)

	root, err := core.FromBytes(buf)
	require.NoError(t, err)
	d := root.AsDict()

	it := d.Iter()
	var keyKinds []core.Kind
	for {
		elem, ok := it.Next()
		if !ok {
			break
		}
		keyKinds = append(keyKinds, elem.Key.Kind())
	}
	require.Equal(t, []core.Kind{core.KindShort, core.KindShort, core.KindShort}, keyKinds)

	v, ok := d.Get("name", sk)
	require.True(t, ok)
	require.Equal(t, "A", v.ToStr())

	_, ok = d.Get("name", nil)
	require.False(t, ok)
}

func TestEncoder_ReuseAfterFinishFails(t *testing.T) {
	e := NewEncoder()
	require.NoError(t, e.WriteValue(int64(1)))
	_, err := e.Finish()
	require.NoError(t, err)

	require.ErrorIs(t, e.WriteValue(int64(2)), ErrIO)
	_, err = e.Finish()
	require.ErrorIs(t, err, ErrIO)
}

func TestEncoder_InvalidUtf8KeyRejected(t *testing.T) {
	e := NewEncoder()
	require.NoError(t, e.BeginDict(1))
	require.ErrorIs(t, e.WriteKey(string([]byte{0xff, 0xfe})), ErrSharedKeysInvalidKey)
}

func TestEncoder_UnsupportedValueType(t *testing.T) {
	e := NewEncoder()
	require.ErrorIs(t, e.WriteValue(struct{}{}), ErrUnsupportedType)
}

func TestEncoder_FinishScoped(t *testing.T) {
	sk := structures.New()
	_, _ = sk.EncodeAndInsert("k")

	e := NewEncoder()
	e.SetSharedKeys(sk)
	require.NoError(t, e.BeginDict(1))
	require.NoError(t, e.WriteKey("k"))
	require.NoError(t, e.WriteValue(int64(1)))
	require.NoError(t, e.EndDict())
	buf, err := e.FinishScoped()
	require.NoError(t, err)
	defer structures.Global().Remove(buf)

	found, ok := structures.Global().FindSharedKeys(&buf[0])
	require.True(t, ok)
	require.Same(t, sk, found)
}
