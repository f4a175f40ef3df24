package writer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/scigolib/fleece/internal/core"
)

func appendValue(t *testing.T, v any) []byte {
	t.Helper()
	enc, err := toEncodable(v)
	require.NoError(t, err)
	return appendFleeceBytes(enc)
}

func TestEncodable_Short_RoundTrip(t *testing.T) {
	for _, n := range []int64{0, 1, -1, 2047, -2048} {
		bytes := appendValue(t, n)
		require.Len(t, bytes, 2)
		v := core.NewRawValue(bytes, 0)
		require.Equal(t, core.KindShort, v.Kind())
		require.Equal(t, n, v.ToInt())
	}
}

func TestEncodable_Short_ConjunctionBoundary(t *testing.T) {
	// A disjunction bug (n <= 2047 || n >= -2048) is always true and would
	// wrongly route every int64 through the Short path. 2048 and -2049
	// must fall through to the multi-byte Int encoding.
	for _, n := range []int64{2048, -2049} {
		bytes := appendValue(t, n)
		v := core.NewRawValue(bytes, 0)
		require.NotEqual(t, core.KindShort, v.Kind())
		require.Equal(t, n, v.ToInt())
	}
}

func TestEncodable_Int_MinimalByteCount(t *testing.T) {
	bytes := appendValue(t, int64(300))
	require.Equal(t, 3, len(bytes)) // 1 header + 2 payload bytes
	v := core.NewRawValue(bytes, 0)
	require.Equal(t, int64(300), v.ToInt())

	bytes = appendValue(t, int64(-300))
	v = core.NewRawValue(bytes, 0)
	require.Equal(t, int64(-300), v.ToInt())
}

func TestEncodable_Uint(t *testing.T) {
	bytes := appendValue(t, uint64(70000))
	v := core.NewRawValue(bytes, 0)
	require.Equal(t, core.KindUnsignedInt, v.Kind())
	require.Equal(t, uint64(70000), v.ToUnsignedInt())
}

func TestEncodable_Float32(t *testing.T) {
	bytes := appendValue(t, float32(3.5))
	require.Len(t, bytes, 6)
	v := core.NewRawValue(bytes, 0)
	require.Equal(t, core.KindFloat, v.Kind())
	require.InDelta(t, 3.5, v.ToDouble(), 0.0001)
}

func TestEncodable_Float64(t *testing.T) {
	bytes := appendValue(t, 3.14159265)
	require.Len(t, bytes, 10)
	v := core.NewRawValue(bytes, 0)
	require.Equal(t, core.KindDouble, v.Kind())
	require.InDelta(t, 3.14159265, v.ToDouble(), 1e-9)
}

func TestEncodable_Bool(t *testing.T) {
	bytes := appendValue(t, true)
	v := core.NewRawValue(bytes, 0)
	require.Equal(t, core.KindTrue, v.Kind())
	require.True(t, v.ToBool())

	bytes = appendValue(t, false)
	v = core.NewRawValue(bytes, 0)
	require.Equal(t, core.KindFalse, v.Kind())
}

func TestEncodable_Null(t *testing.T) {
	bytes := appendValue(t, nil)
	v := core.NewRawValue(bytes, 0)
	require.Equal(t, core.KindNull, v.Kind())
}

func TestEncodable_String_InlineSizeBoundary(t *testing.T) {
	for _, n := range []int{0, 1, 2, 14} {
		s := strings.Repeat("a", n)
		bytes := appendValue(t, s)
		require.Equal(t, 1+n, len(bytes))
		v := core.NewRawValue(bytes, 0)
		require.Equal(t, s, v.ToStr())
	}
}

func TestEncodable_String_VarintLengthBoundary(t *testing.T) {
	for _, n := range []int{15, 16, 300} {
		s := strings.Repeat("b", n)
		bytes := appendValue(t, s)
		v := core.NewRawValue(bytes, 0)
		require.Equal(t, s, v.ToStr())
	}
}

func TestEncodable_Data(t *testing.T) {
	data := []byte{1, 2, 3, 4, 5}
	bytes := appendValue(t, data)
	v := core.NewRawValue(bytes, 0)
	require.Equal(t, core.KindData, v.Kind())
	require.Equal(t, data, v.ToData())
}

func TestEncodable_UnsupportedType(t *testing.T) {
	_, err := toEncodable(struct{}{})
	require.ErrorIs(t, err, ErrUnsupportedType)
}
