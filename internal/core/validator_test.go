package core

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// arrayDocument wraps narrowShortArray in a trailing pointer, the layout
// FromBytes expects for any root whose encoding is longer than 2 bytes:
// the array occupies bytes [0,6), and a narrow pointer at [6,8) points
// back 6 bytes to it (offset>>1=3, top bits 0b10 -> 0x8003).
func arrayDocument() []byte {
	doc := append([]byte{}, narrowShortArray()...)
	return append(doc, 0x80, 0x03)
}

// dictDocument wraps stringKeyDict the same way: the dict occupies bytes
// [0,10), and a narrow pointer at [10,12) points back 10 bytes to it
// (offset>>1=5 -> 0x8005).
func dictDocument() []byte {
	doc := append([]byte{}, stringKeyDict()...)
	return append(doc, 0x80, 0x05)
}

func TestFromBytes_Array(t *testing.T) {
	root, err := FromBytes(arrayDocument())
	require.NoError(t, err)
	require.Equal(t, KindArray, root.Kind())

	a := root.AsArray()
	require.Equal(t, 2, a.Len())
	v, ok := a.Get(0)
	require.True(t, ok)
	require.Equal(t, int64(10), v.ToInt())
}

func TestFromBytes_Dict(t *testing.T) {
	root, err := FromBytes(dictDocument())
	require.NoError(t, err)
	require.Equal(t, KindDict, root.Kind())

	d := root.AsDict()
	v, ok := d.Get("b", nil)
	require.True(t, ok)
	require.Equal(t, int64(2), v.ToInt())
}

func TestFromBytes_TwoByteSingleton(t *testing.T) {
	root, err := FromBytes([]byte{0x04, 0xD2})
	require.NoError(t, err)
	require.Equal(t, int64(1234), root.ToInt())
}

func TestFromBytes_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"odd length", []byte{0x00, 0x0A, 0x00}},
		{"truncated array", []byte{
			0x60, 0x02, 0x00, 0x0A, // array header claims 2 elements, room for 1
			0x80, 0x02, // root pointer, offset=4, targets array at pos 0
		}},
		{"external pointer root", []byte{0x00, 0x0A, 0xC0, 0x01}},
		{"invalid utf8 string singleton", []byte{0x41, 0xFF}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromBytes(tt.data)
			require.Error(t, err)
		})
	}
}

func TestFromBytes_ErrorTaxonomy(t *testing.T) {
	_, err := FromBytes([]byte{0x41, 0xFF})
	require.ErrorIs(t, err, ErrInvalidUtf8)

	_, err = FromBytes(nil)
	require.ErrorIs(t, err, ErrInputIncorrectlySized)

	_, err = FromBytes([]byte{0x00, 0x0A, 0xC0, 0x01})
	require.ErrorIs(t, err, ErrPointerExternalUnsupported)
}

func TestFromBytesUnchecked(t *testing.T) {
	root := FromBytesUnchecked(arrayDocument())
	require.Equal(t, KindArray, root.Kind())
	require.Equal(t, 2, root.AsArray().Len())
}
