package core

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRawValue_Kind(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want Kind
	}{
		{"null", []byte{0x30, 0x00}, KindNull},
		{"undefined", []byte{0x3C, 0x00}, KindUndefined},
		{"false", []byte{0x34, 0x00}, KindFalse},
		{"true", []byte{0x38, 0x00}, KindTrue},
		{"positive short", []byte{0x04, 0xD2}, KindShort},
		{"negative short", []byte{0x0F, 0xFF}, KindShort},
		{"signed int", []byte{0x11, 0x78, 0xEC}, KindInt},
		{"unsigned int", []byte{0x19, 0xA0, 0x86, 0x01}, KindUnsignedInt},
		{"float", []byte{0x20, 0x00, 0x00, 0x00, 0x60, 0x40}, KindFloat},
		{"double", []byte{0x28, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x04, 0x40}, KindDouble},
		{"string", []byte{0x42, 0x68, 0x69}, KindString},
		{"data", []byte{0x52, 0xAA, 0xBB}, KindData},
		{"array", []byte{0x60, 0x00}, KindArray},
		{"dict", []byte{0x70, 0x00}, KindDict},
		{"pointer", []byte{0x80, 0x03}, KindPointer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewRawValue(tt.data, 0)
			require.Equal(t, tt.want, v.Kind())
		})
	}
}

func TestRawValue_ToInt_Short(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want int64
	}{
		{"positive short 1234", []byte{0x04, 0xD2}, 1234},
		{"negative short -5", []byte{0x0F, 0xFB}, -5},
		{"zero", []byte{0x00, 0x00}, 0},
		{"max positive short 2047", []byte{0x07, 0xFF}, 2047},
		{"min negative short -2048", []byte{0x08, 0x00}, -2048},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewRawValue(tt.data, 0)
			require.Equal(t, tt.want, v.ToInt())
		})
	}
}

func TestRawValue_ToInt_Wide(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want int64
	}{
		{"positive int 100000", []byte{0x12, 0xA0, 0x86, 0x01}, 100000},
		{"negative int -5000", []byte{0x11, 0x78, 0xEC}, -5000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewRawValue(tt.data, 0)
			require.Equal(t, tt.want, v.ToInt())
		})
	}
}

func TestRawValue_ToBool(t *testing.T) {
	require.True(t, NewRawValue([]byte{0x38, 0x00}, 0).ToBool())
	require.False(t, NewRawValue([]byte{0x34, 0x00}, 0).ToBool())
	require.False(t, NewRawValue([]byte{0x00, 0x00}, 0).ToBool())
	require.True(t, NewRawValue([]byte{0x00, 0x01}, 0).ToBool())
}

func TestRawValue_ToDouble(t *testing.T) {
	v := NewRawValue([]byte{0x20, 0x00, 0x00, 0x00, 0x60, 0x40}, 0)
	require.InDelta(t, 3.5, v.ToDouble(), 0.0001)

	v = NewRawValue([]byte{0x28, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x04, 0x40}, 0)
	require.InDelta(t, 2.5, v.ToDouble(), 0.0001)
}

func TestRawValue_ToStr(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"empty string", []byte{0x40, 0x00}, ""},
		{"one char", []byte{0x41, 0x61}, "a"},
		{"short string", []byte{0x42, 0x68, 0x69}, "hi"},
		{"14 byte string", append([]byte{0x4E}, []byte("abcdefghijklmn")...), "abcdefghijklmn"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewRawValue(tt.data, 0)
			require.Equal(t, tt.want, v.ToStr())
		})
	}
}

func TestRawValue_ToStr_Varint(t *testing.T) {
	payload := make([]byte, 20)
	for i := range payload {
		payload[i] = byte('a' + i%26)
	}
	data := append([]byte{0x4F, 20}, payload...)

	v := NewRawValue(data, 0)
	require.Equal(t, string(payload), v.ToStr())
}

func TestRawValue_RequiredSize(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want int
	}{
		{"null", []byte{0x30, 0x00}, 2},
		{"short", []byte{0x04, 0xD2}, 2},
		{"int 2 payload bytes", []byte{0x11, 0x78, 0xEC}, 3},
		{"int 3 payload bytes", []byte{0x12, 0xA0, 0x86, 0x01}, 4},
		{"float", []byte{0x20, 0x00, 0x00, 0x00, 0x60, 0x40}, 6},
		{"double", []byte{0x28, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x04, 0x40}, 10},
		{"string two chars", []byte{0x42, 0x68, 0x69}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewRawValue(tt.data, 0)
			require.Equal(t, tt.want, v.RequiredSize())
		})
	}
}
