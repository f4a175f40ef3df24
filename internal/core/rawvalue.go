package core

import (
	"encoding/binary"
	"math"
	"unicode/utf8"

	"github.com/scigolib/fleece/internal/utils"
)

// RawValue is a view into a single Fleece value header inside a shared
// backing buffer. It carries no lifetime-bearing identity of its own —
// just a slice and a position — so navigating to a child or sibling
// value is simply constructing a new RawValue over the same backing
// slice at a new position. This sidesteps the raw-pointer/transmute
// tricks the wire format's reference implementation uses.
type RawValue struct {
	data []byte
	pos  int
}

// NewRawValue constructs a RawValue at pos within data. It performs no
// validation; callers on untrusted input should run Validate first.
func NewRawValue(data []byte, pos int) RawValue {
	return RawValue{data: data, pos: pos}
}

// Pos returns this value's byte offset within its backing buffer.
func (v RawValue) Pos() int { return v.pos }

// Data returns the backing buffer this value was sliced from.
func (v RawValue) Data() []byte { return v.data }

// available is the number of bytes from pos to the end of the backing
// buffer — the rough equivalent of the reference implementation's
// `self.bytes.len()`, since RawValue there is always sliced to exactly
// what's available from its starting address.
func (v RawValue) available() int {
	return len(v.data) - v.pos
}

func (v RawValue) byteAt(i int) byte {
	return v.data[v.pos+i]
}

// Kind classifies this value's header byte.
func (v RawValue) Kind() Kind {
	return KindFromByte(v.byteAt(0))
}

// ToBool converts this value to a bool per Fleece's truthiness rules:
// False is false, everything else (including non-zero numbers) is true,
// except zero-valued numbers.
func (v RawValue) ToBool() bool {
	switch v.Kind() {
	case KindFalse:
		return false
	case KindTrue:
		return true
	case KindShort, KindInt, KindUnsignedInt, KindFloat, KindDouble:
		return v.ToInt() != 0
	default:
		return true
	}
}

// getShort reads the 12-bit payload out of a 2-byte Short/UnsignedShort
// header, masking off the 4-bit tag.
func (v RawValue) getShort() uint16 {
	return binary.BigEndian.Uint16(v.data[v.pos:v.pos+2]) & 0x0FFF
}

// ToInt converts this value to a signed 64-bit integer. Short values are
// sign-extended from their 12-bit payload via the 0x0800 sign-bit test.
func (v RawValue) ToInt() int64 {
	switch v.Kind() {
	case KindTrue:
		return 1
	case KindFalse:
		return 0
	case KindShort:
		i := v.getShort()
		if i&0x0800 != 0 {
			return int64(int16(i | 0xF000))
		}
		return int64(i)
	case KindInt, KindUnsignedInt:
		count := int(v.byteAt(0)&0x07) + 1
		var buf [8]byte
		copy(buf[:count], v.data[v.pos+1:v.pos+1+count])
		u := binary.LittleEndian.Uint64(buf[:])
		if count < 8 && v.Kind() == KindInt && buf[count-1]&0x80 != 0 {
			// Sign-extend the unused high bytes.
			for i := count; i < 8; i++ {
				buf[i] = 0xFF
			}
			u = binary.LittleEndian.Uint64(buf[:])
		}
		return int64(u)
	case KindFloat, KindDouble:
		return int64(v.ToDouble())
	default:
		return 0
	}
}

// ToUnsignedInt reinterprets ToInt's bit pattern as unsigned.
func (v RawValue) ToUnsignedInt() uint64 {
	return uint64(v.ToInt())
}

// ToDouble converts this value to a float64.
func (v RawValue) ToDouble() float64 {
	switch v.Kind() {
	case KindFloat:
		bits := binary.LittleEndian.Uint32(v.data[v.pos+2 : v.pos+6])
		return float64(math.Float32frombits(bits))
	case KindDouble:
		bits := binary.LittleEndian.Uint64(v.data[v.pos+2 : v.pos+10])
		return math.Float64frombits(bits)
	default:
		return float64(v.ToInt())
	}
}

// ToFloat converts this value to a float32, narrowing from ToDouble.
func (v RawValue) ToFloat() float32 {
	return float32(v.ToDouble())
}

// ToData returns the raw payload bytes of a String or Data value, or nil
// for any other kind.
func (v RawValue) ToData() []byte {
	switch v.Kind() {
	case KindString, KindData:
		return v.getData()
	default:
		return nil
	}
}

// ToStr returns the UTF-8 payload of a String value, or "" for any other
// kind or invalid UTF-8.
func (v RawValue) ToStr() string {
	if v.Kind() != KindString {
		return ""
	}
	b := v.getData()
	if !utf8.Valid(b) {
		return ""
	}
	return string(b)
}

// getData implements the size-nibble / varint-length string-and-data
// payload layout: sizes 0-14 are stored inline in the low nibble, and
// size 15 (0x0F) marks a following varint length.
func (v RawValue) getData() []byte {
	if v.available() == 0 {
		return nil
	}
	size := v.byteAt(0) & 0x0F
	if size == 0x0F {
		bytesRead, n := v.getVarint()
		if bytesRead == 0 {
			return nil
		}
		start := v.pos + 1 + bytesRead
		end := start + int(n)
		return v.data[start:end]
	}
	start := v.pos + 1
	end := start + int(size)
	return v.data[start:end]
}

// getVarint decodes the varint following this value's size-nibble
// marker byte, per utils.ReadVarint's (data[0]-is-marker) convention.
func (v RawValue) getVarint() (int, uint64) {
	end := v.available()
	if end > utils.VarintMaxLen+1 {
		end = utils.VarintMaxLen + 1
	}
	return utils.ReadVarint(v.data[v.pos : v.pos+end])
}

// RequiredSize returns the number of bytes this value's header (plus,
// for String/Data, its inline or varint-prefixed payload) occupies. For
// Array and Dict this is just the 2-byte header — it does not include
// the size of the elements, which live elsewhere in the postorder
// buffer and are only reachable via pointers or direct indexing.
func (v RawValue) RequiredSize() int {
	switch v.Kind() {
	case KindNull, KindUndefined, KindFalse, KindTrue, KindShort:
		return 2
	case KindInt, KindUnsignedInt:
		return 2 + int(v.byteAt(0)&0x07)
	case KindFloat:
		return 6
	case KindDouble:
		return 10
	case KindString, KindData:
		size := v.byteAt(0) & 0x0F
		if size != 0x0F {
			return 1 + int(size)
		}
		bytesRead, n := v.getVarint()
		if bytesRead == 0 {
			return 0
		}
		return 1 + bytesRead + int(n)
	case KindArray, KindDict:
		return 2
	case KindPointer:
		return 2
	default:
		return 0
	}
}

// AsPointer reinterprets this value as a RawPointer. The caller is
// responsible for having checked Kind() == KindPointer first.
func (v RawValue) AsPointer() RawPointer {
	return RawPointer{v}
}

// AsArray reinterprets this value as a RawArray. The caller is
// responsible for having checked Kind() is Array or Dict first.
func (v RawValue) AsArray() RawArray {
	return RawArray{v}
}
