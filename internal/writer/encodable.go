package writer

import (
	"encoding/binary"
	"errors"
	"math"

	"github.com/scigolib/fleece/internal/core"
	"github.com/scigolib/fleece/internal/utils"
)

// ErrUnsupportedType is returned by WriteValue when given a Go value
// with no Fleece encoding (e.g. a struct or a channel).
var ErrUnsupportedType = errors.New("fleece: value type is not encodable")

// Encodable is implemented by every Go value the encoder knows how to
// append to the wire format. appendFleece writes the value's complete,
// self-contained encoding to dst and returns the grown slice.
type Encodable interface {
	appendFleece(dst []byte) []byte
}

type fleeceNull struct{}
type fleeceUndefined struct{}
type fleeceBool bool
type fleeceInt int64
type fleeceUint uint64
type fleeceFloat32 float32
type fleeceFloat64 float64
type fleeceString string
type fleeceData []byte

// Undefined is the Encodable for Fleece's Undefined kind. It is
// exported (unlike the other wrapper types) because Go's nil already
// stands for Null in WriteValue/toEncodable, leaving callers that need
// to distinguish Undefined from Null — the mutable overlay's raw-value
// replay, mainly — no other way to name it.
type Undefined struct{}

func (fleeceNull) appendFleece(dst []byte) []byte      { return append(dst, core.ConstantNull[:]...) }
func (fleeceUndefined) appendFleece(dst []byte) []byte { return append(dst, core.ConstantUndefined[:]...) }
func (Undefined) appendFleece(dst []byte) []byte       { return append(dst, core.ConstantUndefined[:]...) }

func (b fleeceBool) appendFleece(dst []byte) []byte {
	if b {
		return append(dst, core.ConstantTrue[:]...)
	}
	return append(dst, core.ConstantFalse[:]...)
}

// shortFits reports whether n fits the Short kind's 12-bit signed
// payload. The range check is a conjunction — a prior draft of this
// encoder (and the reference it was ported from) used a disjunction
// here, which is always true and let every integer through as a Short.
func shortFits(n int64) bool {
	return n >= -2048 && n <= 2047
}

func appendShort(dst []byte, n int16) []byte {
	v := uint16(n) & 0x0FFF
	var buf [2]byte
	binary.BigEndian.PutUint16(buf[:], v)
	buf[0] |= byte(core.TagShort)
	return append(dst, buf[:]...)
}

// signedByteCount returns the fewest bytes (1-8) whose sign-extended
// two's-complement representation reproduces n exactly.
func signedByteCount(n int64) int {
	for count := 1; count < 8; count++ {
		bits := uint(count * 8)
		lo := -(int64(1) << (bits - 1))
		hi := int64(1)<<(bits-1) - 1
		if n >= lo && n <= hi {
			return count
		}
	}
	return 8
}

// unsignedByteCount returns the fewest bytes (1-8) needed to hold n.
func unsignedByteCount(n uint64) int {
	for count := 1; count < 8; count++ {
		bits := uint(count * 8)
		if n <= uint64(1)<<bits-1 {
			return count
		}
	}
	return 8
}

func appendInt(dst []byte, count int, unsigned bool, bits uint64) []byte {
	header := byte(core.TagInt) | byte(count-1)
	if unsigned {
		header |= 0x08
	}
	dst = append(dst, header)
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], bits)
	return append(dst, buf[:count]...)
}

func (n fleeceInt) appendFleece(dst []byte) []byte {
	v := int64(n)
	if shortFits(v) {
		return appendShort(dst, int16(v))
	}
	count := signedByteCount(v)
	return appendInt(dst, count, false, uint64(v))
}

func (n fleeceUint) appendFleece(dst []byte) []byte {
	v := uint64(n)
	if v <= 2047 {
		return appendShort(dst, int16(v))
	}
	count := unsignedByteCount(v)
	return appendInt(dst, count, true, v)
}

func (f fleeceFloat32) appendFleece(dst []byte) []byte {
	dst = append(dst, byte(core.TagFloat), 0x00)
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], math.Float32bits(float32(f)))
	return append(dst, buf[:]...)
}

func (f fleeceFloat64) appendFleece(dst []byte) []byte {
	dst = append(dst, byte(core.TagFloat)|0x08, 0x00)
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], math.Float64bits(float64(f)))
	return append(dst, buf[:]...)
}

// appendSized implements the shared String/Data payload layout: sizes
// 0-14 are tagged inline, size 15 (0x0F) marks a trailing varint length.
func appendSized(dst []byte, tag core.Tag, payload []byte) []byte {
	n := len(payload)
	if n < 0x0F {
		dst = append(dst, byte(tag)|byte(n))
		return append(dst, payload...)
	}
	dst = append(dst, byte(tag)|0x0F)
	var vbuf [utils.VarintMaxLen]byte
	vn := utils.WriteVarint(vbuf[:], uint64(n))
	dst = append(dst, vbuf[:vn]...)
	return append(dst, payload...)
}

func (s fleeceString) appendFleece(dst []byte) []byte {
	return appendSized(dst, core.TagString, []byte(s))
}

func (d fleeceData) appendFleece(dst []byte) []byte {
	return appendSized(dst, core.TagData, []byte(d))
}

// toEncodable converts common Go scalar types to their Encodable
// wrapper. Returns ErrUnsupportedType for anything else — containers
// (arrays, dicts) go through BeginArray/BeginDict instead.
func toEncodable(v any) (Encodable, error) {
	switch x := v.(type) {
	case nil:
		return fleeceNull{}, nil
	case bool:
		return fleeceBool(x), nil
	case int:
		return fleeceInt(x), nil
	case int8:
		return fleeceInt(x), nil
	case int16:
		return fleeceInt(x), nil
	case int32:
		return fleeceInt(x), nil
	case int64:
		return fleeceInt(x), nil
	case uint:
		return fleeceUint(x), nil
	case uint8:
		return fleeceUint(x), nil
	case uint16:
		return fleeceUint(x), nil
	case uint32:
		return fleeceUint(x), nil
	case uint64:
		return fleeceUint(x), nil
	case float32:
		return fleeceFloat32(x), nil
	case float64:
		return fleeceFloat64(x), nil
	case string:
		return fleeceString(x), nil
	case []byte:
		return fleeceData(x), nil
	case Encodable:
		return x, nil
	default:
		return nil, ErrUnsupportedType
	}
}

// appendFleeceBytes returns v's full wire encoding as a standalone byte
// slice, used wherever the caller needs the encoding before deciding
// whether it fits inline or must be emitted out-of-line.
func appendFleeceBytes(v Encodable) []byte {
	return v.appendFleece(make([]byte, 0, 10))
}

// EncodeStandalone returns v's complete wire encoding as a self-
// contained byte slice, the same encoding an Encoder would produce for
// a lone scalar value. internal/mutable uses this to build overlay
// slots without opening a full Encoder for a single value.
func EncodeStandalone(v any) ([]byte, error) {
	enc, err := toEncodable(v)
	if err != nil {
		return nil, err
	}
	return appendFleeceBytes(enc), nil
}
