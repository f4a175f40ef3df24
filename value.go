// Package fleece implements a Fleece-compatible binary tree
// serialization format: a zero-copy, pointer-based encoding that
// supports random access into nested arrays and dicts without parsing
// the whole buffer up front.
package fleece

import (
	"github.com/scigolib/fleece/internal/core"
)

// Kind identifies a Value's logical type.
type Kind = core.Kind

const (
	KindNull        = core.KindNull
	KindUndefined   = core.KindUndefined
	KindFalse       = core.KindFalse
	KindTrue        = core.KindTrue
	KindShort       = core.KindShort
	KindInt         = core.KindInt
	KindUnsignedInt = core.KindUnsignedInt
	KindFloat       = core.KindFloat
	KindDouble      = core.KindDouble
	KindString      = core.KindString
	KindData        = core.KindData
	KindArray       = core.KindArray
	KindDict        = core.KindDict
)

// Value is a read-only view into a single Fleece value inside a shared
// backing buffer. It is cheap to copy and carries no ownership of its
// own — the buffer it was sliced from must outlive it.
type Value struct {
	raw core.RawValue
}

func newValue(raw core.RawValue) Value { return Value{raw} }

// Kind reports this value's logical type.
func (v Value) Kind() Kind { return v.raw.Kind() }

// ToBool converts this value per Fleece's truthiness rules: False is
// false, a zero-valued number is false, everything else is true.
func (v Value) ToBool() bool { return v.raw.ToBool() }

// ToInt converts this value to a signed 64-bit integer. True converts to
// 1; False and any other non-numeric value convert to 0.
func (v Value) ToInt() int64 { return v.raw.ToInt() }

// ToUnsignedInt reinterprets ToInt's bit pattern as unsigned.
func (v Value) ToUnsignedInt() uint64 { return v.raw.ToUnsignedInt() }

// ToFloat converts this value to a float32, narrowing from ToDouble.
func (v Value) ToFloat() float32 { return v.raw.ToFloat() }

// ToDouble converts this value to a float64. True converts to 1; False
// and any other non-numeric value convert to 0.
func (v Value) ToDouble() float64 { return v.raw.ToDouble() }

// ToStr returns the UTF-8 payload of a String value, or "" otherwise.
func (v Value) ToStr() string { return v.raw.ToStr() }

// ToData returns the raw payload of a String or Data value, or nil
// otherwise.
func (v Value) ToData() []byte { return v.raw.ToData() }

// AsArray reinterprets this value as an Array. The caller must have
// checked Kind() is Array or Dict first; behavior is undefined
// otherwise.
func (v Value) AsArray() Array { return Array{v.raw.AsArray()} }

// AsDict reinterprets this value as a Dict. The caller must have
// checked Kind() is Dict first; behavior is undefined otherwise.
func (v Value) AsDict() Dict { return Dict{v.raw.AsDict()} }

// String renders a debugging representation of v, recursing into
// containers. It is not part of the wire format.
func (v Value) String() string {
	return stringifyValue(v.raw)
}
