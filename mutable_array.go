package fleece

import "github.com/scigolib/fleece/internal/mutable"

// MutableValue is a read view over one MutableArray/MutableDict slot:
// either an untouched reference into the immutable source or a locally
// written value, never a copy the caller can tell apart from the other.
type MutableValue struct {
	inner mutable.Slot
}

// Kind reports this value's current logical type.
func (v MutableValue) Kind() Kind { return v.inner.Kind() }

func (v MutableValue) ToBool() bool          { return v.inner.ToBool() }
func (v MutableValue) ToInt() int64          { return v.inner.ToInt() }
func (v MutableValue) ToUnsignedInt() uint64 { return v.inner.ToUnsignedInt() }
func (v MutableValue) ToDouble() float64     { return v.inner.ToDouble() }
func (v MutableValue) ToFloat() float32      { return v.inner.ToFloat() }
func (v MutableValue) ToStr() string         { return v.inner.ToStr() }
func (v MutableValue) ToData() []byte        { return v.inner.ToData() }

// MutableArray is a delta overlay over an immutable Array: element
// reads fall through to the source until an element is written, at
// which point only that element's slot is replaced.
type MutableArray struct {
	inner *mutable.Array
}

// NewMutableArray returns an empty MutableArray.
func NewMutableArray() *MutableArray {
	return &MutableArray{inner: mutable.NewArray(nil)}
}

// NewMutableArrayFrom builds an overlay over src's elements.
func NewMutableArrayFrom(src Array, sharedKeys *SharedKeys) *MutableArray {
	return &MutableArray{inner: mutable.FromImmutable(src.raw, innerSK(sharedKeys))}
}

// NewMutableArrayFromScope builds an overlay over v (which must be an
// Array), resolving its SharedKeys via the process-wide Scope registry.
func NewMutableArrayFromScope(v Value) *MutableArray {
	return &MutableArray{inner: mutable.ArrayFromScope(v.raw)}
}

// Len returns the number of elements.
func (a *MutableArray) Len() int { return a.inner.Len() }

// Get returns the element at index, or ok=false if out of range.
func (a *MutableArray) Get(index int) (MutableValue, bool) {
	s, ok := a.inner.Get(index)
	if !ok {
		return MutableValue{}, false
	}
	return MutableValue{s}, true
}

// GetArray returns the nested mutable array at index, materializing it
// on first access.
func (a *MutableArray) GetArray(index int) (*MutableArray, bool) {
	inner, ok := a.inner.GetArray(index)
	if !ok {
		return nil, false
	}
	return &MutableArray{inner: inner}, true
}

// GetDict returns the nested mutable dict at index, materializing it on
// first access.
func (a *MutableArray) GetDict(index int) (*MutableDict, bool) {
	inner, ok := a.inner.GetDict(index)
	if !ok {
		return nil, false
	}
	return &MutableDict{inner: inner}, true
}

// Set replaces the element at index with v.
func (a *MutableArray) Set(index int, v any) error { return a.inner.Set(index, v) }

// Insert inserts v at index, shifting later elements right.
func (a *MutableArray) Insert(index int, v any) error { return a.inner.Insert(index, v) }

// Remove deletes the element at index, shifting later elements left.
func (a *MutableArray) Remove(index int) error { return a.inner.Remove(index) }

// Encode re-encodes the array's current contents into enc.
func (a *MutableArray) Encode(enc *Encoder) error { return a.inner.Encode(enc.inner) }
