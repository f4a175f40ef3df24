// Package mutable implements the delta-overlay tree: a mutable view
// over an immutable Fleece buffer that can be edited in place and
// re-encoded through internal/writer without disturbing the source.
package mutable

import (
	"errors"

	"github.com/scigolib/fleece/internal/core"
	"github.com/scigolib/fleece/internal/structures"
	"github.com/scigolib/fleece/internal/writer"
)

// ErrIndexOutOfBounds is returned by Array operations given an index
// outside [0, Len()] (or [0, Len()) for reads).
var ErrIndexOutOfBounds = errors.New("fleece: mutable array index out of range")

// Slot is one overlay element: either a reference into an immutable
// source value, kept unread and unallocated until touched, or a locally
// built value (freshly written, or a nested container once materialized
// for editing). At most one of inline/ref/arr/dict is set.
type Slot struct {
	inline []byte
	ref    *core.RawValue
	arr    *Array
	dict   *Dict
}

func refSlot(v core.RawValue) Slot {
	return Slot{ref: &v}
}

func slotFromValue(v any) (Slot, error) {
	b, err := writer.EncodeStandalone(v)
	if err != nil {
		return Slot{}, err
	}
	return Slot{inline: b}, nil
}

// view resolves this slot's scalar RawValue, ignoring any materialized
// nested container (callers check Kind first).
func (s Slot) view() core.RawValue {
	if s.inline != nil {
		return core.NewRawValue(s.inline, 0)
	}
	if s.ref != nil {
		return *s.ref
	}
	return core.RawValue{}
}

// Kind reports the slot's current logical type.
func (s Slot) Kind() core.Kind {
	switch {
	case s.arr != nil:
		return core.KindArray
	case s.dict != nil:
		return core.KindDict
	default:
		return s.view().Kind()
	}
}

func (s Slot) ToBool() bool         { return s.view().ToBool() }
func (s Slot) ToInt() int64         { return s.view().ToInt() }
func (s Slot) ToUnsignedInt() uint64 { return s.view().ToUnsignedInt() }
func (s Slot) ToDouble() float64    { return s.view().ToDouble() }
func (s Slot) ToFloat() float32     { return s.view().ToFloat() }
func (s Slot) ToStr() string        { return s.view().ToStr() }
func (s Slot) ToData() []byte       { return s.view().ToData() }

func (s Slot) encodeInto(enc *writer.Encoder, sharedKeys *structures.SharedKeys) error {
	switch {
	case s.arr != nil:
		return s.arr.Encode(enc)
	case s.dict != nil:
		return s.dict.Encode(enc)
	default:
		return encodeRawValue(enc, s.view(), sharedKeys)
	}
}

// Array is a mutable overlay over a Fleece array: a slice of Slots that
// can be read, replaced, inserted, or removed, and re-encoded as a unit.
type Array struct {
	slots      []Slot
	sharedKeys *structures.SharedKeys
}

// NewArray returns an empty mutable array, optionally sharing sharedKeys
// with the dicts it will hold (may be nil).
func NewArray(sharedKeys *structures.SharedKeys) *Array {
	return &Array{sharedKeys: sharedKeys}
}

// FromImmutable builds an overlay over every element of src. Each
// element starts as an untouched reference into src's backing buffer;
// no bytes are copied until an element is mutated or a nested container
// is materialized via GetArray/GetDict.
func FromImmutable(src core.RawArray, sharedKeys *structures.SharedKeys) *Array {
	a := &Array{slots: make([]Slot, src.Len()), sharedKeys: sharedKeys}
	it := src.Iter()
	for i := range a.slots {
		v, ok := it.Next()
		if !ok {
			break
		}
		a.slots[i] = refSlot(v)
	}
	return a
}

// ArrayFromScope builds an overlay over v (which must be an Array),
// looking up the SharedKeys associated with v's backing buffer (if any)
// via the process-wide Scope registry so nested dicts decompress their
// keys with the same table the source was encoded with.
func ArrayFromScope(v core.RawValue) *Array {
	return FromImmutable(v.AsArray(), sharedKeysFor(v))
}

func sharedKeysFor(v core.RawValue) *structures.SharedKeys {
	data := v.Data()
	if len(data) == 0 {
		return nil
	}
	sk, _ := structures.Global().FindSharedKeys(&data[0])
	return sk
}

// Len reports the number of elements.
func (a *Array) Len() int { return len(a.slots) }

// Get returns the element at index, or ok=false if out of range.
func (a *Array) Get(index int) (Slot, bool) {
	if index < 0 || index >= len(a.slots) {
		return Slot{}, false
	}
	return a.slots[index], true
}

// GetArray returns the nested mutable array at index, materializing it
// from an untouched reference on first access. ok is false if index is
// out of range or the element is not an array.
func (a *Array) GetArray(index int) (*Array, bool) {
	if index < 0 || index >= len(a.slots) {
		return nil, false
	}
	s := &a.slots[index]
	if s.arr != nil {
		return s.arr, true
	}
	v := s.view()
	if s.dict != nil || v.Kind() != core.KindArray {
		return nil, false
	}
	s.arr = FromImmutable(v.AsArray(), a.sharedKeys)
	s.inline, s.ref = nil, nil
	return s.arr, true
}

// GetDict returns the nested mutable dict at index, materializing it
// from an untouched reference on first access. ok is false if index is
// out of range or the element is not a dict.
func (a *Array) GetDict(index int) (*Dict, bool) {
	if index < 0 || index >= len(a.slots) {
		return nil, false
	}
	s := &a.slots[index]
	if s.dict != nil {
		return s.dict, true
	}
	v := s.view()
	if s.arr != nil || v.Kind() != core.KindDict {
		return nil, false
	}
	s.dict = DictFromImmutable(v.AsDict(), a.sharedKeys)
	s.inline, s.ref = nil, nil
	return s.dict, true
}

// Set replaces the element at index with v.
func (a *Array) Set(index int, v any) error {
	if index < 0 || index >= len(a.slots) {
		return ErrIndexOutOfBounds
	}
	slot, err := slotFromValue(v)
	if err != nil {
		return err
	}
	a.slots[index] = slot
	return nil
}

// Insert inserts v at index, shifting later elements right. index ==
// Len() appends.
func (a *Array) Insert(index int, v any) error {
	if index < 0 || index > len(a.slots) {
		return ErrIndexOutOfBounds
	}
	slot, err := slotFromValue(v)
	if err != nil {
		return err
	}
	a.slots = append(a.slots, Slot{})
	copy(a.slots[index+1:], a.slots[index:])
	a.slots[index] = slot
	return nil
}

// Remove deletes the element at index, shifting later elements left.
func (a *Array) Remove(index int) error {
	if index < 0 || index >= len(a.slots) {
		return ErrIndexOutOfBounds
	}
	a.slots = append(a.slots[:index], a.slots[index+1:]...)
	return nil
}

// Iter returns a snapshot of the current elements in order.
func (a *Array) Iter() []Slot {
	out := make([]Slot, len(a.slots))
	copy(out, a.slots)
	return out
}

// Encode replays the array's current contents through enc — untouched
// references are walked structurally (see encodeRawValue), mutated or
// newly inserted elements are written directly.
func (a *Array) Encode(enc *writer.Encoder) error {
	if err := enc.BeginArray(len(a.slots)); err != nil {
		return err
	}
	for _, s := range a.slots {
		if err := s.encodeInto(enc, a.sharedKeys); err != nil {
			return err
		}
	}
	return enc.EndArray()
}
