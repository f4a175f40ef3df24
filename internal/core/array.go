package core

import (
	"encoding/binary"

	"github.com/scigolib/fleece/internal/utils"
)

// extendedCountMarker is the inline-count sentinel (0x07FF) that signals
// the real element count follows as a varint immediately after the
// 2-byte header, allowing arrays/dicts larger than 2046 elements.
const extendedCountMarker = 0x07FF

// RawArray is a RawValue known to have Kind Array or Dict. A Dict is
// laid out identically to an Array of alternating key/value elements,
// so RawArray backs both views.
type RawArray struct {
	RawValue
}

// IsWide reports whether this array's elements are 4-byte (wide) or
// 2-byte (narrow) slots.
func (a RawArray) IsWide() bool {
	return a.byteAt(0)&0x08 != 0
}

// Width returns the per-element slot width in bytes: 4 if wide, 2
// otherwise.
func (a RawArray) Width() int {
	if a.IsWide() {
		return 4
	}
	return 2
}

func (a RawArray) rawCount() uint16 {
	return binary.BigEndian.Uint16(a.data[a.pos:a.pos+2]) & 0x7FF
}

// Len returns the number of elements in this array, or — for a Dict —
// twice the number of key/value pairs. Counts at or above
// extendedCountMarker are stored as a trailing varint instead of the
// inline 11-bit field.
func (a RawArray) Len() int {
	raw := a.rawCount()
	if raw < extendedCountMarker {
		if a.Kind() == KindDict {
			return int(raw) * 2
		}
		return int(raw)
	}
	_, n := utils.ReadVarint(a.data[a.pos+1 : a.pos+1+utils.VarintMaxLen+1])
	if a.Kind() == KindDict {
		return int(n) * 2
	}
	return int(n)
}

// ElemCount is an alias for Len matching the raw-layer naming used
// elsewhere in the codec (array length in slots, not key/value pairs).
func (a RawArray) ElemCount() int { return a.Len() }

// headerSkip is the number of bytes occupied by the 2-byte count header
// plus, when the extended-count marker is set, the trailing varint.
func (a RawArray) headerSkip() int {
	if a.rawCount() < extendedCountMarker {
		return 2
	}
	read, _ := utils.ReadVarint(a.data[a.pos+1 : a.pos+1+utils.VarintMaxLen+1])
	return 2 + read
}

// First returns the first element, resolving a leading pointer slot. ok
// is false if the array is empty or the header is truncated.
func (a RawArray) First() (RawValue, bool) {
	if a.Len() == 0 {
		return RawValue{}, false
	}
	width := a.Width()
	skip := a.headerSkip()
	if a.available() < skip+width {
		return RawValue{}, false
	}
	return a.elementAt(a.pos+skip, width), true
}

// elementAt resolves the element slot at absolute position pos,
// dereferencing it if it is a pointer.
func (a RawArray) elementAt(pos, width int) RawValue {
	target := NewRawValue(a.data, pos)
	if target.Kind() == KindPointer {
		return target.AsPointer().DerefUnchecked(a.IsWide())
	}
	return target
}

// Get returns the element at index, resolving pointer slots, or ok=false
// if index is out of range.
func (a RawArray) Get(index int) (RawValue, bool) {
	if index < 0 || index >= a.Len() {
		return RawValue{}, false
	}
	width := a.Width()
	skip := a.headerSkip()
	pos := a.pos + skip + index*width
	return a.elementAt(pos, width), true
}

// Validate walks every element header in this array/dict, checking that
// each fits within [dataStart, dataEnd) (or, for pointer-sized array
// elements, within its narrow/wide slot) and recursively validating
// nested structures.
func (a RawArray) Validate(dataStart, dataEnd int) error {
	width := a.Width()
	count := a.Len()
	first := a.pos + a.headerSkip()

	total, err := utils.SafeMultiply(uint64(count), uint64(width))
	if err != nil {
		return ErrArrayOutOfBounds
	}
	end, err := utils.SafeAdd(uint64(first), total)
	if err != nil || end > uint64(dataEnd) {
		return ErrArrayOutOfBounds
	}

	current := first
	for i := 0; i < count; i++ {
		next := current + width
		if current+width > len(a.data) {
			return ErrArrayOutOfBounds
		}
		elem := NewRawValue(a.data, current)
		if err := elem.validateAsElement(true, a.IsWide(), dataStart, next); err != nil {
			return err
		}
		current = next
	}
	return nil
}

// Iterator walks a RawArray's resolved elements in order.
type Iterator struct {
	arr     RawArray
	width   int
	current int
	index   int
	len     int
}

// Iter returns an Iterator over a's elements.
func (a RawArray) Iter() *Iterator {
	return &Iterator{
		arr:     a,
		width:   a.Width(),
		current: a.pos + a.headerSkip(),
		index:   0,
		len:     a.Len(),
	}
}

// Len reports the remaining number of unvisited elements plus those
// already visited — the iterator's fixed total length.
func (it *Iterator) Len() int { return it.len }

// Next returns the next resolved element, or ok=false once exhausted.
func (it *Iterator) Next() (RawValue, bool) {
	if it.index >= it.len {
		return RawValue{}, false
	}
	val := it.arr.elementAt(it.current, it.width)
	it.current += it.width
	it.index++
	return val, true
}
