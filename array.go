package fleece

import "github.com/scigolib/fleece/internal/core"

// Array is a read-only view over a Fleece array's elements.
type Array struct {
	raw core.RawArray
}

// Len returns the number of elements.
func (a Array) Len() int { return a.raw.Len() }

// IsEmpty reports whether the array has zero elements.
func (a Array) IsEmpty() bool { return a.Len() == 0 }

// Get returns the element at index, or ok=false if out of range.
func (a Array) Get(index int) (Value, bool) {
	v, ok := a.raw.Get(index)
	if !ok {
		return Value{}, false
	}
	return newValue(v), true
}

// ArrayIterator walks an Array's elements in order.
type ArrayIterator struct {
	it *core.Iterator
}

// Iter returns an iterator over a's elements.
func (a Array) Iter() *ArrayIterator {
	return &ArrayIterator{it: a.raw.Iter()}
}

// Len reports the iterator's total element count.
func (it *ArrayIterator) Len() int { return it.it.Len() }

// Next returns the next element, or ok=false once exhausted.
func (it *ArrayIterator) Next() (Value, bool) {
	v, ok := it.it.Next()
	if !ok {
		return Value{}, false
	}
	return newValue(v), true
}
