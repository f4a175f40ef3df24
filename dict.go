package fleece

import "github.com/scigolib/fleece/internal/core"

// Dict is a read-only view over a Fleece dict's sorted key/value pairs.
type Dict struct {
	raw core.RawDict
}

// Len returns the number of pairs.
func (d Dict) Len() int { return d.raw.Len() / 2 }

// IsEmpty reports whether the dict has zero pairs.
func (d Dict) IsEmpty() bool { return d.Len() == 0 }

// Get looks up key via binary search, using sharedKeys (nil if none) to
// resolve SharedKeys-compressed keys. ok is false if key is absent.
func (d Dict) Get(key string, sharedKeys *SharedKeys) (Value, bool) {
	v, ok := d.raw.Get(key, lookupFor(sharedKeys))
	if !ok {
		return Value{}, false
	}
	return newValue(v), true
}

// ContainsKey reports whether key is present.
func (d Dict) ContainsKey(key string, sharedKeys *SharedKeys) bool {
	return d.raw.ContainsKey(key, lookupFor(sharedKeys))
}

// MustGet is Get for callers who have already checked ContainsKey; it
// panics if key is absent.
func (d Dict) MustGet(key string, sharedKeys *SharedKeys) Value {
	v, ok := d.Get(key, sharedKeys)
	if !ok {
		panic("fleece: dict key not found: " + key)
	}
	return v
}

func lookupFor(sk *SharedKeys) core.SharedKeysLookup {
	if sk == nil {
		return nil
	}
	return sk.inner
}

// DictEntry is a single key/value pair read from a Dict.
type DictEntry struct {
	Key Value
	Val Value
}

// DictIterator walks a Dict's pairs in sorted order.
type DictIterator struct {
	it *core.DictIterator
}

// Iter returns an iterator over d's pairs.
func (d Dict) Iter() *DictIterator {
	return &DictIterator{it: d.raw.Iter()}
}

// Next returns the next pair, or ok=false once exhausted.
func (it *DictIterator) Next() (DictEntry, bool) {
	e, ok := it.it.Next()
	if !ok {
		return DictEntry{}, false
	}
	return DictEntry{Key: newValue(e.Key), Val: newValue(e.Val)}, true
}
