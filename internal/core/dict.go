package core

// SharedKeysLookup is the minimal interface RawDict needs from a
// SharedKeys table: translating a key string to its encoded integer id,
// if one has been assigned. Defined here (rather than imported from
// internal/structures) to keep the decode path free of a dependency on
// the mutable/shared-keys machinery.
type SharedKeysLookup interface {
	Encode(key string) (uint16, bool)
}

// RawDict is a RawValue known to have Kind Dict. A Dict is an Array of
// alternating key, value elements, sorted by key so lookups can binary
// search instead of scanning.
type RawDict struct {
	RawArray
}

// AsDict reinterprets an array-kinded RawValue as a RawDict.
func (v RawValue) AsDict() RawDict {
	return RawDict{v.AsArray()}
}

// Element is a single key/value pair read from a Dict.
type Element struct {
	Key RawValue
	Val RawValue
}

func (d RawDict) pairCount() int {
	return d.Len() / 2
}

func (d RawDict) pairAt(index int) Element {
	key, _ := d.RawArray.Get(2 * index)
	val, _ := d.RawArray.Get(2*index + 1)
	return Element{Key: key, Val: val}
}

// compareKey orders a lookup string against a stored element key.
// SharedKeys-encoded (Short) keys always sort before String keys; within
// each kind, comparison is numeric or lexicographic respectively. Ties
// cannot occur between a Short and a String key by construction, since
// a key is either encodable in the dict's SharedKeys table or it isn't.
func compareKey(query string, elemKey RawValue, sharedKeys SharedKeysLookup) int {
	queryID, queryIsShort := uint16(0), false
	if sharedKeys != nil {
		queryID, queryIsShort = sharedKeys.Encode(query)
	}
	elemIsShort := elemKey.Kind() == KindShort

	switch {
	case queryIsShort && elemIsShort:
		elemID := uint16(elemKey.ToUnsignedInt())
		switch {
		case queryID < elemID:
			return -1
		case queryID > elemID:
			return 1
		default:
			return 0
		}
	case queryIsShort && !elemIsShort:
		return -1
	case !queryIsShort && elemIsShort:
		return 1
	default:
		elemStr := elemKey.ToStr()
		switch {
		case query < elemStr:
			return -1
		case query > elemStr:
			return 1
		default:
			return 0
		}
	}
}

// Get looks up key via binary search over the sorted key/value pairs,
// using sharedKeys (which may be nil) to resolve SharedKeys-encoded
// keys. Returns ok=false if the key is absent.
func (d RawDict) Get(key string, sharedKeys SharedKeysLookup) (RawValue, bool) {
	left, right := 0, d.pairCount()
	for left < right {
		mid := left + (right-left)/2
		elem := d.pairAt(mid)
		switch cmp := compareKey(key, elem.Key, sharedKeys); {
		case cmp == 0:
			return elem.Val, true
		case cmp > 0:
			left = mid + 1
		default:
			right = mid
		}
	}
	return RawValue{}, false
}

// ContainsKey reports whether key is present in the dict.
func (d RawDict) ContainsKey(key string, sharedKeys SharedKeysLookup) bool {
	_, ok := d.Get(key, sharedKeys)
	return ok
}

// First returns the first key/value pair, or ok=false if the dict is
// empty.
func (d RawDict) First() (Element, bool) {
	if d.pairCount() == 0 {
		return Element{}, false
	}
	return d.pairAt(0), true
}

// DictIterator walks a RawDict's key/value pairs in sorted order.
type DictIterator struct {
	arrIter *Iterator
}

// Iter returns a DictIterator over d's pairs.
func (d RawDict) Iter() *DictIterator {
	return &DictIterator{arrIter: d.RawArray.Iter()}
}

// Next returns the next Element, or ok=false once exhausted.
func (it *DictIterator) Next() (Element, bool) {
	key, ok := it.arrIter.Next()
	if !ok {
		return Element{}, false
	}
	val, ok := it.arrIter.Next()
	if !ok {
		return Element{}, false
	}
	return Element{Key: key, Val: val}, true
}
