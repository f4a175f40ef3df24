package mutable

import (
	"github.com/scigolib/fleece/internal/core"
	"github.com/scigolib/fleece/internal/structures"
	"github.com/scigolib/fleece/internal/writer"
)

// dictEntry pairs a decoded key (always a plain string, even when the
// underlying wire key is a SharedKeys id) with its slot and the sort
// classification Dict.Get's binary search needs.
type dictEntry struct {
	sortShort bool
	sortID    uint16
	sortStr   string
	key       string
	slot      Slot
}

// Dict is a mutable overlay over a Fleece dict, kept sorted the same
// way the wire format requires (Shared keys by id, then strings
// lexicographically) so lookups can binary search.
type Dict struct {
	entries    []dictEntry
	sharedKeys *structures.SharedKeys
}

// NewDict returns an empty mutable dict. sharedKeys (may be nil) is
// consulted by WriteKey-equivalent logic on Insert and by nested
// FromImmutable calls on GetDict/GetArray.
func NewDict(sharedKeys *structures.SharedKeys) *Dict {
	return &Dict{sharedKeys: sharedKeys}
}

func decodeKey(k core.RawValue, sk *structures.SharedKeys) (key string, isShort bool, id uint16) {
	if k.Kind() != core.KindShort {
		return k.ToStr(), false, 0
	}
	id = uint16(k.ToUnsignedInt())
	if sk != nil {
		if s, ok := sk.Decode(id); ok {
			return s, true, id
		}
	}
	return "", true, id
}

// DictFromImmutable builds an overlay over every pair of src. Each
// value starts as an untouched reference; keys are decoded eagerly
// (cheap — ids or short strings) so lookups need no further SharedKeys
// access.
func DictFromImmutable(src core.RawDict, sharedKeys *structures.SharedKeys) *Dict {
	d := &Dict{sharedKeys: sharedKeys}
	it := src.Iter()
	for {
		elem, ok := it.Next()
		if !ok {
			break
		}
		key, isShort, id := decodeKey(elem.Key, sharedKeys)
		d.entries = append(d.entries, dictEntry{
			sortShort: isShort,
			sortID:    id,
			sortStr:   key,
			key:       key,
			slot:      refSlot(elem.Val),
		})
	}
	return d
}

// DictFromScope builds an overlay over v (which must be a Dict),
// resolving its SharedKeys via the process-wide Scope registry.
func DictFromScope(v core.RawValue) *Dict {
	return DictFromImmutable(v.AsDict(), sharedKeysFor(v))
}

func (d *Dict) classify(key string, insert bool) (bool, uint16) {
	if d.sharedKeys == nil {
		return false, 0
	}
	if insert {
		if id, ok := d.sharedKeys.EncodeAndInsert(key); ok {
			return true, id
		}
		return false, 0
	}
	if id, ok := d.sharedKeys.Encode(key); ok {
		return true, id
	}
	return false, 0
}

func compareEntry(qShort bool, qID uint16, qStr string, e dictEntry) int {
	switch {
	case qShort && e.sortShort:
		switch {
		case qID < e.sortID:
			return -1
		case qID > e.sortID:
			return 1
		default:
			return 0
		}
	case qShort && !e.sortShort:
		return -1
	case !qShort && e.sortShort:
		return 1
	default:
		switch {
		case qStr < e.sortStr:
			return -1
		case qStr > e.sortStr:
			return 1
		default:
			return 0
		}
	}
}

// locate binary-searches for (isShort, id, key), returning the entry
// index and ok=true on a hit, or the sorted insertion point and
// ok=false on a miss.
func (d *Dict) locate(isShort bool, id uint16, key string) (int, bool) {
	lo, hi := 0, len(d.entries)
	for lo < hi {
		mid := (lo + hi) / 2
		switch cmp := compareEntry(isShort, id, key, d.entries[mid]); {
		case cmp == 0:
			return mid, true
		case cmp > 0:
			lo = mid + 1
		default:
			hi = mid
		}
	}
	return lo, false
}

// Len reports the number of key/value pairs.
func (d *Dict) Len() int { return len(d.entries) }

// Get returns the value at key, or ok=false if absent.
func (d *Dict) Get(key string) (Slot, bool) {
	isShort, id := d.classify(key, false)
	i, ok := d.locate(isShort, id, key)
	if !ok {
		return Slot{}, false
	}
	return d.entries[i].slot, true
}

// ContainsKey reports whether key is present.
func (d *Dict) ContainsKey(key string) bool {
	_, ok := d.Get(key)
	return ok
}

// GetArray returns the nested mutable array at key, materializing it
// from an untouched reference on first access.
func (d *Dict) GetArray(key string) (*Array, bool) {
	isShort, id := d.classify(key, false)
	i, ok := d.locate(isShort, id, key)
	if !ok {
		return nil, false
	}
	e := &d.entries[i]
	if e.slot.arr != nil {
		return e.slot.arr, true
	}
	v := e.slot.view()
	if e.slot.dict != nil || v.Kind() != core.KindArray {
		return nil, false
	}
	e.slot.arr = FromImmutable(v.AsArray(), d.sharedKeys)
	e.slot.inline, e.slot.ref = nil, nil
	return e.slot.arr, true
}

// GetDict returns the nested mutable dict at key, materializing it from
// an untouched reference on first access.
func (d *Dict) GetDict(key string) (*Dict, bool) {
	isShort, id := d.classify(key, false)
	i, ok := d.locate(isShort, id, key)
	if !ok {
		return nil, false
	}
	e := &d.entries[i]
	if e.slot.dict != nil {
		return e.slot.dict, true
	}
	v := e.slot.view()
	if e.slot.arr != nil || v.Kind() != core.KindDict {
		return nil, false
	}
	e.slot.dict = DictFromImmutable(v.AsDict(), d.sharedKeys)
	e.slot.inline, e.slot.ref = nil, nil
	return e.slot.dict, true
}

// Insert sets key to v, inserting a new sorted entry or replacing the
// existing one.
func (d *Dict) Insert(key string, v any) error {
	slot, err := slotFromValue(v)
	if err != nil {
		return err
	}
	isShort, id := d.classify(key, true)
	i, found := d.locate(isShort, id, key)
	entry := dictEntry{sortShort: isShort, sortID: id, sortStr: key, key: key, slot: slot}
	if found {
		d.entries[i] = entry
		return nil
	}
	d.entries = append(d.entries, dictEntry{})
	copy(d.entries[i+1:], d.entries[i:])
	d.entries[i] = entry
	return nil
}

// Remove deletes key, reporting whether it was present.
func (d *Dict) Remove(key string) bool {
	isShort, id := d.classify(key, false)
	i, ok := d.locate(isShort, id, key)
	if !ok {
		return false
	}
	d.entries = append(d.entries[:i], d.entries[i+1:]...)
	return true
}

// Pair is one key/value entry returned by Iter.
type Pair struct {
	Key string
	Val Slot
}

// Iter returns a snapshot of the current pairs in sorted order.
func (d *Dict) Iter() []Pair {
	out := make([]Pair, len(d.entries))
	for i, e := range d.entries {
		out[i] = Pair{Key: e.key, Val: e.slot}
	}
	return out
}

// Encode replays the dict's current contents through enc. EndDict
// re-sorts regardless of call order, so Encode doesn't need to track
// whether Insert/Remove left entries in their canonical order.
func (d *Dict) Encode(enc *writer.Encoder) error {
	if err := enc.BeginDict(len(d.entries)); err != nil {
		return err
	}
	for _, e := range d.entries {
		if err := enc.WriteKey(e.key); err != nil {
			return err
		}
		if err := e.slot.encodeInto(enc, d.sharedKeys); err != nil {
			return err
		}
	}
	return enc.EndDict()
}
