package fleece

import (
	"github.com/scigolib/fleece/internal/mutable"
	"github.com/scigolib/fleece/internal/structures"
)

func innerSK(sk *SharedKeys) *structures.SharedKeys {
	if sk == nil {
		return nil
	}
	return sk.inner
}

// MutableDict is a delta overlay over an immutable Dict, kept sorted
// the wire format's way so lookups can binary search.
type MutableDict struct {
	inner *mutable.Dict
}

// NewMutableDict returns an empty MutableDict, optionally sharing
// sharedKeys with its writes (may be nil).
func NewMutableDict(sharedKeys *SharedKeys) *MutableDict {
	return &MutableDict{inner: mutable.NewDict(innerSK(sharedKeys))}
}

// NewMutableDictFrom builds an overlay over src's pairs.
func NewMutableDictFrom(src Dict, sharedKeys *SharedKeys) *MutableDict {
	return &MutableDict{inner: mutable.DictFromImmutable(src.raw, innerSK(sharedKeys))}
}

// NewMutableDictFromScope builds an overlay over v (which must be a
// Dict), resolving its SharedKeys via the process-wide Scope registry.
func NewMutableDictFromScope(v Value) *MutableDict {
	return &MutableDict{inner: mutable.DictFromScope(v.raw)}
}

// Len returns the number of pairs.
func (d *MutableDict) Len() int { return d.inner.Len() }

// Get returns the value at key, or ok=false if absent.
func (d *MutableDict) Get(key string) (MutableValue, bool) {
	s, ok := d.inner.Get(key)
	if !ok {
		return MutableValue{}, false
	}
	return MutableValue{s}, true
}

// ContainsKey reports whether key is present.
func (d *MutableDict) ContainsKey(key string) bool { return d.inner.ContainsKey(key) }

// GetArray returns the nested mutable array at key, materializing it on
// first access.
func (d *MutableDict) GetArray(key string) (*MutableArray, bool) {
	inner, ok := d.inner.GetArray(key)
	if !ok {
		return nil, false
	}
	return &MutableArray{inner: inner}, true
}

// GetDict returns the nested mutable dict at key, materializing it on
// first access.
func (d *MutableDict) GetDict(key string) (*MutableDict, bool) {
	inner, ok := d.inner.GetDict(key)
	if !ok {
		return nil, false
	}
	return &MutableDict{inner: inner}, true
}

// Insert sets key to v, inserting or replacing as needed.
func (d *MutableDict) Insert(key string, v any) error { return d.inner.Insert(key, v) }

// Remove deletes key, reporting whether it was present.
func (d *MutableDict) Remove(key string) bool { return d.inner.Remove(key) }

// Encode re-encodes the dict's current contents into enc.
func (d *MutableDict) Encode(enc *Encoder) error { return d.inner.Encode(enc.inner) }
