package mutable

import (
	"github.com/scigolib/fleece/internal/core"
	"github.com/scigolib/fleece/internal/structures"
	"github.com/scigolib/fleece/internal/writer"
)

// encodeRawValue replays an untouched reference into an immutable
// source through enc, recursing into nested arrays/dicts without ever
// materializing a mutable overlay for them.
//
// This reproduces a tree isomorphic to the source rather than splicing
// its raw bytes: a true verbatim byte copy would need to relocate every
// pointer inside the copied region relative to its new position, which
// this port does not implement. The regions this function touches are,
// by construction, exactly the parts of the tree the caller never
// mutated, so the result decodes identically even though its bytes may
// differ from the original buffer.
func encodeRawValue(enc *writer.Encoder, v core.RawValue, sharedKeys *structures.SharedKeys) error {
	switch v.Kind() {
	case core.KindNull:
		return enc.WriteValue(nil)
	case core.KindUndefined:
		return enc.WriteValue(writer.Undefined{})
	case core.KindTrue:
		return enc.WriteValue(true)
	case core.KindFalse:
		return enc.WriteValue(false)
	case core.KindShort, core.KindInt:
		return enc.WriteValue(v.ToInt())
	case core.KindUnsignedInt:
		return enc.WriteValue(v.ToUnsignedInt())
	case core.KindFloat:
		return enc.WriteValue(v.ToFloat())
	case core.KindDouble:
		return enc.WriteValue(v.ToDouble())
	case core.KindString:
		return enc.WriteValue(v.ToStr())
	case core.KindData:
		return enc.WriteValue(v.ToData())
	case core.KindArray:
		return encodeRawArray(enc, v.AsArray(), sharedKeys)
	case core.KindDict:
		return encodeRawDict(enc, v.AsDict(), sharedKeys)
	default:
		return nil
	}
}

func encodeRawArray(enc *writer.Encoder, arr core.RawArray, sharedKeys *structures.SharedKeys) error {
	if err := enc.BeginArray(arr.Len()); err != nil {
		return err
	}
	it := arr.Iter()
	for {
		elem, ok := it.Next()
		if !ok {
			break
		}
		if err := encodeRawValue(enc, elem, sharedKeys); err != nil {
			return err
		}
	}
	return enc.EndArray()
}

func encodeRawDict(enc *writer.Encoder, d core.RawDict, sharedKeys *structures.SharedKeys) error {
	if err := enc.BeginDict(d.Len() / 2); err != nil {
		return err
	}
	it := d.Iter()
	for {
		elem, ok := it.Next()
		if !ok {
			break
		}
		key, _, _ := decodeKey(elem.Key, sharedKeys)
		if err := enc.WriteKey(key); err != nil {
			return err
		}
		if err := encodeRawValue(enc, elem.Val, sharedKeys); err != nil {
			return err
		}
	}
	return enc.EndDict()
}
