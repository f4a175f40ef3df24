package core

import (
	"unicode/utf8"

	"github.com/scigolib/fleece/internal/utils"
)

// FromBytes locates and validates the root value in data, returning a
// RawValue view over it. The root is reached through the trailing 2
// bytes of data: a pointer to it, or, for a 2-byte document, the value
// itself. Errors are drawn from this package's
// taxonomy (ErrRootNotPointer, ErrArrayOutOfBounds, ErrInvalidUtf8, ...)
// and are checkable with errors.Is through the wrapping context.
func FromBytes(data []byte) (RawValue, error) {
	root, err := findRoot(data)
	if err != nil {
		return RawValue{}, utils.WrapError("fleece.FromBytes", err)
	}
	// wide doesn't matter here: it only affects pointer decoding, and
	// findRoot never returns a value whose Kind is Pointer.
	if err := root.validate(false, false, 0, len(data)); err != nil {
		return RawValue{}, utils.WrapError("fleece.FromBytes", err)
	}
	return root, nil
}

// FromBytesUnchecked locates the root value with no validation. Only
// safe to call on data already known to be valid Fleece; malformed
// input may panic.
func FromBytesUnchecked(data []byte) RawValue {
	root := NewRawValue(data, len(data)-2)
	if root.Kind() == KindPointer {
		return root.AsPointer().DerefUnchecked(false)
	}
	if len(data) == 2 {
		return root
	}
	panic("fleece: invalid data")
}

// findRoot locates the 2-byte root value at the end of data, resolving
// a single leading pointer if present. Performs only basic size
// validation; full structural validation happens in validate.
func findRoot(data []byte) (RawValue, error) {
	if len(data) == 0 || len(data)%2 != 0 {
		return RawValue{}, ErrInputIncorrectlySized
	}
	root := NewRawValue(data, len(data)-2)
	if root.Kind() == KindPointer {
		target, err := root.AsPointer().Deref(false, 0)
		if err != nil {
			return RawValue{}, err
		}
		return target, nil
	}
	if len(data) == 2 {
		return root, nil
	}
	return RawValue{}, ErrRootNotPointer
}

// validate recursively checks that v's header (and, for Array/Dict, its
// elements) fits within the backing buffer. isArrElem is true when v is
// itself an array/dict slot rather than the top-level root or a
// pointer's resolved target, in which case its required size must fit
// the slot width instead of the overall buffer. Strings are additionally
// checked for valid UTF-8 (invariant 6); Data has no such requirement.
func (v RawValue) validate(isArrElem, wide bool, dataStart, dataEnd int) error {
	switch v.Kind() {
	case KindArray, KindDict:
		return v.AsArray().Validate(dataStart, dataEnd)
	case KindPointer:
		target, err := v.AsPointer().Deref(wide, dataStart)
		if err != nil {
			return err
		}
		return target.validate(false, wide, dataStart, v.pos)
	default:
		size := v.RequiredSize()
		if size == 0 {
			return ErrVarintMalformed
		}
		if v.pos+size > len(v.data) || v.pos+size > dataEnd {
			return ErrValueOutOfBounds
		}
		if isArrElem {
			limit := 2
			if wide {
				limit = 4
			}
			if size > limit {
				return ErrArrayOutOfBounds
			}
		}
		if v.Kind() == KindString && !utf8.Valid(v.getData()) {
			return ErrInvalidUtf8
		}
		return nil
	}
}

// validateAsElement exposes validate for use from RawArray.Validate,
// where v sits at a known array/dict slot and must be checked against
// the slot width rather than the whole-buffer bound.
func (v RawValue) validateAsElement(isArrElem, wide bool, dataStart, dataEnd int) error {
	return v.validate(isArrElem, wide, dataStart, dataEnd)
}
