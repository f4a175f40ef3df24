package core

import "errors"

// Decode error taxonomy. The validator reports the first offending
// condition it finds; callers compare with errors.Is since these are
// wrapped with context via utils.WrapError at package boundaries.
var (
	ErrInputIncorrectlySized      = errors.New("fleece: buffer length must be even and >= 2")
	ErrRootNotPointer             = errors.New("fleece: root is neither a 2-byte singleton nor a pointer")
	ErrPointerTooSmall            = errors.New("fleece: truncated pointer")
	ErrPointerOffsetZero          = errors.New("fleece: pointer offset must not be zero")
	ErrPointerTargetOutOfBounds   = errors.New("fleece: pointer target out of bounds")
	ErrPointerExternalUnsupported = errors.New("fleece: external pointers are not supported")
	ErrArrayOutOfBounds           = errors.New("fleece: array/dict element out of bounds")
	ErrValueOutOfBounds           = errors.New("fleece: value header out of bounds")
	ErrInvalidUtf8                = errors.New("fleece: string is not valid utf-8")
	ErrVarintMalformed            = errors.New("fleece: malformed varint")
)
