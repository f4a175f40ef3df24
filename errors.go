package fleece

import (
	"github.com/scigolib/fleece/internal/core"
	"github.com/scigolib/fleece/internal/writer"
)

// Decode error taxonomy. Compare with errors.Is.
var (
	ErrInputIncorrectlySized      = core.ErrInputIncorrectlySized
	ErrRootNotPointer             = core.ErrRootNotPointer
	ErrPointerTooSmall            = core.ErrPointerTooSmall
	ErrPointerOffsetZero          = core.ErrPointerOffsetZero
	ErrPointerTargetOutOfBounds   = core.ErrPointerTargetOutOfBounds
	ErrPointerExternalUnsupported = core.ErrPointerExternalUnsupported
	ErrArrayOutOfBounds           = core.ErrArrayOutOfBounds
	ErrValueOutOfBounds           = core.ErrValueOutOfBounds
	ErrInvalidUtf8                = core.ErrInvalidUtf8
	ErrVarintMalformed            = core.ErrVarintMalformed
)

// Encode error taxonomy. Compare with errors.Is.
var (
	ErrCollectionNotOpen    = writer.ErrCollectionNotOpen
	ErrArrayNotOpen         = writer.ErrArrayNotOpen
	ErrDictNotOpen          = writer.ErrDictNotOpen
	ErrDictWaitingForKey    = writer.ErrDictWaitingForKey
	ErrDictWaitingForValue  = writer.ErrDictWaitingForValue
	ErrSharedKeysInvalidKey = writer.ErrSharedKeysInvalidKey
	ErrPointerTooLarge      = writer.ErrPointerTooLarge
	ErrIO                   = writer.ErrIO
	ErrUnsupportedType      = writer.ErrUnsupportedType
)
