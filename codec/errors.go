package codec

import "errors"

var (
	// ErrSizeMismatch indicates the destination buffer's byte length disagrees
	// with the decoded payload. The decompress call is fatal and must not be
	// retried with the same destination.
	ErrSizeMismatch = errors.New("destination size mismatch")

	// ErrCorruptStream indicates the decoder hit malformed input or ran out of
	// compressed data before the destination buffer was filled.
	ErrCorruptStream = errors.New("corrupt compressed stream")

	// ErrUnsupportedCombination indicates a codec/level pairing outside the
	// engine's mapping. Both enumerations are closed, so this is defensive.
	ErrUnsupportedCombination = errors.New("unsupported codec/level combination")
)
