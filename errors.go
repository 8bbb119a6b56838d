package acm

import (
	"errors"
	"fmt"
)

var (
	// ErrShortHeader indicates fewer than HeaderSize bytes at the stream offset.
	ErrShortHeader = errors.New("acm: stream too short for header")

	// ErrBadSignature indicates the stream does not start with Signature.
	ErrBadSignature = errors.New("acm: bad signature")

	// ErrNegativeSamples indicates a negative total sample count.
	ErrNegativeSamples = errors.New("acm: negative sample count")

	// ErrBadChannels indicates a channel count other than 1 or 2.
	ErrBadChannels = errors.New("acm: invalid channel count (must be 1 or 2)")

	// ErrBadSampleRate indicates a sample rate outside MinSampleRate..MaxSampleRate.
	ErrBadSampleRate = errors.New("acm: invalid sample rate (must be 4096-192000)")

	// ErrBadLayout indicates a header describing an empty block or one
	// larger than MaxBlockSize.
	ErrBadLayout = errors.New("acm: invalid block layout (block size must be 1-1048576)")

	// ErrBadOverride indicates an Override value outside what the output can carry.
	ErrBadOverride = errors.New("acm: invalid override")
)

// FormatError reports a header field that failed validation. No decoder is
// created when one is returned.
type FormatError struct {
	Field string
	Value int64
	Err   error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%v (%s = %d)", e.Err, e.Field, e.Value)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}
