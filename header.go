package acm

import (
	"bytes"
	"encoding/binary"
	"time"
)

const (
	// Signature is the magic number opening every ACM stream.
	Signature = 0x01032897

	// HeaderSize is the size of the fixed stream header in bytes.
	HeaderSize = 14

	MinSampleRate = 4096
	MaxSampleRate = 192000

	// MaxBlockSize caps (1<<levels)*subBlocks. Real streams stay far below
	// it; the cap bounds what a header alone can make the decoder allocate.
	MaxBlockSize = 1 << 20
)

// Header is the fixed stream header.
type Header struct {
	NumSamples  int // all channels together
	NumChannels int
	SampleRate  int
	Levels      int // sub-band stages, 0..15
	SubBlocks   int // columns per block
}

type rawHeader struct {
	Signature uint32
	Samples   int32
	Channels  uint16
	Rate      uint16
	Packed    uint16
}

// ParseHeader reads and validates the header at the start of data.
func ParseHeader(data []byte) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, &FormatError{Field: "length", Value: int64(len(data)), Err: ErrShortHeader}
	}

	var raw rawHeader
	if err := binary.Read(bytes.NewReader(data[:HeaderSize]), binary.LittleEndian, &raw); err != nil {
		return Header{}, err
	}

	h := Header{
		NumSamples:  int(raw.Samples),
		NumChannels: int(raw.Channels),
		SampleRate:  int(raw.Rate),
		Levels:      int(raw.Packed & 0xF),
		SubBlocks:   int(raw.Packed >> 4),
	}

	switch {
	case raw.Signature != Signature:
		return Header{}, &FormatError{Field: "signature", Value: int64(raw.Signature), Err: ErrBadSignature}
	case h.NumSamples < 0:
		return Header{}, &FormatError{Field: "samples", Value: int64(h.NumSamples), Err: ErrNegativeSamples}
	case h.NumChannels < 1 || h.NumChannels > 2:
		return Header{}, &FormatError{Field: "channels", Value: int64(h.NumChannels), Err: ErrBadChannels}
	case h.SampleRate < MinSampleRate || h.SampleRate > MaxSampleRate:
		return Header{}, &FormatError{Field: "rate", Value: int64(h.SampleRate), Err: ErrBadSampleRate}
	case h.SubBlocks == 0:
		return Header{}, &FormatError{Field: "subblocks", Value: 0, Err: ErrBadLayout}
	case h.BlockSize() > MaxBlockSize:
		return Header{}, &FormatError{Field: "blocksize", Value: int64(h.BlockSize()), Err: ErrBadLayout}
	}
	return h, nil
}

// BlockSize returns the number of samples produced per decoded block.
func (h Header) BlockSize() int {
	return (1 << uint(h.Levels)) * h.SubBlocks
}

// Duration returns the play time implied by the header.
func (h Header) Duration() time.Duration {
	if h.NumChannels == 0 || h.SampleRate == 0 {
		return 0
	}
	frames := int64(h.NumSamples / h.NumChannels)
	return time.Duration(frames) * time.Second / time.Duration(h.SampleRate)
}
