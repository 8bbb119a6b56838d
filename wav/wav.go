// Package wav frames PCM samples in a canonical 44-byte RIFF/WAVE header
// and reads such files back.
package wav

import (
	"errors"
	"fmt"
	"io"
)

const (
	AudioFormatPCM   = 1
	AudioFormatALaw  = 6
	AudioFormatMULaw = 7
)

// HeaderSize is the size of the canonical header written by Encode.
const HeaderSize = 44

var (
	// ErrBitsPerSample indicates a sample width the format cannot carry.
	ErrBitsPerSample = errors.New("wav: unsupported bits per sample")

	// ErrChannels indicates a channel count of zero.
	ErrChannels = errors.New("wav: invalid channel count")

	// ErrAudioFormat indicates an audio format tag this package cannot write.
	ErrAudioFormat = errors.New("wav: unsupported audio format")
)

// WavFormat is the body of the "fmt " chunk.
type WavFormat struct {
	AudioFormat   uint16
	NumChannels   uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
}

// NewFormat fills in the derived fields of a format and validates it.
// A-law and µ-law are always 8 bits; bits may be left at 0 for them.
func NewFormat(audioFormat uint16, channels uint16, sampleRate uint32, bits uint16) (WavFormat, error) {
	switch audioFormat {
	case AudioFormatPCM:
		switch bits {
		case 8, 16, 24, 32:
		default:
			return WavFormat{}, fmt.Errorf("%w: %d", ErrBitsPerSample, bits)
		}
	case AudioFormatALaw, AudioFormatMULaw:
		if bits == 0 {
			bits = 8
		}
		if bits != 8 {
			return WavFormat{}, fmt.Errorf("%w: %d for G.711", ErrBitsPerSample, bits)
		}
	default:
		return WavFormat{}, fmt.Errorf("%w: %d", ErrAudioFormat, audioFormat)
	}
	if channels == 0 {
		return WavFormat{}, ErrChannels
	}

	align := channels * (bits / 8)
	return WavFormat{
		AudioFormat:   audioFormat,
		NumChannels:   channels,
		SampleRate:    sampleRate,
		ByteRate:      sampleRate * uint32(align),
		BlockAlign:    align,
		BitsPerSample: bits,
	}, nil
}

// header is the on-disk layout of a canonical WAV header.
type header struct {
	ChunkID   [4]byte
	ChunkSize uint32
	Format    [4]byte
	FmtID     [4]byte
	FmtSize   uint32
	WavFormat
	DataID   [4]byte
	DataSize uint32
}

// WavData is the "data" chunk of a file being read.
type WavData struct {
	internalReader io.Reader
	Size           uint32
	Position       uint32 // bytes consumed so far
}

// Read implements io.Reader and tracks Position.
func (wd *WavData) Read(p []byte) (n int, err error) {
	n, err = wd.internalReader.Read(p)
	wd.Position += uint32(n)
	return n, err
}

// Sample holds one frame; only the first NumChannels values are used.
type Sample struct {
	Values [2]int
}
