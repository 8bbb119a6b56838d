package acm

import (
	"bytes"
	"fmt"
	"io"

	"github.com/zrdimetc/go-acm/wav"
)

// chunkSamples is the number of samples decoded per step when writing WAV.
const chunkSamples = 4096

// Override forces output properties regardless of what the stream header
// declares. Zero fields keep the header value (or 16-bit PCM).
type Override struct {
	NumChannels   int
	SampleRate    int
	BitsPerSample int    // 8, 16, 24 or 32
	Format        uint16 // wav.AudioFormatPCM, AudioFormatALaw or AudioFormatMULaw
}

// WavFormat returns the WAV format for a stream with header h. A nil
// Override yields 16-bit PCM with the header's channels and rate.
func (o *Override) WavFormat(h Header) (wav.WavFormat, error) {
	channels, rate, bits := h.NumChannels, h.SampleRate, 16
	format := uint16(wav.AudioFormatPCM)

	if o != nil {
		if o.NumChannels < 0 || o.NumChannels > 2 {
			return wav.WavFormat{}, fmt.Errorf("%w: %d channels", ErrBadOverride, o.NumChannels)
		}
		if o.SampleRate < 0 {
			return wav.WavFormat{}, fmt.Errorf("%w: sample rate %d", ErrBadOverride, o.SampleRate)
		}
		if o.BitsPerSample < 0 {
			return wav.WavFormat{}, fmt.Errorf("%w: %d bits per sample", ErrBadOverride, o.BitsPerSample)
		}
		if o.NumChannels > 0 {
			channels = o.NumChannels
		}
		if o.SampleRate > 0 {
			rate = o.SampleRate
		}
		if o.Format != 0 {
			format = o.Format
			if format != wav.AudioFormatPCM {
				bits = 8
			}
		}
		if o.BitsPerSample > 0 {
			bits = o.BitsPerSample
		}
	}

	return wav.NewFormat(format, uint16(channels), uint32(rate), uint16(bits))
}

// Info parses and validates the header at data[offset:].
func Info(data []byte, offset int) (Header, error) {
	if offset < 0 || offset > len(data) {
		return Header{}, &FormatError{Field: "offset", Value: int64(offset), Err: ErrShortHeader}
	}
	return ParseHeader(data[offset:])
}

// Decode decodes the whole stream at data[offset:].
func Decode(data []byte, offset int) (Header, []int16, error) {
	r, err := NewReader(data, offset)
	if err != nil {
		return Header{}, nil, err
	}

	// grow with the data actually decoded rather than trusting the header
	out := make([]int16, 0, min(r.Header().NumSamples, chunkSamples))
	buf := make([]int16, chunkSamples)
	for r.Remaining() > 0 {
		n, err := r.ReadSamples(buf)
		if err != nil {
			return Header{}, nil, err
		}
		out = append(out, buf[:n]...)
	}
	return r.Header(), out, nil
}

// WriteWAV decodes the stream at data[offset:] and writes it to w as a
// WAV file shaped by o, which may be nil.
func WriteWAV(w io.Writer, data []byte, offset int, o *Override) (Header, error) {
	r, err := NewReader(data, offset)
	if err != nil {
		return Header{}, err
	}
	h := r.Header()

	format, err := o.WavFormat(h)
	if err != nil {
		return Header{}, err
	}
	ww, err := wav.NewWriter(w, format, h.NumSamples)
	if err != nil {
		return Header{}, err
	}

	buf := make([]int16, chunkSamples)
	for r.Remaining() > 0 {
		n, err := r.ReadSamples(buf)
		if err != nil {
			return Header{}, err
		}
		if err := ww.WriteSamples(buf[:n]); err != nil {
			return Header{}, err
		}
	}
	return h, ww.Flush()
}

// DecodeWAV decodes the stream at data[offset:] into a WAV file in memory.
func DecodeWAV(data []byte, offset int, o *Override) ([]byte, error) {
	var b bytes.Buffer
	if _, err := WriteWAV(&b, data, offset, o); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}
