package wav

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/youpy/go-riff"
	"github.com/zaf/g711"
)

// Reader reads WAV files such as the ones produced by Encode.
type Reader struct {
	r         *riff.Reader
	riffChunk *riff.RIFFChunk
	format    *WavFormat
	*WavData
}

func NewReader(r riff.RIFFReader) *Reader {
	return &Reader{r: riff.NewReader(r)}
}

// Format returns the parsed "fmt " chunk.
func (r *Reader) Format() (*WavFormat, error) {
	if r.format == nil {
		format, err := r.readFormat()
		if err != nil {
			return nil, err
		}
		r.format = format
	}
	return r.format, nil
}

// Duration derives the play time from the data chunk size.
func (r *Reader) Duration() (time.Duration, error) {
	format, err := r.Format()
	if err != nil {
		return 0, err
	}
	if err := r.loadWavData(); err != nil {
		return 0, err
	}
	if format.SampleRate == 0 {
		return 0, nil
	}

	frames := int64(r.WavData.Size) / int64(format.BlockAlign)
	return time.Duration(frames) * time.Second / time.Duration(format.SampleRate), nil
}

// Read reads raw bytes of the data chunk.
func (r *Reader) Read(p []byte) (int, error) {
	if err := r.loadWavData(); err != nil {
		return 0, err
	}
	return r.WavData.Read(p)
}

// GetCurrentPosition returns the read position within the data chunk.
func (r *Reader) GetCurrentPosition() (uint32, error) {
	if r.WavData == nil {
		return 0, errors.New("wav: data chunk not loaded yet")
	}
	return r.WavData.Position, nil
}

// ReadSamples reads up to n frames (2048 if n is omitted) and decodes them
// to integers at the file's own sample width; G.711 data decodes to 16 bits.
// It returns io.EOF once the data chunk is exhausted.
func (r *Reader) ReadSamples(n ...uint32) ([]Sample, error) {
	format, err := r.Format()
	if err != nil {
		return nil, err
	}

	frames := 2048
	if len(n) > 0 {
		frames = int(n[0])
	}

	align := int(format.BlockAlign)
	width := int(format.BitsPerSample / 8)
	raw := make([]byte, frames*align)
	got, err := io.ReadFull(r, raw)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, err
	}
	if got < align {
		return nil, io.EOF
	}

	samples := make([]Sample, got/align)
	for i := range samples {
		frame := raw[i*align:]
		for ch := 0; ch < int(format.NumChannels); ch++ {
			samples[i].Values[ch] = decodeSample(format, frame[ch*width:ch*width+width])
		}
	}
	return samples, nil
}

// FloatValue scales a sample value into [-1, 1).
func (r *Reader) FloatValue(sample Sample, channel uint) float64 {
	if r.format == nil || r.format.BitsPerSample == 0 {
		return 0
	}
	bits := r.format.BitsPerSample
	if r.format.AudioFormat != AudioFormatPCM {
		bits = 16
	}
	return float64(sample.Values[channel]) / float64(int64(1)<<(bits-1))
}

func (r *Reader) readFormat() (*WavFormat, error) {
	riffChunk, err := r.chunks()
	if err != nil {
		return nil, err
	}

	fmtChunk := findChunk(riffChunk, "fmt ")
	if fmtChunk == nil {
		return nil, errors.New("wav: format chunk is not found")
	}

	format := new(WavFormat)
	if err := binary.Read(fmtChunk, binary.LittleEndian, format); err != nil {
		return nil, err
	}
	if format.BitsPerSample == 0 || format.BlockAlign == 0 {
		return nil, fmt.Errorf("%w: %d", ErrBitsPerSample, format.BitsPerSample)
	}
	if format.NumChannels == 0 || format.NumChannels > 2 {
		return nil, fmt.Errorf("%w: %d", ErrChannels, format.NumChannels)
	}
	return format, nil
}

func (r *Reader) chunks() (*riff.RIFFChunk, error) {
	if r.riffChunk == nil {
		c, err := r.r.Read()
		if err != nil {
			return nil, err
		}
		r.riffChunk = c
	}
	return r.riffChunk, nil
}

func (r *Reader) loadWavData() error {
	if r.WavData != nil {
		return nil
	}

	riffChunk, err := r.chunks()
	if err != nil {
		return err
	}
	dataChunk := findChunk(riffChunk, "data")
	if dataChunk == nil {
		return errors.New("wav: data chunk is not found")
	}

	r.WavData = &WavData{internalReader: bufio.NewReader(dataChunk), Size: dataChunk.ChunkSize}
	return nil
}

func findChunk(riffChunk *riff.RIFFChunk, id string) *riff.Chunk {
	for _, ch := range riffChunk.Chunks {
		if string(ch.ChunkID[:]) == id {
			return ch
		}
	}
	return nil
}

func decodeSample(format *WavFormat, b []byte) int {
	switch format.AudioFormat {
	case AudioFormatALaw:
		return int(g711.DecodeAlawFrame(b[0]))
	case AudioFormatMULaw:
		return int(g711.DecodeUlawFrame(b[0]))
	}

	switch len(b) {
	case 1:
		return int(b[0]) - 128
	case 2:
		return int(int16(binary.LittleEndian.Uint16(b)))
	case 3:
		return int(int32(uint32(b[0])<<8|uint32(b[1])<<16|uint32(b[2])<<24) >> 8)
	default:
		return int(int32(binary.LittleEndian.Uint32(b)))
	}
}
