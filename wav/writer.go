package wav

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"io"

	"github.com/zaf/g711"
)

// DataSize returns the size of the data chunk holding n samples.
func DataSize(format WavFormat, n int) uint32 {
	return uint32(n) * uint32(format.BitsPerSample/8)
}

// WriteHeader writes the 44-byte header for a data chunk of dataSize bytes.
func WriteHeader(w io.Writer, format WavFormat, dataSize uint32) error {
	h := header{
		ChunkID:   [4]byte{'R', 'I', 'F', 'F'},
		ChunkSize: 36 + dataSize,
		Format:    [4]byte{'W', 'A', 'V', 'E'},
		FmtID:     [4]byte{'f', 'm', 't', ' '},
		FmtSize:   16,
		WavFormat: format,
		DataID:    [4]byte{'d', 'a', 't', 'a'},
		DataSize:  dataSize,
	}
	return binary.Write(w, binary.LittleEndian, &h)
}

// Writer streams a file whose sample count is known up front.
type Writer struct {
	bw     *bufio.Writer
	format WavFormat
	buf    [4]byte
}

// NewWriter writes the header for numSamples interleaved samples and
// returns a Writer for the sample data.
func NewWriter(w io.Writer, format WavFormat, numSamples int) (*Writer, error) {
	if err := WriteHeader(w, format, DataSize(format, numSamples)); err != nil {
		return nil, err
	}
	return &Writer{bw: bufio.NewWriter(w), format: format}, nil
}

// WriteSamples converts 16-bit samples to the file's encoding and
// buffers them.
func (w *Writer) WriteSamples(samples []int16) error {
	for _, s := range samples {
		n := putSample(w.buf[:], w.format, s)
		if _, err := w.bw.Write(w.buf[:n]); err != nil {
			return err
		}
	}
	return nil
}

// Flush writes any buffered data to the underlying writer.
func (w *Writer) Flush() error {
	return w.bw.Flush()
}

// Encode writes a complete file: the header followed by samples, which are
// interleaved 16-bit values converted to the sample encoding of format.
func Encode(w io.Writer, format WavFormat, samples []int16) error {
	ww, err := NewWriter(w, format, len(samples))
	if err != nil {
		return err
	}
	if err := ww.WriteSamples(samples); err != nil {
		return err
	}
	return ww.Flush()
}

// Bytes returns the encoded file as a byte slice.
func Bytes(format WavFormat, samples []int16) ([]byte, error) {
	var b bytes.Buffer
	b.Grow(HeaderSize + int(DataSize(format, len(samples))))
	if err := Encode(&b, format, samples); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

// putSample encodes s into buf and returns the number of bytes used.
// Widening keeps the sample left-justified; 8-bit PCM is unsigned.
func putSample(buf []byte, format WavFormat, s int16) int {
	switch format.AudioFormat {
	case AudioFormatALaw:
		buf[0] = g711.EncodeAlawFrame(s)
		return 1
	case AudioFormatMULaw:
		buf[0] = g711.EncodeUlawFrame(s)
		return 1
	}

	switch format.BitsPerSample {
	case 8:
		buf[0] = byte(int(s>>8) + 128)
		return 1
	case 24:
		v := uint32(int32(s) << 8)
		buf[0], buf[1], buf[2] = byte(v), byte(v>>8), byte(v>>16)
		return 3
	case 32:
		binary.LittleEndian.PutUint32(buf, uint32(int32(s)<<16))
		return 4
	default:
		binary.LittleEndian.PutUint16(buf, uint16(s))
		return 2
	}
}
