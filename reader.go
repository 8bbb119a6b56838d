package acm

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/zrdimetc/go-acm/internal/bits"
	"github.com/zrdimetc/go-acm/internal/subband"
	"github.com/zrdimetc/go-acm/internal/unpack"
)

// Reader decodes an ACM stream into 16-bit samples, one block at a time.
//
// Samples come out in stream order; for stereo streams they are already
// interleaved. A Reader is not safe for concurrent use.
type Reader struct {
	hdr      Header
	br       *bits.Reader
	unpacker *unpack.Unpacker
	decoder  *subband.Decoder

	block       []int32
	values      []int32 // decoded, not yet returned
	samplesLeft int     // not yet decoded
	scratch     []int16
}

// NewReader parses the header found at data[offset:] and returns a Reader
// positioned at the first sample. Header problems are reported as
// *FormatError.
func NewReader(data []byte, offset int) (*Reader, error) {
	if offset < 0 || offset > len(data) {
		return nil, &FormatError{Field: "offset", Value: int64(offset), Err: ErrShortHeader}
	}
	data = data[offset:]

	h, err := ParseHeader(data)
	if err != nil {
		return nil, err
	}

	br := bits.NewReader(data[HeaderSize:])
	return &Reader{
		hdr:         h,
		br:          br,
		unpacker:    unpack.New(br, h.Levels, h.SubBlocks),
		decoder:     subband.New(h.Levels),
		block:       make([]int32, h.BlockSize()),
		samplesLeft: h.NumSamples,
	}, nil
}

// Header returns the stream header.
func (r *Reader) Header() Header {
	return r.hdr
}

// Remaining returns how many samples the stream still has to deliver.
func (r *Reader) Remaining() int {
	return r.samplesLeft + len(r.values)
}

// Truncated reports whether decoding has run past the end of the input
// and is being fed zero bits.
func (r *Reader) Truncated() bool {
	return r.br.Overrun()
}

// ReadSamples fills dst with the next samples and returns how many came from
// the stream. Once the header's sample count is used up, the rest of dst is
// set to silence; a call that delivers no stream samples returns io.EOF.
func (r *Reader) ReadSamples(dst []int16) (int, error) {
	n := r.fill(dst)
	clear(dst[n:])
	if n == 0 && len(dst) > 0 {
		return 0, io.EOF
	}
	return n, nil
}

// Read implements io.Reader over little-endian 16-bit PCM. Unlike
// ReadSamples it does not pad; it returns io.EOF at the end of the stream.
func (r *Reader) Read(p []byte) (int, error) {
	want := len(p) / 2
	if want == 0 {
		if len(p) == 0 {
			return 0, nil
		}
		return 0, io.ErrShortBuffer
	}
	if cap(r.scratch) < want {
		r.scratch = make([]int16, want)
	}
	buf := r.scratch[:want]

	n := r.fill(buf)
	if n == 0 {
		return 0, io.EOF
	}
	for i, s := range buf[:n] {
		binary.LittleEndian.PutUint16(p[2*i:], uint16(s))
	}
	return 2 * n, nil
}

func (r *Reader) fill(dst []int16) int {
	shift := uint(r.hdr.Levels)
	n := 0
	for n < len(dst) {
		if len(r.values) == 0 {
			if r.samplesLeft == 0 {
				break
			}
			r.refill()
		}

		k := min(len(r.values), len(dst)-n)
		for i, v := range r.values[:k] {
			dst[n+i] = clamp16(v >> shift)
		}
		r.values = r.values[k:]
		n += k
	}
	return n
}

// refill decodes the next block.
func (r *Reader) refill() {
	r.unpacker.GetOneBlock(r.block)
	r.decoder.Decode(r.block, r.hdr.SubBlocks)

	ready := min(len(r.block), r.samplesLeft)
	r.values = r.block[:ready]
	r.samplesLeft -= ready
}

func clamp16(v int32) int16 {
	if v > math.MaxInt16 {
		return math.MaxInt16
	}
	if v < math.MinInt16 {
		return math.MinInt16
	}
	return int16(v)
}
