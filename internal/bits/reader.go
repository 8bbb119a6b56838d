// Package bits implements the LSB-first bit reader used by the ACM
// coefficient stream.
package bits

// Reader pulls bits from a byte slice, least significant bit first.
//
// Bytes are loaded lazily: each fresh byte is OR'd into the accumulator
// directly above the bits still pending. Reading past the end of the slice
// never fails; the missing bytes are treated as zero.
type Reader struct {
	data  []byte
	pos   int    // next byte to load
	acc   uint32 // pending bits, next bit in bit 0
	avail uint   // number of valid bits in acc
	pad   int    // zero bytes substituted past the end
}

// NewReader returns a Reader positioned at the first byte of data.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Request makes sure at least n bits (n <= 24) are pending.
func (r *Reader) Request(n uint) {
	for r.avail < n {
		var b byte
		if r.pos < len(r.data) {
			b = r.data[r.pos]
			r.pos++
		} else {
			r.pad++
		}
		r.acc |= uint32(b) << r.avail
		r.avail += 8
	}
}

// Peek returns the next n bits without consuming them.
func (r *Reader) Peek(n uint) uint32 {
	r.Request(n)
	return r.acc & mask(n)
}

// Skip consumes n bits. The bits must have been requested already.
func (r *Reader) Skip(n uint) {
	r.acc >>= n
	r.avail -= n
}

// Get reads and consumes n bits.
func (r *Reader) Get(n uint) uint32 {
	v := r.Peek(n)
	r.Skip(n)
	return v
}

// Offset returns the number of bytes taken from the input so far.
func (r *Reader) Offset() int {
	return r.pos
}

// Overrun reports whether any zero padding was substituted for missing input.
func (r *Reader) Overrun() bool {
	return r.pad > 0
}

func mask(n uint) uint32 {
	return (uint32(1) << n) - 1
}
