package bits

// Writer packs values LSB-first, the mirror image of Reader. It is used to
// build coefficient streams for tests and fixtures.
type Writer struct {
	buf   []byte
	acc   uint64
	avail uint
}

// Put appends the low n bits of v.
func (w *Writer) Put(v uint32, n uint) *Writer {
	w.acc |= uint64(v&mask(n)) << w.avail
	w.avail += n
	for w.avail >= 8 {
		w.buf = append(w.buf, byte(w.acc))
		w.acc >>= 8
		w.avail -= 8
	}
	return w
}

// Bytes returns the packed stream, zero-padding the final partial byte.
func (w *Writer) Bytes() []byte {
	out := append([]byte(nil), w.buf...)
	if w.avail > 0 {
		out = append(out, byte(w.acc))
	}
	return out
}
