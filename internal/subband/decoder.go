// Package subband implements the ACM synthesis filter bank.
//
// A block of (1<<levels) rows by N columns is rebuilt in place by a cascade
// of levels two-band lifting stages. Each stage halves the sub-band size and
// doubles the number of columns it works across.
package subband

// Decoder runs the synthesis cascade for one stream.
//
// The filter memory of every stage carries over from one block to the next
// and is private to the Decoder.
type Decoder struct {
	levels int
	half   int     // sub-band size of the first stage
	first  []int16 // first stage memory, stored at 16 bits
	rest   []int32 // memory of the remaining stages, back to back
}

// New returns a Decoder for the given number of levels (0..15).
func New(levels int) *Decoder {
	d := &Decoder{levels: levels}
	if levels == 0 {
		return d
	}
	d.half = (1 << uint(levels)) >> 1
	d.first = make([]int16, 2*d.half)
	d.rest = make([]int32, 2*(d.half-1))
	return d
}

// Levels returns the number of stages.
func (d *Decoder) Levels() int {
	return d.levels
}

// Reset clears the filter memory.
func (d *Decoder) Reset() {
	clear(d.first)
	clear(d.rest)
}

// Decode reconstructs block in place. block holds subBlocks columns of
// 1<<levels rows, column after column. With zero levels it is left as is.
func (d *Decoder) Decode(block []int32, subBlocks int) {
	if d.levels == 0 {
		return
	}

	c := cursor{buf: block}
	sb := d.half
	blocks := subBlocks << 1

	d.firstStage(c, sb, blocks)
	for i := 0; i < blocks; i++ {
		block[i*sb]++
	}

	mem := d.rest
	sb >>= 1
	blocks <<= 1
	for sb != 0 {
		liftStage(mem[:2*sb], c, sb, blocks)
		mem = mem[2*sb:]
		sb >>= 1
		blocks <<= 1
	}
}

func (d *Decoder) firstStage(c cursor, sb, blocks int) {
	mem := d.first

	switch {
	case blocks == 2:
		for i := 0; i < sb; i++ {
			m0, m1 := int32(mem[2*i]), int32(mem[2*i+1])
			r0, r1 := lift2(c.with(i), sb, m0, m1)
			mem[2*i], mem[2*i+1] = int16(r0), int16(r1)
		}

	case blocks == 4:
		for i := 0; i < sb; i++ {
			m0, m1 := int32(mem[2*i]), int32(mem[2*i+1])
			r2, r3 := lift4(c.with(i), sb, m0, m1)
			mem[2*i], mem[2*i+1] = int16(r2), int16(r3)
		}

	default:
		for i := 0; i < sb; i++ {
			p := c.with(i)
			db0, db1 := int32(mem[2*i]), int32(mem[2*i+1])
			if (blocks>>1)&1 != 0 {
				db0, db1 = lift2(p, sb, db0, db1)
				p = p.with(2 * sb)
			}
			for j := 0; j < blocks>>2; j++ {
				db0, db1 = lift4(p, sb, db0, db1)
				p = p.with(4 * sb)
			}
			mem[2*i], mem[2*i+1] = int16(db0), int16(db1)
		}
	}
}

// liftStage runs one of the later stages; blocks is always a multiple of 4.
func liftStage(mem []int32, c cursor, sb, blocks int) {
	for i := 0; i < sb; i++ {
		p := c.with(i)
		db0, db1 := mem[2*i], mem[2*i+1]
		for j := 0; j < blocks>>2; j++ {
			db0, db1 = lift4(p, sb, db0, db1)
			p = p.with(4 * sb)
		}
		mem[2*i], mem[2*i+1] = db0, db1
	}
}

// lift2 rebuilds the two rows at p and p+sb from the previous pair
// (m0, m1) and returns the original values of those rows.
func lift2(p cursor, sb int, m0, m1 int32) (int32, int32) {
	r0 := p.at(0)
	r1 := p.at(sb)
	p.set(0, m0+2*m1+r0)
	p.set(sb, -m1+2*r0-r1)
	return r0, r1
}

// lift4 rebuilds four rows spaced sb apart and returns the original values
// of the last two.
func lift4(p cursor, sb int, m0, m1 int32) (int32, int32) {
	r0 := p.at(0)
	r1 := p.at(sb)
	r2 := p.at(2 * sb)
	r3 := p.at(3 * sb)
	p.set(0, m0+2*m1+r0)
	p.set(sb, -m1+2*r0-r1)
	p.set(2*sb, r0+2*r1+r2)
	p.set(3*sb, -r1+2*r2-r3)
	return r2, r3
}
