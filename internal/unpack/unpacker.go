// Package unpack entropy-decodes ACM coefficient blocks.
//
// Every block starts with a 4-bit ladder power and a 16-bit ladder step,
// followed by one 5-bit selector per row. The selector names the strategy
// that decodes that row for every sub-block column.
package unpack

import "github.com/zrdimetc/go-acm/internal/bits"

// Unpacker decodes quantized coefficient blocks from a bit stream.
type Unpacker struct {
	br        *bits.Reader
	amp       AmplitudeTable
	sbSize    int // rows per column, 1<<levels
	subBlocks int // columns per block
	block     []int32
}

// New returns an Unpacker for blocks of (1<<levels) rows by subBlocks
// columns read from br.
func New(br *bits.Reader, levels, subBlocks int) *Unpacker {
	return &Unpacker{
		br:        br,
		sbSize:    1 << uint(levels),
		subBlocks: subBlocks,
	}
}

// BlockSize returns the number of coefficients in one block.
func (u *Unpacker) BlockSize() int {
	return u.sbSize * u.subBlocks
}

// Amplitudes exposes the ladder built for the most recent block.
func (u *Unpacker) Amplitudes() *AmplitudeTable {
	return &u.amp
}

// GetOneBlock decodes the next block into block, which must hold at least
// BlockSize values. Coefficient (col, row) lands at block[col*rows+row].
//
// Decoding never fails: truncated input reads as zero bits and unknown
// selectors leave their row at zero.
func (u *Unpacker) GetOneBlock(block []int32) {
	u.block = block[:u.BlockSize()]
	clear(u.block)

	pwr := u.br.Get(4)
	step := u.br.Get(16)
	u.amp.Build(uint(pwr), step)

	for pass := 0; pass < u.sbSize; pass++ {
		idx := int(u.br.Get(5))
		fillers[idx](u, pass, idx)
	}
}

type filler func(u *Unpacker, pass, idx int)

// fillers maps each selector to its strategy. Several selectors share an
// implementation; the grouping is part of the stream format.
var fillers = [32]filler{
	0:  (*Unpacker).zeroFill,
	1:  (*Unpacker).skip,
	2:  (*Unpacker).skip,
	3:  (*Unpacker).linearFill,
	4:  (*Unpacker).linearFill,
	5:  (*Unpacker).linearFill,
	6:  (*Unpacker).linearFill,
	7:  (*Unpacker).linearFill,
	8:  (*Unpacker).linearFill,
	9:  (*Unpacker).linearFill,
	10: (*Unpacker).linearFill,
	11: (*Unpacker).linearFill,
	12: (*Unpacker).linearFill,
	13: (*Unpacker).linearFill,
	14: (*Unpacker).linearFill,
	15: (*Unpacker).linearFill,
	16: (*Unpacker).linearFill,
	17: (*Unpacker).k1Bits3,
	18: (*Unpacker).k1Bits2,
	19: (*Unpacker).t1Bits5,
	20: (*Unpacker).k2Bits4,
	21: (*Unpacker).k2Bits3,
	22: (*Unpacker).t2Bits7,
	23: (*Unpacker).k3Bits5,
	24: (*Unpacker).k3Bits4,
	25: (*Unpacker).skip,
	26: (*Unpacker).k4Bits5,
	27: (*Unpacker).k4Bits4,
	28: (*Unpacker).skip,
	29: (*Unpacker).t3Bits7,
	30: (*Unpacker).skip,
	31: (*Unpacker).skip,
}

func (u *Unpacker) set(col, pass int, v int32) {
	u.block[col*u.sbSize+pass] = v
}

// put stores the ladder amplitude at signed index i.
func (u *Unpacker) put(col, pass, i int) {
	u.set(col, pass, int32(u.amp.Get(i)))
}

// skip consumes nothing and leaves the row untouched.
func (u *Unpacker) skip(pass, idx int) {}

func (u *Unpacker) zeroFill(pass, _ int) {
	for i := 0; i < u.subBlocks; i++ {
		u.set(i, pass, 0)
	}
}

// linearFill reads idx raw bits per value, centered on the ladder.
func (u *Unpacker) linearFill(pass, idx int) {
	w := uint(idx)
	mask := uint32(1)<<w - 1
	base := -(1 << (w - 1))
	for i := 0; i < u.subBlocks; i++ {
		u.put(i, pass, base+int(u.br.Get(w)&mask))
	}
}

// k1Bits3: 0 -> two zeros, 10 -> zero, 11s -> ±1.
func (u *Unpacker) k1Bits3(pass, _ int) {
	for i := 0; i < u.subBlocks; i++ {
		b := u.br.Peek(3)
		switch {
		case b&1 == 0:
			u.br.Skip(1)
			u.set(i, pass, 0)
			if i++; i == u.subBlocks {
				return
			}
			u.set(i, pass, 0)
		case b&2 == 0:
			u.br.Skip(2)
			u.set(i, pass, 0)
		default:
			u.br.Skip(3)
			u.put(i, pass, sign(b&4))
		}
	}
}

// k1Bits2: 0 -> zero, 1s -> ±1.
func (u *Unpacker) k1Bits2(pass, _ int) {
	for i := 0; i < u.subBlocks; i++ {
		b := u.br.Peek(2)
		if b&1 == 0 {
			u.br.Skip(1)
			u.set(i, pass, 0)
			continue
		}
		u.br.Skip(2)
		u.put(i, pass, sign(b&2))
	}
}

// t1Bits5: three values in -1..1 per 5-bit code.
func (u *Unpacker) t1Bits5(pass, _ int) {
	for i := 0; i < u.subBlocks; i++ {
		code := table1[u.br.Get(5)]
		u.put(i, pass, -1+int(code&3))
		if i++; i == u.subBlocks {
			return
		}
		code >>= 2
		u.put(i, pass, -1+int(code&3))
		if i++; i == u.subBlocks {
			return
		}
		code >>= 2
		u.put(i, pass, -1+int(code))
	}
}

// k2Bits4: 0 -> two zeros, 10 -> zero, 11ms -> ±1 or ±2.
func (u *Unpacker) k2Bits4(pass, _ int) {
	for i := 0; i < u.subBlocks; i++ {
		b := u.br.Peek(4)
		switch {
		case b&1 == 0:
			u.br.Skip(1)
			u.set(i, pass, 0)
			if i++; i == u.subBlocks {
				return
			}
			u.set(i, pass, 0)
		case b&2 == 0:
			u.br.Skip(2)
			u.set(i, pass, 0)
		default:
			u.br.Skip(4)
			u.put(i, pass, twoLevel(b&8, b&4))
		}
	}
}

// k2Bits3: 0 -> zero, 1ms -> ±1 or ±2.
func (u *Unpacker) k2Bits3(pass, _ int) {
	for i := 0; i < u.subBlocks; i++ {
		b := u.br.Peek(3)
		if b&1 == 0 {
			u.br.Skip(1)
			u.set(i, pass, 0)
			continue
		}
		u.br.Skip(3)
		u.put(i, pass, twoLevel(b&4, b&2))
	}
}

// t2Bits7: three values in -2..2 per 7-bit code.
func (u *Unpacker) t2Bits7(pass, _ int) {
	for i := 0; i < u.subBlocks; i++ {
		code := table2[u.br.Get(7)]
		u.put(i, pass, -2+int(code&7))
		if i++; i == u.subBlocks {
			return
		}
		code >>= 3
		u.put(i, pass, -2+int(code&7))
		if i++; i == u.subBlocks {
			return
		}
		code >>= 3
		u.put(i, pass, -2+int(code))
	}
}

// k3Bits5: 0 -> two zeros, 10 -> zero, 110s -> ±1, 111xx -> ±2 or ±3.
func (u *Unpacker) k3Bits5(pass, _ int) {
	for i := 0; i < u.subBlocks; i++ {
		b := u.br.Peek(5)
		switch {
		case b&1 == 0:
			u.br.Skip(1)
			u.set(i, pass, 0)
			if i++; i == u.subBlocks {
				return
			}
			u.set(i, pass, 0)
		case b&2 == 0:
			u.br.Skip(2)
			u.set(i, pass, 0)
		case b&4 == 0:
			u.br.Skip(4)
			u.put(i, pass, sign(b&8))
		default:
			u.br.Skip(5)
			u.put(i, pass, outer3(int(b&0x18)>>3))
		}
	}
}

// k3Bits4: 0 -> zero, 10s -> ±1, 11xx -> ±2 or ±3.
func (u *Unpacker) k3Bits4(pass, _ int) {
	for i := 0; i < u.subBlocks; i++ {
		b := u.br.Peek(4)
		switch {
		case b&1 == 0:
			u.br.Skip(1)
			u.set(i, pass, 0)
		case b&2 == 0:
			u.br.Skip(3)
			u.put(i, pass, sign(b&4))
		default:
			u.br.Skip(4)
			u.put(i, pass, outer3(int(b&0xC)>>2))
		}
	}
}

// k4Bits5: 0 -> two zeros, 10 -> zero, 11xxx -> ±1..±4.
func (u *Unpacker) k4Bits5(pass, _ int) {
	for i := 0; i < u.subBlocks; i++ {
		b := u.br.Peek(5)
		switch {
		case b&1 == 0:
			u.br.Skip(1)
			u.set(i, pass, 0)
			if i++; i == u.subBlocks {
				return
			}
			u.set(i, pass, 0)
		case b&2 == 0:
			u.br.Skip(2)
			u.set(i, pass, 0)
		default:
			u.br.Skip(5)
			u.put(i, pass, nonZero4(int(b&0x1C)>>2))
		}
	}
}

// k4Bits4: 0 -> zero, 1xxx -> ±1..±4.
func (u *Unpacker) k4Bits4(pass, _ int) {
	for i := 0; i < u.subBlocks; i++ {
		b := u.br.Peek(4)
		if b&1 == 0 {
			u.br.Skip(1)
			u.set(i, pass, 0)
			continue
		}
		u.br.Skip(4)
		u.put(i, pass, nonZero4(int(b&0xE)>>1))
	}
}

// t3Bits7: two values in -5..5 per 7-bit code.
func (u *Unpacker) t3Bits7(pass, _ int) {
	for i := 0; i < u.subBlocks; i++ {
		code := table3[u.br.Get(7)]
		u.put(i, pass, -5+int(code&0xF))
		if i++; i == u.subBlocks {
			return
		}
		u.put(i, pass, -5+int(code>>4))
	}
}

func sign(positive uint32) int {
	if positive != 0 {
		return 1
	}
	return -1
}

// twoLevel picks from {-2,-1,1,2}: the first bit is the sign, the second
// selects the magnitude (toward zero for negative values).
func twoLevel(positive, hi uint32) int {
	switch {
	case positive != 0 && hi != 0:
		return 2
	case positive != 0:
		return 1
	case hi != 0:
		return -1
	default:
		return -2
	}
}

// outer3 maps 0..3 to -3, -2, 2, 3.
func outer3(v int) int {
	if v >= 2 {
		v += 3
	}
	return v - 3
}

// nonZero4 maps 0..7 to -4..-1, 1..4.
func nonZero4(v int) int {
	if v >= 4 {
		v++
	}
	return v - 4
}
