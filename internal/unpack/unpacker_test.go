package unpack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zrdimetc/go-acm/internal/bits"
)

// header starts a block with the given ladder.
func header(pwr, step uint32) *bits.Writer {
	return new(bits.Writer).Put(pwr, 4).Put(step, 16)
}

func decode(t *testing.T, w *bits.Writer, levels, subBlocks int) ([]int32, *bits.Reader) {
	t.Helper()
	br := bits.NewReader(w.Bytes())
	u := New(br, levels, subBlocks)
	block := make([]int32, u.BlockSize())
	u.GetOneBlock(block)
	return block, br
}

func TestAmplitudeTable_Symmetric(t *testing.T) {
	for pwr := uint(0); pwr <= 15; pwr++ {
		var tab AmplitudeTable
		tab.Build(pwr, 3)

		count := 1 << pwr
		require.Equal(t, int16(0), tab.Get(0), "pwr=%d", pwr)
		for i := 1; i < count; i++ {
			require.Equal(t, tab.Get(i), -tab.Get(-i), "pwr=%d i=%d", pwr, i)
		}
		assert.Equal(t, int16(-count*3), tab.Get(-count), "pwr=%d", pwr)
	}
}

func TestAmplitudeTable_Ladder(t *testing.T) {
	var tab AmplitudeTable
	tab.Build(2, 10)

	want := map[int]int16{-4: -40, -3: -30, -2: -20, -1: -10, 0: 0, 1: 10, 2: 20, 3: 30}
	for i, v := range want {
		assert.Equal(t, v, tab.Get(i), "index %d", i)
	}
}

func TestAmplitudeTable_TruncatesTo16Bits(t *testing.T) {
	var tab AmplitudeTable
	tab.Build(3, 0x5000)

	assert.Equal(t, int16(0x5000), tab.Get(1))
	assert.Equal(t, int16(-0x6000), tab.Get(2)) // 0xA000
}

func TestAmplitudeTable_OutOfRange(t *testing.T) {
	var tab AmplitudeTable
	tab.Set(1<<15, 7)
	tab.Set(-(1<<15)-1, 7)

	assert.Equal(t, int16(0), tab.Get(1<<15))
	assert.Equal(t, int16(0), tab.Get(-(1<<15)-1))

	tab.Set(-(1 << 15), 9)
	assert.Equal(t, int16(9), tab.Get(-(1 << 15)))
}

func TestTables_MatchDigitLayout(t *testing.T) {
	assert.Equal(t, []uint16{0, 1, 2, 4, 5, 6, 8, 9, 10, 16, 17, 18, 20, 21, 22, 24, 25, 26,
		32, 33, 34, 36, 37, 38, 40, 41, 42}, table1[:27])
	assert.Equal(t, uint16(21), table1[31])

	assert.Equal(t, uint16(0), table2[0])
	assert.Equal(t, uint16(4|4<<3|4<<6), table2[124])
	assert.Equal(t, uint16(2|2<<3|2<<6), table2[127])
	assert.Equal(t, uint16(1|1<<3), table2[6])

	assert.Equal(t, uint16(10), table3[10])
	assert.Equal(t, uint16(0x10), table3[11])
	assert.Equal(t, uint16(0xAA), table3[120])
	assert.Equal(t, uint16(0x55), table3[121])
}

func TestGetOneBlock_LinearFill(t *testing.T) {
	w := header(2, 10).Put(3, 5).Put(0x5, 3)

	u := New(bits.NewReader(w.Bytes()), 0, 1)
	block := make([]int32, u.BlockSize())
	u.GetOneBlock(block)
	assert.Equal(t, []int32{10}, block)
	assert.Equal(t, int16(-40), u.Amplitudes().Get(-4))
}

func TestGetOneBlock_LinearFillWidths(t *testing.T) {
	for idx := uint(3); idx <= 16; idx++ {
		// raw value 0 is the most negative ladder index
		w := header(15, 1).Put(uint32(idx), 5).Put(0, idx).Put(1<<(idx-1), idx)

		block, _ := decode(t, w, 0, 2)
		assert.Equal(t, []int32{-(1 << (idx - 1)), 0}, block, "idx=%d", idx)
	}
}

func TestGetOneBlock_ZeroFill(t *testing.T) {
	w := header(1, 5).Put(0, 5).Put(0, 5)

	br := bits.NewReader(w.Bytes())
	u := New(br, 1, 3)
	block := []int32{9, 9, 9, 9, 9, 9}
	u.GetOneBlock(block)

	assert.Equal(t, []int32{0, 0, 0, 0, 0, 0}, block)
}

func TestGetOneBlock_ReservedSelectorsConsumeNothing(t *testing.T) {
	for _, sel := range []uint32{1, 2, 25, 28, 30, 31} {
		// row 0 uses the reserved selector, row 1 reads a raw 3-bit value
		w := header(2, 10).Put(sel, 5).Put(3, 5).Put(0x7, 3)

		block, br := decode(t, w, 1, 1)
		assert.Equal(t, []int32{0, 30}, block, "selector %d", sel)
		assert.False(t, br.Overrun(), "selector %d", sel)
	}
}

func TestGetOneBlock_K1Bits3(t *testing.T) {
	// 0 (two zeros), 11 then sign 1 (+1), 10 (zero), 11 sign 0 (-1)
	w := header(1, 7).Put(17, 5).
		Put(0, 1).
		Put(1, 1).Put(1, 1).Put(1, 1).
		Put(1, 1).Put(0, 1).
		Put(1, 1).Put(1, 1).Put(0, 1)

	block, _ := decode(t, w, 0, 5)
	assert.Equal(t, []int32{0, 0, 7, 0, -7}, block)
}

func TestGetOneBlock_K1Bits3_PairStopsAtEnd(t *testing.T) {
	// the zero pair starts on the last column and must not spill over
	w := header(3, 7).Put(17, 5).
		Put(1, 1).Put(1, 1).Put(1, 1).
		Put(0, 1).
		Put(4, 5).Put(0xF, 4).Put(0xF, 4)

	block, _ := decode(t, w, 1, 2)
	// column-major: col0 rows 0..1, then col1 rows 0..1
	assert.Equal(t, []int32{7, 49, 0, 49}, block)
}

func TestGetOneBlock_ZeroPairStopsAtEnd(t *testing.T) {
	tests := []struct {
		name     string
		selector uint32
		plusOne  func(w *bits.Writer) // code for +1 on the first column
	}{
		{"k2Bits4", 20, func(w *bits.Writer) { w.Put(0x3|0x8, 4) }},
		{"k3Bits5", 23, func(w *bits.Writer) { w.Put(0x3|0x8, 4) }},
		{"k4Bits5", 26, func(w *bits.Writer) { w.Put(0x3|4<<2, 5) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := header(3, 7).Put(tt.selector, 5)
			tt.plusOne(w)
			// pair code on the last column, then a raw row that must still line up
			w.Put(0, 1).Put(4, 5).Put(0xF, 4).Put(0xF, 4)

			block, br := decode(t, w, 1, 2)
			assert.Equal(t, []int32{7, 49, 0, 49}, block)
			assert.False(t, br.Overrun())
		})
	}
}

func TestGetOneBlock_K1Bits2(t *testing.T) {
	w := header(1, 4).Put(18, 5).
		Put(0, 1).
		Put(1, 1).Put(1, 1).
		Put(1, 1).Put(0, 1)

	block, _ := decode(t, w, 0, 3)
	assert.Equal(t, []int32{0, 4, -4}, block)
}

func TestGetOneBlock_T1Bits5(t *testing.T) {
	// code 5 = digits 2,1,0 -> +1, 0, -1; code 26 = 2,2,2
	w := header(1, 3).Put(19, 5).Put(5, 5).Put(26, 5)

	block, br := decode(t, w, 0, 5)
	assert.Equal(t, []int32{3, 0, -3, 3, 3}, block)
	assert.Equal(t, 5, br.Offset())
}

func TestGetOneBlock_K2Bits4(t *testing.T) {
	w := header(2, 1).Put(20, 5).
		Put(0x3|0x8|0x4, 4). // +2
		Put(0x3|0x8, 4).     // +1
		Put(0x3|0x4, 4).     // -1
		Put(0x3, 4).         // -2
		Put(0x1, 2).         // zero
		Put(0, 1)            // zero pair

	block, _ := decode(t, w, 0, 7)
	assert.Equal(t, []int32{2, 1, -1, -2, 0, 0, 0}, block)
}

func TestGetOneBlock_K2Bits3(t *testing.T) {
	w := header(2, 1).Put(21, 5).
		Put(0x1|0x4|0x2, 3). // +2
		Put(0x1|0x4, 3).     // +1
		Put(0x1|0x2, 3).     // -1
		Put(0x1, 3).         // -2
		Put(0, 1)            // zero

	block, _ := decode(t, w, 0, 5)
	assert.Equal(t, []int32{2, 1, -1, -2, 0}, block)
}

func TestGetOneBlock_T2Bits7(t *testing.T) {
	// 4 + 5*0 + 25*2 = 54 -> +2, -2, 0
	w := header(2, 1).Put(22, 5).Put(54, 7).Put(124, 7)

	block, _ := decode(t, w, 0, 4)
	assert.Equal(t, []int32{2, -2, 0, 2}, block)
}

func TestGetOneBlock_K3Bits5(t *testing.T) {
	w := header(2, 1).Put(23, 5).
		Put(0x3|0x8, 4).  // 110 then sign 1: +1
		Put(0x3, 4).      // -1
		Put(0x7, 5).      // 111 00: -3
		Put(0x7|0x08, 5). // -2
		Put(0x7|0x10, 5). // +2
		Put(0x7|0x18, 5). // +3
		Put(0x1, 2)       // zero

	block, _ := decode(t, w, 0, 7)
	assert.Equal(t, []int32{1, -1, -3, -2, 2, 3, 0}, block)
}

func TestGetOneBlock_K3Bits4(t *testing.T) {
	w := header(2, 1).Put(24, 5).
		Put(0x1|0x4, 3). // +1
		Put(0x1, 3).     // -1
		Put(0x3, 4).     // -3
		Put(0x3|0x4, 4). // -2
		Put(0x3|0x8, 4). // +2
		Put(0x3|0xC, 4). // +3
		Put(0, 1)        // zero

	block, _ := decode(t, w, 0, 7)
	assert.Equal(t, []int32{1, -1, -3, -2, 2, 3, 0}, block)
}

func TestGetOneBlock_K4Bits5(t *testing.T) {
	w := header(3, 1).Put(26, 5)
	for v := uint32(0); v < 8; v++ {
		w.Put(0x3|v<<2, 5)
	}
	w.Put(0, 1)

	block, _ := decode(t, w, 0, 10)
	assert.Equal(t, []int32{-4, -3, -2, -1, 1, 2, 3, 4, 0, 0}, block)
}

func TestGetOneBlock_K4Bits4(t *testing.T) {
	w := header(3, 1).Put(27, 5)
	for v := uint32(0); v < 8; v++ {
		w.Put(0x1|v<<1, 4)
	}
	w.Put(0, 1)

	block, _ := decode(t, w, 0, 9)
	assert.Equal(t, []int32{-4, -3, -2, -1, 1, 2, 3, 4, 0}, block)
}

func TestGetOneBlock_T3Bits7(t *testing.T) {
	// 10 + 11*0 -> +5, -5; 60 = 5 + 11*5 -> 0, 0
	w := header(3, 2).Put(29, 5).Put(10, 7).Put(60, 7)

	block, _ := decode(t, w, 0, 3)
	assert.Equal(t, []int32{10, -10, 0}, block)
}

func TestGetOneBlock_TruncatedStreamIsSilent(t *testing.T) {
	br := bits.NewReader([]byte{0x00})
	u := New(br, 4, 8)
	block := make([]int32, u.BlockSize())

	require.NotPanics(t, func() { u.GetOneBlock(block) })
	assert.Equal(t, make([]int32, 16*8), block)
	assert.True(t, br.Overrun())
}

func TestGetOneBlock_Deterministic(t *testing.T) {
	data := []byte{0x3D, 0xA1, 0x77, 0x02, 0xFE, 0x19, 0x88, 0x41, 0x5C, 0x90, 0x0B, 0xE3}

	run := func() []int32 {
		u := New(bits.NewReader(data), 2, 3)
		block := make([]int32, u.BlockSize())
		u.GetOneBlock(block)
		return block
	}

	assert.Equal(t, run(), run())
}
