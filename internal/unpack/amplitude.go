package unpack

// tableCenter is the slot holding amplitude index 0. Indices run from
// -tableCenter to tableCenter-1, which covers every ladder a 4-bit power
// field can describe.
const tableCenter = 1 << 15

// AmplitudeTable is the signed quantization ladder of one block.
//
// Slots outside the ladder of the current block keep whatever an earlier
// block stored there; the table is rebuilt in place, never cleared.
type AmplitudeTable struct {
	v [2 * tableCenter]int16
}

// Build fills the ladder for a block: index i maps to i*step for
// i in [-(1<<pwr), (1<<pwr)-1], truncated to 16 bits.
func (t *AmplitudeTable) Build(pwr uint, step uint32) {
	count := 1 << (pwr & 0xF)
	s := int(step & 0xFFFF)
	for i := 0; i < count; i++ {
		t.v[tableCenter+i] = int16(i * s)
	}
	for i := 1; i <= count; i++ {
		t.v[tableCenter-i] = int16(-i * s)
	}
}

// Get returns the amplitude at signed index i. Indices outside the table
// read as zero.
func (t *AmplitudeTable) Get(i int) int16 {
	if i < -tableCenter || i >= tableCenter {
		return 0
	}
	return t.v[tableCenter+i]
}

// Set stores v at signed index i. Out of range indices are ignored.
func (t *AmplitudeTable) Set(i int, v int16) {
	if i < -tableCenter || i >= tableCenter {
		return
	}
	t.v[tableCenter+i] = v
}
