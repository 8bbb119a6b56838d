package subband

// cursor is a movable view into a block. Stages walk the block with
// several cursors at once, each advanced independently.
type cursor struct {
	buf []int32
	off int
}

func (c cursor) at(i int) int32 {
	return c.buf[c.off+i]
}

func (c cursor) set(i int, v int32) {
	c.buf[c.off+i] = v
}

// with returns a view shifted by delta values.
func (c cursor) with(delta int) cursor {
	return cursor{buf: c.buf, off: c.off + delta}
}
