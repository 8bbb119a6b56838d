package unpack

// Packed code tables for the fixed-length group strategies.
//
// table1 packs three ternary digits (2 bits each) per 5-bit code,
// table2 three quinary digits (3 bits each) per 7-bit code and
// table3 two base-11 digits (4 bits each) per 7-bit code. Digit d stands
// for amplitude index d-1, d-2 and d-5 respectively.
//
// Codes past the last digit combination have no meaning in the format;
// they are filled with the all-zero-amplitude group.
var (
	table1 = packDigits(32, 3, 3, 2)
	table2 = packDigits(128, 5, 3, 3)
	table3 = packDigits(128, 11, 2, 4)
)

func packDigits(size, base, digits int, width uint) []uint16 {
	valid := 1
	for i := 0; i < digits; i++ {
		valid *= base
	}
	center := base / 2

	out := make([]uint16, size)
	for code := range out {
		n := code
		var packed uint16
		for d := 0; d < digits; d++ {
			digit := center
			if code < valid {
				digit = n % base
				n /= base
			}
			packed |= uint16(digit) << (uint(d) * width)
		}
		out[code] = packed
	}
	return out
}
