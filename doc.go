// Package acm decodes ACM compressed audio, the sound format of the
// Infinity Engine games, into 16-bit PCM.
//
// A stream is a 14-byte header followed by a bit-packed coefficient stream.
// Blocks of coefficients are entropy-decoded and then rebuilt by a sub-band
// synthesis cascade; the result is shifted back to linear PCM.
//
// # Usage
//
//	r, err := acm.NewReader(data, 0)
//	if err != nil {
//	    return err
//	}
//	buf := make([]int16, 4096)
//	for r.Remaining() > 0 {
//	    n, _ := r.ReadSamples(buf)
//	    consume(buf[:n])
//	}
//
// To produce a WAV file directly:
//
//	out, err := acm.DecodeWAV(data, 0, &acm.Override{NumChannels: 2})
//
// # Damaged input
//
// Only the header is validated. Input that ends early decodes as if padded
// with zero bits, unknown block selectors decode to silence, and requests
// past the declared sample count are filled with zeros. Padding is not a
// failure: Reader.ReadSamples still zero-fills dst once the stream is used
// up, and returns io.EOF only to signal that none of dst came from the
// stream. Compare the number of samples delivered, or Reader.Truncated,
// against the header to detect short files.
//
// A Reader keeps mutable decoding state and must not be shared between
// goroutines; separate Readers are independent.
package acm
