// Package prng implements a reproducible bit stream derived from repeated
// SHA-256 hashing of a seed, and a sampler that turns those bits into
// uniformly distributed integers without modulo bias.
//
// The generator is deterministic by construction. It is not suitable for
// secrets that must resist prediction by someone who knows the seed.
package prng

import (
	"crypto/sha256"
	"fmt"
)

// BitSource yields single bits (0 or 1).
type BitSource interface {
	Bit() uint8
}

// Stream is a hash-chained bit stream. A Stream must not be used from more
// than one goroutine at a time: every draw mutates its state.
type Stream struct {
	state [sha256.Size]byte
}

// Seed returns the canonical byte encoding of a seed value: the UTF-8 text of
// its default string form.
func Seed(v any) []byte {
	switch s := v.(type) {
	case []byte:
		return s
	case string:
		return []byte(s)
	default:
		return []byte(fmt.Sprint(v))
	}
}

// NewStream creates a stream whose state is the SHA-256 digest of seed.
func NewStream(seed []byte) *Stream {
	return &Stream{state: sha256.Sum256(seed)}
}

// next advances the state to H(S) and returns H(S || H(S)).
func (s *Stream) next() [sha256.Size]byte {
	next := sha256.Sum256(s.state[:])

	var buf [2 * sha256.Size]byte
	copy(buf[:sha256.Size], s.state[:])
	copy(buf[sha256.Size:], next[:])

	s.state = next
	return sha256.Sum256(buf[:])
}

// Bit returns the parity of the first byte of the next emitted digest.
func (s *Stream) Bit() uint8 {
	seq := s.next()
	return seq[0] % 2
}
