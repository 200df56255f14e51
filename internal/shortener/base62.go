package shortener

import (
	"fmt"
	"math"
	"strings"
)

// Alphabet is the base62 symbol set. Index 0 is '0', index 61 is 'Z'.
const Alphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

const base = uint64(len(Alphabet))

// Encode returns the base62 representation of n. Only Encode(0) starts with '0'.
func Encode(n uint64) string {
	if n == 0 {
		return Alphabet[:1]
	}

	var buf [11]byte // 62^11 > math.MaxUint64

	i := len(buf)
	for n > 0 {
		i--
		buf[i] = Alphabet[n%base]
		n /= base
	}

	return string(buf[i:])
}

// Decode parses a base62 string produced by Encode.
func Decode(s string) (uint64, error) {
	if s == "" {
		return 0, fmt.Errorf("%w: empty code", ErrValidation)
	}

	if len(s) > 1 && s[0] == Alphabet[0] {
		return 0, fmt.Errorf("%w: leading zero in %q", ErrValidation, s)
	}

	var n uint64

	for i := 0; i < len(s); i++ {
		idx := strings.IndexByte(Alphabet, s[i])
		if idx < 0 {
			return 0, fmt.Errorf("%w: invalid symbol %q", ErrValidation, s[i])
		}

		if n > (math.MaxUint64-uint64(idx))/base {
			return 0, fmt.Errorf("%w: %q overflows uint64", ErrValidation, s)
		}

		n = n*base + uint64(idx)
	}

	return n, nil
}

// IsCode reports whether s only uses base62 symbols.
func IsCode(s string) bool {
	if s == "" {
		return false
	}

	for i := 0; i < len(s); i++ {
		if strings.IndexByte(Alphabet, s[i]) < 0 {
			return false
		}
	}

	return true
}
