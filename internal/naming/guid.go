package naming

import (
	"fmt"

	"github.com/google/uuid"
)

// guidAlphabet is the 64-character base used by compressed globally unique
// ids. It differs from standard base64 in the final two characters.
const guidAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz_$"

// NewGlobalID generates a fresh compressed globally unique id.
func NewGlobalID() string {
	return CompressGUID(uuid.New())
}

// CompressGUID encodes a 128-bit uuid as the canonical 22-character form:
// the first byte yields two characters, then each group of three bytes
// yields four.
func CompressGUID(u uuid.UUID) string {
	var out [22]byte
	out[0] = guidAlphabet[u[0]>>6]
	out[1] = guidAlphabet[u[0]&0x3f]
	for i := 0; i < 5; i++ {
		n := uint32(u[1+3*i])<<16 | uint32(u[2+3*i])<<8 | uint32(u[3+3*i])
		for j := 3; j >= 0; j-- {
			out[2+4*i+j] = guidAlphabet[n&0x3f]
			n >>= 6
		}
	}
	return string(out[:])
}

// ExpandGUID decodes a 22-character compressed id back into its uuid.
func ExpandGUID(s string) (uuid.UUID, error) {
	if len(s) != 22 {
		return uuid.UUID{}, fmt.Errorf("compressed guid %q: want 22 characters, got %d", s, len(s))
	}
	digits := make([]byte, 22)
	for i := 0; i < 22; i++ {
		d := digitValue(s[i])
		if d < 0 {
			return uuid.UUID{}, fmt.Errorf("compressed guid %q: invalid character %q", s, s[i])
		}
		digits[i] = byte(d)
	}
	if digits[0] > 3 {
		return uuid.UUID{}, fmt.Errorf("compressed guid %q: leading character out of range", s)
	}
	var u uuid.UUID
	u[0] = digits[0]<<6 | digits[1]
	for i := 0; i < 5; i++ {
		n := uint32(digits[2+4*i])<<18 | uint32(digits[3+4*i])<<12 |
			uint32(digits[4+4*i])<<6 | uint32(digits[5+4*i])
		u[1+3*i] = byte(n >> 16)
		u[2+3*i] = byte(n >> 8)
		u[3+3*i] = byte(n)
	}
	return u, nil
}

func digitValue(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'A' && c <= 'Z':
		return int(c-'A') + 10
	case c >= 'a' && c <= 'z':
		return int(c-'a') + 36
	case c == '_':
		return 62
	case c == '$':
		return 63
	}
	return -1
}
