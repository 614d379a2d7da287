package giftcards

import (
	"crypto/rand"
	"fmt"
	"strings"
)

// codeAlphabet excludes I, O, 0 and 1 so codes survive being read
// aloud or handwritten. 32 symbols over 16 positions gives a 32^16
// keyspace, large enough that collisions are a retry path, not a risk.
const (
	codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	codeLength   = 16
)

// GenerateCode produces a 16-character code from the restricted
// alphabet using a cryptographically secure source. Uniqueness is the
// repository's responsibility, not this function's.
func GenerateCode() (string, error) {
	buf := make([]byte, codeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	// 32 divides 256 evenly, so the modulo keeps the distribution uniform
	code := make([]byte, codeLength)
	for i, b := range buf {
		code[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return string(code), nil
}

// NormalizeCode strips dashes and whitespace and uppercases.
// Idempotent; applied before every lookup.
func NormalizeCode(code string) string {
	var sb strings.Builder
	sb.Grow(len(code))
	for _, r := range strings.ToUpper(code) {
		switch r {
		case '-', ' ', '\t', '\n', '\r':
			continue
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// FormatCodeForDisplay inserts a dash every 4 characters
// (ABCDEFGHJKLMNPQR -> ABCD-EFGH-JKLM-NPQR)
func FormatCodeForDisplay(code string) string {
	code = NormalizeCode(code)
	var groups []string
	for i := 0; i < len(code); i += 4 {
		end := i + 4
		if end > len(code) {
			end = len(code)
		}
		groups = append(groups, code[i:end])
	}
	return strings.Join(groups, "-")
}

// IsValidCodeFormat reports whether the normalized code is exactly 16
// characters, all from the code alphabet
func IsValidCodeFormat(code string) bool {
	code = NormalizeCode(code)
	if len(code) != codeLength {
		return false
	}
	for i := 0; i < len(code); i++ {
		if !strings.ContainsRune(codeAlphabet, rune(code[i])) {
			return false
		}
	}
	return true
}
