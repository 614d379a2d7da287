package giftcards

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCode_FormatAndAlphabet(t *testing.T) {
	for i := 0; i < 50; i++ {
		code, err := GenerateCode()
		require.NoError(t, err)
		assert.Len(t, code, 16)
		for _, r := range code {
			assert.True(t, strings.ContainsRune(codeAlphabet, r),
				"character %q not in alphabet", r)
		}
	}
}

func TestGenerateCode_Distinct(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		code, err := GenerateCode()
		require.NoError(t, err)
		assert.False(t, seen[code], "duplicate code %s", code)
		seen[code] = true
	}
}

func TestNormalizeCode(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercase", "abcdefgh", "ABCDEFGH"},
		{"dashes stripped", "ABCD-EFGH-JKLM-NPQR", "ABCDEFGHJKLMNPQR"},
		{"whitespace stripped", " ABCD EFGH\tJKLM ", "ABCDEFGHJKLM"},
		{"mixed", " abcd-EFGH ", "ABCDEFGH"},
		{"already canonical", "ABCDEFGHJKLMNPQR", "ABCDEFGHJKLMNPQR"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeCode(tt.input))
		})
	}
}

func TestNormalizeCode_Idempotent(t *testing.T) {
	input := "abcd-EFGH jklm-NPQR"
	once := NormalizeCode(input)
	assert.Equal(t, once, NormalizeCode(once))
}

func TestFormatCodeForDisplay(t *testing.T) {
	assert.Equal(t, "ABCD-EFGH-JKLM-NPQR", FormatCodeForDisplay("ABCDEFGHJKLMNPQR"))
	assert.Equal(t, "ABCD-EFGH-JKLM-NPQR", FormatCodeForDisplay("abcd-efgh-jklm-npqr"))
}

func TestFormatCodeForDisplay_RoundTrip(t *testing.T) {
	// normalize(formatForDisplay(normalize(x))) == normalize(x)
	inputs := []string{
		"ABCDEFGHJKLMNPQR",
		"abcd-efgh-jklm-npqr",
		"WXYZ2345 6789ABCD",
	}
	for _, x := range inputs {
		normalized := NormalizeCode(x)
		assert.Equal(t, normalized, NormalizeCode(FormatCodeForDisplay(normalized)))
	}
}

func TestIsValidCodeFormat(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"valid canonical", "ABCDEFGHJKLMNPQR", true},
		{"valid dashed", "ABCD-EFGH-JKLM-NPQR", true},
		{"valid lowercase", "abcdefghjklmnpqr", true},
		{"too short", "ABCDEFGHJKLMNPQ", false},
		{"too long", "ABCDEFGHJKLMNPQRS", false},
		{"empty", "", false},
		{"contains I", "IBCDEFGHJKLMNPQR", false},
		{"contains O", "ABCDEFGHJKLMNPQO", false},
		{"contains 0", "ABCDEFGH0KLMNPQR", false},
		{"contains 1", "ABCDEFGHJKLMNPQ1", false},
		{"contains symbol", "ABCD!FGHJKLMNPQR", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidCodeFormat(tt.input))
		})
	}
}

func TestIsValidCodeFormat_RejectsAmbiguousAnywhere(t *testing.T) {
	base := "ABCDEFGHJKLMNPQR"
	for _, bad := range []byte{'I', 'O', '0', '1'} {
		for pos := 0; pos < len(base); pos++ {
			mutated := []byte(base)
			mutated[pos] = bad
			assert.False(t, IsValidCodeFormat(string(mutated)),
				"expected %q rejected with %q at position %d", mutated, bad, pos)
		}
	}
}
