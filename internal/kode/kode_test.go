package kode

import (
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var codeRe = regexp.MustCompile(`^\d{8}-[A-Z]{2}-\d{3,}$`)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestGenerate(t *testing.T) {
	tests := []struct {
		name  string
		full  string
		birth time.Time
		seq   int
		want  string
	}{
		{"two words", "Ari Ramadhan", date(2025, 1, 13), 1, "20250113-AR-001"},
		{"single word", "Siti", date(2025, 1, 13), 7, "20250113-SI-007"},
		{"absent everything", "", time.Time{}, 1, "00000000-XX-001"},
		{"three words uses first two", "muhammad ali akbar", date(2024, 12, 1), 12, "20241201-MA-012"},
		{"extra whitespace", "  Budi   Santoso ", date(2023, 5, 9), 3, "20230509-BS-003"},
		{"blank name", "   ", date(2023, 5, 9), 3, "20230509-XX-003"},
		{"one rune name padded", "A", date(2023, 5, 9), 3, "20230509-AX-003"},
		{"multi-byte runes", "émile", date(2023, 5, 9), 3, "20230509-ÉM-003"},
		{"wide sequence", "Ari Ramadhan", date(2025, 1, 13), 1000, "20250113-AR-1000"},
		{"non-positive sequence clamps", "Ari", date(2025, 1, 13), 0, "20250113-AR-001"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Generate(tt.full, tt.birth, tt.seq))
		})
	}
}

func TestGenerate_MatchesPattern(t *testing.T) {
	names := []string{"Ari Ramadhan", "Siti", "", "dewi lestari putri", "Yo"}
	for i, n := range names {
		for seq := 1; seq <= 999; seq += 97 {
			code := Generate(n, date(2020+i, time.Month(i+1), i+1), seq)
			assert.Regexp(t, codeRe, code)
		}
	}
}

func TestParse_RoundTrip(t *testing.T) {
	birth := date(2025, 1, 13)
	for _, seq := range []int{1, 7, 42, 999, 1000, 12345} {
		t.Run(fmt.Sprint(seq), func(t *testing.T) {
			code := Generate("Ari Ramadhan", birth, seq)
			got, ok := Parse(code)
			require.True(t, ok, "parse %q", code)
			assert.True(t, got.Date.Equal(birth))
			assert.Equal(t, seq, got.Sequence)
			assert.Equal(t, Initials("Ari Ramadhan"), got.Initials)
			assert.Equal(t, "2025-01-13", got.DateString())
		})
	}
}

func TestParse_NoDate(t *testing.T) {
	got, ok := Parse("00000000-XX-001")
	require.True(t, ok)
	assert.True(t, got.Date.IsZero())
	assert.Equal(t, "", got.DateString())
	assert.Equal(t, "XX", got.Initials)
	assert.Equal(t, 1, got.Sequence)
}

func TestParse_Malformed(t *testing.T) {
	for _, code := range []string{
		"",
		"20250113",
		"20250113-AR",
		"20250113-AR-001-x",
		"2025011X-AR-001",
		"20250113-AR-abc",
		"20251399-AR-001",
	} {
		t.Run(code, func(t *testing.T) {
			_, ok := Parse(code)
			assert.False(t, ok)
		})
	}
}

func TestParseDate(t *testing.T) {
	assert.True(t, ParseDate("2025-01-13").Equal(date(2025, 1, 13)))
	assert.True(t, ParseDate("2025-01-13T08:30:00Z").Equal(date(2025, 1, 13)))
	assert.True(t, ParseDate("").IsZero())
	assert.True(t, ParseDate("13/01/2025").IsZero())
}
