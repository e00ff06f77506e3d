// Package kode derives the human-readable child code printed on posyandu
// records: YYYYMMDD-II-NNN, built from birth date, name initials and a
// per-birth-date sequence number.
package kode

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"
)

const (
	// NoDate is the date segment used when the birth date is unknown.
	NoDate = "00000000"
	// NoInitials is the initials segment used when the name is blank.
	NoInitials = "XX"

	dateLayout = "20060102"
	formLayout = "2006-01-02"
)

// Code is the structured form of a parsed child code.
type Code struct {
	Date     time.Time `json:"tanggal"` // zero when the code carries NoDate
	Initials string    `json:"inisial"`
	Sequence int       `json:"nomor"`
}

// DateString returns the date in form layout, or "" for a zero date.
func (c Code) DateString() string {
	if c.Date.IsZero() {
		return ""
	}
	return c.Date.Format(formLayout)
}

// Generate builds a child code. It never fails: a zero birthDate becomes
// NoDate, a blank name becomes NoInitials and seq below 1 is treated as 1.
// Sequences of 1000 and above widen the field instead of being truncated.
func Generate(fullName string, birthDate time.Time, seq int) string {
	if seq < 1 {
		seq = 1
	}
	return fmt.Sprintf("%s-%s-%03d", datePart(birthDate), Initials(fullName), seq)
}

// Initials returns the two-letter initials segment for a name.
func Initials(fullName string) string {
	words := strings.Fields(fullName)
	var rs []rune
	switch len(words) {
	case 0:
		return NoInitials
	case 1:
		rs = []rune(words[0])
		if len(rs) > 2 {
			rs = rs[:2]
		}
	default:
		rs = []rune{[]rune(words[0])[0], []rune(words[1])[0]}
	}
	for len(rs) < 2 {
		rs = append(rs, 'X')
	}
	for i, r := range rs {
		rs[i] = unicode.ToUpper(r)
	}
	return string(rs)
}

func datePart(d time.Time) string {
	if d.IsZero() {
		return NoDate
	}
	return d.Format(dateLayout)
}

// Parse splits a code back into its parts. ok is false when the code does not
// have exactly three hyphen-separated segments or when the date or sequence
// segment is not numeric.
func Parse(code string) (Code, bool) {
	parts := strings.Split(strings.TrimSpace(code), "-")
	if len(parts) != 3 {
		return Code{}, false
	}
	dp, ip, sp := parts[0], parts[1], parts[2]

	var date time.Time
	if dp != NoDate {
		d, err := time.Parse(dateLayout, dp)
		if err != nil {
			return Code{}, false
		}
		date = d
	}
	seq, err := strconv.Atoi(sp)
	if err != nil || seq < 0 {
		return Code{}, false
	}
	return Code{Date: date, Initials: ip, Sequence: seq}, true
}

// ParseDate reads a YYYY-MM-DD form value. Anything unparseable, including the
// empty string, yields the zero time.
func ParseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if len(s) > len(formLayout) {
		// Tolerate full timestamps such as 2025-01-13T00:00:00Z.
		s = s[:len(formLayout)]
	}
	d, err := time.Parse(formLayout, s)
	if err != nil {
		return time.Time{}
	}
	return d
}
