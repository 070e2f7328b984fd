package schema

import (
	"fmt"
	"strings"
	"time"
)

// Canonical storage layouts.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

var phpTokens = map[byte]string{
	'd': "02",
	'j': "2",
	'm': "01",
	'n': "1",
	'Y': "2006",
	'y': "06",
	'M': "Jan",
	'F': "January",
	'D': "Mon",
	'l': "Monday",
	'H': "15",
	'G': "15",
	'h': "03",
	'g': "3",
	'i': "04",
	's': "05",
	'A': "PM",
	'a': "pm",
}

// PHPToGoLayout converts an operator date pattern such as "d/m/Y" into a time layout.
// Unknown letters are copied as literals; a backslash escapes the next character.
func PHPToGoLayout(format string) string {
	var b strings.Builder
	for i := 0; i < len(format); i++ {
		c := format[i]
		if c == '\\' && i+1 < len(format) {
			i++
			b.WriteByte(format[i])
			continue
		}
		if tok, ok := phpTokens[c]; ok {
			b.WriteString(tok)
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

// ToCanonical turns a presentation-formatted date into YYYY-MM-DD.
// Empty input stays empty; values already canonical are accepted as-is.
func ToCanonical(value, format string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil
	}
	if format != "" {
		if t, err := time.Parse(PHPToGoLayout(format), value); err == nil {
			return t.Format(DateLayout), nil
		}
	}
	if t, err := time.Parse(DateLayout, value); err == nil {
		return t.Format(DateLayout), nil
	}
	return "", fmt.Errorf("toCanonical: %q does not match %q", value, format)
}

// ToPresentation formats a stored date with the operator pattern. Values that are
// not canonical dates are returned unchanged.
func ToPresentation(iso, format string) string {
	iso = strings.TrimSpace(iso)
	if iso == "" || format == "" || len(iso) < len(DateLayout) {
		return iso
	}
	t, err := time.Parse(DateLayout, iso[:len(DateLayout)])
	if err != nil {
		return iso
	}
	return t.Format(PHPToGoLayout(format))
}

// CanonicalTime normalises a wall clock value to HH:MM, accepting the operator
// pattern, 24h HH:MM[:SS] and 12h forms.
func CanonicalTime(value, format string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil
	}
	layouts := []string{TimeLayout, "15:04:05", "3:04 PM", "3:04PM", "3:04 pm", "3:04pm"}
	if format != "" {
		layouts = append([]string{PHPToGoLayout(format)}, layouts...)
	}
	for _, l := range layouts {
		if t, err := time.Parse(l, value); err == nil {
			return t.Format(TimeLayout), nil
		}
	}
	return "", fmt.Errorf("canonicalTime: %q is not a time", value)
}

// PresentTime formats a stored HH:MM[:SS] value with the operator pattern.
func PresentTime(value, format string) string {
	value = strings.TrimSpace(value)
	if value == "" || format == "" {
		return value
	}
	for _, l := range []string{TimeLayout, "15:04:05"} {
		if t, err := time.Parse(l, value); err == nil {
			return t.Format(PHPToGoLayout(format))
		}
	}
	return value
}
