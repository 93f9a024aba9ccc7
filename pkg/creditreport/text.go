package creditreport

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	dollarRe    = regexp.MustCompile(`\$([\d,]+(?:\.\d{2})?)`)
	fullDateRe  = regexp.MustCompile(`\b\d{2}/\d{2}/\d{4}\b`)
	monthYearRe = regexp.MustCompile(`\b(\d{2}/\d{4})\b`)
)

func cleanText(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "\u00a0", " "))
}

// ParseMonth parses MM/YYYY, or MM/DD/YYYY truncated to its month
func ParseMonth(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"01/2006", "01/02/2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

// monthsBetween counts calendar months from a to b, ignoring days
func monthsBetween(a, b time.Time) int {
	return (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
}

func parseDollars(s string) (int64, bool) {
	m := dollarRe.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	digits := strings.ReplaceAll(m[1], ",", "")
	if i := strings.IndexByte(digits, '.'); i >= 0 {
		digits = digits[:i]
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// labelEnd finds a two word label either on one line ("Credit Limit") or split
// over two consecutive lines. It returns the line holding the second word and the
// offset just past it.
func labelEnd(lines []string, first, second string) (int, int, bool) {
	for i, line := range lines {
		if j := strings.Index(line, first); j >= 0 {
			if k := strings.Index(line[j+len(first):], second); k >= 0 {
				return i, j + len(first) + k + len(second), true
			}
			if i+1 < len(lines) {
				if k := strings.Index(lines[i+1], second); k >= 0 {
					return i + 1, k + len(second), true
				}
			}
		}
	}
	return 0, 0, false
}

// amountAfter returns the first dollar amount following the label
func amountAfter(lines []string, first, second string) (int64, bool) {
	i, off, ok := labelEnd(lines, first, second)
	if !ok {
		return 0, false
	}
	if n, ok := parseDollars(cleanText(lines[i][off:])); ok {
		return n, true
	}
	for _, line := range lines[i+1:] {
		if n, ok := parseDollars(cleanText(line)); ok {
			return n, true
		}
	}
	return 0, false
}

// statusDate returns the first MM/YYYY after the "Status Date" label. Lines carrying
// a full MM/DD/YYYY date belong to other columns and are skipped.
func statusDate(lines []string) (string, bool) {
	i, off, ok := labelEnd(lines, "Status", "Date")
	if !ok {
		return "", false
	}
	candidates := append([]string{lines[i][off:]}, lines[i+1:]...)
	for _, line := range candidates {
		line = cleanText(line)
		if fullDateRe.MatchString(line) {
			continue
		}
		if m := monthYearRe.FindStringSubmatch(line); m != nil {
			return m[1], true
		}
	}
	return "", false
}
