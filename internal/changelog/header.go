package changelog

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DefaultHeaderFormat is used when no header format is configured.
const DefaultHeaderFormat = "{version} - {date}"

var placeholderRE = regexp.MustCompile(`\{([A-Za-z]+)(?:#([^{}]*))?\}`)

// FormatHeader expands a version heading template. Supported placeholders
// are {version}, {date} (ISO 8601, 2006-01-02) and {date#PATTERN}, where
// PATTERN uses the letter conventions of Java date patterns (yyyy, MM, dd,
// HH, mm, ss, MMM, EEE, ...). Unknown placeholders are left as written.
func FormatHeader(format, version string, now time.Time) string {
	return placeholderRE.ReplaceAllStringFunc(format, func(match string) string {
		m := placeholderRE.FindStringSubmatch(match)
		name, hasPattern := m[1], strings.Contains(match, "#")
		switch {
		case name == "version" && !hasPattern:
			return version
		case name == "date" && !hasPattern:
			return now.Format(time.DateOnly)
		case name == "date":
			return formatDatePattern(m[2], now)
		default:
			return match
		}
	})
}

// formatDatePattern renders t using a Java-style date pattern. Letters are
// grouped into runs; text inside single quotes is literal and '' is a quote.
func formatDatePattern(pattern string, t time.Time) string {
	var b strings.Builder
	runes := []rune(pattern)

	for i := 0; i < len(runes); {
		r := runes[i]

		if r == '\'' {
			if i+1 < len(runes) && runes[i+1] == '\'' {
				b.WriteRune('\'')
				i += 2
				continue
			}
			j := i + 1
			for j < len(runes) && runes[j] != '\'' {
				j++
			}
			b.WriteString(string(runes[i+1 : j]))
			i = j + 1
			continue
		}

		if !isPatternLetter(r) {
			b.WriteRune(r)
			i++
			continue
		}

		n := 1
		for i+n < len(runes) && runes[i+n] == r {
			n++
		}
		b.WriteString(dateField(r, n, t))
		i += n
	}
	return b.String()
}

func isPatternLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func dateField(letter rune, count int, t time.Time) string {
	switch letter {
	case 'y', 'u':
		if count == 2 {
			return pad(t.Year()%100, 2)
		}
		return pad(t.Year(), count)
	case 'M', 'L':
		switch {
		case count >= 4:
			return t.Month().String()
		case count == 3:
			return t.Month().String()[:3]
		default:
			return pad(int(t.Month()), count)
		}
	case 'd':
		return pad(t.Day(), count)
	case 'D':
		return pad(t.YearDay(), count)
	case 'E':
		if count >= 4 {
			return t.Weekday().String()
		}
		return t.Weekday().String()[:3]
	case 'H':
		return pad(t.Hour(), count)
	case 'h':
		h := t.Hour() % 12
		if h == 0 {
			h = 12
		}
		return pad(h, count)
	case 'm':
		return pad(t.Minute(), count)
	case 's':
		return pad(t.Second(), count)
	case 'S':
		ms := t.Nanosecond() / int(time.Millisecond)
		return pad(ms, 3)[:min(count, 3)]
	case 'a':
		if t.Hour() < 12 {
			return "AM"
		}
		return "PM"
	default:
		return strings.Repeat(string(letter), count)
	}
}

func pad(v, width int) string {
	s := strconv.Itoa(v)
	if len(s) >= width {
		return s
	}
	return strings.Repeat("0", width-len(s)) + s
}
