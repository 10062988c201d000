package transcript

import "strings"

// boundary holds the fields captured from a message header line.
type boundary struct {
	date   string // "d/m/y" with any of the three separators
	clock  string // "H:MM[:SS][ AM|PM]", "00:00" when the header has no time
	sender string // empty when the line carries no sender
	body   string
}

// matchBoundary reports whether a normalized line starts a new message,
// capturing the header fields when it does. Exporters disagree on the
// header shape, so the matcher accepts all observed dialects:
//
//	11/2/22, 4:30 PM - Abhilash: hello
//	11/14/22, 13:02 - Vishwa: hello
//	[16/04/23, 8:49:16 PM] Rida: hello
//	1/1/23, 00:00 - Messages and calls are end-to-end encrypted.
//
// Scanned left to right: an optional opening bracket, a date token, a
// comma, an optional clock token, an optional closing bracket, an
// optional dash, then the remainder. A sender is present only when the
// remainder contains a colon; everything before the first colon is the
// sender and everything after it is the body. Without a colon the whole
// remainder is the body and the message is attributed to the system.
func matchBoundary(line string) (boundary, bool) {
	var b boundary
	rest := line

	if len(rest) > 0 && (rest[0] == '[' || rest[0] == '(') {
		rest = rest[1:]
	}

	date, rest, ok := scanDate(rest)
	if !ok {
		return boundary{}, false
	}
	b.date = date

	if len(rest) == 0 || rest[0] != ',' {
		return boundary{}, false
	}
	rest = strings.TrimLeft(rest[1:], " \t")

	b.clock = "00:00"
	if clock, r, ok := scanClock(rest); ok {
		b.clock = clock
		rest = r
	}

	if len(rest) > 0 && (rest[0] == ']' || rest[0] == ')') {
		rest = rest[1:]
	}
	rest = strings.TrimLeft(rest, " \t")
	if strings.HasPrefix(rest, "-") {
		rest = rest[1:]
	} else if strings.HasPrefix(rest, "–") { // en dash
		rest = rest[len("–"):]
	}
	rest = strings.TrimLeft(rest, " \t")

	if idx := strings.IndexByte(rest, ':'); idx >= 0 {
		b.sender = strings.TrimSpace(rest[:idx])
		b.body = strings.TrimSpace(strings.TrimPrefix(rest[idx+1:], " "))
	} else {
		b.body = strings.TrimSpace(rest)
	}

	return b, true
}

// scanDate scans "1-2 digits, sep, 1-2 digits, sep, 2-4 digits" where
// sep is any of / . - (mixed separators allowed).
func scanDate(s string) (date, rest string, ok bool) {
	i := 0

	n := digitRun(s[i:])
	if n < 1 || n > 2 {
		return "", "", false
	}
	i += n
	if i >= len(s) || !isDateSep(s[i]) {
		return "", "", false
	}
	i++

	n = digitRun(s[i:])
	if n < 1 || n > 2 {
		return "", "", false
	}
	i += n
	if i >= len(s) || !isDateSep(s[i]) {
		return "", "", false
	}
	i++

	n = digitRun(s[i:])
	if n < 2 || n > 4 {
		return "", "", false
	}
	i += n

	return s[:i], s[i:], true
}

// scanClock scans "H:MM" or "H:MM:SS" with an optional AM/PM marker.
// The marker is captured with a single separating space regardless of
// whether the source had one.
func scanClock(s string) (clock, rest string, ok bool) {
	i := 0

	n := digitRun(s)
	if n < 1 || n > 2 {
		return "", "", false
	}
	i += n
	if i >= len(s) || s[i] != ':' {
		return "", "", false
	}
	i++
	if digitRun(s[i:]) < 2 {
		return "", "", false
	}
	i += 2

	// Optional seconds.
	if i < len(s) && s[i] == ':' && digitRun(s[i+1:]) >= 2 {
		i += 3
	}

	clock = s[:i]
	rest = s[i:]

	// Optional AM/PM, separated by at most one space.
	marker := strings.TrimPrefix(rest, " ")
	if len(marker) >= 2 {
		m := marker[:2]
		if strings.EqualFold(m, "am") || strings.EqualFold(m, "pm") {
			clock += " " + m
			rest = marker[2:]
		}
	}

	return clock, rest, true
}

func digitRun(s string) int {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	return i
}

func isDateSep(c byte) bool {
	return c == '/' || c == '.' || c == '-'
}
