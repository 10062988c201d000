package transcript

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseTimestamp converts raw date and clock fragments into a UTC
// instant. Dates are day-first ("d/m/y" with / . or - separators);
// 2-digit years are expanded as 20yy. The clock is "H:MM" or "H:MM:SS"
// with an optional AM/PM modifier. Exporters do not encode a timezone,
// so wall-clock values are taken as UTC verbatim.
func ParseTimestamp(date, clock string) (time.Time, error) {
	parts := strings.FieldsFunc(date, func(r rune) bool {
		return r == '/' || r == '.' || r == '-'
	})
	if len(parts) != 3 {
		return time.Time{}, fmt.Errorf("split date %q: want 3 components, got %d", date, len(parts))
	}
	day, month, year := parts[0], parts[1], parts[2]
	if len(year) == 2 {
		year = "20" + year
	}

	fields := strings.Fields(clock)
	if len(fields) == 0 {
		return time.Time{}, fmt.Errorf("empty clock")
	}
	hms := strings.SplitN(fields[0], ":", 3)
	if len(hms) < 2 {
		return time.Time{}, fmt.Errorf("split clock %q: missing minute", clock)
	}
	sec := "00"
	if len(hms) == 3 {
		sec = hms[2]
	}

	hh, err := strconv.Atoi(hms[0])
	if err != nil {
		return time.Time{}, fmt.Errorf("parse hour %q: %w", hms[0], err)
	}
	mm, err := strconv.Atoi(hms[1])
	if err != nil {
		return time.Time{}, fmt.Errorf("parse minute %q: %w", hms[1], err)
	}
	ss, err := strconv.Atoi(sec)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse second %q: %w", sec, err)
	}

	var modifier string
	if len(fields) > 1 {
		modifier = strings.ToLower(fields[1])
	}
	if strings.Contains(modifier, "pm") && hh < 12 {
		hh += 12
	}
	if strings.Contains(modifier, "am") && hh == 12 {
		hh = 0
	}

	// Composing the padded ISO-8601 string and parsing it back rejects
	// out-of-range fields (month 14, Feb 31) in one step, which is what
	// triggers the caller's fallback-to-now policy.
	iso := fmt.Sprintf("%s-%s-%sT%02d:%02d:%02dZ", year, pad2(month), pad2(day), hh, mm, ss)
	ts, err := time.Parse(time.RFC3339, iso)
	if err != nil {
		return time.Time{}, fmt.Errorf("compose timestamp %q: %w", iso, err)
	}
	return ts, nil
}

func pad2(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}
