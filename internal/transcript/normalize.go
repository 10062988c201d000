package transcript

import "strings"

var hiddenChars = strings.NewReplacer(
	"‎", "", // left-to-right mark
	"‏", "", // right-to-left mark
	" ", " ", // narrow no-break space
)

// NormalizeLine strips the hidden control characters chat exporters
// embed around timestamps and trims the result. An empty return means
// the line carries nothing and should be skipped.
func NormalizeLine(line string) string {
	return strings.TrimSpace(hiddenChars.Replace(line))
}
