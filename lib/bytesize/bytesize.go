// Package bytesize parses the human-readable size strings accepted in image
// labels (e.g. "128Mi", "10Mb") into exact byte counts.
package bytesize

import (
	"math"
	"strconv"
	"strings"
)

// Multipliers for the recognized unit suffixes. An "i" marks a binary
// (1024-based) unit; plain letters are decimal (1000-based). Suffixes are
// matched case-insensitively, so "10Mb" and "10MB" are both 10*1000*1000.
var units = map[string]int64{
	"":    1,
	"b":   1,
	"k":   1000,
	"kb":  1000,
	"m":   1000 * 1000,
	"mb":  1000 * 1000,
	"g":   1000 * 1000 * 1000,
	"gb":  1000 * 1000 * 1000,
	"ki":  1024,
	"kib": 1024,
	"mi":  1024 * 1024,
	"mib": 1024 * 1024,
	"gi":  1024 * 1024 * 1024,
	"gib": 1024 * 1024 * 1024,
}

// Parse converts a size string into a byte count. It returns false on
// malformed input (empty string, missing magnitude, negative value, unknown
// unit) rather than an error; callers decide whether that is fatal.
func Parse(s string) (int64, bool) {
	if s == "" {
		return 0, false
	}

	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 {
		return 0, false
	}

	magnitude, err := strconv.ParseInt(s[:i], 10, 64)
	if err != nil {
		return 0, false
	}

	mult, ok := units[strings.ToLower(s[i:])]
	if !ok {
		return 0, false
	}

	if magnitude != 0 && mult > math.MaxInt64/magnitude {
		return 0, false
	}
	return magnitude * mult, true
}

// Format renders a byte count under the given unit suffix, the inverse of
// Parse for whole multiples of the unit. Counts that do not divide evenly
// fall back to a plain byte count.
func Format(n int64, unit string) string {
	mult, ok := units[strings.ToLower(unit)]
	if !ok || n%mult != 0 {
		return strconv.FormatInt(n, 10)
	}
	return strconv.FormatInt(n/mult, 10) + unit
}
