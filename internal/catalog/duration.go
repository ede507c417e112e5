package catalog

import (
	"regexp"
	"strconv"
)

var durationRe = regexp.MustCompile(`(\d+)`)

// ParseDurationMinutes extracts a minute count from a free-form assessment
// length string such as "Approximate Completion Time in minutes = 40" or
// "40 minutes". It returns the first number found, or 0 when the string
// carries no usable quantity.
func ParseDurationMinutes(s string) int {
	m := durationRe.FindString(s)
	if m == "" {
		return 0
	}
	n, err := strconv.Atoi(m)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
