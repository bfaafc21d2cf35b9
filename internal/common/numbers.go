package common

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseGroupedFloat parses a numeric string that may use comma grouping
// ("1,234" → 1234). Plain numeric strings pass through unchanged.
func ParseGroupedFloat(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return 0, fmt.Errorf("empty numeric string")
	}
	return strconv.ParseFloat(s, 64)
}
