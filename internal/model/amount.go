package model

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseAmount reads a backend decimal string ("45000", "45000.00") as a
// whole number of currency units, rounding half away from zero.  Empty
// strings parse as zero.
func ParseAmount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse amount %q: %w", s, err)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("parse amount %q: not a finite number", s)
	}
	return int64(math.Round(f)), nil
}
