// Package formatting converts between human-readable sizes and byte counts
// and extracts JSON payloads from model completions.
package formatting

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var units = []string{
	"B", "KB", "MB",
	"GB", "TB", "PB",
	"EB", "ZB", "YB",
}

var bytesPattern = regexp.MustCompile(`^(\d+\.?\d*)\s*([A-Za-z]*)$`)

// FormatBytes converts a byte count to a human-readable string using base-1024 units.
// Negative precision values are clamped to zero.
func FormatBytes(n int64, precision int) string {
	if n == 0 {
		return "0 B"
	}

	sign := ""
	if n < 0 {
		sign = "-"
	}
	precision = max(precision, 0)

	f := math.Abs(float64(n))
	i := min(int(math.Floor(math.Log(f)/math.Log(1024))), len(units)-1)

	size := f / math.Pow(1024, float64(i))
	return sign + strconv.FormatFloat(size, 'f', precision, 64) + " " + units[i]
}

// ParseBytes parses a size such as "1MB", "512 KiB", or "2g" into a byte
// count. Units are base-1024 and case-insensitive; "K", "KB", and "KiB" are
// equivalent. A bare number is a count of bytes.
func ParseBytes(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty byte size string")
	}

	matches := bytesPattern.FindStringSubmatch(s)
	if matches == nil {
		return 0, fmt.Errorf("invalid byte size: %q", s)
	}

	value, err := strconv.ParseFloat(matches[1], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid byte size number: %w", err)
	}

	idx, err := unitIndex(matches[2])
	if err != nil {
		return 0, err
	}

	n := value * math.Pow(1024, float64(idx))
	if n >= math.MaxInt64 {
		return 0, fmt.Errorf("byte size overflows int64: %q", s)
	}
	return int64(n), nil
}

func unitIndex(unit string) (int, error) {
	u := strings.ToUpper(unit)
	switch {
	case u == "" || u == "B":
		return 0, nil
	case strings.HasSuffix(u, "IB"):
		u = strings.TrimSuffix(u, "IB") + "B"
	case !strings.HasSuffix(u, "B"):
		u += "B"
	}

	for i, name := range units {
		if name == u {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown byte size unit: %q", unit)
}
