package record

import (
	"math"
	"strconv"
	"strings"
)

// ParseCount converts user input to a non-negative count. It reads the
// leading decimal integer ("12abc" is 12, "3.9" is 3) and falls back to 0
// for anything without one. Hex and exponent forms are not recognised
// ("0x10" is 0, "1e3" is 1). Negative values clamp to 0.
func ParseCount(value string) int {
	v := strings.TrimSpace(value)
	if v == "" {
		return 0
	}

	negative := false
	switch v[0] {
	case '-':
		negative = true
		v = v[1:]
	case '+':
		v = v[1:]
	}

	end := 0
	for end < len(v) && v[end] >= '0' && v[end] <= '9' {
		end++
	}
	if end == 0 || negative {
		return 0
	}

	n, err := strconv.ParseInt(v[:end], 10, 64)
	if err != nil || n > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(n)
}

// ClampCount keeps an already numeric count at or above 0.
func ClampCount(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
