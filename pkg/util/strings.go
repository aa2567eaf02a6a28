package util

import "strconv"

// ParseIntDefault parses string to int or returns default if empty/invalid.
func ParseIntDefault(s string, def int) int {
    if s == "" {
        return def
    }
    v, err := strconv.Atoi(s)
    if err != nil {
        return def
    }
    return v
}

// Round2 rounds a float to 2 fractional digits. Monetary values are rounded
// only at the API boundary, never inside calculations.
func Round2(v float64) float64 {
    f, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 2, 64), 64)
    if err != nil {
        return v
    }
    return f
}
