package util

import (
    "strconv"
    "time"
)

// ParseTime tries RFC3339, a plain date, and unix seconds. Returns (t, true) if any worked.
func ParseTime(s string) (time.Time, bool) {
    if s == "" {
        return time.Time{}, false
    }
    if t, err := time.Parse(time.RFC3339, s); err == nil {
        return t, true
    }
    if t, err := time.Parse("2006-01-02", s); err == nil {
        return t, true
    }
    if ts, err := strconv.ParseInt(s, 10, 64); err == nil && ts > 0 {
        return time.Unix(ts, 0), true
    }
    return time.Time{}, false
}

// ParseTimeDefault parses time or returns default if empty/invalid.
func ParseTimeDefault(s string, def time.Time) time.Time {
    if t, ok := ParseTime(s); ok {
        return t
    }
    return def
}

// IsTradingDay reports whether d falls on a weekday. Exchange holidays are not
// modelled; the forecast calendar only needs weekend handling.
func IsTradingDay(d time.Time) bool {
    wd := d.Weekday()
    return wd != time.Saturday && wd != time.Sunday
}

// NextTradingDay returns the first trading day strictly after d.
func NextTradingDay(d time.Time) time.Time {
    d = d.AddDate(0, 0, 1)
    for !IsTradingDay(d) {
        d = d.AddDate(0, 0, 1)
    }
    return d
}

// TradingDays returns n consecutive trading days starting with the first one
// strictly after start.
func TradingDays(start time.Time, n int) []time.Time {
    out := make([]time.Time, 0, n)
    d := start
    for len(out) < n {
        d = NextTradingDay(d)
        out = append(out, d)
    }
    return out
}

// DateOnly truncates t to midnight UTC, which is the resolution daily candles use.
func DateOnly(t time.Time) time.Time {
    return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
