package util

import (
    "testing"
    "time"
)

func TestParseTimeRFC3339(t *testing.T) {
    s := "2024-10-10T10:10:10Z"
    got, ok := ParseTime(s)
    if !ok {
        t.Fatalf("expected ok")
    }
    if got.UTC().Format(time.RFC3339) != s {
        t.Fatalf("unexpected time %v", got)
    }
}

func TestParseTimePlainDate(t *testing.T) {
    got, ok := ParseTime("2024-10-10")
    if !ok {
        t.Fatalf("expected ok")
    }
    if got.Year() != 2024 || got.Month() != time.October || got.Day() != 10 {
        t.Fatalf("unexpected date %v", got)
    }
}

func TestParseTimeDefault(t *testing.T) {
    def := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC)
    got := ParseTimeDefault("", def)
    if !got.Equal(def) {
        t.Fatalf("expected default")
    }
}

func TestNextTradingDaySkipsWeekend(t *testing.T) {
    fri := time.Date(2024, 10, 11, 0, 0, 0, 0, time.UTC) // Friday
    got := NextTradingDay(fri)
    want := time.Date(2024, 10, 14, 0, 0, 0, 0, time.UTC) // Monday
    if !got.Equal(want) {
        t.Fatalf("expected %v, got %v", want, got)
    }
}

func TestTradingDaysStrictlyIncreasingWeekdays(t *testing.T) {
    start := time.Date(2024, 10, 9, 0, 0, 0, 0, time.UTC)
    days := TradingDays(start, 10)
    if len(days) != 10 {
        t.Fatalf("expected 10 days, got %d", len(days))
    }
    prev := start
    for _, d := range days {
        if !d.After(prev) {
            t.Fatalf("dates not strictly increasing: %v then %v", prev, d)
        }
        if !IsTradingDay(d) {
            t.Fatalf("weekend leaked into calendar: %v", d)
        }
        prev = d
    }
}
