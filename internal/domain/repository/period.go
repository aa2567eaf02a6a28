package repository

// Period selects the forecast horizon and history lookback.
type Period string

const (
	Period1Month Period = "1month"
	Period3Month Period = "3month"
	Period5Month Period = "5month"
)

// IsValidPeriod returns true if p is a supported period.
func IsValidPeriod(p Period) bool {
	switch p {
	case Period1Month, Period3Month, Period5Month:
		return true
	default:
		return false
	}
}

// DefaultPeriod returns the default period.
func DefaultPeriod() Period { return Period1Month }

// NormalizePeriod converts raw string to a valid period (or default).
func NormalizePeriod(s string) Period {
	if s == "" {
		return DefaultPeriod()
	}
	p := Period(s)
	if IsValidPeriod(p) {
		return p
	}
	return DefaultPeriod()
}

// HorizonFor returns the number of trading days forecast for a period.
func HorizonFor(p Period) int {
	switch p {
	case Period3Month:
		return 66
	case Period5Month:
		return 110
	default:
		return 22
	}
}

// LookbackDaysFor returns the calendar-day history window fetched for a period.
func LookbackDaysFor(p Period) int {
	switch p {
	case Period3Month:
		return 90
	case Period5Month:
		return 150
	default:
		return 30
	}
}
