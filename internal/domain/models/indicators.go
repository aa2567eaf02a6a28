package models

import "time"

// IndicatorFrame holds technical indicator columns aligned to the source
// series by row. Entries are nil until the indicator's window has filled.
type IndicatorFrame struct {
	Symbol string
	Dates  []time.Time
	Close  []float64

	SMA20 []*float64
	SMA50 []*float64
	EMA20 []*float64

	RSI14 []*float64

	MACD       []*float64
	MACDSignal []*float64

	BollingerUpper []*float64
	BollingerMid   []*float64
	BollingerLower []*float64
}

// Len returns the row count.
func (f *IndicatorFrame) Len() int { return len(f.Dates) }

// LastRSI returns the most recent defined RSI value.
func (f *IndicatorFrame) LastRSI() (float64, bool) {
	return lastDefined(f.RSI14)
}

// LastMACD returns the most recent defined MACD line and signal values.
func (f *IndicatorFrame) LastMACD() (macd, signal float64, ok bool) {
	m, mok := lastDefined(f.MACD)
	s, sok := lastDefined(f.MACDSignal)
	if !mok || !sok {
		return 0, 0, false
	}
	return m, s, true
}

func lastDefined(col []*float64) (float64, bool) {
	for i := len(col) - 1; i >= 0; i-- {
		if col[i] != nil {
			return *col[i], true
		}
	}
	return 0, false
}
