package models

import "time"

// Candle represents a daily OHLCV record.
type Candle struct {
	Date   time.Time
	Symbol string
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// PriceSeries is a date-ascending run of daily candles for one symbol.
type PriceSeries struct {
	Symbol  string
	Candles []Candle
}

// Len returns the number of rows.
func (s *PriceSeries) Len() int { return len(s.Candles) }

// Closes returns closing prices in series order.
func (s *PriceSeries) Closes() []float64 {
	out := make([]float64, len(s.Candles))
	for i, c := range s.Candles {
		out[i] = c.Close
	}
	return out
}

// Dates returns candle dates in series order.
func (s *PriceSeries) Dates() []time.Time {
	out := make([]time.Time, len(s.Candles))
	for i, c := range s.Candles {
		out[i] = c.Date
	}
	return out
}

// Last returns the most recent candle. Second result is false on an empty series.
func (s *PriceSeries) Last() (Candle, bool) {
	if len(s.Candles) == 0 {
		return Candle{}, false
	}
	return s.Candles[len(s.Candles)-1], true
}

// Quote is the current market snapshot for a symbol.
type Quote struct {
	Symbol        string
	Price         float64
	Open          float64
	High          float64
	Low           float64
	PrevClose     float64
	Change        float64
	ChangePercent float64
	Volume        float64
	AsOf          time.Time
	Source        string // "rest", "stream", or "archive"
}
