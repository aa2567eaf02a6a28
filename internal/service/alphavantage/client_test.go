package alphavantage

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ArunnathAR/stock-closing-price-prediction-web-app/internal/domain/models"
)

const dailyBody = `{
  "Meta Data": {"2. Symbol": "INFY"},
  "Time Series (Daily)": {
    "2024-05-03": {"1. open": "101.0", "2. high": "103.0", "3. low": "100.5", "4. close": "102.5", "5. volume": "12000"},
    "2024-05-02": {"1. open": "100.0", "2. high": "102.0", "3. low": "99.0", "4. close": "101.0", "5. volume": "10000"},
    "2024-04-01": {"1. open": "90.0", "2. high": "91.0", "3. low": "89.0", "4. close": "90.5", "5. volume": "8000"}
  }
}`

const quoteBody = `{
  "Global Quote": {
    "01. symbol": "INFY",
    "02. open": "100.0",
    "03. high": "103.0",
    "04. low": "99.5",
    "05. price": "102.50",
    "06. volume": "12000",
    "07. latest trading day": "2024-05-03",
    "08. previous close": "101.00",
    "09. change": "1.50",
    "10. change percent": "1.4851%"
  }
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New("demo",
		WithBaseURL(srv.URL),
		WithRetryBackoff(time.Millisecond),
		WithMaxPerMinute(600),
	)
}

func TestDailySeriesParsesAndSorts(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("function"); got != "TIME_SERIES_DAILY" {
			t.Errorf("function = %q", got)
		}
		_, _ = w.Write([]byte(dailyBody))
	})

	from := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	series, err := client.DailySeries(context.Background(), "INFY", from)
	if err != nil {
		t.Fatalf("DailySeries: %v", err)
	}
	if series.Len() != 2 {
		t.Fatalf("len = %d, want 2 (April bar filtered out)", series.Len())
	}
	if !series.Candles[0].Date.Before(series.Candles[1].Date) {
		t.Fatal("candles must be oldest first")
	}
	if series.Candles[1].Close != 102.5 || series.Candles[1].Volume != 12000 {
		t.Fatalf("unexpected last candle: %+v", series.Candles[1])
	}
}

func TestQuoteParsesGlobalQuote(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(quoteBody))
	})

	q, err := client.Quote(context.Background(), "INFY")
	if err != nil {
		t.Fatalf("Quote: %v", err)
	}
	if q.Price != 102.5 {
		t.Fatalf("price = %v, want 102.5", q.Price)
	}
	if q.PrevClose != 101.0 || q.Change != 1.5 {
		t.Fatalf("unexpected quote: %+v", q)
	}
	if q.Volume != 12000 {
		t.Fatalf("volume = %v, want 12000", q.Volume)
	}
	if q.ChangePercent != 1.4851 {
		t.Fatalf("change percent = %v", q.ChangePercent)
	}
}

func TestThrottleNoteBecomesProviderError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"Note": "Thank you for using Alpha Vantage! Our standard API rate limit is 25 requests per day."}`))
	})

	_, err := client.DailySeries(context.Background(), "INFY", time.Time{})
	if !errors.Is(err, models.ErrDataProviderUnavailable) {
		t.Fatalf("want data_provider_unavailable, got %v", err)
	}
}

func TestCallRetriesOnce(t *testing.T) {
	var hits int
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits++
		if hits == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(quoteBody))
	})

	q, err := client.Quote(context.Background(), "INFY")
	if err != nil {
		t.Fatalf("Quote after retry: %v", err)
	}
	if hits != 2 {
		t.Fatalf("hits = %d, want 2", hits)
	}
	if q.Price != 102.5 {
		t.Fatalf("price = %v", q.Price)
	}
}

func TestPersistentFailureSurfaces(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := client.Quote(context.Background(), "INFY")
	if !errors.Is(err, models.ErrDataProviderUnavailable) {
		t.Fatalf("want data_provider_unavailable, got %v", err)
	}
}
