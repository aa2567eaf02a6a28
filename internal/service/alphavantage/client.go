// Package alphavantage implements the daily series provider on top of the
// Alpha Vantage REST API.
package alphavantage

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/ArunnathAR/stock-closing-price-prediction-web-app/internal/domain/models"
	domrepo "github.com/ArunnathAR/stock-closing-price-prediction-web-app/internal/domain/repository"
	"github.com/ArunnathAR/stock-closing-price-prediction-web-app/internal/service/ratelimit"
	pkghttp "github.com/ArunnathAR/stock-closing-price-prediction-web-app/pkg/http"
)

const (
	functionDailySeries = "TIME_SERIES_DAILY"
	functionGlobalQuote = "GLOBAL_QUOTE"

	limiterKey = "alphavantage"
)

// Client fetches daily candles and spot quotes from Alpha Vantage.
// Free API keys are heavily throttled, so every call goes through a
// shared token bucket and transient failures get a single retry.
type Client struct {
	baseURL      string
	apiKey       string
	retryBackoff time.Duration
	maxPerMinute int

	http    *pkghttp.Client
	limiter *ratelimit.Limiter
}

// Option configures the Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint, mainly for tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithTimeout sets the HTTP request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http = pkghttp.NewClient(pkghttp.WithTimeout(d)) }
}

// WithRetryBackoff sets the delay before the single retry.
func WithRetryBackoff(d time.Duration) Option {
	return func(c *Client) { c.retryBackoff = d }
}

// WithMaxPerMinute caps outgoing requests per minute.
func WithMaxPerMinute(n int) Option {
	return func(c *Client) { c.maxPerMinute = n }
}

// WithLimiter shares an externally owned limiter.
func WithLimiter(l *ratelimit.Limiter) Option {
	return func(c *Client) { c.limiter = l }
}

// New creates an Alpha Vantage client for the given API key.
func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		baseURL:      "https://www.alphavantage.co/query",
		apiKey:       apiKey,
		retryBackoff: 2 * time.Second,
		maxPerMinute: 5,
		http:         pkghttp.NewClient(pkghttp.WithTimeout(15 * time.Second)),
		limiter:      ratelimit.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ domrepo.SeriesProvider = (*Client)(nil)

type dailyPayload struct {
	Series       map[string]dailyBar `json:"Time Series (Daily)"`
	Note         string              `json:"Note"`
	Information  string              `json:"Information"`
	ErrorMessage string              `json:"Error Message"`
}

type dailyBar struct {
	Open   string `json:"1. open"`
	High   string `json:"2. high"`
	Low    string `json:"3. low"`
	Close  string `json:"4. close"`
	Volume string `json:"5. volume"`
}

type quotePayload struct {
	Quote        globalQuote `json:"Global Quote"`
	Note         string      `json:"Note"`
	ErrorMessage string      `json:"Error Message"`
}

type globalQuote struct {
	Symbol        string `json:"01. symbol"`
	Open          string `json:"02. open"`
	High          string `json:"03. high"`
	Low           string `json:"04. low"`
	Price         string `json:"05. price"`
	Volume        string `json:"06. volume"`
	TradingDay    string `json:"07. latest trading day"`
	PrevClose     string `json:"08. previous close"`
	Change        string `json:"09. change"`
	ChangePercent string `json:"10. change percent"`
}

// DailySeries returns daily candles for symbol, oldest first, limited to
// dates on or after from.
func (c *Client) DailySeries(ctx context.Context, symbol string, from time.Time) (*models.PriceSeries, error) {
	var payload dailyPayload
	params := map[string]string{
		"function":   functionDailySeries,
		"symbol":     symbol,
		"outputsize": "full",
		"apikey":     c.apiKey,
	}
	if err := c.call(ctx, params, &payload); err != nil {
		return nil, err
	}
	if err := upstreamComplaint(payload.Note, payload.Information, payload.ErrorMessage); err != nil {
		return nil, err
	}

	candles := make([]models.Candle, 0, len(payload.Series))
	for day, bar := range payload.Series {
		date, err := time.Parse("2006-01-02", day)
		if err != nil {
			continue
		}
		if !from.IsZero() && date.Before(from) {
			continue
		}
		candle, err := bar.toCandle(symbol, date)
		if err != nil {
			return nil, models.NewKindError(models.ErrDataProviderUnavailable, "malformed bar for %s on %s: %v", symbol, day, err)
		}
		candles = append(candles, candle)
	}
	sort.Slice(candles, func(i, j int) bool { return candles[i].Date.Before(candles[j].Date) })

	return &models.PriceSeries{Symbol: symbol, Candles: candles}, nil
}

// Quote returns the latest spot quote for symbol.
func (c *Client) Quote(ctx context.Context, symbol string) (*models.Quote, error) {
	var payload quotePayload
	params := map[string]string{
		"function": functionGlobalQuote,
		"symbol":   symbol,
		"apikey":   c.apiKey,
	}
	if err := c.call(ctx, params, &payload); err != nil {
		return nil, err
	}
	if err := upstreamComplaint(payload.Note, "", payload.ErrorMessage); err != nil {
		return nil, err
	}
	if payload.Quote.Price == "" {
		return nil, models.NewKindError(models.ErrDataProviderUnavailable, "empty quote for %s", symbol)
	}

	price, err := strconv.ParseFloat(payload.Quote.Price, 64)
	if err != nil {
		return nil, models.NewKindError(models.ErrDataProviderUnavailable, "malformed quote price %q", payload.Quote.Price)
	}

	q := &models.Quote{
		Symbol: symbol,
		Price:  price,
		AsOf:   time.Now().UTC(),
		Source: "alphavantage",
	}
	q.Open, _ = strconv.ParseFloat(payload.Quote.Open, 64)
	q.High, _ = strconv.ParseFloat(payload.Quote.High, 64)
	q.Low, _ = strconv.ParseFloat(payload.Quote.Low, 64)
	q.PrevClose, _ = strconv.ParseFloat(payload.Quote.PrevClose, 64)
	q.Change, _ = strconv.ParseFloat(payload.Quote.Change, 64)
	q.Volume, _ = strconv.ParseFloat(payload.Quote.Volume, 64)
	if pct := payload.Quote.ChangePercent; len(pct) > 1 && pct[len(pct)-1] == '%' {
		q.ChangePercent, _ = strconv.ParseFloat(pct[:len(pct)-1], 64)
	}
	if day, err := time.Parse("2006-01-02", payload.Quote.TradingDay); err == nil {
		q.AsOf = day
	}
	return q, nil
}

// call sends one throttled GET and retries once on failure.
func (c *Client) call(ctx context.Context, params map[string]string, dest interface{}) error {
	if err := c.limiter.Wait(ctx, limiterKey, float64(c.maxPerMinute), ratelimit.PerMinute(c.maxPerMinute)); err != nil {
		return err
	}

	query := make(map[string][]string, len(params))
	for k, v := range params {
		query[k] = []string{v}
	}
	opts := &pkghttp.RequestOptions{
		Method:      pkghttp.MethodGet,
		URL:         c.baseURL,
		QueryParams: query,
	}

	err := c.http.SendAndParse(ctx, opts, dest)
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	timer := time.NewTimer(c.retryBackoff)
	select {
	case <-ctx.Done():
		timer.Stop()
		return ctx.Err()
	case <-timer.C:
	}

	if rerr := c.http.SendAndParse(ctx, opts, dest); rerr != nil {
		return models.NewKindError(models.ErrDataProviderUnavailable, "alphavantage request failed: %v", rerr)
	}
	return nil
}

func (b dailyBar) toCandle(symbol string, date time.Time) (models.Candle, error) {
	var c models.Candle
	var err error
	if c.Open, err = strconv.ParseFloat(b.Open, 64); err != nil {
		return c, fmt.Errorf("open: %w", err)
	}
	if c.High, err = strconv.ParseFloat(b.High, 64); err != nil {
		return c, fmt.Errorf("high: %w", err)
	}
	if c.Low, err = strconv.ParseFloat(b.Low, 64); err != nil {
		return c, fmt.Errorf("low: %w", err)
	}
	if c.Close, err = strconv.ParseFloat(b.Close, 64); err != nil {
		return c, fmt.Errorf("close: %w", err)
	}
	if c.Volume, err = strconv.ParseFloat(b.Volume, 64); err != nil {
		return c, fmt.Errorf("volume: %w", err)
	}
	c.Symbol = symbol
	c.Date = date
	return c, nil
}

// upstreamComplaint turns Alpha Vantage soft errors into provider errors.
// The API answers 200 with a Note when the key is throttled.
func upstreamComplaint(note, info, msg string) error {
	switch {
	case msg != "":
		return models.NewKindError(models.ErrDataProviderUnavailable, "alphavantage: %s", msg)
	case note != "":
		return models.NewKindError(models.ErrDataProviderUnavailable, "alphavantage throttled: %s", note)
	case info != "":
		return models.NewKindError(models.ErrDataProviderUnavailable, "alphavantage: %s", info)
	}
	return nil
}
