// Package quotes keeps a table of last traded prices fed by a Finnhub
// WebSocket stream. Forecast requests consult the table for a fresher
// current price than the daily provider can give.
package quotes

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	domrepo "github.com/ArunnathAR/stock-closing-price-prediction-web-app/internal/domain/repository"
	"github.com/ArunnathAR/stock-closing-price-prediction-web-app/pkg/logger"
)

// Stream maintains a WebSocket subscription and the last price per symbol.
type Stream struct {
	apiKey         string
	websocketURL   string
	symbols        []string
	reconnectDelay time.Duration
	pingInterval   time.Duration

	log     *logger.Logger
	metrics domrepo.Metrics

	mu     sync.RWMutex
	conn   *websocket.Conn
	last   map[string]lastPrice
	closed bool
}

type lastPrice struct {
	price float64
	at    time.Time
}

// New creates a quote stream for the given symbols. Nothing connects
// until Run is called.
func New(apiKey, websocketURL string, symbols []string, reconnectDelay, pingInterval time.Duration, log *logger.Logger, metrics domrepo.Metrics) *Stream {
	return &Stream{
		apiKey:         apiKey,
		websocketURL:   websocketURL,
		symbols:        symbols,
		reconnectDelay: reconnectDelay,
		pingInterval:   pingInterval,
		log:            log,
		metrics:        metrics,
		last:           make(map[string]lastPrice),
	}
}

var _ domrepo.QuoteSource = (*Stream)(nil)

// LastPrice returns the most recent streamed price for symbol.
func (s *Stream) LastPrice(symbol string) (float64, time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	lp, ok := s.last[symbol]
	if !ok {
		return 0, time.Time{}, false
	}
	return lp.price, lp.at, true
}

// Run connects, subscribes and consumes trades until ctx is cancelled,
// reconnecting after read failures.
func (s *Stream) Run(ctx context.Context) error {
	for {
		if err := s.connect(ctx); err != nil {
			s.log.Warn("quote stream connect failed", logger.Error(err))
		} else {
			s.consume(ctx)
		}

		select {
		case <-ctx.Done():
			_ = s.Close()
			return ctx.Err()
		case <-time.After(s.reconnectDelay):
		}
	}
}

func (s *Stream) connect(ctx context.Context) error {
	u := fmt.Sprintf("%s?token=%s", s.websocketURL, s.apiKey)
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u, nil)
	if err != nil {
		return fmt.Errorf("quote stream connect: %w", err)
	}

	for _, sym := range s.symbols {
		msg := map[string]string{"type": "subscribe", "symbol": sym}
		if err := conn.WriteJSON(msg); err != nil {
			_ = conn.Close()
			return fmt.Errorf("subscribe %s: %w", sym, err)
		}
	}

	s.mu.Lock()
	s.conn = conn
	s.mu.Unlock()

	s.log.Info("quote stream connected", logger.Strings("symbols", s.symbols))
	return nil
}

type wsTrade struct {
	S string  `json:"s"`
	P float64 `json:"p"`
	V float64 `json:"v"`
	T int64   `json:"t"` // ms
}

type wsMessage struct {
	Type string    `json:"type"`
	Data []wsTrade `json:"data"`
}

// consume reads frames until the connection drops or ctx ends.
func (s *Stream) consume(ctx context.Context) {
	pingDone := make(chan struct{})
	go s.pingLoop(ctx, pingDone)
	defer close(pingDone)

	for {
		if ctx.Err() != nil {
			return
		}
		conn := s.current()
		if conn == nil {
			return
		}
		_, b, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() == nil {
				s.log.Warn("quote stream read failed", logger.Error(err))
			}
			return
		}
		var m wsMessage
		if err := json.Unmarshal(b, &m); err != nil || m.Type != "trade" {
			continue
		}
		for _, tr := range m.Data {
			s.record(tr)
		}
	}
}

func (s *Stream) record(tr wsTrade) {
	at := time.Unix(tr.T/1000, 0).UTC()
	s.mu.Lock()
	s.last[tr.S] = lastPrice{price: tr.P, at: at}
	s.mu.Unlock()
	if s.metrics != nil {
		s.metrics.RecordLastPrice(tr.S, tr.P)
	}
}

func (s *Stream) pingLoop(ctx context.Context, done <-chan struct{}) {
	ticker := time.NewTicker(s.pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-done:
			return
		case <-ticker.C:
			if conn := s.current(); conn != nil {
				_ = conn.WriteMessage(websocket.PingMessage, nil)
			}
		}
	}
}

func (s *Stream) current() *websocket.Conn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.conn
}

// Close tears down the underlying connection.
func (s *Stream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}
