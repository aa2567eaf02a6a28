package cache

import (
	"context"
	"testing"
	"time"

	pkgcache "github.com/ArunnathAR/stock-closing-price-prediction-web-app/pkg/cache"
)

type payload struct {
	Symbol string  `json:"symbol"`
	Price  float64 `json:"price"`
}

func newTestCache(t *testing.T) (*ForecastCache, *pkgcache.MemoryCache) {
	t.Helper()
	backend := pkgcache.NewMemoryCache(pkgcache.WithMemoryMaxSize(10))
	t.Cleanup(func() { _ = backend.Close() })
	return NewForecastCache(backend, time.Minute, nil), backend
}

func TestKeyIncludesAsOfDate(t *testing.T) {
	asOf := time.Date(2024, 10, 11, 15, 30, 0, 0, time.UTC)
	key := Key("INFY", "1month", asOf)
	want := "forecast:INFY:1month:2024-10-11"
	if key != want {
		t.Fatalf("key = %q, want %q", key, want)
	}

	// same trading day, different clock time, same key
	later := asOf.Add(3 * time.Hour)
	if Key("INFY", "1month", later) != key {
		t.Fatalf("key should depend on the date only")
	}
}

func TestGetMissThenHit(t *testing.T) {
	fc, _ := newTestCache(t)
	ctx := context.Background()
	key := Key("TCS", "1month", time.Now())

	var out payload
	ok, err := fc.Get(ctx, key, &out)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok {
		t.Fatalf("expected miss on empty cache")
	}

	if err := fc.PutOnce(ctx, key, payload{Symbol: "TCS", Price: 3500}); err != nil {
		t.Fatalf("put: %v", err)
	}

	ok, err = fc.Get(ctx, key, &out)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !ok {
		t.Fatalf("expected hit after put")
	}
	if out.Symbol != "TCS" || out.Price != 3500 {
		t.Fatalf("unexpected payload %+v", out)
	}
}

func TestPutOnceNeverOverwrites(t *testing.T) {
	fc, _ := newTestCache(t)
	ctx := context.Background()
	key := Key("WIPRO", "3month", time.Now())

	if err := fc.PutOnce(ctx, key, payload{Symbol: "WIPRO", Price: 400}); err != nil {
		t.Fatalf("first put: %v", err)
	}
	if err := fc.PutOnce(ctx, key, payload{Symbol: "WIPRO", Price: 999}); err != nil {
		t.Fatalf("second put: %v", err)
	}

	var out payload
	ok, err := fc.Get(ctx, key, &out)
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if out.Price != 400 {
		t.Fatalf("first write must win, got price %v", out.Price)
	}
}

func TestCancelledContextNeverWrites(t *testing.T) {
	fc, backend := newTestCache(t)
	key := Key("HDFC", "1month", time.Now())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := fc.PutOnce(ctx, key, payload{Symbol: "HDFC", Price: 1500}); err == nil {
		t.Fatalf("expected context error")
	}

	exists, err := backend.Exists(context.Background(), key)
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if exists {
		t.Fatalf("cancelled computation must not write")
	}
}

func TestNilBackendDisablesCaching(t *testing.T) {
	fc := NewForecastCache(nil, time.Minute, nil)
	ctx := context.Background()

	var out payload
	ok, err := fc.Get(ctx, "any", &out)
	if err != nil || ok {
		t.Fatalf("nil backend should always miss, ok=%v err=%v", ok, err)
	}
	if err := fc.PutOnce(ctx, "any", payload{}); err != nil {
		t.Fatalf("nil backend put should be a no-op, got %v", err)
	}
}
