package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/ArunnathAR/stock-closing-price-prediction-web-app/internal/domain/models"
	"github.com/ArunnathAR/stock-closing-price-prediction-web-app/internal/services/tradecost"
	"github.com/ArunnathAR/stock-closing-price-prediction-web-app/internal/usecase"
	xhttp "github.com/ArunnathAR/stock-closing-price-prediction-web-app/pkg/http"
	xlogger "github.com/ArunnathAR/stock-closing-price-prediction-web-app/pkg/logger"
)

func newTaxHandler(t *testing.T) *echo.Echo {
	t.Helper()
	log, err := xlogger.New(&xlogger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}

	engine := tradecost.NewTaxEngine(tradecost.DefaultRateSchedule())
	trading := usecase.NewTradingCalculator(engine, tradecost.NewProfitProjector(engine), nil)

	e := echo.New()
	h := NewPredictionEchoHandler(log, nil, nil, trading, []string{"INFY", "TCS"})
	h.RegisterRoutes(e)
	return e
}

func doJSON(t *testing.T, e *echo.Echo, method, path, body string) (*httptest.ResponseRecorder, xhttp.APIResponse) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var resp xhttp.APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode envelope: %v (%s)", err, rec.Body.String())
	}
	return rec, resp
}

func TestCalculateTaxRoundsToTwoDecimals(t *testing.T) {
	e := newTaxHandler(t)

	body := `{"symbol":"INFY","transaction_type":"buy","quantity":10,"price":100.0,"is_short_term":true}`
	rec, resp := doJSON(t, e, http.MethodPost, "/api/trading/calculate-tax", body)

	if rec.Code != http.StatusOK {
		t.Fatalf("http status = %d", rec.Code)
	}
	if resp.Status != http.StatusOK {
		t.Fatalf("envelope status = %d, message %q", resp.Status, resp.Message)
	}

	raw, _ := json.Marshal(resp.Data)
	var out models.TaxBreakdownResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("decode breakdown: %v", err)
	}
	if out.TransactionValue != 1000.00 {
		t.Fatalf("transaction_value = %v", out.TransactionValue)
	}
	// exact total 0.18935 rounds to 0.19, net 1000.18935 to 1000.19
	if out.TotalTax != 0.19 {
		t.Fatalf("total_tax = %v, want 0.19", out.TotalTax)
	}
	if out.NetAmount != 1000.19 {
		t.Fatalf("net_amount = %v, want 1000.19", out.NetAmount)
	}
}

func TestCalculateTaxRejectsBadPayload(t *testing.T) {
	e := newTaxHandler(t)

	body := `{"symbol":"INFY","transaction_type":"short","quantity":0,"price":-5}`
	rec, resp := doJSON(t, e, http.MethodPost, "/api/trading/calculate-tax", body)

	if rec.Code != http.StatusOK {
		t.Fatalf("http status = %d", rec.Code)
	}
	if resp.Status != http.StatusBadRequest {
		t.Fatalf("envelope status = %d, want 400", resp.Status)
	}
}

func TestListStocks(t *testing.T) {
	e := newTaxHandler(t)

	_, resp := doJSON(t, e, http.MethodGet, "/api/stocks/list", "")
	if resp.Status != http.StatusOK {
		t.Fatalf("envelope status = %d", resp.Status)
	}

	raw, _ := json.Marshal(resp.Data)
	var out models.StockListResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(out.Symbols) != 2 || out.Symbols[0] != "INFY" {
		t.Fatalf("symbols = %v", out.Symbols)
	}
}

func TestDomainErrorStatuses(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{models.NewKindError(models.ErrInsufficientHistory, "no data for symbol X"), http.StatusNotFound},
		{models.NewKindError(models.ErrAllModelsFailed, "every model failed"), http.StatusUnprocessableEntity},
		{models.NewKindError(models.ErrInvalidTradeRequest, "quantity must be positive"), http.StatusBadRequest},
		{models.NewKindError(models.ErrDataProviderUnavailable, "upstream down"), http.StatusBadGateway},
	}

	for _, tc := range cases {
		e := echo.New()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		if err := domainErrorResponse(c, tc.err); err != nil {
			t.Fatalf("respond: %v", err)
		}
		var resp xhttp.APIResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if resp.Status != tc.want {
			t.Fatalf("kind %v: status = %d, want %d", tc.err, resp.Status, tc.want)
		}
	}
}
