// Package api exposes the forecast and trading engines over HTTP.
package api

import (
	"github.com/labstack/echo/v4"

	"github.com/ArunnathAR/stock-closing-price-prediction-web-app/internal/domain/models"
	domrepo "github.com/ArunnathAR/stock-closing-price-prediction-web-app/internal/domain/repository"
	"github.com/ArunnathAR/stock-closing-price-prediction-web-app/internal/usecase"
	xhttp "github.com/ArunnathAR/stock-closing-price-prediction-web-app/pkg/http"
	xlogger "github.com/ArunnathAR/stock-closing-price-prediction-web-app/pkg/logger"
	"github.com/ArunnathAR/stock-closing-price-prediction-web-app/pkg/util"
)

const dateLayout = "2006-01-02"

// PredictionEchoHandler serves forecast endpoints.
type PredictionEchoHandler struct {
	logger  *xlogger.Logger
	engine  *usecase.PredictionEngine
	saver   *usecase.SnapshotSaver
	trading *usecase.TradingCalculator
	symbols []string
}

func NewPredictionEchoHandler(logger *xlogger.Logger, engine *usecase.PredictionEngine, saver *usecase.SnapshotSaver, trading *usecase.TradingCalculator, symbols []string) *PredictionEchoHandler {
	return &PredictionEchoHandler{
		logger:  logger,
		engine:  engine,
		saver:   saver,
		trading: trading,
		symbols: symbols,
	}
}

func (h *PredictionEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/prediction", h.Predict)
	g.POST("/prediction/save", h.SavePrediction)
	g.POST("/trading/calculate-tax", h.CalculateTax)
	g.POST("/trading/profit-potential", h.ProfitPotential)
	g.GET("/stocks/list", h.ListStocks)
}

func (h *PredictionEchoHandler) Predict(c echo.Context) error {
	req := &models.PredictionRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	period := domrepo.NormalizePeriod(req.Period)

	res, err := h.engine.Predict(c.Request().Context(), req.Symbol, period)
	if err != nil {
		h.logger.Error("prediction usecase error",
			xlogger.String("symbol", req.Symbol),
			xlogger.Error(err),
		)
		return domainErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, toPredictionResponse(res))
}

func (h *PredictionEchoHandler) SavePrediction(c echo.Context) error {
	req := &models.SavePredictionRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	if err := h.saver.Save(c.Request().Context(), req); err != nil {
		h.logger.Error("snapshot save error",
			xlogger.String("symbol", req.Symbol),
			xlogger.Error(err),
		)
		return domainErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, map[string]string{"status": "saved"})
}

func (h *PredictionEchoHandler) CalculateTax(c echo.Context) error {
	req := &models.TradeTaxRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	breakdown, err := h.trading.CalculateTax(models.TradeRequest{
		Symbol:          req.Symbol,
		TransactionType: req.TransactionType,
		Quantity:        req.Quantity,
		Price:           req.Price,
		IsShortTerm:     req.IsShortTerm,
	})
	if err != nil {
		return domainErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, toTaxResponse(breakdown))
}

func (h *PredictionEchoHandler) ProfitPotential(c echo.Context) error {
	req := &models.ProfitPotentialRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	period := domrepo.NormalizePeriod(req.Period)

	current, projections, err := h.trading.ProfitPotential(c.Request().Context(), models.TradeRequest{
		Symbol:          req.Symbol,
		TransactionType: models.TransactionBuy,
		Quantity:        req.Quantity,
		IsShortTerm:     req.IsShortTerm,
	}, period)
	if err != nil {
		h.logger.Error("profit potential usecase error",
			xlogger.String("symbol", req.Symbol),
			xlogger.Error(err),
		)
		return domainErrorResponse(c, err)
	}

	out := models.ProfitPotentialResponse{
		Symbol:       req.Symbol,
		CurrentPrice: util.Round2(current),
		Projections:  make(map[string]models.ProjectionResponse, len(projections)),
	}
	for label, p := range projections {
		out.Projections[label] = toProjectionResponse(p)
	}
	return xhttp.SuccessResponse(c, out)
}

func (h *PredictionEchoHandler) ListStocks(c echo.Context) error {
	return xhttp.SuccessResponse(c, models.StockListResponse{Symbols: h.symbols})
}

func toPredictionResponse(res *usecase.PredictionResult) models.PredictionResponse {
	ens := res.Ensemble

	histDates := make([]string, 0, res.Series.Len())
	histPrices := make([]float64, 0, res.Series.Len())
	for _, candle := range res.Series.Candles {
		histDates = append(histDates, candle.Date.Format(dateLayout))
		histPrices = append(histPrices, candle.Close)
	}

	predDates := make([]string, 0, len(ens.Dates))
	for _, d := range ens.Dates {
		predDates = append(predDates, d.Format(dateLayout))
	}

	predictions := make(map[string][]float64, len(ens.PerModel)+1)
	for model, values := range ens.PerModel {
		predictions[model] = values
	}
	predictions["ensemble"] = ens.Ensemble

	return models.PredictionResponse{
		Symbol:            res.Symbol,
		Period:            res.Period,
		CurrentPrice:      util.Round2(res.CurrentPrice),
		HistoricalDates:   histDates,
		HistoricalPrices:  histPrices,
		PredictionDates:   predDates,
		Predictions:       predictions,
		ModelsUsed:        ens.ModelsUsed(),
		ModelErrors:       ens.Failed,
		Recommendation:    res.Recommendation.Action,
		Explanation:       res.Recommendation.Explanation,
		ExpectedChangePct: util.Round2(res.Recommendation.ExpectedChange),
	}
}

func toTaxResponse(b models.TaxBreakdown) models.TaxBreakdownResponse {
	return models.TaxBreakdownResponse{
		TransactionValue: b.TransactionValue.Round(2).InexactFloat64(),
		STT:              b.STT.Round(2).InexactFloat64(),
		ExchangeCharges:  b.ExchangeCharges.Round(2).InexactFloat64(),
		GST:              b.GST.Round(2).InexactFloat64(),
		SEBICharges:      b.SEBICharges.Round(2).InexactFloat64(),
		StampDuty:        b.StampDuty.Round(2).InexactFloat64(),
		TotalTax:         b.TotalTax.Round(2).InexactFloat64(),
		NetAmount:        b.NetAmount.Round(2).InexactFloat64(),
	}
}

func toProjectionResponse(p models.ProfitProjection) models.ProjectionResponse {
	return models.ProjectionResponse{
		PredictedPrice: p.PredictedPrice.Round(2).InexactFloat64(),
		PriceChangePct: p.PriceChangePct.Round(2).InexactFloat64(),
		ProfitDetails: models.ProfitDetails{
			InvestmentAmount: p.Investment.Round(2).InexactFloat64(),
			ExpectedReturn:   p.ExpectedReturn.Round(2).InexactFloat64(),
			EstimatedTax:     p.EstimatedTax.Round(2).InexactFloat64(),
			NetProfit:        p.NetProfit.Round(2).InexactFloat64(),
		},
		PercentageReturn: p.PercentageReturn.Round(2).InexactFloat64(),
	}
}
