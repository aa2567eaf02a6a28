package api

import (
	"context"
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/ArunnathAR/stock-closing-price-prediction-web-app/internal/domain/models"
	xhttp "github.com/ArunnathAR/stock-closing-price-prediction-web-app/pkg/http"
)

// domainErrorResponse maps domain error kinds onto HTTP error payloads.
func domainErrorResponse(c echo.Context, err error) error {
	switch {
	case errors.Is(err, models.ErrInsufficientHistory):
		return xhttp.AppErrorResponse(c, xhttp.NotFoundError(err.Error()))
	case errors.Is(err, models.ErrAllModelsFailed):
		return xhttp.AppErrorResponse(c, xhttp.UnprocessableError("ERR_ALL_MODELS_FAILED", err.Error()))
	case errors.Is(err, models.ErrInvalidTradeRequest):
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError(err.Error()))
	case errors.Is(err, models.ErrDataProviderUnavailable):
		return xhttp.AppErrorResponse(c, xhttp.UpstreamError(err.Error()))
	case errors.Is(err, context.DeadlineExceeded):
		return xhttp.AppErrorResponse(c, xhttp.TimeoutError("request timed out"))
	default:
		return xhttp.AppErrorResponse(c, err)
	}
}
