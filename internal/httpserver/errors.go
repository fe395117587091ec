package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dmarchuk/storefront/internal/gateway"
	"github.com/dmarchuk/storefront/internal/service"
	"github.com/dmarchuk/storefront/internal/transport"
)

// httpError maps service errors onto HTTP status codes. A gateway error in
// the chain means the provider rejected the call (502); any other payment
// processing failure is a plain 500.
func httpError(err error) *echo.HTTPError {
	var ge *gateway.Error

	switch {
	case errors.Is(err, service.ErrValidation), errors.Is(err, transport.ErrInvalidPayload):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrUnsupportedGateway), errors.Is(err, transport.ErrUnsupportedMethod):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrConflict):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.As(err, &ge):
		return echo.NewHTTPError(http.StatusBadGateway, "payment gateway error")
	case errors.Is(err, service.ErrPaymentProcessing):
		return echo.NewHTTPError(http.StatusInternalServerError, "payment processing error")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}
