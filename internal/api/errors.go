package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"price-manager/internal/repository"
	"price-manager/internal/service"
	"price-manager/pkg/pricing"
)

func errorStatus(err error) int {
	var verr *service.ValidationError
	switch {
	case errors.Is(err, pricing.ErrParse),
		errors.Is(err, pricing.ErrMissingField),
		errors.Is(err, pricing.ErrTypeMismatch),
		errors.Is(err, service.ErrInvalidRequest),
		errors.Is(err, service.ErrInvalidMarkup),
		errors.Is(err, service.ErrInvalidWebhook),
		errors.As(err, &verr):
		return http.StatusBadRequest
	case errors.Is(err, repository.ErrChannelNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func errorJSON(c echo.Context, err error) error {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error":   "invalid discounts",
			"details": verr.Problems,
		})
	}
	return c.JSON(errorStatus(err), map[string]string{"error": err.Error()})
}

func invalidPayload(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request payload"})
}
