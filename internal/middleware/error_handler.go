package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/okanuzun/installment-display-service/internal/dto"
	"github.com/okanuzun/installment-display-service/internal/provider"
	"github.com/okanuzun/installment-display-service/internal/service"
)

// MapError converts a pipeline error into an HTTP status and a user-safe
// message. Raw provider and database details go to the log only.
func MapError(err error) (int, dto.ErrorResponse) {
	switch {
	case errors.Is(err, service.ErrInvalidPrice),
		errors.Is(err, service.ErrInvalidBIN),
		errors.Is(err, service.ErrInvalidProduct):
		return http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()}
	case errors.Is(err, service.ErrProductNotFound):
		return http.StatusNotFound, dto.ErrorResponse{Error: err.Error()}
	case errors.Is(err, service.ErrRateLimited):
		return http.StatusTooManyRequests, dto.ErrorResponse{Error: err.Error()}
	case errors.Is(err, service.ErrDynamicDisabled),
		errors.Is(err, service.ErrDirectDisabled):
		return http.StatusForbidden, dto.ErrorResponse{Error: err.Error()}
	case errors.Is(err, service.ErrMissingCredentials):
		return http.StatusUnprocessableEntity, dto.ErrorResponse{Error: err.Error()}
	}

	var rejected *provider.RejectedError
	if errors.As(err, &rejected) {
		return http.StatusBadGateway, dto.ErrorResponse{Error: rejected.Message}
	}

	var transport *provider.TransportError
	if errors.As(err, &transport) {
		log.Error().Err(transport.Err).Msg("provider transport fault")
		return http.StatusBadGateway, dto.ErrorResponse{Error: "payment provider is unreachable"}
	}

	log.Error().Err(err).Msg("unhandled error")
	return http.StatusInternalServerError, dto.ErrorResponse{Error: "internal server error"}
}

func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			err := c.Errors.Last().Err
			status, resp := MapError(err)
			c.JSON(status, resp)
		}
	}
}
