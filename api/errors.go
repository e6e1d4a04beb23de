package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/soapbridge/soapbridge/pkg/gateway"
	"github.com/soapbridge/soapbridge/pkg/soap"
	"github.com/soapbridge/soapbridge/pkg/translator"
	"github.com/soapbridge/soapbridge/pkg/wsdl"
)

// handleError maps domain errors onto HTTP statuses and writes the
// {error, detail?} body. Anything unrecognized becomes a 500 whose detail
// is only exposed when debug logging is on.
func handleError(c *fiber.Ctx, err error) error {
	var fault *soap.Fault
	var shape *translator.ParameterShapeError
	var partial *gateway.PartialRegistrationError

	switch {
	case errors.As(err, &fault):
		return c.Status(fiber.StatusBadGateway).JSON(ErrorResponse{
			Error:  "upstream SOAP fault",
			Detail: fault.Reason,
		})
	case errors.As(err, &shape):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: shape.Error()})
	case errors.Is(err, translator.ErrServiceUnknown),
		errors.Is(err, translator.ErrOperationUnknown):
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: err.Error()})
	case errors.Is(err, gorm.ErrRecordNotFound):
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: "Service not found"})
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return c.Status(fiber.StatusConflict).JSON(ErrorResponse{Error: "Service already exists"})
	case errors.Is(err, gateway.ErrAlreadyRegistered):
		return c.Status(fiber.StatusConflict).JSON(ErrorResponse{Error: err.Error()})
	case errors.Is(err, gateway.ErrNotConfigured):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "Gateway not configured. Set GATEWAY_URL and GATEWAY_TOKEN or save a gateway configuration.",
		})
	case errors.As(err, &partial), errors.Is(err, gateway.ErrUnavailable):
		return c.Status(fiber.StatusBadGateway).JSON(ErrorResponse{Error: err.Error()})
	case errors.Is(err, wsdl.ErrMalformed), errors.Is(err, wsdl.ErrUnsupported):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(ErrorResponse{Error: err.Error()})
	case errors.Is(err, wsdl.ErrUnreachable), errors.Is(err, translator.ErrUpstreamUnavailable):
		return c.Status(fiber.StatusBadGateway).JSON(ErrorResponse{Error: err.Error()})
	}

	log.Error().Err(err).Str("path", c.Path()).Msg("Unhandled API error")
	response := ErrorResponse{Error: "internal server error"}
	if zerolog.GlobalLevel() <= zerolog.DebugLevel {
		response.Detail = err.Error()
	}
	return c.Status(fiber.StatusInternalServerError).JSON(response)
}
