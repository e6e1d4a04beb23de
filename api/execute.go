package api

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// ExecuteOperation bridges one REST call to the upstream SOAP operation.
// This is the runtime endpoint the registered gateway tools point at: the
// JSON body is translated into a SOAP envelope, the upstream response back
// into JSON. Client disconnects cancel the upstream call through c.Context().
func ExecuteOperation(c *fiber.Ctx) error {
	bridge := getBridge(c)

	serviceName := c.Params("service")
	operationName := c.Params("operation")
	log.Info().
		Str("service", serviceName).
		Str("operation", operationName).
		Msg("SOAP execution request")

	var payload interface{}
	if body := c.Body(); len(body) > 0 {
		if err := json.Unmarshal(body, &payload); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
				Error:  "Request body is not valid JSON",
				Detail: err.Error(),
			})
		}
	}

	result, err := bridge.translator.Execute(c.Context(), serviceName, operationName, payload)
	if err != nil {
		log.Error().Err(err).
			Str("service", serviceName).
			Str("operation", operationName).
			Msg("SOAP execution failed")
		return handleError(c, err)
	}

	return c.JSON(result)
}
