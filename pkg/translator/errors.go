package translator

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrServiceUnknown means the service name is not in the catalog.
	ErrServiceUnknown = errors.New("service not found")
	// ErrOperationUnknown means the operation is not part of the service,
	// either in the catalog or in the live WSDL.
	ErrOperationUnknown = errors.New("operation not found")
	// ErrUpstreamUnavailable wraps transport failures talking to the SOAP
	// endpoint. SOAP faults are not transport failures and surface as
	// *soap.Fault instead.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)

// ParameterShapeError reports a request body that was a simple value for an
// operation whose input schema declares more than one property, so there is
// no unambiguous parameter to wrap it into.
type ParameterShapeError struct {
	Properties []string
}

func (e *ParameterShapeError) Error() string {
	return fmt.Sprintf("operation requires multiple parameters [%s], but received a simple value",
		strings.Join(e.Properties, ", "))
}
