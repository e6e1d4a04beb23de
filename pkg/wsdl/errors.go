package wsdl

import "errors"

// Load failures fall into three classes so callers can tell a transport
// problem from a bad document from a document this package refuses to handle.
var (
	// ErrUnreachable wraps transport errors while fetching the WSDL or one
	// of its imports.
	ErrUnreachable = errors.New("wsdl unreachable")
	// ErrMalformed wraps XML or schema parse errors.
	ErrMalformed = errors.New("wsdl malformed")
	// ErrUnsupported marks documents outside WSDL 1.1 document/literal:
	// WSDL 2.0 roots, RPC or encoded bindings, services without a usable
	// SOAP binding.
	ErrUnsupported = errors.New("wsdl unsupported")
)
