package api

import "github.com/go-playground/validator/v10"

var validate = validator.New()

// ErrorResponse is the error body every endpoint returns, matching the
// error schema advertised in the emitted OpenAPI documents.
type ErrorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}
