package asp

import (
	"errors"
	"net/http"
)

// Error taxonomy, named by kind string rather than Go type so the
// wire error shape (`{error, message}`) can echo it directly.
const (
	kindInvalidField        = "InvalidField"
	kindConstraintViolation = "ConstraintViolation"
	kindNotFound            = "NotFound"
	kindAlreadySpent        = "AlreadySpent"
	kindUnknownRoot         = "UnknownRoot"
	kindProverFailure       = "ProverFailure"
	kindChainFailure        = "ChainFailure"
	kindPaused              = "Paused"
	kindTreeFull            = "TreeFull"
	kindInternal            = "Internal"
)

// apiError carries an error kind alongside the underlying cause, so
// handlers can map it to an HTTP status without re-deriving the kind from
// string matching.
type apiError struct {
	Kind    string
	Message string
	cause   error
}

func (e *apiError) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

func (e *apiError) Unwrap() error { return e.cause }

func newAPIError(kind, message string, cause error) *apiError {
	return &apiError{Kind: kind, Message: message, cause: cause}
}

// httpStatus maps an error kind to an HTTP status: caller errors are 4xx,
// prover/chain failures are 5xx.
func httpStatus(kind string) int {
	switch kind {
	case kindInvalidField, kindConstraintViolation, kindAlreadySpent, kindPaused, kindTreeFull:
		return http.StatusBadRequest
	case kindNotFound, kindUnknownRoot:
		return http.StatusNotFound
	case kindProverFailure, kindChainFailure, kindInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

func asAPIError(err error) *apiError {
	var ae *apiError
	if errors.As(err, &ae) {
		return ae
	}
	return newAPIError(kindInternal, "internal error", err)
}
