package errs

import (
	"fmt"
	"net/http"
)

// NewDatabaseError wraps a store failure with the operation and entity it
// happened on. The cause is preserved for the full error chain.
func NewDatabaseError(operation, entity string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusInternalServerError,
		err:        fmt.Errorf("failed to %s %s", operation, entity),
		Cause:      cause,
	}
}

// NewStoreUnavailableError signals that the persistence layer cannot be
// reached, used by the health endpoint.
func NewStoreUnavailableError(cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusServiceUnavailable,
		err:        fmt.Errorf("store unavailable"),
		Cause:      cause,
	}
}
