package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rpupo63/portfolio-catalog-backend/errs"
	"github.com/rs/zerolog"
)

type Responder struct {
	logger zerolog.Logger
	// exposeDetails controls whether unexpected error messages are included
	// in 500 responses. Off in production.
	exposeDetails bool
}

func NewResponder(logger zerolog.Logger, exposeDetails bool) Responder {
	return Responder{logger: logger, exposeDetails: exposeDetails}
}

func (r Responder) WriteJSON(w http.ResponseWriter, data any) {
	r.WriteJSONStatus(w, http.StatusOK, data)
}

func (r Responder) WriteJSONStatus(w http.ResponseWriter, status int, data any) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		r.logger.Error().Err(err).Msg("error marshaling response data")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(jsonData); err != nil {
		r.logger.Error().Err(err).Msg("error writing response")
	}
}

func (r Responder) WriteError(w http.ResponseWriter, err error) {
	var apiErr *errs.ApiErr

	// For unexpected errors, log and return a generic internal error. The
	// underlying message is only exposed outside production.
	if !errors.As(err, &apiErr) {
		r.logger.Error().Msg(err.Error())
		response := map[string]any{
			"error":   "Internal Server Error",
			"message": "An unexpected error occurred",
			"status":  "error",
		}
		if r.exposeDetails {
			response["details"] = err.Error()
		}
		r.WriteJSONStatus(w, http.StatusInternalServerError, response)
		return
	}

	response := map[string]any{
		"error":   apiErr.Error(),
		"message": apiErr.Error(),
		"status":  "error",
	}

	if apiErr.Field != "" {
		response["field"] = apiErr.Field
	}

	// Validation failures carry one message per failing field.
	if len(apiErr.Violations) > 0 {
		response["errors"] = apiErr.Violations
	}

	if apiErr.Details != "" {
		response["details"] = apiErr.Details
	}

	if apiErr.Cause != nil && r.exposeDetails {
		response["cause"] = apiErr.GetFullError()
	}

	r.WriteJSONStatus(w, apiErr.StatusCode, response)
}
