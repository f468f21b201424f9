package api

import (
	"net/http"

	"github.com/rpupo63/portfolio-catalog-backend/database"
	"github.com/rpupo63/portfolio-catalog-backend/errs"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type healthHandler struct {
	responder Responder
	logger    zerolog.Logger
	store     database.ProjectStore
}

func newHealthHandler(store database.ProjectStore, exposeDetails bool) healthHandler {
	logger := log.With().Str("handlerName", "healthHandler").Logger()

	return healthHandler{
		responder: NewResponder(logger, exposeDetails),
		logger:    logger,
		store:     store,
	}
}

// health reports store connectivity and catalog size.
func (h healthHandler) health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h.store.Ping(); err != nil {
			h.responder.WriteError(w, errs.NewStoreUnavailableError(err))
			return
		}

		total, err := h.store.Count()
		if err != nil {
			h.responder.WriteError(w, errs.NewStoreUnavailableError(err))
			return
		}

		h.responder.WriteJSON(w, map[string]any{
			"status":   "ok",
			"database": "connected",
			"projects": total,
		})
	}
}
