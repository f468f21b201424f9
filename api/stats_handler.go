package api

import (
	"net/http"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/rpupo63/portfolio-catalog-backend/database"
	"github.com/rpupo63/portfolio-catalog-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const statsCacheKey = "catalog-stats"

// statsHandler serves the dashboard summary. The summary scans the full
// catalog, so it is memoized for a short TTL.
type statsHandler struct {
	responder Responder
	logger    zerolog.Logger
	store     database.ProjectStore
	cache     *gocache.Cache
}

func newStatsHandler(store database.ProjectStore, ttl time.Duration, exposeDetails bool) statsHandler {
	logger := log.With().Str("handlerName", "statsHandler").Logger()

	return statsHandler{
		responder: NewResponder(logger, exposeDetails),
		logger:    logger,
		store:     store,
		cache:     gocache.New(ttl, 10*time.Minute),
	}
}

func (h statsHandler) getStats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cached, ok := h.cache.Get(statsCacheKey); ok {
			h.responder.WriteJSON(w, cached.(models.CatalogStats))
			return
		}

		stats, err := h.store.Stats()
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("aggregate", "stats", err))
			return
		}

		h.cache.SetDefault(statsCacheKey, stats)
		h.responder.WriteJSON(w, stats)
	}
}
