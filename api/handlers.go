package api

import (
	"time"

	"github.com/rpupo63/portfolio-catalog-backend/database"
	"github.com/rpupo63/portfolio-catalog-backend/services"
)

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	projectHandler projectHandler
	statsHandler   statsHandler
	adminHandler   adminHandler
	healthHandler  healthHandler
}

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(store database.ProjectStore, images *services.ImageStore, adminPassword string, tokens adminTokens, statsTTL time.Duration, exposeDetails bool) *routeHandlers {
	return &routeHandlers{
		projectHandler: newProjectHandler(store, images, exposeDetails),
		statsHandler:   newStatsHandler(store, statsTTL, exposeDetails),
		adminHandler:   newAdminHandler(adminPassword, tokens, exposeDetails),
		healthHandler:  newHealthHandler(store, exposeDetails),
	}
}
