// Package handlers implements the HTTP API: catalog, torrent search, debrid
// streaming, library and settings.
package handlers

import (
	"net/http"

	"github.com/amaumene/rdstream/internal/config"
	"github.com/amaumene/rdstream/internal/constants"
	"github.com/amaumene/rdstream/internal/middleware"
	"github.com/amaumene/rdstream/internal/services"
	"github.com/amaumene/rdstream/pkg/security"
	"github.com/gin-gonic/gin"
)

// Handler handles HTTP requests for the API.
type Handler struct {
	services  *services.Container
	config    *config.Config
	validator *security.TokenValidator
}

// New creates a new Handler with the provided services and configuration.
func New(services *services.Container, config *config.Config) *Handler {
	return &Handler{
		services:  services,
		config:    config,
		validator: security.NewTokenValidator(),
	}
}

// NewRouter builds a gin engine with the standard middleware and every route.
func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.CORS(),
		middleware.Logger(h.services.Logger),
		middleware.Gzip(),
	)
	h.RegisterRoutes(r)
	return r
}

// RegisterRoutes registers all HTTP routes.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.handleHealth)
	if h.services.Metrics != nil {
		r.GET("/metrics", gin.WrapH(h.services.Metrics.Handler()))
	}

	api := r.Group("/api")

	api.GET("/movies/trending", h.handleTrending)
	api.GET("/torrents/search", h.handleSearch)

	debrid := api.Group("/debrid")
	debrid.GET("/availability", h.handleAvailability)
	debrid.POST("/stream", h.handleStream)
	debrid.GET("/library", h.handleLibrary)
	debrid.DELETE("/library/:id", h.handleLibraryDelete)

	api.GET("/settings", h.handleGetSettings)
	api.PUT("/settings", h.handlePutSettings)
	api.DELETE("/settings/token", h.handleClearToken)
}

func (h *Handler) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"name":    constants.AppName,
		"version": constants.AppVersion,
	})
}
