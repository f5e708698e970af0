package handlers

import (
	"net/http"

	"github.com/amaumene/rdstream/internal/models"
	"github.com/amaumene/rdstream/internal/services"
	"github.com/gin-gonic/gin"
)

func (h *Handler) handleLibrary(c *gin.Context) {
	lib, err := h.services.Library()
	if err != nil {
		respondError(c, err)
		return
	}

	items, err := lib.List(c.Request.Context())
	if err != nil {
		if !h.config.DemoFallback {
			respondError(c, err)
			return
		}
		h.services.Logger.Warnf("[LibraryHandler] library unavailable, serving demo items: %v", err)
		c.JSON(http.StatusOK, models.LibraryResponse{Items: services.DemoLibrary(), Fallback: true})
		return
	}

	c.JSON(http.StatusOK, models.LibraryResponse{Items: items})
}

func (h *Handler) handleLibraryDelete(c *gin.Context) {
	lib, err := h.services.Library()
	if err != nil {
		respondError(c, err)
		return
	}

	id := c.Param("id")
	if err := lib.Remove(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id, "deleted": true})
}
