package handlers

import (
	"net/http"
	"strings"

	apperrors "github.com/amaumene/rdstream/internal/errors"
	"github.com/amaumene/rdstream/internal/models"
	"github.com/amaumene/rdstream/internal/services"
	"github.com/gin-gonic/gin"
)

func (h *Handler) handleSearch(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	page := parsePage(c.Query("page"))

	results, err := h.services.Search.Search(c.Request.Context(), query, page)
	if err != nil {
		if !h.config.DemoFallback || apperrors.KindOf(err) == apperrors.KindInvalidRequest {
			respondError(c, err)
			return
		}
		h.services.Logger.Warnf("[SearchHandler] search failed, serving demo results: %v", err)
		c.JSON(http.StatusOK, models.SearchResponse{
			Query:    query,
			Page:     page,
			Results:  services.DemoResults(query),
			Fallback: true,
		})
		return
	}

	c.JSON(http.StatusOK, models.SearchResponse{
		Query:   query,
		Page:    page,
		Results: results,
	})
}
