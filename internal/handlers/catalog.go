package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) handleTrending(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Catalog.Trending())
}
