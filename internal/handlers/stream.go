package handlers

import (
	"context"
	"net/http"

	apperrors "github.com/amaumene/rdstream/internal/errors"
	"github.com/amaumene/rdstream/internal/magnet"
	"github.com/amaumene/rdstream/internal/middleware"
	"github.com/amaumene/rdstream/internal/models"
	"github.com/gin-gonic/gin"
)

func (h *Handler) handleStream(c *gin.Context) {
	var req models.StreamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.NewInvalidRequestError("request body must be a JSON object with a magnet field"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.config.StreamTimeout)
	defer cancel()

	acq, err := h.services.Acquisition(nil)
	if err != nil {
		h.services.Logger.Errorf("[StreamHandler] %s: %v", middleware.GetRequestID(c), err)
		respondError(c, err)
		return
	}

	url, err := acq.Process(ctx, req.Magnet, req.Title)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			h.services.Logger.Errorf("[StreamHandler] request %s timed out after %s", middleware.GetRequestID(c), h.config.StreamTimeout)
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.StreamResponse{URL: url})
}

func (h *Handler) handleAvailability(c *gin.Context) {
	magnetURI := c.Query("magnet")
	hash, err := magnet.ExtractHash(magnetURI)
	if err != nil {
		respondError(c, err)
		return
	}

	acq, err := h.services.Acquisition(nil)
	if err != nil {
		respondError(c, err)
		return
	}

	instant, err := acq.CheckInstant(c.Request.Context(), magnetURI)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.AvailabilityResponse{Hash: hash, Instant: instant})
}
