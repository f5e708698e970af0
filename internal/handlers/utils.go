package handlers

import (
	"strconv"
	"strings"

	apperrors "github.com/amaumene/rdstream/internal/errors"
	"github.com/amaumene/rdstream/internal/models"
	"github.com/gin-gonic/gin"
)

// respondError writes the kind and user-facing message of err. The cause is
// never sent to the client.
func respondError(c *gin.Context, err error) {
	kind := apperrors.KindOf(err)
	c.AbortWithStatusJSON(apperrors.HTTPStatus(kind), models.ErrorBody{
		Error: models.ErrorDetail{
			Kind:    string(kind),
			Message: apperrors.MessageOf(err),
		},
	})
}

// parsePage reads a 1-based page number, falling back to 1.
func parsePage(raw string) int {
	page, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || page < 1 {
		return 1
	}
	return page
}
