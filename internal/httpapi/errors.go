package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/example/floor/internal/apperr"
)

// statusFor maps an error kind to its HTTP status.
func statusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindInvalidState, apperr.KindMissingLine, apperr.KindInvalid:
		return http.StatusBadRequest
	case apperr.KindSchedulingConflict, apperr.KindAssignmentConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (h *handlers) fail(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	status := statusFor(kind)
	_ = c.Error(err)

	if status == http.StatusInternalServerError {
		h.logger.Error("request failed", zap.Error(err), zap.String("path", c.Request.URL.Path))
		c.JSON(status, gin.H{"error": "internal error", "kind": kind})
		return
	}

	body := gin.H{"error": err.Error(), "kind": kind}
	if kind == apperr.KindSchedulingConflict {
		body["conflictingOrders"] = apperr.ConflictsOf(err)
	}
	c.JSON(status, body)
}

func (h *handlers) badRequest(c *gin.Context, err error) {
	h.fail(c, apperr.Wrap(apperr.KindInvalid, err, "invalid request: %v", err))
}
