package http

import (
	"chat-rooms/errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// statusFor is the only place where an error kind becomes an HTTP status.
func statusFor(kind errors.Kind) int {
	switch kind {
	case errors.KindValidation:
		return http.StatusBadRequest
	case errors.KindNotFound:
		return http.StatusNotFound
	case errors.KindForbidden:
		return http.StatusForbidden
	case errors.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage hides the cause of storage and internal failures from clients.
func publicMessage(err error) string {
	var tagged *errors.Error
	if !errors.As(err, &tagged) {
		return "internal error"
	}
	switch tagged.Kind {
	case errors.KindStorage:
		return "failed to store attachment"
	case errors.KindInternal:
		return "internal error"
	default:
		return tagged.Msg
	}
}

func (h *handler) abortWithError(c *gin.Context, err error) {
	kind := errors.KindOf(err)
	status := statusFor(kind)
	if status >= http.StatusInternalServerError {
		h.log.Error("Request failed", "path", c.FullPath(), "kind", kind.String(), "error", err)
	} else {
		h.log.Debug("Request rejected", "path", c.FullPath(), "kind", kind.String(), "error", err)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": publicMessage(err)})
}
