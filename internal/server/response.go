package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/pennywise/internal/catalog"
	"github.com/abhisek/pennywise/internal/progress"
)

// APIError is the body of every error response.
type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func respondError(c *gin.Context, status int, code string, err error) {
	c.JSON(status, envelope(code, err))
}

func abortError(c *gin.Context, status int, code string, err error) {
	c.AbortWithStatusJSON(status, envelope(code, err))
}

func envelope(code string, err error) ErrorEnvelope {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return ErrorEnvelope{Error: APIError{Message: msg, Code: code}}
}

// respondStoreError maps package sentinels to status codes. Anything else
// is a 500 and is not echoed to the client.
func (s *Server) respondStoreError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, progress.ErrNotFound):
		respondError(c, http.StatusNotFound, "not_found", err)
	case errors.Is(err, catalog.ErrLessonNotFound), errors.Is(err, catalog.ErrCourseNotFound):
		respondError(c, http.StatusNotFound, "not_found", err)
	case errors.Is(err, progress.ErrVersionConflict):
		respondError(c, http.StatusConflict, "version_conflict", err)
	case errors.Is(err, progress.ErrInvalidPatch):
		respondError(c, http.StatusBadRequest, "invalid_request", err)
	default:
		s.log.Error("request failed", "path", c.FullPath(), "user_id", currentUser(c), "error", err)
		respondError(c, http.StatusInternalServerError, "internal", errors.New("internal server error"))
	}
}
