package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kreuzberg-io/kreuzberg/internal/extract"
)

// FormatsHandler reports the document formats the extraction pipeline
// accepts.
type FormatsHandler struct {
	pipeline *extract.Pipeline
}

// NewFormatsHandler creates a new formats handler.
// Parameters:
//   - pipeline: extraction pipeline to report on.
// Returns:
//   - *FormatsHandler: handler instance.
func NewFormatsHandler(pipeline *extract.Pipeline) *FormatsHandler {
	return &FormatsHandler{pipeline: pipeline}
}

// Formats lists the supported MIME types.
func (h *FormatsHandler) Formats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"mime_types": h.pipeline.SupportedMIMETypes()})
}
