package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kreuzberg-io/kreuzberg/internal/store"
)

// JobsHandler serves ingestion job records from the relational store.
type JobsHandler struct {
	recorder store.JobRecorder
}

// NewJobsHandler creates a new jobs handler.
// Parameters:
//   - recorder: job bookkeeping backend; nil when no relational target
//     is configured.
// Returns:
//   - *JobsHandler: handler instance.
func NewJobsHandler(recorder store.JobRecorder) *JobsHandler {
	return &JobsHandler{recorder: recorder}
}

// ListJobs returns the most recent ingestion jobs.
func (h *JobsHandler) ListJobs(c *gin.Context) {
	if h.recorder == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "no relational store configured for job records"})
		return
	}

	limit := 20
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}

	jobs, err := h.recorder.ListJobs(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobs": jobs})
}

// GetJob returns one ingestion job by ID.
func (h *JobsHandler) GetJob(c *gin.Context) {
	if h.recorder == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "no relational store configured for job records"})
		return
	}

	job, err := h.recorder.GetJob(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
		return
	}
	c.JSON(http.StatusOK, job)
}
