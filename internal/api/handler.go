package api

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/resumesmartx/resumesmartx/internal/resume"
	"github.com/resumesmartx/resumesmartx/internal/service"
)

// Handler serves the /api/v1 routes.
type Handler struct {
	svc       JobService
	providers []string
	logger    *slog.Logger
}

// SearchRequest is the body of POST /jobs/search.
type SearchRequest struct {
	Query      string   `json:"query"`
	Skills     []string `json:"skills"`
	JobField   string   `json:"job_field"`
	MaxResults int      `json:"max_results" binding:"gte=0"`
}

// Health is GET /health.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"providers": h.providers,
	})
}

// SearchJobs is POST /jobs/search. Any well-formed request gets a 200 with
// listings; when every provider came back empty they are placeholders and
// "fallback" is true.
func (h *Handler) SearchJobs(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	resp := h.svc.Search(c.Request.Context(), service.Request{
		Query:      req.Query,
		Skills:     req.Skills,
		JobField:   req.JobField,
		MaxResults: req.MaxResults,
	})
	c.JSON(http.StatusOK, resp)
}

// SearchResume is POST /jobs/search/resume, a multipart form with a
// "resume" PDF and optional "job_field" and "max_results" fields.
func (h *Handler) SearchResume(c *gin.Context) {
	fh, err := c.FormFile("resume")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing resume file"})
		return
	}
	if fh.Size > resume.MaxSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": resume.ErrTooLarge.Error()})
		return
	}

	maxResults := 0
	if v := c.PostForm("max_results"); v != "" {
		maxResults, err = strconv.Atoi(v)
		if err != nil || maxResults < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "max_results must be a non-negative integer"})
			return
		}
	}

	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable upload"})
		return
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, resume.MaxSize+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable upload"})
		return
	}

	resp, err := h.svc.SearchResume(c.Request.Context(), data, c.PostForm("job_field"), maxResults)
	if err != nil {
		status := http.StatusUnprocessableEntity
		if errors.Is(err, resume.ErrTooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		h.logger.Warn("rejected resume upload", "file", fh.Filename, "error", err)
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, resp)
}
