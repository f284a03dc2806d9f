package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ShoaibShoukat2/AIAgents/internal/projects/domain"
)

// create accepts a new project and triggers its pipeline run.
func (h *Handler) create(c *gin.Context) {
	var req createReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Requirements) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name and requirements are required"})
		return
	}

	p, err := h.svc.Submit(c.Request.Context(), req.Name, req.Requirements)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create project"})
		return
	}
	c.JSON(http.StatusCreated, p)
}

// list returns projects newest first, with optional limit/offset paging.
func (h *Handler) list(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	items, err := h.svc.List(c.Request.Context(), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list projects"})
		return
	}
	c.JSON(http.StatusOK, items)
}

// get returns the latest committed snapshot of one project.
func (h *Handler) get(c *gin.Context) {
	p, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get project"})
		return
	}
	c.JSON(http.StatusOK, p)
}

// approve is the human approval gate endpoint.
func (h *Handler) approve(c *gin.Context) {
	var req approveReq
	if err := c.ShouldBindJSON(&req); err != nil || req.Approved == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "approved field is required"})
		return
	}

	p, err := h.svc.Approve(c.Request.Context(), c.Param("id"), *req.Approved, req.Feedback)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, p)
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
	case errors.Is(err, domain.ErrInvalidState):
		// Return the current snapshot so the client can reconcile its view.
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "project": p})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record approval"})
	}
}

// regenerate restarts the pipeline with a fresh artifact history.
func (h *Handler) regenerate(c *gin.Context) {
	p, err := h.svc.Regenerate(c.Request.Context(), c.Param("id"))
	switch {
	case err == nil:
		c.JSON(http.StatusAccepted, gin.H{"message": "design regeneration started", "project": p})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
	case errors.Is(err, domain.ErrPipelineActive):
		c.JSON(http.StatusConflict, gin.H{"error": "pipeline already running"})
	case errors.Is(err, domain.ErrInvalidState):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "project": p})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to regenerate project"})
	}
}

// remove deletes a project that has no live run.
func (h *Handler) remove(c *gin.Context) {
	err := h.svc.Delete(c.Request.Context(), c.Param("id"))
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"message": "project deleted", "project_id": c.Param("id")})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "project not found"})
	case errors.Is(err, domain.ErrPipelineActive):
		c.JSON(http.StatusConflict, gin.H{"error": "pipeline already running"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete project"})
	}
}

// stats aggregates project counts for the dashboard.
func (h *Handler) stats(c *gin.Context) {
	st, err := h.svc.GetStats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute stats"})
		return
	}
	c.JSON(http.StatusOK, st)
}
