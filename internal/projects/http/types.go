package http

import (
	"github.com/ShoaibShoukat2/AIAgents/internal/projects/service"
)

// Handler handles HTTP requests for projects and pipeline control.
type Handler struct {
	svc *service.ProjectService
}

// New creates a new Handler.
func New(svc *service.ProjectService) *Handler {
	return &Handler{svc: svc}
}

type createReq struct {
	Name         string `json:"name"`
	Requirements string `json:"requirements"`
}

type approveReq struct {
	// Approved is a pointer so a missing field is distinguishable from an
	// explicit rejection.
	Approved *bool  `json:"approved"`
	Feedback string `json:"feedback"`
}
