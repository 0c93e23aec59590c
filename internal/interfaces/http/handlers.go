package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/campusflow/approval-engine/internal/application/service"
	"github.com/campusflow/approval-engine/internal/domain/request"
	"github.com/campusflow/approval-engine/internal/domain/workflow"
)

// Handlers contains all HTTP request handlers.
type Handlers struct {
	requests service.RequestService
	logger   *zap.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(requests service.RequestService, logger *zap.Logger) *Handlers {
	return &Handlers{
		requests: requests,
		logger:   logger,
	}
}

// Response represents a standard JSON response.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// SubmitRequestBody is the submission payload envelope.
type SubmitRequestBody struct {
	RequestType string                 `json:"request_type" binding:"required"`
	Payload     map[string]interface{} `json:"payload" binding:"required"`
}

// ActionBody carries the optional comment of an approve action.
type ActionBody struct {
	Comment string `json:"comment"`
}

// RejectBody carries the mandatory reason of a reject action.
type RejectBody struct {
	Reason string `json:"reason"`
}

// BulkActionBody is the payload for bulk approve/reject.
type BulkActionBody struct {
	RequestIDs []string `json:"request_ids" binding:"required"`
	Comment    string   `json:"comment"`
	Reason     string   `json:"reason"`
}

// HealthCheck handles GET /health.
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// SubmitRequest handles POST /api/v1/requests.
func (h *Handlers) SubmitRequest(c *gin.Context) {
	var body SubmitRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "request_type and payload are required"})
		return
	}

	reqType := request.Type(body.RequestType)
	if !reqType.IsValid() {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: fmt.Sprintf("unknown request type %q", body.RequestType)})
		return
	}

	req, err := h.requests.Submit(c.Request.Context(), currentUser(c), reqType, body.Payload)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, Response{Success: true, Data: req})
}

// GetRequest handles GET /api/v1/requests/:id.
func (h *Handlers) GetRequest(c *gin.Context) {
	req, err := h.requests.Get(c.Request.Context(), currentUser(c), c.Param("id"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: req})
}

// ListRequests handles GET /api/v1/requests. scope=mine lists the caller's
// own submissions; scope=pending (default) lists requests waiting on the
// caller's role.
func (h *Handlers) ListRequests(c *gin.Context) {
	limit := intQuery(c, "limit", 50)
	offset := intQuery(c, "offset", 0)
	user := currentUser(c)

	var (
		reqs []*request.Request
		err  error
	)
	if c.Query("scope") == "mine" {
		reqs, err = h.requests.ListMine(c.Request.Context(), user, limit, offset)
	} else {
		reqs, err = h.requests.ListPending(c.Request.Context(), user, limit, offset)
	}
	if err != nil {
		h.renderError(c, err)
		return
	}
	if reqs == nil {
		reqs = []*request.Request{}
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: reqs})
}

// ApproveRequest handles POST /api/v1/requests/:id/approve.
func (h *Handlers) ApproveRequest(c *gin.Context) {
	var body ActionBody
	_ = c.ShouldBindJSON(&body)

	req, err := h.requests.Approve(c.Request.Context(), currentUser(c), c.Param("id"), body.Comment)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: req})
}

// RejectRequest handles POST /api/v1/requests/:id/reject.
func (h *Handlers) RejectRequest(c *gin.Context) {
	var body RejectBody
	_ = c.ShouldBindJSON(&body)

	req, err := h.requests.Reject(c.Request.Context(), currentUser(c), c.Param("id"), body.Reason)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Data: req})
}

// BulkApprove handles POST /api/v1/requests/bulk/approve. Partial failure
// is a normal outcome: the per-item report is returned with 200.
func (h *Handlers) BulkApprove(c *gin.Context) {
	var body BulkActionBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "request_ids is required"})
		return
	}

	result := h.requests.BulkApprove(c.Request.Context(), currentUser(c), body.RequestIDs, body.Comment)
	c.JSON(http.StatusOK, Response{Success: true, Data: result})
}

// BulkReject handles POST /api/v1/requests/bulk/reject.
func (h *Handlers) BulkReject(c *gin.Context) {
	var body BulkActionBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, Response{Success: false, Error: "request_ids is required"})
		return
	}

	result := h.requests.BulkReject(c.Request.Context(), currentUser(c), body.RequestIDs, body.Reason)
	c.JSON(http.StatusOK, Response{Success: true, Data: result})
}

// renderError maps the domain error taxonomy onto HTTP statuses. "Not
// authorized" stays distinct from "not found".
func (h *Handlers) renderError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, workflow.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, workflow.ErrUnauthorized):
		status = http.StatusForbidden
	case errors.Is(err, workflow.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, workflow.ErrInvalidState):
		status = http.StatusConflict
	default:
		h.logger.Error("Unhandled error", zap.Error(err))
	}
	c.JSON(status, Response{Success: false, Error: err.Error()})
}

func intQuery(c *gin.Context, key string, fallback int) int {
	if v := c.Query(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return fallback
}
