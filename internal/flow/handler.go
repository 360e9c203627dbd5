package flow

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pytake/flowengine/internal/logger"
)

// Handler is the HTTP Surface (C9): /process_message, /reload_flow,
// /health and the root liveness banner, all JSON over HTTP (§6).
type Handler struct {
	service *Service
	log     *logger.Logger
}

// NewHandler binds a Handler to an already-wired Service.
func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{service: service, log: log}
}

// RegisterRoutes attaches every endpoint of §6 to r.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/", h.Root)
	r.POST("/", h.Root)
	r.POST("/process_message", h.ProcessMessage)
	r.POST("/reload_flow", h.ReloadFlow)
	r.GET("/health", h.Health)
}

// processMessageRequest is the inbound shape of POST /process_message.
// sender_id is required; message defaults to "" when omitted.
type processMessageRequest struct {
	SenderID string `json:"sender_id" binding:"required"`
	Message  string `json:"message"`
}

// ProcessMessage implements POST /process_message (§6): the gateway's
// entry point into the Execution Engine.
func (h *Handler) ProcessMessage(c *gin.Context) {
	var req processMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sender_id é obrigatório"})
		return
	}

	defer func() {
		if r := recover(); r != nil {
			h.log.Errorf("process_message: recovered from panic: %v", r)
			c.JSON(http.StatusOK, gin.H{"response_payload": gin.H{"type": "text", "text": msgGeneric}})
		}
	}()

	payload := h.service.ProcessMessage(c.Request.Context(), req.SenderID, req.Message)
	if payload == nil {
		c.JSON(http.StatusOK, gin.H{})
		return
	}
	c.JSON(http.StatusOK, gin.H{"response_payload": payload})
}

// ReloadFlow implements POST /reload_flow (§6, §4.9): a synchronous
// Flow Store Adapter -> Flow Model swap -> Session Store purge.
func (h *Handler) ReloadFlow(c *gin.Context) {
	if err := h.service.Reload(c.Request.Context()); err != nil {
		h.log.Errorf("reload_flow: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "flow reloaded successfully"})
}

// Health implements GET /health (§6): ok only when a flow is loaded
// and the database is reachable, degraded (503) otherwise.
func (h *Handler) Health(c *gin.Context) {
	flowLoaded := h.service.Ready()
	dbErr := h.service.PingDB(c.Request.Context())

	details := gin.H{
		"flow_loaded":   flowLoaded,
		"db_connection": dbErr == nil,
	}
	if !flowLoaded {
		details["flow_error"] = "no active flow loaded"
	}
	if dbErr != nil {
		details["db_error"] = dbErr.Error()
	}

	if flowLoaded && dbErr == nil {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "details": details})
		return
	}
	c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "details": details})
}

// Root implements GET|POST / (§6): a bare liveness banner for load
// balancers that only check for a 200.
func (h *Handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "flowengine"})
}
