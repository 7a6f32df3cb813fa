package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/matheus3301/teleclone/internal/gemini"
	"github.com/matheus3301/teleclone/internal/model"
	"github.com/matheus3301/teleclone/internal/repo"
	"go.uber.org/zap"
)

// Fallback payload returned when the provider call fails.
const (
	FallbackMessage  = "AI service unavailable"
	FallbackResponse = "Sorry, I can't connect right now! 🤖"
)

// Handler serves the HTTP API.
type Handler struct {
	gen    gemini.Generator
	repo   repo.Repository
	logger *zap.Logger
}

// NewHandler creates the API handler.
func NewHandler(gen gemini.Generator, r repo.Repository, logger *zap.Logger) *Handler {
	return &Handler{gen: gen, repo: r, logger: logger}
}

func respondError(c *gin.Context, status int, err error) {
	c.JSON(status, model.ErrorResponse{Message: err.Error()})
}

// Chat handles POST /api/gemini/chat.
func (h *Handler) Chat(c *gin.Context) {
	var req model.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if err := req.Validate(); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}

	text, err := h.gen.Generate(c.Request.Context(), req.History, *req.Prompt)
	if err != nil {
		h.logger.Error("gemini request failed", zap.Int("history", len(req.History)), zap.Error(err))
		c.JSON(http.StatusInternalServerError, model.ChatResponse{
			Message:  FallbackMessage,
			Response: FallbackResponse,
		})
		return
	}
	c.JSON(http.StatusOK, model.ChatResponse{Response: text})
}

// Me handles GET /api/me.
func (h *Handler) Me(c *gin.Context) {
	u, err := repo.EnsureUser(c.Request.Context(), h.repo)
	if err != nil {
		h.logger.Error("load current user failed", zap.Error(err))
		respondError(c, http.StatusInternalServerError, fmt.Errorf("load user: %w", err))
		return
	}
	c.JSON(http.StatusOK, u)
}

// Healthcheck handles GET /healthcheck.
func (h *Handler) Healthcheck(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}
