package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"trait-attendance-backend/internal/engine"
)

type commandRequest struct {
	Text string `json:"text" binding:"required"`
}

// PostCommand handles POST /api/command: one utterance in, one reply out.
// This is the transport used by the CLI and voice loops.
func (h *Handler) PostCommand(c *gin.Context) {
	var req commandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	reply := h.engine.HandleUtterance(c.Request.Context(), req.Text)
	c.JSON(http.StatusOK, gin.H{"reply": reply})
}

type cardScanRequest struct {
	CardID    string `json:"card_id" binding:"required"`
	Direction string `json:"direction" binding:"required"`
	Reason    string `json:"reason"`
}

// PostCardScan handles POST /api/card-scan, the RFID reader entry point.
func (h *Handler) PostCardScan(c *gin.Context) {
	var req cardScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	direction := engine.Direction(strings.ToUpper(strings.TrimSpace(req.Direction)))
	if direction != engine.DirectionIn && direction != engine.DirectionOut {
		c.JSON(http.StatusBadRequest, gin.H{"error": "direction must be IN or OUT"})
		return
	}

	reply := h.engine.HandleCardEvent(c.Request.Context(), req.CardID, direction, req.Reason)
	c.JSON(http.StatusOK, gin.H{"reply": reply})
}
