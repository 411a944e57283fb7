package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"trait-attendance-backend/internal/store"
)

type upsertMemberRequest struct {
	Name    string `json:"name"`
	CardID  string `json:"card_id"`
	Program string `json:"program"`
}

// PostMember provisions a member and their card binding. Validation failures
// are rejected before any write.
func (h *Handler) PostMember(c *gin.Context) {
	var req upsertMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.store.UpsertMember(c.Request.Context(), req.Name, req.CardID, req.Program); err != nil {
		if errors.Is(err, store.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save member"})
		return
	}
	c.Status(http.StatusCreated)
}

// memberResponse is the API shape of one roster member.
type memberResponse struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Program string `json:"program,omitempty"`
}

// GetMembers lists the active roster.
func (h *Handler) GetMembers(c *gin.Context) {
	members, err := h.store.ListActiveMembers(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to retrieve members"})
		return
	}

	responses := make([]memberResponse, 0, len(members))
	for _, m := range members {
		responses = append(responses, memberResponse{ID: m.ID, Name: m.Name, Program: m.Program})
	}
	c.JSON(http.StatusOK, responses)
}
