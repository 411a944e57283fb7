package api

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// webhookPayload is the subset of the Graph API webhook envelope we read.
type webhookPayload struct {
	Entry []struct {
		Changes []struct {
			Value struct {
				Messages []struct {
					ID   string `json:"id"`
					From string `json:"from"`
					Text *struct {
						Body string `json:"body"`
					} `json:"text"`
				} `json:"messages"`
			} `json:"value"`
		} `json:"changes"`
	} `json:"entry"`
}

// VerifyWebhook answers the Graph API subscription handshake.
func (h *Handler) VerifyWebhook(c *gin.Context) {
	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")

	if mode == "subscribe" && token != "" && token == h.cfg.WhatsApp.VerifyToken {
		c.String(http.StatusOK, challenge)
		return
	}
	c.String(http.StatusForbidden, "Verification failed")
}

// ReceiveWebhook handles inbound WhatsApp messages. It always acks with 200:
// Meta redelivers on any other status, and command failures already resolve
// to reply sentences. Non-message and non-text events are ignored.
func (h *Handler) ReceiveWebhook(c *gin.Context) {
	var payload webhookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		log.Printf("webhook: undecodable payload: %v", err)
		c.String(http.StatusOK, "EVENT_RECEIVED")
		return
	}

	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			for _, msg := range change.Value.Messages {
				if msg.Text == nil || msg.From == "" {
					continue
				}
				if h.dedup.Seen(msg.ID) {
					log.Printf("webhook: duplicate delivery of message %s dropped", msg.ID)
					continue
				}

				reply := h.engine.HandleUtterance(c.Request.Context(), msg.Text.Body)
				if err := h.whatsapp.Send(c.Request.Context(), msg.From, reply); err != nil {
					log.Printf("webhook: reply to %s failed: %v", msg.From, err)
				}
			}
		}
	}

	c.String(http.StatusOK, "EVENT_RECEIVED")
}
