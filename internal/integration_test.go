package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"trait-attendance-backend/config"
	"trait-attendance-backend/internal/api"
	"trait-attendance-backend/internal/engine"
	"trait-attendance-backend/internal/model"
	"trait-attendance-backend/internal/resolve"
	"trait-attendance-backend/internal/store"
	"trait-attendance-backend/internal/whatsapp"
)

// sentMessage captures one outbound Graph API text message.
type sentMessage struct {
	To   string
	Body string
}

// setupTest wires a full router against an in-memory SQLite database and a
// mock Graph API server, and returns a probe into the messages sent to it.
func setupTest(t *testing.T) (*gorm.DB, http.Handler, *[]sentMessage) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	testDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	err = testDB.AutoMigrate(
		&model.Member{},
		&model.RFIDCard{},
		&model.AttendanceEvent{},
		&model.CenterInfo{},
		&model.Guest{},
		&model.Project{},
		&model.PushSubscription{},
	)
	require.NoError(t, err)

	sent := &[]sentMessage{}
	graphServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			To   string `json:"to"`
			Text struct {
				Body string `json:"body"`
			} `json:"text"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		*sent = append(*sent, sentMessage{To: payload.To, Body: payload.Text.Body})
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(graphServer.Close)

	cfg := &config.Config{}
	cfg.Server.RateLimitPerSec = 1000
	cfg.Server.RateLimitBurst = 1000
	cfg.Server.CacheTTLSeconds = 60
	cfg.Server.DedupTTLSeconds = 600
	cfg.Resolver.Threshold = 80
	cfg.WhatsApp.GraphURL = graphServer.URL
	cfg.WhatsApp.PhoneNumberID = "123456"
	cfg.WhatsApp.VerifyToken = "trait-verify"

	gormStore := store.NewGormStore(testDB)
	eng := engine.New(gormStore, resolve.New(cfg.Resolver.Threshold), nil)
	router := api.NewRouter(gormStore, eng, cfg, nil, whatsapp.NewClient(cfg.WhatsApp))

	return testDB, router, sent
}

func postJSON(t *testing.T, router http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func commandReply(t *testing.T, router http.Handler, text string) string {
	t.Helper()
	w := postJSON(t, router, "/api/command", map[string]string{"text": text})
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Reply string `json:"reply"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Reply
}

// TestAttendanceLifecycle walks a roster through commands and card scans over
// the HTTP API and verifies both the replies and the persisted event log.
func TestAttendanceLifecycle(t *testing.T) {
	testDB, router, _ := setupTest(t)
	gormStore := store.NewGormStore(testDB)
	ctx := context.Background()

	require.NoError(t, gormStore.UpsertMember(ctx, "ravi", "1234567890", "robotics"))
	require.NoError(t, gormStore.UpsertMember(ctx, "sara", "0987654321", "design"))

	t.Run("marking and idempotence", func(t *testing.T) {
		assert.Equal(t, "Ravi is marked present and is now inside.",
			commandReply(t, router, "mark ravi present"))
		assert.Equal(t, "Ravi is already inside.",
			commandReply(t, router, "mark ravi present"))

		var eventCount int64
		testDB.Model(&model.AttendanceEvent{}).Count(&eventCount)
		assert.EqualValues(t, 1, eventCount, "the repeated mark must not append an event")
	})

	t.Run("queries reflect the log", func(t *testing.T) {
		assert.Equal(t, "Present today: Ravi.", commandReply(t, router, "who is present"))
		assert.Equal(t, "Absent today: Sara.", commandReply(t, router, "who is absent"))
		assert.Equal(t, "Ravi is inside.", commandReply(t, router, "where is ravi"))
	})

	t.Run("card scans share the same log", func(t *testing.T) {
		w := postJSON(t, router, "/api/card-scan", map[string]string{
			"card_id":   "1234567890",
			"direction": "OUT",
			"reason":    "lab visit",
		})
		require.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			Reply string `json:"reply"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "Ravi is marked absent and is now outside. Reason: lab visit.", resp.Reply)

		// The voice path sees the card-driven transition.
		assert.Equal(t, "Ravi is outside. Reason: lab visit.",
			commandReply(t, router, "where is ravi"))
	})

	t.Run("unknown card is reported", func(t *testing.T) {
		w := postJSON(t, router, "/api/card-scan", map[string]string{
			"card_id":   "0000000000",
			"direction": "IN",
		})
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Unknown card: 0000000000.")
	})

	t.Run("invalid direction is rejected", func(t *testing.T) {
		w := postJSON(t, router, "/api/card-scan", map[string]string{
			"card_id":   "1234567890",
			"direction": "SIDEWAYS",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

// TestMemberProvisioning exercises the roster endpoints end to end.
func TestMemberProvisioning(t *testing.T) {
	_, router, _ := setupTest(t)

	w := postJSON(t, router, "/api/members", map[string]string{
		"name":    "Ravi",
		"card_id": "1234567890",
		"program": "robotics",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(t, router, "/api/members", map[string]string{"name": "", "card_id": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/members", nil)
	list := httptest.NewRecorder()
	router.ServeHTTP(list, req)
	require.Equal(t, http.StatusOK, list.Code)
	assert.Contains(t, list.Body.String(), "ravi")
}

// TestWebhookVerification covers the Graph API subscription handshake.
func TestWebhookVerification(t *testing.T) {
	_, router, _ := setupTest(t)

	req := httptest.NewRequest(http.MethodGet,
		"/webhook?hub.mode=subscribe&hub.verify_token=trait-verify&hub.challenge=4242", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "4242", w.Body.String())

	req = httptest.NewRequest(http.MethodGet,
		"/webhook?hub.mode=subscribe&hub.verify_token=wrong&hub.challenge=4242", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

// webhookEnvelope builds a minimal Graph API delivery with one text message.
func webhookEnvelope(id, from, body string) map[string]any {
	return map[string]any{
		"entry": []map[string]any{{
			"changes": []map[string]any{{
				"value": map[string]any{
					"messages": []map[string]any{{
						"id":   id,
						"from": from,
						"text": map[string]any{"body": body},
					}},
				},
			}},
		}},
	}
}

// TestWebhookMessageFlow drives a WhatsApp text through the webhook and
// asserts the interpreted reply goes back out through the Graph API.
func TestWebhookMessageFlow(t *testing.T) {
	testDB, router, sent := setupTest(t)
	gormStore := store.NewGormStore(testDB)
	require.NoError(t, gormStore.UpsertMember(context.Background(), "ravi", "1234567890", ""))

	w := postJSON(t, router, "/webhook", webhookEnvelope("wamid.1", "15550001111", "mark ravi present"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "EVENT_RECEIVED", w.Body.String())

	require.Len(t, *sent, 1)
	assert.Equal(t, "15550001111", (*sent)[0].To)
	assert.Equal(t, "Ravi is marked present and is now inside.", (*sent)[0].Body)

	// Meta redelivers the same message id; the duplicate must not re-run the
	// command or send another reply.
	w = postJSON(t, router, "/webhook", webhookEnvelope("wamid.1", "15550001111", "mark ravi present"))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, *sent, 1)

	// A fresh message id goes through.
	w = postJSON(t, router, "/webhook", webhookEnvelope("wamid.2", "15550001111", "where is ravi"))
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, *sent, 2)
	assert.Equal(t, "Ravi is inside.", (*sent)[1].Body)

	// Undecodable payloads are acked so Meta stops retrying.
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader("not json"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
