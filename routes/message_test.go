package routes

import (
	"fmt"
	"net/http"
	"testing"
)

func TestCreateMessage(t *testing.T) {
	db := newTestDB(t)
	app := buildTestApp(t)

	sender := mustCreateUser(t, db, "a@example.com", "guest")
	recipient := mustCreateUser(t, db, "b@example.com", "host")

	token := signTestToken(sender.ID, "guest")
	resp := doJSON(app, http.MethodPost, "/api/message", token, map[string]interface{}{
		"recipientID": recipient.ID,
		"body":        "Is the riad free next weekend?",
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}

	// Unknown recipient
	resp2 := doJSON(app, http.MethodPost, "/api/message", token, map[string]interface{}{
		"recipientID": 999,
		"body":        "hello?",
	})
	if resp2.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing recipient, got %d", resp2.Code)
	}

	// Messaging yourself is allowed
	resp3 := doJSON(app, http.MethodPost, "/api/message", token, map[string]interface{}{
		"recipientID": sender.ID,
		"body":        "note to self",
	})
	if resp3.Code != http.StatusCreated {
		t.Fatalf("expected 201 for self-message, got %d", resp3.Code)
	}
}

func TestGetConversationPagination(t *testing.T) {
	db := newTestDB(t)
	app := buildTestApp(t)

	a := mustCreateUser(t, db, "a@example.com", "guest")
	b := mustCreateUser(t, db, "b@example.com", "host")

	token := signTestToken(a.ID, "guest")
	for i := 0; i < 5; i++ {
		from := token
		recipient := b.ID
		if i%2 == 1 {
			from = signTestToken(b.ID, "host")
			recipient = a.ID
		}
		resp := doJSON(app, http.MethodPost, "/api/message", from, map[string]interface{}{
			"recipientID": recipient,
			"body":        fmt.Sprintf("message %d", i),
		})
		if resp.Code != http.StatusCreated {
			t.Fatalf("seed message %d: got %d", i, resp.Code)
		}
	}

	resp := doJSON(app, http.MethodGet, "/api/message/with/2?limit=3", token, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	body := decodeBody(t, resp)
	data := body["data"].([]interface{})
	if len(data) != 3 {
		t.Fatalf("expected 3 messages on first page, got %d", len(data))
	}
	cursor := body["meta"].(map[string]interface{})["nextCursor"].(float64)
	if cursor == 0 {
		t.Fatalf("expected a next cursor")
	}

	resp2 := doJSON(app, http.MethodGet,
		fmt.Sprintf("/api/message/with/2?limit=3&cursor=%d", int(cursor)), token, nil)
	body2 := decodeBody(t, resp2)
	data2 := body2["data"].([]interface{})
	if len(data2) != 2 {
		t.Fatalf("expected 2 messages on second page, got %d", len(data2))
	}
	if cursor2 := body2["meta"].(map[string]interface{})["nextCursor"].(float64); cursor2 != 0 {
		t.Fatalf("expected no cursor on final page, got %v", cursor2)
	}
}

func TestGetConversationExactPageHasNoCursor(t *testing.T) {
	db := newTestDB(t)
	app := buildTestApp(t)

	a := mustCreateUser(t, db, "a@example.com", "guest")
	b := mustCreateUser(t, db, "b@example.com", "host")

	token := signTestToken(a.ID, "guest")
	for i := 0; i < 3; i++ {
		resp := doJSON(app, http.MethodPost, "/api/message", token, map[string]interface{}{
			"recipientID": b.ID,
			"body":        fmt.Sprintf("message %d", i),
		})
		if resp.Code != http.StatusCreated {
			t.Fatalf("seed message %d: got %d", i, resp.Code)
		}
	}

	resp := doJSON(app, http.MethodGet, "/api/message/with/2?limit=3", token, nil)
	body := decodeBody(t, resp)
	if got := len(body["data"].([]interface{})); got != 3 {
		t.Fatalf("expected 3 messages, got %d", got)
	}
	if cursor := body["meta"].(map[string]interface{})["nextCursor"].(float64); cursor != 0 {
		t.Fatalf("conversation fits one page, expected no cursor, got %v", cursor)
	}
}
