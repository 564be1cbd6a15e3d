package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/asimsek-dev/quillpad/internal/api/middleware"
)

func TestSendMessage(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT "id" FROM "users" WHERE username = .+`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(9))
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "messages"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(100))
	mock.ExpectCommit()

	body, _ := json.Marshal(map[string]string{"message": "hey there", "slug": "bob"})
	req := httptest.NewRequest(http.MethodPost, "/new/message", bytes.NewReader(body))
	authedRequest(t, req, 7, "amy")
	resp := httptest.NewRecorder()

	middleware.RequireAuth(http.HandlerFunc(SendMessage)).ServeHTTP(resp, req)

	mustStatus(t, resp.Code, http.StatusOK)
	mustExpectations(t, mock)
}

func TestSendMessageUnknownReceiver(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT "id" FROM "users" WHERE username = .+`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	body, _ := json.Marshal(map[string]string{"message": "hey there", "slug": "ghost"})
	req := httptest.NewRequest(http.MethodPost, "/new/message", bytes.NewReader(body))
	authedRequest(t, req, 7, "amy")
	resp := httptest.NewRecorder()

	middleware.RequireAuth(http.HandlerFunc(SendMessage)).ServeHTTP(resp, req)

	mustStatus(t, resp.Code, http.StatusNotFound)
	mustExpectations(t, mock)
}

func TestInboxCollectsUnseenSenderIDs(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	rows := sqlmock.NewRows([]string{
		"id", "sender", "sender_slug", "sender_img", "sender_id",
		"receiver", "receiver_slug", "receiver_img", "receiver_id",
		"isSeen", "readingTime",
	}).
		AddRow(1, "Bob", "bob", nil, 9, "Amy", "amy", nil, 7, false, 1).
		AddRow(2, "Amy", "amy", nil, 7, "Bob", "bob", nil, 9, false, 1).
		AddRow(3, "Cem", "cem", nil, 11, "Amy", "amy", nil, 7, true, 1)
	mock.ExpectQuery(`SELECT messages\.id, .+ FROM "messages" INNER JOIN users AS sender_user`).
		WillReturnRows(rows)

	req := httptest.NewRequest(http.MethodGet, "/admin/messages", nil)
	authedRequest(t, req, 7, "amy")
	resp := httptest.NewRecorder()

	middleware.RequireAuth(http.HandlerFunc(Inbox)).ServeHTTP(resp, req)

	mustStatus(t, resp.Code, http.StatusOK)

	var payload struct {
		Messages  []map[string]any `json:"messages"`
		SenderIDs []uint           `json:"senderIds"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("json.Unmarshal: %v", err)
	}
	if len(payload.Messages) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(payload.Messages))
	}
	// Only the unseen incoming message counts; outgoing and seen ones do not.
	if len(payload.SenderIDs) != 1 || payload.SenderIDs[0] != 9 {
		t.Fatalf("expected senderIds [9], got %v", payload.SenderIDs)
	}
	mustExpectations(t, mock)
}

func TestGetMessageMarksSeenForReceiver(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT messages\.id, messages\.message, .+ FROM "messages" INNER JOIN users AS sender_user`).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "message", "sent_at", "isSeen", "sender", "receiver", "sender_id", "receiver_id",
		}).AddRow(5, "hello", time.Now(), false, "Bob", "Amy", 9, 7))
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "messages" SET "isSeen"`).
		WithArgs(true, 5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	mux := http.NewServeMux()
	mux.Handle("GET /admin/messages/{messageId}", middleware.RequireAuth(http.HandlerFunc(GetMessage)))

	req := httptest.NewRequest(http.MethodGet, "/admin/messages/5", nil)
	authedRequest(t, req, 7, "amy")
	resp := httptest.NewRecorder()
	mux.ServeHTTP(resp, req)

	mustStatus(t, resp.Code, http.StatusOK)

	var row map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &row); err != nil {
		t.Fatalf("json.Unmarshal: %v", err)
	}
	if seen, _ := row["isSeen"].(bool); !seen {
		t.Fatal("expected isSeen to be flipped in the response")
	}
	mustExpectations(t, mock)
}

func TestGetMessageRejectsBadID(t *testing.T) {
	_, cleanup := setupMockDB(t)
	defer cleanup()

	mux := http.NewServeMux()
	mux.Handle("GET /admin/messages/{messageId}", middleware.RequireAuth(http.HandlerFunc(GetMessage)))

	req := httptest.NewRequest(http.MethodGet, "/admin/messages/abc", nil)
	authedRequest(t, req, 7, "amy")
	resp := httptest.NewRecorder()
	mux.ServeHTTP(resp, req)

	mustStatus(t, resp.Code, http.StatusBadRequest)
}
