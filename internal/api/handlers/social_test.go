package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/asimsek-dev/quillpad/internal/api/middleware"
)

func TestFollow(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "followers"`).
		WithArgs(7, 9).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	body, _ := json.Marshal(map[string]uint{"userId": 9})
	req := httptest.NewRequest(http.MethodPost, "/follow", bytes.NewReader(body))
	authedRequest(t, req, 7, "amy")
	resp := httptest.NewRecorder()

	middleware.RequireAuth(http.HandlerFunc(Follow)).ServeHTTP(resp, req)

	mustStatus(t, resp.Code, http.StatusOK)
	mustExpectations(t, mock)
}

func TestFollowRejectsMissingTarget(t *testing.T) {
	_, cleanup := setupMockDB(t)
	defer cleanup()

	req := httptest.NewRequest(http.MethodPost, "/follow", strings.NewReader(`{}`))
	authedRequest(t, req, 7, "amy")
	resp := httptest.NewRecorder()

	middleware.RequireAuth(http.HandlerFunc(Follow)).ServeHTTP(resp, req)

	mustStatus(t, resp.Code, http.StatusBadRequest)
}

func TestStar(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO "stars"`).
		WithArgs(42, 7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	body, _ := json.Marshal(map[string]uint{"postId": 42})
	req := httptest.NewRequest(http.MethodPost, "/mark-as-starred", bytes.NewReader(body))
	authedRequest(t, req, 7, "amy")
	resp := httptest.NewRecorder()

	middleware.RequireAuth(http.HandlerFunc(Star)).ServeHTTP(resp, req)

	mustStatus(t, resp.Code, http.StatusOK)
	mustExpectations(t, mock)
}

func TestListFollowsEmpty(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT "id","username" FROM "users" WHERE username = .+`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username"}).AddRow(7, "amy"))
	mock.ExpectQuery(`SELECT users\.name AS following_name FROM "followers"`).
		WillReturnRows(sqlmock.NewRows([]string{"following_name"}))

	mux := http.NewServeMux()
	mux.Handle("GET /user/{user}/follows", http.HandlerFunc(ListFollows))

	req := httptest.NewRequest(http.MethodGet, "/user/amy/follows", nil)
	resp := httptest.NewRecorder()
	mux.ServeHTTP(resp, req)

	mustStatus(t, resp.Code, http.StatusNotFound)
	if !strings.Contains(resp.Body.String(), "This user has no friends yet.") {
		t.Fatalf("unexpected body: %s", resp.Body.String())
	}
	mustExpectations(t, mock)
}

func TestListStarredReportsPostAuthor(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT posts\.header, .+ FROM "stars" INNER JOIN posts`).
		WithArgs("amy").
		WillReturnRows(sqlmock.NewRows([]string{"header", "readingTime", "author"}).
			AddRow("Hello World", 2, "Bob"))

	mux := http.NewServeMux()
	mux.Handle("GET /user/{user}/starreds", http.HandlerFunc(ListStarred))

	req := httptest.NewRequest(http.MethodGet, "/user/amy/starreds", nil)
	resp := httptest.NewRecorder()
	mux.ServeHTTP(resp, req)

	mustStatus(t, resp.Code, http.StatusOK)

	var starred []map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &starred); err != nil {
		t.Fatalf("json.Unmarshal: %v", err)
	}
	if len(starred) != 1 || starred[0]["author"] != "Bob" {
		t.Fatalf("expected the post author, got %v", starred)
	}
	mustExpectations(t, mock)
}
