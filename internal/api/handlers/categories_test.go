package handlers

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/asimsek-dev/quillpad/internal/api/middleware"
	"github.com/asimsek-dev/quillpad/internal/utils"
)

// randomSlugArg matches the opaque slug private resources receive.
type randomSlugArg struct{}

func (randomSlugArg) Match(v driver.Value) bool {
	s, ok := v.(string)
	if !ok || len(s) != utils.RandomPathLength {
		return false
	}
	for _, c := range s {
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		default:
			return false
		}
	}
	return true
}

func TestCreateCategory(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO "categories"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
	mock.ExpectCommit()

	body, _ := json.Marshal(map[string]string{"category": "Go Notes"})
	req := httptest.NewRequest(http.MethodPost, "/new/category", bytes.NewReader(body))
	authedRequest(t, req, 7, "amy")
	resp := httptest.NewRecorder()

	middleware.RequireAuth(http.HandlerFunc(CreateCategory)).ServeHTTP(resp, req)

	mustStatus(t, resp.Code, http.StatusOK)
	if !strings.Contains(resp.Body.String(), "Category has been added!") {
		t.Fatalf("unexpected body: %s", resp.Body.String())
	}
	mustExpectations(t, mock)
}

func TestUpdateCategoryPrivateGetsRandomSlug(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "categories" WHERE slug = .+ AND user_id = .+`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "category", "slug", "user_id"}).
			AddRow(3, "Go Notes", "go-notes", 7))
	mock.ExpectExec(`UPDATE "categories" SET`).
		WithArgs("Go Notes", true, true, randomSlugArg{}, 3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT \* FROM "post_categories" WHERE category_id = .+`).
		WillReturnRows(sqlmock.NewRows([]string{"post_id", "category_id"}))
	mock.ExpectCommit()

	body, _ := json.Marshal(map[string]any{
		"category":  "Go Notes",
		"isHidden":  true,
		"isPrivate": true,
	})
	mux := http.NewServeMux()
	mux.Handle("PUT /edit/{user}/category/{category}", middleware.RequireAuth(http.HandlerFunc(UpdateCategory)))

	req := httptest.NewRequest(http.MethodPut, "/edit/amy/category/go-notes", bytes.NewReader(body))
	authedRequest(t, req, 7, "amy")
	resp := httptest.NewRecorder()
	mux.ServeHTTP(resp, req)

	mustStatus(t, resp.Code, http.StatusOK)
	mustExpectations(t, mock)
}

func TestDeleteCategoryCascades(t *testing.T) {
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM "categories" WHERE slug = .+ AND user_id = .+`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "category", "slug", "user_id"}).
			AddRow(3, "Go Notes", "go-notes", 7))
	mock.ExpectQuery(`SELECT \* FROM "post_categories" WHERE category_id = .+`).
		WillReturnRows(sqlmock.NewRows([]string{"post_id", "category_id"}).
			AddRow(10, 3).
			AddRow(11, 3))
	mock.ExpectExec(`DELETE FROM "posts"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM "posts"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM "post_categories"`).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`DELETE FROM "categories"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	mux := http.NewServeMux()
	mux.Handle("DELETE /delete/categories/{category}", middleware.RequireAuth(http.HandlerFunc(DeleteCategory)))

	req := httptest.NewRequest(http.MethodDelete, "/delete/categories/go-notes", nil)
	authedRequest(t, req, 7, "amy")
	resp := httptest.NewRecorder()
	mux.ServeHTTP(resp, req)

	mustStatus(t, resp.Code, http.StatusOK)
	mustExpectations(t, mock)
}

func TestListPostsByCategoryRejectsBadIDs(t *testing.T) {
	_, cleanup := setupMockDB(t)
	defer cleanup()

	mux := http.NewServeMux()
	mux.Handle("GET /user/{user}/categories/category", middleware.OptionalAuth(http.HandlerFunc(ListPostsByCategory)))

	req := httptest.NewRequest(http.MethodGet, "/user/amy/categories/category?id=abc", nil)
	resp := httptest.NewRecorder()
	mux.ServeHTTP(resp, req)

	mustStatus(t, resp.Code, http.StatusBadRequest)
}
