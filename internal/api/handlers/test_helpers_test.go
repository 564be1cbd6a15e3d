package handlers

import (
	"net/http"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/asimsek-dev/quillpad/internal/repositories"
	"github.com/asimsek-dev/quillpad/internal/utils"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupMockDB swaps the package-global DB for a sqlmock-backed GORM
// connection and returns a cleanup that restores it.
func setupMockDB(t *testing.T) (sqlmock.Sqlmock, func()) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("gorm.Open: %v", err)
	}

	previousDB := repositories.DB
	repositories.DB = gormDB

	cleanup := func() {
		repositories.DB = previousDB
		_ = sqlDB.Close()
	}

	return mock, cleanup
}

// authedRequest attaches a freshly signed token for the given identity.
func authedRequest(t *testing.T, req *http.Request, userID uint, username string) {
	t.Helper()
	token, err := utils.CreateToken(userID, username)
	if err != nil {
		t.Fatalf("CreateToken: %v", err)
	}
	req.Header.Set("x-auth-token", token)
}

func mustStatus(t *testing.T, actual int, expected int) {
	t.Helper()
	if actual != expected {
		t.Fatalf("expected status %d, got %d", expected, actual)
	}
}

func mustExpectations(t *testing.T, mock sqlmock.Sqlmock) {
	t.Helper()
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("sql expectations: %v", err)
	}
}
