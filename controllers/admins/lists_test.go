package admins

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Ragib100/LocalFix/database"
	"github.com/Ragib100/LocalFix/utils"

	"github.com/DATA-DOG/go-sqlmock"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var errStoreDown = errors.New("driver: bad connection")

// mockDB swaps the shared connection for a sqlmock-backed one so handler
// tests can script store failures. The returned func restores the original.
func mockDB(t *testing.T) (sqlmock.Sqlmock, func()) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	gdb, err := gorm.Open(gormmysql.New(gormmysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open gorm: %v", err)
	}
	prev := database.DB
	database.DB = gdb
	return mock, func() {
		database.DB = prev
		sqlDB.Close()
	}
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) utils.APIResponse {
	t.Helper()
	var resp utils.APIResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp
}

func TestGetWithdrawalsHandler_PageFetchFailure(t *testing.T) {
	mock, restore := mockDB(t)
	defer restore()

	// count succeeds, the page fetch itself fails
	mock.ExpectQuery("SELECT count").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery("SELECT withdrawals").WillReturnError(errStoreDown)

	rec := httptest.NewRecorder()
	GetWithdrawalsHandler(rec, httptest.NewRequest(http.MethodGet, "/admin/withdrawals", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status %d, want 500", rec.Code)
	}
	if resp := decodeResponse(t, rec); resp.Success {
		t.Fatal("success=true on store failure")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestGetPendingProofsHandler_PageFetchFailure(t *testing.T) {
	mock, restore := mockDB(t)
	defer restore()

	mock.ExpectQuery("SELECT count").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery("SELECT proofs").WillReturnError(errStoreDown)

	rec := httptest.NewRecorder()
	GetPendingProofsHandler(rec, httptest.NewRequest(http.MethodGet, "/admin/proofs", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status %d, want 500", rec.Code)
	}
	if resp := decodeResponse(t, rec); resp.Success {
		t.Fatal("success=true on store failure")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
