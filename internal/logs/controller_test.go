package logs

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type assertErr string

func (e assertErr) Error() string { return string(e) }

func TestLogController_GetLogs_BindError_400(t *testing.T) {
	gin.SetMode(gin.TestMode)

	lc := &LogController{LogService: &LogService{DB: &gorm.DB{}}} // DB unused, bind fails first
	r := gin.New()
	r.POST("/logs", lc.GetLogs)

	req := httptest.NewRequest(http.MethodPost, "/logs", bytes.NewBufferString(`{bad json`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d body=%s", w.Code, w.Body.String())
	}
}

func TestLogController_GetLogs_ServiceError_500(t *testing.T) {
	gin.SetMode(gin.TestMode)

	db, mock, cleanup := newMockGorm(t)
	defer cleanup()

	lc := &LogController{LogService: &LogService{DB: db}}

	mock.ExpectQuery(`SELECT count\(\*\)`).
		WillReturnError(assertErr("boom"))

	r := gin.New()
	r.POST("/logs", lc.GetLogs)

	req := httptest.NewRequest(http.MethodPost, "/logs", bytes.NewBufferString(`{"page":1,"page_size":10}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d body=%s", w.Code, w.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestLogController_GetLogs_OK_200(t *testing.T) {
	gin.SetMode(gin.TestMode)

	db, mock, cleanup := newMockGorm(t)
	defer cleanup()

	lc := &LogController{LogService: &LogService{DB: db}}

	mock.ExpectQuery(`SELECT count\(\*\)`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`SELECT logs\.\*, u\.firstname as firstname`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery(`x\.service AS label`).
		WillReturnRows(sqlmock.NewRows([]string{"label", "count"}))
	mock.ExpectQuery(`COALESCE\(NULLIF\(TRIM\(x\.document\)`).
		WillReturnRows(sqlmock.NewRows([]string{"label", "count"}))

	r := gin.New()
	r.POST("/logs", lc.GetLogs)

	req := httptest.NewRequest(http.MethodPost, "/logs", bytes.NewBufferString(`{"page":1,"page_size":10}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
