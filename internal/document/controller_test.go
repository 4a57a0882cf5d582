package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"labvault-api/internal/blob"
	"labvault-api/internal/logs"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func setupDocumentRouter(t *testing.T) (*gin.Engine, *DocumentService, *blob.MemoryStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	os.Setenv("JWT_SECRET", "test-secret")
	t.Cleanup(func() { os.Unsetenv("JWT_SECRET") })

	db := newTestDB(t)
	if err := db.AutoMigrate(&logs.SystemLog{}); err != nil {
		t.Fatalf("migrate logs: %v", err)
	}

	store := blob.NewMemoryStore()
	svc := &DocumentService{DB: db, Blobs: store, PutBackoff: -1}

	r := gin.New()
	RegisterRoutes(r, svc, &logs.LogService{DB: db})
	return r, svc, store
}

func authCookie(t *testing.T) *http.Cookie {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": float64(1),
		"role":    "researcher",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	s, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return &http.Cookie{Name: "access_token", Value: s}
}

func multipartUpload(t *testing.T, fields map[string]string, fileName string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field %s: %v", k, err)
		}
	}
	if fileName != "" {
		part, err := mw.CreateFormFile("file", fileName)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := part.Write(content); err != nil {
			t.Fatalf("write file part: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return body, mw.FormDataContentType()
}

func doMultipart(t *testing.T, r *gin.Engine, method, url string, fields map[string]string, fileName string, content []byte) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := multipartUpload(t, fields, fileName, content)
	req := httptest.NewRequest(method, url, body)
	req.Header.Set("Content-Type", contentType)
	req.AddCookie(authCookie(t))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func doGet(t *testing.T, r *gin.Engine, url string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, url, nil)
	req.AddCookie(authCookie(t))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func uploadTestDocument(t *testing.T, r *gin.Engine) DocumentVersion {
	t.Helper()
	w := doMultipart(t, r, http.MethodPost, "/api/documents", map[string]string{
		"title":      "RNA-seq counts",
		"project_id": "7",
	}, "counts.csv", countsV1)
	if w.Code != http.StatusCreated {
		t.Fatalf("upload: expected 201 got %d body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Data DocumentVersion `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return resp.Data
}

func TestDocumentController_Upload_201(t *testing.T) {
	r, _, _ := setupDocumentRouter(t)

	doc := uploadTestDocument(t, r)
	if doc.VersionNumber != 1 || !doc.IsLatest {
		t.Fatalf("unexpected root version: %+v", doc)
	}
}

func TestDocumentController_Upload_NoAuth_401(t *testing.T) {
	r, _, _ := setupDocumentRouter(t)

	body, contentType := multipartUpload(t, map[string]string{"title": "x", "project_id": "1"}, "a.csv", countsV1)
	req := httptest.NewRequest(http.MethodPost, "/api/documents", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", w.Code)
	}
}

func TestDocumentController_Upload_BadExtension_400(t *testing.T) {
	r, _, _ := setupDocumentRouter(t)

	w := doMultipart(t, r, http.MethodPost, "/api/documents", map[string]string{
		"title":      "malware",
		"project_id": "7",
	}, "run.exe", []byte{0x4d, 0x5a})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d body=%s", w.Code, w.Body.String())
	}
}

func TestDocumentController_Upload_MissingOwner_400(t *testing.T) {
	r, _, _ := setupDocumentRouter(t)

	w := doMultipart(t, r, http.MethodPost, "/api/documents", map[string]string{
		"title": "ownerless",
	}, "counts.csv", countsV1)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d body=%s", w.Code, w.Body.String())
	}
}

func TestDocumentController_BranchAndVersions(t *testing.T) {
	r, _, _ := setupDocumentRouter(t)
	doc := uploadTestDocument(t, r)

	w := doMultipart(t, r, http.MethodPost, fmt.Sprintf("/api/documents/%d/versions", doc.ID), map[string]string{
		"version_comment": "normalized counts",
	}, "counts.csv", countsV2)
	if w.Code != http.StatusCreated {
		t.Fatalf("branch: expected 201 got %d body=%s", w.Code, w.Body.String())
	}

	w = doGet(t, r, fmt.Sprintf("/api/documents/%d/versions", doc.ID))
	if w.Code != http.StatusOK {
		t.Fatalf("versions: expected 200 got %d", w.Code)
	}
	var resp struct {
		Data  []DocumentVersion `json:"data"`
		Count int               `json:"count"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Count != 2 || resp.Data[1].VersionComment == nil || *resp.Data[1].VersionComment != "normalized counts" {
		t.Fatalf("unexpected version list: %+v", resp)
	}
}

func TestDocumentController_Restore_201(t *testing.T) {
	r, _, _ := setupDocumentRouter(t)
	doc := uploadTestDocument(t, r)

	w := doMultipart(t, r, http.MethodPost, fmt.Sprintf("/api/documents/%d/versions", doc.ID), nil, "counts.csv", countsV2)
	if w.Code != http.StatusCreated {
		t.Fatalf("branch: %d", w.Code)
	}

	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/documents/%d/restore/1", doc.ID), nil)
	req.AddCookie(authCookie(t))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("restore: expected 201 got %d body=%s", w.Code, w.Body.String())
	}

	w = doGet(t, r, fmt.Sprintf("/api/documents/%d/download", doc.ID))
	if w.Code != http.StatusOK {
		t.Fatalf("download: expected 200 got %d", w.Code)
	}
	if !bytes.Equal(w.Body.Bytes(), countsV1) {
		t.Fatalf("restored download must return the original bytes")
	}
}

func TestDocumentController_GetLatest_Missing_404(t *testing.T) {
	r, _, _ := setupDocumentRouter(t)

	w := doGet(t, r, "/api/documents/9999")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", w.Code)
	}
}

func TestDocumentController_Preview_200(t *testing.T) {
	r, _, _ := setupDocumentRouter(t)
	doc := uploadTestDocument(t, r)

	w := doGet(t, r, fmt.Sprintf("/api/documents/%d/preview?rows=1", doc.ID))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}
	var resp struct {
		Data TabularPreview `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !resp.Data.Truncated || resp.Data.TotalRows != 2 {
		t.Fatalf("unexpected preview: %+v", resp.Data)
	}
}

func TestDocumentController_Delete_Cascade_200(t *testing.T) {
	r, _, store := setupDocumentRouter(t)
	doc := uploadTestDocument(t, r)

	req := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/api/documents/%d?cascade=true", doc.ID), nil)
	req.AddCookie(authCookie(t))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}
	if store.Len() != 0 {
		t.Fatalf("blob must be gone after cascade delete")
	}
}

func TestDocumentController_Delete_LatestWithoutCascade_400(t *testing.T) {
	r, _, _ := setupDocumentRouter(t)
	doc := uploadTestDocument(t, r)

	req := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/api/documents/%d?version_id=%d", doc.ID, doc.ID), nil)
	req.AddCookie(authCookie(t))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d body=%s", w.Code, w.Body.String())
	}
}
