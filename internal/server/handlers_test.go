package server

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/formdrop/formdrop/internal/transport"
)

func newTestServer(t *testing.T) (*Server, string) {
	t.Helper()
	dir := t.TempDir()
	srv, err := New(&Config{StoreDir: dir})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return srv, dir
}

// buildForm assembles a multipart body with the given fields and files
func buildForm(t *testing.T, fields map[string]string, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for key, value := range fields {
		if err := w.WriteField(key, value); err != nil {
			t.Fatalf("WriteField: %v", err)
		}
	}
	for name, content := range files {
		part, err := w.CreateFormFile("file", name)
		if err != nil {
			t.Fatalf("CreateFormFile: %v", err)
		}
		if _, err := part.Write([]byte(content)); err != nil {
			t.Fatalf("write part: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, w.FormDataContentType()
}

func TestHandleUploadStoresFiles(t *testing.T) {
	srv, dir := newTestServer(t)
	go srv.hub.Run()
	defer srv.hub.Stop()

	body, contentType := buildForm(t,
		map[string]string{transport.CorrelationField: "corr-1", "album": "holiday"},
		map[string]string{"photo.jpg": "jpeg-bytes", "notes.txt": "hello"},
	)

	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set(transport.CorrelationHeader, "corr-1")
	rec := httptest.NewRecorder()

	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp UploadResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	if resp.Status != "ok" {
		t.Errorf("status = %q, want ok", resp.Status)
	}
	if resp.ID != "corr-1" {
		t.Errorf("id = %q, want corr-1", resp.ID)
	}
	if len(resp.Files) != 2 {
		t.Fatalf("files = %v, want 2 entries", resp.Files)
	}

	// Every reported file exists on disk with the reported size
	for _, f := range resp.Files {
		info, err := os.Stat(filepath.Join(dir, f.Name))
		if err != nil {
			t.Errorf("stored file %s missing: %v", f.Name, err)
			continue
		}
		if info.Size() != f.Size {
			t.Errorf("stored size = %d, reported %d", info.Size(), f.Size)
		}
		// Token prefix keeps the original name visible
		if !strings.Contains(f.Name, "photo.jpg") && !strings.Contains(f.Name, "notes.txt") {
			t.Errorf("stored name %q should contain the client filename", f.Name)
		}
	}
}

func TestHandleUploadCorrelationFromFormField(t *testing.T) {
	srv, _ := newTestServer(t)
	go srv.hub.Run()
	defer srv.hub.Stop()

	body, contentType := buildForm(t,
		map[string]string{transport.CorrelationField: "corr-field"},
		map[string]string{"a.bin": "x"},
	)

	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	var resp UploadResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	if resp.ID != "corr-field" {
		t.Errorf("id = %q, want corr-field", resp.ID)
	}
}

func TestHandleUploadRejections(t *testing.T) {
	srv, _ := newTestServer(t)
	go srv.hub.Run()
	defer srv.hub.Stop()

	emptyForm, emptyType := buildForm(t, map[string]string{"just": "fields"}, nil)

	tests := []struct {
		name        string
		method      string
		contentType string
		body        *bytes.Buffer
		wantStatus  int
	}{
		{
			name:        "wrong method",
			method:      http.MethodGet,
			contentType: "",
			body:        &bytes.Buffer{},
			wantStatus:  http.StatusMethodNotAllowed,
		},
		{
			name:        "wrong content type",
			method:      http.MethodPost,
			contentType: "application/json",
			body:        bytes.NewBufferString("{}"),
			wantStatus:  http.StatusUnsupportedMediaType,
		},
		{
			name:        "no file parts",
			method:      http.MethodPost,
			contentType: emptyType,
			body:        emptyForm,
			wantStatus:  http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/upload", tt.body)
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			rec := httptest.NewRecorder()
			srv.Handler().ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body: %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}

			var resp ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("error response is not JSON: %v", err)
			}
			if resp.Status != "error" || resp.Error == "" {
				t.Errorf("error response = %+v", resp)
			}
		})
	}
}

func TestHandleUploadSizeLimit(t *testing.T) {
	dir := t.TempDir()
	srv, err := New(&Config{StoreDir: dir, MaxUploadBytes: 512})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	go srv.hub.Run()
	defer srv.hub.Stop()

	big := strings.Repeat("x", 4096)
	body, contentType := buildForm(t, nil, map[string]string{"big.bin": big})

	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusRequestEntityTooLarge)
	}
}

func TestHandleHealthz(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "ok") {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "photo.jpg", "photo.jpg"},
		{"unix path", "/etc/passwd", "passwd"},
		{"windows path", `C:\Users\me\photo.jpg`, "photo.jpg"},
		{"traversal", "../../secret", "secret"},
		{"dots only", "..", "upload.bin"},
		{"empty", "", "upload.bin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sanitizeFilename(tt.in); got != tt.want {
				t.Errorf("sanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNewValidation(t *testing.T) {
	if _, err := New(&Config{}); err == nil {
		t.Error("New() should require a storage directory")
	}
	if _, err := New(&Config{StoreDir: t.TempDir(), CertPath: "cert.pem"}); err == nil {
		t.Error("New() should require cert and key together")
	}
}
