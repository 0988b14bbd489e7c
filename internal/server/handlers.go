package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/formdrop/formdrop/internal/logging"
	"github.com/formdrop/formdrop/internal/transport"
	"go.uber.org/zap"
)

// StoredFile describes one stored upload in the response payload
type StoredFile struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// UploadResponse is the JSON payload returned for an accepted submission
type UploadResponse struct {
	Status string       `json:"status"`
	ID     string       `json:"id,omitempty"`
	Files  []StoredFile `json:"files,omitempty"`
}

// ErrorResponse is the JSON payload returned for a rejected request
type ErrorResponse struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

// handleUpload accepts one multipart form submission, stores every file
// part, and answers with a JSON payload keyed by the submission's
// correlation identifier.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, r, http.StatusMethodNotAllowed, "only POST is accepted")
		return
	}

	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "multipart/form-data" {
		s.writeError(w, r, http.StatusUnsupportedMediaType, "expected multipart/form-data")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			s.writeError(w, r, http.StatusRequestEntityTooLarge, "upload exceeds size limit")
			return
		}
		s.writeError(w, r, http.StatusBadRequest, fmt.Sprintf("malformed form: %v", err))
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	correlationID := r.Header.Get(transport.CorrelationHeader)
	if correlationID == "" {
		correlationID = r.FormValue(transport.CorrelationField)
	}

	var stored []StoredFile
	for _, headers := range r.MultipartForm.File {
		for _, fh := range headers {
			file, err := s.storeFile(fh)
			if err != nil {
				logging.Error("Failed to store upload",
					zap.String("remote_addr", r.RemoteAddr),
					zap.String("file", fh.Filename),
					zap.Error(err),
				)
				s.writeError(w, r, http.StatusInternalServerError, "failed to store upload")
				return
			}
			stored = append(stored, file)
			logging.LogUploadReceived(r.RemoteAddr, correlationID, file.Name, file.Size)
		}
	}

	if len(stored) == 0 {
		s.writeError(w, r, http.StatusBadRequest, "no file parts in form")
		return
	}

	// Form values other than the correlation id ride along as event fields
	fields := map[string]string{}
	for key, values := range r.MultipartForm.Value {
		if key == transport.CorrelationField {
			continue
		}
		fields[key] = values[0]
	}

	s.hub.Broadcast(UploadEvent{
		CorrelationID: correlationID,
		RemoteAddr:    r.RemoteAddr,
		Files:         stored,
		Fields:        fields,
		ReceivedAt:    time.Now().UTC(),
	})

	s.writeJSON(w, r, http.StatusOK, UploadResponse{
		Status: "ok",
		ID:     correlationID,
		Files:  stored,
	})
}

// storeFile writes one file part into the storage directory. The stored
// name is the sanitized client filename behind a short unique token, so
// concurrent uploads of the same name never collide.
func (s *Server) storeFile(fh *multipart.FileHeader) (StoredFile, error) {
	src, err := fh.Open()
	if err != nil {
		return StoredFile{}, fmt.Errorf("failed to open file part: %w", err)
	}
	defer func() { _ = src.Close() }()

	name := sanitizeFilename(fh.Filename)
	token := uuid.NewString()[:8]
	path := filepath.Join(s.config.StoreDir, token+"_"+name)

	dst, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0640)
	if err != nil {
		return StoredFile{}, fmt.Errorf("failed to create %s: %w", path, err)
	}

	size, err := io.Copy(dst, src)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return StoredFile{}, fmt.Errorf("failed to write %s: %w", path, err)
	}

	return StoredFile{Name: filepath.Base(path), Size: size}, nil
}

// sanitizeFilename strips any path components from a client-supplied
// filename and falls back to a neutral name when nothing usable remains
func sanitizeFilename(name string) string {
	// Client may be on a different OS; strip both separator styles
	name = strings.ReplaceAll(name, `\`, "/")
	name = filepath.Base(name)
	name = strings.Trim(name, ". ")
	if name == "" || name == "/" {
		return "upload.bin"
	}
	return name
}

// handleHealthz reports liveness
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.Error("Failed to encode response",
			zap.String("remote_addr", r.RemoteAddr),
			zap.Error(err),
		)
	}
	logging.LogHTTPResponse(r.RemoteAddr, status, map[string]string{"Content-Type": "application/json"})
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	logging.Warn("Rejected request",
		zap.String("remote_addr", r.RemoteAddr),
		zap.String("path", r.URL.Path),
		zap.Int("status", status),
		zap.String("reason", message),
	)
	s.writeJSON(w, r, status, ErrorResponse{Status: "error", Error: message})
}
