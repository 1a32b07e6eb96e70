package api

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/dgallion1/contactcsv/internal/source"
	"github.com/dgallion1/contactcsv/internal/vcf"
)

// upload is one validated file from a multipart form.
type upload struct {
	filename string
	data     []byte
}

// readUpload validates and reads one multipart file header.
func (s *Server) readUpload(fh *multipart.FileHeader) (upload, int, error) {
	filename := sanitizeFilename(fh.Filename)
	if !source.IsSupportedExtension(filename) {
		return upload{}, http.StatusBadRequest, fmt.Errorf("unsupported file type: %s", filepath.Ext(filename))
	}

	f, err := fh.Open()
	if err != nil {
		return upload{}, http.StatusInternalServerError, fmt.Errorf("failed to open file")
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, s.cfg.MaxUploadBytes+1))
	if err != nil {
		return upload{}, http.StatusInternalServerError, fmt.Errorf("failed to read file")
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		return upload{}, http.StatusRequestEntityTooLarge, fmt.Errorf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes)
	}
	return upload{filename: filename, data: data}, http.StatusOK, nil
}

// parseSingleUpload parses the form and reads its "file" field.
func (s *Server) parseSingleUpload(w http.ResponseWriter, r *http.Request) (upload, vcf.Mode, bool) {
	// Limit total request size.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return upload{}, "", false
	}

	mode, err := s.resolveMode(r)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return upload{}, "", false
	}

	files := r.MultipartForm.File["file"]
	if len(files) == 0 {
		jsonError(w, "file is required", http.StatusBadRequest)
		return upload{}, "", false
	}
	up, code, err := s.readUpload(files[0])
	if err != nil {
		jsonError(w, err.Error(), code)
		return upload{}, "", false
	}
	return up, mode, true
}

// resolveMode reads the optional "mode" form or query value.
func (s *Server) resolveMode(r *http.Request) (vcf.Mode, error) {
	v := r.FormValue("mode")
	if v == "" {
		return s.cfg.DefaultMode, nil
	}
	return vcf.ParseMode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func writeCSV(w http.ResponseWriter, filename, body string) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{
		"filename": csvFilename(filename),
	}))
	io.WriteString(w, body)
}

// csvFilename swaps the upload's extension for .csv.
func csvFilename(name string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	if base == "" {
		base = "contacts"
	}
	return base + ".csv"
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	// Remove any path separators that might have survived.
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
