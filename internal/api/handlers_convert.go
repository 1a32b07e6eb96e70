package api

import (
	"encoding/json"
	"net/http"

	"github.com/dgallion1/contactcsv/internal/vcf"
)

// handleConvert converts one upload synchronously and returns the CSV file.
func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	up, mode, ok := s.parseSingleUpload(w, r)
	if !ok {
		return
	}
	defer r.MultipartForm.RemoveAll()

	annotate(r, "filename", up.filename, "mode", mode, "upload_bytes", len(up.data))
	table, err := s.orchestrator.Convert(up.filename, up.data, mode)
	if err != nil {
		s.log.Warn("conversion failed", "filename", up.filename, "error", err)
		jsonError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	annotate(r, "cards", len(table.Records), "columns", len(table.Columns))
	writeCSV(w, up.filename, table.CSV())
}

// handleConvertJSON returns the converted table as JSON. "rows" are aligned
// to "columns"; "records" keep each card's own fields.
func (s *Server) handleConvertJSON(w http.ResponseWriter, r *http.Request) {
	up, mode, ok := s.parseSingleUpload(w, r)
	if !ok {
		return
	}
	defer r.MultipartForm.RemoveAll()

	annotate(r, "filename", up.filename, "mode", mode, "upload_bytes", len(up.data))
	table, err := s.orchestrator.Convert(up.filename, up.data, mode)
	if err != nil {
		s.log.Warn("conversion failed", "filename", up.filename, "error", err)
		jsonError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	annotate(r, "cards", len(table.Records), "columns", len(table.Columns))

	columns := table.Columns
	if columns == nil {
		columns = []string{}
	}
	records := table.Records
	if records == nil {
		records = []vcf.Record{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"filename": up.filename,
		"mode":     table.Mode,
		"cards":    len(table.Records),
		"columns":  columns,
		"rows":     table.Rows(),
		"records":  records,
	})
}
