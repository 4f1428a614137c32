package pipeline

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"crash-data-audit/internal/logging"
	"crash-data-audit/internal/model"
	"crash-data-audit/pkg/utils"
)

// ExportResult describes one written file.
type ExportResult struct {
	Type        string    `json:"type"` // "csv" or "json"
	Path        string    `json:"path"`
	DownloadURL string    `json:"downloadUrl,omitempty"`
	RecordCount int       `json:"recordCount"`
	Success     bool      `json:"success"`
	Error       string    `json:"error,omitempty"`
	ExportedAt  time.Time `json:"exportedAt"`
}

// Exporter writes datasets and reports under a per-session directory.
type Exporter struct {
	Output *utils.OutputManager
	Logger *zap.Logger
}

// ExportDataset writes ds as CSV to fileName in the session directory.
func (e *Exporter) ExportDataset(sessionID, fileName string, ds *model.Dataset) ExportResult {
	return e.export(sessionID, fileName, "csv", ds.NumRows(), func(w io.Writer) error {
		return WriteCSV(w, ds)
	})
}

// ExportReport writes report as indented JSON to fileName in the session
// directory.
func (e *Exporter) ExportReport(sessionID, fileName string, report *model.Report) ExportResult {
	return e.export(sessionID, fileName, "json", 1, func(w io.Writer) error {
		return WriteJSON(w, report)
	})
}

func (e *Exporter) export(sessionID, fileName, kind string, records int, write func(io.Writer) error) ExportResult {
	log := logging.OrNop(e.Logger)
	result := ExportResult{Type: kind, ExportedAt: time.Now()}

	path, err := e.Output.GetOutputFilePath(sessionID, fileName)
	if err == nil {
		result.Path = path
		err = writeFile(path, write)
	}
	if err != nil {
		result.Error = err.Error()
		log.Error("export failed", zap.String("session_id", sessionID), zap.String("file", fileName), zap.Error(err))
		return result
	}

	result.Success = true
	result.RecordCount = records
	result.DownloadURL = e.Output.GetDownloadURL(sessionID, fileName)
	log.Info("export written", zap.String("path", path), zap.Int("records", records))
	return result
}

func writeFile(path string, write func(io.Writer) error) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	if err := write(file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// WriteCSV writes ds with a header row. Nulls are empty cells and
// timestamps are RFC 3339.
func WriteCSV(w io.Writer, ds *model.Dataset) error {
	if ds == nil {
		return model.ErrNoDataset
	}
	writer := csv.NewWriter(w)
	if err := writer.Write(ds.Columns()); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	record := make([]string, ds.NumColumns())
	for r := 0; r < ds.NumRows(); r++ {
		for c := range record {
			record[c] = ds.At(r, c).String()
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write row %d: %w", r, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteJSON encodes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// ExportFileName derives the cleaned file name for a source path or URL.
func ExportFileName(source, suffix, ext string) string {
	base := filepath.Base(source)
	if i := strings.IndexAny(base, "?#"); i >= 0 {
		base = base[:i]
	}
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" || base == "." || base == "/" {
		base = "dataset"
	}
	return base + suffix + ext
}
