package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"atc-transcribe/internal/app/converter"
	apperrors "atc-transcribe/internal/app/errors"

	"github.com/tealeg/xlsx"
)

// Record is one exported row.
type Record struct {
	AudioPath    string `json:"audio_path"`
	Transcript   string `json:"transcript"`
	Status       string `json:"status"`
	ErrorMessage string `json:"error,omitempty"`
	DurationMs   int64  `json:"duration_ms"`
}

// Records flattens batch results for export.
func Records(results []converter.Result) []Record {
	records := make([]Record, 0, len(results))
	for _, r := range results {
		record := Record{
			AudioPath:  r.AudioPath,
			Transcript: r.Text(),
			Status:     "ok",
			DurationMs: r.Duration.Milliseconds(),
		}
		if r.Err != nil {
			record.Status = "failed"
			record.ErrorMessage = r.Err.Error()
		}
		records = append(records, record)
	}
	return records
}

// ToFile writes results to outputFilePath, picking the format from its
// extension: .xlsx or .json.
func ToFile(results []converter.Result, outputFilePath string) error {
	switch strings.ToLower(filepath.Ext(outputFilePath)) {
	case ".xlsx":
		return ToExcel(results, outputFilePath)
	case ".json":
		f, err := os.Create(outputFilePath)
		if err != nil {
			return apperrors.ErrFileWriteFailed.WithCause(err)
		}
		if err := ToJSON(results, f); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return apperrors.ErrFileWriteFailed.WithCause(err)
		}
		return nil
	default:
		return apperrors.InvalidField("output file", fmt.Sprintf("unsupported extension %q (want .xlsx or .json)", filepath.Ext(outputFilePath)))
	}
}

func ToExcel(results []converter.Result, outputFilePath string) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Transcriptions")
	if err != nil {
		return apperrors.ErrFileWriteFailed.WithCause(err)
	}

	headerRow := sheet.AddRow()
	headerRow.AddCell().Value = "Audio Path"
	headerRow.AddCell().Value = "Transcript"
	headerRow.AddCell().Value = "Status"
	headerRow.AddCell().Value = "Error Message"
	headerRow.AddCell().Value = "Duration (ms)"

	for _, r := range Records(results) {
		row := sheet.AddRow()
		row.AddCell().Value = r.AudioPath
		row.AddCell().Value = r.Transcript
		row.AddCell().Value = r.Status
		row.AddCell().Value = r.ErrorMessage
		row.AddCell().SetInt64(r.DurationMs)
	}

	if err := file.Save(outputFilePath); err != nil {
		return apperrors.ErrFileWriteFailed.WithCause(err)
	}
	return nil
}

func ToJSON(results []converter.Result, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(Records(results)); err != nil {
		return apperrors.ErrFileWriteFailed.WithCause(err)
	}
	return nil
}
