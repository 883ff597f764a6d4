package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"atc-transcribe/internal/app/api/transcribe"
	"atc-transcribe/internal/app/converter"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"
)

func sampleResults() []converter.Result {
	return []converter.Result{
		{AudioPath: "/audio/1.wav", Transcript: "cleared to land runway two seven", Duration: 1500 * time.Millisecond},
		{AudioPath: "/audio/2.wav", Err: errors.New("connection failed"), Duration: 3 * time.Millisecond},
	}
}

func TestRecords(t *testing.T) {
	records := Records(sampleResults())
	require.Len(t, records, 2)

	assert.Equal(t, Record{AudioPath: "/audio/1.wav", Transcript: "cleared to land runway two seven", Status: "ok", DurationMs: 1500}, records[0])
	assert.Equal(t, "failed", records[1].Status)
	assert.Equal(t, transcribe.ErrorText, records[1].Transcript)
	assert.Equal(t, "connection failed", records[1].ErrorMessage)
}

func TestToJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ToJSON(sampleResults(), &buf))

	var got []map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "/audio/1.wav", got[0]["audio_path"])
	assert.NotContains(t, got[0], "error")
	assert.Equal(t, "Error during transcription.", got[1]["transcript"])
}

func TestToFileExcel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.xlsx")
	require.NoError(t, ToFile(sampleResults(), path))

	file, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	sheet, ok := file.Sheet["Transcriptions"]
	require.True(t, ok)
	require.Len(t, sheet.Rows, 3)

	assert.Equal(t, "Audio Path", sheet.Rows[0].Cells[0].Value)
	assert.Equal(t, "cleared to land runway two seven", sheet.Rows[1].Cells[1].Value)
	assert.Equal(t, "failed", sheet.Rows[2].Cells[2].Value)
	assert.Equal(t, "1500", sheet.Rows[1].Cells[4].Value)
}

func TestToFileJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.JSON")
	require.NoError(t, ToFile(sampleResults(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"status": "failed"`)
}

func TestToFileUnsupported(t *testing.T) {
	err := ToFile(sampleResults(), filepath.Join(t.TempDir(), "results.csv"))
	assert.ErrorContains(t, err, "unsupported extension")
}
