package output

import (
	"bytes"
	"encoding/json"
	"time"
)

// jsonOutput represents the full JSON output structure.
type jsonOutput struct {
	Files []jsonFile `json:"files"`
	Stats jsonStats  `json:"stats"`
	Meta  jsonMeta   `json:"meta"`
}

// jsonFile represents one oversized file in JSON output.
type jsonFile struct {
	Path      string `json:"path"`
	Label     string `json:"label"`
	Size      int64  `json:"size"`
	SizeHuman string `json:"size_human"`
	Lines     int    `json:"lines"`
	Message   string `json:"message"`
}

// jsonStats represents scan statistics in JSON output.
type jsonStats struct {
	Candidates int64  `json:"candidates"`
	Measured   int64  `json:"measured"`
	Oversized  int64  `json:"oversized"`
	Duration   string `json:"duration"`
}

// jsonMeta represents metadata in JSON output.
type jsonMeta struct {
	Source      string `json:"source"`
	ThresholdKB int    `json:"threshold_kb"`
	TotalBytes  int64  `json:"total_bytes"`
}

// JSONFormatter formats output as a single indented JSON object.
// It produces a complete JSON document with files, stats, and meta sections.
type JSONFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *JSONFormatter) Format(w *bytes.Buffer, r *Result) error {
	output := f.buildOutput(r)

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(output)
}

// buildOutput converts Result to the JSON output structure.
func (f *JSONFormatter) buildOutput(r *Result) jsonOutput {
	files := make([]jsonFile, len(r.Rows))
	for i, row := range r.Rows {
		files[i] = jsonFile{
			Path:      row.Path,
			Label:     row.Label,
			Size:      row.Bytes,
			SizeHuman: row.Size,
			Lines:     row.Lines,
			Message:   row.Message,
		}
	}

	stats := jsonStats{
		Candidates: r.Stats.Candidates,
		Measured:   r.Stats.Measured,
		Oversized:  r.Stats.Oversized,
		Duration:   formatDurationString(r.Stats.Duration),
	}

	meta := jsonMeta{
		Source:      r.Source,
		ThresholdKB: r.ThresholdKB,
		TotalBytes:  r.TotalBytes(),
	}

	return jsonOutput{
		Files: files,
		Stats: stats,
		Meta:  meta,
	}
}

// formatDurationString formats a duration as a string for JSON output.
func formatDurationString(d time.Duration) string {
	if d == 0 {
		return ""
	}
	return d.String()
}

func init() {
	Register("json", func() Formatter {
		return &JSONFormatter{}
	})
}

// Ensure JSONFormatter implements Formatter.
var _ Formatter = (*JSONFormatter)(nil)

// JSONLFormatter formats output as newline-delimited JSON (one object per line).
// Each file is written as a compact JSON object on its own line.
// This format is suitable for streaming processing with tools like jq.
type JSONLFormatter struct{}

// Format writes the formatted output to the buffer.
func (f *JSONLFormatter) Format(w *bytes.Buffer, r *Result) error {
	for _, row := range r.Rows {
		jf := jsonFile{
			Path:      row.Path,
			Label:     row.Label,
			Size:      row.Bytes,
			SizeHuman: row.Size,
			Lines:     row.Lines,
			Message:   row.Message,
		}

		data, err := json.Marshal(jf)
		if err != nil {
			return err
		}
		w.Write(data)
		w.WriteByte('\n')
	}
	return nil
}

func init() {
	Register("jsonl", func() Formatter {
		return &JSONLFormatter{}
	})
}

// Ensure JSONLFormatter implements Formatter.
var _ Formatter = (*JSONLFormatter)(nil)
