package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONFormatter_Format(t *testing.T) {
	formatter := &JSONFormatter{}
	var buf bytes.Buffer

	result := &Result{
		Rows: []Row{
			{
				Label:   "src/big.ts",
				Path:    "/p/src/big.ts",
				Size:    "24.4 KB",
				Bytes:   25000,
				Lines:   601,
				Message: "File size 24.4 KB (=601 lines). Consider splitting into smaller modules.",
			},
		},
		Stats:       Stats{Candidates: 40, Measured: 40, Oversized: 1, Duration: 120 * time.Millisecond},
		Source:      "/p",
		ThresholdKB: 20,
	}

	err := formatter.Format(&buf, result)
	require.NoError(t, err)

	var decoded jsonOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))

	require.Len(t, decoded.Files, 1)
	assert.Equal(t, "/p/src/big.ts", decoded.Files[0].Path)
	assert.Equal(t, int64(25000), decoded.Files[0].Size)
	assert.Equal(t, "24.4 KB", decoded.Files[0].SizeHuman)
	assert.Equal(t, 601, decoded.Files[0].Lines)
	assert.Contains(t, decoded.Files[0].Message, "Consider splitting")

	assert.Equal(t, int64(1), decoded.Stats.Oversized)
	assert.Equal(t, "120ms", decoded.Stats.Duration)
	assert.Equal(t, 20, decoded.Meta.ThresholdKB)
	assert.Equal(t, int64(25000), decoded.Meta.TotalBytes)

	// Meta carries only fields the scan actually produces.
	assert.NotContains(t, buf.String(), "watching")
}

func TestJSONLFormatter_OneObjectPerLine(t *testing.T) {
	formatter := &JSONLFormatter{}
	var buf bytes.Buffer

	result := &Result{
		Rows: []Row{
			{Label: "a.ts", Path: "/p/a.ts", Size: "24.4 KB", Bytes: 25000, Lines: 601},
			{Label: "b.ts", Path: "/p/b.ts", Size: "29.3 KB", Bytes: 30000, Lines: 700},
		},
	}

	err := formatter.Format(&buf, result)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	for _, line := range lines {
		var f jsonFile
		require.NoError(t, json.Unmarshal([]byte(line), &f))
	}
}
