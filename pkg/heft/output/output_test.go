package output

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jamesainslie/heft/pkg/heft/types"
	"github.com/jamesainslie/heft/pkg/heft/workspace"
)

func testResult(t *testing.T) (*Result, string) {
	t.Helper()
	dir := t.TempDir()
	roots, err := workspace.NewRoots(dir)
	require.NoError(t, err)

	results := types.ResultSet{
		dir + "/src/small.ts": {Path: dir + "/src/small.ts", Size: 25000, Lines: 601},
		dir + "/src/big.ts":   {Path: dir + "/src/big.ts", Size: 90000, Lines: 2100},
	}
	stats := types.ScanStats{Candidates: 40, Measured: 40, Oversized: 2, Elapsed: 120 * time.Millisecond}

	return BuildResult(results, stats, roots, types.Threshold(20)), dir
}

func TestBuildResultSortsBySizeDescending(t *testing.T) {
	r, dir := testResult(t)

	require.Len(t, r.Rows, 2)
	assert.Equal(t, "src/big.ts", r.Rows[0].Label)
	assert.Equal(t, "src/small.ts", r.Rows[1].Label)
	assert.Equal(t, int64(115000), r.TotalBytes())
	assert.Equal(t, dir, r.Source)
	assert.Equal(t, 20, r.ThresholdKB)
}

func TestBuildResultRowsCarryDiagnosticMessage(t *testing.T) {
	r, _ := testResult(t)

	assert.Equal(t, "24.4 KB", r.Rows[1].Size)
	assert.Equal(t,
		"File size 24.4 KB (=601 lines). Consider splitting into smaller modules.",
		r.Rows[1].Message)
}

func TestRegistryLookup(t *testing.T) {
	for _, name := range []string{"plain", "json", "jsonl", "pretty"} {
		formatter, err := Get(name)
		require.NoError(t, err, name)
		assert.NotNil(t, formatter, name)
	}

	_, err := Get("nope")
	assert.Error(t, err)

	names := Available()
	assert.Contains(t, names, "plain")
	assert.Contains(t, names, "pretty")
	assert.IsNonDecreasing(t, names)
}
