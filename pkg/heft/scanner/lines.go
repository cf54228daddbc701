package scanner

import (
	"bytes"
	"math"
)

// CountLines returns the line count of content: the number of line-feed
// bytes plus one for non-empty content, zero for empty content.
func CountLines(content []byte) int {
	if len(content) == 0 {
		return 0
	}
	return bytes.Count(content, []byte{'\n'}) + 1
}

// EstimateLines approximates a line count from size alone, for files whose
// content cannot be read: roughly 25 lines per KB, rounded to the nearest
// 50, floored at 1.
func EstimateLines(size int64) int {
	est := float64(size) / 1024 * 25
	rounded := int(math.Round(est/50)) * 50
	if rounded < 1 {
		return 1
	}
	return rounded
}
