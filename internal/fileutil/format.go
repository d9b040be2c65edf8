// Package fileutil holds the pure helpers shared by the listing views:
// size formatting, name-derived metadata and breadcrumb navigation.
package fileutil

import (
	"math"
	"strconv"
)

var sizeUnits = []string{"B", "KB", "MB", "GB", "TB"}

// FormatFileSize renders a byte count with binary (1024) steps and at most
// two decimals, trailing zeros trimmed: 1024 -> "1 KB", 1536 -> "1.5 KB".
// Sizes beyond the last unit stay expressed in TB.
func FormatFileSize(bytes int64) string {
	if bytes <= 0 {
		return "0 B"
	}

	const k = 1024
	v := float64(bytes)
	i := 0
	for v >= k && i < len(sizeUnits)-1 {
		v /= k
		i++
	}

	v = math.Round(v*100) / 100
	return strconv.FormatFloat(v, 'f', -1, 64) + " " + sizeUnits[i]
}
