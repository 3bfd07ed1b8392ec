package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	pb "github.com/cheggaaa/pb/v3"
)

const (
	_KiB = 1024
	_MiB = 1048576
	_GiB = 1073741824
	_TiB = 1099511627776
)

// formatBytes renders a byte count with 1024-based units, trimming a
// trailing ".0": 0 B, 1 KB, 1.5 KB, 1 GB.
func formatBytes(i int64) string {
	unit := int64(1)
	label := "B"
	switch {
	case i >= _TiB:
		unit, label = _TiB, "TB"
	case i >= _GiB:
		unit, label = _GiB, "GB"
	case i >= _MiB:
		unit, label = _MiB, "MB"
	case i >= _KiB:
		unit, label = _KiB, "KB"
	default:
		return fmt.Sprintf("%d B", i)
	}
	value := strconv.FormatFloat(float64(i)/float64(unit), 'f', 1, 64)
	value = strings.TrimSuffix(value, ".0")
	return value + " " + label
}

// startProgress returns a running byte progress bar, or nil when progress
// should not be shown (JSON mode, unknown size).
func startProgress(size int64) *pb.ProgressBar {
	if jsonOutput() || size < 0 {
		return nil
	}
	bar := pb.New64(size)
	bar.Set(pb.Bytes, true)
	bar.SetWriter(os.Stderr)
	bar.Start()
	return bar
}
