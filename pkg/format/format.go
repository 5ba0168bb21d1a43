// Package format renders sizes, durations and rates for the status endpoints
// and log lines
package format

import (
	"fmt"
	"strconv"
	"time"
)

const (
	zeroPercent = "0%"
	zeroLatency = "0ms"
	never       = "never"
)

var byteUnits = []string{"KB", "MB", "GB", "TB", "PB"}

// Bytes uses binary units, 1536 renders as "1.50 KB"
func Bytes(bytes uint64) string {
	const unit = 1024
	if bytes < unit {
		return strconv.FormatUint(bytes, 10) + " B"
	}

	div, exp := uint64(unit), 0
	for n := bytes / unit; n >= unit && exp < len(byteUnits)-1; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.2f %s", float64(bytes)/float64(div), byteUnits[exp])
}

// Duration keeps sub-second precision and otherwise drops to whole seconds
func Duration(d time.Duration) string {
	if d < time.Second {
		return d.String()
	}

	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	switch {
	case hours > 0:
		return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
	case minutes > 0:
		return fmt.Sprintf("%dm%ds", minutes, seconds)
	default:
		return fmt.Sprintf("%ds", seconds)
	}
}

func Percentage(value float64) string {
	switch value {
	case 0:
		return zeroPercent
	case 100:
		return "100%"
	}
	return fmt.Sprintf("%.1f%%", value)
}

// Latency takes milliseconds and switches to seconds from 1000
func Latency(ms int64) string {
	switch {
	case ms == 0:
		return zeroLatency
	case ms >= 1000:
		return fmt.Sprintf("%.1fs", float64(ms)/1000.0)
	default:
		return strconv.FormatInt(ms, 10) + "ms"
	}
}

func TimeAgo(t time.Time) string {
	if t.IsZero() {
		return never
	}
	return TimeDuration(time.Since(t)) + " ago"
}

// TimeDuration is the coarse single-unit form used for "last seen" columns
func TimeDuration(d time.Duration) string {
	switch {
	case d < time.Minute:
		return strconv.Itoa(int(d.Seconds())) + "s"
	case d < time.Hour:
		return fmt.Sprintf("%.0fm", d.Minutes())
	case d < 24*time.Hour:
		return fmt.Sprintf("%.0fh", d.Hours())
	default:
		return fmt.Sprintf("%.0fd", d.Hours()/24)
	}
}
