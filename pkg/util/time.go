package util

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FormatDuration converts time.Duration to ffmpeg timestamp format
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	seconds := d.Seconds()
	hours := int(seconds / 3600)
	minutes := int((seconds - float64(hours*3600)) / 60)
	secs := seconds - float64(hours*3600) - float64(minutes*60)
	return fmt.Sprintf("%02d:%02d:%06.3f", hours, minutes, secs)
}

// FormatClock renders a playhead position as MM:SS.t for labels
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := d.Milliseconds()
	minutes := total / 60000
	seconds := (total % 60000) / 1000
	tenths := (total % 1000) / 100
	return fmt.Sprintf("%02d:%02d.%d", minutes, seconds, tenths)
}

// Millis converts a millisecond count to a duration
func Millis(ms int64) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

// ParseTimestamp parses a timestamp string (HH:MM:SS.mmm, MM:SS or SS.mmm)
func ParseTimestamp(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ":")
	if len(parts) == 0 || len(parts) > 3 {
		return 0, fmt.Errorf("invalid timestamp format: %s", s)
	}

	// fields are read right to left: seconds, minutes, hours
	multipliers := []float64{1, 60, 3600}
	var total float64
	for i := 0; i < len(parts); i++ {
		field := parts[len(parts)-1-i]
		v, err := strconv.ParseFloat(field, 64)
		if err != nil || v < 0 {
			return 0, fmt.Errorf("invalid timestamp format: %s", s)
		}
		total += v * multipliers[i]
	}

	return time.Duration(total * float64(time.Second)), nil
}

// ParseFrameRate parses frame rate from ffprobe format (e.g., "30/1")
func ParseFrameRate(s string) float64 {
	parts := strings.Split(s, "/")
	if len(parts) != 2 {
		return 0
	}
	num, err1 := strconv.ParseFloat(parts[0], 64)
	den, err2 := strconv.ParseFloat(parts[1], 64)
	if err1 != nil || err2 != nil || den == 0 {
		return 0
	}
	return num / den
}
