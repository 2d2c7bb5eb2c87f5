package util

import (
	"os"
	"path/filepath"
	"strings"
)

// VideoExtensions lists the containers the editor offers in its open dialog
var VideoExtensions = []string{".mp4", ".mov", ".mkv", ".webm", ".m4v"}

// EnsureDir creates a directory if it doesn't exist
func EnsureDir(path string) error {
	return os.MkdirAll(path, 0755)
}

// FileExists checks if a regular file exists
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// CleanupFiles removes multiple files, ignoring errors
func CleanupFiles(paths ...string) {
	for _, path := range paths {
		_ = os.Remove(path)
	}
}

// IsVideoFile reports whether path carries one of VideoExtensions
func IsVideoFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, v := range VideoExtensions {
		if ext == v {
			return true
		}
	}
	return false
}
