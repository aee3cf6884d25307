package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ArchiveHistory moves the print history log into an "archive" directory
// next to it, with a timestamp in the file name. It returns the new path.
func ArchiveHistory(historyPath string) (string, error) {
	// Check if the log exists
	info, err := os.Stat(historyPath)
	if os.IsNotExist(err) {
		return "", fmt.Errorf("history file does not exist: %s", historyPath)
	}
	if err != nil {
		return "", fmt.Errorf("failed to stat history file: %w", err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("history path is a directory: %s", historyPath)
	}

	// Get parent directory and create archive path
	parentDir := filepath.Dir(historyPath)
	archiveDir := filepath.Join(parentDir, "archive")

	// Create archive directory if it doesn't exist
	if err := os.MkdirAll(archiveDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}

	ext := filepath.Ext(historyPath)
	stem := strings.TrimSuffix(filepath.Base(historyPath), ext)

	// Generate timestamp
	timestamp := time.Now().Format("20060102-150405")
	archivePath := filepath.Join(archiveDir, fmt.Sprintf("%s-%s%s", stem, timestamp, ext))

	// Check if archive already exists (unlikely but possible)
	if _, err := os.Stat(archivePath); err == nil {
		// Add microseconds to make it unique
		timestamp = time.Now().Format("20060102-150405.000000")
		archivePath = filepath.Join(archiveDir, fmt.Sprintf("%s-%s%s", stem, timestamp, ext))
	}

	if err := os.Rename(historyPath, archivePath); err != nil {
		return "", fmt.Errorf("failed to archive history file: %w", err)
	}

	fmt.Printf("Print history archived to: %s\n", archivePath)
	return archivePath, nil
}
