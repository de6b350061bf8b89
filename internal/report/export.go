package report

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

// Characters that are unsafe in workbook file names (and in sheet names on
// most spreadsheet software).
var unsafeNameChars = regexp.MustCompile(`[*?:\\/\[\]]`)

// SanitizeObjectName makes an object name safe to use as a file name.
func SanitizeObjectName(name string) string {
	return unsafeNameChars.ReplaceAllString(name, "_")
}

// SaveWorkbook writes the spreadsheet bytes returned by the backend to
// <dir>/<object>_report.xlsx and returns the full path.
func SaveWorkbook(dir, object string, data []byte) (string, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	path := filepath.Join(dir, SanitizeObjectName(object)+"_report.xlsx")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("failed to write report file: %w", err)
	}

	return path, nil
}
