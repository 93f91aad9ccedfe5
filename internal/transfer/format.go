// Package transfer converts journal entries to and from CSV and JSON files.
package transfer

import (
	"path/filepath"
	"strings"

	"github.com/julianstephens/rindful/internal/constants"
	rerrors "github.com/julianstephens/rindful/internal/errors"
)

// CSV column names.
const (
	colDate           = "Date"
	colMood           = "Mood"
	colEnergy         = "Energy"
	colWordCount      = "WordCount"
	colTasksCompleted = "TasksCompleted"
	colTasksTotal     = "TasksTotal"
	colContent        = "Content"
	colTasks          = "Tasks"
)

var csvHeader = []string{colDate, colMood, colEnergy, colWordCount, colTasksCompleted, colTasksTotal, colContent, colTasks}

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return constants.FormatCSV, nil
	case ".json":
		return constants.FormatJSON, nil
	default:
		return "", rerrors.Malformed("unsupported file format %q: please use CSV or JSON", filepath.Ext(path))
	}
}

func checkFormat(format string) error {
	switch format {
	case constants.FormatCSV, constants.FormatJSON:
		return nil
	default:
		return rerrors.Malformed("unsupported format %q", format)
	}
}

// headerKey folds a CSV header so "Word Count", "word_count" and
// "WordCount" match.
func headerKey(h string) string {
	h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
	return strings.NewReplacer(" ", "", "_", "").Replace(h)
}
