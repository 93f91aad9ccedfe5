package transfer

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/julianstephens/rindful/internal/constants"
	"github.com/julianstephens/rindful/internal/content"
	"github.com/julianstephens/rindful/internal/models"
)

// cleanEntries copies entries with malformed tasks dropped and a non-nil
// task list.
func cleanEntries(entries []models.DailyEntry) []models.DailyEntry {
	out := make([]models.DailyEntry, 0, len(entries))
	for _, e := range entries {
		c := e.Clone()
		c.Tasks = models.CleanTasks(c.Tasks)
		out = append(out, c)
	}
	return out
}

// Export renders entries in format.
func Export(entries []models.DailyEntry, format string) ([]byte, error) {
	if err := checkFormat(format); err != nil {
		return nil, err
	}
	if format == constants.FormatCSV {
		return ExportCSV(entries)
	}
	return ExportJSON(entries)
}

// ExportCSV writes one row per entry. Content is reduced to plain text and
// ratings are written as labels.
func ExportCSV(entries []models.DailyEntry) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, e := range cleanEntries(entries) {
		tasks, err := json.Marshal(e.Tasks)
		if err != nil {
			return nil, fmt.Errorf("failed to encode tasks for %s: %w", e.Date, err)
		}
		row := []string{
			e.Date,
			models.RatingMood.Label(e.Mood),
			models.RatingEnergy.Label(e.Energy),
			strconv.Itoa(e.WordCount),
			strconv.Itoa(models.CountCompleted(e.Tasks)),
			strconv.Itoa(len(e.Tasks)),
			content.StripHTML(e.Content),
			string(tasks),
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV row for %s: %w", e.Date, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to write CSV: %w", err)
	}
	return buf.Bytes(), nil
}

// ExportJSON writes an indented array of entries.
func ExportJSON(entries []models.DailyEntry) ([]byte, error) {
	data, err := json.MarshalIndent(cleanEntries(entries), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode entries: %w", err)
	}
	return data, nil
}
