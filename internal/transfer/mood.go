package transfer

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/julianstephens/rindful/internal/constants"
	rerrors "github.com/julianstephens/rindful/internal/errors"
	"github.com/julianstephens/rindful/internal/models"
	"github.com/julianstephens/rindful/internal/streak"
	"github.com/julianstephens/rindful/internal/validation"
)

// MoodRow is one line of a mood history export.
type MoodRow struct {
	Date       string `json:"date"`
	Time       string `json:"time"`
	MoodRating int    `json:"moodRating"`
	MoodLabel  string `json:"moodLabel"`
}

type moodHistory struct {
	Summary models.MoodSummary `json:"summary"`
	Entries []MoodRow          `json:"entries"`
}

// ExportMoodHistory exports the mood ratings dated start..end with a summary
// block. Times are rendered in loc. It returns ErrNoData when no entry in the
// range has a mood.
func ExportMoodHistory(entries []models.DailyEntry, start, end, format string, loc *time.Location) ([]byte, error) {
	if err := validation.ValidateRange(start, end); err != nil {
		return nil, rerrors.Malformed("%v", err)
	}
	if err := checkFormat(format); err != nil {
		return nil, err
	}
	if loc == nil {
		loc = time.Local
	}

	var rated []models.DailyEntry
	for _, e := range entries {
		if e.Mood != nil && e.Date >= start && e.Date <= end {
			rated = append(rated, e)
		}
	}
	if len(rated) == 0 {
		return nil, fmt.Errorf("%w: %s to %s", rerrors.ErrNoData, start, end)
	}
	sort.SliceStable(rated, func(i, j int) bool { return rated[i].Date < rated[j].Date })

	summary := streak.MoodSummary(rated)
	rows := make([]MoodRow, 0, len(rated))
	for _, e := range rated {
		rows = append(rows, MoodRow{
			Date:       e.Date,
			Time:       formatTime(e.Timestamp, loc),
			MoodRating: *e.Mood,
			MoodLabel:  models.RatingMood.Label(e.Mood),
		})
	}

	if format == constants.FormatJSON {
		data, err := json.MarshalIndent(moodHistory{Summary: summary, Entries: rows}, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode mood history: %w", err)
		}
		return data, nil
	}
	return moodCSV(summary, rows)
}

func formatTime(ms int64, loc *time.Location) string {
	if ms == 0 {
		return constants.NotApplicable
	}
	return time.UnixMilli(ms).In(loc).Format(constants.TimeFormat)
}

func moodCSV(summary models.MoodSummary, rows []MoodRow) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "MOOD HISTORY EXPORT - SUMMARY")
	fmt.Fprintln(&buf, "============================")
	fmt.Fprintf(&buf, "Date Range: %s - %s\n", summary.StartDate, summary.EndDate)
	fmt.Fprintf(&buf, "Total Entries: %d\n", summary.TotalEntries)
	fmt.Fprintf(&buf, "Days with Data: %d\n", summary.DaysWithData)
	fmt.Fprintf(&buf, "Average Mood Rating: %s/%d\n", strconv.FormatFloat(summary.AverageMood, 'f', -1, 64), constants.MaxRating)
	fmt.Fprintln(&buf)
	fmt.Fprintln(&buf, "Mood Distribution:")
	for _, label := range models.RatingMood.Labels() {
		if n := summary.Distribution[label]; n > 0 {
			fmt.Fprintf(&buf, "  %s: %d\n", label, n)
		}
	}
	fmt.Fprintln(&buf)
	fmt.Fprintln(&buf, "RAW DATA")
	fmt.Fprintln(&buf, "========")

	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"Date", "Time", "Mood Rating", "Mood Label"}); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, r := range rows {
		if err := w.Write([]string{r.Date, r.Time, strconv.Itoa(r.MoodRating), r.MoodLabel}); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to write CSV: %w", err)
	}
	return buf.Bytes(), nil
}
