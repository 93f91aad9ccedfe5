package validation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/julianstephens/rindful/internal/models"
	"github.com/julianstephens/rindful/internal/utils"
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictInvalidDate       ConflictType = "invalid_date"
	ConflictRatingOutOfRange  ConflictType = "rating_out_of_range"
	ConflictMissingTaskID     ConflictType = "missing_task_id"
	ConflictDuplicateTaskID   ConflictType = "duplicate_task_id"
	ConflictKeyMismatch       ConflictType = "key_mismatch"
	ConflictNegativeWordCount ConflictType = "negative_word_count"
)

// Conflict represents a problem found in a stored or imported entry
type Conflict struct {
	Type        ConflictType
	Description string
	Date        string   // YYYY-MM-DD format (if applicable)
	TaskIDs     []string // IDs of tasks involved (for auto-fixing)
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// FixAction represents an action taken during auto-fix
type FixAction struct {
	Action         string   // Human-readable description of the action
	SourceConflict Conflict // The conflict that triggered this fix action
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	var sb strings.Builder
	sb.WriteString("Conflicts detected:\n")
	for _, conflict := range vr.Conflicts {
		sb.WriteString(fmt.Sprintf("- %s\n", conflict.Description))
	}
	return sb.String()
}

// ValidateDate checks that date is a real calendar date in YYYY-MM-DD form.
func ValidateDate(date string) error {
	if !utils.IsValidDate(date) {
		return fmt.Errorf("invalid date %q: expected YYYY-MM-DD", date)
	}
	return nil
}

// ValidateRating checks that an optional rating is within 1-5.
func ValidateRating(kind models.RatingKind, v *int) error {
	if !models.ValidRating(v) {
		return fmt.Errorf("%s rating %d out of range 1-5", kind, *v)
	}
	return nil
}

// ValidateRange checks both bounds and that start is not after end.
func ValidateRange(start, end string) error {
	if err := ValidateDate(start); err != nil {
		return err
	}
	if err := ValidateDate(end); err != nil {
		return err
	}
	if start > end {
		return fmt.Errorf("start date %s is after end date %s", start, end)
	}
	return nil
}

// Validator validates stored entries for integrity problems
type Validator struct{}

// New creates a new Validator
func New() *Validator {
	return &Validator{}
}

// ValidateEntries checks each entry and returns every conflict found.
func (v *Validator) ValidateEntries(entries []models.DailyEntry) ValidationResult {
	result := ValidationResult{}
	for _, e := range entries {
		result.Conflicts = append(result.Conflicts, v.ValidateEntry(e).Conflicts...)
	}
	return result
}

// ValidateEntry checks one entry.
func (v *Validator) ValidateEntry(e models.DailyEntry) ValidationResult {
	result := ValidationResult{}

	if err := ValidateDate(e.Date); err != nil {
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        ConflictInvalidDate,
			Description: fmt.Sprintf("Entry %s: %v", e.ID, err),
			Date:        e.Date,
		})
	}

	if e.ID != e.Key().String() {
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        ConflictKeyMismatch,
			Description: fmt.Sprintf("Entry id %q does not match owner %q and date %s", e.ID, e.OwnerID, e.Date),
			Date:        e.Date,
		})
	}

	for _, r := range []struct {
		kind  models.RatingKind
		value *int
	}{{models.RatingMood, e.Mood}, {models.RatingEnergy, e.Energy}} {
		if err := ValidateRating(r.kind, r.value); err != nil {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictRatingOutOfRange,
				Description: fmt.Sprintf("Entry %s: %v", e.Date, err),
				Date:        e.Date,
			})
		}
	}

	if e.WordCount < 0 {
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        ConflictNegativeWordCount,
			Description: fmt.Sprintf("Entry %s: negative word count %d", e.Date, e.WordCount),
			Date:        e.Date,
		})
	}

	missing := 0
	seen := make(map[string][]string)
	var order []string
	for _, t := range e.Tasks {
		if strings.TrimSpace(t.ID) == "" {
			missing++
			continue
		}
		if _, ok := seen[t.ID]; !ok {
			order = append(order, t.ID)
		}
		seen[t.ID] = append(seen[t.ID], t.Title)
	}
	if missing > 0 {
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        ConflictMissingTaskID,
			Description: fmt.Sprintf("Entry %s: %d task(s) without an id", e.Date, missing),
			Date:        e.Date,
		})
	}
	for _, id := range order {
		if titles := seen[id]; len(titles) > 1 {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictDuplicateTaskID,
				Description: fmt.Sprintf("Entry %s: task id %s used %d times (%s)", e.Date, id, len(titles), strings.Join(titles, ", ")),
				Date:        e.Date,
				TaskIDs:     []string{id},
			})
		}
	}

	return result
}

// AutoFixDuplicateTaskIDs gives every repeated task id after the first a fresh
// id from newID and saves the entry through saveFunc. Entries are grouped by date.
func AutoFixDuplicateTaskIDs(conflicts []Conflict, entries []models.DailyEntry, newID func() string, saveFunc func(date string, tasks []models.Task) error) []FixAction {
	actions := []FixAction{}

	byDate := make(map[string]models.DailyEntry)
	for _, e := range entries {
		byDate[e.Date] = e
	}

	dates := make(map[string]Conflict)
	for _, c := range conflicts {
		if c.Type == ConflictDuplicateTaskID {
			dates[c.Date] = c
		}
	}
	sorted := make([]string, 0, len(dates))
	for d := range dates {
		sorted = append(sorted, d)
	}
	sort.Strings(sorted)

	for _, date := range sorted {
		entry, ok := byDate[date]
		if !ok {
			continue
		}
		seen := make(map[string]bool)
		tasks := append([]models.Task{}, entry.Tasks...)
		renamed := 0
		for i, t := range tasks {
			if seen[t.ID] {
				tasks[i].ID = newID()
				renamed++
				continue
			}
			seen[t.ID] = true
		}
		if renamed == 0 {
			continue
		}
		if err := saveFunc(date, tasks); err != nil {
			actions = append(actions, FixAction{
				Action:         fmt.Sprintf("Failed to re-id duplicate tasks on %s: %v", date, err),
				SourceConflict: dates[date],
			})
			continue
		}
		actions = append(actions, FixAction{
			Action:         fmt.Sprintf("Assigned new ids to %d duplicate task(s) on %s", renamed, date),
			SourceConflict: dates[date],
		})
	}

	return actions
}
