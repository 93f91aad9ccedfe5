package validation

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/julianstephens/rindful/internal/models"
)

func entry(date string) models.DailyEntry {
	e := models.NewEntry(models.EntryKey{OwnerID: "local_user", Date: date})
	return e
}

func TestValidateDate(t *testing.T) {
	tests := []struct {
		date    string
		wantErr bool
	}{
		{"2024-06-01", false},
		{"2024-02-30", true},
		{"06/01/2024", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			err := ValidateDate(tt.date)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateDate(%q) error = %v, wantErr %v", tt.date, err, tt.wantErr)
			}
		})
	}
}

func TestValidateRange(t *testing.T) {
	if err := ValidateRange("2024-06-01", "2024-06-30"); err != nil {
		t.Errorf("ValidateRange() error = %v", err)
	}
	if err := ValidateRange("2024-06-01", "2024-06-01"); err != nil {
		t.Errorf("ValidateRange() single day error = %v", err)
	}
	if err := ValidateRange("2024-06-30", "2024-06-01"); err == nil {
		t.Error("ValidateRange() expected error for reversed range")
	}
	if err := ValidateRange("2024-06-01", "bad"); err == nil {
		t.Error("ValidateRange() expected error for invalid end")
	}
}

func TestValidateRating(t *testing.T) {
	if err := ValidateRating(models.RatingMood, nil); err != nil {
		t.Errorf("nil rating should be valid: %v", err)
	}
	if err := ValidateRating(models.RatingEnergy, models.IntPtr(5)); err != nil {
		t.Errorf("rating 5 should be valid: %v", err)
	}
	err := ValidateRating(models.RatingMood, models.IntPtr(7))
	if err == nil || !strings.Contains(err.Error(), "mood") {
		t.Errorf("ValidateRating(7) error = %v, want mood range error", err)
	}
}

func TestValidateEntry(t *testing.T) {
	valid := entry("2024-06-01")
	valid.Mood = models.IntPtr(3)
	valid.Tasks = []models.Task{{ID: "a", Title: "walk"}}

	badRating := entry("2024-06-02")
	badRating.Energy = models.IntPtr(0)

	dupTasks := entry("2024-06-03")
	dupTasks.Tasks = []models.Task{{ID: "a", Title: "walk"}, {ID: "a", Title: "run"}, {Title: "orphan"}}

	mismatched := entry("2024-06-04")
	mismatched.ID = "someone_else_2024-06-04"

	tests := []struct {
		name  string
		entry models.DailyEntry
		want  []ConflictType
	}{
		{"valid", valid, nil},
		{"rating out of range", badRating, []ConflictType{ConflictRatingOutOfRange}},
		{"task ids", dupTasks, []ConflictType{ConflictMissingTaskID, ConflictDuplicateTaskID}},
		{"key mismatch", mismatched, []ConflictType{ConflictKeyMismatch}},
	}

	v := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := v.ValidateEntry(tt.entry)
			if len(result.Conflicts) != len(tt.want) {
				t.Fatalf("conflicts = %+v, want types %v", result.Conflicts, tt.want)
			}
			for i, c := range result.Conflicts {
				if c.Type != tt.want[i] {
					t.Errorf("conflict[%d] = %s, want %s", i, c.Type, tt.want[i])
				}
			}
			if len(tt.want) == 0 && result.FormatReport() != "No conflicts detected." {
				t.Errorf("FormatReport() = %q", result.FormatReport())
			}
		})
	}
}

func TestAutoFixDuplicateTaskIDs(t *testing.T) {
	e := entry("2024-06-03")
	e.Tasks = []models.Task{{ID: "a", Title: "walk"}, {ID: "a", Title: "run"}, {ID: "b"}, {ID: "a", Title: "swim"}}

	v := New()
	result := v.ValidateEntries([]models.DailyEntry{e})

	n := 0
	newID := func() string {
		n++
		return fmt.Sprintf("new-%d", n)
	}

	var saved []models.Task
	actions := AutoFixDuplicateTaskIDs(result.Conflicts, []models.DailyEntry{e}, newID, func(date string, tasks []models.Task) error {
		if date != "2024-06-03" {
			t.Errorf("save date = %s", date)
		}
		saved = tasks
		return nil
	})

	if len(actions) != 1 {
		t.Fatalf("actions = %+v, want 1", actions)
	}
	ids := []string{}
	for _, task := range saved {
		ids = append(ids, task.ID)
	}
	if strings.Join(ids, ",") != "a,new-1,b,new-2" {
		t.Errorf("saved ids = %v", ids)
	}
	if e.Tasks[1].ID != "a" {
		t.Error("auto-fix mutated the input entry")
	}

	failing := AutoFixDuplicateTaskIDs(result.Conflicts, []models.DailyEntry{e}, newID, func(string, []models.Task) error {
		return errors.New("disk full")
	})
	if len(failing) != 1 || !strings.Contains(failing[0].Action, "Failed") {
		t.Errorf("failing actions = %+v", failing)
	}
}
