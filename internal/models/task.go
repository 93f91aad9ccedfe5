package models

import (
	"bytes"
	"encoding/json"
	"sort"
	"strconv"
	"strings"
)

type Task struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
	Date      string `json:"date"` // YYYY-MM-DD format
}

// RawImportedTask is the loosely typed task shape found in imported files and
// legacy rows: the id may be a number, a string, null or missing, and array
// elements may not be objects at all.
type RawImportedTask struct {
	ID        interface{} `json:"id"`
	Title     string      `json:"title"`
	Completed bool        `json:"completed"`
	Date      string      `json:"date"`
}

// UnmarshalJSON accepts any JSON value. Non-objects decode to a task with no
// id, which NormalizeTasks drops.
func (r *RawImportedTask) UnmarshalJSON(data []byte) error {
	*r = RawImportedTask{}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil
	}
	var aux struct {
		ID        json.RawMessage `json:"id"`
		Title     interface{}     `json:"title"`
		Completed interface{}     `json:"completed"`
		Date      interface{}     `json:"date"`
	}
	if err := json.Unmarshal(trimmed, &aux); err != nil {
		return nil
	}
	if len(aux.ID) > 0 {
		dec := json.NewDecoder(bytes.NewReader(aux.ID))
		dec.UseNumber()
		var id interface{}
		if err := dec.Decode(&id); err == nil {
			r.ID = id
		}
	}
	if s, ok := aux.Title.(string); ok {
		r.Title = s
	}
	if b, ok := aux.Completed.(bool); ok {
		r.Completed = b
	}
	if s, ok := aux.Date.(string); ok {
		r.Date = s
	}
	return nil
}

// NormalizedID returns the canonical string id, or "" when the raw id is unusable.
func (r RawImportedTask) NormalizedID() string {
	switch v := r.ID.(type) {
	case string:
		return strings.TrimSpace(v)
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		return ""
	}
}

// NormalizeTasks converts raw tasks to the internal shape, dropping entries
// without a usable id. Duplicate ids are kept.
func NormalizeTasks(raw []RawImportedTask) []Task {
	tasks := make([]Task, 0, len(raw))
	for _, r := range raw {
		id := r.NormalizedID()
		if id == "" {
			continue
		}
		tasks = append(tasks, Task{ID: id, Title: r.Title, Completed: r.Completed, Date: r.Date})
	}
	return tasks
}

// CleanTasks applies the same filter to already typed tasks.
func CleanTasks(tasks []Task) []Task {
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if strings.TrimSpace(t.ID) == "" {
			continue
		}
		out = append(out, t)
	}
	return out
}

// SortTasksForDisplay returns a copy with incomplete tasks first, otherwise
// keeping insertion order. The result is never persisted.
func SortTasksForDisplay(tasks []Task) []Task {
	out := append([]Task{}, tasks...)
	sort.SliceStable(out, func(i, j int) bool {
		return !out[i].Completed && out[j].Completed
	})
	return out
}

// CountCompleted returns the number of completed tasks.
func CountCompleted(tasks []Task) int {
	n := 0
	for _, t := range tasks {
		if t.Completed {
			n++
		}
	}
	return n
}
