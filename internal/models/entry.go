package models

import (
	"fmt"
	"strings"
)

// EntryKey is the composite identity of a daily entry. It is the only place
// the "owner_date" primary key is formatted or parsed.
type EntryKey struct {
	OwnerID string
	Date    string // YYYY-MM-DD
}

func (k EntryKey) String() string {
	return k.OwnerID + "_" + k.Date
}

// ParseEntryKey splits an "owner_date" id. The date is the last underscore
// separated part, so owner ids may themselves contain underscores.
func ParseEntryKey(id string) (EntryKey, error) {
	i := strings.LastIndex(id, "_")
	if i <= 0 || i == len(id)-1 {
		return EntryKey{}, fmt.Errorf("invalid entry id %q", id)
	}
	return EntryKey{OwnerID: id[:i], Date: id[i+1:]}, nil
}

type DailyEntry struct {
	ID        string `json:"id"`
	OwnerID   string `json:"userId"`
	Date      string `json:"date"` // YYYY-MM-DD format
	Content   string `json:"content"`
	Mood      *int   `json:"mood"`
	Energy    *int   `json:"energy"`
	WordCount int    `json:"wordCount"`
	Tasks     []Task `json:"tasks"`
	Timestamp int64  `json:"timestamp"` // ms since epoch of the last write
}

// NewEntry returns the zero-valued entry for key.
func NewEntry(key EntryKey) DailyEntry {
	return DailyEntry{
		ID:      key.String(),
		OwnerID: key.OwnerID,
		Date:    key.Date,
		Tasks:   []Task{},
	}
}

func (e DailyEntry) Key() EntryKey {
	return EntryKey{OwnerID: e.OwnerID, Date: e.Date}
}

// IsCheckIn reports whether the entry counts toward streaks and weekly buckets.
func (e DailyEntry) IsCheckIn() bool {
	return strings.TrimSpace(e.Content) != "" || e.Mood != nil || e.Energy != nil
}

// HasContent reports whether the journal body is non-empty.
func (e DailyEntry) HasContent() bool {
	return strings.TrimSpace(e.Content) != ""
}

// Clone returns a deep copy so callers can mutate without aliasing the store's value.
func (e DailyEntry) Clone() DailyEntry {
	c := e
	if e.Mood != nil {
		c.Mood = IntPtr(*e.Mood)
	}
	if e.Energy != nil {
		c.Energy = IntPtr(*e.Energy)
	}
	c.Tasks = append([]Task{}, e.Tasks...)
	return c
}

// IntPtr is a small helper for building rating values.
func IntPtr(v int) *int {
	return &v
}
