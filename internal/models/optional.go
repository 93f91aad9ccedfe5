package models

// Optional carries an explicit presence flag so that a supplied zero value
// ("" or 0 or an empty list) is distinguishable from "not supplied".
type Optional[T any] struct {
	Value T
	Set   bool
}

func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Set: true}
}

// Or returns the value when set, otherwise fallback.
func (o Optional[T]) Or(fallback T) T {
	if o.Set {
		return o.Value
	}
	return fallback
}

// EntryPatch is a partial update of a daily entry. Unset fields keep their
// stored value; Mood and Energy may be set to nil to clear a rating.
type EntryPatch struct {
	Content   Optional[string]
	Mood      Optional[*int]
	Energy    Optional[*int]
	WordCount Optional[int]
	Tasks     Optional[[]Task]
}

// IsEmpty reports whether no field is set.
func (p EntryPatch) IsEmpty() bool {
	return !p.Content.Set && !p.Mood.Set && !p.Energy.Set && !p.WordCount.Set && !p.Tasks.Set
}
