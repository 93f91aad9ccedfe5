package transfer

type DateRange struct {
	Earliest string `json:"earliest"`
	Latest   string `json:"latest"`
}

// Validation summarizes a file without importing it.
type Validation struct {
	Valid      bool       `json:"valid"`
	EntryCount int        `json:"entryCount"`
	Invalid    int        `json:"invalid"`
	DateRange  *DateRange `json:"dateRange"`
	Error      string     `json:"error,omitempty"`
}

// Validate parses data and reports how many records would import.
func Validate(data []byte, format string) Validation {
	records, err := Parse(data, format)
	if err != nil {
		return Validation{Error: err.Error()}
	}

	v := Validation{Valid: true}
	for _, rec := range records {
		if rec.Err != nil {
			v.Invalid++
			continue
		}
		v.EntryCount++
		if v.DateRange == nil {
			v.DateRange = &DateRange{Earliest: rec.Date, Latest: rec.Date}
			continue
		}
		if rec.Date < v.DateRange.Earliest {
			v.DateRange.Earliest = rec.Date
		}
		if rec.Date > v.DateRange.Latest {
			v.DateRange.Latest = rec.Date
		}
	}
	return v
}
