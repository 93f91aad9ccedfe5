package transfer

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/julianstephens/rindful/internal/constants"
	"github.com/julianstephens/rindful/internal/content"
	rerrors "github.com/julianstephens/rindful/internal/errors"
	"github.com/julianstephens/rindful/internal/models"
	"github.com/julianstephens/rindful/internal/validation"
)

// Record is one parsed row or object. Only the fields present in the source
// are set on Patch. A record that cannot be imported carries Err.
type Record struct {
	Row   int // 1-based data row or array index
	Date  string
	Patch models.EntryPatch
	Err   error
}

// Parse reads a whole file. File-level problems (unparseable data, missing
// Date or Content column, a JSON value that is not an array) return
// ErrMalformedInput and no records.
func Parse(data []byte, format string) ([]Record, error) {
	if err := checkFormat(format); err != nil {
		return nil, err
	}
	if format == constants.FormatCSV {
		return parseCSV(data)
	}
	return parseJSON(data)
}

func parseCSV(data []byte) ([]Record, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, rerrors.Malformed("CSV file is empty")
	}
	if err != nil {
		return nil, rerrors.Malformed("invalid CSV: %v", err)
	}

	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[headerKey(h)] = i
	}
	var missing []string
	for _, required := range []string{colDate, colContent} {
		if _, ok := cols[headerKey(required)]; !ok {
			missing = append(missing, required)
		}
	}
	if len(missing) > 0 {
		return nil, rerrors.Malformed("missing required CSV columns: %s", strings.Join(missing, ", "))
	}

	var records []Record
	for row := 1; ; row++ {
		fields, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, rerrors.Malformed("invalid CSV: %v", err)
		}
		cell := func(name string) (string, bool) {
			i, ok := cols[headerKey(name)]
			if !ok || i >= len(fields) {
				return "", false
			}
			v := fields[i]
			if strings.TrimSpace(v) == "" {
				return "", false
			}
			return v, true
		}
		records = append(records, csvRecord(row, cell))
	}
	return records, nil
}

// csvRecord builds a record from one row. Empty cells count as absent.
func csvRecord(row int, cell func(string) (string, bool)) Record {
	date, _ := cell(colDate)
	rec := Record{Row: row, Date: strings.TrimSpace(date)}
	if err := validation.ValidateDate(rec.Date); err != nil {
		rec.Err = err
		return rec
	}

	if v, ok := cell(colContent); ok {
		rec.Patch.Content = models.Some(v)
	}
	for _, r := range []struct {
		col  string
		kind models.RatingKind
		dst  *models.Optional[*int]
	}{
		{colMood, models.RatingMood, &rec.Patch.Mood},
		{colEnergy, models.RatingEnergy, &rec.Patch.Energy},
	} {
		v, ok := cell(r.col)
		if !ok {
			continue
		}
		rating, err := r.kind.ParseRating(v)
		if err != nil {
			rec.Err = err
			return rec
		}
		if rating != nil {
			*r.dst = models.Some(rating)
		}
	}
	if v, ok := cell(colWordCount); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil || n < 0 {
			rec.Err = fmt.Errorf("invalid word count %q", v)
			return rec
		}
		rec.Patch.WordCount = models.Some(n)
	}
	if v, ok := cell(colTasks); ok {
		var raw []models.RawImportedTask
		if err := json.Unmarshal([]byte(v), &raw); err != nil {
			rec.Err = fmt.Errorf("invalid tasks: %v", err)
			return rec
		}
		rec.Patch.Tasks = models.Some(models.NormalizeTasks(raw))
	}
	fillWordCount(&rec)
	return rec
}

// fillWordCount derives a word count for imported content that has none.
func fillWordCount(rec *Record) {
	if rec.Patch.Content.Set && !rec.Patch.WordCount.Set {
		rec.Patch.WordCount = models.Some(content.WordCount(rec.Patch.Content.Value))
	}
}

func parseJSON(data []byte) ([]Record, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) || !json.Valid(data) {
			return nil, rerrors.Malformed("invalid JSON: %v", err)
		}
		return nil, rerrors.Malformed("JSON must contain an array of entries")
	}

	records := make([]Record, 0, len(items))
	for i, item := range items {
		records = append(records, jsonRecord(i+1, item))
	}
	return records, nil
}

// jsonRecord builds a record from one array element. A key that is present
// is applied even when null.
func jsonRecord(row int, item json.RawMessage) Record {
	rec := Record{Row: row}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(item, &fields); err != nil || fields == nil {
		rec.Err = errors.New("entry is not an object")
		return rec
	}

	if raw, ok := fields["date"]; ok {
		_ = json.Unmarshal(raw, &rec.Date)
	}
	if rec.Date == "" {
		rec.Err = errors.New("missing date field")
		return rec
	}
	if err := validation.ValidateDate(rec.Date); err != nil {
		rec.Err = err
		return rec
	}

	if raw, ok := fields["content"]; ok {
		var s *string
		if err := json.Unmarshal(raw, &s); err != nil {
			rec.Err = fmt.Errorf("invalid content: %v", err)
			return rec
		}
		if s != nil {
			rec.Patch.Content = models.Some(*s)
		} else {
			rec.Patch.Content = models.Some("")
		}
	}
	for _, r := range []struct {
		key  string
		kind models.RatingKind
		dst  *models.Optional[*int]
	}{
		{"mood", models.RatingMood, &rec.Patch.Mood},
		{"energy", models.RatingEnergy, &rec.Patch.Energy},
	} {
		raw, ok := fields[r.key]
		if !ok {
			continue
		}
		rating, err := jsonRating(r.kind, raw)
		if err != nil {
			rec.Err = err
			return rec
		}
		*r.dst = models.Some(rating)
	}
	if raw, ok := fields["wordCount"]; ok && string(raw) != "null" {
		var n int
		if err := json.Unmarshal(raw, &n); err != nil || n < 0 {
			rec.Err = fmt.Errorf("invalid wordCount %s", raw)
			return rec
		}
		rec.Patch.WordCount = models.Some(n)
	}
	if raw, ok := fields["tasks"]; ok {
		var tasks []models.RawImportedTask
		// A non-array tasks value imports as an empty list.
		_ = json.Unmarshal(raw, &tasks)
		rec.Patch.Tasks = models.Some(models.NormalizeTasks(tasks))
	}
	fillWordCount(&rec)
	return rec
}

// jsonRating accepts a number, a numeric string, a label or null.
func jsonRating(kind models.RatingKind, raw json.RawMessage) (*int, error) {
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("invalid %s: %v", kind, err)
	}
	switch x := v.(type) {
	case nil:
		return nil, nil
	case float64:
		if x != float64(int(x)) {
			return nil, fmt.Errorf("%s rating %v is not a whole number", kind, x)
		}
		return kind.ParseRating(strconv.Itoa(int(x)))
	case string:
		return kind.ParseRating(x)
	default:
		return nil, fmt.Errorf("invalid %s value %s", kind, raw)
	}
}
