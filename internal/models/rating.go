package models

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/julianstephens/rindful/internal/constants"
)

type RatingKind string

const (
	RatingMood   RatingKind = "mood"
	RatingEnergy RatingKind = "energy"
)

var moodLabels = [5]string{"Very Low", "Low", "Neutral", "Good", "Great"}

var energyLabels = [5]string{"Exhausted", "Low Energy", "Okay", "Energetic", "Very Energized"}

func (k RatingKind) labels() [5]string {
	if k == RatingEnergy {
		return energyLabels
	}
	return moodLabels
}

// Labels returns the ordered labels for ratings 1..5.
func (k RatingKind) Labels() []string {
	l := k.labels()
	return l[:]
}

// Label renders a rating as its human label; nil and out-of-range values render as N/A.
func (k RatingKind) Label(v *int) string {
	if v == nil || *v < constants.MinRating || *v > constants.MaxRating {
		return constants.NotApplicable
	}
	return k.labels()[*v-1]
}

// ParseRating accepts "1".."5" or a label (case-insensitive). Empty and N/A
// parse as absent.
func (k RatingKind) ParseRating(s string) (*int, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, constants.NotApplicable) {
		return nil, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		if n < constants.MinRating || n > constants.MaxRating {
			return nil, fmt.Errorf("%s rating %d out of range 1-5", k, n)
		}
		return IntPtr(n), nil
	}
	for i, label := range k.labels() {
		if strings.EqualFold(s, label) {
			return IntPtr(i + 1), nil
		}
	}
	return nil, fmt.Errorf("unknown %s rating %q", k, s)
}

// ValidRating reports whether v is absent or within 1..5.
func ValidRating(v *int) bool {
	return v == nil || (*v >= constants.MinRating && *v <= constants.MaxRating)
}
