package models

// UserStats is the incrementally maintained streak cache for one owner.
// WeeklyDays is indexed 0=Sunday..6=Saturday within the week starting WeekStart.
type UserStats struct {
	OwnerID         string  `json:"userId"`
	LastCheckInDate string  `json:"lastCheckInDate"`
	CurrentStreak   int     `json:"currentStreak"`
	LongestStreak   int     `json:"longestStreak"`
	WeekStart       string  `json:"weekStart"`
	WeeklyDays      [7]bool `json:"weeklyDays"`
}

// WeeklyCount returns the number of marked days in the tracked week.
func (s UserStats) WeeklyCount() int {
	n := 0
	for _, d := range s.WeeklyDays {
		if d {
			n++
		}
	}
	return n
}

// StreakSummary is derived purely from entry history and is authoritative
// over UserStats.
type StreakSummary struct {
	CurrentStreak      int             `json:"currentStreak"`
	LongestStreak      int             `json:"longestStreak"`
	TotalDaysChecked   int             `json:"totalDaysChecked"`
	TotalJournalDays   int             `json:"totalJournalDays"`
	TotalMoodDays      int             `json:"totalMoodDays"`
	TotalEnergyDays    int             `json:"totalEnergyDays"`
	CurrentWeekCount   int             `json:"currentWeekCount"`
	CompletedFullWeeks int             `json:"completedFullWeeks"`
	CheckinsByDate     map[string]bool `json:"checkinsByDate"`
}

// TaskDayStats summarizes the tasks of one date.
type TaskDayStats struct {
	Total int     `json:"total"`
	Done  int     `json:"done"`
	Rate  float64 `json:"rate"` // percent, 0 when Total is 0
}

// MoodSummary aggregates mood ratings over a date range.
type MoodSummary struct {
	TotalEntries int            `json:"totalEntries"`
	DaysWithData int            `json:"daysWithData"`
	AverageMood  float64        `json:"averageMood"`
	Distribution map[string]int `json:"distribution"`
	StartDate    string         `json:"startDate"`
	EndDate      string         `json:"endDate"`
}
