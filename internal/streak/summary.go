package streak

import (
	"math"
	"sort"

	"github.com/julianstephens/rindful/internal/constants"
	"github.com/julianstephens/rindful/internal/models"
	"github.com/julianstephens/rindful/internal/utils"
)

// checkInDates returns the distinct dates that count as check-ins, ascending.
func checkInDates(entries []models.DailyEntry) []string {
	seen := make(map[string]bool, len(entries))
	dates := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsCheckIn() || seen[e.Date] || !utils.IsValidDate(e.Date) {
			continue
		}
		seen[e.Date] = true
		dates = append(dates, e.Date)
	}
	sort.Strings(dates)
	return dates
}

// ComputeSummary derives streak statistics from history alone. It is the
// authority when it disagrees with the cache.
func ComputeSummary(entries []models.DailyEntry, today string) models.StreakSummary {
	summary := models.StreakSummary{CheckinsByDate: make(map[string]bool)}

	for _, e := range entries {
		if e.HasContent() {
			summary.TotalJournalDays++
		}
		if e.Mood != nil {
			summary.TotalMoodDays++
		}
		if e.Energy != nil {
			summary.TotalEnergyDays++
		}
	}

	dates := checkInDates(entries)
	for _, d := range dates {
		summary.CheckinsByDate[d] = true
	}
	summary.TotalDaysChecked = len(dates)

	for d := today; summary.CheckinsByDate[d]; d = shiftDay(d, -1) {
		summary.CurrentStreak++
	}

	run := 0
	for i, d := range dates {
		if i > 0 && shiftDay(dates[i-1], 1) == d {
			run++
		} else {
			run = 1
		}
		if run > summary.LongestStreak {
			summary.LongestStreak = run
		}
	}

	weeks := make(map[string]int)
	for _, d := range dates {
		weeks[weekStart(d)]++
	}
	for _, n := range weeks {
		if n == constants.DaysPerWeek {
			summary.CompletedFullWeeks++
		}
	}
	summary.CurrentWeekCount = weeks[weekStart(today)]

	return summary
}

// TaskRollup returns per-date task totals. Dates without tasks are omitted.
func TaskRollup(entries []models.DailyEntry) map[string]models.TaskDayStats {
	out := make(map[string]models.TaskDayStats)
	for _, e := range entries {
		if len(e.Tasks) == 0 {
			continue
		}
		s := out[e.Date]
		s.Total += len(e.Tasks)
		s.Done += models.CountCompleted(e.Tasks)
		s.Rate = math.Round(float64(s.Done) / float64(s.Total) * 100)
		out[e.Date] = s
	}
	return out
}

// CompletedInWindow counts completed tasks across entries, typically the
// last seven days, and the average per day of the window.
func CompletedInWindow(entries []models.DailyEntry, days int) (int, float64) {
	total := 0
	for _, e := range entries {
		total += models.CountCompleted(e.Tasks)
	}
	if days <= 0 {
		return total, 0
	}
	return total, math.Round(float64(total)/float64(days)*10) / 10
}

// MoodSummary aggregates the entries that carry a mood rating.
func MoodSummary(entries []models.DailyEntry) models.MoodSummary {
	rated := make([]models.DailyEntry, 0, len(entries))
	for _, e := range entries {
		if e.Mood != nil {
			rated = append(rated, e)
		}
	}
	sort.SliceStable(rated, func(i, j int) bool { return rated[i].Date < rated[j].Date })

	summary := models.MoodSummary{Distribution: make(map[string]int)}
	if len(rated) == 0 {
		return summary
	}

	sum := 0
	days := make(map[string]bool)
	for _, e := range rated {
		sum += *e.Mood
		days[e.Date] = true
		summary.Distribution[models.RatingMood.Label(e.Mood)]++
	}
	summary.TotalEntries = len(rated)
	summary.DaysWithData = len(days)
	summary.AverageMood = math.Round(float64(sum)/float64(len(rated))*100) / 100
	summary.StartDate = rated[0].Date
	summary.EndDate = rated[len(rated)-1].Date
	return summary
}
