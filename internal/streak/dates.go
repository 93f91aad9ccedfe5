package streak

import "github.com/julianstephens/rindful/internal/utils"

// Date helpers for dates already known to be valid. An invalid input yields
// "" (or Sunday), which never matches a stored date.

func shiftDay(date string, n int) string {
	d, _ := utils.AddDays(date, n)
	return d
}

func weekStart(date string) string {
	d, _ := utils.WeekStart(date)
	return d
}

func weekday(date string) int {
	d, _ := utils.Weekday(date)
	return d
}
