package utils

import (
	"sort"
	"time"

	"github.com/julianstephens/ogtodo/internal/models"
)

// GetMonthGridData builds the calendar cells for a month. The first cells are
// placeholders so that day 1 lands on its weekday column (Sunday first).
// Today and Future are only set when year/month is now's month.
func GetMonthGridData(year int, month time.Month, completed map[int]bool, now time.Time) []models.GridCell {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	offset := int(first.Weekday())
	days := DaysInMonth(year, month)

	currentMonth := now.Year() == year && now.Month() == month
	today := now.Day()

	cells := make([]models.GridCell, 0, offset+days)
	for i := 0; i < offset; i++ {
		cells = append(cells, models.GridCell{Empty: true})
	}
	for day := 1; day <= days; day++ {
		cells = append(cells, models.GridCell{
			Day:       day,
			Completed: completed[day],
			Today:     currentMonth && day == today,
			Future:    currentMonth && day > today,
		})
	}
	return cells
}

// CompletedDaysForMonth returns the days of year/month on which a fully
// completed todo was last updated, evaluated in loc.
func CompletedDaysForMonth(todos []models.Todo, year int, month time.Month, loc *time.Location) map[int]bool {
	days := make(map[int]bool)
	for _, todo := range todos {
		if !todo.HasCompletedAllTasks {
			continue
		}
		u := todo.UpdatedAt.In(loc)
		if u.Year() == year && u.Month() == month {
			days[u.Day()] = true
		}
	}
	return days
}

// SortedDays returns the keys of a day set in ascending order.
func SortedDays(days map[int]bool) []int {
	out := make([]int, 0, len(days))
	for d, ok := range days {
		if ok {
			out = append(out, d)
		}
	}
	sort.Ints(out)
	return out
}
