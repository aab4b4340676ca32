package utils

import "github.com/julianstephens/ogtodo/internal/models"

// CalculateStats counts tasks and subtasks and how many of each are completed.
func CalculateStats(tasks []models.Task) models.TaskStats {
	var stats models.TaskStats
	for _, task := range tasks {
		stats.TotalTasks++
		if task.Completed {
			stats.CompletedTasks++
		}
		for _, sub := range task.SubTasks {
			stats.TotalSubTasks++
			if sub.Completed {
				stats.CompletedSubTasks++
			}
		}
	}
	return stats
}

// CheckAllTasksCompleted reports whether every task is completed and, for tasks
// that have subtasks, every subtask is completed too. An empty list counts as completed.
func CheckAllTasksCompleted(tasks []models.Task) bool {
	for _, task := range tasks {
		if !task.Completed {
			return false
		}
		for _, sub := range task.SubTasks {
			if !sub.Completed {
				return false
			}
		}
	}
	return true
}

// CompletionRate returns completed/total as a percentage, 0 when total is 0.
func CompletionRate(completed, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(completed) / float64(total) * 100
}
