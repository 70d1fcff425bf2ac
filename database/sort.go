package database

import (
	"fmt"
	"sort"

	"tasktracker/model"
)

// sortColumns maps allow-listed sort keys onto physical column names.
var sortColumns = map[model.SortColumn]string{
	model.SortByPriority: "priority",
	model.SortByName:     "name",
	model.SortByStatus:   "status",
	model.SortByCategory: "category",
}

func sortColumnName(col model.SortColumn) (string, error) {
	name, ok := sortColumns[col]
	if !ok {
		return "", fmt.Errorf("%w: unknown sort column %q", model.ErrValidation, col)
	}
	return name, nil
}

// sortTasks orders tasks in memory the same way the SQL backends do: nil
// priorities last, ties broken by ascending id.
func sortTasks(tasks []model.Task, col model.SortColumn) {
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
		switch col {
		case model.SortByName:
			if a.Name != b.Name {
				return a.Name < b.Name
			}
		case model.SortByStatus:
			if a.Status != b.Status {
				return a.Status < b.Status
			}
		case model.SortByCategory:
			if a.Category != b.Category {
				return a.Category < b.Category
			}
		default:
			switch {
			case a.Priority == nil && b.Priority != nil:
				return false
			case a.Priority != nil && b.Priority == nil:
				return true
			case a.Priority != nil && b.Priority != nil && *a.Priority != *b.Priority:
				return *a.Priority < *b.Priority
			}
		}
		return a.ID < b.ID
	})
}
