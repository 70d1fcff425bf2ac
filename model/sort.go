package model

import "fmt"

// SortColumn is a task list ordering accepted from clients.
type SortColumn string

const (
	SortByPriority SortColumn = "priority"
	SortByName     SortColumn = "name"
	SortByStatus   SortColumn = "status"
	SortByCategory SortColumn = "category"
)

const DefaultSort = SortByPriority

// ParseSortColumn maps a raw sort_by value onto the allow-list. An empty
// value selects DefaultSort.
func ParseSortColumn(raw string) (SortColumn, error) {
	switch SortColumn(raw) {
	case "":
		return DefaultSort, nil
	case SortByPriority, SortByName, SortByStatus, SortByCategory:
		return SortColumn(raw), nil
	}
	return "", fmt.Errorf("%w: unknown sort column %q", ErrValidation, raw)
}
