package cli

import (
	"fmt"
	"sort"
	"strings"
)

// SortOrder represents the available sorting options for file summaries
type SortOrder string

const (
	SortByName  SortOrder = "name"
	SortByRows  SortOrder = "rows"
	SortByGames SortOrder = "games"
)

func parseSortOrder(s string) (SortOrder, error) {
	order := SortOrder(strings.ToLower(strings.TrimSpace(s)))
	switch order {
	case SortByName, SortByRows, SortByGames:
		return order, nil
	}
	return "", fmt.Errorf("invalid sort order: %s (must be 'name', 'rows' or 'games')", s)
}

// sortFiles sorts summaries by the given order. Counts sort descending;
// ties fall back to the file name.
func sortFiles(files []FileSummary, order SortOrder) {
	switch order {
	case SortByName:
		sort.SliceStable(files, func(i, j int) bool {
			return files[i].Name < files[j].Name
		})
	case SortByRows:
		sort.SliceStable(files, func(i, j int) bool {
			if files[i].Rows != files[j].Rows {
				return files[i].Rows > files[j].Rows
			}
			return files[i].Name < files[j].Name
		})
	case SortByGames:
		sort.SliceStable(files, func(i, j int) bool {
			if files[i].Games != files[j].Games {
				return files[i].Games > files[j].Games
			}
			return files[i].Name < files[j].Name
		})
	}
}
