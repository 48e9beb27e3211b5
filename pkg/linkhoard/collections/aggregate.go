package collections

import (
	"sort"

	"github.com/linkhoard/linkhoard/pkg/linkhoard/models"
)

// Count pairs a tag or folder name with the number of bookmarks carrying it.
type Count struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// CountTags scans the bookmark list and returns each distinct tag with its
// occurrence count, sorted by count descending, then alphabetically on ties.
func CountTags(list []models.Bookmark) []Count {
	counts := make(map[string]int)
	for i := range list {
		for _, t := range list[i].Tags {
			counts[t]++
		}
	}

	out := make([]Count, 0, len(counts))
	for name, n := range counts {
		out = append(out, Count{Name: name, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// CountFolders scans the bookmark list and returns each distinct folder with
// its occurrence count, sorted alphabetically.
func CountFolders(list []models.Bookmark) []Count {
	counts := make(map[string]int)
	for i := range list {
		for _, f := range list[i].Folders {
			counts[f]++
		}
	}

	out := make([]Count, 0, len(counts))
	for name, n := range counts {
		out = append(out, Count{Name: name, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out
}
