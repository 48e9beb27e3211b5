package bookmarks

import (
	"strings"

	"github.com/linkhoard/linkhoard/pkg/linkhoard/models"
)

// Criteria describes the active view filters. All set criteria must match
// for a bookmark to be shown (conjunctive filtering).
type Criteria struct {
	Query  string // free-text search term
	Tag    string // active tag, exact match
	Folder string // active folder, exact match
	Unread *bool  // nil = both read and unread
}

// Matches reports whether a bookmark satisfies every active criterion.
// The search term is matched case-insensitively against title, url,
// description, tags, and folders.
func (cr Criteria) Matches(b *models.Bookmark) bool {
	if cr.Unread != nil && b.ToRead != *cr.Unread {
		return false
	}
	if cr.Tag != "" && !b.HasTag(strings.ToLower(cr.Tag)) {
		return false
	}
	if cr.Folder != "" && !b.HasFolder(cr.Folder) {
		return false
	}
	if cr.Query != "" && !matchesQuery(b, cr.Query) {
		return false
	}
	return true
}

func matchesQuery(b *models.Bookmark, query string) bool {
	q := strings.ToLower(query)
	if strings.Contains(strings.ToLower(b.Title), q) ||
		strings.Contains(strings.ToLower(b.URL), q) ||
		strings.Contains(strings.ToLower(b.Description), q) {
		return true
	}
	for _, t := range b.Tags {
		if strings.Contains(strings.ToLower(t), q) {
			return true
		}
	}
	for _, f := range b.Folders {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

// Filter returns the bookmarks matching the criteria, preserving order.
func Filter(list []models.Bookmark, cr Criteria) []models.Bookmark {
	out := make([]models.Bookmark, 0, len(list))
	for i := range list {
		if cr.Matches(&list[i]) {
			out = append(out, list[i])
		}
	}
	return out
}
