package bookmarks

import (
	"testing"

	"github.com/linkhoard/linkhoard/pkg/linkhoard/models"
)

func boolPtr(b bool) *bool { return &b }

func sample() []models.Bookmark {
	return []models.Bookmark{
		{ID: 1, Title: "Go Blog", URL: "https://go.dev/blog", Description: "The Go programming language blog",
			Tags: models.StringList{"go", "news"}, Folders: models.StringList{"Work"}, ToRead: false},
		{ID: 2, Title: "HN", URL: "https://news.ycombinator.com", Description: "",
			Tags: models.StringList{"news"}, Folders: models.StringList{}, ToRead: true},
		{ID: 3, Title: "Recipes", URL: "https://example.com/pasta", Description: "Dinner ideas",
			Tags: models.StringList{"cooking"}, Folders: models.StringList{"Home", "Work"}, ToRead: true},
	}
}

func ids(list []models.Bookmark) []uint {
	out := make([]uint, len(list))
	for i, b := range list {
		out[i] = b.ID
	}
	return out
}

func TestFilterNoCriteriaKeepsAll(t *testing.T) {
	got := Filter(sample(), Criteria{})
	if len(got) != 3 {
		t.Errorf("Expected 3 bookmarks, got %d", len(got))
	}
}

func TestFilterByTag(t *testing.T) {
	got := Filter(sample(), Criteria{Tag: "news"})
	if len(got) != 2 || got[0].ID != 1 || got[1].ID != 2 {
		t.Errorf("Expected [1 2], got %v", ids(got))
	}
}

func TestFilterTagIsCaseInsensitiveInput(t *testing.T) {
	// Stored tags are lowercase; the active tag may come from a URL in any case.
	got := Filter(sample(), Criteria{Tag: "News"})
	if len(got) != 2 {
		t.Errorf("Expected 2 bookmarks, got %d", len(got))
	}
}

func TestFilterByFolder(t *testing.T) {
	got := Filter(sample(), Criteria{Folder: "Work"})
	if len(got) != 2 || got[0].ID != 1 || got[1].ID != 3 {
		t.Errorf("Expected [1 3], got %v", ids(got))
	}
}

func TestFilterByUnread(t *testing.T) {
	got := Filter(sample(), Criteria{Unread: boolPtr(true)})
	if len(got) != 2 || got[0].ID != 2 || got[1].ID != 3 {
		t.Errorf("Expected [2 3], got %v", ids(got))
	}
}

func TestFilterQuerySearchesAllFields(t *testing.T) {
	cases := []struct {
		query string
		want  []uint
	}{
		{"GO.DEV", []uint{1}},       // url, case-insensitive
		{"dinner", []uint{3}},       // description
		{"cooking", []uint{3}},      // tag
		{"work", []uint{1, 3}},      // folder
		{"blog", []uint{1}},         // title and description
		{"nonexistent", []uint{}},
	}

	for _, tc := range cases {
		got := ids(Filter(sample(), Criteria{Query: tc.query}))
		if len(got) != len(tc.want) {
			t.Errorf("query %q: expected %v, got %v", tc.query, tc.want, got)
			continue
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Errorf("query %q: expected %v, got %v", tc.query, tc.want, got)
				break
			}
		}
	}
}

func TestFilterIsConjunctive(t *testing.T) {
	// A bookmark is shown iff it matches read state AND tag AND folder AND query.
	cr := Criteria{Tag: "news", Folder: "Work", Query: "go", Unread: boolPtr(false)}
	got := Filter(sample(), cr)
	if len(got) != 1 || got[0].ID != 1 {
		t.Errorf("Expected only bookmark 1, got %v", ids(got))
	}

	// Flipping one criterion breaks the conjunction.
	cr.Unread = boolPtr(true)
	if got := Filter(sample(), cr); len(got) != 0 {
		t.Errorf("Expected no matches, got %v", ids(got))
	}
}
