package viewstate

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseQuery(t *testing.T, raw string) State {
	values, err := url.ParseQuery(raw)
	require.NoError(t, err)
	return Parse(values)
}

func TestParseDefaults(t *testing.T) {
	s := parseQuery(t, "")
	assert.Equal(t, ViewList, s.View)
	assert.Equal(t, 1, s.Page)
	assert.False(t, s.Popup)
	assert.Empty(t, s.Tag)
	assert.Empty(t, s.Folder)
}

func TestParseTagFilter(t *testing.T) {
	s := parseQuery(t, "tag=news")
	assert.Equal(t, ViewList, s.View)
	assert.Equal(t, "news", s.Tag)
}

func TestParseFolderFilter(t *testing.T) {
	s := parseQuery(t, "folder=Work")
	assert.Equal(t, ViewList, s.View)
	assert.Equal(t, "Work", s.Folder)
}

func TestParseSharedURLWinsOverEverything(t *testing.T) {
	s := parseQuery(t, "url=https%3A%2F%2Fexample.com&title=Example&id=7&tag=go&folder=Work&p=settings")
	assert.Equal(t, ViewAdd, s.View)
	assert.Equal(t, "https://example.com", s.ShareURL)
	assert.Equal(t, "Example", s.ShareTitle)
	assert.Zero(t, s.BookmarkID)
	assert.Empty(t, s.Tag)
	assert.Empty(t, s.Folder)
}

func TestParseIDWinsOverTagAndFolder(t *testing.T) {
	s := parseQuery(t, "id=42&tag=go&folder=Work")
	assert.Equal(t, ViewDetail, s.View)
	assert.Equal(t, uint(42), s.BookmarkID)
	assert.Empty(t, s.Tag)
}

func TestParseTagWinsOverFolder(t *testing.T) {
	s := parseQuery(t, "tag=go&folder=Work&p=tags")
	assert.Equal(t, "go", s.Tag)
	assert.Empty(t, s.Folder)
	assert.Equal(t, ViewList, s.View)
}

func TestParseStaticPages(t *testing.T) {
	for name, view := range staticPages {
		s := parseQuery(t, "p="+name)
		assert.Equal(t, view, s.View, "p=%s", name)
	}

	// Unknown page names fall back to the list.
	s := parseQuery(t, "p=bogus")
	assert.Equal(t, ViewList, s.View)
}

func TestParsePageIsIndependent(t *testing.T) {
	s := parseQuery(t, "tag=go&page=3")
	assert.Equal(t, "go", s.Tag)
	assert.Equal(t, 3, s.Page)

	s = parseQuery(t, "page=0")
	assert.Equal(t, 1, s.Page)

	s = parseQuery(t, "page=junk")
	assert.Equal(t, 1, s.Page)
}

func TestParsePopupMode(t *testing.T) {
	s := parseQuery(t, "mode=popup&url=https%3A%2F%2Fexample.com")
	assert.True(t, s.Popup)
	assert.Equal(t, ViewAdd, s.View)
}

func TestQueryRoundTrip(t *testing.T) {
	cases := []string{
		"",
		"tag=go",
		"tag=go&page=3",
		"folder=Work",
		"id=42",
		"mode=popup&title=Example&url=https%3A%2F%2Fexample.com",
		"p=unread",
		"p=settings",
	}

	for _, raw := range cases {
		values, err := url.ParseQuery(raw)
		require.NoError(t, err)
		s := Parse(values)
		assert.Equal(t, values.Encode(), s.Query().Encode(), "raw=%q", raw)
	}
}

func TestWithTagResetsOtherFilters(t *testing.T) {
	s := parseQuery(t, "folder=Work&page=3&mode=popup")
	next := s.WithTag("go")

	assert.Equal(t, "go", next.Tag)
	assert.Empty(t, next.Folder)
	assert.Equal(t, 1, next.Page)
	assert.Equal(t, ViewList, next.View)
	assert.True(t, next.Popup, "popup mode survives navigation")
}

func TestWithFolderResetsOtherFilters(t *testing.T) {
	s := parseQuery(t, "tag=go&page=2")
	next := s.WithFolder("Work")

	assert.Equal(t, "Work", next.Folder)
	assert.Empty(t, next.Tag)
	assert.Equal(t, 1, next.Page)
}

func TestWithBookmark(t *testing.T) {
	s := parseQuery(t, "tag=go")
	next := s.WithBookmark(7)

	assert.Equal(t, ViewDetail, next.View)
	assert.Equal(t, uint(7), next.BookmarkID)
	assert.Empty(t, next.Tag)
}

func TestWithPagePreservesFilter(t *testing.T) {
	s := parseQuery(t, "tag=go")
	next := s.WithPage(4)

	assert.Equal(t, "go", next.Tag)
	assert.Equal(t, 4, next.Page)

	assert.Equal(t, 1, s.WithPage(0).Page)
}

func TestWithViewClearsFilters(t *testing.T) {
	s := parseQuery(t, "tag=go&page=5")
	next := s.WithView(ViewUnread)

	assert.Equal(t, ViewUnread, next.View)
	assert.Empty(t, next.Tag)
	assert.Equal(t, 1, next.Page)
}
