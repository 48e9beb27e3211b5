// Package viewstate implements the permalink contract: the set of URL query
// parameters that deterministically reconstruct a view and its filters, so
// links are shareable and the browser's back button works.
package viewstate

import (
	"net/url"
	"strconv"
)

// View identifies what the client is showing.
type View string

const (
	ViewList     View = "list"
	ViewAdd      View = "add"
	ViewDetail   View = "detail"
	ViewTags     View = "tags"
	ViewFolders  View = "folders"
	ViewSettings View = "settings"
	ViewUnread   View = "unread"
	ViewAbout    View = "about"
	ViewTerms    View = "terms"
	ViewPrivacy  View = "privacy"
)

// staticPages are the views reachable through the "p" parameter.
var staticPages = map[string]View{
	"unread":   ViewUnread,
	"tags":     ViewTags,
	"folders":  ViewFolders,
	"settings": ViewSettings,
	"about":    ViewAbout,
	"terms":    ViewTerms,
	"privacy":  ViewPrivacy,
}

// State is the decoded view state.
type State struct {
	View       View
	Popup      bool   // mode=popup, the extension's narrow-viewport variant
	ShareURL   string // incoming shared URL to pre-fill the add form
	ShareTitle string
	BookmarkID uint   // selected bookmark for the detail view
	Tag        string // active tag filter
	Folder     string // active folder filter
	Page       int    // pagination page, 1-based, layered over any view
}

// Parse decodes query parameters into a State. Precedence when several
// parameters are present: incoming shared URL > selected bookmark id >
// active tag > active folder > named static page. The pagination page is
// parsed independently of that chain.
func Parse(values url.Values) State {
	s := State{View: ViewList, Page: 1}

	s.Popup = values.Get("mode") == "popup"

	if page := values.Get("page"); page != "" {
		if n, err := strconv.Atoi(page); err == nil && n > 0 {
			s.Page = n
		}
	}

	if shared := values.Get("url"); shared != "" {
		s.View = ViewAdd
		s.ShareURL = shared
		s.ShareTitle = values.Get("title")
		return s
	}

	if id := values.Get("id"); id != "" {
		if n, err := strconv.ParseUint(id, 10, 32); err == nil && n > 0 {
			s.View = ViewDetail
			s.BookmarkID = uint(n)
			return s
		}
	}

	if tag := values.Get("tag"); tag != "" {
		s.Tag = tag
		return s
	}

	if folder := values.Get("folder"); folder != "" {
		s.Folder = folder
		return s
	}

	if p := values.Get("p"); p != "" {
		if view, ok := staticPages[p]; ok {
			s.View = view
		}
	}

	return s
}

// Query encodes the state back into query parameters. Only parameters that
// carry information are emitted, so the default list view encodes to an
// empty string.
func (s State) Query() url.Values {
	values := url.Values{}

	if s.Popup {
		values.Set("mode", "popup")
	}

	switch {
	case s.ShareURL != "":
		values.Set("url", s.ShareURL)
		if s.ShareTitle != "" {
			values.Set("title", s.ShareTitle)
		}
	case s.BookmarkID > 0:
		values.Set("id", strconv.FormatUint(uint64(s.BookmarkID), 10))
	case s.Tag != "":
		values.Set("tag", s.Tag)
	case s.Folder != "":
		values.Set("folder", s.Folder)
	default:
		for name, view := range staticPages {
			if view == s.View {
				values.Set("p", name)
				break
			}
		}
	}

	if s.Page > 1 {
		values.Set("page", strconv.Itoa(s.Page))
	}

	return values
}

// WithTag returns the state after activating a tag filter. Mutually
// exclusive parameters (folder, selection, pagination) are reset.
func (s State) WithTag(tag string) State {
	return State{View: ViewList, Popup: s.Popup, Tag: tag, Page: 1}
}

// WithFolder returns the state after activating a folder filter.
func (s State) WithFolder(folder string) State {
	return State{View: ViewList, Popup: s.Popup, Folder: folder, Page: 1}
}

// WithBookmark returns the state after selecting a bookmark.
func (s State) WithBookmark(id uint) State {
	return State{View: ViewDetail, Popup: s.Popup, BookmarkID: id, Page: 1}
}

// WithView returns the state after navigating to a named view, clearing all
// filters.
func (s State) WithView(view View) State {
	return State{View: view, Popup: s.Popup, Page: 1}
}

// WithPage returns the state on a different pagination page. Unlike the
// other transitions, the active filter is preserved across page turns.
func (s State) WithPage(page int) State {
	if page < 1 {
		page = 1
	}
	s.Page = page
	return s
}
