package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/linkhoard/linkhoard/pkg/linkhoard/collections"
	"github.com/linkhoard/linkhoard/pkg/linkhoard/models"
)

// Bookmark is a bookmark as seen by the client.
type Bookmark struct {
	ID          uint      `json:"id"`
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Notes       string    `json:"notes"`
	Tags        []string  `json:"tags"`
	Folders     []string  `json:"folders"`
	ArchiveURL  string    `json:"archive_url"`
	ToRead      bool      `json:"to_read"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// AddRequest carries a new bookmark.
type AddRequest struct {
	URL         string   `json:"url"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Notes       string   `json:"notes,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Folders     []string `json:"folders,omitempty"`
	ToRead      bool     `json:"to_read,omitempty"`
}

// Fields is a partial update; only non-nil fields are sent.
type Fields struct {
	URL         *string   `json:"url,omitempty"`
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Notes       *string   `json:"notes,omitempty"`
	Tags        *[]string `json:"tags,omitempty"`
	Folders     *[]string `json:"folders,omitempty"`
	ArchiveURL  *string   `json:"archive_url,omitempty"`
	ToRead      *bool     `json:"to_read,omitempty"`
}

type listResponse struct {
	Bookmarks []Bookmark `json:"bookmarks"`
	Total     int        `json:"total"`
	Page      int        `json:"page"`
	PageSize  int        `json:"page_size"`
}

// Store is the single source of truth for the user's bookmark collection in
// memory, with optimistic mutation helpers over a Client.
//
// Mutation failure semantics follow the original application: updates are
// applied locally before the remote call and reconciled by re-fetching when
// the call fails; deletes are not optimistic; adds propagate the error to
// the caller.
type Store struct {
	c *Client

	mu        sync.RWMutex
	bookmarks []Bookmark
	loaded    bool
}

// NewStore creates a store over the given client.
func NewStore(c *Client) *Store {
	return &Store{c: c}
}

const fetchPageSize = 100

// Fetch retrieves all of the user's bookmarks, newest first, and replaces
// the cache. background distinguishes silent refreshes from the first
// blocking load; on error the prior cache is left untouched either way.
func (s *Store) Fetch(ctx context.Context, background bool) error {
	var all []Bookmark
	for page := 1; ; page++ {
		q := url.Values{}
		q.Set("limit", strconv.Itoa(fetchPageSize))
		q.Set("page", strconv.Itoa(page))

		var resp listResponse
		if err := s.c.do(ctx, http.MethodGet, "/bookmarks?"+q.Encode(), nil, &resp); err != nil {
			return err
		}
		all = append(all, resp.Bookmarks...)
		if len(all) >= resp.Total || len(resp.Bookmarks) == 0 {
			break
		}
	}

	s.mu.Lock()
	s.bookmarks = all
	s.loaded = true
	s.mu.Unlock()
	return nil
}

// Loaded reports whether the first fetch has completed; callers use it to
// decide between a blocking loading state and a silent refresh.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Bookmarks returns a copy of the cached collection.
func (s *Store) Bookmarks() []Bookmark {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Bookmark, len(s.bookmarks))
	copy(out, s.bookmarks)
	return out
}

// Get returns the cached bookmark with the given id.
func (s *Store) Get(id uint) (Bookmark, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.bookmarks {
		if s.bookmarks[i].ID == id {
			return s.bookmarks[i], true
		}
	}
	return Bookmark{}, false
}

// Add creates a bookmark remotely, then silently re-fetches. Failures are
// returned to the caller, which is expected to surface them.
func (s *Store) Add(ctx context.Context, req AddRequest) error {
	if err := s.c.do(ctx, http.MethodPost, "/bookmarks", req, nil); err != nil {
		return err
	}
	return s.Fetch(ctx, true)
}

// Update applies the change locally first (optimistic), then issues the
// remote update. On remote failure the error is surfaced through the alert
// callback and the cache reconciled by a re-fetch.
func (s *Store) Update(ctx context.Context, id uint, fields Fields) error {
	s.mu.Lock()
	for i := range s.bookmarks {
		if s.bookmarks[i].ID == id {
			applyFields(&s.bookmarks[i], fields)
			break
		}
	}
	s.mu.Unlock()

	if err := s.c.do(ctx, http.MethodPut, fmt.Sprintf("/bookmarks/%d", id), fields, nil); err != nil {
		s.c.alert("Failed to update bookmark: " + err.Error())
		// Reconcile: the optimistic change may not match the server now.
		_ = s.Fetch(ctx, true)
		return err
	}
	return nil
}

// Delete removes a bookmark remotely, then locally. There is no optimistic
// delete: on failure the cache is left unchanged.
func (s *Store) Delete(ctx context.Context, id uint) error {
	if err := s.c.do(ctx, http.MethodDelete, fmt.Sprintf("/bookmarks/%d", id), nil, nil); err != nil {
		s.c.alert("Failed to delete bookmark: " + err.Error())
		return err
	}

	s.mu.Lock()
	for i := range s.bookmarks {
		if s.bookmarks[i].ID == id {
			s.bookmarks = append(s.bookmarks[:i], s.bookmarks[i+1:]...)
			break
		}
	}
	s.mu.Unlock()
	return nil
}

// ToggleRead flips the bookmark's read state.
func (s *Store) ToggleRead(ctx context.Context, id uint) error {
	b, ok := s.Get(id)
	if !ok {
		return fmt.Errorf("bookmark %d not in cache", id)
	}
	toRead := !b.ToRead
	return s.Update(ctx, id, Fields{ToRead: &toRead})
}

// SaveNotes replaces the bookmark's notes.
func (s *Store) SaveNotes(ctx context.Context, id uint, notes string) error {
	return s.Update(ctx, id, Fields{Notes: &notes})
}

// AddFolder files the bookmark under a folder (set union).
func (s *Store) AddFolder(ctx context.Context, id uint, folder string) error {
	b, ok := s.Get(id)
	if !ok {
		return fmt.Errorf("bookmark %d not in cache", id)
	}
	for _, f := range b.Folders {
		if f == folder {
			return nil
		}
	}
	folders := append(append([]string(nil), b.Folders...), folder)
	return s.Update(ctx, id, Fields{Folders: &folders})
}

// RemoveFolder removes the bookmark from a folder (set difference).
func (s *Store) RemoveFolder(ctx context.Context, id uint, folder string) error {
	b, ok := s.Get(id)
	if !ok {
		return fmt.Errorf("bookmark %d not in cache", id)
	}
	folders := make([]string, 0, len(b.Folders))
	for _, f := range b.Folders {
		if f != folder {
			folders = append(folders, f)
		}
	}
	return s.Update(ctx, id, Fields{Folders: &folders})
}

// DeleteFolder removes the folder from every bookmark containing it. Updates
// are issued concurrently and awaited together; successes are not reverted
// when a sibling fails. A final re-fetch reconciles the cache.
func (s *Store) DeleteFolder(ctx context.Context, folder string) error {
	var affected []Bookmark
	for _, b := range s.Bookmarks() {
		for _, f := range b.Folders {
			if f == folder {
				affected = append(affected, b)
				break
			}
		}
	}

	var g errgroup.Group
	for i := range affected {
		b := affected[i]
		g.Go(func() error {
			folders := make([]string, 0, len(b.Folders))
			for _, f := range b.Folders {
				if f != folder {
					folders = append(folders, f)
				}
			}
			return s.c.do(ctx, http.MethodPut, fmt.Sprintf("/bookmarks/%d", b.ID),
				Fields{Folders: &folders}, nil)
		})
	}

	err := g.Wait()
	if err != nil {
		s.c.alert("Failed to delete folder: " + err.Error())
	}
	if ferr := s.Fetch(ctx, true); err == nil {
		err = ferr
	}
	return err
}

// AllTags returns every distinct tag with its count, most used first,
// alphabetical on ties.
func (s *Store) AllTags() []collections.Count {
	return collections.CountTags(s.asModels())
}

// AllFolders returns every distinct folder with its count, alphabetical.
func (s *Store) AllFolders() []collections.Count {
	return collections.CountFolders(s.asModels())
}

func (s *Store) asModels() []models.Bookmark {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Bookmark, len(s.bookmarks))
	for i := range s.bookmarks {
		out[i] = models.Bookmark{
			Tags:    models.StringList(s.bookmarks[i].Tags),
			Folders: models.StringList(s.bookmarks[i].Folders),
		}
	}
	return out
}

// applyFields mirrors the server's partial update onto a cached bookmark.
func applyFields(b *Bookmark, f Fields) {
	if f.URL != nil {
		b.URL = *f.URL
	}
	if f.Title != nil {
		b.Title = *f.Title
	}
	if f.Description != nil {
		b.Description = *f.Description
	}
	if f.Notes != nil {
		b.Notes = *f.Notes
	}
	if f.Tags != nil {
		b.Tags = normalizeTags(*f.Tags)
	}
	if f.Folders != nil {
		b.Folders = append([]string(nil), *f.Folders...)
	}
	if f.ArchiveURL != nil {
		b.ArchiveURL = *f.ArchiveURL
	}
	if f.ToRead != nil {
		b.ToRead = *f.ToRead
	}
}

// normalizeTags matches the server-side tag invariant: lowercase, deduped.
func normalizeTags(tags []string) []string {
	return []string(models.NormalizeTags(tags))
}

// SortByCreatedDesc orders a bookmark slice newest first, the collection's
// canonical order.
func SortByCreatedDesc(list []Bookmark) {
	sort.Slice(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
}
