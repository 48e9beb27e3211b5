package bookmarks

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/linkhoard/linkhoard/pkg/linkhoard/auth"
	"github.com/linkhoard/linkhoard/pkg/linkhoard/models"
	"gorm.io/gorm"
)

// DefaultPageSize is used when the request carries no limit.
const DefaultPageSize = 20

// Notifier receives bookmark change events for fan-out to connected
// clients. A nil Notifier disables notifications.
type Notifier interface {
	NotifyBookmark(userID uint, action string, bookmarkID uint)
}

// Handler handles bookmark-related requests
type Handler struct {
	db          *gorm.DB
	archiveBase string
	notifier    Notifier
}

// NewHandler creates a new bookmarks handler. archiveBase is the default
// archive service prefix used when the user has not configured one.
func NewHandler(db *gorm.DB, archiveBase string, notifier Notifier) *Handler {
	return &Handler{db: db, archiveBase: archiveBase, notifier: notifier}
}

// CreateBookmarkRequest represents the request to create a bookmark
type CreateBookmarkRequest struct {
	URL         string   `json:"url" binding:"required,url"`
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description"`
	Notes       string   `json:"notes"`
	Tags        []string `json:"tags"`
	Folders     []string `json:"folders"`
	ToRead      bool     `json:"to_read"`
}

// UpdateBookmarkRequest represents a partial update. Only non-nil fields
// are applied.
type UpdateBookmarkRequest struct {
	URL         *string   `json:"url" binding:"omitempty,url"`
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Notes       *string   `json:"notes"`
	Tags        *[]string `json:"tags"`
	Folders     *[]string `json:"folders"`
	ArchiveURL  *string   `json:"archive_url"`
	ToRead      *bool     `json:"to_read"`
}

// FolderRequest names a folder for add/remove operations on a bookmark
type FolderRequest struct {
	Name string `json:"name" binding:"required"`
}

// NotesRequest carries a notes replacement
type NotesRequest struct {
	Notes string `json:"notes"`
}

// BookmarkResponse represents a bookmark in API responses
type BookmarkResponse struct {
	ID          uint     `json:"id"`
	URL         string   `json:"url"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Notes       string   `json:"notes"`
	Tags        []string `json:"tags"`
	Folders     []string `json:"folders"`
	ArchiveURL  string   `json:"archive_url"`
	ToRead      bool     `json:"to_read"`
	CreatedAt   string   `json:"created_at"`
	UpdatedAt   string   `json:"updated_at"`
}

// ListResponse wraps a page of bookmarks with pagination info
type ListResponse struct {
	Bookmarks []BookmarkResponse `json:"bookmarks"`
	Total     int                `json:"total"`
	Page      int                `json:"page"`
	PageSize  int                `json:"page_size"`
}

func bookmarkToResponse(b models.Bookmark) BookmarkResponse {
	tags := b.Tags
	if tags == nil {
		tags = models.StringList{}
	}
	folders := b.Folders
	if folders == nil {
		folders = models.StringList{}
	}
	return BookmarkResponse{
		ID:          b.ID,
		URL:         b.URL,
		Title:       b.Title,
		Description: b.Description,
		Notes:       b.Notes,
		Tags:        tags,
		Folders:     folders,
		ArchiveURL:  b.ArchiveURL,
		ToRead:      b.ToRead,
		CreatedAt:   b.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt:   b.UpdatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

func (h *Handler) notify(userID uint, action string, bookmarkID uint) {
	if h.notifier != nil {
		h.notifier.NotifyBookmark(userID, action, bookmarkID)
	}
}

// fetchForUser loads all of a user's bookmarks, newest first.
func (h *Handler) fetchForUser(userID uint) ([]models.Bookmark, error) {
	var list []models.Bookmark
	err := h.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&list).Error
	return list, err
}

// getOwned loads a bookmark by id and verifies ownership.
func (h *Handler) getOwned(c *gin.Context) (*models.Bookmark, bool) {
	userID, _ := auth.GetUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid bookmark ID"})
		return nil, false
	}

	var bookmark models.Bookmark
	if err := h.db.Where("id = ? AND user_id = ?", id, userID).First(&bookmark).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Bookmark not found"})
		return nil, false
	}
	return &bookmark, true
}

// List returns the user's bookmarks, newest first, with optional filters
// @Summary List bookmarks
// @Description List the user's bookmarks with conjunctive filters and pagination
// @Tags bookmarks
// @Produce json
// @Param q query string false "Search term (title, URL, description, tags, folders)"
// @Param tag query string false "Filter by tag"
// @Param folder query string false "Filter by folder"
// @Param unread query bool false "Filter by read state"
// @Param page query int false "Page number (1-based)"
// @Param limit query int false "Page size (default 20, max 100)"
// @Success 200 {object} ListResponse
// @Security BearerAuth
// @Router /bookmarks [get]
func (h *Handler) List(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	list, err := h.fetchForUser(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch bookmarks"})
		return
	}

	cr := Criteria{
		Query:  c.Query("q"),
		Tag:    c.Query("tag"),
		Folder: c.Query("folder"),
	}
	if unread := c.Query("unread"); unread != "" {
		v := unread == "true"
		cr.Unread = &v
	}

	// Tag and folder membership live inside JSON columns, so filtering
	// happens in memory over the already user-scoped rows.
	filtered := Filter(list, cr)

	page := 1
	if p := c.Query("page"); p != "" {
		if parsed, err := strconv.Atoi(p); err == nil && parsed > 0 {
			page = parsed
		}
	}
	pageSize := DefaultPageSize
	if l := c.Query("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= 100 {
			pageSize = parsed
		}
	}

	start := (page - 1) * pageSize
	if start > len(filtered) {
		start = len(filtered)
	}
	end := start + pageSize
	if end > len(filtered) {
		end = len(filtered)
	}

	responses := make([]BookmarkResponse, 0, end-start)
	for _, b := range filtered[start:end] {
		responses = append(responses, bookmarkToResponse(b))
	}

	c.JSON(http.StatusOK, ListResponse{
		Bookmarks: responses,
		Total:     len(filtered),
		Page:      page,
		PageSize:  pageSize,
	})
}

// Get returns a single bookmark
// @Summary Get a bookmark
// @Tags bookmarks
// @Produce json
// @Param id path int true "Bookmark ID"
// @Success 200 {object} BookmarkResponse
// @Failure 404 {object} map[string]string "Bookmark not found"
// @Security BearerAuth
// @Router /bookmarks/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	bookmark, ok := h.getOwned(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, bookmarkToResponse(*bookmark))
}

// Create creates a new bookmark
// @Summary Create a bookmark
// @Description Save a URL with title, description, notes, tags, and folders
// @Tags bookmarks
// @Accept json
// @Produce json
// @Param request body CreateBookmarkRequest true "Bookmark details"
// @Success 201 {object} BookmarkResponse
// @Failure 400 {object} map[string]string "Validation error"
// @Security BearerAuth
// @Router /bookmarks [post]
func (h *Handler) Create(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	var req CreateBookmarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	bookmark := models.Bookmark{
		UserID:      userID,
		URL:         req.URL,
		Title:       req.Title,
		Description: req.Description,
		Notes:       req.Notes,
		Tags:        models.NormalizeTags(req.Tags),
		Folders:     models.NormalizeFolders(req.Folders),
		ToRead:      req.ToRead,
	}

	if err := h.db.Create(&bookmark).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create bookmark"})
		return
	}

	h.notify(userID, "created", bookmark.ID)
	c.JSON(http.StatusCreated, bookmarkToResponse(bookmark))
}

// Update applies a partial update to a bookmark
// @Summary Update a bookmark
// @Description Apply a field-level partial update
// @Tags bookmarks
// @Accept json
// @Produce json
// @Param id path int true "Bookmark ID"
// @Param request body UpdateBookmarkRequest true "Changed fields"
// @Success 200 {object} BookmarkResponse
// @Failure 400 {object} map[string]string "Validation error"
// @Failure 404 {object} map[string]string "Bookmark not found"
// @Security BearerAuth
// @Router /bookmarks/{id} [put]
func (h *Handler) Update(c *gin.Context) {
	bookmark, ok := h.getOwned(c)
	if !ok {
		return
	}

	var req UpdateBookmarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.URL != nil {
		bookmark.URL = *req.URL
	}
	if req.Title != nil {
		bookmark.Title = *req.Title
	}
	if req.Description != nil {
		bookmark.Description = *req.Description
	}
	if req.Notes != nil {
		bookmark.Notes = *req.Notes
	}
	if req.Tags != nil {
		bookmark.Tags = models.NormalizeTags(*req.Tags)
	}
	if req.Folders != nil {
		bookmark.Folders = models.NormalizeFolders(*req.Folders)
	}
	if req.ArchiveURL != nil {
		bookmark.ArchiveURL = *req.ArchiveURL
	}
	if req.ToRead != nil {
		bookmark.ToRead = *req.ToRead
	}

	if err := h.db.Save(bookmark).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update bookmark"})
		return
	}

	h.notify(bookmark.UserID, "updated", bookmark.ID)
	c.JSON(http.StatusOK, bookmarkToResponse(*bookmark))
}

// Delete deletes a bookmark
// @Summary Delete a bookmark
// @Tags bookmarks
// @Produce json
// @Param id path int true "Bookmark ID"
// @Success 200 {object} map[string]string "Bookmark deleted"
// @Failure 404 {object} map[string]string "Bookmark not found"
// @Security BearerAuth
// @Router /bookmarks/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	bookmark, ok := h.getOwned(c)
	if !ok {
		return
	}

	if err := h.db.Delete(bookmark).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete bookmark"})
		return
	}

	h.notify(bookmark.UserID, "deleted", bookmark.ID)
	c.JSON(http.StatusOK, gin.H{"message": "Bookmark deleted"})
}

// ToggleRead flips the to_read flag
// @Summary Toggle read state
// @Tags bookmarks
// @Produce json
// @Param id path int true "Bookmark ID"
// @Success 200 {object} BookmarkResponse
// @Failure 404 {object} map[string]string "Bookmark not found"
// @Security BearerAuth
// @Router /bookmarks/{id}/toggle-read [post]
func (h *Handler) ToggleRead(c *gin.Context) {
	bookmark, ok := h.getOwned(c)
	if !ok {
		return
	}

	bookmark.ToRead = !bookmark.ToRead
	if err := h.db.Model(bookmark).Update("to_read", bookmark.ToRead).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update bookmark"})
		return
	}

	h.notify(bookmark.UserID, "updated", bookmark.ID)
	c.JSON(http.StatusOK, bookmarkToResponse(*bookmark))
}

// SaveNotes replaces the notes field
// @Summary Save notes
// @Tags bookmarks
// @Accept json
// @Produce json
// @Param id path int true "Bookmark ID"
// @Param request body NotesRequest true "Notes text"
// @Success 200 {object} BookmarkResponse
// @Failure 404 {object} map[string]string "Bookmark not found"
// @Security BearerAuth
// @Router /bookmarks/{id}/notes [put]
func (h *Handler) SaveNotes(c *gin.Context) {
	bookmark, ok := h.getOwned(c)
	if !ok {
		return
	}

	var req NotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	bookmark.Notes = req.Notes
	if err := h.db.Model(bookmark).Update("notes", req.Notes).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update bookmark"})
		return
	}

	h.notify(bookmark.UserID, "updated", bookmark.ID)
	c.JSON(http.StatusOK, bookmarkToResponse(*bookmark))
}

// AddFolder files the bookmark under a folder (set union)
// @Summary Add bookmark to a folder
// @Tags bookmarks
// @Accept json
// @Produce json
// @Param id path int true "Bookmark ID"
// @Param request body FolderRequest true "Folder name"
// @Success 200 {object} BookmarkResponse
// @Failure 404 {object} map[string]string "Bookmark not found"
// @Security BearerAuth
// @Router /bookmarks/{id}/folders [post]
func (h *Handler) AddFolder(c *gin.Context) {
	bookmark, ok := h.getOwned(c)
	if !ok {
		return
	}

	var req FolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !bookmark.HasFolder(req.Name) {
		bookmark.Folders = models.NormalizeFolders(append(bookmark.Folders, req.Name))
		if err := h.db.Model(bookmark).Update("folders", bookmark.Folders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update bookmark"})
			return
		}
		h.notify(bookmark.UserID, "updated", bookmark.ID)
	}

	c.JSON(http.StatusOK, bookmarkToResponse(*bookmark))
}

// RemoveFolder removes the bookmark from a folder (set difference)
// @Summary Remove bookmark from a folder
// @Tags bookmarks
// @Produce json
// @Param id path int true "Bookmark ID"
// @Param name path string true "Folder name"
// @Success 200 {object} BookmarkResponse
// @Failure 404 {object} map[string]string "Bookmark not found"
// @Security BearerAuth
// @Router /bookmarks/{id}/folders/{name} [delete]
func (h *Handler) RemoveFolder(c *gin.Context) {
	bookmark, ok := h.getOwned(c)
	if !ok {
		return
	}

	name := c.Param("name")
	if bookmark.HasFolder(name) {
		bookmark.Folders = bookmark.Folders.Without(name)
		if err := h.db.Model(bookmark).Update("folders", bookmark.Folders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update bookmark"})
			return
		}
		h.notify(bookmark.UserID, "updated", bookmark.ID)
	}

	c.JSON(http.StatusOK, bookmarkToResponse(*bookmark))
}

// Archive records an archive snapshot URL for the bookmark, built from the
// user's configured archive service (or the server default).
// @Summary Archive a bookmark
// @Tags bookmarks
// @Produce json
// @Param id path int true "Bookmark ID"
// @Success 200 {object} BookmarkResponse
// @Failure 404 {object} map[string]string "Bookmark not found"
// @Security BearerAuth
// @Router /bookmarks/{id}/archive [post]
func (h *Handler) Archive(c *gin.Context) {
	bookmark, ok := h.getOwned(c)
	if !ok {
		return
	}

	base := h.archiveBase
	var pref models.Preference
	if err := h.db.Where("user_id = ? AND key = ?", bookmark.UserID, models.PrefArchiveBase).
		First(&pref).Error; err == nil && pref.Value != "" {
		base = pref.Value
	}

	bookmark.ArchiveURL = base + "/" + bookmark.URL
	if err := h.db.Model(bookmark).Update("archive_url", bookmark.ArchiveURL).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update bookmark"})
		return
	}

	h.notify(bookmark.UserID, "updated", bookmark.ID)
	c.JSON(http.StatusOK, bookmarkToResponse(*bookmark))
}

// RegisterRoutes registers bookmark routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/bookmarks", h.List)
	rg.POST("/bookmarks", h.Create)
	rg.GET("/bookmarks/:id", h.Get)
	rg.PUT("/bookmarks/:id", h.Update)
	rg.DELETE("/bookmarks/:id", h.Delete)
	rg.POST("/bookmarks/:id/toggle-read", h.ToggleRead)
	rg.PUT("/bookmarks/:id/notes", h.SaveNotes)
	rg.POST("/bookmarks/:id/folders", h.AddFolder)
	rg.DELETE("/bookmarks/:id/folders/:name", h.RemoveFolder)
	rg.POST("/bookmarks/:id/archive", h.Archive)
}
