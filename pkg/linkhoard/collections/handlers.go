package collections

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/linkhoard/linkhoard/pkg/linkhoard/auth"
	"github.com/linkhoard/linkhoard/pkg/linkhoard/models"
	"github.com/sahilm/fuzzy"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// Notifier receives bookmark change events for fan-out to connected clients.
type Notifier interface {
	NotifyBookmark(userID uint, action string, bookmarkID uint)
}

// Handler serves the derived tag and folder views. Tags and folders are not
// stored entities; everything here is computed from the user's bookmarks.
type Handler struct {
	db       *gorm.DB
	notifier Notifier
}

// NewHandler creates a new collections handler
func NewHandler(db *gorm.DB, notifier Notifier) *Handler {
	return &Handler{db: db, notifier: notifier}
}

// DeleteFolderResult reports the outcome of a folder deletion
type DeleteFolderResult struct {
	Folder  string `json:"folder"`
	Updated int    `json:"updated"`
}

func (h *Handler) fetchForUser(userID uint) ([]models.Bookmark, error) {
	var list []models.Bookmark
	err := h.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&list).Error
	return list, err
}

// ListTags returns all tags with counts
// @Summary List tags
// @Description All distinct tags with bookmark counts, most used first
// @Tags collections
// @Produce json
// @Success 200 {array} Count
// @Security BearerAuth
// @Router /tags [get]
func (h *Handler) ListTags(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	list, err := h.fetchForUser(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch bookmarks"})
		return
	}

	c.JSON(http.StatusOK, CountTags(list))
}

// SuggestTags returns tags fuzzy-matching a prefix, for autocomplete
// @Summary Suggest tags
// @Description Fuzzy-match existing tags against a partial input
// @Tags collections
// @Produce json
// @Param q query string true "Partial tag"
// @Success 200 {array} string
// @Security BearerAuth
// @Router /tags/suggest [get]
func (h *Handler) SuggestTags(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	q := c.Query("q")
	if q == "" {
		c.JSON(http.StatusOK, []string{})
		return
	}

	list, err := h.fetchForUser(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch bookmarks"})
		return
	}

	counts := CountTags(list)
	names := make([]string, len(counts))
	for i, t := range counts {
		names[i] = t.Name
	}

	matches := fuzzy.Find(q, names)
	suggestions := make([]string, 0, len(matches))
	for _, m := range matches {
		suggestions = append(suggestions, m.Str)
		if len(suggestions) == 10 {
			break
		}
	}

	c.JSON(http.StatusOK, suggestions)
}

// ListFolders returns all folders with counts
// @Summary List folders
// @Description All distinct folders with bookmark counts, alphabetical
// @Tags collections
// @Produce json
// @Success 200 {array} Count
// @Security BearerAuth
// @Router /folders [get]
func (h *Handler) ListFolders(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	list, err := h.fetchForUser(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch bookmarks"})
		return
	}

	c.JSON(http.StatusOK, CountFolders(list))
}

// DeleteFolder removes a folder from every bookmark containing it. Each
// affected bookmark gets its own update, issued concurrently; the first
// failure is reported and already-applied updates are not reverted (the
// client reconciles by re-fetching).
// @Summary Delete a folder
// @Description Remove the folder label from every bookmark that has it
// @Tags collections
// @Produce json
// @Param name path string true "Folder name"
// @Success 200 {object} DeleteFolderResult
// @Failure 500 {object} map[string]string "One or more updates failed"
// @Security BearerAuth
// @Router /folders/{name} [delete]
func (h *Handler) DeleteFolder(c *gin.Context) {
	userID, _ := auth.GetUserID(c)
	name := c.Param("name")

	list, err := h.fetchForUser(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch bookmarks"})
		return
	}

	var affected []models.Bookmark
	for i := range list {
		if list[i].HasFolder(name) {
			affected = append(affected, list[i])
		}
	}

	var g errgroup.Group
	for i := range affected {
		b := affected[i]
		g.Go(func() error {
			folders := b.Folders.Without(name)
			return h.db.Model(&models.Bookmark{}).Where("id = ?", b.ID).
				Update("folders", folders).Error
		})
	}
	if err := g.Wait(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete folder"})
		return
	}

	if h.notifier != nil {
		for i := range affected {
			h.notifier.NotifyBookmark(userID, "updated", affected[i].ID)
		}
	}

	c.JSON(http.StatusOK, DeleteFolderResult{Folder: name, Updated: len(affected)})
}

// RegisterRoutes registers tag and folder routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/tags", h.ListTags)
	rg.GET("/tags/suggest", h.SuggestTags)
	rg.GET("/folders", h.ListFolders)
	rg.DELETE("/folders/:name", h.DeleteFolder)
}
