package importexport

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/linkhoard/linkhoard/pkg/linkhoard/auth"
	"github.com/linkhoard/linkhoard/pkg/linkhoard/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Handler handles import/export requests
type Handler struct {
	db *gorm.DB
}

// NewHandler creates a new import/export handler
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

// ImportResult represents the result of an import operation
type ImportResult struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}

func (h *Handler) fetchForUser(userID uint) ([]models.Bookmark, error) {
	var list []models.Bookmark
	err := h.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&list).Error
	return list, err
}

// recordBackup stamps the user's last_backup preference with the current
// time, mirroring what the web client kept in local storage.
func (h *Handler) recordBackup(userID uint) {
	pref := models.Preference{
		UserID: userID,
		Key:    models.PrefLastBackup,
		Value:  time.Now().UTC().Format(time.RFC3339),
	}
	h.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&pref)
}

// Export exports the user's bookmarks in the requested format
// @Summary Export bookmarks
// @Description Download all bookmarks as csv, xml, sql, or html (Netscape)
// @Tags importexport
// @Produce plain
// @Param format query string false "csv | xml | sql | html (default csv)"
// @Success 200 {string} string "Export payload"
// @Failure 400 {object} map[string]string "Unknown format"
// @Security BearerAuth
// @Router /export [get]
func (h *Handler) Export(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	list, err := h.fetchForUser(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch bookmarks"})
		return
	}

	format := c.DefaultQuery("format", "csv")
	var payload, contentType, filename string

	switch format {
	case "csv":
		payload = ExportCSV(list)
		contentType = "text/csv; charset=utf-8"
		filename = "bookmarks.csv"
	case "xml":
		payload, err = ExportXML(list)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to render XML"})
			return
		}
		contentType = "application/xml; charset=utf-8"
		filename = "bookmarks.xml"
	case "sql":
		payload = ExportSQL(list)
		contentType = "text/plain; charset=utf-8"
		filename = "bookmarks.sql"
	case "html":
		payload = ExportNetscape(list)
		contentType = "text/html; charset=utf-8"
		filename = "bookmarks.html"
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown export format: " + format})
		return
	}

	h.recordBackup(userID)

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentType, []byte(payload))
}

// Import imports bookmarks from a Netscape bookmark HTML file in the
// request body
// @Summary Import bookmarks
// @Description Import a browser bookmark export (Netscape HTML)
// @Tags importexport
// @Accept html
// @Produce json
// @Success 200 {object} ImportResult
// @Failure 400 {object} map[string]string "Unparseable file"
// @Security BearerAuth
// @Router /import [post]
func (h *Handler) Import(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	parsed, err := ParseNetscape(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to parse bookmark file"})
		return
	}

	result := ImportResult{Errors: []string{}}
	for _, p := range parsed {
		bookmark := models.Bookmark{
			UserID:  userID,
			URL:     p.URL,
			Title:   p.Title,
			Tags:    models.NormalizeTags(p.Tags),
			Folders: models.NormalizeFolders(p.Folders),
			ToRead:  p.ToRead,
		}
		if p.CreatedAt > 0 {
			bookmark.CreatedAt = time.Unix(p.CreatedAt, 0)
		}

		if err := h.db.Create(&bookmark).Error; err != nil {
			result.Errors = append(result.Errors, p.URL+": "+err.Error())
			result.Skipped++
			continue
		}
		result.Imported++
	}

	c.JSON(http.StatusOK, result)
}

// RegisterRoutes registers import/export routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/export", h.Export)
	rg.POST("/import", h.Import)
}
