package settings

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/linkhoard/linkhoard/pkg/linkhoard/auth"
	"github.com/linkhoard/linkhoard/pkg/linkhoard/models"
	"github.com/linkhoard/linkhoard/pkg/linkhoard/storage"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// allowedKeys are the preference keys the API will persist.
var allowedKeys = map[string]bool{
	models.PrefLastBackup:  true,
	models.PrefArchiveBase: true,
	models.PrefPageSize:    true,
}

// Handler handles user settings: preferences and avatar upload
type Handler struct {
	db      *gorm.DB
	avatars *storage.AvatarStore
}

// NewHandler creates a new settings handler
func NewHandler(db *gorm.DB, avatars *storage.AvatarStore) *Handler {
	return &Handler{db: db, avatars: avatars}
}

// SetPreferenceRequest sets one preference key
type SetPreferenceRequest struct {
	Key   string `json:"key" binding:"required"`
	Value string `json:"value"`
}

// AvatarResponse returns the public URL of an uploaded avatar
type AvatarResponse struct {
	AvatarURL string `json:"avatar_url"`
}

// ListPreferences returns the user's preferences as a key/value map
// @Summary List preferences
// @Tags settings
// @Produce json
// @Success 200 {object} map[string]string
// @Security BearerAuth
// @Router /settings [get]
func (h *Handler) ListPreferences(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	var prefs []models.Preference
	if err := h.db.Where("user_id = ?", userID).Find(&prefs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch preferences"})
		return
	}

	out := make(map[string]string, len(prefs))
	for _, p := range prefs {
		out[p.Key] = p.Value
	}
	c.JSON(http.StatusOK, out)
}

// SetPreference upserts one preference key
// @Summary Set a preference
// @Tags settings
// @Accept json
// @Produce json
// @Param request body SetPreferenceRequest true "Preference"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string "Unknown preference key"
// @Security BearerAuth
// @Router /settings [put]
func (h *Handler) SetPreference(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	var req SetPreferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !allowedKeys[req.Key] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown preference key: " + req.Key})
		return
	}

	pref := models.Preference{UserID: userID, Key: req.Key, Value: req.Value}
	err := h.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&pref).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save preference"})
		return
	}

	c.JSON(http.StatusOK, gin.H{req.Key: req.Value})
}

// UploadAvatar stores a new avatar image and updates the user's profile
// @Summary Upload avatar
// @Description Upload a JPEG avatar, at most 300x300 pixels
// @Tags settings
// @Accept mpfd
// @Produce json
// @Param avatar formData file true "JPEG image"
// @Success 200 {object} AvatarResponse
// @Failure 400 {object} map[string]string "Invalid image"
// @Security BearerAuth
// @Router /settings/avatar [post]
func (h *Handler) UploadAvatar(c *gin.Context) {
	userID, _ := auth.GetUserID(c)

	file, _, err := c.Request.FormFile("avatar")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing avatar file"})
		return
	}
	defer file.Close()

	url, err := h.avatars.Save(file)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrNotJPEG),
			errors.Is(err, storage.ErrTooLarge),
			errors.Is(err, storage.ErrTooBig):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store avatar"})
		}
		return
	}

	if err := h.db.Model(&models.User{}).Where("id = ?", userID).
		Update("avatar_url", url).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}

	c.JSON(http.StatusOK, AvatarResponse{AvatarURL: url})
}

// RegisterRoutes registers settings routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/settings", h.ListPreferences)
	rg.PUT("/settings", h.SetPreference)
	rg.POST("/settings/avatar", h.UploadAvatar)
}
