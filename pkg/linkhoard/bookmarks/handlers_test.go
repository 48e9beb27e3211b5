package bookmarks

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/linkhoard/linkhoard/pkg/linkhoard/auth"
	"github.com/linkhoard/linkhoard/pkg/linkhoard/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	models.AutoMigrate(db)
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email string) models.User {
	hash, _ := auth.HashPassword("password123")
	user := models.User{
		Email:        email,
		PasswordHash: hash,
		Name:         "Test User",
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return user
}

func createTestBookmark(t *testing.T, db *gorm.DB, userID uint, title string, createdAt time.Time) models.Bookmark {
	bookmark := models.Bookmark{
		UserID:  userID,
		URL:     "https://example.com/" + title,
		Title:   title,
		Tags:    models.StringList{},
		Folders: models.StringList{},
	}
	if err := db.Create(&bookmark).Error; err != nil {
		t.Fatalf("Failed to create test bookmark: %v", err)
	}
	if !createdAt.IsZero() {
		db.Model(&bookmark).Update("created_at", createdAt)
	}
	return bookmark
}

func setupTestRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := NewHandler(db, "https://archive.test/web", nil)

	api := r.Group("/api")
	api.Use(auth.AuthMiddleware())
	handler.RegisterRoutes(api)

	return r
}

func getAuthHeader(user models.User) string {
	token, _ := auth.GenerateToken(user.ID, user.Email)
	return "Bearer " + token
}

func doJSON(t *testing.T, router *gin.Engine, user models.User, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("Failed to encode body: %v", err)
		}
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", getAuthHeader(user))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestCreateBookmarkNormalizesTags(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	user := createTestUser(t, db, "test@example.com")

	resp := doJSON(t, router, user, "POST", "/api/bookmarks", CreateBookmarkRequest{
		URL:     "https://go.dev",
		Title:   "Go",
		Tags:    []string{"Go", "NEWS", "go"},
		Folders: []string{"Work", "Work"},
	})

	if resp.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}

	var got BookmarkResponse
	json.Unmarshal(resp.Body.Bytes(), &got)

	if len(got.Tags) != 2 || got.Tags[0] != "go" || got.Tags[1] != "news" {
		t.Errorf("Expected lowercase deduped tags, got %v", got.Tags)
	}
	if len(got.Folders) != 1 || got.Folders[0] != "Work" {
		t.Errorf("Expected deduped folders, got %v", got.Folders)
	}
}

func TestCreateBookmarkRequiresURL(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	user := createTestUser(t, db, "test@example.com")

	resp := doJSON(t, router, user, "POST", "/api/bookmarks", CreateBookmarkRequest{Title: "No URL"})
	if resp.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", resp.Code)
	}
}

func TestListBookmarksNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	user := createTestUser(t, db, "test@example.com")

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	createTestBookmark(t, db, user.ID, "oldest", base)
	createTestBookmark(t, db, user.ID, "middle", base.Add(time.Hour))
	createTestBookmark(t, db, user.ID, "newest", base.Add(2*time.Hour))

	resp := doJSON(t, router, user, "GET", "/api/bookmarks", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var got ListResponse
	json.Unmarshal(resp.Body.Bytes(), &got)

	if got.Total != 3 || len(got.Bookmarks) != 3 {
		t.Fatalf("Expected 3 bookmarks, got total=%d len=%d", got.Total, len(got.Bookmarks))
	}
	if got.Bookmarks[0].Title != "newest" || got.Bookmarks[2].Title != "oldest" {
		t.Errorf("Expected newest-first order, got %s..%s", got.Bookmarks[0].Title, got.Bookmarks[2].Title)
	}
}

func TestListBookmarksScopedToUser(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	alice := createTestUser(t, db, "alice@example.com")
	bob := createTestUser(t, db, "bob@example.com")

	createTestBookmark(t, db, alice.ID, "alices", time.Time{})
	createTestBookmark(t, db, bob.ID, "bobs", time.Time{})

	resp := doJSON(t, router, alice, "GET", "/api/bookmarks", nil)
	var got ListResponse
	json.Unmarshal(resp.Body.Bytes(), &got)

	if got.Total != 1 || got.Bookmarks[0].Title != "alices" {
		t.Errorf("Expected only alice's bookmark, got %+v", got.Bookmarks)
	}
}

func TestListBookmarksPaginationPreservesFilter(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	user := createTestUser(t, db, "test@example.com")

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		b := createTestBookmark(t, db, user.ID, fmt.Sprintf("tagged-%d", i), base.Add(time.Duration(i)*time.Minute))
		db.Model(&b).Update("tags", models.StringList{"go"})
	}
	createTestBookmark(t, db, user.ID, "untagged", base.Add(time.Hour))

	resp := doJSON(t, router, user, "GET", "/api/bookmarks?tag=go&limit=2&page=2", nil)
	var got ListResponse
	json.Unmarshal(resp.Body.Bytes(), &got)

	if got.Total != 5 {
		t.Errorf("Expected filtered total 5, got %d", got.Total)
	}
	if len(got.Bookmarks) != 2 {
		t.Errorf("Expected page of 2, got %d", len(got.Bookmarks))
	}
	for _, b := range got.Bookmarks {
		if len(b.Tags) == 0 || b.Tags[0] != "go" {
			t.Errorf("Pagination dropped the tag filter: %+v", b)
		}
	}
}

func TestUpdateBookmarkPartial(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	user := createTestUser(t, db, "test@example.com")
	bookmark := createTestBookmark(t, db, user.ID, "original", time.Time{})

	title := "renamed"
	resp := doJSON(t, router, user, "PUT", fmt.Sprintf("/api/bookmarks/%d", bookmark.ID),
		UpdateBookmarkRequest{Title: &title})
	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var got BookmarkResponse
	json.Unmarshal(resp.Body.Bytes(), &got)
	if got.Title != "renamed" {
		t.Errorf("Expected renamed title, got %s", got.Title)
	}
	if got.URL != bookmark.URL {
		t.Errorf("Partial update should not touch the URL, got %s", got.URL)
	}
}

func TestUpdateBookmarkOfOtherUser(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	alice := createTestUser(t, db, "alice@example.com")
	bob := createTestUser(t, db, "bob@example.com")
	bookmark := createTestBookmark(t, db, alice.ID, "alices", time.Time{})

	title := "stolen"
	resp := doJSON(t, router, bob, "PUT", fmt.Sprintf("/api/bookmarks/%d", bookmark.ID),
		UpdateBookmarkRequest{Title: &title})
	if resp.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", resp.Code)
	}
}

func TestToggleRead(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	user := createTestUser(t, db, "test@example.com")
	bookmark := createTestBookmark(t, db, user.ID, "unread", time.Time{})

	resp := doJSON(t, router, user, "POST", fmt.Sprintf("/api/bookmarks/%d/toggle-read", bookmark.ID), nil)
	var got BookmarkResponse
	json.Unmarshal(resp.Body.Bytes(), &got)
	if !got.ToRead {
		t.Error("Expected to_read to flip to true")
	}

	resp = doJSON(t, router, user, "POST", fmt.Sprintf("/api/bookmarks/%d/toggle-read", bookmark.ID), nil)
	json.Unmarshal(resp.Body.Bytes(), &got)
	if got.ToRead {
		t.Error("Expected to_read to flip back to false")
	}
}

func TestSaveNotes(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	user := createTestUser(t, db, "test@example.com")
	bookmark := createTestBookmark(t, db, user.ID, "noted", time.Time{})

	resp := doJSON(t, router, user, "PUT", fmt.Sprintf("/api/bookmarks/%d/notes", bookmark.ID),
		NotesRequest{Notes: "read this twice"})
	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.Code)
	}

	var stored models.Bookmark
	db.First(&stored, bookmark.ID)
	if stored.Notes != "read this twice" {
		t.Errorf("Expected notes persisted, got %q", stored.Notes)
	}
}

func TestAddAndRemoveFolder(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	user := createTestUser(t, db, "test@example.com")
	bookmark := createTestBookmark(t, db, user.ID, "filed", time.Time{})

	resp := doJSON(t, router, user, "POST", fmt.Sprintf("/api/bookmarks/%d/folders", bookmark.ID),
		FolderRequest{Name: "Work"})
	var got BookmarkResponse
	json.Unmarshal(resp.Body.Bytes(), &got)
	if len(got.Folders) != 1 || got.Folders[0] != "Work" {
		t.Fatalf("Expected [Work], got %v", got.Folders)
	}

	// Adding again is a no-op (set union).
	resp = doJSON(t, router, user, "POST", fmt.Sprintf("/api/bookmarks/%d/folders", bookmark.ID),
		FolderRequest{Name: "Work"})
	json.Unmarshal(resp.Body.Bytes(), &got)
	if len(got.Folders) != 1 {
		t.Errorf("Expected no duplicate folder, got %v", got.Folders)
	}

	resp = doJSON(t, router, user, "DELETE", fmt.Sprintf("/api/bookmarks/%d/folders/Work", bookmark.ID), nil)
	json.Unmarshal(resp.Body.Bytes(), &got)
	if len(got.Folders) != 0 {
		t.Errorf("Expected empty folders, got %v", got.Folders)
	}
}

func TestDeleteBookmark(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	user := createTestUser(t, db, "test@example.com")
	bookmark := createTestBookmark(t, db, user.ID, "doomed", time.Time{})

	resp := doJSON(t, router, user, "DELETE", fmt.Sprintf("/api/bookmarks/%d", bookmark.ID), nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.Code)
	}

	var count int64
	db.Model(&models.Bookmark{}).Where("id = ?", bookmark.ID).Count(&count)
	if count != 0 {
		t.Error("Expected bookmark to be deleted")
	}
}

func TestArchiveBookmark(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	user := createTestUser(t, db, "test@example.com")
	bookmark := createTestBookmark(t, db, user.ID, "kept", time.Time{})

	resp := doJSON(t, router, user, "POST", fmt.Sprintf("/api/bookmarks/%d/archive", bookmark.ID), nil)
	var got BookmarkResponse
	json.Unmarshal(resp.Body.Bytes(), &got)

	want := "https://archive.test/web/" + bookmark.URL
	if got.ArchiveURL != want {
		t.Errorf("Expected archive URL %s, got %s", want, got.ArchiveURL)
	}
}

func TestArchiveUsesUserPreference(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	user := createTestUser(t, db, "test@example.com")
	bookmark := createTestBookmark(t, db, user.ID, "kept", time.Time{})

	db.Create(&models.Preference{UserID: user.ID, Key: models.PrefArchiveBase, Value: "https://archive.example"})

	resp := doJSON(t, router, user, "POST", fmt.Sprintf("/api/bookmarks/%d/archive", bookmark.ID), nil)
	var got BookmarkResponse
	json.Unmarshal(resp.Body.Bytes(), &got)

	want := "https://archive.example/" + bookmark.URL
	if got.ArchiveURL != want {
		t.Errorf("Expected archive URL %s, got %s", want, got.ArchiveURL)
	}
}

func TestUnauthenticatedRequestRejected(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)

	req, _ := http.NewRequest("GET", "/api/bookmarks", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", resp.Code)
	}
}
