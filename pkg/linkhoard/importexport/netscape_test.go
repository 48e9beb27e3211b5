package importexport

import (
	"strings"
	"testing"
	"time"

	"github.com/linkhoard/linkhoard/pkg/linkhoard/models"
)

func TestExportNetscapeAttributes(t *testing.T) {
	list := []models.Bookmark{{
		Title:       "Go & friends",
		URL:         "https://go.dev?a=1&b=2",
		Tags:        models.StringList{"go", "news"},
		Folders:     models.StringList{"Work"},
		Description: "the language site",
		ToRead:      true,
		CreatedAt:   time.Unix(1710498600, 0),
	}}

	out := ExportNetscape(list)

	if !strings.HasPrefix(out, "<!DOCTYPE NETSCAPE-Bookmark-file-1>") {
		t.Errorf("Expected Netscape doctype, got %s", out[:40])
	}
	if !strings.Contains(out, `HREF="https://go.dev?a=1&amp;b=2"`) {
		t.Errorf("Expected escaped href, got %s", out)
	}
	if !strings.Contains(out, `ADD_DATE="1710498600"`) {
		t.Errorf("Expected add date, got %s", out)
	}
	if !strings.Contains(out, `TAGS="go,news"`) {
		t.Errorf("Expected tags attribute, got %s", out)
	}
	if !strings.Contains(out, `FOLDERS="Work"`) {
		t.Errorf("Expected folders attribute, got %s", out)
	}
	if !strings.Contains(out, `TOREAD="1"`) {
		t.Errorf("Expected toread flag, got %s", out)
	}
	if !strings.Contains(out, ">Go &amp; friends</A>") {
		t.Errorf("Expected escaped title, got %s", out)
	}
	if !strings.Contains(out, "<DD>the language site") {
		t.Errorf("Expected description line, got %s", out)
	}
}

func TestParseNetscapeRoundTrip(t *testing.T) {
	list := []models.Bookmark{
		{
			Title:     "Go Blog",
			URL:       "https://go.dev/blog",
			Tags:      models.StringList{"go"},
			Folders:   models.StringList{"Work"},
			ToRead:    true,
			CreatedAt: time.Unix(1710498600, 0),
		},
		{
			Title:     "HN",
			URL:       "https://news.ycombinator.com",
			Tags:      models.StringList{},
			Folders:   models.StringList{},
			CreatedAt: time.Unix(1710498601, 0),
		},
	}

	parsed, err := ParseNetscape(strings.NewReader(ExportNetscape(list)))
	if err != nil {
		t.Fatalf("ParseNetscape failed: %v", err)
	}
	if len(parsed) != 2 {
		t.Fatalf("Expected 2 bookmarks, got %d", len(parsed))
	}

	got := parsed[0]
	if got.URL != "https://go.dev/blog" || got.Title != "Go Blog" {
		t.Errorf("Unexpected first bookmark: %+v", got)
	}
	if len(got.Tags) != 1 || got.Tags[0] != "go" {
		t.Errorf("Expected tags [go], got %v", got.Tags)
	}
	if len(got.Folders) != 1 || got.Folders[0] != "Work" {
		t.Errorf("Expected folders [Work], got %v", got.Folders)
	}
	if !got.ToRead {
		t.Error("Expected toread preserved")
	}
	if got.CreatedAt != 1710498600 {
		t.Errorf("Expected add date 1710498600, got %d", got.CreatedAt)
	}

	if parsed[1].ToRead || len(parsed[1].Tags) != 0 {
		t.Errorf("Unexpected second bookmark: %+v", parsed[1])
	}
}

func TestParseNetscapeFlattensFolderSections(t *testing.T) {
	// A browser-style nested file: folders become labels on the bookmarks.
	input := `<!DOCTYPE NETSCAPE-Bookmark-file-1>
<TITLE>Bookmarks</TITLE>
<H1>Bookmarks</H1>
<DL><p>
    <DT><H3>Dev</H3>
    <DL><p>
        <DT><A HREF="https://go.dev" ADD_DATE="1700000000">Go</A>
        <DT><H3>Reading</H3>
        <DL><p>
            <DT><A HREF="https://example.com/article">Article</A>
        </DL><p>
    </DL><p>
    <DT><A HREF="https://top.example">Top Level</A>
</DL><p>
`

	parsed, err := ParseNetscape(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseNetscape failed: %v", err)
	}
	if len(parsed) != 3 {
		t.Fatalf("Expected 3 bookmarks, got %d", len(parsed))
	}

	byURL := make(map[string]ParsedBookmark)
	for _, p := range parsed {
		byURL[p.URL] = p
	}

	if got := byURL["https://go.dev"].Folders; len(got) != 1 || got[0] != "Dev" {
		t.Errorf("Expected [Dev], got %v", got)
	}
	if got := byURL["https://example.com/article"].Folders; len(got) != 2 || got[0] != "Dev" || got[1] != "Reading" {
		t.Errorf("Expected [Dev Reading], got %v", got)
	}
	if got := byURL["https://top.example"].Folders; len(got) != 0 {
		t.Errorf("Expected no folders, got %v", got)
	}
}

func TestParseNetscapeUsesHrefWhenTitleMissing(t *testing.T) {
	input := `<DL><p><DT><A HREF="https://bare.example"></A></DL><p>`
	parsed, err := ParseNetscape(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseNetscape failed: %v", err)
	}
	if len(parsed) != 1 || parsed[0].Title != "https://bare.example" {
		t.Errorf("Expected href fallback title, got %+v", parsed)
	}
}
