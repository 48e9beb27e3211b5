package importexport

import (
	"encoding/xml"
	"strings"

	"github.com/linkhoard/linkhoard/pkg/linkhoard/models"
)

// Export formats are byte-for-byte contracts: existing backups must keep
// importing into other tools, so none of these go through encoding/csv or
// string builders that make quoting decisions of their own.

// csvColumns is the fixed column order of CSV backups.
var csvColumns = []string{"Title", "URL", "Tags", "Folders", "Description", "To Read", "Created At", "Archive URL"}

// timeLayout is the timestamp format used across all export flavors.
const timeLayout = "2006-01-02T15:04:05Z"

// csvField quotes a field unconditionally, doubling internal quotes.
func csvField(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func joinList(l models.StringList) string {
	return strings.Join(l, ",")
}

func boolWord(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// ExportCSV renders bookmarks as CSV with every field quoted.
func ExportCSV(list []models.Bookmark) string {
	var b strings.Builder

	header := make([]string, len(csvColumns))
	for i, col := range csvColumns {
		header[i] = csvField(col)
	}
	b.WriteString(strings.Join(header, ","))
	b.WriteString("\n")

	for i := range list {
		bm := &list[i]
		row := []string{
			csvField(bm.Title),
			csvField(bm.URL),
			csvField(joinList(bm.Tags)),
			csvField(joinList(bm.Folders)),
			csvField(bm.Description),
			csvField(boolWord(bm.ToRead)),
			csvField(bm.CreatedAt.UTC().Format(timeLayout)),
			csvField(bm.ArchiveURL),
		}
		b.WriteString(strings.Join(row, ","))
		b.WriteString("\n")
	}

	return b.String()
}

type xmlBookmark struct {
	Title       string `xml:"title"`
	URL         string `xml:"url"`
	Tags        string `xml:"tags"`
	Folders     string `xml:"folders"`
	Description string `xml:"description"`
	ToRead      bool   `xml:"to_read"`
	CreatedAt   string `xml:"created_at"`
	ArchiveURL  string `xml:"archive_url"`
}

type xmlBookmarks struct {
	XMLName   xml.Name      `xml:"bookmarks"`
	Bookmarks []xmlBookmark `xml:"bookmark"`
}

// ExportXML renders bookmarks as a flat XML document with entity-escaped
// text content.
func ExportXML(list []models.Bookmark) (string, error) {
	doc := xmlBookmarks{Bookmarks: make([]xmlBookmark, len(list))}
	for i := range list {
		bm := &list[i]
		doc.Bookmarks[i] = xmlBookmark{
			Title:       bm.Title,
			URL:         bm.URL,
			Tags:        joinList(bm.Tags),
			Folders:     joinList(bm.Folders),
			Description: bm.Description,
			ToRead:      bm.ToRead,
			CreatedAt:   bm.CreatedAt.UTC().Format(timeLayout),
			ArchiveURL:  bm.ArchiveURL,
		}
	}

	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", err
	}
	return xml.Header + string(out) + "\n", nil
}

// sqlString escapes a string for a single-quoted SQL literal.
func sqlString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// sqlArray renders a string list as a quoted Postgres array literal:
// ["a","b"] -> '{"a","b"}', [] -> '{}'.
func sqlArray(l models.StringList) string {
	if len(l) == 0 {
		return "'{}'"
	}
	parts := make([]string, len(l))
	for i, s := range l {
		s = strings.ReplaceAll(s, `\`, `\\`)
		s = strings.ReplaceAll(s, `"`, `\"`)
		s = strings.ReplaceAll(s, `'`, `''`)
		parts[i] = `"` + s + `"`
	}
	return "'{" + strings.Join(parts, ",") + "}'"
}

func sqlBool(b bool) string {
	if b {
		return "TRUE"
	}
	return "FALSE"
}

// ExportSQL renders bookmarks as one INSERT statement per row, suitable for
// replaying into a Postgres bookmarks table.
func ExportSQL(list []models.Bookmark) string {
	var b strings.Builder

	for i := range list {
		bm := &list[i]
		b.WriteString("INSERT INTO bookmarks (url, title, description, notes, tags, folders, archive_url, to_read, created_at) VALUES (")
		b.WriteString(strings.Join([]string{
			sqlString(bm.URL),
			sqlString(bm.Title),
			sqlString(bm.Description),
			sqlString(bm.Notes),
			sqlArray(bm.Tags),
			sqlArray(bm.Folders),
			sqlString(bm.ArchiveURL),
			sqlBool(bm.ToRead),
			sqlString(bm.CreatedAt.UTC().Format(timeLayout)),
		}, ", "))
		b.WriteString(");\n")
	}

	return b.String()
}
