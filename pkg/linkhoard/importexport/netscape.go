package importexport

import (
	"fmt"
	xhtml "html"
	"io"
	"strconv"
	"strings"

	"github.com/linkhoard/linkhoard/pkg/linkhoard/models"
	"golang.org/x/net/html"
)

// ExportNetscape renders bookmarks in the Netscape bookmark file format
// understood by browser import dialogs. Folder labels become TAGS-style
// attributes rather than nested H3 sections; a bookmark can carry several
// folders, which the nested format cannot express.
func ExportNetscape(list []models.Bookmark) string {
	var b strings.Builder

	b.WriteString("<!DOCTYPE NETSCAPE-Bookmark-file-1>\n")
	b.WriteString("<META HTTP-EQUIV=\"Content-Type\" CONTENT=\"text/html; charset=UTF-8\">\n")
	b.WriteString("<TITLE>Bookmarks</TITLE>\n")
	b.WriteString("<H1>Bookmarks</H1>\n")
	b.WriteString("<DL><p>\n")

	for i := range list {
		bm := &list[i]
		fmt.Fprintf(&b, "    <DT><A HREF=\"%s\" ADD_DATE=\"%d\"",
			xhtml.EscapeString(bm.URL), bm.CreatedAt.Unix())
		if len(bm.Tags) > 0 {
			fmt.Fprintf(&b, " TAGS=\"%s\"", xhtml.EscapeString(strings.Join(bm.Tags, ",")))
		}
		if len(bm.Folders) > 0 {
			fmt.Fprintf(&b, " FOLDERS=\"%s\"", xhtml.EscapeString(strings.Join(bm.Folders, ",")))
		}
		if bm.ToRead {
			b.WriteString(" TOREAD=\"1\"")
		}
		fmt.Fprintf(&b, ">%s</A>\n", xhtml.EscapeString(bm.Title))
		if bm.Description != "" {
			fmt.Fprintf(&b, "    <DD>%s\n", xhtml.EscapeString(bm.Description))
		}
	}

	b.WriteString("</DL><p>\n")
	return b.String()
}

// ParsedBookmark is a bookmark extracted from a Netscape HTML file before it
// is attached to a user.
type ParsedBookmark struct {
	URL       string
	Title     string
	Tags      []string
	Folders   []string
	ToRead    bool
	CreatedAt int64 // unix seconds, 0 = unknown
}

// ParseNetscape parses a Netscape bookmark HTML file. Nested H3 folder
// sections are flattened into folder labels on the contained bookmarks.
func ParseNetscape(r io.Reader) ([]ParsedBookmark, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	var out []ParsedBookmark
	var folderStack []string
	var pendingFolder string

	var parse func(*html.Node)
	parse = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch strings.ToLower(n.Data) {
			case "h3":
				pendingFolder = getTextContent(n)
				return

			case "a":
				href := getAttr(n, "href")
				if href == "" {
					return
				}

				title := getTextContent(n)
				if title == "" {
					title = href
				}

				bm := ParsedBookmark{
					URL:     href,
					Title:   title,
					Folders: append([]string(nil), folderStack...),
					ToRead:  getAttr(n, "toread") == "1",
				}
				if tags := getAttr(n, "tags"); tags != "" {
					bm.Tags = splitList(tags)
				}
				if folders := getAttr(n, "folders"); folders != "" {
					bm.Folders = append(bm.Folders, splitList(folders)...)
				}
				if addDate := getAttr(n, "add_date"); addDate != "" {
					if ts, err := strconv.ParseInt(addDate, 10, 64); err == nil {
						bm.CreatedAt = ts
					}
				}
				out = append(out, bm)
				return

			case "dl":
				pushed := false
				if pendingFolder != "" {
					folderStack = append(folderStack, pendingFolder)
					pendingFolder = ""
					pushed = true
				}
				for c := n.FirstChild; c != nil; c = c.NextSibling {
					parse(c)
				}
				if pushed {
					folderStack = folderStack[:len(folderStack)-1]
				}
				return
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			parse(c)
		}
	}

	parse(doc)
	return out, nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// getTextContent returns the text content of a node.
func getTextContent(n *html.Node) string {
	var text strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			text.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(text.String())
}

// getAttr returns the value of an attribute, case-insensitive.
func getAttr(n *html.Node, key string) string {
	key = strings.ToLower(key)
	for _, attr := range n.Attr {
		if strings.ToLower(attr.Key) == key {
			return attr.Val
		}
	}
	return ""
}
