package entity

import "fmt"

// TOCEntry is a node of a document outline. Page is 0 when the entry
// has no destination.
type TOCEntry struct {
	Title    string     `json:"title"`
	Page     int        `json:"page,omitempty"`
	Children []TOCEntry `json:"children,omitempty"`
}

// ChapterForPage returns the title of the last outline entry, in
// depth-first order, whose page is at or before page.
func ChapterForPage(toc []TOCEntry, page int) string {
	var chapter string
	var walk func(entries []TOCEntry)
	walk = func(entries []TOCEntry) {
		for _, e := range entries {
			if e.Page > 0 && e.Page <= page {
				chapter = e.Title
			}
			walk(e.Children)
		}
	}
	walk(toc)
	return chapter
}

// TabLabel returns "P{page}: {chapter}" or "Page {page}".
func TabLabel(toc []TOCEntry, page int) string {
	if chapter := ChapterForPage(toc, page); chapter != "" {
		return fmt.Sprintf("P%d: %s", page, chapter)
	}
	return fmt.Sprintf("Page %d", page)
}
