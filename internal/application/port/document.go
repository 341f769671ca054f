package port

import (
	"context"

	"github.com/bnema/lectern/internal/domain/entity"
)

// Document is an opened document as seen by the rendering engine.
type Document interface {
	// Path returns the absolute path the document was opened from.
	Path() string
	// Title returns the document title, falling back to the file name.
	Title() string
	// PageCount returns the number of pages. Pages are numbered from 1.
	PageCount() int
	// PageText extracts the plain text of a page.
	PageText(ctx context.Context, page int) (string, error)
	// TableOfContents returns the document outline, possibly empty.
	TableOfContents() []entity.TOCEntry
	// Close releases the underlying file.
	Close() error
}

// DocumentLoader opens documents from disk.
type DocumentLoader interface {
	Open(ctx context.Context, path string) (Document, error)
}
