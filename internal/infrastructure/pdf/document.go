// Package pdf opens PDF documents for text search and outline lookup.
package pdf

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bnema/lectern/internal/application/port"
	"github.com/bnema/lectern/internal/domain/entity"
	"github.com/bnema/lectern/internal/infrastructure/cache"
	"github.com/bnema/lectern/internal/logging"
	"github.com/ledongthuc/pdf"
)

// ErrNotPDF is returned for files that cannot be parsed as PDF.
var ErrNotPDF = errors.New("not a PDF document")

// maxOutlineDepth bounds outline recursion on malformed files.
const maxOutlineDepth = 32

// textCacheBytes bounds the extracted page text kept per document.
const textCacheBytes = 8 << 20

// Loader opens PDF files.
type Loader struct{}

var _ port.DocumentLoader = Loader{}

// NewLoader creates a PDF loader.
func NewLoader() Loader { return Loader{} }

// Open parses the document at path.
func (Loader) Open(ctx context.Context, path string) (port.Document, error) {
	return Open(ctx, path)
}

// Document is an open PDF. The underlying reader is not safe for
// concurrent use, so every access is serialized.
type Document struct {
	path  string
	title string
	toc   []entity.TOCEntry
	pages int

	mu     sync.Mutex
	file   *os.File
	reader *pdf.Reader
	texts  *cache.LRU[int, string]
}

var _ port.Document = (*Document)(nil)

// Open parses the PDF at path, reading its page count, title and outline.
func Open(ctx context.Context, path string) (doc *Document, err error) {
	log := logging.FromContext(ctx)

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	if _, err := os.Stat(abs); err != nil {
		return nil, fmt.Errorf("open %s: %w", abs, err)
	}

	var f *os.File
	defer func() {
		if r := recover(); r != nil {
			if f != nil {
				_ = f.Close()
			}
			doc = nil
			err = fmt.Errorf("%w: %s: %v", ErrNotPDF, abs, r)
		}
	}()

	f, reader, err := pdf.Open(abs)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrNotPDF, abs, err)
	}

	doc = &Document{
		path:   abs,
		file:   f,
		reader: reader,
		pages:  reader.NumPage(),
		texts:  cache.NewStringLRU[int](textCacheBytes),
	}
	doc.title = readTitle(reader)
	doc.toc = outlineReader(reader)

	log.Debug().
		Str("path", abs).
		Int("pages", doc.pages).
		Int("outline_entries", len(doc.toc)).
		Msg("document opened")
	return doc, nil
}

func (d *Document) Path() string                       { return d.path }
func (d *Document) PageCount() int                     { return d.pages }
func (d *Document) TableOfContents() []entity.TOCEntry { return d.toc }

// Title returns the document info title, or the file name without
// extension when the document has none.
func (d *Document) Title() string {
	if d.title != "" {
		return d.title
	}
	return strings.TrimSuffix(filepath.Base(d.path), filepath.Ext(d.path))
}

// PageText extracts the plain text of the 1-based page. Recently read
// pages are cached.
func (d *Document) PageText(ctx context.Context, page int) (text string, err error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if page < 1 || page > d.pages {
		return "", fmt.Errorf("page %d out of range 1..%d", page, d.pages)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.reader == nil {
		return "", errors.New("document closed")
	}
	if cached, ok := d.texts.Get(page); ok {
		return cached, nil
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("extract page %d: %v", page, r)
		}
	}()

	p := d.reader.Page(page)
	if p.V.IsNull() {
		d.texts.Set(page, "")
		return "", nil
	}
	text, err = p.GetPlainText(nil)
	if err != nil {
		return "", fmt.Errorf("extract page %d: %w", page, err)
	}
	d.texts.Set(page, text)
	return text, nil
}

// Close releases the file.
func (d *Document) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.reader = nil
	d.texts.Clear()
	if d.file == nil {
		return nil
	}
	err := d.file.Close()
	d.file = nil
	return err
}

func readTitle(r *pdf.Reader) string {
	info := r.Trailer().Key("Info")
	if info.IsNull() {
		return ""
	}
	return strings.TrimSpace(info.Key("Title").Text())
}
