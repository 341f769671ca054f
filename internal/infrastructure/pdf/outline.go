package pdf

import (
	"strings"

	"github.com/bnema/lectern/internal/domain/entity"
	"github.com/ledongthuc/pdf"
)

// outlineResolver maps outline destinations to 1-based page numbers.
// Pages are matched by the serialized form of their dictionary, which
// keeps references unresolved and so differs between pages.
type outlineResolver struct {
	root  pdf.Value
	pages map[string]int
}

// outlineReader is swapped in tests.
var outlineReader = readOutline

func readOutline(r *pdf.Reader) []entity.TOCEntry {
	root := r.Trailer().Key("Root")
	outlines := root.Key("Outlines")
	if outlines.IsNull() {
		return nil
	}

	res := &outlineResolver{root: root, pages: make(map[string]int, r.NumPage())}
	for i := 1; i <= r.NumPage(); i++ {
		v := r.Page(i).V
		if !v.IsNull() {
			res.pages[v.String()] = i
		}
	}
	return res.items(outlines.Key("First"), 0)
}

func (res *outlineResolver) items(item pdf.Value, depth int) []entity.TOCEntry {
	if depth >= maxOutlineDepth {
		return nil
	}
	var out []entity.TOCEntry
	seen := make(map[string]bool)
	for !item.IsNull() {
		key := item.String()
		if seen[key] {
			break
		}
		seen[key] = true

		entry := entity.TOCEntry{
			Title: strings.TrimSpace(item.Key("Title").Text()),
			Page:  res.page(item),
		}
		entry.Children = res.items(item.Key("First"), depth+1)
		out = append(out, entry)
		item = item.Key("Next")
	}
	return out
}

// page returns the destination page of an outline item, or 0.
func (res *outlineResolver) page(item pdf.Value) int {
	dest := item.Key("Dest")
	if dest.IsNull() {
		action := item.Key("A")
		if action.Key("S").Name() == "GoTo" {
			dest = action.Key("D")
		}
	}
	return res.destPage(dest, 0)
}

func (res *outlineResolver) destPage(dest pdf.Value, depth int) int {
	if depth > 2 {
		return 0
	}
	switch dest.Kind() {
	case pdf.Array:
		if dest.Len() == 0 {
			return 0
		}
		target := dest.Index(0)
		if target.Kind() == pdf.Integer {
			// Remote-style destinations carry a 0-based page index.
			return int(target.Int64()) + 1
		}
		return res.pages[target.String()]
	case pdf.Dict:
		return res.destPage(dest.Key("D"), depth+1)
	case pdf.Name:
		return res.destPage(res.root.Key("Dests").Key(dest.Name()), depth+1)
	case pdf.String:
		return res.destPage(res.named(dest.RawString()), depth+1)
	}
	return 0
}

// named looks a string destination up in the catalog's name tree.
func (res *outlineResolver) named(name string) pdf.Value {
	tree := res.root.Key("Names").Key("Dests")
	return lookupNameTree(tree, name, 0)
}

func lookupNameTree(node pdf.Value, name string, depth int) pdf.Value {
	if node.IsNull() || depth > maxOutlineDepth {
		return pdf.Value{}
	}
	names := node.Key("Names")
	for i := 0; i+1 < names.Len(); i += 2 {
		if names.Index(i).RawString() == name {
			return names.Index(i + 1)
		}
	}
	kids := node.Key("Kids")
	for i := 0; i < kids.Len(); i++ {
		if v := lookupNameTree(kids.Index(i), name, depth+1); !v.IsNull() {
			return v
		}
	}
	return pdf.Value{}
}
