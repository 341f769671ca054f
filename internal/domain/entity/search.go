package entity

import "unicode"

// DefaultSearchContext is the number of characters kept on each side of a match.
const DefaultSearchContext = 40

// SearchResult is one occurrence of a query in the document.
type SearchResult struct {
	Page          int    `json:"page"`
	MatchIndex    int    `json:"matchIndex"`
	ContextBefore string `json:"contextBefore"`
	MatchText     string `json:"matchText"`
	ContextAfter  string `json:"contextAfter"`
}

// FindMatches returns every non-overlapping, case-insensitive occurrence
// of query in text, numbered from 0 within the page.
func FindMatches(page int, text, query string, contextChars int) []SearchResult {
	needle := foldRunes([]rune(query))
	if len(needle) == 0 || text == "" {
		return nil
	}
	if contextChars < 0 {
		contextChars = 0
	}

	runes := []rune(text)
	lower := foldRunes(runes)

	var results []SearchResult
	for i := 0; i+len(needle) <= len(lower); {
		if !hasPrefixAt(lower, needle, i) {
			i++
			continue
		}
		end := i + len(needle)
		start := max(0, i-contextChars)
		stop := min(len(runes), end+contextChars)
		results = append(results, SearchResult{
			Page:          page,
			MatchIndex:    len(results),
			ContextBefore: string(runes[start:i]),
			MatchText:     string(runes[i:end]),
			ContextAfter:  string(runes[end:stop]),
		})
		i = end
	}
	return results
}

// foldRunes lowercases rune by rune so match positions stay aligned
// with the original text.
func foldRunes(in []rune) []rune {
	out := make([]rune, len(in))
	for i, r := range in {
		out[i] = unicode.ToLower(r)
	}
	return out
}

func hasPrefixAt(haystack, needle []rune, at int) bool {
	for j, r := range needle {
		if haystack[at+j] != r {
			return false
		}
	}
	return true
}
