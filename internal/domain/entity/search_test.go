package entity_test

import (
	"strings"
	"testing"

	"github.com/bnema/lectern/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindMatches_CaseInsensitiveNonOverlapping(t *testing.T) {
	results := entity.FindMatches(2, "Foo bar FOO", "foo", 40)

	require.Len(t, results, 2)
	assert.Equal(t, entity.SearchResult{
		Page: 2, MatchIndex: 0, ContextBefore: "", MatchText: "Foo", ContextAfter: " bar FOO",
	}, results[0])
	assert.Equal(t, entity.SearchResult{
		Page: 2, MatchIndex: 1, ContextBefore: "Foo bar ", MatchText: "FOO", ContextAfter: "",
	}, results[1])
}

func TestFindMatches_NoOverlap(t *testing.T) {
	results := entity.FindMatches(1, "aaaa", "aa", 0)
	require.Len(t, results, 2)
	assert.Equal(t, 0, results[0].MatchIndex)
	assert.Equal(t, 1, results[1].MatchIndex)
}

func TestFindMatches_ContextBounded(t *testing.T) {
	text := strings.Repeat("x", 100) + "needle" + strings.Repeat("y", 100)
	results := entity.FindMatches(1, text, "NEEDLE", entity.DefaultSearchContext)

	require.Len(t, results, 1)
	assert.Equal(t, strings.Repeat("x", 40), results[0].ContextBefore)
	assert.Equal(t, strings.Repeat("y", 40), results[0].ContextAfter)
	assert.Equal(t, "needle", results[0].MatchText)
}

func TestFindMatches_MultibyteContext(t *testing.T) {
	results := entity.FindMatches(1, "ééé Straße ééé", "STRASSE", 3)
	assert.Empty(t, results)

	results = entity.FindMatches(1, "ééé Straße ééé", "straße", 3)
	require.Len(t, results, 1)
	assert.Equal(t, "éé ", results[0].ContextBefore)
	assert.Equal(t, "Straße", results[0].MatchText)
	assert.Equal(t, " éé", results[0].ContextAfter)
}

func TestFindMatches_EmptyInputs(t *testing.T) {
	assert.Nil(t, entity.FindMatches(1, "text", "", 40))
	assert.Nil(t, entity.FindMatches(1, "", "x", 40))
}
