package entity_test

import (
	"testing"

	"github.com/bnema/lectern/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStandaloneRole_RejectsReservedLabels(t *testing.T) {
	for _, label := range []string{"", "  ", entity.MainWindowLabel} {
		_, err := entity.StandaloneRole(label)
		assert.ErrorIs(t, err, entity.ErrInvalidWindowLabel, "label %q", label)
	}

	role, err := entity.StandaloneRole("page-12-abc")
	require.NoError(t, err)
	assert.Equal(t, entity.RoleStandalone, role.Kind())
	assert.Equal(t, "page-12-abc", role.Label())
	assert.False(t, role.IsMain())
}

func TestMainRole(t *testing.T) {
	role := entity.MainRole()
	assert.True(t, role.IsMain())
	assert.Equal(t, "main", role.Label())
}

func TestParseViewMode(t *testing.T) {
	mode, err := entity.ParseViewMode("two-column")
	require.NoError(t, err)
	assert.Equal(t, entity.ViewModeTwoColumn, mode)

	_, err = entity.ParseViewMode("grid")
	assert.Error(t, err)
	assert.Equal(t, entity.ViewModeSingle, entity.ViewModeOrDefault("grid"))
	assert.Equal(t, entity.ViewModeSingle, entity.ViewModeTwoColumn.Toggle())
}

func TestWindowRegistry(t *testing.T) {
	reg := entity.NewWindowRegistry()
	reg.Add(&entity.StandaloneWindow{Label: "a", Page: 1})
	reg.Add(&entity.StandaloneWindow{Label: "b", Page: 2})
	reg.Add(&entity.StandaloneWindow{Label: "a", Page: 5})

	assert.Equal(t, 2, reg.Count())
	assert.Equal(t, []string{"a", "b"}, reg.Labels())
	assert.Equal(t, 5, reg.Find("a").Page)

	removed := reg.Remove("a")
	require.NotNil(t, removed)
	assert.Nil(t, reg.Remove("a"))
	assert.Nil(t, reg.Find("a"))
}

func TestWindowTitle(t *testing.T) {
	assert.Equal(t, "Page 3 - Book", entity.WindowTitle("Book", 3, ""))
	assert.Equal(t, "P3: Intro", entity.WindowTitle("", 3, "Intro"))
}
