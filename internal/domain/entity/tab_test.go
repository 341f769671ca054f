package entity_test

import (
	"testing"

	"github.com/bnema/lectern/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTabList_IDsNeverReused(t *testing.T) {
	tl := entity.NewTabList()
	a := tl.Add(1, "Page 1")
	b := tl.Add(2, "Page 2")
	require.True(t, tl.Remove(b.ID))
	c := tl.Add(3, "Page 3")

	assert.Equal(t, entity.TabID(1), a.ID)
	assert.Equal(t, entity.TabID(3), c.ID)

	tl.Clear()
	d := tl.Add(4, "Page 4")
	assert.Equal(t, entity.TabID(4), d.ID)
}

func TestTabList_FirstTabBecomesActive(t *testing.T) {
	tl := entity.NewTabList()
	first := tl.Add(1, "Page 1")
	tl.Add(2, "Page 2")

	require.NotNil(t, tl.ActiveTab())
	assert.Equal(t, first.ID, tl.ActiveTab().ID)
	assert.Equal(t, 0, tl.ActiveIndex())
}

func TestTabList_RemoveActiveSelectsNeighbor(t *testing.T) {
	tests := []struct {
		name       string
		removeIdx  int
		wantActive int
	}{
		{name: "middle selects next", removeIdx: 1, wantActive: 2},
		{name: "last selects previous", removeIdx: 2, wantActive: 1},
		{name: "first selects next", removeIdx: 0, wantActive: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tl := entity.NewTabList()
			tabs := []*entity.Tab{tl.Add(1, "a"), tl.Add(2, "b"), tl.Add(3, "c")}
			tl.Activate(tabs[tt.removeIdx].ID)

			require.True(t, tl.Remove(tabs[tt.removeIdx].ID))
			require.NotNil(t, tl.ActiveTab())
			assert.Equal(t, tabs[tt.wantActive].ID, tl.ActiveTab().ID)
		})
	}
}

func TestTabList_RemoveLastLeavesNoActive(t *testing.T) {
	tl := entity.NewTabList()
	only := tl.Add(5, "Page 5")

	require.True(t, tl.Remove(only.ID))
	assert.Nil(t, tl.ActiveTab())
	assert.Equal(t, -1, tl.ActiveIndex())
	assert.False(t, tl.Remove(only.ID))
}

func TestTabList_NeighborWraps(t *testing.T) {
	tl := entity.NewTabList()
	a := tl.Add(1, "a")
	tl.Add(2, "b")
	c := tl.Add(3, "c")

	assert.Equal(t, c.ID, tl.Neighbor(-1).ID)
	tl.Activate(c.ID)
	assert.Equal(t, a.ID, tl.Neighbor(1).ID)

	assert.Nil(t, entity.NewTabList().Neighbor(1))
}

func TestTabList_ActivateUnknown(t *testing.T) {
	tl := entity.NewTabList()
	tl.Add(1, "a")
	assert.False(t, tl.Activate(99))
}
