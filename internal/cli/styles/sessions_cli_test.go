package styles_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/lectern/internal/application/usecase"
	"github.com/bnema/lectern/internal/cli/styles"
	"github.com/bnema/lectern/internal/domain/entity"
)

func TestSessionsCLIRenderer(t *testing.T) {
	r := styles.NewSessionsCLIRenderer(styles.NewTheme())

	require.Contains(t, r.RenderEmptyList(), "No saved sessions found.")

	items := []usecase.SessionInfo{
		{RecentFile: entity.RecentFile{FilePath: "/docs/paper.pdf", Name: "paper.pdf", LastOpened: time.Now()}},
		{RecentFile: entity.RecentFile{FilePath: "/gone/old.pdf", Name: "old.pdf", LastOpened: time.Now().Add(-48 * time.Hour)}, Missing: true},
	}
	out := r.RenderList(items, 20)
	assert.Contains(t, out, "Sessions")
	assert.Contains(t, out, "paper.pdf")
	assert.Contains(t, out, "/docs")
	assert.Contains(t, out, "old.pdf (missing)")
	assert.Contains(t, out, "2d ago")

	assert.Equal(t, "/docs/paper.pdf", r.RenderRecent(items))
	assert.Contains(t, r.RenderError(errors.New("boom")), "boom")
}

func TestRelativeTime(t *testing.T) {
	tests := []struct {
		ago  time.Duration
		want string
	}{
		{10 * time.Second, "just now"},
		{5 * time.Minute, "5m ago"},
		{3 * time.Hour, "3h ago"},
		{2 * 24 * time.Hour, "2d ago"},
		{14 * 24 * time.Hour, "2w ago"},
		{60 * 24 * time.Hour, "2mo ago"},
		{800 * 24 * time.Hour, "2y ago"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, styles.RelativeTime(time.Now().Add(-tt.ago)))
		})
	}
}

func TestTabsModel_SetActive(t *testing.T) {
	tabs := styles.NewTabs(styles.NewTheme(), "Page 1", "Page 9")
	tabs.SetActive(1)
	assert.Equal(t, 1, tabs.Active)
	tabs.SetActive(5)
	assert.Equal(t, -1, tabs.Active)
	assert.Contains(t, tabs.View(), "Page 9")

	assert.Empty(t, styles.NewTabs(styles.NewTheme()).View())
}
