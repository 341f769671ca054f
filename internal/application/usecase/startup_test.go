package usecase_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bnema/lectern/internal/application/port"
	"github.com/bnema/lectern/internal/application/usecase"
	"github.com/bnema/lectern/internal/domain/entity"
	repomocks "github.com/bnema/lectern/internal/domain/repository/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestParseLaunchParams_Standalone(t *testing.T) {
	p, err := usecase.ParseLaunchParams("?standalone=true&label=page-3-abc&file=%2Ftmp%2Fa%20b.pdf&page=3&zoom=1.5&viewMode=two-column")
	require.NoError(t, err)

	assert.True(t, p.Standalone)
	assert.Equal(t, "page-3-abc", p.Label)
	assert.Equal(t, "/tmp/a b.pdf", p.File)
	assert.Equal(t, 3, p.Page)
	assert.InDelta(t, 1.5, p.Zoom, 0.0001)
	assert.Equal(t, entity.ViewModeTwoColumn, p.ViewMode)
}

func TestParseLaunchParams_Defaults(t *testing.T) {
	p, err := usecase.ParseLaunchParams("")
	require.NoError(t, err)

	assert.False(t, p.Standalone)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, entity.DefaultZoom, p.Zoom)
	assert.Equal(t, entity.ViewModeSingle, p.ViewMode)
}

func TestParseLaunchParams_Invalid(t *testing.T) {
	for _, query := range []string{
		"standalone=true&file=/a.pdf&page=0",
		"standalone=true&file=/a.pdf&page=x",
		"standalone=true&file=/a.pdf&zoom=-1",
		"standalone=true&label=w",
		"%zz",
	} {
		_, err := usecase.ParseLaunchParams(query)
		assert.ErrorIs(t, err, usecase.ErrInvalidLaunchParams, query)
	}
}

func TestLaunchParams_EncodeRoundTrip(t *testing.T) {
	in := usecase.StandaloneLaunchParams(port.StandaloneSpec{
		Label:    "page-12-xyz",
		File:     "/docs/report & notes.pdf",
		Page:     12,
		Zoom:     2,
		ViewMode: entity.ViewModeTwoColumn,
	})

	out, err := usecase.ParseLaunchParams(in.Encode())
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestStartup_StandaloneWins(t *testing.T) {
	uc := usecase.NewStartupUseCase(nil)

	plan, err := uc.Execute(testContext(), usecase.StartupInput{
		Query:      "standalone=true&label=page-2-a&file=/docs/a.pdf&page=2",
		OpenedFile: "/docs/other.pdf",
	})
	require.NoError(t, err)

	assert.False(t, plan.Role.IsMain())
	assert.Equal(t, "page-2-a", plan.Role.Label())
	assert.Equal(t, "/docs/a.pdf", plan.File)
	require.NotNil(t, plan.Initial)
	assert.Equal(t, 2, plan.Initial.Page)
}

func TestStartup_StandaloneRejectsMainLabel(t *testing.T) {
	uc := usecase.NewStartupUseCase(nil)
	_, err := uc.Execute(testContext(), usecase.StartupInput{Query: "standalone=true&label=main&file=/docs/a.pdf"})
	assert.ErrorIs(t, err, usecase.ErrInvalidLaunchParams)
}

func TestStartup_Precedence(t *testing.T) {
	dir := t.TempDir()
	last := filepath.Join(dir, "last.pdf")
	require.NoError(t, os.WriteFile(last, []byte("%PDF"), 0o600))

	repo := repomocks.NewMockSessionRepository(t)
	repo.EXPECT().GetRecent(mock.Anything, 10).Return([]entity.RecentFile{
		{FilePath: filepath.Join(dir, "gone.pdf"), LastOpened: time.Now()},
		{FilePath: last, LastOpened: time.Now().Add(-time.Hour)},
	}, nil).Once()
	uc := usecase.NewStartupUseCase(usecase.NewGetLastOpenedUseCase(repo))

	plan, err := uc.Execute(testContext(), usecase.StartupInput{Query: "openFile=/docs/b.pdf", OpenedFile: "/docs/c.pdf"})
	require.NoError(t, err)
	assert.True(t, plan.Role.IsMain())
	assert.Equal(t, "/docs/b.pdf", plan.File)
	assert.Nil(t, plan.Initial)

	plan, err = uc.Execute(testContext(), usecase.StartupInput{OpenedFile: "/docs/c.pdf"})
	require.NoError(t, err)
	assert.Equal(t, "/docs/c.pdf", plan.File)

	plan, err = uc.Execute(testContext(), usecase.StartupInput{})
	require.NoError(t, err)
	assert.Equal(t, last, plan.File)
}

func TestStartup_NoDocument(t *testing.T) {
	repo := repomocks.NewMockSessionRepository(t)
	repo.EXPECT().GetRecent(mock.Anything, 10).Return(nil, nil).Once()
	uc := usecase.NewStartupUseCase(usecase.NewGetLastOpenedUseCase(repo))

	plan, err := uc.Execute(testContext(), usecase.StartupInput{})
	require.NoError(t, err)
	assert.True(t, plan.Role.IsMain())
	assert.Empty(t, plan.File)
}
