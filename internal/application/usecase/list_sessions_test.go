package usecase_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/bnema/lectern/internal/application/usecase"
	"github.com/bnema/lectern/internal/domain/entity"
	repomocks "github.com/bnema/lectern/internal/domain/repository/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListSessionsUseCase_Execute_MarksMissingFiles(t *testing.T) {
	ctx := testContext()
	dir := t.TempDir()
	present := filepath.Join(dir, "present.pdf")
	require.NoError(t, os.WriteFile(present, []byte("%PDF"), 0o600))

	sessionRepo := repomocks.NewMockSessionRepository(t)
	sessionRepo.EXPECT().GetRecent(ctx, 50).Return([]entity.RecentFile{
		{FilePath: present, Name: "present.pdf", LastOpened: time.Now()},
		{FilePath: filepath.Join(dir, "gone.pdf"), Name: "gone.pdf", LastOpened: time.Now().Add(-time.Hour)},
	}, nil)

	uc := usecase.NewListSessionsUseCase(sessionRepo)
	out, err := uc.Execute(ctx, 0)
	require.NoError(t, err)
	require.Len(t, out.Sessions, 2)

	assert.False(t, out.Sessions[0].Missing)
	assert.True(t, out.Sessions[1].Missing)
	assert.Equal(t, "gone.pdf", out.Sessions[1].Name)
}

func TestListSessionsUseCase_Execute_PassesLimit(t *testing.T) {
	ctx := testContext()
	sessionRepo := repomocks.NewMockSessionRepository(t)
	sessionRepo.EXPECT().GetRecent(ctx, 5).Return(nil, nil)

	out, err := usecase.NewListSessionsUseCase(sessionRepo).Execute(ctx, 5)
	require.NoError(t, err)
	assert.Empty(t, out.Sessions)
}

func TestListSessionsUseCase_Execute_RepoError(t *testing.T) {
	ctx := testContext()
	sessionRepo := repomocks.NewMockSessionRepository(t)
	sessionRepo.EXPECT().GetRecent(ctx, 50).Return(nil, errors.New("boom"))

	_, err := usecase.NewListSessionsUseCase(sessionRepo).Execute(ctx, -1)
	assert.Error(t, err)
}
