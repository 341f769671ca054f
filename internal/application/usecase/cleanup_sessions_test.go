package usecase_test

import (
	"errors"
	"testing"

	"github.com/bnema/lectern/internal/application/usecase"
	repomocks "github.com/bnema/lectern/internal/domain/repository/mocks"
	"github.com/stretchr/testify/assert"
)

func TestCleanupSessionsUseCase_Execute_DefaultsKeepCount(t *testing.T) {
	ctx := testContext()
	sessionRepo := repomocks.NewMockSessionRepository(t)
	sessionRepo.EXPECT().DeleteOldest(ctx, usecase.DefaultMaxStoredSessions).Return(3, nil)

	out := usecase.NewCleanupSessionsUseCase(sessionRepo).Execute(ctx, usecase.CleanupSessionsInput{})
	assert.Equal(t, int64(3), out.Deleted)
}

func TestCleanupSessionsUseCase_Execute_CustomKeepCount(t *testing.T) {
	ctx := testContext()
	sessionRepo := repomocks.NewMockSessionRepository(t)
	sessionRepo.EXPECT().DeleteOldest(ctx, 10).Return(0, nil)

	out := usecase.NewCleanupSessionsUseCase(sessionRepo).Execute(ctx, usecase.CleanupSessionsInput{MaxStoredSessions: 10})
	assert.Zero(t, out.Deleted)
}

func TestCleanupSessionsUseCase_Execute_ErrorIsLogged(t *testing.T) {
	ctx := testContext()
	sessionRepo := repomocks.NewMockSessionRepository(t)
	sessionRepo.EXPECT().DeleteOldest(ctx, usecase.DefaultMaxStoredSessions).Return(0, errors.New("locked"))

	out := usecase.NewCleanupSessionsUseCase(sessionRepo).Execute(ctx, usecase.CleanupSessionsInput{})
	assert.Zero(t, out.Deleted)
}
