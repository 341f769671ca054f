package sqlite

import (
	"context"
	"sync"

	"github.com/bnema/lectern/internal/application/port"
	"github.com/bnema/lectern/internal/domain/entity"
	"github.com/bnema/lectern/internal/domain/repository"
)

// LazySessionRepository defers opening the database until a session is
// first read or written.
type LazySessionRepository struct {
	provider port.DatabaseProvider
	repo     repository.SessionRepository
	once     sync.Once
	initErr  error
}

// NewLazySessionRepository creates a lazy-loading session repository.
func NewLazySessionRepository(provider port.DatabaseProvider) repository.SessionRepository {
	return &LazySessionRepository{provider: provider}
}

func (r *LazySessionRepository) init(ctx context.Context) error {
	r.once.Do(func() {
		db, err := r.provider.DB(ctx)
		if err != nil {
			r.initErr = err
			return
		}
		r.repo = NewSessionRepository(db)
	})
	return r.initErr
}

func (r *LazySessionRepository) Save(ctx context.Context, filePath string, rec *entity.SessionRecord) error {
	if err := r.init(ctx); err != nil {
		return err
	}
	return r.repo.Save(ctx, filePath, rec)
}

func (r *LazySessionRepository) Get(ctx context.Context, filePath string) (*entity.SessionRecord, error) {
	if err := r.init(ctx); err != nil {
		return nil, err
	}
	return r.repo.Get(ctx, filePath)
}

func (r *LazySessionRepository) Delete(ctx context.Context, filePath string) error {
	if err := r.init(ctx); err != nil {
		return err
	}
	return r.repo.Delete(ctx, filePath)
}

func (r *LazySessionRepository) GetRecent(ctx context.Context, limit int) ([]entity.RecentFile, error) {
	if err := r.init(ctx); err != nil {
		return nil, err
	}
	return r.repo.GetRecent(ctx, limit)
}

func (r *LazySessionRepository) DeleteOldest(ctx context.Context, keepCount int) (int64, error) {
	if err := r.init(ctx); err != nil {
		return 0, err
	}
	return r.repo.DeleteOldest(ctx, keepCount)
}
