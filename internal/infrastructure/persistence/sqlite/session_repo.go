package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/bnema/lectern/internal/domain/entity"
	"github.com/bnema/lectern/internal/domain/repository"
	"github.com/bnema/lectern/internal/infrastructure/persistence/sqlite/sqlc"
	"github.com/bnema/lectern/internal/logging"
)

type sessionRepo struct {
	db      *sql.DB
	queries *sqlc.Queries
	now     func() time.Time
}

// NewSessionRepository creates a session repository backed by db.
func NewSessionRepository(db *sql.DB) repository.SessionRepository {
	return &sessionRepo{db: db, queries: sqlc.New(db), now: time.Now}
}

// Save upserts the record keyed by filePath and rewrites its normalized
// bookmark, tab and history rows. The JSON columns are kept in sync for
// readers of the older layout.
func (r *sessionRepo) Save(ctx context.Context, filePath string, rec *entity.SessionRecord) error {
	log := logging.FromContext(ctx)
	if filePath == "" {
		return errors.New("session path cannot be empty")
	}
	if rec == nil {
		return errors.New("session record cannot be nil")
	}

	params, err := upsertParams(filePath, rec, r.now())
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin session transaction: %w", err)
	}
	defer func() {
		if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
			log.Debug().Err(rollbackErr).Msg("session rollback reported non-terminal error")
		}
	}()

	q := r.queries.WithTx(tx)
	id, err := q.UpsertSession(ctx, params)
	if err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}
	if err := saveBookmarks(ctx, q, id, rec.Bookmarks); err != nil {
		return err
	}
	if err := saveTabs(ctx, q, id, rec.Tabs, rec.ActiveTabIndex); err != nil {
		return err
	}
	if rec.PageHistory != nil {
		if err := saveHistory(ctx, q, id, rec.PageHistory); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit session transaction: %w", err)
	}

	log.Debug().
		Str("path", filePath).
		Int64("session_id", id).
		Int("page", rec.Page).
		Msg("session saved")
	return nil
}

func upsertParams(filePath string, rec *entity.SessionRecord, now time.Time) (sqlc.UpsertSessionParams, error) {
	name := rec.Name
	if name == "" {
		name = filepath.Base(filePath)
	}
	lastOpened := rec.LastOpened
	if lastOpened <= 0 {
		lastOpened = now.Unix()
	}

	bookmarks, err := jsonColumn(nonNil(rec.Bookmarks))
	if err != nil {
		return sqlc.UpsertSessionParams{}, fmt.Errorf("encode bookmarks: %w", err)
	}
	tabs, err := jsonColumn(nonNil(rec.Tabs))
	if err != nil {
		return sqlc.UpsertSessionParams{}, fmt.Errorf("encode tabs: %w", err)
	}
	windows, err := jsonColumn(nonNil(rec.Windows))
	if err != nil {
		return sqlc.UpsertSessionParams{}, fmt.Errorf("encode windows: %w", err)
	}
	var history sql.NullString
	if rec.PageHistory != nil {
		if history, err = jsonColumn(rec.PageHistory); err != nil {
			return sqlc.UpsertSessionParams{}, fmt.Errorf("encode page history: %w", err)
		}
	}

	return sqlc.UpsertSessionParams{
		FilePath:       filePath,
		Name:           name,
		CurrentPage:    int64(rec.Page),
		Zoom:           rec.Zoom,
		ViewMode:       string(entity.ViewModeOrDefault(string(rec.ViewMode))),
		Bookmarks:      bookmarks,
		PageHistory:    history,
		HistoryIndex:   nullInt(rec.HistoryIndex),
		Tabs:           tabs,
		ActiveTabIndex: nullInt(rec.ActiveTabIndex),
		Windows:        windows,
		LastOpened:     lastOpened,
		CreatedAt:      now.Unix(),
		UpdatedAt:      now.Unix(),
	}, nil
}

func saveBookmarks(ctx context.Context, q *sqlc.Queries, sessionID int64, bookmarks []entity.Bookmark) error {
	if err := q.DeleteSessionBookmarks(ctx, sessionID); err != nil {
		return fmt.Errorf("clear bookmarks: %w", err)
	}
	for _, b := range bookmarks {
		if err := q.InsertSessionBookmark(ctx, sqlc.InsertSessionBookmarkParams{
			SessionID: sessionID,
			Page:      int64(b.Page),
			Label:     sql.NullString{String: b.Label, Valid: b.Label != ""},
			CreatedAt: b.CreatedAt,
		}); err != nil {
			return fmt.Errorf("insert bookmark: %w", err)
		}
	}
	return nil
}

func saveTabs(ctx context.Context, q *sqlc.Queries, sessionID int64, tabs []entity.TabSnapshot, active *int) error {
	if err := q.DeleteSessionTabs(ctx, sessionID); err != nil {
		return fmt.Errorf("clear tabs: %w", err)
	}
	for i, tab := range tabs {
		var isActive int64
		if active != nil && *active == i {
			isActive = 1
		}
		if err := q.InsertSessionTab(ctx, sqlc.InsertSessionTabParams{
			SessionID: sessionID,
			Page:      int64(tab.Page),
			Label:     tab.Label,
			SortOrder: int64(i),
			IsActive:  isActive,
		}); err != nil {
			return fmt.Errorf("insert tab: %w", err)
		}
	}
	return nil
}

func saveHistory(ctx context.Context, q *sqlc.Queries, sessionID int64, history []entity.HistoryEntry) error {
	if err := q.DeleteSessionHistory(ctx, sessionID); err != nil {
		return fmt.Errorf("clear page history: %w", err)
	}
	for _, e := range history {
		visitedAt := e.VisitedAt.Unix()
		if e.VisitedAt.IsZero() {
			visitedAt = time.Now().Unix()
		}
		if err := q.InsertSessionHistory(ctx, sqlc.InsertSessionHistoryParams{
			SessionID: sessionID,
			Page:      int64(e.Page),
			VisitedAt: visitedAt,
		}); err != nil {
			return fmt.Errorf("insert page history: %w", err)
		}
	}
	return nil
}

// Get loads the record for filePath, or nil if none is stored.
// Normalized rows win over the JSON columns when present.
func (r *sessionRepo) Get(ctx context.Context, filePath string) (*entity.SessionRecord, error) {
	log := logging.FromContext(ctx)

	row, err := r.queries.GetSessionByPath(ctx, filePath)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	rec := &entity.SessionRecord{
		Name:           row.Name,
		LastOpened:     row.LastOpened,
		Page:           int(row.CurrentPage),
		Zoom:           row.Zoom,
		ViewMode:       entity.ViewMode(row.ViewMode),
		ActiveTabIndex: intPtr(row.ActiveTabIndex),
		HistoryIndex:   intPtr(row.HistoryIndex),
		Tabs:           []entity.TabSnapshot{},
		Windows:        []entity.WindowSnapshot{},
		Bookmarks:      []entity.Bookmark{},
	}

	if bookmarks, err := r.loadBookmarks(ctx, row.ID); err != nil {
		log.Warn().Err(err).Str("path", filePath).Msg("failed to load bookmark rows")
	} else if len(bookmarks) > 0 {
		rec.Bookmarks = bookmarks
	}
	if len(rec.Bookmarks) == 0 {
		decodeColumn(ctx, row.Bookmarks, &rec.Bookmarks, "bookmarks")
	}

	if tabs, active, err := r.loadTabs(ctx, row.ID); err != nil {
		log.Warn().Err(err).Str("path", filePath).Msg("failed to load tab rows")
	} else if len(tabs) > 0 {
		rec.Tabs = tabs
		rec.ActiveTabIndex = active
	}
	if len(rec.Tabs) == 0 {
		decodeColumn(ctx, row.Tabs, &rec.Tabs, "tabs")
	}

	if history, err := r.loadHistory(ctx, row.ID); err != nil {
		log.Warn().Err(err).Str("path", filePath).Msg("failed to load history rows")
	} else if len(history) > 0 {
		rec.PageHistory = history
	}
	if len(rec.PageHistory) == 0 {
		decodeColumn(ctx, row.PageHistory, &rec.PageHistory, "page_history")
	}

	decodeColumn(ctx, row.Windows, &rec.Windows, "windows")

	return rec, nil
}

func (r *sessionRepo) loadBookmarks(ctx context.Context, sessionID int64) ([]entity.Bookmark, error) {
	rows, err := r.queries.ListSessionBookmarks(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	out := make([]entity.Bookmark, 0, len(rows))
	for _, row := range rows {
		out = append(out, entity.Bookmark{
			Page:      int(row.Page),
			Label:     row.Label.String,
			CreatedAt: row.CreatedAt,
		})
	}
	return out, nil
}

func (r *sessionRepo) loadTabs(ctx context.Context, sessionID int64) ([]entity.TabSnapshot, *int, error) {
	rows, err := r.queries.ListSessionTabs(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	out := make([]entity.TabSnapshot, 0, len(rows))
	var active *int
	for i, row := range rows {
		out = append(out, entity.TabSnapshot{Page: int(row.Page), Label: row.Label})
		if row.IsActive != 0 {
			idx := i
			active = &idx
		}
	}
	return out, active, nil
}

func (r *sessionRepo) loadHistory(ctx context.Context, sessionID int64) ([]entity.HistoryEntry, error) {
	rows, err := r.queries.ListSessionHistory(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	out := make([]entity.HistoryEntry, 0, len(rows))
	for _, row := range rows {
		out = append(out, entity.HistoryEntry{Page: int(row.Page), VisitedAt: time.Unix(row.VisitedAt, 0)})
	}
	return out, nil
}

// Delete removes the record for filePath. Normalized rows cascade.
func (r *sessionRepo) Delete(ctx context.Context, filePath string) error {
	logging.FromContext(ctx).Debug().Str("path", filePath).Msg("deleting session")
	return r.queries.DeleteSessionByPath(ctx, filePath)
}

// GetRecent lists stored documents, most recently opened first.
func (r *sessionRepo) GetRecent(ctx context.Context, limit int) ([]entity.RecentFile, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.queries.GetRecentSessions(ctx, int64(limit))
	if err != nil {
		return nil, err
	}

	files := make([]entity.RecentFile, 0, len(rows))
	for _, row := range rows {
		files = append(files, entity.RecentFile{
			FilePath:   row.FilePath,
			Name:       row.Name,
			LastOpened: time.Unix(row.LastOpened, 0),
		})
	}
	return files, nil
}

// DeleteOldest keeps the keepCount most recently opened records.
func (r *sessionRepo) DeleteOldest(ctx context.Context, keepCount int) (int64, error) {
	if keepCount < 0 {
		keepCount = 0
	}
	return r.queries.DeleteOldestSessions(ctx, int64(keepCount))
}

func jsonColumn(v any) (sql.NullString, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

func decodeColumn[T any](ctx context.Context, col sql.NullString, target *[]T, name string) {
	if !col.Valid || col.String == "" {
		return
	}
	var out []T
	if err := json.Unmarshal([]byte(col.String), &out); err != nil {
		logging.FromContext(ctx).Warn().Err(err).Str("column", name).Msg("skipping corrupted session column")
		return
	}
	if out != nil {
		*target = out
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func intPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}

