package port

import (
	"context"

	"github.com/bnema/lectern/internal/domain/entity"
)

// SessionProvider captures the session of the open document.
type SessionProvider interface {
	// CaptureSession returns the document path and its current session.
	// An empty path means no document is open.
	CaptureSession(ctx context.Context) (string, *entity.SessionRecord, error)
}
