package usecase

import (
	"context"
	"fmt"

	"github.com/bnema/lectern/internal/domain/entity"
	"github.com/bnema/lectern/internal/logging"
)

// MoveWindowToTabUseCase folds a standalone window back into the main
// window as a tab.
//
// It is pure domain manipulation: it depends only on entities.
type MoveWindowToTabUseCase struct{}

func NewMoveWindowToTabUseCase() *MoveWindowToTabUseCase {
	return &MoveWindowToTabUseCase{}
}

type MoveWindowToTabInput struct {
	Registry  *entity.WindowRegistry
	Navigator *Navigator
	Label     string
	Page      int
}

type MoveWindowToTabOutput struct {
	Tab *entity.Tab
	// Removed is the registry entry that was dropped, nil if the label
	// was unknown (already moved or closed).
	Removed *entity.StandaloneWindow
}

// Execute removes the window from the registry, then appends and
// activates a tab on its page. Both happen in the caller's loop turn.
func (uc *MoveWindowToTabUseCase) Execute(ctx context.Context, input MoveWindowToTabInput) (*MoveWindowToTabOutput, error) {
	log := logging.FromContext(ctx)

	if input.Registry == nil || input.Navigator == nil {
		return nil, fmt.Errorf("registry and navigator are required")
	}
	if input.Label == "" || input.Label == entity.MainWindowLabel {
		return nil, fmt.Errorf("%w: %q", entity.ErrInvalidWindowLabel, input.Label)
	}
	if !input.Navigator.InRange(input.Page) {
		return nil, fmt.Errorf("page %d out of range 1..%d", input.Page, input.Navigator.TotalPages())
	}

	removed := input.Registry.Remove(input.Label)
	if removed == nil {
		log.Debug().Str("label", input.Label).Msg("move-to-tab for unknown window, creating tab anyway")
	}

	tab, _ := input.Navigator.AddTab(input.Page)

	log.Info().
		Str("label", input.Label).
		Int("page", input.Page).
		Uint64("tab_id", uint64(tab.ID)).
		Msg("window moved to tab")

	return &MoveWindowToTabOutput{Tab: tab, Removed: removed}, nil
}
