package model

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bnema/lectern/internal/application/port"
	"github.com/bnema/lectern/internal/ui/coordinator"
)

// Shell delivers window requests to the viewer program. Messages sent
// before the program is attached are queued and flushed on Attach.
type Shell struct {
	mu      sync.Mutex
	program *tea.Program
	pending []tea.Msg
}

var _ port.Shell = (*Shell)(nil)

// NewShell creates a detached shell.
func NewShell() *Shell {
	return &Shell{}
}

// Attach connects the shell to the running program.
func (s *Shell) Attach(p *tea.Program) {
	s.mu.Lock()
	s.program = p
	pending := s.pending
	s.pending = nil
	s.mu.Unlock()

	go func() {
		for _, msg := range pending {
			p.Send(msg)
		}
	}()
}

func (s *Shell) send(msg tea.Msg) {
	s.mu.Lock()
	p := s.program
	if p == nil {
		s.pending = append(s.pending, msg)
	}
	s.mu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}

// StateChanged forwards a coordinator state change. Register it with
// WindowCoordinator.OnChange.
func (s *Shell) StateChanged(st coordinator.ViewState) {
	s.send(stateMsg{state: st})
}

// Alert shows a blocking message box.
func (s *Shell) Alert(_ context.Context, title, message string) {
	s.send(alertMsg{title: title, message: message})
}

// SetTitle sets the terminal title.
func (s *Shell) SetTitle(_ context.Context, title string) {
	s.send(titleMsg(title))
}

// CloseDocument returns the viewer to its empty screen.
func (s *Shell) CloseDocument(context.Context) {
	s.send(documentClosedMsg{})
}

// CloseWindow ends the program.
func (s *Shell) CloseWindow(context.Context) {
	s.send(closeWindowMsg{})
}
