// Package event defines the cross-window events and their wire encoding.
package event

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bnema/lectern/internal/domain/entity"
)

// Name identifies an event kind on the bus.
type Name string

const (
	WindowPageChanged  Name = "window-page-changed"
	WindowStateChanged Name = "window-state-changed"
	MoveWindowToTab    Name = "move-window-to-tab"
	BookmarkSync       Name = "bookmark-sync"
)

// Names lists every known event kind.
var Names = []Name{WindowPageChanged, WindowStateChanged, MoveWindowToTab, BookmarkSync}

// ErrUnknownEvent is returned when decoding an event with an unknown name.
var ErrUnknownEvent = errors.New("unknown event")

// Valid reports whether n is a known event kind.
func (n Name) Valid() bool {
	switch n {
	case WindowPageChanged, WindowStateChanged, MoveWindowToTab, BookmarkSync:
		return true
	default:
		return false
	}
}

// PageChanged is published by a standalone window after it navigates.
type PageChanged struct {
	Label string `json:"label"`
	Page  int    `json:"page"`
}

// StateChanged is published by a standalone window after a zoom or layout change.
type StateChanged struct {
	Label    string          `json:"label"`
	Zoom     float64         `json:"zoom"`
	ViewMode entity.ViewMode `json:"viewMode"`
}

// MoveToTab asks the main window to absorb a standalone window as a tab.
type MoveToTab struct {
	Label string `json:"label"`
	Page  int    `json:"page"`
}

// BookmarksSynced carries the full bookmark set of its source window.
type BookmarksSynced struct {
	Bookmarks   []entity.Bookmark `json:"bookmarks"`
	SourceLabel string            `json:"sourceLabel"`
}

// Envelope frames an event for transport.
type Envelope struct {
	Event   Name            `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// Encode wraps a payload into an envelope.
func Encode(name Name, payload any) (Envelope, error) {
	if !name.Valid() {
		return Envelope{}, fmt.Errorf("%w: %q", ErrUnknownEvent, name)
	}
	if b, ok := payload.(BookmarksSynced); ok && b.Bookmarks == nil {
		b.Bookmarks = []entity.Bookmark{}
		payload = b
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("encode %s: %w", name, err)
	}
	return Envelope{Event: name, Payload: data}, nil
}

// MustEncode is Encode for payloads known to marshal.
func MustEncode(name Name, payload any) Envelope {
	env, err := Encode(name, payload)
	if err != nil {
		panic(err)
	}
	return env
}

// Decode unmarshals the envelope payload into the struct for its kind.
func (e Envelope) Decode() (any, error) {
	var target any
	switch e.Event {
	case WindowPageChanged:
		target = &PageChanged{}
	case WindowStateChanged:
		target = &StateChanged{}
	case MoveWindowToTab:
		target = &MoveToTab{}
	case BookmarkSync:
		target = &BookmarksSynced{}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, e.Event)
	}
	if err := json.Unmarshal(e.Payload, target); err != nil {
		return nil, fmt.Errorf("decode %s payload: %w", e.Event, err)
	}
	switch v := target.(type) {
	case *PageChanged:
		return *v, nil
	case *StateChanged:
		return *v, nil
	case *MoveToTab:
		return *v, nil
	case *BookmarksSynced:
		return *v, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, e.Event)
}

// Marshal returns the transport frame for the envelope.
func (e Envelope) Marshal() ([]byte, error) {
	return json.Marshal(e)
}

// Unmarshal parses a transport frame.
func Unmarshal(data []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Envelope{}, fmt.Errorf("decode envelope: %w", err)
	}
	if !env.Event.Valid() {
		return Envelope{}, fmt.Errorf("%w: %q", ErrUnknownEvent, env.Event)
	}
	return env, nil
}
