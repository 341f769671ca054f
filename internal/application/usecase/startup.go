package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bnema/lectern/internal/application/port"
	"github.com/bnema/lectern/internal/domain/entity"
	"github.com/bnema/lectern/internal/logging"
)

// ErrInvalidLaunchParams is returned for malformed launch parameters.
var ErrInvalidLaunchParams = errors.New("invalid launch parameters")

// LaunchParams are the parameters a window is started with, carried as
// a percent-encoded query string.
type LaunchParams struct {
	Standalone bool
	Label      string
	File       string
	Page       int
	Zoom       float64
	ViewMode   entity.ViewMode
	// OpenFile asks for an independent main window on another document.
	OpenFile string
}

// ParseLaunchParams decodes a launch query string. A leading "?" is allowed.
func ParseLaunchParams(query string) (LaunchParams, error) {
	values, err := url.ParseQuery(strings.TrimPrefix(query, "?"))
	if err != nil {
		return LaunchParams{}, fmt.Errorf("%w: %v", ErrInvalidLaunchParams, err)
	}

	p := LaunchParams{
		Standalone: values.Get("standalone") == "true",
		Label:      values.Get("label"),
		File:       values.Get("file"),
		OpenFile:   values.Get("openFile"),
		Page:       1,
		Zoom:       entity.DefaultZoom,
		ViewMode:   entity.ViewModeOrDefault(values.Get("viewMode")),
	}
	if v := values.Get("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil || page < 1 {
			return LaunchParams{}, fmt.Errorf("%w: page %q", ErrInvalidLaunchParams, v)
		}
		p.Page = page
	}
	if v := values.Get("zoom"); v != "" {
		zoom, err := strconv.ParseFloat(v, 64)
		if err != nil || zoom <= 0 {
			return LaunchParams{}, fmt.Errorf("%w: zoom %q", ErrInvalidLaunchParams, v)
		}
		p.Zoom = zoom
	}
	if p.Standalone && p.File == "" {
		return LaunchParams{}, fmt.Errorf("%w: standalone window without file", ErrInvalidLaunchParams)
	}
	return p, nil
}

// Encode renders the parameters as a query string.
func (p LaunchParams) Encode() string {
	values := url.Values{}
	if p.Standalone {
		values.Set("standalone", "true")
		values.Set("label", p.Label)
		values.Set("file", p.File)
		values.Set("page", strconv.Itoa(p.Page))
		values.Set("zoom", strconv.FormatFloat(p.Zoom, 'f', -1, 64))
		values.Set("viewMode", string(p.ViewMode))
	}
	if p.OpenFile != "" {
		values.Set("openFile", p.OpenFile)
	}
	return values.Encode()
}

// StandaloneLaunchParams converts a spawn spec into launch parameters.
func StandaloneLaunchParams(spec port.StandaloneSpec) LaunchParams {
	return LaunchParams{
		Standalone: true,
		Label:      spec.Label,
		File:       spec.File,
		Page:       spec.Page,
		Zoom:       spec.Zoom,
		ViewMode:   spec.ViewMode,
	}
}

// StartupPlan tells a new window what it is and what to open.
type StartupPlan struct {
	Role entity.WindowRole
	// File is the absolute document path, empty for no document.
	File string
	// Initial is the view a standalone window starts from.
	Initial *LaunchParams
}

// StartupInput carries the window's launch sources.
type StartupInput struct {
	Query string
	// OpenedFile is the document the OS asked us to open, if any.
	OpenedFile string
}

// StartupUseCase decides the role and document of a new window.
type StartupUseCase struct {
	lastOpened *GetLastOpenedUseCase
}

// NewStartupUseCase creates a new StartupUseCase.
func NewStartupUseCase(lastOpened *GetLastOpenedUseCase) *StartupUseCase {
	return &StartupUseCase{lastOpened: lastOpened}
}

// Execute resolves, in order: standalone launch parameters, an explicit
// openFile, the OS-opened file, and the last opened document.
func (uc *StartupUseCase) Execute(ctx context.Context, input StartupInput) (*StartupPlan, error) {
	log := logging.FromContext(ctx)

	params, err := ParseLaunchParams(input.Query)
	if err != nil {
		return nil, err
	}

	if params.Standalone {
		role, err := entity.StandaloneRole(params.Label)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidLaunchParams, err)
		}
		file, err := absPath(params.File)
		if err != nil {
			return nil, err
		}
		log.Debug().Str("label", role.Label()).Str("file", file).Int("page", params.Page).Msg("starting standalone window")
		return &StartupPlan{Role: role, File: file, Initial: &params}, nil
	}

	plan := &StartupPlan{Role: entity.MainRole()}
	switch {
	case params.OpenFile != "":
		plan.File = params.OpenFile
	case input.OpenedFile != "":
		plan.File = input.OpenedFile
	case uc.lastOpened != nil:
		plan.File = uc.lastOpened.Execute(ctx)
	}
	if plan.File != "" {
		if plan.File, err = absPath(plan.File); err != nil {
			return nil, err
		}
	}

	log.Debug().Str("file", plan.File).Msg("starting main window")
	return plan, nil
}

func absPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}
	return abs, nil
}
