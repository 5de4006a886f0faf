// Package project reads and writes timeline projects as YAML documents.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/treykane/cli-timeline/internal/logging"
	"github.com/treykane/cli-timeline/internal/model"
	"github.com/treykane/cli-timeline/internal/store"
)

var ErrInvalidProject = errors.New("invalid project")

var log = logging.New("project")

// Project is the on-disk form of a timeline.
type Project struct {
	Name     string         `yaml:"name"`
	FPS      int            `yaml:"fps"`
	Duration int            `yaml:"duration"`
	Zoom     float64        `yaml:"zoom,omitempty"`
	Tracks   []model.Track  `yaml:"tracks"`
	Shots    []model.Shot   `yaml:"shots,omitempty"`
	Assets   []model.Asset  `yaml:"assets,omitempty"`
	Markers  []model.Marker `yaml:"markers,omitempty"`
}

// Load reads and validates the project at path.
func Load(path string) (Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Project{}, fmt.Errorf("read project: %w", err)
	}
	var p Project
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Project{}, fmt.Errorf("parse project %s: %w: %w", path, ErrInvalidProject, err)
	}
	if err := p.Validate(); err != nil {
		return Project{}, fmt.Errorf("project %s: %w", path, err)
	}
	log.Debug("loaded project", "path", path, "tracks", len(p.Tracks), "shots", len(p.Shots))
	return p, nil
}

// Save writes p to path, creating parent directories.
func Save(p Project, path string) error {
	if err := p.Validate(); err != nil {
		return err
	}
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode project: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create project dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write project: %w", err)
	}
	log.Info("saved project", "path", path)
	return nil
}

// Validate checks the fields the editor relies on. Missing fps and duration
// are left for the store defaults.
func (p Project) Validate() error {
	if p.FPS < 0 || p.Duration < 0 || p.Zoom < 0 {
		return fmt.Errorf("%w: negative fps, duration or zoom", ErrInvalidProject)
	}
	seen := map[string]bool{}
	for i, t := range p.Tracks {
		if strings.TrimSpace(t.ID) == "" {
			return fmt.Errorf("%w: track %d has no id", ErrInvalidProject, i)
		}
		if seen[t.ID] {
			return fmt.Errorf("%w: duplicate track id %q", ErrInvalidProject, t.ID)
		}
		seen[t.ID] = true
		if !t.Type.Valid() {
			return fmt.Errorf("%w: track %q has unknown type %q", ErrInvalidProject, t.ID, t.Type)
		}
	}
	for _, s := range p.Shots {
		if s.StartTime < 0 || s.Duration <= 0 {
			return fmt.Errorf("%w: shot %q has an empty or negative span", ErrInvalidProject, s.ID)
		}
	}
	return nil
}

// Action returns the store action that replaces the current project with p.
// Track names, colours and icons missing from the file come from the type.
func (p Project) Action() store.LoadProject {
	tracks := make([]model.Track, len(p.Tracks))
	for i, t := range p.Tracks {
		base := model.NewTrack(t.Type)
		if t.Name == "" {
			t.Name = base.Name
		}
		if t.Color == "" {
			t.Color = base.Color
		}
		if t.Icon == "" {
			t.Icon = base.Icon
		}
		if t.Height == 0 {
			t.Height = base.Height
		}
		tracks[i] = t
	}
	if len(tracks) == 0 {
		tracks = nil
	}
	return store.LoadProject{
		Name:     p.Name,
		FPS:      p.FPS,
		Duration: p.Duration,
		Zoom:     p.Zoom,
		Tracks:   tracks,
		Shots:    p.Shots,
		Assets:   p.Assets,
		Markers:  p.Markers,
	}
}

// FromState captures the project held by s.
func FromState(s store.State) Project {
	return Project{
		Name:     s.Name(),
		FPS:      s.FPS(),
		Duration: s.Duration(),
		Zoom:     s.ZoomLevel(),
		Tracks:   s.Tracks(),
		Shots:    s.Shots(),
		Assets:   s.Assets(),
		Markers:  s.Markers(),
	}
}
