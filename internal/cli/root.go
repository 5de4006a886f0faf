// Package cli wires the command line: the root command starts the terminal
// editor, subcommands expose timecode conversion, the persisted layout and
// PNG snapshots of the timeline.
package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/treykane/cli-timeline/internal/app"
	"github.com/treykane/cli-timeline/internal/config"
	"github.com/treykane/cli-timeline/internal/logging"
	"github.com/treykane/cli-timeline/internal/project"
	"github.com/treykane/cli-timeline/internal/storage"
)

var log = logging.New("cli")

// App holds the persistent flag values shared by every command.
type App struct {
	ProjectPath string
	FPS         int
	Storage     string
	StorageDir  string
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	a := &App{}

	cmd := &cobra.Command{
		Use:          "timeline",
		Short:        "Terminal timeline editor for generated shots",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Open the editor on the built-in sample project
  timeline

  # Edit a project file
  timeline --project ~/films/short.yaml

  # Convert between frames and MM:SS:FF
  timeline timecode 2175 --fps 24
  timeline timecode 01:30:15

  # Render the timeline to an image
  timeline snapshot --project short.yaml --out timeline.png
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return cmd.Help()
			}
			return runTUI(a)
		},
	}

	cmd.PersistentFlags().StringVar(&a.ProjectPath, "project", envOr("CLI_TIMELINE_PROJECT", ""), "Project YAML file (default: config project_file, else the sample project)")
	cmd.PersistentFlags().IntVar(&a.FPS, "fps", 0, "Frames per second (default: project, then config)")
	cmd.PersistentFlags().StringVar(&a.Storage, "storage", "", "Storage backend for layout and track settings (file|sqlite|none)")
	cmd.PersistentFlags().StringVar(&a.StorageDir, "storage-dir", "", "Directory for the storage backend (default: ~/.cli-timeline)")

	cmd.AddCommand(newTimecodeCmd(a))
	cmd.AddCommand(newLayoutCmd(a))
	cmd.AddCommand(newSnapshotCmd(a))
	return cmd
}

// config loads the user config and applies flag overrides.
func (a *App) config() (config.Config, error) {
	cfg := config.LoadOrDefault()
	if a.FPS < 0 {
		return cfg, fmt.Errorf("--fps must be positive, got %d", a.FPS)
	}
	if a.FPS > 0 {
		cfg.FPS = a.FPS
	}
	if a.Storage != "" {
		switch backend := strings.ToLower(strings.TrimSpace(a.Storage)); backend {
		case config.StorageFile, config.StorageSQLite, config.StorageNone:
			cfg.StorageBackend = backend
		default:
			return cfg, fmt.Errorf("unknown storage backend %q", a.Storage)
		}
	}
	if a.StorageDir != "" {
		dir, err := config.NormalizePath(a.StorageDir)
		if err != nil {
			return cfg, fmt.Errorf("--storage-dir: %w", err)
		}
		cfg.StorageDir = dir
	}
	return cfg, nil
}

// loadProject resolves the project to edit. It returns the file path the
// editor saves to, empty for the sample project.
func (a *App) loadProject(cfg config.Config) (project.Project, string, error) {
	path := a.ProjectPath
	if path == "" {
		path = cfg.ProjectFile
	}
	if path == "" {
		return project.Sample(), "", nil
	}
	path, err := config.NormalizePath(path)
	if err != nil {
		return project.Project{}, "", err
	}
	p, err := project.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		// A new file: start from the sample and save there.
		log.Info("project file missing, starting from sample", "path", path)
		return project.Sample(), path, nil
	}
	if err != nil {
		return project.Project{}, "", err
	}
	if a.FPS > 0 {
		p.FPS = a.FPS
	}
	return p, path, nil
}

// openStorage opens the configured backend. Failures degrade to no storage.
func openStorage(cfg config.Config) storage.Storage {
	s, err := storage.Open(cfg.StorageBackend, cfg.StorageDir)
	if err != nil {
		log.Warn("open storage, continuing without persistence", "backend", cfg.StorageBackend, "error", err)
		return nil
	}
	return s
}

func runTUI(a *App) error {
	cfg, err := a.config()
	if err != nil {
		return err
	}
	p, path, err := a.loadProject(cfg)
	if err != nil {
		return err
	}
	return app.Run(app.Options{
		Config:      cfg,
		Storage:     openStorage(cfg),
		Project:     p,
		ProjectPath: path,
	})
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}
