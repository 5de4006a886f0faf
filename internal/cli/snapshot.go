package cli

import (
	"errors"
	"fmt"
	"image/png"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/treykane/cli-timeline/internal/config"
	"github.com/treykane/cli-timeline/internal/project"
	"github.com/treykane/cli-timeline/internal/render"
	"github.com/treykane/cli-timeline/internal/storage"
	"github.com/treykane/cli-timeline/internal/store"
	"github.com/treykane/cli-timeline/internal/timecode"
	"github.com/treykane/cli-timeline/internal/tracks"
)

type snapshotOptions struct {
	Out      string
	Width    int
	Height   int
	From     int
	Zoom     float64
	Playhead int
}

func newSnapshotCmd(a *App) *cobra.Command {
	opts := snapshotOptions{}
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Render the timeline tracks to a PNG image",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.config()
			if err != nil {
				return err
			}
			p, _, err := a.loadProject(cfg)
			if err != nil {
				return err
			}
			stats, err := writeSnapshot(cfg, p, opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%s)\n", opts.Out, stats)
			return nil
		},
	}
	cmd.Flags().StringVarP(&opts.Out, "out", "o", "", "Output PNG path (required)")
	cmd.Flags().IntVar(&opts.Width, "width", 1280, "Image width in px")
	cmd.Flags().IntVar(&opts.Height, "height", 0, "Image height in px (0 fits every visible track)")
	cmd.Flags().IntVar(&opts.From, "from", 0, "First frame at the left edge")
	cmd.Flags().Float64Var(&opts.Zoom, "zoom", 0, "Pixels per frame (default: project zoom)")
	cmd.Flags().IntVar(&opts.Playhead, "playhead", -1, "Frame to mark with the playhead (-1 hides it)")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

// snapshotState loads p into a store the same way the editor does, including
// persisted track settings.
func snapshotState(cfg config.Config, p project.Project) store.State {
	if p.FPS == 0 {
		p.FPS = cfg.FPS
	}
	if p.Duration == 0 {
		p.Duration = cfg.DurationFrames
	}
	if p.Zoom == 0 {
		p.Zoom = cfg.ZoomLevel
	}
	st := store.New(store.Options{})
	st.Dispatch(p.Action())

	if s := openStorage(cfg); s != nil {
		tracks.New(tracks.Options{Store: st, Storage: s}).Mount()
		if err := storage.Close(s); err != nil {
			log.Warn("close storage", "error", err)
		}
	}
	return st.GetState()
}

func writeSnapshot(cfg config.Config, p project.Project, opts snapshotOptions) (render.Stats, error) {
	if opts.Width <= 0 {
		return render.Stats{}, fmt.Errorf("--width must be positive, got %d", opts.Width)
	}
	if opts.From < 0 {
		return render.Stats{}, fmt.Errorf("--from must not be negative, got %d", opts.From)
	}
	state := snapshotState(cfg, p)
	zoom := state.ZoomLevel()
	if opts.Zoom > 0 {
		zoom = opts.Zoom
	}

	in := render.Input{
		Tracks:         state.Tracks(),
		Shots:          state.Shots(),
		Zoom:           zoom,
		Playhead:       opts.Playhead,
		ViewportWidth:  opts.Width,
		ViewportHeight: opts.Height,
		ScrollX:        timecode.FrameToPixel(float64(opts.From), zoom),
	}
	surfaces, stats := render.Render(in, render.ImageFactory())
	if len(surfaces) == 0 {
		return stats, errors.New("no visible tracks to render")
	}
	img := render.Compose(surfaces, opts.Width, 0)

	if err := os.MkdirAll(filepath.Dir(opts.Out), 0o755); err != nil {
		return stats, fmt.Errorf("create output dir: %w", err)
	}
	f, err := os.Create(opts.Out)
	if err != nil {
		return stats, fmt.Errorf("create snapshot: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return stats, fmt.Errorf("encode snapshot: %w", err)
	}
	if err := f.Close(); err != nil {
		return stats, fmt.Errorf("write snapshot: %w", err)
	}
	log.Info("wrote snapshot", "path", opts.Out, "stats", stats.String())
	return stats, nil
}
