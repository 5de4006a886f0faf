package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/treykane/cli-timeline/internal/config"
	"github.com/treykane/cli-timeline/internal/layout"
	"github.com/treykane/cli-timeline/internal/model"
	"github.com/treykane/cli-timeline/internal/storage"
)

var errNoStorage = errors.New("storage backend is none; nothing is persisted")

func newLayoutCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Inspect or reset the persisted panel layout",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the persisted panel layout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStorage(a, func(s storage.Storage) error {
				return showLayout(cmd.OutOrStdout(), s)
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Forget the persisted panel layout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStorage(a, func(s storage.Storage) error {
				if err := storage.Remove(s, layout.StorageKey); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Layout reset to defaults")
				return nil
			})
		},
	})
	return cmd
}

func withStorage(a *App, fn func(storage.Storage) error) error {
	cfg, err := a.config()
	if err != nil {
		return err
	}
	if cfg.StorageBackend == config.StorageNone {
		return errNoStorage
	}
	s, err := storage.Open(cfg.StorageBackend, cfg.StorageDir)
	if err != nil {
		return err
	}
	defer func() {
		if err := storage.Close(s); err != nil {
			log.Warn("close storage", "error", err)
		}
	}()
	return fn(s)
}

func showLayout(w io.Writer, s storage.Storage) error {
	raw, ok, err := storage.Get(s, layout.StorageKey)
	if err != nil {
		return err
	}
	l := model.DefaultLayout()
	source := "default"
	if ok {
		parsed, err := layout.ParseLayout([]byte(raw))
		if err != nil {
			// The editor ignores a corrupt layout, so report defaults here too.
			source = fmt.Sprintf("default (stored layout unreadable: %v)", err)
		} else {
			l = parsed
			source = "stored"
		}
	}
	fmt.Fprintf(w, "source:        %s\n", source)
	fmt.Fprintf(w, "asset library: width %.1f%%\n", l.AssetLibrary.Width)
	fmt.Fprintf(w, "preview:       width %.1f%%, height %.1f%%\n", l.Preview.Width, l.Preview.Height)
	fmt.Fprintf(w, "shot config:   width %.1f%%\n", l.ShotConfig.Width)
	fmt.Fprintf(w, "timeline:      height %.1f%%\n", l.Timeline.Height)
	return nil
}
