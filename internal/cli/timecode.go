package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/treykane/cli-timeline/internal/timecode"
)

func newTimecodeCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "timecode <frames|MM:SS:FF>",
		Short: "Convert between frame counts and MM:SS:FF timecode",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.config()
			if err != nil {
				return err
			}
			out, err := convertTimecode(args[0], cfg.FPS)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
}

// convertTimecode turns a plain frame count into timecode and anything else
// into a frame count.
func convertTimecode(arg string, fps int) (string, error) {
	arg = strings.TrimSpace(arg)
	if n, err := strconv.Atoi(arg); err == nil {
		if n < 0 {
			return "", fmt.Errorf("frame count must not be negative, got %d", n)
		}
		return fmt.Sprintf("%s (%s @ %dfps)", timecode.FramesToTimecode(n, fps), timecode.FormatDuration(n, fps), fps), nil
	}
	frames, err := timecode.TimecodeToFrames(arg, fps, -1)
	if err != nil {
		return "", err
	}
	return strconv.Itoa(frames), nil
}
