package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/Trucker2827/sb1-wf5mkd/internal/session"
)

// NewRecordCmd records headlessly: start immediately, stop on Ctrl+C (or
// when the platform ends the capture), then export.
func NewRecordCmd(deps *Dependencies) *cobra.Command {
	var webcam bool
	var duration time.Duration

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record without the interactive surface",
		Long:  "Start recording immediately and stop on Ctrl+C, then export the\nresult to the output directory.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
			defer cancel()

			if webcam {
				if err := deps.Ctrl.ToggleWebcam(ctx); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "warning: webcam unavailable: %v\n", err)
				}
			}

			if err := deps.Ctrl.StartRecording(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Recording... press Ctrl+C to stop.")

			wait := ctx.Done()
			var timeout <-chan time.Time
			if duration > 0 {
				timeout = time.After(duration)
			}

			// Stop on signal, timeout, or the capture ending on its own.
		loop:
			for {
				select {
				case <-wait:
					break loop
				case <-timeout:
					break loop
				case ev, ok := <-deps.Ctrl.Events():
					if !ok {
						break loop
					}
					if ev.Kind == session.EventSourceEnded {
						fmt.Fprintln(cmd.OutOrStdout(), "Capture ended by the system.")
						break loop
					}
				}
			}

			if err := deps.Ctrl.StopRecording(); err != nil {
				return err
			}

			path, err := deps.Ctrl.Export()
			if err != nil {
				return err
			}
			if path == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing captured.")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&webcam, "webcam", "w", false, "Overlay the webcam")
	cmd.Flags().DurationVarP(&duration, "duration", "t", 0, "Stop automatically after this long")

	return cmd
}
