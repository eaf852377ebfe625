package cli

import (
	"fmt"
	"os/exec"

	"github.com/dustin/go-humanize"
	"github.com/shirou/gopsutil/disk"
	"github.com/spf13/cobra"

	"github.com/Trucker2827/sb1-wf5mkd/internal/capture"
)

// NewDoctorCmd checks prerequisites: encoder/player binaries, displays,
// webcam device, and free space in the output directory.
func NewDoctorCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check prerequisites",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			ok := true

			check := func(name string, passed bool, detail string) {
				mark := "✓"
				if !passed {
					mark = "✗"
					ok = false
				}
				fmt.Fprintf(out, "%s %-16s %s\n", mark, name, detail)
			}

			if _, err := exec.LookPath(deps.Config.FFmpegPath); err != nil {
				check("ffmpeg", false, "not found; install ffmpeg and/or set ffmpeg_path")
			} else {
				check("ffmpeg", true, deps.Config.FFmpegPath)
			}

			if _, err := exec.LookPath(deps.Config.FFplayPath); err != nil {
				check("ffplay", false, "not found; preview windows will not work")
			} else {
				check("ffplay", true, deps.Config.FFplayPath)
			}

			displays := capture.Displays()
			if len(displays) == 0 {
				check("displays", false, "none detected")
			} else {
				d := displays[0]
				if deps.Config.DisplayIndex < len(displays) {
					d = displays[deps.Config.DisplayIndex]
				}
				check("displays", true, fmt.Sprintf("%d attached, capturing %s", len(displays), d.Label()))
			}

			prober := capture.PlatformProber{}
			if label, err := prober.ProbeWebcam(cmd.Context(), deps.Config.WebcamDevice); err != nil {
				check("webcam", false, err.Error())
			} else {
				check("webcam", true, label)
			}

			if usage, err := disk.Usage(deps.Config.OutputDir); err != nil {
				check("output dir", false, fmt.Sprintf("%s: %v", deps.Config.OutputDir, err))
			} else {
				check("output dir", true, fmt.Sprintf("%s (%s free)", deps.Config.OutputDir, humanize.Bytes(usage.Free)))
			}

			if ok {
				fmt.Fprintln(out, "\nAll prerequisites met. Ready to record!")
			} else {
				fmt.Fprintln(out, "\nSome prerequisites are missing.")
			}
			return nil
		},
	}
}
