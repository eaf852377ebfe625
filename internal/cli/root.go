// Package cli defines the screencast command tree.
package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Trucker2827/sb1-wf5mkd/internal/app"
	"github.com/Trucker2827/sb1-wf5mkd/internal/config"
	"github.com/Trucker2827/sb1-wf5mkd/internal/session"
	"github.com/Trucker2827/sb1-wf5mkd/internal/version"
)

// Dependencies holds everything the commands need.
type Dependencies struct {
	Ctrl   *session.Controller
	Config *config.Config
	Log    *logrus.Logger
}

// NewRootCmd builds the command tree. Running with no subcommand opens
// the interactive surface.
func NewRootCmd(deps *Dependencies) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "screencast",
		Short: "Record your screen, with optional webcam overlay",
		Long:  "Capture a monitor (plus system audio and an optional webcam overlay),\npreview it live, and export the recording as a WebM file.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(deps)
		},
	}

	rootCmd.Version = version.Version
	rootCmd.SetVersionTemplate(version.Full() + "\n")

	rootCmd.AddCommand(NewRecordCmd(deps))
	rootCmd.AddCommand(NewListCmd(deps))
	rootCmd.AddCommand(NewDoctorCmd(deps))
	rootCmd.AddCommand(NewMCPCmd(deps))

	return rootCmd
}

func runTUI(deps *Dependencies) error {
	p := tea.NewProgram(app.New(deps.Ctrl), tea.WithAltScreen())
	_, err := p.Run()

	if cerr := deps.Ctrl.Close(); cerr != nil {
		deps.Log.WithError(cerr).Warn("shutdown cleanup failed")
	}
	return err
}
