package cli

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

// NewListCmd prints recent recording sessions.
func NewListCmd(deps *Dependencies) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent recording sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			sessions, err := deps.Ctrl.Recent(limit)
			if err != nil {
				return err
			}
			if len(sessions) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No recordings yet.")
				return nil
			}

			for _, s := range sessions {
				dur := "—"
				if s.EndedAt != nil {
					dur = s.EndedAt.Sub(s.StartedAt).Round(time.Second).String()
				}
				line := fmt.Sprintf("%s  %-9s %8s  %s",
					s.StartedAt.Format("2006-01-02 15:04:05"),
					s.Status,
					humanize.Bytes(uint64(s.Bytes)),
					dur,
				)
				if s.Path != "" {
					line += "  " + s.Path
				}
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum sessions to show")

	return cmd
}
