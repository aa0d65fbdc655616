package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/tracker/internal/ui"
)

var healthCmd = &cobra.Command{
	Use:     "health",
	Short:   "Check the health of the tracker service",
	GroupID: "system",
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := trackerClient.Health(cmd.Context())
		if err != nil {
			return fmt.Errorf("checking health: %w", err)
		}

		if ok, err := printStructured(cmd.OutOrStdout(), resp); ok {
			if err != nil {
				return err
			}
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "Health: %s\n", resp.Status)
			if resp.FilterTokensDropped > 0 {
				fmt.Fprintln(cmd.OutOrStdout(), ui.RenderWarn(fmt.Sprintf("Filter tokens dropped: %d", resp.FilterTokensDropped)))
			}
		}

		if resp.Status != "ok" {
			return fmt.Errorf("unhealthy: %s", resp.Status)
		}
		return nil
	},
}
