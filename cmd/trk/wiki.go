package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/tracker/internal/api"
)

var wikiCmd = &cobra.Command{
	Use:     "wiki",
	Short:   "Read wiki source and preview rendered pages",
	GroupID: "tracker",
}

var wikiSourceCmd = &cobra.Command{
	Use:   "source <page-id>",
	Short: "Print the source of a wiki page version",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID("wiki page", args[0])
		if err != nil {
			return err
		}
		slug, _ := cmd.Flags().GetString("slug")
		version, _ := cmd.Flags().GetInt("version")
		src, err := trackerClient.GetWikiSource(cmd.Context(), id, slug, version)
		if err != nil {
			return err
		}
		if ok, err := printStructured(cmd.OutOrStdout(), map[string]string{"source": src}); ok {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), src)
		return nil
	},
}

var wikiPreviewCmd = &cobra.Command{
	Use:   "preview <project> [file]",
	Short: "Render wiki source to HTML (reads stdin when no file is given)",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		projectID, err := resolveProject(ctx, trackerClient, args[0])
		if err != nil {
			return err
		}

		var src []byte
		if len(args) == 2 && args[1] != "-" {
			src, err = os.ReadFile(args[1])
		} else {
			src, err = io.ReadAll(cmd.InOrStdin())
		}
		if err != nil {
			return fmt.Errorf("reading source: %w", err)
		}

		pageID, _ := cmd.Flags().GetInt64("id")
		slug, _ := cmd.Flags().GetString("slug")
		html, err := trackerClient.GetWikiPreview(ctx, &api.GetWikiPreviewRequest{
			ProjectID: projectID,
			ID:        pageID,
			Slug:      slug,
			Source:    string(src),
		})
		if err != nil {
			return err
		}
		if ok, err := printStructured(cmd.OutOrStdout(), map[string]string{"html": html}); ok {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), html)
		return nil
	},
}

func init() {
	wikiSourceCmd.Flags().String("slug", "", "page slug; must match the page when given")
	wikiSourceCmd.Flags().Int("version", 1, "content version")
	wikiPreviewCmd.Flags().Int64("id", 0, "page id")
	wikiPreviewCmd.Flags().String("slug", "", "page slug")

	wikiCmd.AddCommand(wikiSourceCmd)
	wikiCmd.AddCommand(wikiPreviewCmd)
}
