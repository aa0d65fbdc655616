package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/tracker/internal/client"
	"github.com/alfredjeanlab/tracker/internal/model"
)

// resolveProject accepts a numeric project id or a project code.
func resolveProject(ctx context.Context, c client.TrackerClient, arg string) (int64, error) {
	if id, err := strconv.ParseInt(arg, 10, 64); err == nil {
		if id <= 0 {
			return 0, fmt.Errorf("invalid project id %d", id)
		}
		return id, nil
	}
	id, err := c.GetProjectID(ctx, arg)
	if err != nil {
		return 0, fmt.Errorf("resolving project %q: %w", arg, err)
	}
	return id, nil
}

func parseID(kind, arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s id %q", kind, arg)
	}
	return id, nil
}

var projectIDCmd = &cobra.Command{
	Use:     "project-id <code>",
	Short:   "Look up a project's id by its code",
	GroupID: "views",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := trackerClient.GetProjectID(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if ok, err := printStructured(cmd.OutOrStdout(), map[string]int64{"project_id": id}); ok {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), id)
		return nil
	},
}

var lookupsCmd = &cobra.Command{
	Use:   "lookups <project> [kind]",
	Short: "List a project's statuses, priorities, issue types, resolutions and milestones",
	Long: `List the lookup values of a project.

With a kind (status, priority, issue_type, resolution, milestone) only that
list is printed, one name per line.`,
	GroupID: "views",
	Args:    cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		projectID, err := resolveProject(ctx, trackerClient, args[0])
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()

		if len(args) == 2 {
			kind := model.LookupKind(args[1])
			if !kind.IsValid() {
				return fmt.Errorf("unknown lookup kind %q", args[1])
			}
			names, err := trackerClient.GetLookup(ctx, projectID, kind)
			if err != nil {
				return err
			}
			if ok, err := printStructured(out, names); ok {
				return err
			}
			for _, n := range names {
				fmt.Fprintln(out, n)
			}
			return nil
		}

		resp, err := trackerClient.GetLookups(ctx, projectID)
		if err != nil {
			return err
		}
		if ok, err := printStructured(out, resp); ok {
			return err
		}
		printLookups(out, resp)
		return nil
	},
}
