package main

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/tracker/internal/api"
)

var issuesCmd = &cobra.Command{
	Use:     "issues",
	Short:   "List and check issues",
	GroupID: "tracker",
}

var issuesListCmd = &cobra.Command{
	Use:   "list <project>",
	Short: "List a project's issues, optionally narrowed by a filter",
	Long: `List a project's issues.

The filter is a list of key=value pairs joined by '&', for example
"status=notclosed&owner=alice". Keys: status (notclosed, new), owner,
reporter, assigned. Unknown keys are ignored.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		projectID, err := resolveProject(ctx, trackerClient, args[0])
		if err != nil {
			return err
		}
		filter, _ := cmd.Flags().GetString("filter")
		resp, err := trackerClient.GetProjectIssues(ctx, projectID, filter)
		if err != nil {
			return err
		}
		if ok, err := printStructured(cmd.OutOrStdout(), resp); ok {
			return err
		}
		return printIssueRows(cmd.OutOrStdout(), resp)
	},
}

var issuesValidCmd = &cobra.Command{
	Use:   "valid <issue-id>",
	Short: "Check whether an issue exists and is not disabled",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID("issue", args[0])
		if err != nil {
			return err
		}
		valid, err := trackerClient.ValidIssue(cmd.Context(), id)
		if err != nil {
			return err
		}
		if ok, err := printStructured(cmd.OutOrStdout(), map[string]bool{"valid": valid}); ok {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), valid)
		return nil
	},
}

var attachCmd = &cobra.Command{
	Use:     "attach <issue-id> <file>",
	Short:   "Attach a file to an issue",
	GroupID: "tracker",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID("issue", args[0])
		if err != nil {
			return err
		}
		data, err := os.ReadFile(args[1])
		if err != nil {
			return fmt.Errorf("reading attachment: %w", err)
		}
		name, _ := cmd.Flags().GetString("name")
		if name == "" {
			name = filepath.Base(args[1])
		}
		contentType, _ := cmd.Flags().GetString("content-type")
		if contentType == "" {
			contentType = mime.TypeByExtension(filepath.Ext(name))
		}
		description, _ := cmd.Flags().GetString("description")
		size := int64(len(data))

		att, err := trackerClient.CreateAttachment(cmd.Context(), &api.CreateAttachmentRequest{
			IssueID:     id,
			FileName:    name,
			ContentType: contentType,
			Size:        &size,
			Description: description,
			Content:     data,
		})
		if err != nil {
			return err
		}
		if ok, err := printStructured(cmd.OutOrStdout(), att); ok {
			return err
		}
		printAttachment(cmd.OutOrStdout(), att)
		return nil
	},
}

var revisionCmd = &cobra.Command{
	Use:     "revision <issue-id>",
	Short:   "Link a source-control revision to an issue",
	GroupID: "tracker",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID("issue", args[0])
		if err != nil {
			return err
		}
		flags := cmd.Flags()
		rev, _ := flags.GetInt("rev")
		repo, _ := flags.GetString("repo")
		author, _ := flags.GetString("author")
		date, _ := flags.GetString("date")
		message, _ := flags.GetString("message")
		changeset, _ := flags.GetString("changeset")
		branch, _ := flags.GetString("branch")

		r, err := trackerClient.CreateRevision(cmd.Context(), &api.CreateRevisionRequest{
			IssueID:      id,
			Revision:     rev,
			Repository:   repo,
			Author:       author,
			RevisionDate: date,
			Message:      message,
			Changeset:    changeset,
			Branch:       branch,
		})
		if err != nil {
			return err
		}
		if ok, err := printStructured(cmd.OutOrStdout(), r); ok {
			return err
		}
		printRevision(cmd.OutOrStdout(), r)
		return nil
	},
}

func init() {
	issuesListCmd.Flags().StringP("filter", "f", "", "issue filter, e.g. status=notclosed&owner=alice")

	issuesCmd.AddCommand(issuesListCmd)
	issuesCmd.AddCommand(issuesValidCmd)

	attachCmd.Flags().String("name", "", "file name to store (defaults to the base name)")
	attachCmd.Flags().String("content-type", "", "MIME type (guessed from the extension when empty)")
	attachCmd.Flags().String("description", "", "attachment description")

	revisionCmd.Flags().Int("rev", 0, "revision number")
	revisionCmd.Flags().String("repo", "", "repository URL or name")
	revisionCmd.Flags().String("author", "", "commit author")
	revisionCmd.Flags().String("date", "", "revision date")
	revisionCmd.Flags().StringP("message", "m", "", "commit message")
	revisionCmd.Flags().String("changeset", "", "changeset id")
	revisionCmd.Flags().String("branch", "", "branch name")
	_ = revisionCmd.MarkFlagRequired("rev")
	_ = revisionCmd.MarkFlagRequired("repo")
}
