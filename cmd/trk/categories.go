package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/tracker/internal/ui"
)

var categoriesCmd = &cobra.Command{
	Use:     "categories",
	Aliases: []string{"cat"},
	Short:   "Show and edit a project's category tree",
	GroupID: "tracker",
}

var categoriesTreeCmd = &cobra.Command{
	Use:   "tree <project>",
	Short: "Print the category tree of a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		projectID, err := resolveProject(ctx, trackerClient, args[0])
		if err != nil {
			return err
		}
		nodes, err := trackerClient.GetCategories(ctx, projectID)
		if err != nil {
			return err
		}
		if ok, err := printStructured(cmd.OutOrStdout(), nodes); ok {
			return err
		}
		printCategoryTree(cmd.OutOrStdout(), nodes)
		return nil
	},
}

var categoriesAddCmd = &cobra.Command{
	Use:   "add <project> <name>",
	Short: "Add a category, at the root or under --parent",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		projectID, err := resolveProject(ctx, trackerClient, args[0])
		if err != nil {
			return err
		}
		parent, _ := cmd.Flags().GetInt64("parent")
		cat, err := trackerClient.AddCategory(ctx, projectID, args[1], parent)
		if err != nil {
			return err
		}
		if ok, err := printStructured(cmd.OutOrStdout(), cat); ok {
			return err
		}
		printCategory(cmd.OutOrStdout(), cat)
		return nil
	},
}

var categoriesRenameCmd = &cobra.Command{
	Use:   "rename <category-id> <name>",
	Short: "Rename a category",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID("category", args[0])
		if err != nil {
			return err
		}
		cat, err := trackerClient.RenameCategory(cmd.Context(), id, args[1])
		if err != nil {
			return err
		}
		if ok, err := printStructured(cmd.OutOrStdout(), cat); ok {
			return err
		}
		printCategory(cmd.OutOrStdout(), cat)
		return nil
	},
}

var categoriesMoveCmd = &cobra.Command{
	Use:   "move <category-id>",
	Short: "Move a category under a new parent (0 for the root)",
	Long: `Move a category under a new parent.

--from must name the category's current parent (0 for the root). The move
is rejected if the category has been moved since, or if the new parent is
the category itself or one of its descendants.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID("category", args[0])
		if err != nil {
			return err
		}
		from, _ := cmd.Flags().GetInt64("from")
		to, _ := cmd.Flags().GetInt64("to")
		cat, err := trackerClient.MoveCategory(cmd.Context(), id, from, to)
		if err != nil {
			return err
		}
		if ok, err := printStructured(cmd.OutOrStdout(), cat); ok {
			return err
		}
		printCategory(cmd.OutOrStdout(), cat)
		return nil
	},
}

var categoriesDeleteCmd = &cobra.Command{
	Use:   "delete <category-id>",
	Short: "Delete a category and all of its descendants",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID("category", args[0])
		if err != nil {
			return err
		}
		removed, err := trackerClient.DeleteCategory(cmd.Context(), id)
		if err != nil {
			return err
		}
		if ok, err := printStructured(cmd.OutOrStdout(), map[string][]int64{"removed": removed}); ok {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), ui.RenderClosed(fmt.Sprintf("removed %d categories: %v", len(removed), removed)))
		return nil
	},
}

func init() {
	categoriesAddCmd.Flags().Int64("parent", 0, "parent category id (0 for the root)")
	categoriesMoveCmd.Flags().Int64("from", 0, "current parent category id (0 for the root)")
	categoriesMoveCmd.Flags().Int64("to", 0, "new parent category id (0 for the root)")
	_ = categoriesMoveCmd.MarkFlagRequired("from")
	_ = categoriesMoveCmd.MarkFlagRequired("to")

	categoriesCmd.AddCommand(categoriesTreeCmd)
	categoriesCmd.AddCommand(categoriesAddCmd)
	categoriesCmd.AddCommand(categoriesRenameCmd)
	categoriesCmd.AddCommand(categoriesMoveCmd)
	categoriesCmd.AddCommand(categoriesDeleteCmd)
}
