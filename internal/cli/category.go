package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var categoryCmd = &cobra.Command{
	Use:     "category",
	Aliases: []string{"cat"},
	Short:   "Manage category labels",
}

var categoryAddCmd = &cobra.Command{
	Use:   "add NAME",
	Short: "Add a category (blank and existing names are ignored)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.TrimSpace(args[0])
		if err := current.store.AddCategory(name); err != nil {
			return fmt.Errorf("failed to add category: %w", err)
		}
		if name == "" {
			fmt.Fprintln(cmd.OutOrStdout(), "Nothing to add")
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Category %q present\n", name)
		return nil
	},
}

var categoryRmCmd = &cobra.Command{
	Use:   "rm NAME",
	Short: "Remove a category; tasks keep their category text",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := current.store.RemoveCategory(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed category %q\n", args[0])
		return nil
	},
}

var categoryLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List categories in order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, c := range current.store.Categories() {
			fmt.Fprintln(cmd.OutOrStdout(), c)
		}
		return nil
	},
}

func init() {
	categoryCmd.AddCommand(categoryAddCmd, categoryRmCmd, categoryLsCmd)
	rootCmd.AddCommand(categoryCmd)
}
