package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"dayplan/internal/planner"
	"dayplan/internal/query"
)

const shortIDLen = 8

var (
	taskFields planner.Fields

	listFilter string
	listSort   string
)

var addCmd = &cobra.Command{
	Use:   "add NAME",
	Short: "Add a task",
	Args:  cobra.ExactArgs(1),
	RunE:  runAdd,
}

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tasks, filtered and sorted",
	Args:    cobra.NoArgs,
	RunE:    runList,
}

var doneCmd = &cobra.Command{
	Use:   "done ID",
	Short: "Mark a task done",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setDone(cmd, args[0], true)
	},
}

var undoCmd = &cobra.Command{
	Use:   "undo ID",
	Short: "Mark a task pending",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setDone(cmd, args[0], false)
	},
}

var toggleCmd = &cobra.Command{
	Use:   "toggle ID",
	Short: "Flip the done flag of a task",
	Args:  cobra.ExactArgs(1),
	RunE:  runToggle,
}

var rmCmd = &cobra.Command{
	Use:     "rm ID",
	Aliases: []string{"delete"},
	Short:   "Delete a task",
	Args:    cobra.ExactArgs(1),
	RunE:    runRemove,
}

var editCmd = &cobra.Command{
	Use:   "edit ID",
	Short: "Change fields of a task; only the given flags are applied",
	Args:  cobra.ExactArgs(1),
	RunE:  runEdit,
}

func init() {
	for _, c := range []*cobra.Command{addCmd, editCmd} {
		c.Flags().StringVar(&taskFields.Date, "date", "", "date as YYYY-MM-DD")
		c.Flags().StringVar(&taskFields.Time, "time", "", "time as HH:MM")
		c.Flags().StringVar(&taskFields.Category, "category", "", "category name")
		c.Flags().StringVar(&taskFields.Location, "location", "", "location")
		c.Flags().BoolVar(&taskFields.Done, "done", false, "mark as done")
	}
	editCmd.Flags().StringVar(&taskFields.Name, "name", "", "new name")

	listCmd.Flags().StringVar(&listFilter, "filter", "", "all, done or pending (default from config)")
	listCmd.Flags().StringVar(&listSort, "sort", "", "time, name or category (default from config)")

	rootCmd.AddCommand(addCmd, listCmd, doneCmd, undoCmd, toggleCmd, rmCmd, editCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	f := taskFields
	f.Name = args[0]
	id, err := current.store.Create(f)
	if err != nil {
		return fmt.Errorf("failed to add task: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Added task %s\n", id)
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	filterName := listFilter
	if filterName == "" {
		filterName = current.cfg.DefaultFilter
	}
	sortName := listSort
	if sortName == "" {
		sortName = current.cfg.DefaultSort
	}
	filter, err := query.ParseFilter(filterName)
	if err != nil {
		return err
	}
	key, err := query.ParseSortKey(sortName)
	if err != nil {
		return err
	}

	tasks, err := query.Run(current.store.List(), filter, key)
	if err != nil {
		return err
	}
	printTasks(cmd.OutOrStdout(), tasks)
	return nil
}

func setDone(cmd *cobra.Command, ref string, done bool) error {
	id, err := resolveID(current.store, ref)
	if err != nil {
		return err
	}
	if err := current.store.SetDone(id, done); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Marked %s %s\n", shortID(id), doneWord(done))
	return nil
}

func runToggle(cmd *cobra.Command, args []string) error {
	id, err := resolveID(current.store, args[0])
	if err != nil {
		return err
	}
	done, err := current.store.Toggle(id)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Marked %s %s\n", shortID(id), doneWord(done))
	return nil
}

func runRemove(cmd *cobra.Command, args []string) error {
	id, err := resolveID(current.store, args[0])
	if err != nil {
		return err
	}
	if err := current.store.Delete(id); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted task %s\n", shortID(id))
	return nil
}

func runEdit(cmd *cobra.Command, args []string) error {
	id, err := resolveID(current.store, args[0])
	if err != nil {
		return err
	}
	t, err := current.store.Get(id)
	if err != nil {
		return err
	}
	f := planner.FieldsOf(t)
	flags := cmd.Flags()
	if flags.Changed("name") {
		f.Name = taskFields.Name
	}
	if flags.Changed("date") {
		f.Date = taskFields.Date
	}
	if flags.Changed("time") {
		f.Time = taskFields.Time
	}
	if flags.Changed("category") {
		f.Category = taskFields.Category
	}
	if flags.Changed("location") {
		f.Location = taskFields.Location
	}
	if flags.Changed("done") {
		f.Done = taskFields.Done
	}
	if err := current.store.Update(id, f); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Updated task %s\n", shortID(id))
	return nil
}

func printTasks(w io.Writer, tasks []planner.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, "No tasks.")
		return
	}
	for _, t := range tasks {
		fmt.Fprintln(w, formatTask(t))
	}
}

func formatTask(t planner.Task) string {
	box := "[ ]"
	if t.Done {
		box = "[x]"
	}
	line := fmt.Sprintf("%s  %s %-10s %-5s  %s", shortID(t.ID), box, t.Date, t.Time, t.Name)
	var extra []string
	if t.Category != "" {
		extra = append(extra, t.Category)
	}
	if t.Location != "" {
		extra = append(extra, "@ "+t.Location)
	}
	if len(extra) > 0 {
		line += "  (" + strings.Join(extra, " ") + ")"
	}
	return line
}

func shortID(id string) string {
	if len(id) > shortIDLen {
		return id[:shortIDLen]
	}
	return id
}

func doneWord(done bool) string {
	if done {
		return "done"
	}
	return "pending"
}
