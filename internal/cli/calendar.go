package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"dayplan/internal/calendar"
)

var (
	calYear  int
	calMonth int
	calShift int
)

var calCmd = &cobra.Command{
	Use:   "cal",
	Short: "Print a month calendar with task counts per day",
	Args:  cobra.NoArgs,
	RunE:  runCal,
}

var dayCmd = &cobra.Command{
	Use:   "day DATE",
	Short: "List the tasks dated exactly DATE (YYYY-MM-DD)",
	Args:  cobra.ExactArgs(1),
	RunE:  runDay,
}

func init() {
	calCmd.Flags().IntVar(&calYear, "year", 0, "year (default current)")
	calCmd.Flags().IntVar(&calMonth, "month", 0, "month 1-12 (default current)")
	calCmd.Flags().IntVar(&calShift, "shift", 0, "months to move forward (negative for back) from year/month")
	rootCmd.AddCommand(calCmd, dayCmd)
}

func runCal(cmd *cobra.Command, args []string) error {
	cur := calendar.CursorAt(time.Now())
	if calYear != 0 {
		cur = cur.WithYear(calYear)
	}
	if calMonth != 0 {
		if calMonth < 1 || calMonth > 12 {
			return fmt.Errorf("%w: got %d", calendar.ErrInvalidMonth, calMonth)
		}
		cur = cur.WithMonth(time.Month(calMonth))
	}
	cur = cur.Add(calShift)

	grid, err := cur.Build(current.store.List())
	if err != nil {
		return err
	}
	printGrid(cmd.OutOrStdout(), grid)
	return nil
}

func runDay(cmd *cobra.Command, args []string) error {
	printTasks(cmd.OutOrStdout(), calendar.TasksOnDate(current.store.List(), args[0]))
	return nil
}

func printGrid(w io.Writer, g calendar.Grid) {
	fmt.Fprintf(w, "%s %d\n", g.Month, g.Year)
	fmt.Fprintln(w, " Mon Tue Wed Thu Fri Sat Sun")
	var busy []calendar.Cell
	for _, week := range g.Weeks {
		var b strings.Builder
		for _, c := range week {
			switch {
			case c.Blank():
				b.WriteString("    ")
			case len(c.Tasks) > 0:
				fmt.Fprintf(&b, " %2d*", c.Day)
				busy = append(busy, c)
			default:
				fmt.Fprintf(&b, " %2d ", c.Day)
			}
		}
		fmt.Fprintln(w, strings.TrimRight(b.String(), " "))
	}
	for _, c := range busy {
		names := make([]string, 0, len(c.Tasks))
		for _, t := range c.Tasks {
			names = append(names, t.Name)
		}
		fmt.Fprintf(w, "%s: %s\n", c.Date, strings.Join(names, ", "))
	}
}
