package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/fmoraes/quadro/internal/task"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show per-sprint completion statistics",
	Long: `Summarize completion per sprint: total tasks, completed tasks,
completion percentage, and a breakdown by status. Tasks without a
sprint are excluded.

Example usage:
  quadro stats
  quadro stats --project Vendas`,
	RunE: func(cmd *cobra.Command, args []string) error {
		b, _, closeStore, err := openBoard()
		if err != nil {
			return err
		}
		defer closeStore()

		project, _ := cmd.Flags().GetString("project")
		stats, err := b.SprintStats(context.Background(), project)
		if err != nil {
			return err
		}

		if len(stats) == 0 {
			fmt.Println("No sprints found")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "SPRINT\tTOTAL\tCOMPLETED\t%\tBY STATUS")
		for _, s := range stats {
			fmt.Fprintf(w, "%s\t%d\t%d\t%.2f\t%s\n",
				s.Sprint, s.TotalTasks, s.CompletedTasks, s.CompletionPercentage, formatByStatus(s.TasksByStatus))
		}
		return w.Flush()
	},
}

func init() {
	statsCmd.Flags().String("project", "", "Limit to one project (exact name)")
	rootCmd.AddCommand(statsCmd)
}

// formatByStatus renders the breakdown in declaration order so the
// output is stable across runs.
func formatByStatus(byStatus map[string]int) string {
	out := ""
	for _, s := range task.Statuses() {
		if n, ok := byStatus[string(s)]; ok {
			if out != "" {
				out += ", "
			}
			out += fmt.Sprintf("%s: %d", s, n)
		}
	}
	return out
}
