package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/fmoraes/quadro/internal/task"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks matching the given filters",
	Long: `List tasks from the board, newest page first by table order.

Filters combine with AND. Repeatable flags (--prioridade, --status)
match any of the given values. --busca searches the description fields.

Example usage:
  quadro list --project Vendas --status Todo --status Impedido
  quadro list --busca api --page 2 --page-size 20`,
	RunE: func(cmd *cobra.Command, args []string) error {
		b, _, closeStore, err := openBoard()
		if err != nil {
			return err
		}
		defer closeStore()

		filters, err := filtersFromFlags(cmd)
		if err != nil {
			return err
		}

		var pagination *task.Pagination
		page, _ := cmd.Flags().GetInt("page")
		pageSize, _ := cmd.Flags().GetInt("page-size")
		if page > 0 || pageSize > 0 {
			pagination = &task.Pagination{Page: page, PageSize: pageSize}
		}

		result, err := b.Query(context.Background(), filters, pagination)
		if err != nil {
			return err
		}

		printTasks(result)
		return nil
	},
}

func init() {
	listCmd.Flags().String("project", "", "Project name (substring match)")
	listCmd.Flags().String("contexto", "", "Context (substring match)")
	listCmd.Flags().String("sprint", "", "Sprint name (exact match)")
	listCmd.Flags().String("id", "", "Task id (substring match)")
	listCmd.Flags().String("busca", "", "Search the description fields")
	listCmd.Flags().StringArray("prioridade", nil, "Priority filter (repeatable)")
	listCmd.Flags().StringArray("status", nil, "Status filter (repeatable)")
	listCmd.Flags().Int("page", 0, "Page number (1-based)")
	listCmd.Flags().Int("page-size", 0, "Rows per page")
	rootCmd.AddCommand(listCmd)
}

func filtersFromFlags(cmd *cobra.Command) (*task.SearchFilters, error) {
	f := &task.SearchFilters{
		Projeto:    mustString(cmd, "project"),
		Contexto:   mustString(cmd, "contexto"),
		Sprint:     mustString(cmd, "sprint"),
		TaskID:     mustString(cmd, "id"),
		TextoBusca: mustString(cmd, "busca"),
	}

	prios, _ := cmd.Flags().GetStringArray("prioridade")
	for _, p := range prios {
		prio := task.Priority(p)
		if !prio.Valid() {
			return nil, fmt.Errorf("invalid prioridade %q (valid: %s)", p, joinPriorities())
		}
		f.Prioridade = append(f.Prioridade, prio)
	}

	statuses, _ := cmd.Flags().GetStringArray("status")
	for _, s := range statuses {
		status := task.Status(s)
		if !status.Valid() {
			return nil, fmt.Errorf("invalid status %q (valid: %s)", s, joinStatuses())
		}
		f.Status = append(f.Status, status)
	}
	return f, nil
}

func joinPriorities() string {
	var names []string
	for _, p := range task.Priorities() {
		names = append(names, string(p))
	}
	return strings.Join(names, ", ")
}

func joinStatuses() string {
	var names []string
	for _, s := range task.Statuses() {
		names = append(names, string(s))
	}
	return strings.Join(names, ", ")
}

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	terminalStyle = lipgloss.NewStyle().Faint(true)
	blockedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	urgentStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	footerStyle   = lipgloss.NewStyle().Faint(true)
)

// printTasks renders the page, styled when stdout is a terminal.
func printTasks(page *task.Page) {
	styled := term.IsTerminal(int(os.Stdout.Fd()))

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	header := "PROJECT\tID\tSPRINT\tCONTEXTO\tDESCRIÇÃO\tPRIORIDADE\tSTATUS"
	if styled {
		header = headerStyle.Render(header)
	}
	fmt.Fprintln(w, header)

	for i := range page.Tasks {
		t := &page.Tasks[i]
		line := fmt.Sprintf("%s\t%s\t%s\t%s\t%s\t%s\t%s",
			t.Project, t.TaskID, t.Sprint, t.Contexto, truncate(t.Descricao, 48), t.Prioridade, t.Status)
		if styled {
			switch {
			case t.Status.Terminal():
				line = terminalStyle.Render(line)
			case t.Status == task.StatusImpedido:
				line = blockedStyle.Render(line)
			case t.Prioridade == task.PriorityUrgente:
				line = urgentStyle.Render(line)
			}
		}
		fmt.Fprintln(w, line)
	}
	w.Flush()

	footer := fmt.Sprintf("page %d/%d, %d tasks total", page.Page, page.TotalPages, page.TotalCount)
	if styled {
		footer = footerStyle.Render(footer)
	}
	fmt.Println(footer)
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
