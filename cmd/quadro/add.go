package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/google/uuid"
	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/br"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
	"github.com/spf13/cobra"

	"github.com/fmoraes/quadro/internal/task"
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a task to the board",
	Long: `Add one task to the board.

All fields can be passed as flags; with --interactive (or when the
required flags are missing) an interactive form collects them instead.
Omitting --id generates a task id. --created accepts human phrases in
Portuguese or English ("ontem", "yesterday 10:00") as well as the
canonical "2006-01-02 15:04:05" layout.

Example usage:
  quadro add --project Vendas --contexto Backend --descricao "Criar API de pedidos"
  quadro add --interactive`,
	RunE: func(cmd *cobra.Command, args []string) error {
		b, _, closeStore, err := openBoard()
		if err != nil {
			return err
		}
		defer closeStore()

		t := task.Task{
			Project:    mustString(cmd, "project"),
			TaskID:     mustString(cmd, "id"),
			TaskIDRoot: mustString(cmd, "root"),
			Sprint:     mustString(cmd, "sprint"),
			Contexto:   mustString(cmd, "contexto"),
			Descricao:  mustString(cmd, "descricao"),
			Detalhado:  mustString(cmd, "detalhado"),
			Prioridade: task.Priority(mustString(cmd, "prioridade")),
			Status:     task.Status(mustString(cmd, "status")),
		}

		interactive, _ := cmd.Flags().GetBool("interactive")
		if interactive || (t.Project == "" && t.Descricao == "") {
			if err := runAddForm(&t); err != nil {
				return err
			}
		}

		if created := mustString(cmd, "created"); created != "" {
			parsed, err := parseWhen(created, task.CreatedAtLayout)
			if err != nil {
				return err
			}
			t.DataCriacao = parsed
		}
		if t.TaskID == "" {
			t.TaskID = uuid.NewString()[:8]
		}
		if t.Prioridade == "" {
			t.Prioridade = task.PriorityNormal
		}
		if t.Status == "" {
			t.Status = task.StatusTodo
		}

		key, err := b.AddOne(context.Background(), t)
		if err != nil {
			return err
		}

		fmt.Printf("Added %s/%s\n", key.Project, key.TaskID)
		return nil
	},
}

func init() {
	addCmd.Flags().String("project", "", "Project name")
	addCmd.Flags().String("id", "", "Task id (generated when empty)")
	addCmd.Flags().String("root", "", "Root task id for subtasks")
	addCmd.Flags().String("sprint", "", "Sprint name")
	addCmd.Flags().String("contexto", "", "Context / area")
	addCmd.Flags().String("descricao", "", "Short description")
	addCmd.Flags().String("detalhado", "", "Detailed description")
	addCmd.Flags().String("prioridade", "", "Priority (default Normal)")
	addCmd.Flags().String("status", "", "Status (default Todo)")
	addCmd.Flags().String("created", "", "Creation date (human phrase or canonical layout)")
	addCmd.Flags().BoolP("interactive", "i", false, "Collect fields with an interactive form")
	rootCmd.AddCommand(addCmd)
}

func mustString(cmd *cobra.Command, name string) string {
	v, _ := cmd.Flags().GetString(name)
	return v
}

// runAddForm collects the task fields interactively.
func runAddForm(t *task.Task) error {
	prio := string(task.PriorityNormal)
	if t.Prioridade != "" {
		prio = string(t.Prioridade)
	}
	status := string(task.StatusTodo)
	if t.Status != "" {
		status = string(t.Status)
	}

	var prioOpts []huh.Option[string]
	for _, p := range task.Priorities() {
		prioOpts = append(prioOpts, huh.NewOption(string(p), string(p)))
	}
	var statusOpts []huh.Option[string]
	for _, s := range task.Statuses() {
		statusOpts = append(statusOpts, huh.NewOption(string(s), string(s)))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Project").Value(&t.Project).
				Validate(notBlank("project")),
			huh.NewInput().Title("Contexto").Value(&t.Contexto).
				Validate(notBlank("contexto")),
			huh.NewInput().Title("Descrição").Value(&t.Descricao).
				Validate(notBlank("descricao")),
			huh.NewText().Title("Detalhado").Value(&t.Detalhado),
			huh.NewInput().Title("Sprint").Value(&t.Sprint),
			huh.NewSelect[string]().Title("Prioridade").Options(prioOpts...).Value(&prio),
			huh.NewSelect[string]().Title("Status").Options(statusOpts...).Value(&status),
		),
	)
	if err := form.Run(); err != nil {
		return fmt.Errorf("form cancelled: %w", err)
	}

	t.Prioridade = task.Priority(prio)
	t.Status = task.Status(status)
	return nil
}

func notBlank(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

// parseWhen accepts the canonical layout directly, falling back to
// natural-language parsing in Portuguese and English.
func parseWhen(s, layout string) (string, error) {
	if t, err := time.Parse(layout, s); err == nil {
		return t.Format(layout), nil
	}

	w := when.New(nil)
	w.Add(br.All...)
	w.Add(en.All...)
	w.Add(common.All...)

	result, err := w.Parse(s, time.Now())
	if err != nil {
		return "", fmt.Errorf("failed to parse date %q: %w", s, err)
	}
	if result == nil {
		return "", fmt.Errorf("could not understand date %q", s)
	}
	return result.Time.Format(layout), nil
}
