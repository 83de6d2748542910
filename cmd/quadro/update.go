package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fmoraes/quadro/internal/task"
)

var updateCmd = &cobra.Command{
	Use:   "update PROJECT TASK_ID",
	Short: "Apply field updates to one task",
	Long: `Update fields of the task identified by PROJECT and TASK_ID.

Fields are passed as repeated --set key=value pairs using the column
keys (status, prioridade, sprint, contexto, descricao, detalhado,
task_id_root, data_criacao, data_solucao). Moving a task into a
terminal status records data_solucao automatically.

Example usage:
  quadro update Vendas V-102 --set status=Concluído
  quadro update Vendas V-102 --set prioridade=Alta --set sprint=2026-S2`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		pairs, _ := cmd.Flags().GetStringArray("set")
		if len(pairs) == 0 {
			return fmt.Errorf("at least one --set key=value is required")
		}

		fields := task.Patch{}
		for _, pair := range pairs {
			key, value, ok := strings.Cut(pair, "=")
			if !ok {
				return fmt.Errorf("invalid --set %q (want key=value)", pair)
			}
			fields[strings.TrimSpace(key)] = value
		}

		b, _, closeStore, err := openBoard()
		if err != nil {
			return err
		}
		defer closeStore()

		updated, err := b.UpdateOne(context.Background(), args[0], args[1], fields)
		if err != nil {
			return err
		}

		fmt.Printf("Updated %s/%s (status: %s)\n", updated.Project, updated.TaskID, updated.Status)
		return nil
	},
}

func init() {
	updateCmd.Flags().StringArray("set", nil, "Field update as key=value (repeatable)")
	rootCmd.AddCommand(updateCmd)
}
