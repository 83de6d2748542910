package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show PROJECT TASK_ID",
	Short: "Show one task as JSON",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, _, closeStore, err := openBoard()
		if err != nil {
			return err
		}
		defer closeStore()

		t, err := b.GetOne(context.Background(), args[0], args[1])
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(t)
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}
