package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fmoraes/quadro/internal/task"
)

var configsCmd = &cobra.Command{
	Use:   "configs",
	Short: "Show the valid status and priority values",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Statuses:")
		for _, s := range task.Statuses() {
			fmt.Printf("  %s\n", s)
		}
		fmt.Println("Priorities:")
		for _, p := range task.Priorities() {
			fmt.Printf("  %s\n", p)
		}
	},
}

func init() {
	rootCmd.AddCommand(configsCmd)
}
