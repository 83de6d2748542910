package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fmoraes/quadro/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter quadro.yaml in the current directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "quadro.yaml"
		if configPath != "" {
			path = configPath
		}
		if err := config.WriteStarter(path); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
