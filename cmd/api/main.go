package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "taskflow",
	Short: "TaskFlow project and task tracking API",
	Long: `TaskFlow is a project and task tracking backend: projects with
role-based membership, tasks with status workflows, threaded comments,
daily progress updates, notifications, and an activity trail.`,
}

func main() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to the config directory")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
