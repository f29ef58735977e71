package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	verbose     bool
	backendFlag string
)

var rootCmd = &cobra.Command{
	Use:   "nexus",
	Short: "Nexus – a personal workspace for notes, money, time and projects",
	Long: `nexus keeps research notes, files, code snippets, transactions, events,
tasks, projects and goals in one place. Quick-add text is classified
automatically; by default everything is stored as JSON files in ~/.nexus/data.`,
	SilenceUsage: true,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output to stderr")
	rootCmd.PersistentFlags().StringVar(&backendFlag, "backend", "", "Storage backend: file, sqlite, redis, postgres (overrides config)")

	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(newCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(collectionsCmd)
	rootCmd.AddCommand(balanceCmd)
	rootCmd.AddCommand(taskCmd)
	rootCmd.AddCommand(projectsCmd)
	rootCmd.AddCommand(agendaCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(outlookCmd)
}
