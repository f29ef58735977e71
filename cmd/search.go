package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var searchLimit int

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Rank notes and files by similarity to a query",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 10, "Show at most n results (0 = all)")
}

func runSearch(cmd *cobra.Command, args []string) error {
	s := openSession(context.Background())
	defer s.Close()

	results := s.ws.Search(strings.Join(args, " "))
	if len(results) == 0 {
		fmt.Println("No matching notes.")
		return nil
	}
	if searchLimit > 0 && len(results) > searchLimit {
		results = results[:searchLimit]
	}
	for _, r := range results {
		fmt.Printf("%5.1f%%  %-8s %s\n", r.Score*100, shortID(r.Item.ID), firstLine(r.Item.Title()))
	}
	return nil
}
