package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var collectionsCmd = &cobra.Command{
	Use:   "collections",
	Short: "List collections with their item counts",
	Args:  cobra.NoArgs,
	RunE:  runCollections,
}

func runCollections(cmd *cobra.Command, args []string) error {
	s := openSession(context.Background())
	defer s.Close()

	counts := map[string]int{}
	for _, it := range s.ws.Items() {
		counts[it.CollectionID]++
	}
	for _, c := range s.ws.Collections() {
		pin := " "
		if c.Pinned {
			pin = "*"
		}
		fmt.Printf("%s %-3s %-20s %-9s %4d  %s\n", pin, c.ID, c.Name, c.Mode, counts[c.ID], c.Description)
	}
	return nil
}
