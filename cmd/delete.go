package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/nexus/internal/storage"
)

var deleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"rm"},
	Short:   "Delete an item",
	Args:    cobra.ExactArgs(1),
	RunE:    runDelete,
}

func runDelete(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	s := openSession(ctx)
	defer s.Close()

	it := s.mustResolve(args[0])
	if err := s.ws.Delete(ctx, it.ID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.fail(fmt.Errorf("no item with id %q", it.ID), 1)
		}
		s.fail(err, 2)
	}
	fmt.Printf("Deleted %s %q.\n", it.Type(), firstLine(it.Title()))
	return nil
}
