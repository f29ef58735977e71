package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/nexus/internal/model"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Work with kanban tasks",
}

var taskMoveCmd = &cobra.Command{
	Use:   "move <id> <status>",
	Short: "Move a task to TODO, IN_PROGRESS or DONE",
	Args:  cobra.ExactArgs(2),
	RunE:  runTaskMove,
}

var taskBoardCmd = &cobra.Command{
	Use:   "board",
	Short: "Show tasks by column",
	Args:  cobra.NoArgs,
	RunE:  runTaskBoard,
}

func init() {
	taskCmd.AddCommand(taskMoveCmd)
	taskCmd.AddCommand(taskBoardCmd)
}

// parseStatus accepts the column names case-insensitively, with "-" or " "
// for the underscore.
func parseStatus(s string) model.TaskStatus {
	s = strings.ToUpper(strings.NewReplacer("-", "_", " ", "_").Replace(strings.TrimSpace(s)))
	return model.TaskStatus(s)
}

func runTaskMove(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	s := openSession(ctx)
	defer s.Close()

	it := s.mustResolve(args[0])
	moved, err := s.ws.MoveTask(ctx, it.ID, parseStatus(args[1]))
	if err != nil {
		s.fail(err, exitCode(err))
	}
	fmt.Printf("Moved %q to %s.\n", firstLine(moved.Title()), moved.Details.(model.Task).Status)
	return nil
}

func runTaskBoard(cmd *cobra.Command, args []string) error {
	s := openSession(context.Background())
	defer s.Close()

	columns := map[model.TaskStatus][]model.Item{}
	for _, it := range s.ws.ByType(model.TypeTask) {
		st := it.Details.(model.Task).Status
		columns[st] = append(columns[st], it)
	}
	for _, st := range model.TaskStatuses {
		fmt.Printf("%s (%d)\n", st, len(columns[st]))
		for _, it := range columns[st] {
			fmt.Printf("  %-8s %s  %s\n", shortID(it.ID), firstLine(it.Title()), itemDetail(it))
		}
	}
	return nil
}
