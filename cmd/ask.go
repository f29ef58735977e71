package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/Tiliavir/nexus/internal/assistant"
	"github.com/Tiliavir/nexus/internal/model"
)

var (
	askMode string
	askSave bool
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask the assistant without storing anything (unless --save)",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAsk,
}

func init() {
	askCmd.Flags().StringVar(&askMode, "mode", string(model.ModeResearch), "Workspace mode: RESEARCH, FINANCE, CALENDAR, PROJECTS, CODE")
	askCmd.Flags().BoolVar(&askSave, "save", false, "Store the item the assistant proposes")
}

func runAsk(cmd *cobra.Command, args []string) error {
	mode, err := parseMode(askMode)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	s := openSession(ctx)
	defer s.Close()

	text := strings.Join(args, " ")
	res, err := s.ai.Parse(ctx, text, mode)
	if errors.Is(err, assistant.ErrNotConfigured) {
		s.fail(errors.New("no assistant configured: set assistant.provider in ~/.nexus/config.json and the matching API key"), 1)
	}
	if err != nil {
		s.fail(err, 2)
	}

	if res.Response != "" {
		fmt.Println(res.Response)
	}
	it, ok := res.Item(uuid.NewString(), time.Now(), text)
	if !ok {
		return nil
	}
	fmt.Printf("Proposed %s %q  %s\n", it.Type(), firstLine(it.Title()), itemDetail(it))
	if !askSave {
		return nil
	}

	saved, err := s.ws.Update(ctx, it)
	if err != nil {
		s.fail(err, exitCode(err))
	}
	fmt.Printf("Saved as %s (%s) in collection %s.\n", saved.Type(), shortID(saved.ID), saved.CollectionID)
	return nil
}
