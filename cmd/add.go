package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/nexus/internal/model"
)

var addMode string

var addCmd = &cobra.Command{
	Use:   "add <text>",
	Short: "Quick-add: classify free text and store it",
	Long: `Quick-add classifies free text and stores the result.

  nexus add 12,50 Café          → expense of 12.5 XOF, category "Café"
  nexus add acheter du pain     → task
  nexus add réunion demain      → event tomorrow at this time, one hour long
  nexus add anything else       → note

With an assistant configured (see ~/.nexus/config.json) the text is sent to
the model first; the local rules are used when it is unavailable.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

func init() {
	addCmd.Flags().StringVar(&addMode, "mode", string(model.ModeResearch), "Workspace mode passed to the assistant: RESEARCH, FINANCE, CALENDAR, PROJECTS, CODE")
}

func parseMode(s string) (model.Mode, error) {
	m := model.Mode(strings.ToUpper(s))
	switch m {
	case model.ModeResearch, model.ModeFinance, model.ModeCalendar, model.ModeProjects, model.ModeCode:
		return m, nil
	}
	return "", fmt.Errorf("unknown mode %q", s)
}

func runAdd(cmd *cobra.Command, args []string) error {
	mode, err := parseMode(addMode)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx := context.Background()
	s := openSession(ctx)
	defer s.Close()

	res, err := s.ws.QuickAdd(ctx, strings.Join(args, " "), mode)
	if err != nil {
		s.fail(err, exitCode(err))
	}

	if res.Item == nil {
		fmt.Println(res.Answer)
		return nil
	}
	it := *res.Item
	fmt.Printf("Added %s %q (%s)", it.Type(), firstLine(it.Title()), shortID(it.ID))
	if d := itemDetail(it); d != "" {
		fmt.Printf("  %s", d)
	}
	fmt.Println()
	if res.Answer != "" {
		fmt.Println(res.Answer)
	}
	return nil
}
