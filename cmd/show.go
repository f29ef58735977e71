package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/nexus/internal/model"
	"github.com/Tiliavir/nexus/internal/workspace"
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print an item as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	s := openSession(context.Background())
	defer s.Close()

	it := s.mustResolve(args[0])
	data, err := json.MarshalIndent(it, "", "  ")
	if err != nil {
		s.fail(fmt.Errorf("error encoding JSON: %w", err), 2)
	}
	fmt.Println(string(data))
	return nil
}

// resolveID finds the item whose id equals ref, or the single item whose id
// starts with ref.
func resolveID(ws *workspace.Workspace, ref string) (model.Item, error) {
	if it, ok := ws.Get(ref); ok {
		return it, nil
	}
	var matches []model.Item
	for _, it := range ws.Items() {
		if strings.HasPrefix(it.ID, ref) {
			matches = append(matches, it)
		}
	}
	switch len(matches) {
	case 0:
		return model.Item{}, fmt.Errorf("no item with id %q", ref)
	case 1:
		return matches[0], nil
	default:
		return model.Item{}, fmt.Errorf("id prefix %q is ambiguous (%d items)", ref, len(matches))
	}
}

// mustResolve is resolveID that exits with status 1 on failure.
func (s *session) mustResolve(ref string) model.Item {
	it, err := resolveID(s.ws, ref)
	if err != nil {
		s.fail(err, 1)
	}
	return it
}
