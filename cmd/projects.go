package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/nexus/internal/model"
	"github.com/Tiliavir/nexus/internal/timecalc"
)

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "Show projects with task progress",
	Args:  cobra.NoArgs,
	RunE:  runProjects,
}

func runProjects(cmd *cobra.Command, args []string) error {
	s := openSession(context.Background())
	defer s.Close()

	projects := s.ws.Projects()
	if len(projects) == 0 {
		fmt.Println("No projects.")
		return nil
	}
	for _, p := range projects {
		proj := p.Project.Details.(model.Project)
		deadline := ""
		if proj.Deadline != nil {
			deadline = "  due " + timecalc.FromMillis(*proj.Deadline, time.Local).Format("2006-01-02")
		}
		fmt.Printf("%-8s %-24s %s %3d%%  %d/%d tasks%s\n",
			shortID(p.Project.ID), p.Project.Title(), progressBar(p.Progress, 20), p.Progress, p.Done, len(p.Tasks), deadline)
	}
	return nil
}

func progressBar(percent, width int) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := percent * width / 100
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", width-filled) + "]"
}
