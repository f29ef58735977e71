package workspace

import (
	"context"
	"fmt"
	"math"

	"github.com/Tiliavir/nexus/internal/model"
	"github.com/Tiliavir/nexus/internal/storage"
)

// ProjectStatus is a project together with its tasks.
type ProjectStatus struct {
	Project  model.Item
	Tasks    []model.Item
	Done     int
	Progress int
}

// TasksForProject returns the tasks among items that reference projectID.
func TasksForProject(projectID string, items []model.Item) []model.Item {
	var tasks []model.Item
	for _, it := range items {
		if t, ok := it.Details.(model.Task); ok && t.ProjectID == projectID {
			tasks = append(tasks, it)
		}
	}
	return tasks
}

// ProjectProgress is the rounded share of done tasks, in percent. A project
// without tasks has no progress.
func ProjectProgress(projectID string, items []model.Item) int {
	tasks := TasksForProject(projectID, items)
	done := 0
	for _, it := range tasks {
		if it.Details.(model.Task).Status == model.StatusDone {
			done++
		}
	}
	total := len(tasks)
	if total == 0 {
		total = 1
	}
	return int(math.Round(float64(done) / float64(total) * 100))
}

// Projects returns every cached project with its computed progress.
func (w *Workspace) Projects() []ProjectStatus {
	items := w.Items()
	var out []ProjectStatus
	for _, it := range items {
		if _, ok := it.Details.(model.Project); !ok {
			continue
		}
		tasks := TasksForProject(it.ID, items)
		done := 0
		for _, t := range tasks {
			if t.Details.(model.Task).Status == model.StatusDone {
				done++
			}
		}
		out = append(out, ProjectStatus{
			Project:  it,
			Tasks:    tasks,
			Done:     done,
			Progress: ProjectProgress(it.ID, items),
		})
	}
	return out
}

// MoveTask sets the status of task id and stores the task.
func (w *Workspace) MoveTask(ctx context.Context, id string, status model.TaskStatus) (model.Item, error) {
	valid := false
	for _, s := range model.TaskStatuses {
		if s == status {
			valid = true
		}
	}
	if !valid {
		return model.Item{}, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}

	it, ok := w.Get(id)
	if !ok {
		return model.Item{}, fmt.Errorf("task %s: %w", id, storage.ErrNotFound)
	}
	task, ok := it.Details.(model.Task)
	if !ok {
		return model.Item{}, fmt.Errorf("%w: item %s is a %s, not a task", ErrValidation, id, it.Type())
	}
	task.Status = status
	it.Details = task
	return w.Update(ctx, it)
}
