package workspace

import (
	"sort"
	"time"

	"github.com/Tiliavir/nexus/internal/model"
	"github.com/Tiliavir/nexus/internal/timecalc"
)

// EventsBetween returns the cached events overlapping [from, to], earliest first.
func (w *Workspace) EventsBetween(from, to time.Time) []model.Item {
	lo, hi := timecalc.Millis(from), timecalc.Millis(to)
	var out []model.Item
	for _, it := range w.Items() {
		ev, ok := it.Details.(model.Event)
		if !ok {
			continue
		}
		end := ev.EndTime
		if end < ev.StartTime {
			end = ev.StartTime
		}
		if ev.StartTime <= hi && end >= lo {
			out = append(out, it)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Details.(model.Event).StartTime < out[j].Details.(model.Event).StartTime
	})
	return out
}
