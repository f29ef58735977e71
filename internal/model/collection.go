package model

// Mode is one of the functional areas of the workspace.
type Mode string

const (
	ModeResearch Mode = "RESEARCH"
	ModeFinance  Mode = "FINANCE"
	ModeCalendar Mode = "CALENDAR"
	ModeProjects Mode = "PROJECTS"
	ModeCode     Mode = "CODE"
)

// Collection is a named bucket of items tagged with a mode.
type Collection struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Mode        Mode   `json:"mode" yaml:"mode"`
	Description string `json:"description" yaml:"description"`
	Icon        string `json:"icon,omitempty" yaml:"icon,omitempty"`
	Pinned      bool   `json:"pinned,omitempty" yaml:"pinned,omitempty"`
}
