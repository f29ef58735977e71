package model

// Language is the syntax of a code snippet.
type Language string

const (
	LanguageHTML       Language = "html"
	LanguageJavaScript Language = "javascript"
	LanguageCSS        Language = "css"
	LanguageJSON       Language = "json"
)

// Languages lists the supported snippet languages.
var Languages = []Language{LanguageHTML, LanguageJavaScript, LanguageCSS, LanguageJSON}

// TaskStatus is the kanban column of a task.
type TaskStatus string

const (
	StatusTodo       TaskStatus = "TODO"
	StatusInProgress TaskStatus = "IN_PROGRESS"
	StatusDone       TaskStatus = "DONE"
)

// TaskStatuses lists the kanban columns in board order.
var TaskStatuses = []TaskStatus{StatusTodo, StatusInProgress, StatusDone}

// Priority of a task.
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

// Recurrence of an event.
type Recurrence string

const (
	RecurrenceNone    Recurrence = "NONE"
	RecurrenceDaily   Recurrence = "DAILY"
	RecurrenceWeekly  Recurrence = "WEEKLY"
	RecurrenceMonthly Recurrence = "MONTHLY"
)

// Note is a research note, or an uploaded file when File is set.
type Note struct {
	File        bool     `json:"-"`
	Subtitle    string   `json:"subtitle,omitempty"`
	Body        string   `json:"body,omitempty"`
	Sources     []string `json:"sources,omitempty"`
	Attachments []string `json:"attachments,omitempty"`
	FileName    string   `json:"fileName,omitempty"`
	FileType    string   `json:"fileType,omitempty"`
}

// Code is a playground snippet.
type Code struct {
	Language Language `json:"language"`
	Code     string   `json:"code"`
}

// Transaction is an income or expense line. Amount is never negative; the
// direction is carried by IsExpense.
type Transaction struct {
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	Category  string  `json:"category"`
	IsExpense bool    `json:"isExpense"`
	Date      int64   `json:"date"`
}

// Event is a calendar entry. Times are milliseconds since epoch.
type Event struct {
	StartTime  int64      `json:"startTime"`
	EndTime    int64      `json:"endTime"`
	Location   string     `json:"location,omitempty"`
	AllDay     bool       `json:"allDay,omitempty"`
	Recurrence Recurrence `json:"recurrence,omitempty"`
	Reminders  []int      `json:"reminders,omitempty"` // minutes before start
	ExternalID string     `json:"externalId,omitempty"`
}

// Task is a kanban card, optionally linked to a Project.
type Task struct {
	Status    TaskStatus `json:"status"`
	DueDate   *int64     `json:"dueDate,omitempty"`
	ProjectID string     `json:"projectId,omitempty"`
	Assignee  string     `json:"assignee,omitempty"`
	Priority  Priority   `json:"priority,omitempty"`
}

// Project groups tasks. Progress is a percentage in [0, 100].
type Project struct {
	Name     string   `json:"name"`
	Deadline *int64   `json:"deadline,omitempty"`
	Progress int      `json:"progress"`
	Members  []string `json:"members"`
}

// Goal is a savings target. CurrentAmount may exceed TargetAmount.
type Goal struct {
	Name          string  `json:"name"`
	TargetAmount  float64 `json:"targetAmount"`
	CurrentAmount float64 `json:"currentAmount"`
	Deadline      *int64  `json:"deadline,omitempty"`
}

func (n Note) Type() Type {
	if n.File {
		return TypeFile
	}
	return TypeNote
}

func (Code) Type() Type        { return TypeCode }
func (Transaction) Type() Type { return TypeTransaction }
func (Event) Type() Type       { return TypeEvent }
func (Task) Type() Type        { return TypeTask }
func (Project) Type() Type     { return TypeProject }
func (Goal) Type() Type        { return TypeGoal }

func (Note) details()        {}
func (Code) details()        {}
func (Transaction) details() {}
func (Event) details()       {}
func (Task) details()        {}
func (Project) details()     {}
func (Goal) details()        {}
