package workspace

import (
	"context"
	"errors"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/Tiliavir/nexus/internal/classify"
	"github.com/Tiliavir/nexus/internal/model"
	"github.com/Tiliavir/nexus/internal/timecalc"
)

const (
	MaxTitleLength   = 200
	MaxContentLength = 100_000
)

// NoteInput creates a research note, or a file entry when FileName is set.
type NoteInput struct {
	Title        string
	Subtitle     string
	Body         string
	Sources      []string
	Attachments  []string
	FileName     string
	FileType     string
	Tags         []string
	CollectionID string
}

func (in *NoteInput) validate() error {
	return validation.ValidateStruct(in,
		validation.Field(&in.Title, validation.Required, validation.Length(1, MaxTitleLength)),
		validation.Field(&in.Body, validation.Length(0, MaxContentLength)),
	)
}

// CodeInput saves a playground snippet.
type CodeInput struct {
	Title        string
	Language     model.Language
	Code         string
	CollectionID string
}

func (in *CodeInput) validate() error {
	return validation.ValidateStruct(in,
		validation.Field(&in.Title, validation.Required, validation.Length(1, MaxTitleLength)),
		validation.Field(&in.Language, validation.In(model.LanguageHTML, model.LanguageJavaScript, model.LanguageCSS, model.LanguageJSON)),
		validation.Field(&in.Code, validation.Length(0, MaxContentLength)),
	)
}

// TransactionInput records income or an expense.
type TransactionInput struct {
	Description  string
	Amount       float64
	Currency     string
	Category     string
	IsExpense    bool
	Date         time.Time
	CollectionID string
}

func (in *TransactionInput) validate() error {
	return validation.ValidateStruct(in,
		validation.Field(&in.Description, validation.Required, validation.Length(1, MaxTitleLength)),
		validation.Field(&in.Amount, validation.Required, validation.Min(0.0).Exclusive()),
		validation.Field(&in.Currency, validation.Length(3, 3)),
	)
}

// EventInput schedules a calendar event. A zero End means one hour after Start.
type EventInput struct {
	Title        string
	Start        time.Time
	End          time.Time
	Location     string
	AllDay       bool
	Recurrence   model.Recurrence
	Reminders    []int
	CollectionID string
}

func (in *EventInput) validate() error {
	return validation.ValidateStruct(in,
		validation.Field(&in.Title, validation.Required, validation.Length(1, MaxTitleLength)),
		validation.Field(&in.Start, validation.Required),
		validation.Field(&in.End, validation.By(func(any) error {
			if !in.End.IsZero() && in.End.Before(in.Start) {
				return errors.New("must not be before start")
			}
			return nil
		})),
		validation.Field(&in.Recurrence, validation.In(model.RecurrenceNone, model.RecurrenceDaily, model.RecurrenceWeekly, model.RecurrenceMonthly)),
		validation.Field(&in.Reminders, validation.Each(validation.Min(0))),
	)
}

// TaskInput adds a kanban card.
type TaskInput struct {
	Content      string
	Status       model.TaskStatus
	Priority     model.Priority
	DueDate      *time.Time
	ProjectID    string
	Assignee     string
	CollectionID string
}

func (in *TaskInput) validate() error {
	return validation.ValidateStruct(in,
		validation.Field(&in.Content, validation.Required, validation.Length(1, MaxTitleLength)),
		validation.Field(&in.Status, validation.In(model.StatusTodo, model.StatusInProgress, model.StatusDone)),
		validation.Field(&in.Priority, validation.In(model.PriorityLow, model.PriorityMedium, model.PriorityHigh)),
	)
}

// ProjectInput creates a project.
type ProjectInput struct {
	Name         string
	Description  string
	Deadline     *time.Time
	Members      []string
	CollectionID string
}

func (in *ProjectInput) validate() error {
	return validation.ValidateStruct(in,
		validation.Field(&in.Name, validation.Required, validation.Length(1, MaxTitleLength)),
		validation.Field(&in.Members, validation.Each(validation.Required)),
	)
}

// GoalInput creates a savings goal.
type GoalInput struct {
	Name          string
	TargetAmount  float64
	CurrentAmount float64
	Deadline      *time.Time
	CollectionID  string
}

func (in *GoalInput) validate() error {
	return validation.ValidateStruct(in,
		validation.Field(&in.Name, validation.Required, validation.Length(1, MaxTitleLength)),
		validation.Field(&in.TargetAmount, validation.Required, validation.Min(0.0).Exclusive()),
		validation.Field(&in.CurrentAmount, validation.Min(0.0)),
	)
}

func invalid(err error) error {
	return fmt.Errorf("%w: %v", ErrValidation, err)
}

func optionalMillis(t *time.Time) *int64 {
	if t == nil || t.IsZero() {
		return nil
	}
	ms := timecalc.Millis(*t)
	return &ms
}

func (w *Workspace) create(ctx context.Context, collectionID, content string, tags []string, d model.Details) (model.Item, error) {
	if tags == nil {
		tags = []string{}
	}
	it := model.Item{
		ID:        w.newID(),
		CreatedAt: timecalc.Millis(w.now()),
		Content:   content,
		Tags:      tags,
		Details:   d,
	}
	if collectionID == "" {
		collectionID = w.defaultCollection
	}
	saved, err := w.save(ctx, collectionID, it)
	if err != nil {
		return model.Item{}, err
	}
	w.logger.Info("item created", "id", saved.ID, "type", saved.Type(), "collection", collectionID)
	return saved, nil
}

// CreateNote validates in and stores a note or file.
func (w *Workspace) CreateNote(ctx context.Context, in NoteInput) (model.Item, error) {
	if err := in.validate(); err != nil {
		return model.Item{}, invalid(err)
	}
	tags := in.Tags
	if len(tags) == 0 {
		tags = []string{"research"}
	}
	return w.create(ctx, in.CollectionID, in.Title, tags, model.Note{
		File:        in.FileName != "",
		Subtitle:    in.Subtitle,
		Body:        in.Body,
		Sources:     in.Sources,
		Attachments: in.Attachments,
		FileName:    in.FileName,
		FileType:    in.FileType,
	})
}

// CreateCode validates in and stores a snippet. Language defaults to html.
func (w *Workspace) CreateCode(ctx context.Context, in CodeInput) (model.Item, error) {
	if err := in.validate(); err != nil {
		return model.Item{}, invalid(err)
	}
	lang := in.Language
	if lang == "" {
		lang = model.LanguageHTML
	}
	return w.create(ctx, in.CollectionID, in.Title, []string{"code"}, model.Code{Language: lang, Code: in.Code})
}

// CreateTransaction validates in and stores a transaction, defaulting to
// XOF, the general category and the current date.
func (w *Workspace) CreateTransaction(ctx context.Context, in TransactionInput) (model.Item, error) {
	if err := in.validate(); err != nil {
		return model.Item{}, invalid(err)
	}
	tx := model.Transaction{
		Amount:    in.Amount,
		Currency:  in.Currency,
		Category:  in.Category,
		IsExpense: in.IsExpense,
		Date:      timecalc.Millis(in.Date),
	}
	if tx.Currency == "" {
		tx.Currency = classify.DefaultCurrency
	}
	if tx.Category == "" {
		tx.Category = classify.DefaultCategory
	}
	if in.Date.IsZero() {
		tx.Date = timecalc.Millis(w.now())
	}
	return w.create(ctx, in.CollectionID, in.Description, nil, tx)
}

// CreateEvent validates in and stores an event lasting one hour unless End
// is given.
func (w *Workspace) CreateEvent(ctx context.Context, in EventInput) (model.Item, error) {
	if err := in.validate(); err != nil {
		return model.Item{}, invalid(err)
	}
	end := in.End
	if end.IsZero() {
		end = in.Start.Add(time.Hour)
	}
	return w.create(ctx, in.CollectionID, in.Title, nil, model.Event{
		StartTime:  timecalc.Millis(in.Start),
		EndTime:    timecalc.Millis(end),
		Location:   in.Location,
		AllDay:     in.AllDay,
		Recurrence: in.Recurrence,
		Reminders:  in.Reminders,
	})
}

// CreateTask validates in and stores a task. Status defaults to TODO and
// priority to MEDIUM. A ProjectID that matches no project is kept as is.
func (w *Workspace) CreateTask(ctx context.Context, in TaskInput) (model.Item, error) {
	if err := in.validate(); err != nil {
		return model.Item{}, invalid(err)
	}
	task := model.Task{
		Status:    in.Status,
		Priority:  in.Priority,
		DueDate:   optionalMillis(in.DueDate),
		ProjectID: in.ProjectID,
		Assignee:  in.Assignee,
	}
	if task.Status == "" {
		task.Status = model.StatusTodo
	}
	if task.Priority == "" {
		task.Priority = model.PriorityMedium
	}
	if in.ProjectID != "" {
		if p, ok := w.Get(in.ProjectID); !ok || p.Type() != model.TypeProject {
			w.logger.Warn("task references unknown project", "project", in.ProjectID)
		}
	}
	return w.create(ctx, in.CollectionID, in.Content, nil, task)
}

// CreateProject validates in and stores a project with no progress.
func (w *Workspace) CreateProject(ctx context.Context, in ProjectInput) (model.Item, error) {
	if err := in.validate(); err != nil {
		return model.Item{}, invalid(err)
	}
	members := in.Members
	if members == nil {
		members = []string{}
	}
	content := in.Description
	if content == "" {
		content = in.Name
	}
	return w.create(ctx, in.CollectionID, content, nil, model.Project{
		Name:     in.Name,
		Deadline: optionalMillis(in.Deadline),
		Progress: 0,
		Members:  members,
	})
}

// CreateGoal validates in and stores a goal.
func (w *Workspace) CreateGoal(ctx context.Context, in GoalInput) (model.Item, error) {
	if err := in.validate(); err != nil {
		return model.Item{}, invalid(err)
	}
	return w.create(ctx, in.CollectionID, in.Name, nil, model.Goal{
		Name:          in.Name,
		TargetAmount:  in.TargetAmount,
		CurrentAmount: in.CurrentAmount,
		Deadline:      optionalMillis(in.Deadline),
	})
}
