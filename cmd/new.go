package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/nexus/internal/model"
	"github.com/Tiliavir/nexus/internal/timecalc"
	"github.com/Tiliavir/nexus/internal/workspace"
)

var newCmd = &cobra.Command{
	Use:   "new",
	Short: "Create an item from explicit fields",
}

var (
	newCollection string
	newTags       string

	noteSubtitle string
	noteBody     string
	noteSources  []string
	noteFile     string
	noteFileType string

	codeLanguage string
	codeBody     string
	codeFile     string

	txAmount   float64
	txCurrency string
	txCategory string
	txIncome   bool
	txDate     string

	eventStart    string
	eventEnd      string
	eventLocation string
	eventAllDay   bool
	eventRepeat   string
	eventRemind   []int

	taskStatus   string
	taskPriority string
	taskDue      string
	taskProject  string
	taskAssignee string

	projectDescription string
	projectDeadline    string
	projectMembers     []string

	goalTarget   float64
	goalCurrent  float64
	goalDeadline string
)

var newNoteCmd = &cobra.Command{
	Use:   "note <title>",
	Short: "Create a research note, or a file entry with --file",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runNew(func(ctx context.Context, ws *workspace.Workspace) (model.Item, error) {
			return ws.CreateNote(ctx, workspace.NoteInput{
				Title:        strings.Join(args, " "),
				Subtitle:     noteSubtitle,
				Body:         noteBody,
				Sources:      noteSources,
				FileName:     noteFile,
				FileType:     noteFileType,
				Tags:         splitTags(newTags),
				CollectionID: newCollection,
			})
		})
	},
}

var newCodeCmd = &cobra.Command{
	Use:   "code <title>",
	Short: "Save a code snippet",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		body := codeBody
		if codeFile != "" {
			data, err := os.ReadFile(codeFile)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			body = string(data)
		}
		return runNew(func(ctx context.Context, ws *workspace.Workspace) (model.Item, error) {
			return ws.CreateCode(ctx, workspace.CodeInput{
				Title:        strings.Join(args, " "),
				Language:     model.Language(strings.ToLower(codeLanguage)),
				Code:         body,
				CollectionID: newCollection,
			})
		})
	},
}

var newTransactionCmd = &cobra.Command{
	Use:     "transaction <description>",
	Aliases: []string{"tx"},
	Short:   "Record an expense, or income with --income",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		date := mustDate(txDate, "date")
		return runNew(func(ctx context.Context, ws *workspace.Workspace) (model.Item, error) {
			in := workspace.TransactionInput{
				Description:  strings.Join(args, " "),
				Amount:       txAmount,
				Currency:     strings.ToUpper(txCurrency),
				Category:     txCategory,
				IsExpense:    !txIncome,
				CollectionID: newCollection,
			}
			if date != nil {
				in.Date = *date
			}
			return ws.CreateTransaction(ctx, in)
		})
	},
}

var newEventCmd = &cobra.Command{
	Use:   "event <title>",
	Short: "Schedule an event (one hour long unless --end is given)",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := workspace.EventInput{
			Title:        strings.Join(args, " "),
			Location:     eventLocation,
			AllDay:       eventAllDay,
			Recurrence:   model.Recurrence(strings.ToUpper(eventRepeat)),
			Reminders:    eventRemind,
			CollectionID: newCollection,
		}
		if start := mustDateTime(eventStart, "start"); start != nil {
			in.Start = *start
		}
		if end := mustDateTime(eventEnd, "end"); end != nil {
			in.End = *end
		}
		return runNew(func(ctx context.Context, ws *workspace.Workspace) (model.Item, error) {
			return ws.CreateEvent(ctx, in)
		})
	},
}

var newTaskCmd = &cobra.Command{
	Use:   "task <text>",
	Short: "Add a kanban task",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		due := mustDate(taskDue, "due")
		return runNew(func(ctx context.Context, ws *workspace.Workspace) (model.Item, error) {
			projectID := taskProject
			if projectID != "" {
				if p, err := resolveID(ws, projectID); err == nil {
					projectID = p.ID
				}
			}
			return ws.CreateTask(ctx, workspace.TaskInput{
				Content:      strings.Join(args, " "),
				Status:       model.TaskStatus(strings.ToUpper(taskStatus)),
				Priority:     model.Priority(strings.ToUpper(taskPriority)),
				DueDate:      due,
				ProjectID:    projectID,
				Assignee:     taskAssignee,
				CollectionID: newCollection,
			})
		})
	},
}

var newProjectCmd = &cobra.Command{
	Use:   "project <name>",
	Short: "Create a project",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		deadline := mustDate(projectDeadline, "deadline")
		return runNew(func(ctx context.Context, ws *workspace.Workspace) (model.Item, error) {
			return ws.CreateProject(ctx, workspace.ProjectInput{
				Name:         strings.Join(args, " "),
				Description:  projectDescription,
				Deadline:     deadline,
				Members:      projectMembers,
				CollectionID: newCollection,
			})
		})
	},
}

var newGoalCmd = &cobra.Command{
	Use:   "goal <name>",
	Short: "Create a savings goal",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		deadline := mustDate(goalDeadline, "deadline")
		return runNew(func(ctx context.Context, ws *workspace.Workspace) (model.Item, error) {
			return ws.CreateGoal(ctx, workspace.GoalInput{
				Name:          strings.Join(args, " "),
				TargetAmount:  goalTarget,
				CurrentAmount: goalCurrent,
				Deadline:      deadline,
				CollectionID:  newCollection,
			})
		})
	},
}

func init() {
	newCmd.PersistentFlags().StringVar(&newCollection, "collection", "", "Collection id (default: the configured default collection)")

	newNoteCmd.Flags().StringVar(&noteSubtitle, "subtitle", "", "Subtitle")
	newNoteCmd.Flags().StringVar(&noteBody, "body", "", "Note body")
	newNoteCmd.Flags().StringSliceVar(&noteSources, "source", nil, "Source URL (repeatable)")
	newNoteCmd.Flags().StringVar(&noteFile, "file", "", "File name; makes this a FILE item")
	newNoteCmd.Flags().StringVar(&noteFileType, "file-type", "", "MIME type of --file")
	newNoteCmd.Flags().StringVar(&newTags, "tags", "", "Comma-separated tags (default: research)")

	newCodeCmd.Flags().StringVar(&codeLanguage, "lang", string(model.LanguageHTML), "Language: html, javascript, css, json")
	newCodeCmd.Flags().StringVar(&codeBody, "code", "", "Snippet source")
	newCodeCmd.Flags().StringVar(&codeFile, "from-file", "", "Read the snippet from this file")

	newTransactionCmd.Flags().Float64Var(&txAmount, "amount", 0, "Amount (positive)")
	newTransactionCmd.Flags().StringVar(&txCurrency, "currency", "", "ISO currency code (default XOF)")
	newTransactionCmd.Flags().StringVar(&txCategory, "category", "", "Category (default Général)")
	newTransactionCmd.Flags().BoolVar(&txIncome, "income", false, "Record income instead of an expense")
	newTransactionCmd.Flags().StringVar(&txDate, "date", "", "Date (YYYY-MM-DD); defaults to now")
	_ = newTransactionCmd.MarkFlagRequired("amount")

	newEventCmd.Flags().StringVar(&eventStart, "start", "", `Start ("YYYY-MM-DD HH:MM")`)
	newEventCmd.Flags().StringVar(&eventEnd, "end", "", `End ("YYYY-MM-DD HH:MM")`)
	newEventCmd.Flags().StringVar(&eventLocation, "location", "", "Location")
	newEventCmd.Flags().BoolVar(&eventAllDay, "all-day", false, "All-day event")
	newEventCmd.Flags().StringVar(&eventRepeat, "repeat", "", "Recurrence: none, daily, weekly, monthly")
	newEventCmd.Flags().IntSliceVar(&eventRemind, "remind", nil, "Reminder in minutes before start (repeatable)")
	_ = newEventCmd.MarkFlagRequired("start")

	newTaskCmd.Flags().StringVar(&taskStatus, "status", "", "TODO, IN_PROGRESS or DONE (default TODO)")
	newTaskCmd.Flags().StringVar(&taskPriority, "priority", "", "LOW, MEDIUM or HIGH (default MEDIUM)")
	newTaskCmd.Flags().StringVar(&taskDue, "due", "", "Due date (YYYY-MM-DD)")
	newTaskCmd.Flags().StringVar(&taskProject, "project", "", "Project id (or unique id prefix)")
	newTaskCmd.Flags().StringVar(&taskAssignee, "assignee", "", "Assignee")

	newProjectCmd.Flags().StringVar(&projectDescription, "description", "", "Description")
	newProjectCmd.Flags().StringVar(&projectDeadline, "deadline", "", "Deadline (YYYY-MM-DD)")
	newProjectCmd.Flags().StringSliceVar(&projectMembers, "member", nil, "Member (repeatable)")

	newGoalCmd.Flags().Float64Var(&goalTarget, "target", 0, "Target amount")
	newGoalCmd.Flags().Float64Var(&goalCurrent, "current", 0, "Amount saved so far")
	newGoalCmd.Flags().StringVar(&goalDeadline, "deadline", "", "Deadline (YYYY-MM-DD)")
	_ = newGoalCmd.MarkFlagRequired("target")

	newCmd.AddCommand(newNoteCmd, newCodeCmd, newTransactionCmd, newEventCmd, newTaskCmd, newProjectCmd, newGoalCmd)
}

// runNew opens the workspace, runs create and prints the stored item.
// Validation errors exit with status 1, storage errors with status 2.
func runNew(create func(context.Context, *workspace.Workspace) (model.Item, error)) error {
	ctx := context.Background()
	s := openSession(ctx)
	defer s.Close()

	it, err := create(ctx, s.ws)
	if err != nil {
		s.fail(err, exitCode(err))
	}
	fmt.Printf("Created %s %q (%s) in collection %s.\n", it.Type(), firstLine(it.Title()), shortID(it.ID), it.CollectionID)
	return nil
}

func splitTags(s string) []string {
	var tags []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// mustDate parses an optional YYYY-MM-DD flag value in local time.
func mustDate(value, flag string) *time.Time {
	if value == "" {
		return nil
	}
	t, err := timecalc.ParseDate(value, time.Local)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid --%s value %q: %v\n", flag, value, err)
		os.Exit(1)
	}
	return &t
}

// mustDateTime parses an optional date-time flag value in local time.
func mustDateTime(value, flag string) *time.Time {
	if value == "" {
		return nil
	}
	t, err := timecalc.ParseDateTime(value, time.Local)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid --%s value %q: %v\n", flag, value, err)
		os.Exit(1)
	}
	return &t
}
