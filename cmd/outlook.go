package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/nexus/internal/msgraph"
	"github.com/Tiliavir/nexus/internal/timecalc"
)

var (
	outlookSyncFrom       string
	outlookSyncTo         string
	outlookSyncDate       string
	outlookSyncToday      bool
	outlookSyncDryRun     bool
	outlookSyncCollection string
	outlookSyncTZ         string
)

var outlookCmd = &cobra.Command{
	Use:   "outlook",
	Short: "Outlook calendar integration",
}

var outlookSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Import Outlook calendar events as nexus events",
	Args:  cobra.NoArgs,
	RunE:  runOutlookSync,
}

func init() {
	outlookSyncCmd.Flags().StringVar(&outlookSyncFrom, "from", "", "Start date (YYYY-MM-DD); required when --to is specified")
	outlookSyncCmd.Flags().StringVar(&outlookSyncTo, "to", "", "End date (YYYY-MM-DD); defaults to today")
	outlookSyncCmd.Flags().StringVar(&outlookSyncDate, "date", "", "Sync a specific date (YYYY-MM-DD)")
	outlookSyncCmd.Flags().BoolVar(&outlookSyncToday, "today", false, "Sync only today (default)")
	outlookSyncCmd.Flags().BoolVar(&outlookSyncDryRun, "dry-run", false, "Print planned operations without writing")
	outlookSyncCmd.Flags().StringVar(&outlookSyncCollection, "collection", "", "Collection id for imported events (default from config)")
	outlookSyncCmd.Flags().StringVar(&outlookSyncTZ, "timezone", "", "IANA timezone for event times (e.g. Europe/Berlin)")
	outlookCmd.AddCommand(outlookSyncCmd)
}

func runOutlookSync(cmd *cobra.Command, args []string) error {
	now := time.Now()
	var from, to time.Time

	switch {
	case outlookSyncDate != "":
		d, err := timecalc.ParseDate(outlookSyncDate, time.Local)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid --date value: %v\n", err)
			os.Exit(1)
		}
		from = timecalc.StartOfDay(d)
		to = timecalc.EndOfDay(d)

	case outlookSyncFrom != "" || outlookSyncTo != "":
		if outlookSyncTo != "" && outlookSyncFrom == "" {
			fmt.Fprintln(os.Stderr, "--from is required when --to is specified")
			os.Exit(1)
		}
		f, err := timecalc.ParseDate(outlookSyncFrom, time.Local)
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid --from value: %v\n", err)
			os.Exit(1)
		}
		from = timecalc.StartOfDay(f)

		if outlookSyncTo != "" {
			t, err := timecalc.ParseDate(outlookSyncTo, time.Local)
			if err != nil {
				fmt.Fprintf(os.Stderr, "invalid --to value: %v\n", err)
				os.Exit(1)
			}
			to = timecalc.EndOfDay(t)
		} else {
			to = timecalc.EndOfDay(now)
		}
		if to.Before(from) {
			fmt.Fprintln(os.Stderr, "--to must not be before --from")
			os.Exit(1)
		}

	default:
		from = timecalc.StartOfDay(now)
		to = timecalc.EndOfDay(now)
	}

	ctx := context.Background()
	s := openSession(ctx)
	defer s.Close()

	outlook := s.cfg.Outlook
	timezone := outlookSyncTZ
	if timezone == "" {
		timezone = outlook.Timezone
	}
	collection := outlookSyncCollection
	if collection == "" {
		collection = outlook.Collection
	}
	if _, ok := s.ws.Collection(collection); !ok {
		s.fail(fmt.Errorf("unknown collection %q", collection), 1)
	}

	dryTag := ""
	if outlookSyncDryRun {
		dryTag = " [dry-run]"
	}
	fmt.Printf("Syncing Outlook events (%s → %s)%s...\n",
		from.Format("2006-01-02"), to.Format("2006-01-02"), dryTag)
	fmt.Println()

	auth := msgraph.NewAuthenticator(outlook.TenantID, outlook.ClientID, outlook.TokenFile, os.Stderr)
	tok, err := auth.Token(ctx)
	if err != nil {
		s.fail(fmt.Errorf("authentication failed: %w", err), 1)
	}

	events, err := auth.Client(ctx, tok).GetCalendarView(ctx, from, to, timezone)
	if err != nil {
		s.fail(fmt.Errorf("failed to fetch calendar events: %w", err), 1)
	}
	s.logger.Debug("fetched calendar view", "events", len(events))

	result, err := msgraph.SyncEvents(ctx, s.ws, events, msgraph.SyncOptions{
		CollectionID: collection,
		Timezone:     timezone,
		DryRun:       outlookSyncDryRun,
		Out:          os.Stdout,
	})
	if err != nil {
		s.fail(fmt.Errorf("sync error: %w", err), exitCode(err))
	}

	fmt.Println()
	fmt.Println("Summary:")
	fmt.Printf("  %d imported\n", result.Imported)
	fmt.Printf("  %d skipped\n", result.Skipped)
	fmt.Printf("  %d updated\n", result.Updated)
	if result.Errors > 0 {
		fmt.Printf("  %d errors\n", result.Errors)
		s.fail(fmt.Errorf("%d events could not be saved", result.Errors), 2)
	}
	return nil
}
