package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/nexus/internal/model"
	"github.com/Tiliavir/nexus/internal/timecalc"
)

// BackupFileName is the default name of a JSON export.
const BackupFileName = "nexus_backup.json"

var (
	exportFormat string
	exportOut    string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export every item",
	Long: `Export every stored item.

The json format writes a backup file (nexus_backup.json by default) that
contains each item with its collectionId. Use --out - to write to stdout.
The csv and md formats always write to stdout.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "json", "Output format: json, csv, md")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", BackupFileName, "Destination of the json export (- for stdout)")
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	s := openSession(ctx)
	defer s.Close()

	switch exportFormat {
	case "csv":
		printCSV(os.Stdout, s.ws.Items())
	case "md":
		printList(os.Stdout, s.ws.Items())
	default: // json
		if exportOut == "-" {
			if _, err := s.ws.Export(ctx, os.Stdout); err != nil {
				s.fail(err, 2)
			}
			return nil
		}
		n, err := writeBackup(ctx, s, exportOut)
		if err != nil {
			s.fail(err, 2)
		}
		fmt.Printf("Exported %d items to %s.\n", n, exportOut)
	}
	return nil
}

// writeBackup writes the export next to path and renames it into place.
func writeBackup(ctx context.Context, s *session, path string) (int, error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return 0, fmt.Errorf("creating export file: %w", err)
	}
	n, err := s.ws.Export(ctx, tmp)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(tmp.Name())
		return 0, fmt.Errorf("writing export: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return 0, fmt.Errorf("saving export: %w", err)
	}
	return n, nil
}

func printCSV(w io.Writer, items []model.Item) {
	fmt.Fprintln(w, "id,type,collection_id,created_at,title,tags,detail")
	for _, it := range items {
		created := timecalc.FromMillis(it.CreatedAt, time.Local).Format(time.RFC3339)
		fmt.Fprintf(w, "%s,%s,%s,%s,%s,%s,%s\n",
			csvEscape(it.ID),
			it.Type(),
			csvEscape(it.CollectionID),
			created,
			csvEscape(it.Title()),
			csvEscape(strings.Join(it.Tags, ";")),
			csvEscape(itemDetail(it)),
		)
	}
}

// csvEscape wraps a field in quotes if it contains a comma, quote, or newline.
func csvEscape(s string) string {
	if !strings.ContainsAny(s, ",\"\n\r") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
