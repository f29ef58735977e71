package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/nexus/internal/model"
	"github.com/Tiliavir/nexus/internal/timecalc"
	"github.com/Tiliavir/nexus/internal/workspace"
)

var (
	balanceWeek       bool
	balanceCollection string
	balanceFormat     string
)

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Show income, expenses and balance",
	Args:  cobra.NoArgs,
	RunE:  runBalance,
}

func init() {
	balanceCmd.Flags().BoolVar(&balanceWeek, "week", false, "Only transactions dated this week")
	balanceCmd.Flags().StringVar(&balanceCollection, "collection", "", "Only transactions in this collection id")
	balanceCmd.Flags().StringVar(&balanceFormat, "format", "md", "Output format: md, csv, json")
}

type balanceReport struct {
	Period     string             `json:"period"`
	Income     float64            `json:"income"`
	Expense    float64            `json:"expense"`
	Balance    float64            `json:"balance"`
	Count      int                `json:"count"`
	Categories map[string]float64 `json:"expenseByCategory"`
}

func runBalance(cmd *cobra.Command, args []string) error {
	now := time.Now()
	s := openSession(context.Background())
	defer s.Close()

	period := "all time"
	var from, to int64
	if balanceWeek {
		start, end := timecalc.WeekRange(now)
		from, to = timecalc.Millis(start), timecalc.Millis(end)
		period = "week " + timecalc.ISOWeekLabel(now)
	}

	var txs []model.Item
	for _, it := range s.ws.ByType(model.TypeTransaction) {
		if balanceCollection != "" && it.CollectionID != balanceCollection {
			continue
		}
		if balanceWeek {
			d := it.Details.(model.Transaction).Date
			if d < from || d > to {
				continue
			}
		}
		txs = append(txs, it)
	}

	sum := workspace.Balance(txs)
	report := balanceReport{
		Period:     period,
		Income:     sum.Income,
		Expense:    sum.Expense,
		Balance:    sum.Balance,
		Count:      sum.Count,
		Categories: workspace.CategoryTotals(txs),
	}

	order := make([]string, 0, len(report.Categories))
	for c := range report.Categories {
		order = append(order, c)
	}
	sort.Strings(order)

	switch balanceFormat {
	case "csv":
		fmt.Println("category,expense")
		for _, c := range order {
			fmt.Printf("%s,%.2f\n", csvEscape(c), report.Categories[c])
		}
	case "json":
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			s.fail(fmt.Errorf("error encoding JSON: %w", err), 2)
		}
		fmt.Println(string(data))
	default: // md
		fmt.Printf("Balance (%s, %d transactions)\n", period, report.Count)
		fmt.Println("--------------------------------")
		fmt.Printf("%-20s%12s\n", "Income", formatAmount(report.Income))
		fmt.Printf("%-20s%12s\n", "Expenses", formatAmount(report.Expense))
		fmt.Println("--------------------------------")
		fmt.Printf("%-20s%12s\n", "Balance", formatAmount(report.Balance))
		if len(order) > 0 {
			fmt.Println()
			fmt.Println("Expenses by category")
			for _, c := range order {
				fmt.Printf("  %-18s%12s\n", c, formatAmount(report.Categories[c]))
			}
		}
	}
	return nil
}
