package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/studymate/internal/report"
	"github.com/abhisek/studymate/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past quiz results",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		export, _ := cmd.Flags().GetString("export")

		s, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		results, err := s.EventRepo().QueryQuizResults(context.Background(), store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query results: %w", err)
		}

		if export != "" {
			if err := report.ExportResults(results, export); err != nil {
				return err
			}
			fmt.Printf("Exported %d results to %s\n", len(results), export)
			return nil
		}

		if len(results) == 0 {
			fmt.Println("No quiz results yet.")
			return nil
		}

		fmt.Printf("%-16s  %-12s  %-30s  %7s  %7s\n", "Date", "Standard", "Unit", "Score", "Correct")
		fmt.Println(strings.Repeat("─", 80))
		for _, r := range results {
			fmt.Printf("%-16s  %-12s  %-30s  %6.1f%%  %3d/%-3d\n",
				r.Timestamp.Local().Format("2006-01-02 15:04"),
				truncate(r.Standard, 12),
				truncate(r.Unit, 30),
				r.Score,
				r.CorrectCount,
				r.Total,
			)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "Number of results to show")
	historyCmd.Flags().StringP("export", "o", "", "Write the results to an .xlsx file instead of printing")
}
