package main

import (
	"fmt"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show today's progress for a topic",
	RunE: func(cmd *cobra.Command, args []string) error {
		topicID, err := uuidFlag(cmd, "topic")
		if err != nil {
			return err
		}

		stats, err := current.svc.GetDailyStats(cmd.Context(), userID, topicID)
		if err != nil {
			return err
		}

		correct, avg := "-", "-"
		if stats.CorrectRate != nil {
			correct = fmt.Sprintf("%.0f%%", *stats.CorrectRate*100)
		}
		if stats.AvgAnswerTimeMs != nil {
			avg = fmt.Sprintf("%.1fs", *stats.AvgAnswerTimeMs/1000)
		}

		table := tablewriter.NewWriter(cmd.OutOrStdout())
		table.SetHeader([]string{"Reviews", "New", "Correct", "Avg answer", "Due tomorrow"})
		table.Append([]string{
			strconv.Itoa(stats.ReviewsToday),
			strconv.Itoa(stats.NewCardsToday),
			correct,
			avg,
			strconv.Itoa(stats.DueTomorrow),
		})
		table.Render()
		return nil
	},
}

func init() {
	statsCmd.Flags().String("topic", "", "topic id")
	_ = statsCmd.MarkFlagRequired("topic")
	rootCmd.AddCommand(statsCmd)
}
