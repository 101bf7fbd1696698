package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/romanzh1/lingua-srs/internal/models"
	"github.com/romanzh1/lingua-srs/internal/srs"
	"github.com/spf13/cobra"
)

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Record an answer and reschedule the card",
	RunE: func(cmd *cobra.Command, args []string) error {
		cardID, err := uuidFlag(cmd, "card")
		if err != nil {
			return err
		}

		raw, _ := cmd.Flags().GetString("rating")
		rating, err := srs.ParseRating(raw)
		if err != nil {
			return err
		}
		ms, _ := cmd.Flags().GetInt64("ms")

		outcome, err := current.svc.RecordReview(cmd.Context(), models.ReviewInput{
			UserID:       userID,
			CardID:       cardID,
			Rating:       rating,
			AnswerTimeMs: ms,
		})
		if err != nil {
			return fmt.Errorf("your answer was not saved: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s: %s, next review %s\n",
			rating, outcome.State.State, outcome.State.Due.Local().Format(time.DateTime))

		now := outcome.Log.ReviewedAt
		previews := srs.PreviewsFromDue(outcome.Due, now)
		table := tablewriter.NewWriter(out)
		table.SetHeader([]string{"If answered", "Next review", "In"})
		for _, r := range srs.Ratings {
			table.Append([]string{r.String(), outcome.Due[r].Local().Format(time.DateTime), previews.Get(r)})
		}
		table.Render()
		return nil
	},
}

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Show the interval each rating would give a card",
	RunE: func(cmd *cobra.Command, args []string) error {
		cardID, err := uuidFlag(cmd, "card")
		if err != nil {
			return err
		}

		preview, err := current.svc.PreviewCard(cmd.Context(), userID, cardID, time.Now())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if preview.State == nil {
			fmt.Fprintln(out, "state: new")
		} else {
			fmt.Fprintf(out, "state: %s, stability %.2f, difficulty %.2f, reps %d, lapses %d\n",
				preview.State.State, preview.State.Stability, preview.State.Difficulty,
				preview.State.Reps, preview.State.Lapses)
		}
		if preview.Retrievability != nil {
			fmt.Fprintf(out, "recall probability: %.1f%%\n", *preview.Retrievability*100)
		}

		table := tablewriter.NewWriter(out)
		table.SetHeader([]string{"Rating", "Key", "Interval"})
		for _, r := range srs.Ratings {
			table.Append([]string{r.String(), strconv.Itoa(int(r)), preview.Previews.Get(r)})
		}
		table.Render()
		return nil
	},
}

func init() {
	reviewCmd.Flags().String("card", "", "card id")
	reviewCmd.Flags().String("rating", "", "again, hard, good, easy or 1..4")
	reviewCmd.Flags().Int64("ms", 0, "answer time in milliseconds")
	_ = reviewCmd.MarkFlagRequired("card")
	_ = reviewCmd.MarkFlagRequired("rating")

	previewCmd.Flags().String("card", "", "card id")
	_ = previewCmd.MarkFlagRequired("card")

	rootCmd.AddCommand(reviewCmd, previewCmd)
}
