package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Show or update the learner's study preferences",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		prefs, err := current.svc.GetPreferences(ctx, userID)
		if err != nil {
			return err
		}

		flags := cmd.Flags()
		changed := false
		if flags.Changed("retention") {
			prefs.DesiredRetention, _ = flags.GetFloat64("retention")
			changed = true
		}
		if flags.Changed("max-interval") {
			prefs.MaxReviewInterval, _ = flags.GetInt("max-interval")
			changed = true
		}
		if flags.Changed("new-cards") {
			prefs.NewCardsPerDay, _ = flags.GetInt("new-cards")
			changed = true
		}
		if flags.Changed("ramp-up") {
			prefs.NewCardsRampUp, _ = flags.GetBool("ramp-up")
			changed = true
		}

		if changed {
			if err = current.svc.SavePreferences(ctx, prefs); err != nil {
				return fmt.Errorf("save preferences: %w", err)
			}
		}

		today, err := current.svc.NewCardsLimit(ctx, userID, time.Now())
		if err != nil {
			return err
		}

		table := tablewriter.NewWriter(cmd.OutOrStdout())
		table.SetHeader([]string{"Retention", "Max interval", "New / day", "Ramp-up", "New today"})
		table.Append([]string{
			strconv.FormatFloat(prefs.DesiredRetention, 'f', 2, 64),
			strconv.Itoa(prefs.MaxReviewInterval) + "d",
			strconv.Itoa(prefs.NewCardsPerDay),
			strconv.FormatBool(prefs.NewCardsRampUp),
			strconv.Itoa(today),
		})
		table.Render()
		return nil
	},
}

var suspendCmd = &cobra.Command{
	Use:   "suspend",
	Short: "Hide a card from every study session",
	RunE: func(cmd *cobra.Command, args []string) error {
		cardID, err := uuidFlag(cmd, "card")
		if err != nil {
			return err
		}
		return current.svc.SuspendCard(cmd.Context(), userID, cardID)
	},
}

var unsuspendCmd = &cobra.Command{
	Use:   "unsuspend",
	Short: "Return a suspended card to study sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		cardID, err := uuidFlag(cmd, "card")
		if err != nil {
			return err
		}
		return current.svc.UnsuspendCard(cmd.Context(), userID, cardID)
	},
}

func init() {
	prefsCmd.Flags().Float64("retention", 0, "desired retention, between 0 and 1")
	prefsCmd.Flags().Int("max-interval", 0, "maximum review interval in days")
	prefsCmd.Flags().Int("new-cards", 0, "new cards per day")
	prefsCmd.Flags().Bool("ramp-up", false, "ramp new cards up over the first week")

	for _, c := range []*cobra.Command{suspendCmd, unsuspendCmd} {
		c.Flags().String("card", "", "card id")
		_ = c.MarkFlagRequired("card")
	}

	rootCmd.AddCommand(prefsCmd, suspendCmd, unsuspendCmd)
}
