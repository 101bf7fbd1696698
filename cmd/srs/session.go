package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/olekukonko/tablewriter"
	"github.com/romanzh1/lingua-srs/internal/models"
	"github.com/spf13/cobra"
)

var bucketNames = [...]string{"review", "new", "learning", "later"}

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "List the cards of a study session in presentation order",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		topicID, err := uuidFlag(cmd, "topic")
		if err != nil {
			return err
		}

		mode, _ := cmd.Flags().GetString("mode")
		opts := models.OrderOptions{SubMode: models.SubMode(mode)}

		if cmd.Flags().Changed("category") {
			categoryID, err := uuidFlag(cmd, "category")
			if err != nil {
				return err
			}
			opts.CategoryID = &categoryID
		}
		if cmd.Flags().Changed("limit") {
			limit, _ := cmd.Flags().GetInt("limit")
			opts.Limit = &limit
		}

		noBudget, _ := cmd.Flags().GetBool("no-new-limit")
		if !noBudget {
			newCards, _ := cmd.Flags().GetInt("new-cards")
			if !cmd.Flags().Changed("new-cards") {
				newCards, err = current.svc.NewCardsLimit(ctx, userID, time.Now())
				if err != nil {
					return fmt.Errorf("could not load study session: %w", err)
				}
			}
			opts.NewCardsPerDay = &newCards
		}

		cards, err := current.svc.GetOrderedCards(ctx, userID, topicID, opts)
		if err != nil {
			return fmt.Errorf("could not load study session: %w", err)
		}

		if len(cards) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "Nothing to study right now.")
			return nil
		}

		table := tablewriter.NewWriter(cmd.OutOrStdout())
		table.SetHeader([]string{"#", "Card", "Front", "Перевод", "Category", "Queue", "Due"})
		for i, c := range cards {
			due := "-"
			if c.State != nil {
				due = c.State.Due.Local().Format("2006-01-02 15:04")
			}
			table.Append([]string{
				strconv.Itoa(i + 1),
				c.Card.ID.String(),
				c.Card.FrontEN,
				c.Card.FrontRU,
				c.Category.NameEN,
				bucketNames[c.Bucket],
				due,
			})
		}
		table.Render()
		return nil
	},
}

var countsCmd = &cobra.Command{
	Use:   "counts",
	Short: "Show how many cards each study mode would offer",
	RunE: func(cmd *cobra.Command, args []string) error {
		topicID, err := uuidFlag(cmd, "topic")
		if err != nil {
			return err
		}

		counts, err := current.svc.GetSubModeCounts(cmd.Context(), userID, topicID)
		if err != nil {
			return fmt.Errorf("could not load study session: %w", err)
		}

		table := tablewriter.NewWriter(cmd.OutOrStdout())
		table.SetHeader([]string{"Mode", "Cards"})
		table.Append([]string{string(models.SubModeFull), strconv.Itoa(counts.Full)})
		table.Append([]string{string(models.SubModeQuickReview), strconv.Itoa(counts.QuickReview)})
		table.Append([]string{string(models.SubModeSpacedRepetition), strconv.Itoa(counts.SpacedRepetition)})
		table.Render()
		return nil
	},
}

func uuidFlag(cmd *cobra.Command, name string) (uuid.UUID, error) {
	raw, _ := cmd.Flags().GetString(name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid --%s %q: %w", name, raw, err)
	}
	return id, nil
}

func init() {
	sessionCmd.Flags().String("topic", "", "topic id")
	sessionCmd.Flags().String("mode", string(models.SubModeFull), "full, quick_review, spaced_repetition or category_focus")
	sessionCmd.Flags().String("category", "", "category id for category_focus")
	sessionCmd.Flags().Int("limit", 0, "maximum number of cards")
	sessionCmd.Flags().Int("new-cards", 0, "new cards allowed today (default: learner preferences)")
	sessionCmd.Flags().Bool("no-new-limit", false, "do not cap new cards")
	_ = sessionCmd.MarkFlagRequired("topic")

	countsCmd.Flags().String("topic", "", "topic id")
	_ = countsCmd.MarkFlagRequired("topic")

	rootCmd.AddCommand(sessionCmd, countsCmd)
}
