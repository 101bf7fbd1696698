package main

import (
	"fmt"

	"github.com/romanzh1/lingua-srs/internal/models"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		reset, _ := cmd.Flags().GetBool("reset")
		if reset {
			if err := current.store.Reset(); err != nil {
				return err
			}
			if err := current.store.Up(); err != nil {
				return err
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "migrations applied (driver: %s)\n", current.store.Driver())
		return nil
	},
}

type seedCard struct {
	frontEN, frontRU, backEN, backRU string
	difficulty                       int
}

var seedDeck = []struct {
	nameEN, nameRU, color string
	cards                 []seedCard
}{
	{
		nameEN: "Greetings", nameRU: "Приветствия", color: "#4caf50",
		cards: []seedCard{
			{"Hello", "Привет", "A friendly greeting", "Дружеское приветствие", 1},
			{"Good morning", "Доброе утро", "Greeting before noon", "Приветствие до полудня", 1},
			{"See you later", "Увидимся позже", "A casual goodbye", "Непринуждённое прощание", 2},
			{"Nice to meet you", "Приятно познакомиться", "Said on first meeting", "Говорят при знакомстве", 3},
		},
	},
	{
		nameEN: "Travel", nameRU: "Путешествия", color: "#2196f3",
		cards: []seedCard{
			{"Boarding pass", "Посадочный талон", "Document to board a plane", "Документ для посадки в самолёт", 4},
			{"Luggage", "Багаж", "Bags you travel with", "Вещи в дорогу", 2},
			{"Check-in desk", "Стойка регистрации", "Where you register for a flight", "Место регистрации на рейс", 5},
			{"Round-trip ticket", "Билет туда и обратно", "Ticket for both directions", "Билет в оба конца", 6},
		},
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create a demo topic with two categories",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		topic := models.Topic{NameEN: "Everyday English", NameRU: "Повседневный английский"}

		err := current.store.RunInTx(ctx, func(tx models.Repository) error {
			if err := tx.CreateTopic(ctx, &topic); err != nil {
				return err
			}
			for _, c := range seedDeck {
				category := models.Category{TopicID: topic.ID, NameEN: c.nameEN, NameRU: c.nameRU, Color: c.color}
				if err := tx.CreateCategory(ctx, &category); err != nil {
					return err
				}
				for _, sc := range c.cards {
					card := models.Card{
						CategoryID: category.ID,
						FrontEN:    sc.frontEN,
						FrontRU:    sc.frontRU,
						BackEN:     sc.backEN,
						BackRU:     sc.backRU,
						Difficulty: sc.difficulty,
					}
					if err := tx.CreateCard(ctx, &card); err != nil {
						return err
					}
				}
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("seed demo topic: %w", err)
		}

		zap.L().Info("seeded demo topic", zap.String("topic_id", topic.ID.String()))
		fmt.Fprintln(cmd.OutOrStdout(), topic.ID)
		return nil
	},
}

func init() {
	migrateCmd.Flags().Bool("reset", false, "roll back every migration before applying")
	rootCmd.AddCommand(migrateCmd, seedCmd)
}
