package main

import (
	"fmt"
	"os"

	"github.com/romanzh1/lingua-srs/internal/config"
	"github.com/romanzh1/lingua-srs/internal/logger"
	"github.com/romanzh1/lingua-srs/internal/repository"
	"github.com/romanzh1/lingua-srs/internal/service"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type app struct {
	cfg   *config.Config
	store *repository.Store
	svc   *service.Service
	flush func()
}

var (
	cfgFile string
	userID  int64
	current app
)

var rootCmd = &cobra.Command{
	Use:   "srs",
	Short: "FSRS-6 scheduler for bilingual flashcard decks",
	Long: `srs orders study sessions, records reviews and reports daily progress
for a learner using the FSRS-6 memory model.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(viper.GetViper(), cfgFile)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		flush, err := logger.Init(cfg.Log.Level)
		if err != nil {
			return err
		}

		store, err := repository.NewDB(cfg.Database.Driver, cfg.Database.DSN, cfg.Database.MaxIdle, cfg.Database.MaxOpen)
		if err != nil {
			flush()
			return err
		}

		if err = store.Up(); err != nil {
			zap.L().Error("run migrations", zap.Error(err), zap.String("driver", store.Driver()))
			_ = store.Close()
			flush()
			return err
		}

		current = app{
			cfg:   cfg,
			store: store,
			svc:   service.NewService(store, cfg.SRS()),
			flush: flush,
		}
		zap.L().Debug("store ready", zap.String("driver", store.Driver()))
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// shutdown closes the store and flushes the logger. It runs as a cobra finalizer,
// so failed commands release resources too.
func shutdown() {
	if current.store != nil {
		if err := current.store.Close(); err != nil {
			zap.L().Warn("close store", zap.Error(err))
		}
	}
	if current.flush != nil {
		current.flush()
	}
	current = app{}
}

func init() {
	cobra.OnFinalize(shutdown)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (yaml, toml or json)")
	flags.Int64Var(&userID, "user", 1, "learner id")
	flags.String("db-driver", "", "database driver: postgres or sqlite")
	flags.String("db-dsn", "", "database connection string")
	flags.String("log-level", "", "log level: debug, info, warn, error")

	bindFlagToViper("database.driver", flags.Lookup("db-driver"))
	bindFlagToViper("database.dsn", flags.Lookup("db-dsn"))
	bindFlagToViper("log.level", flags.Lookup("log-level"))
}

// bindFlagToViper lets an explicitly set flag override config and environment.
func bindFlagToViper(key string, flag *pflag.Flag) {
	if flag == nil {
		return
	}
	cobra.CheckErr(viper.BindPFlag(key, flag))
}
