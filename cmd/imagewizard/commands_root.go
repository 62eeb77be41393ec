package main

import (
	"fmt"

	"github.com/sourceplane/imagewizard/internal/config"
	"github.com/sourceplane/imagewizard/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var (
	cfgFile   string
	appConfig *config.Config
	logger    = logging.NewNop()
)

var rootCmd = &cobra.Command{
	Use:          "imagewizard",
	Short:        "Blueprint import and wizard checks for image builds",
	Long:         "imagewizard normalizes hosted and on-premises blueprint files into wizard state and runs the wizard's step, review and field checks on it",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(nil, cfgFile)
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		appConfig = cfg

		l, err := logging.New(logging.Config{
			Level:       cfg.LogLevel,
			Development: cfg.LogDevelopment,
		})
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&cfgFile, "config", "c", "", "Config file (default ./imagewizard.yaml or $HOME/.imagewizard/imagewizard.yaml)")
	flags.Int64("max-file-size", config.Defaults["max-file-size"].(int64), "Largest accepted import file in bytes")
	flags.String("schema-path", "", "Hosted export schema (JSON or YAML) to use instead of the built-in one")
	flags.String("history-db", config.Defaults["history-db"].(string), "SQLite database for import history")
	flags.Bool("history-enabled", true, "Record imports in the history database")
	flags.String("s3-region", config.Defaults["s3-region"].(string), "AWS region for s3:// import sources")
	flags.Bool("s3-anonymous", false, "Read s3:// import sources without credentials")
	flags.String("log-level", "info", "Log level (debug, info, warn, error)")
	flags.Bool("log-development", false, "Human-readable development logging")
	flags.StringP("output-format", "o", "json", "Output format for wizard state (json or yaml)")
	bindFlags(flags)

	registerImportCommand(rootCmd)
	registerReviewCommand(rootCmd)
	registerStepsCommand(rootCmd)
	registerValidateCommand(rootCmd)
	registerHistoryCommand(rootCmd)
	registerServeCommand(rootCmd)
	registerDebugCommand(rootCmd)
}

// bindFlags exposes every flag except --config as a viper key of the same name
func bindFlags(flags *pflag.FlagSet) {
	flags.VisitAll(func(f *pflag.Flag) {
		if f.Name == "config" {
			return
		}
		_ = viper.BindPFlag(f.Name, f)
	})
}
