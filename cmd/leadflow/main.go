package main

import (
	"fmt"
	"os"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/xavierca1/leadflow/internal/config"
)

var version = "dev"

var (
	envFile string
	verbose bool

	cfg    config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "leadflow",
	Short: "Lead qualification and outreach with Grok",
	Long: `leadflow stores B2B leads, scores them with a Grok model and drafts
first-touch outreach. Without GROK_API_KEY every model call runs dry.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(envFile)
		if err != nil {
			return err
		}

		zcfg := zap.NewProductionConfig()
		if verbose || cfg.LogLevel == "debug" {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		if cfg.SentryDSN != "" {
			err := sentry.Init(sentry.ClientOptions{
				Dsn:              cfg.SentryDSN,
				Environment:      cfg.Environment,
				Release:          "leadflow@" + version,
				EnableTracing:    true,
				TracesSampleRate: 0.2,
			})
			if err != nil {
				logger.Warn("sentry init failed", zap.Error(err))
			}
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if cfg.SentryDSN != "" {
			sentry.Flush(2 * time.Second)
		}
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file read before the environment")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(serveCmd, workerCmd, evalCmd, exportCmd, clearCmd, addLeadCmd, qualifyCmd, outreachCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if cfg.SentryDSN != "" {
			sentry.CaptureException(err)
			sentry.Flush(2 * time.Second)
		}
		os.Exit(1)
	}
}
