package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/goliatone/go-catalogform/internal/tracing"
	"github.com/goliatone/go-catalogform/pkg/config"
)

var (
	cfgFile  string
	settings config.Settings
	logger   = zerolog.Nop()
	tracer   *tracing.Provider
)

var rootCmd = &cobra.Command{
	Use:   "catalogform",
	Short: "Schema-driven edit forms for STAC catalog documents",
	Long: `catalogform composes plugin contributions into a single edit form for a
catalog document, validates form data against the composed schema and turns
form data back into a document.

Examples:
  catalogform form collection.json
  catalogform validate collection.json --form-data form.json
  catalogform schema --openapi
  catalogform serve --addr :8080
  catalogform watch collection.json`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if err := settings.Validate(); err != nil {
			return err
		}
		logger = newLogger(cmd.ErrOrStderr(), settings.Log)

		provider, err := tracing.NewProvider(cmd.Context(), tracing.Config{
			Enabled:      settings.Tracing.Enabled,
			Exporter:     settings.Tracing.Exporter,
			OTLPEndpoint: settings.Tracing.OTLPEndpoint,
			SampleRate:   settings.Tracing.SampleRate,
			Writer:       cmd.ErrOrStderr(),
		})
		if err != nil {
			return err
		}
		tracer = provider
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
		if tracer == nil {
			return nil
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return tracer.Shutdown(ctx)
	},
}

// Execute runs the root command. SIGINT and SIGTERM cancel the command
// context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate)

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&cfgFile, "config", "c", "", "config file (default: ./catalogform.yaml)")
	flags.String("log-level", "", "log level: trace, debug, info, warn, error")
	flags.String("log-format", "", "log format: console or json")
	flags.StringSlice("extensions", nil, "extension plugins to enable (item-assets, render)")
	flags.String("plugins-dir", "", "directory of declarative plugin documents")
	flags.Bool("trace", false, "export composition spans (see tracing.exporter)")

	_ = viper.BindPFlag("log.level", flags.Lookup("log-level"))
	_ = viper.BindPFlag("log.format", flags.Lookup("log-format"))
	_ = viper.BindPFlag("plugins.extensions", flags.Lookup("extensions"))
	_ = viper.BindPFlag("plugins.dir", flags.Lookup("plugins-dir"))
	_ = viper.BindPFlag("tracing.enabled", flags.Lookup("trace"))
}

func initConfig() {
	defaults := config.Defaults()
	viper.SetDefault("log.level", defaults.Log.Level)
	viper.SetDefault("log.format", defaults.Log.Format)
	viper.SetDefault("http.addr", defaults.HTTP.Addr)
	viper.SetDefault("metrics.enabled", defaults.Metrics.Enabled)
	viper.SetDefault("plugins.extensions", defaults.Plugins.Extensions)
	viper.SetDefault("plugins.dir", defaults.Plugins.Dir)
	viper.SetDefault("tracing.enabled", defaults.Tracing.Enabled)
	viper.SetDefault("tracing.exporter", defaults.Tracing.Exporter)
	viper.SetDefault("tracing.otlp_endpoint", defaults.Tracing.OTLPEndpoint)
	viper.SetDefault("tracing.sample_rate", defaults.Tracing.SampleRate)

	viper.SetEnvPrefix("CATALOGFORM")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName("catalogform")
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || cfgFile != "" {
			fmt.Fprintf(os.Stderr, "catalogform: reading config: %v\n", err)
		}
	}

	if err := viper.Unmarshal(&settings); err != nil {
		fmt.Fprintf(os.Stderr, "catalogform: decoding config: %v\n", err)
	}
}

func newLogger(out io.Writer, cfg config.LogSettings) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(cfg.Level)))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	if strings.EqualFold(strings.TrimSpace(cfg.Format), "json") {
		return zerolog.New(out).Level(level).With().Timestamp().Logger()
	}
	output := zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	return zerolog.New(output).Level(level).With().Timestamp().Logger()
}
