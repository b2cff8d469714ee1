// Package cli provides the command-line interface for the application.
package cli

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"newssense/internal/config"
	"newssense/internal/logging"
	"newssense/internal/marketdata"
	"newssense/internal/models"
	"newssense/internal/news"
	"newssense/internal/nlp"
	"newssense/internal/pipeline"
	"newssense/internal/store"
)

// Version information
const (
	Version   = "0.1.0"
	BuildDate = "2024-01-01"
)

// App holds the application dependencies.
type App struct {
	Config      *config.Config
	Logger      zerolog.Logger
	Store       store.DataStore
	Fetcher     news.Fetcher
	Interpreter nlp.Interpreter
	Instruments []models.Instrument
	Pipeline    *pipeline.Pipeline
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	// Instrument universe: configured JSON file or the built-in demo set
	instruments, err := marketdata.LoadInstruments(cfg.Data.InstrumentsFile)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to load instruments file, using demo universe")
		instruments = marketdata.DemoUniverse()
	}
	app.Instruments = instruments

	// News fetcher per configured provider
	switch cfg.News.Provider {
	case "scrape":
		app.Fetcher = news.NewScraper(news.ScraperConfig{
			MaxPerSource: cfg.News.MaxPerSource,
			Timeout:      cfg.News.Timeout(),
			RateLimit:    cfg.News.RateLimit(),
		}, logger)
		logger.Debug().Msg("Scraping news fetcher initialized")
	default:
		app.Fetcher = news.NewMockFeed(time.Now().UnixNano(), 0)
		logger.Debug().Msg("Demo news feed initialized")
	}

	// Initialize SQLite store
	dbPath := config.DefaultConfigDir() + "/newssense.db"
	dataStore, err := store.NewSQLiteStore(dbPath)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to initialize store, history features unavailable")
	} else {
		app.Store = dataStore
		logger.Debug().Msg("SQLite store initialized")
	}

	// Optional language-model interpreter
	if cfg.Credentials.OpenAI.APIKey != "" {
		app.Interpreter = nlp.NewOpenAIClient(cfg.Credentials.OpenAI.APIKey, cfg.Credentials.OpenAI.Model)
		logger.Debug().Str("model", cfg.Credentials.OpenAI.Model).Msg("OpenAI interpreter initialized")
	}

	opts := []pipeline.Option{
		pipeline.WithCacheTTL(cfg.Data.CacheTTL()),
		pipeline.WithPersistence(cfg.Data.PersistQueries, cfg.Data.PersistNews),
	}
	if app.Store != nil {
		opts = append(opts, pipeline.WithStore(app.Store))
	}
	if app.Interpreter != nil {
		opts = append(opts, pipeline.WithInterpreter(app.Interpreter))
	}
	app.Pipeline = pipeline.New(app.Instruments, app.Fetcher, logger, opts...)

	rootCmd := &cobra.Command{
		Use:   "newssense",
		Short: "NewsSense - why is my stock moving?",
		Long: `NewsSense answers plain-language questions about Indian stocks, ETFs and
mutual funds by connecting price movements to recent news.

Ask a question, get the matched instruments, the news driving them and a
grounded explanation.

Use 'newssense help <command>' for more information about a command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Handle debug flag
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/newssense)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	rootCmd.AddCommand(newVersionCmd(app))
	rootCmd.AddCommand(newConfigCmd(app))
	rootCmd.AddCommand(newAskCmd(app))
	rootCmd.AddCommand(newNewsCmd(app))
	rootCmd.AddCommand(newInstrumentsCmd(app))
	rootCmd.AddCommand(newHistoryCmd(app))
	rootCmd.AddCommand(newServeCmd(app))

	return rootCmd
}

func newVersionCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd, app.Config.UI)
			if output.IsJSON() {
				output.JSON(map[string]string{
					"version":    Version,
					"build_date": BuildDate,
				})
			} else {
				output.Printf("NewsSense v%s\n", Version)
				output.Dim("Build date: %s", BuildDate)
			}
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and manage application configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd, app.Config.UI)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			showConfig(output, app.Config)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration directory path",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd, app.Config.UI)
			if output.IsJSON() {
				output.JSON(map[string]string{"path": config.DefaultConfigDir()})
			} else {
				output.Println(config.DefaultConfigDir())
			}
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration files",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd, app.Config.UI)
			if err := app.Config.Validate(); err != nil {
				output.Error("Configuration validation failed: %v", err)
				return err
			}
			if output.IsJSON() {
				output.JSON(map[string]bool{"valid": true})
			} else {
				output.Success("✓ Configuration is valid")
			}
			return nil
		},
	})

	return cmd
}

func showConfig(output *Output, cfg *config.Config) {
	output.Bold("Data Configuration")
	output.Printf("  Data Dir:        %s\n", cfg.Data.Dir)
	output.Printf("  Cache TTL:       %s\n", cfg.Data.CacheTTL())
	output.Printf("  Persist Queries: %v\n", cfg.Data.PersistQueries)
	output.Printf("  Persist News:    %v\n", cfg.Data.PersistNews)
	output.Println()

	output.Bold("UI Configuration")
	output.Printf("  Color Enabled:   %v\n", cfg.UI.ColorEnabled)
	output.Printf("  Date Format:     %s\n", cfg.UI.DateFormat)
	output.Printf("  Time Format:     %s\n", cfg.UI.TimeFormat)
	output.Println()

	output.Bold("News Configuration")
	output.Printf("  Provider:        %s\n", cfg.News.Provider)
	output.Printf("  Max Per Source:  %d\n", cfg.News.MaxPerSource)
	output.Printf("  Request Timeout: %s\n", cfg.News.Timeout())
	output.Println()

	output.Bold("Server Configuration")
	output.Printf("  Address:         %s\n", cfg.Server.Addr)
	output.Printf("  Origins:         %v\n", cfg.Server.AllowedOrigins)
	output.Println()

	output.Bold("Language Model")
	output.Printf("  Configured:      %v\n", cfg.HasNLP())
	if cfg.HasNLP() {
		output.Printf("  Model:           %s\n", cfg.Credentials.OpenAI.Model)
	}
}
