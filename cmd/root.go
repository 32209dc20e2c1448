package cmd

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/speedrun-tools/srcom/config"
	"github.com/speedrun-tools/srcom/srcom"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  zerolog.Logger
	client  *srcom.Client

	appVersion = "dev"
	buildTime  = "unknown"

	// Command flags
	mockMode    bool
	queryParams []string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "srcom",
	Short: "A CLI for browsing and moderating speedrun.com leaderboards",
	Long: `srcom talks to the speedrun.com REST API: look up games, users,
series and runs, search leaderboards with client-side filter expressions,
and perform moderation actions (verify, reject, delete runs).

Write operations require an API key in the configuration file.`,
	PersistentPreRunE: initializeApp,
}

// SetVersion sets the version information from build-time variables.
func SetVersion(version, built string) {
	appVersion = version
	buildTime = built
	rootCmd.Version = fmt.Sprintf("%s (built %s)", version, built)
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&mockMode, "mock", false, "serve reads from recorded fixtures instead of the live API")

	// Add subcommands
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(gameCmd)
	rootCmd.AddCommand(userCmd)
	rootCmd.AddCommand(seriesCmd)
	rootCmd.AddCommand(runCmd)
}

// initializeApp initializes the configuration, logger and API client
func initializeApp(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger = setupLogger(cfg.Logging)

	// Override mock mode from command line if specified
	if cmd.Flags().Changed("mock") {
		cfg.Mock.Enabled = mockMode
	}

	opts := []srcom.Option{
		srcom.WithBaseURL(cfg.API.BaseURL),
		srcom.WithTimeout(time.Duration(cfg.API.TimeoutS) * time.Second),
	}
	if cfg.API.APIKey != "" {
		opts = append(opts, srcom.WithAPIKey(cfg.API.APIKey))
	}
	if cfg.Mock.Enabled {
		opts = append(opts, srcom.WithMock(cfg.Mock.Dir))
		logger.Info().Str("dir", cfg.Mock.Dir).Msg("mock mode enabled")
	}

	client, err = srcom.New(cfg.API.UserAgent, logger, opts...)
	if err != nil {
		return fmt.Errorf("failed to create srcom client: %w", err)
	}

	return nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	// Set log level
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	// Configure output format
	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	// Console format; color only when the terminal can take it
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color || !isatty.IsTerminal(os.Stderr.Fd()),
	}

	return zerolog.New(output).With().Timestamp().Logger()
}

// getCmd performs a raw GET against any endpoint
var getCmd = &cobra.Command{
	Use:   "get <endpoint>",
	Short: "Perform a raw GET against an API endpoint",
	Long: `Perform a GET against any speedrun.com endpoint and print the JSON
data. Paginated collections are fetched completely.`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

func init() {
	getCmd.Flags().StringArrayVarP(&queryParams, "param", "p", nil, "query parameter as key=value (repeatable)")
}

func runGet(cmd *cobra.Command, args []string) error {
	query, err := parseQueryParams(queryParams)
	if err != nil {
		return err
	}

	data, err := client.Get(cmd.Context(), args[0], query)
	if err != nil {
		return err
	}
	return printJSON(data)
}

// gameCmd fetches a game by ID or abbreviation
var gameCmd = &cobra.Command{
	Use:   "game <id>",
	Short: "Fetch a game by ID or abbreviation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		game, err := client.GetGame(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(game)
	},
}

// userCmd fetches a user by ID or name
var userCmd = &cobra.Command{
	Use:   "user <id>",
	Short: "Fetch a user by ID or name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		user, err := client.GetUser(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(user)
	},
}

// seriesCmd fetches a series by ID or abbreviation
var seriesCmd = &cobra.Command{
	Use:   "series <id>",
	Short: "Fetch a series by ID or abbreviation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		series, err := client.GetSeries(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(series)
	},
}

// runCmd fetches a single run by ID
var runCmd = &cobra.Command{
	Use:   "run <id>",
	Short: "Fetch a run by ID",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		run, err := client.GetRun(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return printJSON(run)
	},
}

func parseQueryParams(params []string) (url.Values, error) {
	if len(params) == 0 {
		return nil, nil
	}
	query := url.Values{}
	for _, param := range params {
		key, value, found := strings.Cut(param, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("invalid query parameter %q (expected key=value)", param)
		}
		query.Add(key, value)
	}
	return query, nil
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
