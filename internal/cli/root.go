package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vijay-prabhu/internmatch/internal/config"
	"github.com/vijay-prabhu/internmatch/internal/database"
	"github.com/vijay-prabhu/internmatch/internal/logger"
	"github.com/vijay-prabhu/internmatch/internal/matcher"
)

var (
	// Version info set from main
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"

	// Global flags
	configPath string
	outputFmt  string
	debugLog   bool
	jsonLog    bool
)

// SetVersionInfo sets version information from build flags
func SetVersionInfo(v, c, b string) {
	version = v
	commit = c
	buildTime = b
}

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "internmatch",
	Short: "Match students to internship listings",
	Long: `internmatch scores student profiles against internship listings and keeps
a ranked, explained match list per student.

It provides:
  - Profile and listing import from JSON or TOML files
  - Weighted matching on skills, location, sector, academics and more
  - Applications recorded against matches
  - MCP server for AI assistant integration`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"config file (default: ~/.config/internmatch/config.toml)")
	rootCmd.PersistentFlags().StringVarP(&outputFmt, "output", "o", "table",
		"output format (table, json)")
	rootCmd.PersistentFlags().BoolVar(&debugLog, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&jsonLog, "json", false, "log as JSON")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
}

func initConfig() {
	if configPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			os.Exit(1)
		}
		configPath = filepath.Join(home, ".config", "internmatch", "config.toml")
	}
}

// app bundles what most commands need
type app struct {
	cfg    *config.Config
	db     *database.DB
	logger *zap.Logger
}

// openApp loads configuration, builds the logger and opens the database
func openApp() (*app, error) {
	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return nil, err
	}

	log, err := logger.New(jsonLog || cfg.Logging.JSON, debugLog || cfg.Logging.Debug)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		return nil, err
	}

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	log.Debug("opened database", zap.String("path", cfg.Database.Path))
	return &app{cfg: cfg, db: db, logger: log}, nil
}

// engine builds a matching engine over the app database
func (a *app) engine(opts ...matcher.Option) (*matcher.Engine, error) {
	opts = append([]matcher.Option{
		matcher.WithLogger(a.logger),
		matcher.WithTimeout(a.cfg.Matching.Timeout()),
		matcher.WithWorkers(a.cfg.Matching.Workers),
	}, opts...)

	return matcher.New(a.db, a.db, a.db, opts...)
}

func (a *app) Close() {
	_ = a.logger.Sync()
	a.db.Close()
}

// versionCmd shows version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("internmatch %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built:  %s\n", buildTime)
	},
}
