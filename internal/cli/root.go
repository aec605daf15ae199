// Package cli implements tavaractl, the operator tool for roster imports,
// match inspection and manual assignment passes.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"tavara-care/internal/config"
	"tavara-care/internal/services/database"
	"tavara-care/internal/utils"
)

var (
	// Version info set from main
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"

	// Global flags
	outputFmt string
	logLevel  string

	cfg *config.Config
)

// SetVersionInfo sets version information from build flags
func SetVersionInfo(v, c, b string) {
	version = v
	commit = c
	buildTime = b
}

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "tavaractl",
	Short: "Operator tool for the Tavara.care matching service",
	Long: `tavaractl talks to the matching database directly.

It can:
  - import caregiver rosters from CSV
  - show the ranked caregiver list a family would see
  - run an assignment pass for a family
  - list a family's assignments`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if logLevel != "" {
			cfg.LogLevel = logLevel
		}
		return utils.InitLogger(cfg.LogLevel)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		utils.Sync()
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&outputFmt, "output", "o", "table",
		"output format (table, json)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"log level (debug, info, warn, error); defaults to LOG_LEVEL")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(rankCmd)
	rootCmd.AddCommand(assignCmd)
	rootCmd.AddCommand(assignmentsCmd)
}

// versionCmd shows version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "tavaractl %s\n", version)
		fmt.Fprintf(cmd.OutOrStdout(), "  commit: %s\n", commit)
		fmt.Fprintf(cmd.OutOrStdout(), "  built:  %s\n", buildTime)
	},
}

// openStore connects to the database. The returned func closes the pool.
func openStore(ctx context.Context) (*database.Store, func(), error) {
	db, err := database.New(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return database.NewStore(db), db.Close, nil
}
