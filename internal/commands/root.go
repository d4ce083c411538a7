package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/stmtimport/internal/buildinfo"
	"github.com/cleared-dev/stmtimport/internal/config"
	"github.com/cleared-dev/stmtimport/internal/logger"
)

// globalFlags are the persistent flags shared by every subcommand.
type globalFlags struct {
	configPath string
	logLevel   string
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	g := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:     "stmtimport",
		Short:   "Normalize bank export files into structured transactions",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level, err := logger.ParseLevel(g.logLevel)
			if err != nil {
				return err
			}
			log := logger.New(cmd.ErrOrStderr(), level)
			cmd.SetContext(logger.WithContext(cmd.Context(), log))
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&g.configPath, "config", "stmtimport.yaml", "path to the import configuration")
	rootCmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newParseCommand(g))
	rootCmd.AddCommand(newDetectCommand(g))
	rootCmd.AddCommand(newScanCommand(g))
	rootCmd.AddCommand(newImportCommand(g))
	rootCmd.AddCommand(newHistoryCommand(g))

	return rootCmd
}

// loadConfig loads the config, or the defaults when the file is missing.
// Relative paths in it resolve against the config file's directory.
func (g *globalFlags) loadConfig() (*config.Config, error) {
	cfg, err := config.LoadOrDefault(g.configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	cfg.ResolvePaths(filepath.Dir(g.configPath))
	return cfg, nil
}
