package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yigit/kaddem/internal/app/services"
	"github.com/yigit/kaddem/internal/bootstrap"
	"github.com/yigit/kaddem/internal/config"
	"github.com/yigit/kaddem/internal/pkg/logger"
)

// cli carries what every subcommand needs once the root has run
type cli struct {
	configPath string
	verbose    bool
	svc        *services.DashboardService
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   "kaddemctl",
		Short: "Kaddem dashboard from the terminal",
		Long: `kaddemctl talks to the Kaddem backend directly and prints the
dashboard panels as tables: counts, the students-by-option histogram,
recent students and the student list. Student mutations go through the
same validation as the dashboard API.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}

	defaultConfig := os.Getenv("KADDEM_CONFIG")
	if defaultConfig == "" {
		defaultConfig = config.DefaultPath
	}
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", defaultConfig, "Path to the YAML configuration")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "Log backend calls to stderr")

	root.AddCommand(
		c.statsCmd(),
		c.histogramCmd(),
		c.recentCmd(),
		c.refreshCmd(),
		c.studentsCmd(),
	)
	return root
}

func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadConfig(c.configPath)
	if err != nil {
		return err
	}

	level := logger.ErrorLevel
	if c.verbose {
		level = logger.DebugLevel
	}
	// stdout is reserved for tables
	lgr := logger.Configure(logger.Config{
		Level:     level,
		Pretty:    true,
		Output:    cmd.ErrOrStderr(),
		Component: "kaddemctl",
	})

	client, err := bootstrap.NewBackendClient(cfg, lgr)
	if err != nil {
		return fmt.Errorf("backend client: %w", err)
	}
	_, c.svc = bootstrap.NewDashboardService(cfg, client, lgr)
	return nil
}
