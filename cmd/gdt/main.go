// Package main is the entry point for the growth dashboard. The root command
// runs the terminal UI; export builds the report once and writes the HTML page.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/j-veylop/growth-dashboard-tui/internal/app"
	"github.com/j-veylop/growth-dashboard-tui/internal/config"
	"github.com/j-veylop/growth-dashboard-tui/internal/logger"
	"github.com/j-veylop/growth-dashboard-tui/internal/services"
	"github.com/j-veylop/growth-dashboard-tui/internal/ui/tabs/counties"
	"github.com/j-veylop/growth-dashboard-tui/internal/ui/tabs/dashboard"
	"github.com/j-veylop/growth-dashboard-tui/internal/ui/tabs/info"
	"github.com/j-veylop/growth-dashboard-tui/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "gdt",
	Short: "Growth dashboard for revenue, energy delivery and county consumers",
	Long: `Growth dashboard for revenue, energy delivery and county consumers.

Reads three CSV files, derives growth metrics and renders a revenue chart,
an energy delivery chart and a county growth map.

Keyboard Shortcuts:
  1-3             Switch between tabs (Report, Counties, Notes)
  Tab/Shift+Tab   Navigate between tabs
  r               Rebuild the report
  b               Refetch county boundaries
  e               Export the HTML report
  ?               Toggle help
  q, Ctrl+C       Quit

Environment Variables:
  DATA_DIR, REVENUE_CSV, ENERGY_CSV, COUNTIES_CSV   Input files
  GEOJSON_URL                                       County boundaries (URL or file)
  GROWTH_ZERO_POLICY                                nan, exclude, zero or reject
  THEME_PATH, REPORT_PATH, DATABASE_PATH            Theme, export and cache paths
  WATCH_DATA, DESKTOP_NOTIFY                        Rebuild on change, notify
  LOG_FILE, LOG_LEVEL                               Logging`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runTUI,
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Build the report once and write it as HTML",
	RunE:  runExport,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version.Info())
	},
}

var exportPath string

func init() {
	exportCmd.Flags().StringVarP(&exportPath, "output", "o", "", "output file (default REPORT_PATH)")
	rootCmd.AddCommand(exportCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// setupLogging sends logs to LOG_FILE, or to fallback when none is set.
func setupLogging(cfg *config.Config, fallback io.Writer) (func() error, error) {
	if cfg.LogFile != "" {
		return logger.Init(cfg.LogFile, cfg.LogLevel)
	}
	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	logger.SetOutput(fallback, level)
	return func() error { return nil }, nil
}

func runTUI(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// The alternate screen owns the terminal, so logs go nowhere by default.
	closeLog, err := setupLogging(cfg, io.Discard)
	if err != nil {
		return err
	}
	defer closeLog()

	svcManager, err := services.NewManager(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	defer func() {
		if closeErr := svcManager.Close(); closeErr != nil {
			logger.Warn("Error closing services", "error", closeErr)
		}
	}()

	model := app.NewModel(svcManager)
	state := model.GetState()
	model.SetTabs([]app.Tab{
		dashboard.New(state),
		counties.New(state),
		info.New(state, cfg),
	})

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	p := tea.NewProgram(model, tea.WithAltScreen())

	go func() {
		<-sigChan
		p.Send(tea.Quit())
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}

func runExport(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	cfg.WatchData = false
	cfg.DesktopNotify = false

	closeLog, err := setupLogging(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer closeLog()

	svcManager, err := services.NewManager(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	defer svcManager.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rep, err := svcManager.Run(ctx, services.TriggerManual)
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}
	for _, name := range rep.Failed() {
		logger.Warn("Chart not rendered", slog.String("chart", name))
	}

	path, err := svcManager.Export(exportPath)
	if err != nil {
		return fmt.Errorf("failed to export report: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", path)
	return nil
}
