package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/LindsayRex/searchfix/internal/index"
	"github.com/LindsayRex/searchfix/internal/permission"
	"github.com/LindsayRex/searchfix/internal/privilege"
	"github.com/LindsayRex/searchfix/internal/remedy"
	"github.com/LindsayRex/searchfix/internal/repair"
	"github.com/LindsayRex/searchfix/internal/service"
	"github.com/LindsayRex/searchfix/internal/startupconf"
)

var forceStop bool

// errRemediationFailed signals a non-zero exit after the report has already
// been rendered.
var errRemediationFailed = errors.New("searchfix: service is not running after remediation")

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Perform one remediation pass",
	Long: "Run all remediations against the target service: stop it, clear the index\n" +
		"artifacts, set automatic-delayed startup, restart, and verify. Exits 0 when\n" +
		"the service is running afterwards (even if individual steps degraded),\n" +
		"non-zero when it is not.",
	RunE:          runRun,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	runCmd.Flags().BoolVar(&forceStop, "force-stop", false, "follow the stop request with a kill signal")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, _ []string) error {
	cfg, err := remedy.ParseConfig(cfgFile)
	if err != nil {
		return fmt.Errorf("searchfix run: %w", err)
	}

	// Apply CLI flag overrides.
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if serviceName != "" {
		cfg.Service.Name = serviceName
	}
	if forceStop {
		cfg.ForceStop = true
	}

	logger := setupLogger(cfg.LogLevel)
	logger.Info("starting remediation pass",
		"version", buildVersion,
		"service", cfg.Service.Name,
	)

	orch := buildOrchestrator(cfg, logger)

	// No cancellation by design: once started, a pass runs to completion so
	// the host is not left mid-remediation. Blocking OS calls carry their
	// own timeouts.
	report := orch.Run(context.Background())

	fmt.Fprint(cmd.OutOrStdout(), renderReport(report))

	if report.Overall == remedy.Failed {
		fmt.Fprintln(cmd.ErrOrStderr(), "searchfix: remediation failed; a full OS restart is the remaining option")
		return errRemediationFailed
	}
	return nil
}

// buildOrchestrator wires the production components.
func buildOrchestrator(cfg remedy.Config, logger *slog.Logger) *remedy.Orchestrator {
	priv := privilege.NewChecker()
	return remedy.NewOrchestrator(
		cfg,
		service.NewSystemdController(cfg.Service, priv, logger),
		index.NewStore(cfg.Index, logger),
		startupconf.NewStore(cfg.Startup, logger),
		permission.NewEscalator(priv, logger),
		repair.NewInvoker(cfg.Repair, logger),
		logger,
	)
}

func setupLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
