package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/LindsayRex/searchfix/internal/index"
	"github.com/LindsayRex/searchfix/internal/privilege"
	"github.com/LindsayRex/searchfix/internal/remedy"
	"github.com/LindsayRex/searchfix/internal/service"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show target service and index artifact state",
	Long: "Query the live state of the target service and the presence of its index\n" +
		"artifacts. Read-only: nothing is mutated.",
	RunE:         runStatus,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	cfg, err := remedy.ParseConfig(cfgFile)
	if err != nil {
		return fmt.Errorf("searchfix status: %w", err)
	}
	if serviceName != "" {
		cfg.Service.Name = serviceName
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	logger := setupLogger(cfg.LogLevel)
	ctrl := service.NewSystemdController(cfg.Service, privilege.NewChecker(), logger)
	store := index.NewStore(cfg.Index, logger)

	w := cmd.OutOrStdout()

	st, err := ctrl.Query(cmd.Context(), cfg.Service.Name)
	if err != nil {
		fmt.Fprintf(w, "Service:      %s (query failed: %v)\n", cfg.Service.Name, err)
	} else {
		fmt.Fprintf(w, "Service:      %s\n", st.Name)
		fmt.Fprintf(w, "Run state:    %s\n", st.Run)
		fmt.Fprintf(w, "Startup mode: %s\n", st.Startup)
	}

	set := store.Locate()
	fmt.Fprintf(w, "Index root:   %s (%s)\n", set.RootPath, presence(set.RootPath))
	fmt.Fprintf(w, "Primary file: %s (%s)\n", set.PrimaryFile, presence(set.PrimaryFile))

	return nil
}

func presence(path string) string {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return "absent"
	}
	return "present"
}
