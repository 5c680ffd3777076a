package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/casetrack/casetrack/cmd/casectl/cmd"
	"github.com/casetrack/casetrack/internal/config"
	"github.com/casetrack/casetrack/internal/logger"
)

func main() {
	cfg := config.LoadDatabase()
	logger.Init(logger.Options{
		Development: cfg.IsDevelopment(),
		Service:     "casectl",
	})

	rootCmd := &cobra.Command{
		Use:          "casectl",
		Short:        "Administrative tasks for casetrack",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(cmd.MigrateCmd(cfg))
	rootCmd.AddCommand(cmd.UserCmd(cfg))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
