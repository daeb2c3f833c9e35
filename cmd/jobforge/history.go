package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/obarouni/jobforge/internal/history"
)

var historyCommand = &cobra.Command{
	Use:   "history",
	Short: "List past generation runs recorded in the history database",
	RunE:  runHistory,
}

var (
	histConfigPath   string
	histResourceRoot string
	histJobsRoot     string
	histLimit        int
)

func init() {
	historyCommand.Flags().StringVar(&histConfigPath, "config", "", "Path to config file (JSON or YAML)")
	historyCommand.Flags().StringVar(&histResourceRoot, "resource-root", "", "Base directory holding templates and modules")
	historyCommand.Flags().StringVar(&histJobsRoot, "jobs-root", "", "Directory job folders are created under")
	historyCommand.Flags().IntVarP(&histLimit, "limit", "n", 20, "Maximum number of runs to show")
	rootCmd.AddCommand(historyCommand)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd, histConfigPath, histResourceRoot, histJobsRoot)
	if err != nil {
		return err
	}

	store, err := history.Open(cfg.HistoryDBAbs())
	if err != nil {
		return fmt.Errorf("failed to open run history: %w", err)
	}
	defer func() { _ = store.Close() }()

	runs, err := store.List(context.Background(), histLimit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		return nil
	}

	for _, r := range runs {
		fmt.Printf("%s  %-20s %-20s %s  %s\n",
			r.CreatedAt.Local().Format(time.DateTime),
			r.Company, r.Role, statusLabel(r), r.Folder)
	}
	return nil
}

func statusLabel(r history.Run) string {
	label := "cv:failed"
	if r.CVOK {
		label = "cv:ok"
	}
	if r.CoverOK != nil {
		if *r.CoverOK {
			label += " cover:ok"
		} else {
			label += " cover:failed"
		}
	}
	return label
}
