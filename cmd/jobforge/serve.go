package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/obarouni/jobforge/internal/server"
)

var serveCommand = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Long:  "Starts the REST API that accepts generation requests, runs each on a background worker, and reports run status and outcomes.",
	RunE:  runServe,
}

var (
	srvConfigPath   string
	srvResourceRoot string
	srvJobsRoot     string
	srvPort         int
)

func init() {
	serveCommand.Flags().StringVar(&srvConfigPath, "config", "", "Path to config file (JSON or YAML)")
	serveCommand.Flags().StringVar(&srvResourceRoot, "resource-root", "", "Base directory holding templates and modules")
	serveCommand.Flags().StringVar(&srvJobsRoot, "jobs-root", "", "Directory job folders are created under")
	serveCommand.Flags().IntVarP(&srvPort, "port", "p", 0, "Port to listen on (overrides config)")
	rootCmd.AddCommand(serveCommand)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd, srvConfigPath, srvResourceRoot, srvJobsRoot)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("port") {
		cfg.Port = srvPort
	}

	reg, resolver, err := loadComponents(cfg)
	if err != nil {
		return err
	}

	store := openHistory(cfg)
	if store != nil {
		defer func() { _ = store.Close() }()
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return server.New(cfg, reg, resolver, store).Start(ctx)
}
