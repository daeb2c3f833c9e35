package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var modulesCommand = &cobra.Command{
	Use:   "modules",
	Short: "List the content modules known to the registry",
	RunE:  runModules,
}

var (
	modConfigPath   string
	modResourceRoot string
	modJobsRoot     string
)

func init() {
	modulesCommand.Flags().StringVar(&modConfigPath, "config", "", "Path to config file (JSON or YAML)")
	modulesCommand.Flags().StringVar(&modResourceRoot, "resource-root", "", "Base directory holding templates and modules")
	modulesCommand.Flags().StringVar(&modJobsRoot, "jobs-root", "", "Directory job folders are created under")
	rootCmd.AddCommand(modulesCommand)
}

func runModules(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd, modConfigPath, modResourceRoot, modJobsRoot)
	if err != nil {
		return err
	}
	reg, _, err := loadComponents(cfg)
	if err != nil {
		return err
	}

	for _, m := range reg.Modules() {
		fmt.Printf("%-12s %-30s %s\n", m.ID, m.Name, m.Path)
	}
	return nil
}
