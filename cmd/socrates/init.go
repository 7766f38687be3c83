package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a Socrates workspace in the current directory",
	Long: `Initialize a Socrates workspace by creating a .socrates/ directory
with a SQLite database and a default configuration file.

Example:
  cd ~/myproject
  socrates init
  socrates project create "My App"`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Opening the store during setup already created the database and
		// schema; write a starter config file alongside it if absent.
		if _, err := os.Stat(cfgPath); os.IsNotExist(err) {
			if err := os.MkdirAll(filepath.Dir(cfgPath), 0755); err != nil {
				return fmt.Errorf("failed to create config directory: %w", err)
			}
			data, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("failed to render config: %w", err)
			}
			if err := os.WriteFile(cfgPath, data, 0644); err != nil {
				return fmt.Errorf("failed to write config: %w", err)
			}
		}

		green := color.New(color.FgGreen).SprintFunc()
		cyan := color.New(color.FgCyan).SprintFunc()
		fmt.Printf("\n%s Initialized Socrates workspace\n\n", green("✓"))
		fmt.Printf("  Database: %s\n", cyan(cfg.DBPath))
		fmt.Printf("  Config:   %s\n", cyan(cfgPath))
		fmt.Println()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
