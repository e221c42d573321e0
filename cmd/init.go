package cmd

import (
	"github.com/spf13/cobra"

	"github.com/helpdeskhq/waverly/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize waverly configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure the assistant identity and generates a .waverly.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard(cfgFile)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
