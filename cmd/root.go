package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "waverly",
	Short: "WhatsApp customer support assistant with retrieval-grounded replies",
	Long: `Waverly answers WhatsApp customer messages using a business knowledge
base, a configurable personality, and CRM context. Replies are grounded
in retrieved knowledge; conversations that need a human are handed off
instead of answered.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".waverly.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
