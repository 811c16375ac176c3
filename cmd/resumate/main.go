package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hyunjookim/resumate/pkg/logger"
	"github.com/hyunjookim/resumate/pkg/presenter"
)

func init() {
	// Environment variables
	viper.SetEnvPrefix("RESUMATE")
	viper.AutomaticEnv()

	// Config file support
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("$HOME/.resumate")
	viper.AddConfigPath(".resumate")

	// Load config file if it exists (ignore errors if it doesn't)
	_ = viper.ReadInConfig()
}

var rootCmd = &cobra.Command{
	Use:   "resumate",
	Short: "Turn diary-style work notes into resume-ready records",
	Long: `Resumate manages work experiences as versioned markdown documents.
Free-form notes go in as drafts, get refined through AI-assisted question
rounds, and come out as structured, resume-ready archives.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if level := viper.GetString("log_level"); level != "" {
			if err := logger.SetLogLevel(level); err != nil {
				presenter.Warning(fmt.Sprintf("Unknown log level %q, keeping default", level))
			}
		}
		logger.SetLogFormat(viper.GetString("log_format"))

		if viper.GetBool("quiet") {
			presenter.SetQuiet(true)
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
		os.Exit(1)
	},
}

// projectRoot resolves the directory all commands operate on.
func projectRoot() string {
	root := viper.GetString("root")
	if root == "" {
		root = "."
	}
	return root
}

func main() {
	rootCmd.PersistentFlags().String("root", ".", "Project root directory")
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "Log format (text, json)")
	rootCmd.PersistentFlags().Bool("quiet", false, "Suppress informational output")

	viper.BindPFlag("root", rootCmd.PersistentFlags().Lookup("root"))
	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))
	viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(refineCmd)
	rootCmd.AddCommand(archiveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
