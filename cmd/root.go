package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"reactsense/internal/version"
	"reactsense/pkg/log"
)

var (
	logLevel   string
	configFile string
)

var rootCmd = &cobra.Command{
	Use:   "reactsense",
	Short: "reactsense analyzes viewer emotions in reaction videos",
	Long: `Emotion analysis pipeline for ad reaction videos.
Version: ` + version.VERSION + `/` + version.COMMIT,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.InitLog(logLevel)
	},
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "l", "info", "Log level (debug, info, warn, error, fatal)")
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "etc/config.yaml", "Path to config file")

	rootCmd.AddCommand(serveCommand)
	rootCmd.AddCommand(workerCommand)
	rootCmd.AddCommand(updateDBCommand)
	rootCmd.AddCommand(analyzeCommand)
}
