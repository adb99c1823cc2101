package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/agentprobe/agentprobe/internal/config"
	"github.com/agentprobe/agentprobe/internal/logger"
)

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "agentprobe",
	Short: "Evaluation harness for Weni-hosted agents",
	Long:  `Agentprobe sends prompts to an agent hosted on the Weni platform and recovers its asynchronous answers, one request/response cycle per invocation.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Optional .env in the working directory, mirroring the platform CLIs.
		_ = godotenv.Load()

		var err error
		cfg, err = config.Load(cmd)
		if err != nil {
			return err
		}

		logger.Setup(cfg.Log.Level)
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.agentprobe/config.yaml)")
	rootCmd.PersistentFlags().String("log.level", config.DefaultLogLevel, "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("weni.base_url", config.DefaultWeniBaseURL, "Weni platform base URL")
	rootCmd.PersistentFlags().String("weni.language", config.DefaultWeniLanguage, "language sent with prompts")
	rootCmd.PersistentFlags().String("weni.timeout", config.DefaultWeniTimeout, "how long to wait for the agent's answer")
}
