package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentprobe/agentprobe/internal/store"
)

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Persist credentials into the weni-cli cache",
	Long:  `Writes the bearer token and/or project UUID into the weni-cli cache file (~/.weni_cli), so later invocations resolve them without flags or environment variables.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		token, _ := cmd.Flags().GetString("token")
		project, _ := cmd.Flags().GetString("project")
		if token == "" && project == "" {
			return fmt.Errorf("nothing to configure: pass --token and/or --project")
		}

		s := store.New()
		if token != "" {
			if err := s.Set(store.TokenKey, token); err != nil {
				return fmt.Errorf("persist token: %w", err)
			}
		}
		if project != "" {
			if err := s.Set(store.ProjectUUIDKey, project); err != nil {
				return fmt.Errorf("persist project UUID: %w", err)
			}
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Credentials written to %s\n", s.Path())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configureCmd)
	configureCmd.Flags().String("token", "", "bearer token to persist")
	configureCmd.Flags().String("project", "", "project UUID to persist")
}
