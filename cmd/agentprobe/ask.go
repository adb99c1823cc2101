package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agentprobe/agentprobe/internal/config"
	"github.com/agentprobe/agentprobe/internal/format"
	"github.com/agentprobe/agentprobe/internal/weni"
)

var askCmd = &cobra.Command{
	Use:   "ask <prompt>",
	Short: "Send one prompt and print the agent's answer",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		target, err := buildTarget(cmd)
		if err != nil {
			return err
		}

		result, err := target.Invoke(context.Background(), strings.Join(args, " "))
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), format.New().Answer(result.Response, result.Data))
		return nil
	},
}

func buildTarget(cmd *cobra.Command) (*weni.Target, error) {
	project, _ := cmd.Flags().GetString("project")
	token, _ := cmd.Flags().GetString("token")

	timeout, err := config.DurationOrDefault(cfg.Weni.Timeout, config.DefaultWeniTimeout)
	if err != nil {
		return nil, err
	}

	return weni.New(weni.Options{
		ProjectUUID: firstNonEmpty(project, cfg.Weni.ProjectUUID),
		BearerToken: firstNonEmpty(token, cfg.Weni.BearerToken),
		Language:    cfg.Weni.Language,
		Timeout:     timeout,
		BaseURL:     cfg.Weni.BaseURL,
	})
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func init() {
	rootCmd.AddCommand(askCmd)
	askCmd.Flags().String("project", "", "Weni project UUID (overrides env and cache)")
	askCmd.Flags().String("token", "", "bearer token (overrides env and cache)")
}
