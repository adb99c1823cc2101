package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentprobe/agentprobe/internal/format"
	"github.com/agentprobe/agentprobe/internal/plan"
)

var runCmd = &cobra.Command{
	Use:   "run <plan.yaml>",
	Short: "Run an evaluation plan",
	Long:  `Runs every case in a YAML plan sequentially. Each case builds a fresh target with its own contact URN and connection, so cases never share conversation state.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := plan.Load(args[0])
		if err != nil {
			return err
		}

		runner := &plan.Runner{
			NewTarget: func() (plan.Invoker, error) {
				return buildTarget(cmd)
			},
		}

		results := runner.Run(context.Background(), p)
		fmt.Fprintln(cmd.OutOrStdout(), format.New().Summary(results))

		if failed := plan.Failed(results); failed > 0 {
			return fmt.Errorf("%d of %d cases failed", failed, len(results))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().String("project", "", "Weni project UUID (overrides env and cache)")
	runCmd.Flags().String("token", "", "bearer token (overrides env and cache)")
}
