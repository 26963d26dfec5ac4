package main

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/spf13/cobra"
)

func simplifyCmd(flags *globalFlags) *cobra.Command {
	var provider string

	cmd := &cobra.Command{
		Use:   "simplify [--provider name] <task...>",
		Short: "Rewrite a task description and print the result as JSON",
		Long: `Rewrite a task description. With --provider only that provider is
called; without it every configured provider is called concurrently and the
shortest successful rewrite wins.

A failed rewrite is not a command error: the JSON result carries
success=false, the error, and the original task.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			deps, err := bootstrap(ctx, flags)
			if err != nil {
				return err
			}
			defer deps.Close(context.Background())

			task := strings.Join(args, " ")
			result := deps.Manager.Simplify(ctx, task, provider)

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}

	cmd.Flags().StringVarP(&provider, "provider", "p", "", "Provider to use (default: all configured)")
	return cmd
}
