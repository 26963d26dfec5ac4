package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/upb/task-simplifier/models"
)

func providersCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "providers",
		Short: "List every provider and whether it is configured",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := bootstrap(cmd.Context(), flags)
			if err != nil {
				return err
			}
			defer deps.Close(context.Background())

			status := deps.Manager.ProviderStatus()

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "PROVIDER\tNAME\tFAMILY\tCONFIGURED")
			for _, p := range models.AllProviders() {
				configured := "no"
				if status[p] {
					configured = "yes"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p, p.DisplayName(), p.Family(), configured)
			}
			return w.Flush()
		},
	}
}
