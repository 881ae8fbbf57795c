package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/epeers/reservoirs/internal/services"
)

var statusCmd = &cobra.Command{
	Use:   "status [reservoir-id]",
	Short: "Print the daily status of a reservoir",
	Long: `Print the change between the two most recent readings of a reservoir.

The reservoir defaults to the basin reference (BASIN_REFERENCE). --json prints
the full summary instead of the message.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := cfg.BasinReference
		if len(args) == 1 {
			id = args[0]
		}
		asJSON, _ := cmd.Flags().GetBool("json")

		a, err := newApp(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, wc := services.NewWarningContext(cmd.Context())
		resp, err := a.svcs.Status.GetStatus(ctx, id)
		if err != nil {
			return err
		}
		resp.Warnings = wc.GetWarnings()

		if asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(resp)
		}
		fmt.Fprintln(cmd.OutOrStdout(), resp.Message)
		for _, w := range resp.Warnings {
			fmt.Fprintf(cmd.ErrOrStderr(), "  [%s] %s\n", w.Code, w.Message)
		}
		return nil
	},
}

func init() {
	statusCmd.Flags().Bool("json", false, "print the summary as JSON")
}
