package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"nirman-fieldworks/internal/client/api"

	"github.com/spf13/cobra"
)

var worksCmd = &cobra.Command{
	Use:   "works",
	Short: "Work proposal operations",
}

var worksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List work proposals",
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := workClient.ListProposals(cmd.Context())
		if err != nil {
			return reportError(err)
		}

		proposals, err := api.ExtractProposals(raw)
		if err != nil {
			return fmt.Errorf("unexpected proposal list payload: %w", err)
		}

		if len(proposals) == 0 {
			fmt.Println("No work proposals found")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tSTATUS\tWORK")
		for _, p := range proposals {
			fmt.Fprintf(w, "%s\t%s\t%s\n", p.ID(), p.Status(), p.Title())
		}
		return w.Flush()
	},
}

var worksShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one work proposal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := workClient.GetProposal(cmd.Context(), args[0])
		if err != nil {
			return reportError(err)
		}
		printJSON(raw)
		return nil
	},
}

var worksSetStatusCmd = &cobra.Command{
	Use:   "set-status <id> <status>",
	Short: "Update the status of a work proposal",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		patch := map[string]interface{}{
			"currentStatus": args[1],
		}
		raw, err := workClient.UpdateProposal(cmd.Context(), args[0], patch)
		if err != nil {
			return reportError(err)
		}
		fmt.Println("✅ Work proposal updated")
		printJSON(raw)
		return nil
	},
}

func init() {
	worksCmd.AddCommand(worksListCmd)
	worksCmd.AddCommand(worksShowCmd)
	worksCmd.AddCommand(worksSetStatusCmd)
}
